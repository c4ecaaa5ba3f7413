// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.
//
// Function dispatch is a dense enum-indexed table (one handler per
// FunctionKind discriminant), per spec §9's design note to avoid
// name-keyed maps on the hot evaluation path — this intentionally departs
// from the teacher's reflection-based callFuncByName (spec §9 / SPEC_FULL
// §F "Redesign flags"). The name→FunctionKind map below is only consulted
// once, by the parser, when a formula is first parsed.
package ironcalc

// FunctionKind enumerates every built-in function the parser recognises.
// Families are grouped by spec §4.6. Values come from iota in declaration
// order, so adding a function anywhere but the very end of the list
// renumbers every kind declared after it.
type FunctionKind int

const (
	FnUnknown FunctionKind = iota

	// Arithmetic / rounding / trig / log.
	FnSUM
	FnSUMIF
	FnSUMIFS
	FnPRODUCT
	FnABS
	FnSIGN
	FnSQRT
	FnPOWER
	FnEXP
	FnLN
	FnLOG
	FnLOG10
	FnMOD
	FnQUOTIENT
	FnROUND
	FnROUNDUP
	FnROUNDDOWN
	FnCEILING
	FnFLOOR
	FnTRUNC
	FnINT
	FnSIN
	FnCOS
	FnTAN
	FnATAN
	FnATAN2
	FnPI
	FnRAND
	FnRANDBETWEEN
	FnGCD
	FnLCM
	FnSUMPRODUCT
	FnSUMX2MY2
	FnSUMX2PY2
	FnSUMXMY2

	// Matrix.
	FnMMULT
	FnMINVERSE
	FnMDETERM
	FnTRANSPOSE

	// Statistical.
	FnAVERAGE
	FnAVERAGEIF
	FnAVERAGEIFS
	FnCOUNT
	FnCOUNTA
	FnCOUNTBLANK
	FnCOUNTIF
	FnCOUNTIFS
	FnMAX
	FnMIN
	FnMAXIFS
	FnMINIFS
	FnMEDIAN
	FnMODE
	FnSTDEV
	FnSTDEVP
	FnVAR
	FnVARP
	FnSKEW
	FnLARGE
	FnSMALL
	FnPERCENTILE
	FnQUARTILE
	FnRANK
	FnCORREL
	FnCOVARIANCE_P
	FnCOVARIANCE_S
	FnCHISQ_TEST
	FnCHISQ_DIST
	FnNORM_DIST
	FnNORM_S_DIST
	FnNORM_INV
	FnCONFIDENCE_NORM
	FnBINOM_DIST
	FnNEGBINOM_DIST
	FnF_DIST
	FnFISHER
	FnFISHERINV

	// Financial.
	FnPMT
	FnIPMT
	FnPPMT
	FnFV
	FnPV
	FnNPER
	FnRATE
	FnNPV
	FnIRR
	FnMIRR
	FnXIRR
	FnISPMT
	FnRRI
	FnSLN
	FnSYD
	FnDB
	FnDDB
	FnTBILLEQ
	FnTBILLPRICE
	FnTBILLYIELD
	FnDOLLARDE
	FnDOLLARFR
	FnCUMIPMT
	FnCUMPRINC
	FnDURATION
	FnMDURATION
	FnPRICE
	FnYIELD

	// Date & time.
	FnDATE
	FnTODAY
	FnNOW
	FnYEAR
	FnMONTH
	FnDAY
	FnHOUR
	FnMINUTE
	FnSECOND
	FnEDATE
	FnEOMONTH
	FnNETWORKDAYS
	FnNETWORKDAYS_INTL
	FnWORKDAY
	FnWORKDAY_INTL
	FnWEEKDAY
	FnWEEKNUM
	FnDATEDIF
	FnDATEVALUE
	FnTIMEVALUE
	FnTIME

	// Logical.
	FnIF
	FnIFS
	FnSWITCH
	FnIFERROR
	FnIFNA
	FnAND
	FnOR
	FnXOR_
	FnNOT
	FnTRUE_
	FnFALSE_

	// Information.
	FnISBLANK
	FnISNUMBER
	FnISTEXT
	FnISNONTEXT
	FnISLOGICAL
	FnISERROR
	FnISERR
	FnISNA
	FnISREF
	FnISFORMULA
	FnISEVEN
	FnISODD
	FnN
	FnNA
	FnTYPE
	FnSHEET
	FnSHEETS
	FnCELL
	FnERROR_TYPE

	// Lookup.
	FnVLOOKUP
	FnHLOOKUP
	FnXLOOKUP
	FnINDEX
	FnMATCH
	FnOFFSET
	FnINDIRECT
	FnCHOOSE
	FnROW
	FnCOLUMN
	FnROWS
	FnCOLUMNS
	FnADDRESS
	FnLOOKUP

	// Text.
	FnCONCATENATE
	FnCONCAT
	FnTEXTJOIN
	FnLEFT
	FnRIGHT
	FnMID
	FnLEN
	FnFIND
	FnSEARCH
	FnREPLACE
	FnSUBSTITUTE
	FnUPPER
	FnLOWER
	FnPROPER
	FnTRIM
	FnCLEAN
	FnT
	FnTEXT
	FnVALUE
	FnNUMBERVALUE
	FnREPT
	FnEXACT

	// Engineering.
	FnBIN2DEC
	FnBIN2HEX
	FnBIN2OCT
	FnDEC2BIN
	FnDEC2HEX
	FnDEC2OCT
	FnHEX2DEC
	FnHEX2BIN
	FnHEX2OCT
	FnOCT2DEC
	FnOCT2BIN
	FnOCT2HEX
	FnCONVERT
	FnBESSELJ
	FnBESSELY
	FnBESSELI
	FnBESSELK
	FnBITAND
	FnBITOR
	FnBITXOR
	FnBITLSHIFT
	FnBITRSHIFT

	// Database.
	FnDSUM
	FnDMIN
	FnDMAX
	FnDAVERAGE
	FnDCOUNT
	FnDCOUNTA
	FnDGET
	FnDPRODUCT
	FnDVAR
	FnDVARP
	FnDSTDEV
	FnDSTDEVP

	fnKindCount
)

// functionNames maps canonical (English, locale-neutral) function names to
// their FunctionKind. Alternate spellings with dots (e.g. "NORM.DIST") are
// listed alongside the no-dot legacy alias where Excel accepts both.
var functionNames = map[string]FunctionKind{
	"SUM": FnSUM, "SUMIF": FnSUMIF, "SUMIFS": FnSUMIFS, "PRODUCT": FnPRODUCT,
	"ABS": FnABS, "SIGN": FnSIGN, "SQRT": FnSQRT, "POWER": FnPOWER, "EXP": FnEXP,
	"LN": FnLN, "LOG": FnLOG, "LOG10": FnLOG10, "MOD": FnMOD, "QUOTIENT": FnQUOTIENT,
	"ROUND": FnROUND, "ROUNDUP": FnROUNDUP, "ROUNDDOWN": FnROUNDDOWN,
	"CEILING": FnCEILING, "FLOOR": FnFLOOR, "TRUNC": FnTRUNC, "INT": FnINT,
	"SIN": FnSIN, "COS": FnCOS, "TAN": FnTAN, "ATAN": FnATAN, "ATAN2": FnATAN2,
	"PI": FnPI, "RAND": FnRAND, "RANDBETWEEN": FnRANDBETWEEN, "GCD": FnGCD, "LCM": FnLCM,
	"SUMPRODUCT": FnSUMPRODUCT, "SUMX2MY2": FnSUMX2MY2, "SUMX2PY2": FnSUMX2PY2, "SUMXMY2": FnSUMXMY2,

	"MMULT": FnMMULT, "MINVERSE": FnMINVERSE, "MDETERM": FnMDETERM, "TRANSPOSE": FnTRANSPOSE,

	"AVERAGE": FnAVERAGE, "AVERAGEIF": FnAVERAGEIF, "AVERAGEIFS": FnAVERAGEIFS,
	"COUNT": FnCOUNT, "COUNTA": FnCOUNTA, "COUNTBLANK": FnCOUNTBLANK,
	"COUNTIF": FnCOUNTIF, "COUNTIFS": FnCOUNTIFS, "MAX": FnMAX, "MIN": FnMIN,
	"MAXIFS": FnMAXIFS, "MINIFS": FnMINIFS, "MEDIAN": FnMEDIAN, "MODE": FnMODE,
	"STDEV": FnSTDEV, "STDEV.S": FnSTDEV, "STDEVP": FnSTDEVP, "STDEV.P": FnSTDEVP,
	"VAR": FnVAR, "VAR.S": FnVAR, "VARP": FnVARP, "VAR.P": FnVARP, "SKEW": FnSKEW,
	"LARGE": FnLARGE, "SMALL": FnSMALL, "PERCENTILE": FnPERCENTILE, "PERCENTILE.INC": FnPERCENTILE,
	"QUARTILE": FnQUARTILE, "QUARTILE.INC": FnQUARTILE, "RANK": FnRANK, "RANK.EQ": FnRANK,
	"CORREL": FnCORREL, "COVARIANCE.P": FnCOVARIANCE_P, "COVARIANCE.S": FnCOVARIANCE_S,
	"CHISQ.TEST": FnCHISQ_TEST, "CHISQ.DIST": FnCHISQ_DIST, "NORM.DIST": FnNORM_DIST,
	"NORMDIST": FnNORM_DIST, "NORM.S.DIST": FnNORM_S_DIST, "NORM.INV": FnNORM_INV,
	"NORMINV": FnNORM_INV, "CONFIDENCE.NORM": FnCONFIDENCE_NORM, "CONFIDENCE": FnCONFIDENCE_NORM,
	"BINOM.DIST": FnBINOM_DIST, "BINOMDIST": FnBINOM_DIST, "NEGBINOM.DIST": FnNEGBINOM_DIST,
	"F.DIST": FnF_DIST, "FISHER": FnFISHER, "FISHERINV": FnFISHERINV,

	"PMT": FnPMT, "IPMT": FnIPMT, "PPMT": FnPPMT, "FV": FnFV, "PV": FnPV, "NPER": FnNPER,
	"RATE": FnRATE, "NPV": FnNPV, "IRR": FnIRR, "MIRR": FnMIRR, "XIRR": FnXIRR,
	"ISPMT": FnISPMT, "RRI": FnRRI, "SLN": FnSLN, "SYD": FnSYD, "DB": FnDB, "DDB": FnDDB,
	"TBILLEQ": FnTBILLEQ, "TBILLPRICE": FnTBILLPRICE, "TBILLYIELD": FnTBILLYIELD,
	"DOLLARDE": FnDOLLARDE, "DOLLARFR": FnDOLLARFR, "CUMIPMT": FnCUMIPMT, "CUMPRINC": FnCUMPRINC,
	"DURATION": FnDURATION, "MDURATION": FnMDURATION, "PRICE": FnPRICE, "YIELD": FnYIELD,

	"DATE": FnDATE, "TODAY": FnTODAY, "NOW": FnNOW, "YEAR": FnYEAR, "MONTH": FnMONTH,
	"DAY": FnDAY, "HOUR": FnHOUR, "MINUTE": FnMINUTE, "SECOND": FnSECOND,
	"EDATE": FnEDATE, "EOMONTH": FnEOMONTH, "NETWORKDAYS": FnNETWORKDAYS,
	"NETWORKDAYS.INTL": FnNETWORKDAYS_INTL, "WORKDAY": FnWORKDAY, "WORKDAY.INTL": FnWORKDAY_INTL,
	"WEEKDAY": FnWEEKDAY, "WEEKNUM": FnWEEKNUM, "DATEDIF": FnDATEDIF,
	"DATEVALUE": FnDATEVALUE, "TIMEVALUE": FnTIMEVALUE, "TIME": FnTIME,

	"IF": FnIF, "IFS": FnIFS, "SWITCH": FnSWITCH, "IFERROR": FnIFERROR, "IFNA": FnIFNA,
	"AND": FnAND, "OR": FnOR, "XOR": FnXOR_, "NOT": FnNOT, "TRUE": FnTRUE_, "FALSE": FnFALSE_,

	"ISBLANK": FnISBLANK, "ISNUMBER": FnISNUMBER, "ISTEXT": FnISTEXT, "ISNONTEXT": FnISNONTEXT,
	"ISLOGICAL": FnISLOGICAL, "ISERROR": FnISERROR, "ISERR": FnISERR, "ISNA": FnISNA,
	"ISREF": FnISREF, "ISFORMULA": FnISFORMULA, "ISEVEN": FnISEVEN, "ISODD": FnISODD,
	"N": FnN, "NA": FnNA, "TYPE": FnTYPE, "SHEET": FnSHEET, "SHEETS": FnSHEETS,
	"CELL": FnCELL, "ERROR.TYPE": FnERROR_TYPE,

	"VLOOKUP": FnVLOOKUP, "HLOOKUP": FnHLOOKUP, "XLOOKUP": FnXLOOKUP, "INDEX": FnINDEX,
	"MATCH": FnMATCH, "OFFSET": FnOFFSET, "INDIRECT": FnINDIRECT, "CHOOSE": FnCHOOSE,
	"ROW": FnROW, "COLUMN": FnCOLUMN, "ROWS": FnROWS, "COLUMNS": FnCOLUMNS,
	"ADDRESS": FnADDRESS, "LOOKUP": FnLOOKUP,

	"CONCATENATE": FnCONCATENATE, "CONCAT": FnCONCAT, "TEXTJOIN": FnTEXTJOIN,
	"LEFT": FnLEFT, "RIGHT": FnRIGHT, "MID": FnMID, "LEN": FnLEN, "FIND": FnFIND,
	"SEARCH": FnSEARCH, "REPLACE": FnREPLACE, "SUBSTITUTE": FnSUBSTITUTE, "UPPER": FnUPPER,
	"LOWER": FnLOWER, "PROPER": FnPROPER, "TRIM": FnTRIM, "CLEAN": FnCLEAN, "T": FnT,
	"TEXT": FnTEXT, "VALUE": FnVALUE, "NUMBERVALUE": FnNUMBERVALUE, "REPT": FnREPT, "EXACT": FnEXACT,

	"BIN2DEC": FnBIN2DEC, "BIN2HEX": FnBIN2HEX, "BIN2OCT": FnBIN2OCT,
	"DEC2BIN": FnDEC2BIN, "DEC2HEX": FnDEC2HEX, "DEC2OCT": FnDEC2OCT,
	"HEX2DEC": FnHEX2DEC, "HEX2BIN": FnHEX2BIN, "HEX2OCT": FnHEX2OCT,
	"OCT2DEC": FnOCT2DEC, "OCT2BIN": FnOCT2BIN, "OCT2HEX": FnOCT2HEX,
	"CONVERT": FnCONVERT, "BESSELJ": FnBESSELJ, "BESSELY": FnBESSELY,
	"BESSELI": FnBESSELI, "BESSELK": FnBESSELK,
	"BITAND": FnBITAND, "BITOR": FnBITOR, "BITXOR": FnBITXOR,
	"BITLSHIFT": FnBITLSHIFT, "BITRSHIFT": FnBITRSHIFT,

	"DSUM": FnDSUM, "DMIN": FnDMIN, "DMAX": FnDMAX, "DAVERAGE": FnDAVERAGE,
	"DCOUNT": FnDCOUNT, "DCOUNTA": FnDCOUNTA, "DGET": FnDGET, "DPRODUCT": FnDPRODUCT,
	"DVAR": FnDVAR, "DVARP": FnDVARP, "DSTDEV": FnDSTDEV, "DSTDEVP": FnDSTDEVP,
}

// LookupFunctionKind resolves a (possibly locale-translated, handled by the
// caller before reaching here) function name to its FunctionKind. ok is
// false for unknown names, which the parser turns into InvalidFunction.
func LookupFunctionKind(name string) (FunctionKind, bool) {
	k, ok := functionNames[name]
	return k, ok
}

// shortCircuitFamily reports whether fn must not evaluate all of its
// arguments eagerly (spec §4.5 / §7: IF/IFS/SWITCH/IFERROR/IFNA/AND/OR are
// short-circuit). evalFunction does not consult it: every handler receives
// its arguments unevaluated (see fnHandler), and these families' handlers
// skip arguments themselves.
func shortCircuitFamily(fn FunctionKind) bool {
	switch fn {
	case FnIF, FnIFS, FnSWITCH, FnIFERROR, FnIFNA, FnAND, FnOR:
		return true
	}
	return false
}
