// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.
//
// Token kind names below follow the vocabulary xuri/efp uses for its own
// Excel tokenizer (TokenTypeOperand/TokenSubTypeRange/…), adapted to carry
// the richer structured payloads (resolved row/column, absolute markers,
// R1C1 offsets) spec.md §4.3 requires and efp's own token shape doesn't.
package ironcalc

// TokenType is the lexer's token kind discriminant.
type TokenType byte

const (
	TokenIllegal TokenType = iota
	TokenEOF
	TokenIdent
	TokenString
	TokenNumber
	TokenBoolean
	TokenError
	TokenCompare
	TokenAddition
	TokenProduct
	TokenPower
	TokenLParen
	TokenRParen
	TokenColon
	TokenSemicolon
	TokenLBracket
	TokenRBracket
	TokenLBrace
	TokenRBrace
	TokenComma
	TokenBang
	TokenPercent
	TokenAnd // '&'
	TokenReference
	TokenRange
	TokenStructuredReference
)

// CompareOp enumerates the comparison operators.
type CompareOp byte

const (
	CompareLT CompareOp = iota
	CompareLE
	CompareEQ
	CompareGE
	CompareGT
	CompareNE
)

// RefPart is one coordinate (row or column) of an A1/R1C1 reference.
type RefPart struct {
	Value    int  // absolute 1-based coordinate (A1), or the resolved value (R1C1)
	Absolute bool // true for A1 "$"; true for R1C1 absolute rowpart/colpart
	Relative bool // true for R1C1 relative offset (including "R"/"C" bare, offset 0)
	Offset   int  // R1C1 signed relative offset; 0 for A1 and for absolute R1C1
}

// TokenRef is the structured payload of a Reference token.
type TokenRef struct {
	SheetName string // "" when unqualified
	Row       RefPart
	Column    RefPart
}

// TokenRangeVal is the structured payload of a Range token.
type TokenRangeVal struct {
	SheetName string
	Left      TokenRef
	Right     TokenRef
}

// TokenStructRef is the structured payload of a StructuredReference token
// (Table1[Column] style).
type TokenStructRef struct {
	Table      string
	Specifier  string // e.g. "#All", "#Headers", "#Data", "#Totals", "" when absent
	ColumnOrRange string
}

// Token is one lexical unit produced by Lexer.Next.
type Token struct {
	Type     TokenType
	Pos      int // byte offset into the source formula, for error messages
	Text     string
	Number   float64
	Boolean  bool
	ErrKind  ErrorKind
	Compare  CompareOp
	IsMinus  bool // Addition token is '-' rather than '+'
	IsDivide bool // Product token is '/' rather than '*'
	Ref      TokenRef
	Range    TokenRangeVal
	Struct   TokenStructRef
	Message  string // set on TokenIllegal
}
