// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ironcalc

import "strings"

// ParseContext supplies the sheet- and defined-name-resolution a parser
// needs while building the AST: sheet-qualified references are resolved to
// a stable SheetIndex at parse time, and bare identifiers are checked
// against defined names in scope before falling back to WrongVariable.
type ParseContext interface {
	SheetIndexByName(name string) (int, bool)
	// ResolveDefinedName looks up name in the scope of the sheet at position
	// sheetIdx first, then globally, returning the scope it resolved in (a
	// SheetID, or 0 = global) and ok.
	ResolveDefinedName(name string, sheetIdx int) (scope int, ok bool)
}

// precedence levels, lowest to highest (spec §4.4). Range ':' binds tighter
// than '^'; postfix '%' binds tightest of the infix-adjacent operators.
const (
	precLowest = iota
	precCompare
	precIntersection
	precConcat
	precAddSub
	precMulDiv
	precPower
	precRange
	precPercent
	precUnary
)

// Parser consumes a Lexer's token stream and produces one AST Node,
// Pratt-style (precedence climbing). It never panics: any malformed input
// makes Parse return a single NodeParseError node (spec §4.4).
type Parser struct {
	lex     *Lexer
	cur     Token
	peekTok Token
	formula string
	ctx     ParseContext
	curSheetID int
	err     *Node // first NodeParseError produced, if any
}

// Parse parses formula text in mode, resolving sheet-qualified references
// and defined names via ctx, for a formula living on the sheet at position
// curSheetID (a sheet index, not a SheetID).
func Parse(formula string, mode LexerMode, ctx ParseContext, curSheetID int) *Node {
	p := &Parser{lex: NewLexer(formula, mode, nil), formula: formula, ctx: ctx, curSheetID: curSheetID}
	p.advance()
	p.advance()
	node := p.parseExpr(precLowest)
	if p.err != nil {
		return p.err
	}
	if p.cur.Type != TokenEOF {
		return &Node{Kind: NodeParseError, Formula: formula, Message: "unexpected trailing input", Position: p.cur.Pos}
	}
	return node
}

func (p *Parser) advance() {
	p.cur = p.peekTok
	p.peekTok = p.lex.Next()
}

func (p *Parser) errorNode(pos int, msg string) *Node {
	n := &Node{Kind: NodeParseError, Formula: p.formula, Message: msg, Position: pos}
	if p.err == nil {
		p.err = n
	}
	return n
}

// parseExpr is the Pratt loop: parse one prefix/primary term, then repeatedly
// fold in infix operators whose precedence exceeds minPrec.
func (p *Parser) parseExpr(minPrec int) *Node {
	left := p.parsePrimary()
	if left.Kind == NodeParseError {
		return left
	}
	for {
		// Implicit intersection: a bare space between two operand-ish terms.
		// Our lexer discards spaces, so we detect it structurally instead:
		// excelize/efp-style tokenizers surface this only via whitespace
		// tracking, which this hand lexer does not expose post-hoc; the
		// ImplicitIntersection node is therefore produced only for the
		// explicit '@' unary prefix (parsePrimary), matching modern Excel's
		// @-prefix notation, with the legacy bare-space form left as a
		// documented gap (spec §9 Open Questions: "partially implemented").
		switch p.cur.Type {
		case TokenAddition:
			if precAddSub < minPrec {
				return left
			}
			isMinus := p.cur.IsMinus
			p.advance()
			right := p.parseExpr(precAddSub + 1)
			left = &Node{Kind: NodeOpSum, Left: left, Right: right, BoolVal: isMinus}
		case TokenProduct:
			if precMulDiv < minPrec {
				return left
			}
			isDivide := p.cur.IsDivide
			p.advance()
			right := p.parseExpr(precMulDiv + 1)
			left = &Node{Kind: NodeOpProduct, Left: left, Right: right, BoolVal: isDivide}
		case TokenPower:
			if precPower < minPrec {
				return left
			}
			p.advance()
			right := p.parseExpr(precPower) // right-associative
			left = &Node{Kind: NodeOpPower, Left: left, Right: right}
		case TokenAnd:
			if precConcat < minPrec {
				return left
			}
			p.advance()
			right := p.parseExpr(precConcat + 1)
			left = &Node{Kind: NodeOpConcatenate, Left: left, Right: right}
		case TokenCompare:
			if precCompare < minPrec {
				return left
			}
			op := p.cur.Compare
			p.advance()
			right := p.parseExpr(precCompare + 1)
			left = &Node{Kind: NodeCompare, Op: op, Left: left, Right: right}
		case TokenColon:
			if precRange < minPrec {
				return left
			}
			p.advance()
			right := p.parseExpr(precRange + 1)
			left = &Node{Kind: NodeOpRange, Left: left, Right: right}
		case TokenPercent:
			if precPercent < minPrec {
				return left
			}
			p.advance()
			left = &Node{Kind: NodeUnaryPercent, Child: left}
		default:
			return left
		}
	}
}

func (p *Parser) parsePrimary() *Node {
	switch p.cur.Type {
	case TokenNumber:
		n := &Node{Kind: NodeNumberLit, NumVal: p.cur.Number}
		p.advance()
		return n
	case TokenString:
		n := &Node{Kind: NodeStringLit, StrVal: p.cur.Text}
		p.advance()
		return n
	case TokenBoolean:
		n := &Node{Kind: NodeBooleanLit, BoolVal: p.cur.Boolean}
		p.advance()
		return n
	case TokenError:
		n := &Node{Kind: NodeErrorLit, ErrVal: p.cur.ErrKind}
		p.advance()
		return n
	case TokenAddition:
		if p.cur.IsMinus {
			p.advance()
			child := p.parseExpr(precUnary)
			return &Node{Kind: NodeUnaryMinus, Child: child}
		}
		p.advance()
		return p.parseExpr(precUnary)
	case TokenLParen:
		p.advance()
		inner := p.parseExpr(precLowest)
		if p.cur.Type != TokenRParen {
			return p.errorNode(p.cur.Pos, "expected ')'")
		}
		p.advance()
		return inner
	case TokenLBrace:
		return p.parseArray()
	case TokenReference:
		return p.finishReference()
	case TokenRange:
		return p.finishRange()
	case TokenStructuredReference:
		n := &Node{Kind: NodeTableName, Name: p.cur.Struct.Table, RawText: p.cur.Struct.ColumnOrRange}
		p.advance()
		return n
	case TokenIdent:
		return p.parseIdentOrCall()
	}
	return p.errorNode(p.cur.Pos, "unexpected token")
}

// parseIdentOrCall handles a bare Ident: a function call if followed by
// '(', an "@range" implicit-intersection prefix target, a resolvable
// defined name, or an unresolved WrongVariable that evaluates to #NAME?.
func (p *Parser) parseIdentOrCall() *Node {
	name := p.cur.Text
	pos := p.cur.Pos
	if strings.HasPrefix(name, "@") {
		p.advance()
		child := p.parseExpr(precUnary)
		return &Node{Kind: NodeImplicitIntersection, Child: child}
	}
	if p.peekTok.Type == TokenLParen {
		p.advance() // consume ident
		p.advance() // consume '('
		args := p.parseArgs()
		if p.cur.Type != TokenRParen {
			return p.errorNode(pos, "expected ')' closing call to "+name)
		}
		p.advance()
		upper := strings.ToUpper(name)
		if kind, ok := LookupFunctionKind(upper); ok {
			return &Node{Kind: NodeFunction, Kind2: kind, Name: upper, Args: args}
		}
		return &Node{Kind: NodeInvalidFunction, Name: name, Args: args}
	}
	p.advance()
	if p.ctx != nil {
		if scope, ok := p.ctx.ResolveDefinedName(name, p.curSheetID); ok {
			return &Node{Kind: NodeDefinedName, Name: name, DefScope: scope}
		}
	}
	return &Node{Kind: NodeVariableRef, Name: name}
}

func (p *Parser) parseArgs() []*Node {
	var args []*Node
	if p.cur.Type == TokenRParen {
		return args
	}
	args = append(args, p.parseArg())
	for p.cur.Type == TokenComma || p.cur.Type == TokenSemicolon {
		p.advance()
		args = append(args, p.parseArg())
	}
	return args
}

// parseArg parses one function argument, treating an omitted argument
// (",," or a leading/trailing comma) as EmptyArg.
func (p *Parser) parseArg() *Node {
	if p.cur.Type == TokenComma || p.cur.Type == TokenSemicolon || p.cur.Type == TokenRParen {
		return &Node{Kind: NodeEmptyArg}
	}
	return p.parseExpr(precLowest)
}

func (p *Parser) parseArray() *Node {
	p.advance() // '{'
	var rows [][]*Node
	row := []*Node{p.parseExpr(precCompare + 1)}
	for {
		switch p.cur.Type {
		case TokenComma:
			p.advance()
			row = append(row, p.parseExpr(precCompare+1))
		case TokenSemicolon:
			p.advance()
			rows = append(rows, row)
			row = []*Node{p.parseExpr(precCompare + 1)}
		case TokenRBrace:
			rows = append(rows, row)
			p.advance()
			return &Node{Kind: NodeArray, ArrayRows: rows}
		default:
			return p.errorNode(p.cur.Pos, "malformed array literal")
		}
	}
}

// finishReference turns a lexed Reference token into a Reference or
// WrongReference node, resolving the sheet qualifier if present.
func (p *Parser) finishReference() *Node {
	t := p.cur
	sheetIdx := p.curSheetID
	if t.Ref.SheetName != "" {
		if p.ctx != nil {
			if idx, ok := p.ctx.SheetIndexByName(t.Ref.SheetName); ok {
				sheetIdx = idx
			} else {
				p.advance()
				return &Node{Kind: NodeWrongReference, RawText: formulaRefText(t.Ref), SheetName: t.Ref.SheetName}
			}
		}
	}
	n := &Node{
		Kind: NodeReference, SheetName: t.Ref.SheetName, SheetIndex: sheetIdx,
		Row: t.Ref.Row.Value, Column: t.Ref.Column.Value,
		AbsRow: t.Ref.Row.Absolute, AbsCol: t.Ref.Column.Absolute,
	}
	p.advance()
	return n
}

func (p *Parser) finishRange() *Node {
	t := p.cur
	sheetIdx := p.curSheetID
	if t.Range.SheetName != "" {
		if p.ctx != nil {
			if idx, ok := p.ctx.SheetIndexByName(t.Range.SheetName); ok {
				sheetIdx = idx
			} else {
				p.advance()
				return &Node{Kind: NodeWrongRange, RawText: formulaRangeText(t.Range), SheetName: t.Range.SheetName}
			}
		}
	}
	n := &Node{
		Kind: NodeRange, SheetName: t.Range.SheetName, SheetIndex: sheetIdx,
		Row: t.Range.Left.Row.Value, Column: t.Range.Left.Column.Value,
		AbsRow: t.Range.Left.Row.Absolute, AbsCol: t.Range.Left.Column.Absolute,
		Row2: t.Range.Right.Row.Value, Column2: t.Range.Right.Column.Value,
		AbsRow2: t.Range.Right.Row.Absolute, AbsCol2: t.Range.Right.Column.Absolute,
	}
	p.advance()
	return n
}

func formulaRefText(r TokenRef) string {
	return cellRefText(r.Column.Value, r.Row.Value, r.Column.Absolute, r.Row.Absolute)
}

func formulaRangeText(r TokenRangeVal) string {
	return formulaRefText(r.Left) + ":" + formulaRefText(r.Right)
}

func cellRefText(col, row int, absCol, absRow bool) string {
	letters, _ := NumberToColumnLetters(col)
	out := ""
	if absCol {
		out += "$"
	}
	out += letters
	if absRow {
		out += "$"
	}
	out += itoa(row)
	return out
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [12]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
