// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package parser implements the recursive-descent parser over the
// lexer's token stream, producing an ast.File. Grounded on
// original_source/src/parse.c's precedence-climbing expression
// parser and ast.h's binop_precedence table, adapted to the token
// kinds lexer.Kind declares.
package parser

import (
	"github.com/anf-ir/anf/ast"
	"github.com/anf-ir/anf/diag"
	"github.com/anf-ir/anf/lexer"
)

// Parser turns a token stream into an ast.File. It never panics on
// malformed input: syntax errors are appended to the diag.List
// passed to New, and the parser resynchronizes at the next top-level
// "def" so that one bad declaration doesn't prevent reporting errors
// in the rest of the file.
type Parser struct {
	lex  *lexer.Lexer
	errs *diag.List
	tok  lexer.Token
}

// New creates a Parser over src, attributing diagnostics to file.
func New(file, src string, errs *diag.List) *Parser {
	p := &Parser{lex: lexer.New(file, src, errs), errs: errs}
	p.advance()
	return p
}

func (p *Parser) advance() { p.tok = p.lex.Next() }

func (p *Parser) at(k lexer.Kind) bool { return p.tok.Kind == k }

func (p *Parser) expect(k lexer.Kind) lexer.Token {
	if !p.at(k) {
		p.errs.Errorf(p.tok.Pos, "expected %s, got %s %q", k, p.tok.Kind, p.tok.Text)
		return p.tok
	}
	t := p.tok
	p.advance()
	return t
}

func (p *Parser) accept(k lexer.Kind) (lexer.Token, bool) {
	if p.at(k) {
		t := p.tok
		p.advance()
		return t, true
	}
	return lexer.Token{}, false
}

// ParseFile parses an entire compilation unit: zero or more "def"
// declarations followed by EOF.
func (p *Parser) ParseFile() *ast.File {
	f := &ast.File{}
	for !p.at(lexer.EOF) {
		if !p.at(lexer.DEF) {
			p.errs.Errorf(p.tok.Pos, "expected 'def', got %s %q", p.tok.Kind, p.tok.Text)
			p.syncToDef()
			if p.at(lexer.EOF) {
				break
			}
		}
		f.Defs = append(f.Defs, p.parseDef())
	}
	return f
}

// syncToDef discards tokens until the next "def" or EOF, so a single
// malformed declaration doesn't cascade into spurious follow-on
// errors for the rest of the file.
func (p *Parser) syncToDef() {
	for !p.at(lexer.DEF) && !p.at(lexer.EOF) {
		p.advance()
	}
}

func (p *Parser) parseDef() *ast.DefDecl {
	declPos := p.expect(lexer.DEF).Pos
	name := p.expect(lexer.ID).Text
	p.expect(lexer.LPAREN)
	var params []*ast.Param
	for !p.at(lexer.RPAREN) {
		pname := p.expect(lexer.ID)
		p.expect(lexer.COLON)
		pt := p.parseType()
		params = append(params, &ast.Param{NamePos: pname.Pos, Name: pname.Text, Type: pt})
		if _, ok := p.accept(lexer.COMMA); !ok {
			break
		}
	}
	p.expect(lexer.RPAREN)
	p.expect(lexer.COLON)
	ret := p.parseType()
	p.expect(lexer.EQ)
	body := p.parseExpr()
	p.expect(lexer.SEMI)
	return &ast.DefDecl{DeclPos: declPos, Name: name, Params: params, RetType: ret, Body: body}
}

// parseType parses a type name optionally followed by a
// parenthesized, comma-separated operand list: "i32", "ptr(i32)",
// "tuple(i32,bool)".
func (p *Parser) parseType() *ast.TypeExpr {
	tok := p.expect(lexer.ID)
	te := &ast.TypeExpr{NamePos: tok.Pos, Name: tok.Text}
	if _, ok := p.accept(lexer.LPAREN); ok {
		for !p.at(lexer.RPAREN) {
			te.Args = append(te.Args, p.parseType())
			if _, ok := p.accept(lexer.COMMA); !ok {
				break
			}
		}
		p.expect(lexer.RPAREN)
	}
	return te
}

// parseExpr parses the full expression grammar: "if"/"var" forms at
// the top, falling through to the binary-operator precedence chain.
func (p *Parser) parseExpr() ast.Expr {
	switch {
	case p.at(lexer.IF):
		return p.parseIf()
	case p.at(lexer.VAR):
		return p.parseVar()
	default:
		return p.parseBinary(0)
	}
}

func (p *Parser) parseIf() ast.Expr {
	pos := p.expect(lexer.IF).Pos
	cond := p.parseExpr()
	p.expect(lexer.LBRACE)
	then := p.parseExpr()
	p.expect(lexer.RBRACE)
	p.expect(lexer.ELSE)
	p.expect(lexer.LBRACE)
	els := p.parseExpr()
	p.expect(lexer.RBRACE)
	return &ast.IfExpr{IfPos: pos, Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseVar() ast.Expr {
	pos := p.expect(lexer.VAR).Pos
	name := p.expect(lexer.ID).Text
	p.expect(lexer.EQ)
	value := p.parseBinary(0)
	p.expect(lexer.SEMI)
	body := p.parseExpr()
	return &ast.VarExpr{VarPos: pos, Name: name, Value: value, Body: body}
}

// binPrec gives each binary token its precedence (higher binds
// tighter) and its ast.BinOp, or ok=false if the token doesn't begin
// a binary operator. Levels follow the usual C-family ordering:
// logical-or, logical-and, bitwise-or, xor, and, equality,
// relational, shift, additive, multiplicative.
func binPrec(k lexer.Kind) (ast.BinOp, int, bool) {
	switch k {
	case lexer.DBLOR:
		return ast.BinLogOr, 1, true
	case lexer.DBLAND:
		return ast.BinLogAnd, 2, true
	case lexer.OR:
		return ast.BinOr, 3, true
	case lexer.XOR:
		return ast.BinXor, 4, true
	case lexer.AND:
		return ast.BinAnd, 5, true
	case lexer.CMPEQ:
		return ast.BinCmpEq, 6, true
	case lexer.NOTEQ:
		return ast.BinCmpNe, 6, true
	case lexer.LANGLE:
		return ast.BinCmpLt, 7, true
	case lexer.RANGLE:
		return ast.BinCmpGt, 7, true
	case lexer.CMPGE:
		return ast.BinCmpGe, 7, true
	case lexer.CMPLE:
		return ast.BinCmpLe, 7, true
	case lexer.LSHFT:
		return ast.BinLshift, 8, true
	case lexer.RSHFT:
		return ast.BinRshift, 8, true
	case lexer.ADD:
		return ast.BinAdd, 9, true
	case lexer.SUB:
		return ast.BinSub, 9, true
	case lexer.MUL:
		return ast.BinMul, 10, true
	case lexer.DIV:
		return ast.BinDiv, 10, true
	case lexer.REM:
		return ast.BinRem, 10, true
	}
	return 0, 0, false
}

// parseBinary implements precedence climbing: minPrec is the lowest
// operator precedence this call is allowed to consume.
func (p *Parser) parseBinary(minPrec int) ast.Expr {
	lhs := p.parseUnary()
	for {
		op, prec, ok := binPrec(p.tok.Kind)
		if !ok || prec < minPrec {
			return lhs
		}
		pos := p.tok.Pos
		p.advance()
		rhs := p.parseBinary(prec + 1)
		lhs = &ast.BinaryExpr{OpPos: pos, Op: op, X: lhs, Y: rhs}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.tok.Kind {
	case lexer.NOT:
		pos := p.tok.Pos
		p.advance()
		return &ast.UnaryExpr{OpPos: pos, Op: ast.UnNot, X: p.parseUnary()}
	case lexer.SUB:
		pos := p.tok.Pos
		p.advance()
		return &ast.UnaryExpr{OpPos: pos, Op: ast.UnNeg, X: p.parseUnary()}
	}
	return p.parsePostfix()
}

// parsePostfix handles the "." INT extract suffix: x.0, (x.1).0, etc.
// A chained x.1.0 is not accepted: the lexer reads "1.0" as one float
// token.
func (p *Parser) parsePostfix() ast.Expr {
	x := p.parsePrimary()
	for {
		if dot, ok := p.accept(lexer.DOT); ok {
			idxTok := p.expect(lexer.INT)
			x = &ast.ExtractExpr{DotPos: dot.Pos, X: x, Index: int(idxTok.Int)}
			continue
		}
		break
	}
	return x
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.tok
	switch tok.Kind {
	case lexer.INT:
		p.advance()
		return &ast.IntLit{LitPos: tok.Pos, Value: tok.Int}
	case lexer.FLT:
		p.advance()
		return &ast.FloatLit{LitPos: tok.Pos, Value: tok.Float}
	case lexer.STR:
		p.advance()
		return &ast.StrLit{LitPos: tok.Pos, Value: tok.Str}
	case lexer.CHR:
		p.advance()
		return &ast.CharLit{LitPos: tok.Pos, Value: byte(tok.Int)}
	case lexer.BLT:
		p.advance()
		return &ast.BoolLit{LitPos: tok.Pos, Value: tok.Bool}
	case lexer.ID:
		p.advance()
		if _, ok := p.accept(lexer.LPAREN); ok {
			var args []ast.Expr
			for !p.at(lexer.RPAREN) {
				args = append(args, p.parseBinary(0))
				if _, ok := p.accept(lexer.COMMA); !ok {
					break
				}
			}
			p.expect(lexer.RPAREN)
			if tok.Text == "known" && len(args) == 1 {
				return &ast.KnownExpr{KnownPos: tok.Pos, X: args[0]}
			}
			return &ast.CallExpr{CallPos: tok.Pos, Callee: tok.Text, Args: args}
		}
		return &ast.Ident{IdentPos: tok.Pos, Name: tok.Text}
	case lexer.LPAREN:
		p.advance()
		var elems []ast.Expr
		for !p.at(lexer.RPAREN) {
			elems = append(elems, p.parseBinary(0))
			if _, ok := p.accept(lexer.COMMA); !ok {
				break
			}
		}
		p.expect(lexer.RPAREN)
		if len(elems) == 1 {
			return elems[0]
		}
		return &ast.TupleExpr{LParenPos: tok.Pos, Elems: elems}
	}
	p.errs.Errorf(tok.Pos, "unexpected token %s %q in expression", tok.Kind, tok.Text)
	p.advance()
	return &ast.IntLit{LitPos: tok.Pos, Value: 0}
}
