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

// Package lexer turns source text into the token stream the parser
// consumes: a hand-rolled single-pass scanner, no generated state
// machine.
package lexer

import "github.com/anf-ir/anf/diag"

// Kind identifies a token's syntactic category.
type Kind int

const (
	EOF Kind = iota
	ERR

	INT
	FLT
	STR
	CHR
	BLT
	ID

	DEF
	VAR
	IF
	ELSE

	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	LANGLE
	RANGLE
	DOT
	COMMA
	COLON
	DBLCOLON
	SEMI

	ADD
	SUB
	MUL
	DIV
	REM
	AND
	OR
	XOR
	LSHFT
	RSHFT
	NOT
	EQ
	INC
	DEC
	NOTEQ
	CMPEQ
	CMPGE
	CMPLE
	ADDEQ
	SUBEQ
	MULEQ
	DIVEQ
	REMEQ
	ANDEQ
	OREQ
	XOREQ
	LSHFTEQ
	RSHFTEQ
	DBLAND
	DBLOR
	LARROW
	RARROW
)

var kindNames = map[Kind]string{
	EOF: "EOF", ERR: "ERR",
	INT: "INT", FLT: "FLT", STR: "STR", CHR: "CHR", BLT: "BLT", ID: "ID",
	DEF: "DEF", VAR: "VAR", IF: "IF", ELSE: "ELSE",
	LPAREN: "LPAREN", RPAREN: "RPAREN", LBRACE: "LBRACE", RBRACE: "RBRACE",
	LBRACKET: "LBRACKET", RBRACKET: "RBRACKET", LANGLE: "LANGLE", RANGLE: "RANGLE",
	DOT: "DOT", COMMA: "COMMA", COLON: "COLON", DBLCOLON: "DBLCOLON", SEMI: "SEMI",
	ADD: "ADD", SUB: "SUB", MUL: "MUL", DIV: "DIV", REM: "REM",
	AND: "AND", OR: "OR", XOR: "XOR", LSHFT: "LSHFT", RSHFT: "RSHFT",
	NOT: "NOT", EQ: "EQ", INC: "INC", DEC: "DEC", NOTEQ: "NOTEQ",
	CMPEQ: "CMPEQ", CMPGE: "CMPGE", CMPLE: "CMPLE",
	ADDEQ: "ADDEQ", SUBEQ: "SUBEQ", MULEQ: "MULEQ", DIVEQ: "DIVEQ", REMEQ: "REMEQ",
	ANDEQ: "ANDEQ", OREQ: "OREQ", XOREQ: "XOREQ", LSHFTEQ: "LSHFTEQ", RSHFTEQ: "RSHFTEQ",
	DBLAND: "DBLAND", DBLOR: "DBLOR", LARROW: "LARROW", RARROW: "RARROW",
}

// String returns the token kind's name, e.g. "LPAREN" — used in error
// messages and by tests that assert an exact token sequence.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "<bad-token-kind>"
}

// Token is one lexical unit: its kind, the literal text it spanned,
// a decoded literal value for the literal kinds, and its source
// position.
type Token struct {
	Kind  Kind
	Text  string
	Int   uint64
	Float float64
	Str   string
	Bool  bool
	Pos   diag.Position
}
