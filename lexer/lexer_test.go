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

package lexer

import (
	"testing"

	"github.com/anf-ir/anf/diag"
)

func scanAll(t *testing.T, src string) []Token {
	t.Helper()
	var errs diag.List
	l := New("smoke", src, &errs)
	var toks []Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == EOF {
			break
		}
	}
	if errs.Len() != 0 {
		t.Fatalf("unexpected lex errors: %v", errs.Errs())
	}
	return toks
}

// TestLexerSmoke covers the fixed token sequence a single input
// exercises: identifiers and keywords, a char and a string literal,
// every bracket/punctuation kind, line and block comments, and
// numeric literals across all three alternate bases plus a base-10
// float with an exponent.
func TestLexerSmoke(t *testing.T) {
	src := "hello if'c' ^ /*...*/ else world! | //...\n" +
		" (- ), < * \"str\" +: var; / def=% >something & 0b010010110 0xFFe45 10.3e+7"

	want := []Kind{
		ID, IF, CHR, XOR, ELSE, ID, NOT, OR,
		LPAREN, SUB, RPAREN, COMMA, LANGLE, MUL, STR, ADD, COLON, VAR, SEMI,
		DIV, DEF, EQ, REM, RANGLE, ID, AND, INT, INT, FLT, EOF,
	}

	toks := scanAll(t, src)
	if len(toks) != len(want) {
		got := make([]Kind, len(toks))
		for i, tok := range toks {
			got[i] = tok.Kind
		}
		t.Fatalf("token count mismatch: got %v\nwant %v", got, want)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("token %d: got %s, want %s (full: %v)", i, toks[i].Kind, k, toks)
		}
	}
}

func TestLexerKeywordVsIdentBoundary(t *testing.T) {
	toks := scanAll(t, "def define defer")
	want := []Kind{DEF, ID, ID, EOF}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
	if toks[1].Text != "define" || toks[2].Text != "defer" {
		t.Fatalf("identifier text not preserved: %q, %q", toks[1].Text, toks[2].Text)
	}
}

func TestLexerIntegerBases(t *testing.T) {
	cases := []struct {
		src  string
		want uint64
	}{
		{"0b1010", 10},
		{"0o17", 15},
		{"0xFF", 255},
		{"42", 42},
		{"0", 0},
	}
	for _, c := range cases {
		toks := scanAll(t, c.src)
		if toks[0].Kind != INT {
			t.Fatalf("%q: got kind %s, want INT", c.src, toks[0].Kind)
		}
		if toks[0].Int != c.want {
			t.Fatalf("%q: got %d, want %d", c.src, toks[0].Int, c.want)
		}
	}
}

// TestLexerHexDoesNotFloat checks that a trailing 'e' inside a hex
// literal is parsed as a hex digit, never mistaken for a float
// exponent marker the way it would be in base 10.
func TestLexerHexDoesNotFloat(t *testing.T) {
	toks := scanAll(t, "0xFFe45")
	if len(toks) != 2 || toks[0].Kind != INT {
		t.Fatalf("0xFFe45: got %v, want a single INT token", toks)
	}
	if toks[0].Int != 0xFFe45 {
		t.Fatalf("0xFFe45: got %#x, want %#x", toks[0].Int, uint64(0xFFe45))
	}
}

func TestLexerFloatExponent(t *testing.T) {
	toks := scanAll(t, "10.3e+7")
	if len(toks) != 2 || toks[0].Kind != FLT {
		t.Fatalf("10.3e+7: got %v, want a single FLT token", toks)
	}
	if toks[0].Float != 10.3e+7 {
		t.Fatalf("10.3e+7: got %v, want %v", toks[0].Float, 10.3e+7)
	}
}

func TestLexerCommentsSkipped(t *testing.T) {
	toks := scanAll(t, "a // trailing comment\nb /* block\nspanning lines */ c")
	want := []Kind{ID, ID, ID, EOF}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestLexerMultiCharOperators(t *testing.T) {
	toks := scanAll(t, "<<= >>= << >> <= >= == != += -= && || ::")
	want := []Kind{
		LSHFTEQ, RSHFTEQ, LSHFT, RSHFT, CMPLE, CMPGE, CMPEQ, NOTEQ,
		ADDEQ, SUBEQ, DBLAND, DBLOR, DBLCOLON, EOF,
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestLexerStringEscapes(t *testing.T) {
	toks := scanAll(t, `"a\nb\"c"`)
	if toks[0].Kind != STR {
		t.Fatalf("got kind %s, want STR", toks[0].Kind)
	}
	if toks[0].Str != "a\nb\"c" {
		t.Fatalf("got %q, want %q", toks[0].Str, "a\nb\"c")
	}
}
