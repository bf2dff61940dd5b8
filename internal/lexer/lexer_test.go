package lexer

import (
	"testing"

	"github.com/tacc-project/tacc/internal/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	l := New(src)
	var toks []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		toks = append(toks, tok)
		if tok.Kind == token.Eof {
			return toks
		}
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	toks := scanAll(t, "if else while return true false and or not foo __tmp0")
	want := []token.Kind{
		token.If, token.Else, token.While, token.Return, token.True, token.False,
		token.And, token.Or, token.Not, token.Id, token.Id, token.Eof,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Kind != w {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Kind, w)
		}
	}
	if toks[9].Lexeme != "foo" || toks[10].Lexeme != "__tmp0" {
		t.Errorf("identifier lexemes wrong: %+v %+v", toks[9], toks[10])
	}
}

func TestOperatorsAndNumbers(t *testing.T) {
	toks := scanAll(t, "5 < 3 and true 1.5 != 2")
	want := []token.Kind{
		token.IntLit, token.Less, token.IntLit, token.And, token.True,
		token.FloatLit, token.NotEqual, token.IntLit, token.Eof,
	}
	for i, w := range want {
		if toks[i].Kind != w {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Kind, w)
		}
	}
	if toks[5].Lexeme != "1.5" {
		t.Errorf("float lexeme = %q, want 1.5", toks[5].Lexeme)
	}
}

func TestStringLiteralTerminatesOnClosingQuote(t *testing.T) {
	toks := scanAll(t, `"hello" true`)
	if toks[0].Kind != token.StrLit || toks[0].Lexeme != `"hello"` {
		t.Fatalf("got %+v, want StrLit(\"hello\")", toks[0])
	}
	if toks[1].Kind != token.True {
		t.Fatalf("got %+v after string, want True", toks[1])
	}
}

func TestUnterminatedStringLiteralErrors(t *testing.T) {
	l := New("\"no closing quote\n")
	if _, err := l.Next(); err == nil {
		t.Fatal("expected an error for a newline inside a string literal")
	}
}
