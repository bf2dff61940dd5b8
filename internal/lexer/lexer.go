// Package lexer turns source text into a stream of tokens.
package lexer

import (
	"unicode"

	"github.com/tacc-project/tacc/internal/errs"
	"github.com/tacc-project/tacc/internal/token"
)

var singleChar = map[byte]token.Kind{
	'(': token.OParen, ')': token.CParen,
	'[': token.OSBracket, ']': token.CSBracket,
	'{': token.OCBracket, '}': token.CCBracket,
	'+': token.Plus, '-': token.Minus, '/': token.Slash, '*': token.Star,
	',': token.Comma, ';': token.Semicolon,
}

// Lexer produces Tokens one at a time from a source string. It has no
// lookahead buffer of its own; the parser holds the one token of
// lookahead it needs.
type Lexer struct {
	src   string
	pos   int
	start int
}

// New returns a Lexer over src.
func New(src string) *Lexer {
	return &Lexer{src: src}
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.src) }
func (l *Lexer) peek() byte {
	if l.atEnd() {
		return 0
	}
	return l.src[l.pos]
}

// Next scans and returns the next Token, or a token.Eof Token once the
// input is exhausted.
func (l *Lexer) Next() (token.Token, error) {
	for !l.atEnd() && unicode.IsSpace(rune(l.src[l.pos])) {
		l.pos++
	}

	if l.atEnd() {
		return token.Token{Kind: token.Eof}, nil
	}

	c := l.src[l.pos]
	switch {
	case isAlpha(c):
		l.start = l.pos
		for !l.atEnd() && isAlnum(l.src[l.pos]) {
			l.pos++
		}
		lexeme := l.src[l.start:l.pos]
		if kind, ok := token.Lookup(lexeme); ok {
			return token.Token{Kind: kind}, nil
		}
		return token.Token{Kind: token.Id, Lexeme: lexeme}, nil

	case isDigit(c):
		l.start = l.pos
		for !l.atEnd() && isDigit(l.src[l.pos]) {
			l.pos++
		}
		if !l.atEnd() && l.peek() == '.' {
			l.pos++
			for !l.atEnd() && isDigit(l.src[l.pos]) {
				l.pos++
			}
			return token.Token{Kind: token.FloatLit, Lexeme: l.src[l.start:l.pos]}, nil
		}
		return token.Token{Kind: token.IntLit, Lexeme: l.src[l.start:l.pos]}, nil

	case c == '"':
		// The original scans with a tautological loop condition
		// (`p != '\n' || p != '"'`), which never terminates on a real
		// string; this reimplementation stops at the closing quote or
		// end of line, the behavior that condition was clearly meant
		// to express.
		l.start = l.pos
		l.pos++
		for !l.atEnd() && l.src[l.pos] != '"' && l.src[l.pos] != '\n' {
			l.pos++
		}
		if l.atEnd() || l.src[l.pos] == '\n' {
			return token.Token{}, errs.New(errs.SyntaxError, "newline in string literal")
		}
		l.pos++ // consume closing quote
		return token.Token{Kind: token.StrLit, Lexeme: l.src[l.start:l.pos]}, nil

	default:
		if kind, ok := singleChar[c]; ok {
			l.pos++
			return token.Token{Kind: kind}, nil
		}
		switch c {
		case '=':
			l.pos++
			if l.peek() == '=' {
				l.pos++
				return token.Token{Kind: token.Equal}, nil
			}
			return token.Token{Kind: token.Assign}, nil
		case '<':
			l.pos++
			if l.peek() == '=' {
				l.pos++
				return token.Token{Kind: token.LessEqual}, nil
			}
			return token.Token{Kind: token.Less}, nil
		case '>':
			l.pos++
			if l.peek() == '=' {
				l.pos++
				return token.Token{Kind: token.GreaterEqual}, nil
			}
			return token.Token{Kind: token.Greater}, nil
		case '!':
			l.pos++
			if l.peek() == '=' {
				l.pos++
				return token.Token{Kind: token.NotEqual}, nil
			}
			return token.Token{}, errs.New(errs.SyntaxError, "unexpected token '!'")
		default:
			return token.Token{}, errs.New(errs.SyntaxError, "unexpected token", "char", string(c))
		}
	}
}

func isAlpha(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlnum(c byte) bool { return isAlpha(c) || isDigit(c) }
