// Package token enumerates the lexical tokens of the source language.
package token

// Kind identifies the lexical category of a Token.
type Kind int

const (
	True Kind = iota
	False
	While
	If
	Else
	Return

	Id
	IntLit
	FloatLit
	StrLit

	OParen
	CParen
	OSBracket
	CSBracket
	OCBracket
	CCBracket

	Comma
	Semicolon

	Plus
	Minus
	Star
	Slash

	Less
	LessEqual
	Greater
	GreaterEqual

	Equal
	NotEqual

	Assign

	And
	Or
	Not

	Eof
)

var names = map[Kind]string{
	True: "true", False: "false", While: "while", If: "if", Else: "else", Return: "return",
	Id: "Id", IntLit: "IntLit", FloatLit: "FloatLit", StrLit: "StrLit",
	OParen: "(", CParen: ")", OSBracket: "[", CSBracket: "]", OCBracket: "{", CCBracket: "}",
	Comma: ",", Semicolon: ";",
	Plus: "+", Minus: "-", Star: "*", Slash: "/",
	Less: "<", LessEqual: "<=", Greater: ">", GreaterEqual: ">=",
	Equal: "==", NotEqual: "!=",
	Assign: "=",
	And:    "and", Or: "or", Not: "not",
	Eof: "Eof",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "Unknown"
}

// keywords maps a recognized identifier lexeme to its keyword Kind.
var keywords = map[string]Kind{
	"and": And, "or": Or, "not": Not,
	"return": Return, "if": If, "else": Else, "while": While,
	"true": True, "false": False,
}

// Lookup returns the keyword Kind for lexeme, if any.
func Lookup(lexeme string) (Kind, bool) {
	k, ok := keywords[lexeme]
	return k, ok
}

// Token is a single lexical unit: its Kind plus the exact source text that
// produced it (empty for tokens whose kind alone is sufficient, like Plus).
type Token struct {
	Kind   Kind
	Lexeme string
}

func (t Token) String() string {
	if t.Lexeme == "" {
		return t.Kind.String()
	}
	return t.Kind.String() + "(" + t.Lexeme + ")"
}
