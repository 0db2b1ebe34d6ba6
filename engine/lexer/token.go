package lexer

import "strings"

// TokenType represents the category of a token
type TokenType int

const (
	TOKEN_UNKNOWN  TokenType = iota
	TOKEN_WORD               // field names, bare values, phrase words
	TOKEN_NUMBER             // 25, 3.14, -2
	TOKEN_STRING             // 'John', "hello"
	TOKEN_OPERATOR           // =, !=, <>, >, <, >=, <=
	TOKEN_LPAREN             // (
	TOKEN_RPAREN             // )
	TOKEN_COMMA              // ,
	TOKEN_EOF                // End of input
)

// Token represents a single token with position info
type Token struct {
	Type     TokenType
	Value    string // Original value
	Position int    // Byte offset in input
	Column   int    // Column number (1-indexed)
}

// String returns human-readable token type name
func (t TokenType) String() string {
	names := []string{
		"UNKNOWN",
		"WORD",
		"NUMBER",
		"STRING",
		"OPERATOR",
		"LPAREN",
		"RPAREN",
		"COMMA",
		"EOF",
	}
	if int(t) < len(names) {
		return names[t]
	}
	return "UNKNOWN"
}

// Is reports whether the token is a word equal to w, ignoring case.
func (t Token) Is(w string) bool {
	return t.Type == TOKEN_WORD && strings.EqualFold(t.Value, w)
}
