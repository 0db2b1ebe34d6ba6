package lexer

import (
	"fmt"
	"strings"

	"github.com/josephhbu/ChatDB/mapping"
)

// Tokenizer converts a phrase fragment to tokens
type Tokenizer struct {
	input  string
	pos    int
	tokens []Token
}

// Tokenize splits a condition phrase or command prefix into tokens.
// Quoted strings keep their inner text verbatim; bare runs become WORD or
// NUMBER tokens.
func Tokenize(input string) ([]Token, error) {
	t := &Tokenizer{input: input}
	return t.tokenize()
}

func (t *Tokenizer) tokenize() ([]Token, error) {
	for t.pos < len(t.input) {
		if t.skipWhitespace() {
			continue
		}

		ch := t.input[t.pos]

		switch ch {
		case '(':
			t.addToken(TOKEN_LPAREN, "(")
			t.pos++
			continue
		case ')':
			t.addToken(TOKEN_RPAREN, ")")
			t.pos++
			continue
		case ',':
			t.addToken(TOKEN_COMMA, ",")
			t.pos++
			continue
		case '\'', '"':
			token, err := t.scanString(ch)
			if err != nil {
				return nil, err
			}
			t.tokens = append(t.tokens, token)
			continue
		}

		if isOperatorChar(ch) {
			token, err := t.scanOperator()
			if err != nil {
				return nil, err
			}
			t.tokens = append(t.tokens, token)
			continue
		}

		if isBareChar(ch) {
			t.tokens = append(t.tokens, t.scanBare())
			continue
		}

		return nil, &ParseError{
			Message:  fmt.Sprintf("unexpected character '%c'", ch),
			Position: t.pos,
			Column:   t.pos + 1,
		}
	}

	t.addToken(TOKEN_EOF, "")
	return t.tokens, nil
}

func (t *Tokenizer) skipWhitespace() bool {
	skipped := false
	for t.pos < len(t.input) {
		switch t.input[t.pos] {
		case ' ', '\t', '\n', '\r':
			t.pos++
			skipped = true
		default:
			return skipped
		}
	}
	return skipped
}

func (t *Tokenizer) addToken(tokenType TokenType, value string) {
	t.tokens = append(t.tokens, Token{
		Type:     tokenType,
		Value:    value,
		Position: t.pos,
		Column:   t.pos + 1,
	})
}

func (t *Tokenizer) scanString(quote byte) (Token, error) {
	startPos := t.pos
	t.pos++ // opening quote

	var value strings.Builder
	for t.pos < len(t.input) {
		ch := t.input[t.pos]

		if ch == '\\' && t.pos+1 < len(t.input) {
			value.WriteByte(t.input[t.pos+1])
			t.pos += 2
			continue
		}

		// SQL style doubled quote
		if ch == quote && t.pos+1 < len(t.input) && t.input[t.pos+1] == quote {
			value.WriteByte(quote)
			t.pos += 2
			continue
		}

		if ch == quote {
			t.pos++
			return Token{
				Type:     TOKEN_STRING,
				Value:    value.String(),
				Position: startPos,
				Column:   startPos + 1,
			}, nil
		}

		value.WriteByte(ch)
		t.pos++
	}

	return Token{}, &ParseError{
		Message:  fmt.Sprintf("unclosed string, expected %c", quote),
		Position: startPos,
		Column:   startPos + 1,
	}
}

func (t *Tokenizer) scanBare() Token {
	startPos := t.pos
	for t.pos < len(t.input) && isBareChar(t.input[t.pos]) {
		t.pos++
	}
	word := t.input[startPos:t.pos]

	tokenType := TOKEN_WORD
	if mapping.IsDecimal(word) {
		tokenType = TOKEN_NUMBER
	}
	return Token{
		Type:     tokenType,
		Value:    word,
		Position: startPos,
		Column:   startPos + 1,
	}
}

func (t *Tokenizer) scanOperator() (Token, error) {
	startPos := t.pos
	for t.pos < len(t.input) && isOperatorChar(t.input[t.pos]) {
		t.pos++
	}
	op := t.input[startPos:t.pos]

	if _, ok := mapping.ConditionSymbols[op]; ok {
		return Token{
			Type:     TOKEN_OPERATOR,
			Value:    op,
			Position: startPos,
			Column:   startPos + 1,
		}, nil
	}

	return Token{}, &ParseError{
		Message:  fmt.Sprintf("unknown operator '%s'", op),
		Position: startPos,
		Column:   startPos + 1,
		Token:    op,
	}
}

func isOperatorChar(ch byte) bool {
	return ch == '=' || ch == '!' || ch == '<' || ch == '>'
}

func isBareChar(ch byte) bool {
	switch {
	case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		return true
	case ch == '_' || ch == '.' || ch == '-' || ch == '@' || ch == ':' || ch == '/' || ch == '$' || ch == '*':
		return true
	case ch >= 0x80:
		return true
	}
	return false
}
