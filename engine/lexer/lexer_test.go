package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		types  []TokenType
		values []string
	}{
		{
			name:   "spoken comparison",
			input:  "age is at least 25",
			types:  []TokenType{TOKEN_WORD, TOKEN_WORD, TOKEN_WORD, TOKEN_WORD, TOKEN_NUMBER, TOKEN_EOF},
			values: []string{"age", "is", "at", "least", "25", ""},
		},
		{
			name:   "symbolic operator and quoted value",
			input:  `name != 'O''Brien'`,
			types:  []TokenType{TOKEN_WORD, TOKEN_OPERATOR, TOKEN_STRING, TOKEN_EOF},
			values: []string{"name", "!=", "O'Brien", ""},
		},
		{
			name:   "dates stay whole",
			input:  "date >= 2022-01-01",
			types:  []TokenType{TOKEN_WORD, TOKEN_OPERATOR, TOKEN_WORD, TOKEN_EOF},
			values: []string{"date", ">=", "2022-01-01", ""},
		},
		{
			name:   "negative number",
			input:  "balance < -3.5",
			types:  []TokenType{TOKEN_WORD, TOKEN_OPERATOR, TOKEN_NUMBER, TOKEN_EOF},
			values: []string{"balance", "<", "-3.5", ""},
		},
		{
			name:   "non-decimal numerals stay words",
			input:  "name = NaN or inf or Infinity or 0x1p3 or 1e5",
			types:  []TokenType{TOKEN_WORD, TOKEN_OPERATOR, TOKEN_WORD, TOKEN_WORD, TOKEN_WORD, TOKEN_WORD, TOKEN_WORD, TOKEN_WORD, TOKEN_WORD, TOKEN_WORD, TOKEN_WORD, TOKEN_EOF},
			values: []string{"name", "=", "NaN", "or", "inf", "or", "Infinity", "or", "0x1p3", "or", "1e5", ""},
		},
		{
			name:   "command prefix",
			input:  "db.orders.find(",
			types:  []TokenType{TOKEN_WORD, TOKEN_LPAREN, TOKEN_EOF},
			values: []string{"db.orders.find", "(", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			require.NoError(t, err)
			require.Len(t, tokens, len(tt.types))
			for i, tok := range tokens {
				assert.Equal(t, tt.types[i], tok.Type, "token %d", i)
				assert.Equal(t, tt.values[i], tok.Value, "token %d", i)
			}
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	_, err := Tokenize("name is 'open")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 9, perr.Column)

	_, err = Tokenize("age =! 3")
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "unknown operator")

	_, err = Tokenize("age is #3")
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "unexpected character")
}

func TestSuggestSimilar(t *testing.T) {
	assert.Equal(t, "total", SuggestSimilar("totl"))
	assert.Equal(t, "average", SuggestSimilar("averag"))
	assert.Equal(t, "", SuggestSimilar("total"))
	assert.Equal(t, "", SuggestSimilar("zzzzzzzz"))
}

func TestSuggestPhrase(t *testing.T) {
	assert.Equal(t, "total sales by region from order", SuggestPhrase("totl sales by region from order"))
	assert.Equal(t, "", SuggestPhrase("please do it"))
}
