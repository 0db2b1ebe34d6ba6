package lexer

import (
	"fmt"
	"strings"

	"github.com/josephhbu/ChatDB/mapping"
)

// ParseError represents an error with position info
type ParseError struct {
	Message  string
	Position int
	Column   int
	Token    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at column %d: %s", e.Column, e.Message)
}

// NewParseError creates a new parse error
func NewParseError(token Token, message string) *ParseError {
	return &ParseError{
		Message:  message,
		Position: token.Position,
		Column:   token.Column,
		Token:    token.Value,
	}
}

// SuggestSimilar finds the closest intent keyword within two edits.
func SuggestSimilar(unknown string) string {
	unknown = strings.ToLower(unknown)

	var bestMatch string
	bestDistance := 999
	maxDistance := 2 // Only suggest if within 2 edits

	for _, kw := range mapping.IntentKeywords {
		if kw == unknown {
			return ""
		}
		dist := levenshtein(unknown, kw)
		if dist <= maxDistance && dist < bestDistance {
			bestDistance = dist
			bestMatch = kw
		}
	}

	return bestMatch
}

// SuggestPhrase rewrites the first misspelled keyword in a phrase.
// It returns "" when no word is close to a keyword.
func SuggestPhrase(phrase string) string {
	words := strings.Fields(strings.ToLower(phrase))
	for i, w := range words {
		if len(w) < 4 {
			continue
		}
		if s := SuggestSimilar(w); s != "" {
			words[i] = s
			return strings.Join(words, " ")
		}
	}
	return ""
}

// levenshtein calculates edit distance between two strings
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}
