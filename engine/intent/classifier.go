// Package intent picks exactly one intent for a request.
package intent

import (
	"strings"

	"github.com/josephhbu/ChatDB/engine/lexer"
	"github.com/josephhbu/ChatDB/engine/models"
	"github.com/josephhbu/ChatDB/mapping"
)

// Classifier evaluates an ordered recognizer list. It holds no per-request
// state and is safe for concurrent use.
type Classifier struct {
	patterns     []mapping.IntentPattern
	superlatives []string
}

// NewClassifier returns a classifier over the built-in recognizers.
func NewClassifier() *Classifier {
	return &Classifier{
		patterns:     mapping.IntentPatterns,
		superlatives: mapping.Superlatives,
	}
}

// WithPatterns returns a classifier over a custom ordered recognizer list.
func WithPatterns(patterns []mapping.IntentPattern, superlatives []string) *Classifier {
	return &Classifier{patterns: patterns, superlatives: superlatives}
}

// Classify returns the first intent whose recognizer matches the case-folded
// input. When none does, a superlative anywhere in the text selects top-n;
// otherwise the result is IntentUnknown, which is not an error.
func (c *Classifier) Classify(input string) models.Intent {
	text := strings.ToLower(strings.TrimSpace(input))
	if text == "" {
		return models.IntentUnknown
	}

	for _, p := range c.patterns {
		if p.Pattern.MatchString(text) {
			return p.Intent
		}
	}

	for _, s := range c.superlatives {
		if strings.Contains(text, s) {
			return models.IntentTopNByMeasure
		}
	}

	return models.IntentUnknown
}

// Suggest proposes a corrected phrase for unrecognized input when a word is
// within two edits of an intent keyword and the correction classifies.
func (c *Classifier) Suggest(input string) string {
	fixed := lexer.SuggestPhrase(input)
	if fixed == "" || c.Classify(fixed) == models.IntentUnknown {
		return ""
	}
	return fixed
}
