// Package extract turns a recognized phrase into named slots and binds
// them to the typed record of its intent.
package extract

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/josephhbu/ChatDB/engine/models"
	"github.com/josephhbu/ChatDB/mapping"
)

// Singularize is the one normalization rule for container names: a single
// trailing "s" is stripped. Every caller that maps a user token onto a
// container name goes through here.
func Singularize(name string) string {
	if len(name) > 1 && (strings.HasSuffix(name, "s") || strings.HasSuffix(name, "S")) {
		return name[:len(name)-1]
	}
	return name
}

// Normalize trims the input, collapses whitespace outside quoted values and
// drops trailing sentence punctuation. Case and quoted text are preserved so
// literal values survive.
func Normalize(input string) string {
	var b strings.Builder
	var quote rune
	prev := ' '
	space := false
	for _, r := range strings.TrimSpace(input) {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case (r == '\'' || r == '"') && (space || r == prev || strings.ContainsRune(" =<>(,", prev)):
			// an apostrophe inside a word does not open a quote
			quote = r
		case unicode.IsSpace(r):
			space = true
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
		prev = r
	}
	return strings.TrimRight(b.String(), "?!. ")
}

// Extract runs one anchored recognizer over input. Unnamed or
// non-participating groups are not bound.
func Extract(input string, recognizer *regexp.Regexp) (models.ParameterSet, error) {
	input = Normalize(input)
	m := recognizer.FindStringSubmatchIndex(input)
	if m == nil {
		return nil, models.ErrNotMatched
	}

	params := models.ParameterSet{}
	for i, name := range recognizer.SubexpNames() {
		if name == "" || m[2*i] < 0 {
			continue
		}
		params[name] = input[m[2*i]:m[2*i+1]]
	}
	postProcess(params)
	return params, nil
}

// ForIntent tries the intent's recognizers in order and returns the first match.
func ForIntent(input string, intent models.Intent) (models.ParameterSet, error) {
	recognizers, ok := mapping.ExtractionPatterns[intent]
	if !ok {
		return nil, fmt.Errorf("%w: no recognizer for intent %s", models.ErrNotMatched, intent)
	}
	for _, re := range recognizers {
		params, err := Extract(input, re)
		if err == nil {
			return params, nil
		}
	}
	return nil, models.ErrNotMatched
}

func postProcess(params models.ParameterSet) {
	if cols, ok := params["columns"]; ok {
		if mapping.WildcardTokens[strings.ToLower(strings.TrimSpace(cols))] {
			params["columns"] = models.Wildcard
		}
	}
	for _, slot := range mapping.TableSlots {
		if v, ok := params[slot]; ok {
			params[slot] = Singularize(v)
		}
	}
}
