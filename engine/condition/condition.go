// Package condition parses the where phrase of a request
// ("age is at least 25 and gender is female") into comparisons.
package condition

import (
	"fmt"
	"strings"

	"github.com/josephhbu/ChatDB/engine/lexer"
	"github.com/josephhbu/ChatDB/engine/models"
	"github.com/josephhbu/ChatDB/mapping"
)

// Parse splits a phrase into comparisons joined by "and".
func Parse(phrase string) ([]models.Condition, error) {
	tokens, err := lexer.Tokenize(phrase)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}

	var conds []models.Condition
	for {
		cond, err := p.clause()
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)

		if p.peek().Type == lexer.TOKEN_EOF {
			return conds, nil
		}
		// clause() only stops early on the conjunction
		p.next()
	}
}

type parser struct {
	tokens []lexer.Token
	pos    int
}

func (p *parser) peek() lexer.Token {
	return p.tokens[p.pos]
}

func (p *parser) next() lexer.Token {
	tok := p.tokens[p.pos]
	if tok.Type != lexer.TOKEN_EOF {
		p.pos++
	}
	return tok
}

func (p *parser) clause() (models.Condition, error) {
	field := p.next()
	if field.Type != lexer.TOKEN_WORD {
		return models.Condition{}, lexer.NewParseError(field, fmt.Sprintf("expected field name, got %s", describe(field)))
	}

	op, err := p.operator()
	if err != nil {
		return models.Condition{}, err
	}

	value, quoted, err := p.value()
	if err != nil {
		return models.Condition{}, err
	}

	return models.Condition{Field: field.Value, Operator: op, Value: value, Quoted: quoted}, nil
}

func (p *parser) operator() (string, error) {
	tok := p.peek()
	if tok.Type == lexer.TOKEN_OPERATOR {
		p.next()
		return mapping.ConditionSymbols[tok.Value], nil
	}

	for _, phrase := range mapping.ConditionPhrases {
		if p.matches(phrase.Words) {
			p.pos += len(phrase.Words)
			return phrase.Operator, nil
		}
	}
	return "", lexer.NewParseError(tok, fmt.Sprintf("expected comparison, got %s", describe(tok)))
}

func (p *parser) matches(words []string) bool {
	if p.pos+len(words) > len(p.tokens) {
		return false
	}
	for i, w := range words {
		if !p.tokens[p.pos+i].Is(w) {
			return false
		}
	}
	return true
}

// value reads either one quoted string or a run of bare tokens up to the
// next conjunction.
func (p *parser) value() (string, bool, error) {
	tok := p.peek()
	if tok.Type == lexer.TOKEN_STRING {
		p.next()
		if end := p.peek(); end.Type != lexer.TOKEN_EOF && !end.Is(mapping.ConditionConjunction) {
			return "", false, lexer.NewParseError(end, fmt.Sprintf("unexpected %s after quoted value", describe(end)))
		}
		return tok.Value, true, nil
	}

	var words []string
	for {
		tok = p.peek()
		if tok.Type == lexer.TOKEN_EOF || tok.Is(mapping.ConditionConjunction) {
			break
		}
		if tok.Type != lexer.TOKEN_WORD && tok.Type != lexer.TOKEN_NUMBER {
			return "", false, lexer.NewParseError(tok, fmt.Sprintf("unexpected %s in value", describe(tok)))
		}
		words = append(words, tok.Value)
		p.next()
	}
	if len(words) == 0 {
		return "", false, lexer.NewParseError(tok, "missing value")
	}
	return strings.Join(words, " "), false, nil
}

func describe(tok lexer.Token) string {
	if tok.Type == lexer.TOKEN_EOF {
		return "end of input"
	}
	return fmt.Sprintf("'%s'", tok.Value)
}
