package templates

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/josephhbu/ChatDB/engine/models"
)

// Render fills every placeholder of the named template. A declared slot
// without a key in params fails with *models.MissingParameterError; nothing
// is defaulted and no partial query is returned.
func (r *Registry) Render(name string, dialect models.Dialect, params models.ParameterSet) (*models.RenderedQuery, error) {
	t, ok := r.Lookup(name, dialect)
	if !ok {
		return nil, fmt.Errorf("%w: %s (%s)", models.ErrUnknownTemplate, name, dialect)
	}
	return t.Render(params)
}

// Render fills the template from params.
func (t *Template) Render(params models.ParameterSet) (*models.RenderedQuery, error) {
	for _, slot := range t.required {
		if _, ok := params[slot]; !ok {
			return nil, &models.MissingParameterError{Template: t.Name, Dialect: t.Dialect, Slot: slot}
		}
	}

	q := &models.RenderedQuery{
		Dialect:     t.Dialect,
		Template:    t.Name,
		Container:   containerOf(params),
		Description: substitute(t.Description, params),
		Parameters:  params.Clone(),
	}

	switch t.Dialect {
	case models.DialectTabular:
		q.Text = substitute(t.Pattern, params)

	case models.DialectDocument:
		if t.Command != "" {
			cmd, err := parseStage(substituteJSON(t.Command, params))
			if err != nil {
				return nil, fmt.Errorf("template %s command: %w", t.Name, err)
			}
			q.Command = cmd
			q.Container = ""
			break
		}
		q.Pipeline = make([]bson.D, 0, len(t.Stages))
		for i, stage := range t.Stages {
			doc, err := parseStage(substituteJSON(stage, params))
			if err != nil {
				return nil, fmt.Errorf("template %s stage %d: %w", t.Name, i, err)
			}
			q.Pipeline = append(q.Pipeline, doc)
		}
	}

	return q, nil
}

func containerOf(params models.ParameterSet) string {
	if v, ok := params["table"]; ok {
		return v
	}
	return params["table1"]
}

func substitute(src string, params models.ParameterSet) string {
	return placeholderRe.ReplaceAllStringFunc(src, func(m string) string {
		return params[m[2:len(m)-2]]
	})
}

// substituteJSON tracks whether each placeholder sits inside a JSON string.
// Inside a string the value is escaped; outside it is inserted verbatim.
func substituteJSON(src string, params models.ParameterSet) string {
	var b strings.Builder
	inString := false
	for i := 0; i < len(src); {
		if strings.HasPrefix(src[i:], "{{") {
			if loc := placeholderRe.FindStringSubmatchIndex(src[i:]); loc != nil && loc[0] == 0 {
				val := params[src[i+loc[2]:i+loc[3]]]
				if inString {
					b.WriteString(escapeJSON(val))
				} else {
					b.WriteString(val)
				}
				i += loc[1]
				continue
			}
		}

		c := src[i]
		if c == '\\' && inString && i+1 < len(src) {
			b.WriteByte(c)
			b.WriteByte(src[i+1])
			i += 2
			continue
		}
		if c == '"' {
			inString = !inString
		}
		b.WriteByte(c)
		i++
	}
	return b.String()
}

func escapeJSON(s string) string {
	raw, _ := json.Marshal(s)
	return string(raw[1 : len(raw)-1])
}

func parseStage(text string) (bson.D, error) {
	var doc bson.D
	if err := bson.UnmarshalExtJSON([]byte(text), false, &doc); err != nil {
		return nil, fmt.Errorf("invalid stage %s: %w", text, err)
	}
	return doc, nil
}
