// Package schema adapts the storage backends into field metadata for the
// builder and the synthesizer.
package schema

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/josephhbu/ChatDB/engine/models"
	"github.com/josephhbu/ChatDB/mapping"
)

// Catalog lists containers and describes their fields.
type Catalog interface {
	ListContainers(ctx context.Context) ([]string, error)
	Describe(ctx context.Context, container string) ([]models.Field, error)
}

// ValueProbe returns distinct values of one field, used to pick example
// conditions that match at least one row.
type ValueProbe interface {
	DistinctValues(ctx context.Context, container, field string, limit int) ([]string, error)
}

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether name can be spliced into a query as a bare identifier.
func ValidIdentifier(name string) bool {
	return identifierRe.MatchString(name)
}

// Snapshot describes every container. The result is point-in-time; two
// snapshots taken around a concurrent schema change are not reconciled.
func Snapshot(ctx context.Context, cat Catalog) (models.Metadata, error) {
	names, err := cat.ListContainers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing containers: %w", err)
	}
	meta := make(models.Metadata, len(names))
	for _, name := range names {
		fields, err := cat.Describe(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("describing %s: %w", name, err)
		}
		meta[name] = fields
	}
	return meta, nil
}

// ============================================================================
// FIELD GROUPS
// ============================================================================

// Groups splits fields into the buckets the synthesizer draws from.
type Groups struct {
	Numeric []models.Field
	Text    []models.Field
	Date    []models.Field
	All     []models.Field
}

// Group classifies fields: a name containing "date" or a date-like native
// type is a date; numeric coarse type is numeric; everything else is text.
func Group(fields []models.Field) Groups {
	g := Groups{All: fields}
	for _, f := range fields {
		switch {
		case strings.Contains(strings.ToLower(f.Name), "date") || mapping.IsDateLike(f.NativeType):
			g.Date = append(g.Date, f)
		case f.Type == models.TypeNumeric:
			g.Numeric = append(g.Numeric, f)
		default:
			g.Text = append(g.Text, f)
		}
	}
	return g
}

// SingleWord keeps values without inner whitespace so they can be spoken
// back in a condition phrase.
func SingleWord(values []string) []string {
	var out []string
	for _, v := range values {
		if v != "" && len(strings.Fields(v)) == 1 && !strings.ContainsAny(v, `'"\`) {
			out = append(out, v)
		}
	}
	return out
}
