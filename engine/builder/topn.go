package builder

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/josephhbu/ChatDB/engine/extract"
	"github.com/josephhbu/ChatDB/engine/models"
	"github.com/josephhbu/ChatDB/mapping"
)

// resolveTopN probes live schema for the three top-n shapes in fixed order:
//
//	(a) "N <table> with highest <measure>"        rows ordered by a column
//	(b) "N <column> with highest count of <table>" grouped row count
//	(c) "N <column> with highest number of <measure>" grouped sum in the
//	    first table (by name) holding both columns
//
// A token that is both a table and a column resolves to the earliest shape.
func (b *Builder) resolveTopN(ctx context.Context, p models.TopN, dialect models.Dialect) (string, models.ParameterSet, error) {
	n, err := strconv.Atoi(p.N)
	if err != nil || n <= 0 {
		return "", nil, malformed("%q is not a positive count", p.N)
	}

	cat, ok := b.catalogs[dialect]
	if !ok {
		return "", nil, fmt.Errorf("resolving top-n shape: %w", models.ErrNoCatalog)
	}
	names, err := cat.ListContainers(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("listing containers: %w", err)
	}

	order := "DESC"
	if mapping.AscendingExtremes[strings.ToLower(p.Extreme)] {
		order = "ASC"
	}
	slots := models.ParameterSet{
		"n":              strconv.Itoa(n),
		"extreme":        strings.ToLower(p.Extreme),
		"sort_order":     order,
		"sort_direction": strconv.Itoa(mapping.SortDirections[order]),
	}

	// (a)
	if table, ok := containerNamed(names, p.Subject); ok {
		fields, err := cat.Describe(ctx, table)
		if err != nil {
			return "", nil, fmt.Errorf("describing %s: %w", table, err)
		}
		if measure, ok := fieldNamed(fields, p.Object); ok {
			slots["table"], slots["measure"] = table, measure
			return mapping.TemplateTopNTable, slots, nil
		}
	}

	// (b)
	if table, ok := containerNamed(names, p.Object); ok {
		fields, err := cat.Describe(ctx, table)
		if err != nil {
			return "", nil, fmt.Errorf("describing %s: %w", table, err)
		}
		if category, ok := fieldNamed(fields, p.Subject); ok {
			slots["table"], slots["category"] = table, category
			return mapping.TemplateTopNCount, slots, nil
		}
	}

	// (c)
	for _, table := range sorted(names) {
		fields, err := cat.Describe(ctx, table)
		if err != nil {
			return "", nil, fmt.Errorf("describing %s: %w", table, err)
		}
		column, ok := fieldNamed(fields, p.Subject)
		if !ok {
			continue
		}
		measure, ok := fieldNamed(fields, p.Object)
		if !ok {
			continue
		}
		slots["table"], slots["column"], slots["measure"] = table, column, measure
		return mapping.TemplateTopNNoTable, slots, nil
	}

	return "", nil, &models.RejectedError{
		Reason: models.ReasonAmbiguousTopN,
		Detail: fmt.Sprintf("neither %q nor %q fits a known table and column", p.Subject, p.Object),
	}
}

// containerNamed matches the singular form of token against names, ignoring case.
func containerNamed(names []string, token string) (string, bool) {
	want := extract.Singularize(token)
	for _, name := range names {
		if strings.EqualFold(name, want) {
			return name, true
		}
	}
	return "", false
}

// fieldNamed matches token, then its singular form, against field names.
func fieldNamed(fields []models.Field, token string) (string, bool) {
	if name, ok := models.HasField(fields, token); ok {
		return name, true
	}
	return models.HasField(fields, extract.Singularize(token))
}

func sorted(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}
