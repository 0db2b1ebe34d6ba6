package builder

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/josephhbu/ChatDB/engine/condition"
	"github.com/josephhbu/ChatDB/engine/join"
	"github.com/josephhbu/ChatDB/engine/models"
	"github.com/josephhbu/ChatDB/engine/schema"
	"github.com/josephhbu/ChatDB/mapping"
)

// DefaultDateColumn is used when neither the phrase nor the schema names one.
const DefaultDateColumn = "date"

const isoDate = "2006-01-02"

// bind chooses the template and produces the final slot map for it.
func (b *Builder) bind(ctx context.Context, p models.Params, dialect models.Dialect) (string, models.ParameterSet, error) {
	if !mapping.IsSupportedDialect(dialect) {
		return "", nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	switch p := p.(type) {
	case models.TotalByCategory, models.AverageByCategory, models.CountByCategory, models.DescribeAttributes:
		slots := p.Slots()
		if err := identifiers(slots, "table", "measure", "category"); err != nil {
			return "", nil, err
		}
		return mapping.IntentTemplates[p.Intent()], slots, nil

	case models.ListContainers:
		return mapping.TemplateListContainers, p.Slots(), nil

	case models.FilterSort:
		slots, err := b.bindSelection(p.Slots(), dialect)
		if err != nil {
			return "", nil, err
		}
		if err := identifiers(slots, "sort_column"); err != nil {
			return "", nil, err
		}
		order, err := sortOrder(p.SortOrder)
		if err != nil {
			return "", nil, err
		}
		slots["sort_order"] = order
		slots["sort_direction"] = strconv.Itoa(mapping.SortDirections[order])
		return mapping.TemplateFilterSort, slots, nil

	case models.BasicSelect:
		slots, err := b.bindSelection(p.Slots(), dialect)
		if err != nil {
			return "", nil, err
		}
		return mapping.TemplateBasicSelect, slots, nil

	case models.DateRange:
		return b.bindDateRange(ctx, p, dialect)

	case models.JoinQuery:
		return b.bindJoin(ctx, p, dialect)

	case models.TopN:
		return b.resolveTopN(ctx, p, dialect)
	}
	return "", nil, fmt.Errorf("no binding for intent %s", p.Intent())
}

// identifiers rejects any present slot that cannot be spliced as a bare name.
func identifiers(slots models.ParameterSet, names ...string) error {
	for _, name := range names {
		v, ok := slots[name]
		if !ok {
			continue
		}
		if !schema.ValidIdentifier(v) {
			return malformed("%q is not a usable %s name", v, strings.ReplaceAll(name, "_", " "))
		}
	}
	return nil
}

// bindSelection fills columns, where/filter and projection for the
// selecting templates.
func (b *Builder) bindSelection(slots models.ParameterSet, dialect models.Dialect) (models.ParameterSet, error) {
	if err := identifiers(slots, "table"); err != nil {
		return nil, err
	}
	cols, err := splitColumns(slots["columns"])
	if err != nil {
		return nil, err
	}
	conds, err := condition.Parse(slots["condition"])
	if err != nil {
		return nil, malformed("condition %q: %v", slots["condition"], err)
	}
	for _, c := range conds {
		if !schema.ValidIdentifier(c.Field) {
			return nil, malformed("%q is not a usable field name", c.Field)
		}
	}

	switch dialect {
	case models.DialectTabular:
		slots["columns"] = strings.Join(cols, ", ")
		slots["where"] = condition.Where(conds, b.flavor)
	case models.DialectDocument:
		filter, err := condition.Filter(conds)
		if err != nil {
			return nil, err
		}
		projection, err := condition.Projection(cols)
		if err != nil {
			return nil, err
		}
		slots["filter"] = filter
		slots["projection"] = projection
	}
	return slots, nil
}

func splitColumns(columns string) ([]string, error) {
	if columns == "" || columns == models.Wildcard {
		return []string{models.Wildcard}, nil
	}
	parts := strings.Split(columns, ",")
	cols := make([]string, 0, len(parts))
	for _, part := range parts {
		col := strings.TrimSpace(part)
		if !schema.ValidIdentifier(col) {
			return nil, malformed("%q is not a usable column name", col)
		}
		cols = append(cols, col)
	}
	return cols, nil
}

func sortOrder(spoken string) (string, error) {
	if spoken == "" {
		return mapping.DefaultSortOrder, nil
	}
	order, ok := mapping.SortOrders[strings.ToLower(spoken)]
	if !ok {
		return "", malformed("unknown sort order %q", spoken)
	}
	return order, nil
}

// ============================================================================
// DATE RANGE
// ============================================================================

func (b *Builder) bindDateRange(ctx context.Context, p models.DateRange, dialect models.Dialect) (string, models.ParameterSet, error) {
	start, err := time.Parse(isoDate, p.StartDate)
	if err != nil {
		return "", nil, malformed("%q is not a calendar date", p.StartDate)
	}
	end, err := time.Parse(isoDate, p.EndDate)
	if err != nil {
		return "", nil, malformed("%q is not a calendar date", p.EndDate)
	}
	if end.Before(start) {
		return "", nil, malformed("range ends (%s) before it starts (%s)", p.EndDate, p.StartDate)
	}

	slots := p.Slots()
	if p.DateColumn == "" {
		col, err := b.dateColumn(ctx, p.Table, dialect)
		if err != nil {
			return "", nil, err
		}
		slots["date_column"] = col
	}
	if err := identifiers(slots, "table", "date_column"); err != nil {
		return "", nil, err
	}
	return mapping.TemplateFilterByDateRange, slots, nil
}

// dateColumn picks the first date-like field of table, or DefaultDateColumn
// when there is no catalog or nothing date-like.
func (b *Builder) dateColumn(ctx context.Context, table string, dialect models.Dialect) (string, error) {
	cat, ok := b.catalogs[dialect]
	if !ok {
		return DefaultDateColumn, nil
	}
	fields, err := cat.Describe(ctx, table)
	if err != nil {
		return "", fmt.Errorf("describing %s: %w", table, err)
	}
	if dates := schema.Group(fields).Date; len(dates) > 0 {
		return dates[0].Name, nil
	}
	return DefaultDateColumn, nil
}

// ============================================================================
// JOIN
// ============================================================================

func (b *Builder) bindJoin(ctx context.Context, p models.JoinQuery, dialect models.Dialect) (string, models.ParameterSet, error) {
	slots := p.Slots()
	if err := identifiers(slots, "table1", "table2", "column"); err != nil {
		return "", nil, err
	}

	cat, ok := b.catalogs[dialect]
	if !ok {
		return "", nil, fmt.Errorf("resolving join of %s and %s: %w", p.Table1, p.Table2, models.ErrNoCatalog)
	}
	fields1, err := cat.Describe(ctx, p.Table1)
	if err != nil {
		return "", nil, fmt.Errorf("describing %s: %w", p.Table1, err)
	}
	fields2, err := cat.Describe(ctx, p.Table2)
	if err != nil {
		return "", nil, fmt.Errorf("describing %s: %w", p.Table2, err)
	}

	hint, err := join.Resolve(p.Table1, p.Table2, fields1, fields2)
	if errors.Is(err, models.ErrUnresolvable) {
		return "", nil, &models.RejectedError{Reason: models.ReasonNoJoinableColumns, Detail: err.Error()}
	}
	if err != nil {
		return "", nil, err
	}
	slots["local_field"] = hint.LocalField
	slots["foreign_field"] = hint.ForeignField

	value, quoted := unquote(p.Value)
	switch dialect {
	case models.DialectTabular:
		slots["literal"] = condition.Literal(models.Condition{Field: p.Column, Operator: "=", Value: value, Quoted: quoted}, b.flavor)
	case models.DialectDocument:
		slots["value_pattern"] = condition.AnchoredPattern(condition.LocationValue(p.Column, value))
	}
	return mapping.TemplateJoinQuery, slots, nil
}

// unquote strips one pair of matching surrounding quotes.
func unquote(v string) (string, bool) {
	if len(v) >= 2 && (v[0] == '\'' || v[0] == '"') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1], true
	}
	return v, false
}
