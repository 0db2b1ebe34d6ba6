package models

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// ============================================================================
// DIALECTS
// ============================================================================

// Dialect selects the query target a template renders for.
type Dialect string

const (
	DialectTabular  Dialect = "tabular"
	DialectDocument Dialect = "document"
)

// ParseDialect accepts the dialect name plus the backend aliases used on the CLI.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tabular", "sql", "mysql", "postgres", "postgresql":
		return DialectTabular, nil
	case "document", "mongo", "mongodb", "nosql":
		return DialectDocument, nil
	default:
		return "", fmt.Errorf("unknown dialect %q", s)
	}
}

// Flavor picks the SQL variant inside the tabular dialect.
type Flavor string

const (
	FlavorMySQL    Flavor = "mysql"
	FlavorPostgres Flavor = "postgres"
)

// ParseFlavor maps driver names onto a Flavor. Empty input means MySQL.
func ParseFlavor(s string) (Flavor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mysql":
		return FlavorMySQL, nil
	case "postgres", "postgresql", "pg":
		return FlavorPostgres, nil
	default:
		return "", fmt.Errorf("unknown tabular flavor %q", s)
	}
}

// ============================================================================
// INTENTS
// ============================================================================

// Intent is the classified kind of a request. The set is closed.
type Intent string

const (
	IntentTotalByCategory    Intent = "total-by-category"
	IntentFilterSort         Intent = "filter-sort"
	IntentCountByCategory    Intent = "count-by-category"
	IntentAverageByCategory  Intent = "average-by-category"
	IntentFilterByDateRange  Intent = "filter-by-date-range"
	IntentTopNByMeasure      Intent = "top-n-by-measure"
	IntentJoinQuery          Intent = "join-query"
	IntentBasicSelect        Intent = "basic-select"
	IntentListContainers     Intent = "list-containers"
	IntentDescribeAttributes Intent = "describe-attributes"
	IntentUnknown            Intent = "unknown"
)

// AllIntents lists every recognizable intent (unknown excluded).
var AllIntents = []Intent{
	IntentTotalByCategory,
	IntentFilterSort,
	IntentCountByCategory,
	IntentAverageByCategory,
	IntentFilterByDateRange,
	IntentTopNByMeasure,
	IntentJoinQuery,
	IntentBasicSelect,
	IntentListContainers,
	IntentDescribeAttributes,
}

// ============================================================================
// PARAMETERS AND RENDERED OUTPUT
// ============================================================================

// ParameterSet maps slot names to their bound string values.
type ParameterSet map[string]string

// Clone returns an independent copy.
func (p ParameterSet) Clone() ParameterSet {
	out := make(ParameterSet, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// RenderedQuery is the output of a build or a synthesis step.
// Tabular queries carry Text. Document queries carry either a Pipeline
// (aggregate against Container) or a Command (database level).
type RenderedQuery struct {
	Dialect     Dialect
	Template    string
	Container   string
	Text        string
	Pipeline    []bson.D
	Command     bson.D
	Description string
	Parameters  ParameterSet
}

// IsCommand reports whether the query runs against the database rather than a container.
func (q *RenderedQuery) IsCommand() bool {
	return len(q.Command) > 0
}

// String renders the query for display. Document pipelines are shown as
// relaxed extended JSON, one stage per element.
func (q *RenderedQuery) String() string {
	if q.Dialect == DialectTabular {
		return q.Text
	}
	if q.IsCommand() {
		return extJSON(q.Command)
	}
	stages := make([]string, 0, len(q.Pipeline))
	for _, stage := range q.Pipeline {
		stages = append(stages, extJSON(stage))
	}
	prefix := "db." + q.Container + ".aggregate("
	return prefix + "[" + strings.Join(stages, ", ") + "])"
}

func extJSON(doc bson.D) string {
	raw, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return fmt.Sprintf("%v", doc)
	}
	return string(raw)
}

// Example pairs a synthesized query with its natural-language description.
type Example struct {
	Description string
	Query       *RenderedQuery
}
