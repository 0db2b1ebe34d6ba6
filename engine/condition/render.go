package condition

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/josephhbu/ChatDB/engine/models"
	"github.com/josephhbu/ChatDB/mapping"
)

// ============================================================================
// TABULAR LITERALS
// ============================================================================

// Where renders conditions as a SQL boolean expression joined by AND.
func Where(conds []models.Condition, flavor models.Flavor) string {
	parts := make([]string, len(conds))
	for i, c := range conds {
		parts[i] = fmt.Sprintf("%s %s %s", c.Field, mapping.OperatorMap["tabular"][c.Operator], Literal(c, flavor))
	}
	return strings.Join(parts, " AND ")
}

// Literal renders numbers bare and everything else as a quoted string.
// A value that was quoted in the phrase stays a string. MySQL also reads
// backslash escapes inside string literals, so those are doubled there.
func Literal(c models.Condition, flavor models.Flavor) string {
	if !c.Quoted && mapping.IsDecimal(c.Value) {
		return c.Value
	}
	v := LocationValue(c.Field, c.Value)
	if flavor != models.FlavorPostgres {
		v = strings.ReplaceAll(v, `\`, `\\`)
	}
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

// LocationValue upper-cases short alphabetic codes on location columns.
func LocationValue(field, value string) string {
	if !mapping.LocationColumns[strings.ToLower(field)] || len(value) > mapping.LocationCodeMaxLen {
		return value
	}
	for _, r := range value {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return value
		}
	}
	return strings.ToUpper(value)
}

// ============================================================================
// DOCUMENT FILTERS
// ============================================================================

// Filter renders conditions as a $match document in relaxed extended
// JSON. Text equality becomes a case-insensitive anchored regex; comparisons
// coerce numbers.
func Filter(conds []models.Condition) (string, error) {
	clauses := make([]bson.D, len(conds))
	for i, c := range conds {
		clauses[i] = filterClause(c)
	}

	var doc bson.D
	if len(clauses) == 1 {
		doc = clauses[0]
	} else {
		all := make(bson.A, len(clauses))
		for i, c := range clauses {
			all[i] = c
		}
		doc = bson.D{{Key: "$and", Value: all}}
	}
	return marshalDoc(doc)
}

func filterClause(c models.Condition) bson.D {
	value := documentValue(c)
	if s, ok := value.(string); ok {
		switch c.Operator {
		case "=":
			return bson.D{{Key: c.Field, Value: regexMatch(s)}}
		case "!=":
			return bson.D{{Key: c.Field, Value: bson.D{{Key: "$not", Value: regexMatch(s)}}}}
		}
	}
	op := mapping.OperatorMap["document"][c.Operator]
	if op == "$eq" {
		return bson.D{{Key: c.Field, Value: value}}
	}
	return bson.D{{Key: c.Field, Value: bson.D{{Key: op, Value: value}}}}
}

func regexMatch(s string) bson.D {
	return bson.D{
		{Key: "$regex", Value: AnchoredPattern(s)},
		{Key: "$options", Value: "i"},
	}
}

// AnchoredPattern matches s literally and in full.
func AnchoredPattern(s string) string {
	return "^" + regexp.QuoteMeta(s) + "$"
}

// documentValue coerces unquoted numbers; integers stay integral.
func documentValue(c models.Condition) any {
	if !c.Quoted && mapping.IsDecimal(c.Value) {
		if n, err := strconv.ParseInt(c.Value, 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(c.Value, 64); err == nil {
			return f
		}
	}
	return LocationValue(c.Field, c.Value)
}

// Projection keeps the named fields and drops _id; the wildcard only drops _id.
func Projection(cols []string) (string, error) {
	doc := bson.D{}
	for _, col := range cols {
		if col == models.Wildcard {
			continue
		}
		doc = append(doc, bson.E{Key: col, Value: 1})
	}
	doc = append(doc, bson.E{Key: "_id", Value: 0})
	return marshalDoc(doc)
}

func marshalDoc(doc bson.D) (string, error) {
	raw, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return "", fmt.Errorf("encoding filter: %w", err)
	}
	return string(raw), nil
}
