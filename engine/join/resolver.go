// Package join infers the linking columns of two containers.
package join

import (
	"fmt"
	"strings"

	"github.com/josephhbu/ChatDB/engine/models"
)

// KeyMarker is the substring that marks a field as a join key candidate.
const KeyMarker = "id"

// Resolve picks, in declared order, the first field of each list whose name
// contains "id" (case-insensitive). If either list has none the result is
// models.ErrUnresolvable. The same inputs always give the same hint.
func Resolve(table1, table2 string, fields1, fields2 []models.Field) (models.JoinHint, error) {
	local, ok := firstKey(fields1)
	if !ok {
		return models.JoinHint{}, fmt.Errorf("%w: %s has no key-like field", models.ErrUnresolvable, table1)
	}
	foreign, ok := firstKey(fields2)
	if !ok {
		return models.JoinHint{}, fmt.Errorf("%w: %s has no key-like field", models.ErrUnresolvable, table2)
	}
	return models.JoinHint{
		Table1:       table1,
		Table2:       table2,
		LocalField:   local,
		ForeignField: foreign,
	}, nil
}

func firstKey(fields []models.Field) (string, bool) {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f.Name), KeyMarker) {
			return f.Name, true
		}
	}
	return "", false
}
