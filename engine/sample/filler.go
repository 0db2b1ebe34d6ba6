package sample

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/josephhbu/ChatDB/engine/condition"
	"github.com/josephhbu/ChatDB/engine/models"
	"github.com/josephhbu/ChatDB/engine/schema"
	"github.com/josephhbu/ChatDB/engine/templates"
	"github.com/josephhbu/ChatDB/mapping"
)

// filler binds every slot of one template from one container's fields.
// The container is always bound as table so the query can run against it.
type filler struct {
	ctx       context.Context
	rng       *rand.Rand
	template  *templates.Template
	dialect   models.Dialect
	flavor    models.Flavor
	container string
	groups    schema.Groups
	probe     schema.ValueProbe
	slots     models.ParameterSet
}

func (f *filler) fill() (models.ParameterSet, error) {
	for _, slot := range f.template.Required() {
		if _, ok := f.slots[slot]; ok {
			continue
		}
		if err := f.set(slot); err != nil {
			return nil, err
		}
	}
	return f.slots, nil
}

func (f *filler) set(slot string) error {
	switch slot {
	case "table":
		f.slots["table"] = f.container
	case "measure":
		f.slots["measure"] = f.pick(f.groups.Numeric, f.slots["column"], f.slots["category"])
	case "category", "column":
		f.slots[slot] = f.pick(f.groups.Text, f.slots["measure"])
	case "sort_column":
		f.slots["sort_column"] = f.pick(f.groups.All)
	case "n":
		f.slots["n"] = strconv.Itoa(2 + f.rng.Intn(9))
	case "extreme", "sort_order", "sort_direction":
		f.setOrder()
	case "columns", "projection":
		return f.setColumns()
	case "condition", "where", "filter":
		return f.setCondition()
	case "date_column", "start_date", "end_date":
		return f.setDates()
	default:
		return fmt.Errorf("%w: no example value for slot %s", errSkip, slot)
	}
	return nil
}

// pick draws a field name from group, avoiding names in except when it can.
// An empty group falls back to every field.
func (f *filler) pick(group []models.Field, except ...string) string {
	if len(group) == 0 {
		group = f.groups.All
	}
	var pool []string
	for _, field := range group {
		if !contains(except, field.Name) {
			pool = append(pool, field.Name)
		}
	}
	if len(pool) == 0 {
		return group[f.rng.Intn(len(group))].Name
	}
	return pool[f.rng.Intn(len(pool))]
}

func (f *filler) setOrder() {
	var order string
	if f.template.Uses("extreme") {
		extreme := mapping.Superlatives[f.rng.Intn(len(mapping.Superlatives))]
		order = "DESC"
		if mapping.AscendingExtremes[extreme] {
			order = "ASC"
		}
		f.slots["extreme"] = extreme
	} else {
		order = []string{"ASC", "DESC"}[f.rng.Intn(2)]
	}
	f.slots["sort_order"] = order
	f.slots["sort_direction"] = strconv.Itoa(mapping.SortDirections[order])
}

func (f *filler) setColumns() error {
	all := f.groups.All
	k := 1 + f.rng.Intn(min(2, len(all)))
	cols := make([]string, 0, k)
	for _, i := range f.rng.Perm(len(all))[:k] {
		cols = append(cols, all[i].Name)
	}
	projection, err := condition.Projection(cols)
	if err != nil {
		return err
	}
	f.slots["columns"] = strings.Join(cols, ", ")
	f.slots["projection"] = projection
	return nil
}

// setCondition builds "<field> is <value>" from a value that exists in the
// data, so the example returns rows.
func (f *filler) setCondition() error {
	field := f.pick(f.groups.Text)

	var value string
	switch {
	case f.probe != nil:
		values, err := f.probe.DistinctValues(f.ctx, f.container, field, probeLimit)
		if err != nil {
			return fmt.Errorf("%w: probing %s.%s: %v", errSkip, f.container, field, err)
		}
		values = schema.SingleWord(values)
		if len(values) == 0 {
			return fmt.Errorf("%w: no single-word values in %s.%s", errSkip, f.container, field)
		}
		value = values[f.rng.Intn(len(values))]
	case f.dialect == models.DialectDocument:
		value = PlaceholderValue
	default:
		return fmt.Errorf("%w: no value probe for a %s condition", errSkip, f.dialect)
	}

	conds := []models.Condition{{Field: field, Operator: "=", Value: value}}
	f.slots["condition"] = field + " is " + value
	switch f.dialect {
	case models.DialectTabular:
		f.slots["where"] = condition.Where(conds, f.flavor)
	case models.DialectDocument:
		filter, err := condition.Filter(conds)
		if err != nil {
			return err
		}
		f.slots["filter"] = filter
	}
	return nil
}

func (f *filler) setDates() error {
	if len(f.groups.Date) == 0 {
		return fmt.Errorf("%w: %s has no date field", errSkip, f.container)
	}
	start := time.Date(2015+f.rng.Intn(9), time.January, 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, f.rng.Intn(180))
	end := start.AddDate(0, 0, 30+f.rng.Intn(180))

	f.slots["date_column"] = f.groups.Date[f.rng.Intn(len(f.groups.Date))].Name
	f.slots["start_date"] = start.Format("2006-01-02")
	f.slots["end_date"] = end.Format("2006-01-02")
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v != "" && v == s {
			return true
		}
	}
	return false
}
