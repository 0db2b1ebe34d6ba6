package models

import (
	"sort"
	"strings"
)

// ============================================================================
// SCHEMA METADATA
// ============================================================================

// CoarseType is the three-way field classification used by the heuristics.
type CoarseType string

const (
	TypeNumeric CoarseType = "numeric"
	TypeText    CoarseType = "text"
	TypeUnknown CoarseType = "unknown"
)

// Field is one column or document key.
type Field struct {
	Name       string     `json:"name"`
	Type       CoarseType `json:"type"`
	NativeType string     `json:"native_type"`
}

// Metadata maps container names to their ordered field lists.
// It is a point-in-time snapshot.
type Metadata map[string][]Field

// Containers returns the container names in a stable order.
func (m Metadata) Containers() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup finds a container case-insensitively and returns its declared name.
func (m Metadata) Lookup(name string) (string, []Field, bool) {
	if fields, ok := m[name]; ok {
		return name, fields, true
	}
	for _, candidate := range m.Containers() {
		if strings.EqualFold(candidate, name) {
			return candidate, m[candidate], true
		}
	}
	return "", nil, false
}

// FieldNames returns the names of fields in declared order.
func FieldNames(fields []Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// HasField reports whether fields contains name (case-insensitive) and returns the declared spelling.
func HasField(fields []Field, name string) (string, bool) {
	for _, f := range fields {
		if strings.EqualFold(f.Name, name) {
			return f.Name, true
		}
	}
	return "", false
}

// JoinHint is a heuristically inferred link between two containers.
type JoinHint struct {
	Table1       string
	Table2       string
	LocalField   string
	ForeignField string
}
