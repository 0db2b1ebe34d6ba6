// Package templates holds the immutable query templates per dialect and
// renders them against a bound parameter set.
package templates

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/josephhbu/ChatDB/engine/models"
	"github.com/josephhbu/ChatDB/mapping"
)

var placeholderRe = regexp.MustCompile(`\{\{(\w+)\}\}`)

// ============================================================================
// TEMPLATE
// ============================================================================

// Template is a registered, immutable query skeleton.
type Template struct {
	Name        string
	Dialect     models.Dialect
	Intent      models.Intent
	Pattern     string   // tabular query text
	Stages      []string // document pipeline stages
	Command     string   // document database command
	Description string
	required    []string
}

// Required returns the slots the template declares, in first-use order.
func (t *Template) Required() []string {
	out := make([]string, len(t.required))
	copy(out, t.required)
	return out
}

// Uses reports whether the template declares slot.
func (t *Template) Uses(slot string) bool {
	for _, s := range t.required {
		if s == slot {
			return true
		}
	}
	return false
}

// Source returns the raw query side of the template for display and filtering.
func (t *Template) Source() string {
	switch {
	case t.Pattern != "":
		return t.Pattern
	case t.Command != "":
		return t.Command
	}
	return fmt.Sprint(t.Stages)
}

func newTemplate(dialect models.Dialect, def mapping.TemplateDefinition) (*Template, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("template without a name")
	}
	t := &Template{
		Name:        def.Name,
		Dialect:     dialect,
		Intent:      def.Intent,
		Pattern:     def.Pattern,
		Stages:      append([]string(nil), def.Stages...),
		Command:     def.Command,
		Description: def.Description,
	}

	switch dialect {
	case models.DialectTabular:
		if t.Pattern == "" || len(t.Stages) > 0 || t.Command != "" {
			return nil, fmt.Errorf("tabular template %s needs a pattern and nothing else", t.Name)
		}
	case models.DialectDocument:
		if (len(t.Stages) == 0) == (t.Command == "") || t.Pattern != "" {
			return nil, fmt.Errorf("document template %s needs either stages or a command", t.Name)
		}
	default:
		return nil, fmt.Errorf("template %s: unknown dialect %q", t.Name, dialect)
	}

	seen := make(map[string]bool)
	sources := append([]string{t.Pattern, t.Command, t.Description}, t.Stages...)
	for _, src := range sources {
		for _, m := range placeholderRe.FindAllStringSubmatch(src, -1) {
			if !seen[m[1]] {
				seen[m[1]] = true
				t.required = append(t.required, m[1])
			}
		}
	}
	return t, nil
}

// ============================================================================
// REGISTRY
// ============================================================================

type key struct {
	name    string
	dialect models.Dialect
}

// Registry is read-only once built; concurrent reads need no locking.
type Registry struct {
	templates map[key]*Template
}

// Builder collects templates before the registry is frozen.
type Builder struct {
	templates map[key]*Template
	err       error
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{templates: make(map[key]*Template)}
}

// Register adds a template. Names are unique per dialect.
func (b *Builder) Register(dialect models.Dialect, def mapping.TemplateDefinition) error {
	t, err := newTemplate(dialect, def)
	if err != nil {
		return err
	}
	k := key{t.Name, dialect}
	if _, exists := b.templates[k]; exists {
		return fmt.Errorf("template %s already registered for %s", t.Name, dialect)
	}
	b.templates[k] = t
	return nil
}

// Replace registers a template, overwriting any earlier one with the same name.
func (b *Builder) Replace(dialect models.Dialect, def mapping.TemplateDefinition) error {
	t, err := newTemplate(dialect, def)
	if err != nil {
		return err
	}
	b.templates[key{t.Name, dialect}] = t
	return nil
}

// Freeze returns the immutable registry. The builder must not be reused.
func (b *Builder) Freeze() *Registry {
	r := &Registry{templates: b.templates}
	b.templates = nil
	return r
}

// Builtin returns the registry with every shipped template for the given
// tabular flavor.
func Builtin(flavor models.Flavor) (*Registry, error) {
	b := NewBuilder()
	if err := b.RegisterBuiltin(flavor); err != nil {
		return nil, err
	}
	return b.Freeze(), nil
}

// RegisterBuiltin adds the shipped templates to b.
func (b *Builder) RegisterBuiltin(flavor models.Flavor) error {
	for _, def := range mapping.TabularTemplatesFor(flavor) {
		if err := b.Register(models.DialectTabular, def); err != nil {
			return err
		}
	}
	for _, def := range mapping.DocumentTemplates {
		if err := b.Register(models.DialectDocument, def); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the template registered under name for dialect.
func (r *Registry) Lookup(name string, dialect models.Dialect) (*Template, bool) {
	t, ok := r.templates[key{name, dialect}]
	return t, ok
}

// Names lists template names for a dialect in sorted order.
func (r *Registry) Names(dialect models.Dialect) []string {
	var names []string
	for k := range r.templates {
		if k.dialect == dialect {
			names = append(names, k.name)
		}
	}
	sort.Strings(names)
	return names
}

// Templates lists templates for a dialect sorted by name.
func (r *Registry) Templates(dialect models.Dialect) []*Template {
	names := r.Names(dialect)
	out := make([]*Template, 0, len(names))
	for _, n := range names {
		out = append(out, r.templates[key{n, dialect}])
	}
	return out
}
