// Package validator checks rendered queries against the grammar of the
// backend that will run them.
package validator

import (
	"fmt"

	"github.com/josephhbu/ChatDB/engine/models"
	"github.com/josephhbu/ChatDB/mapping"
)

// ValidationResult reports the outcome of a check with a hint for the user.
type ValidationResult struct {
	Valid      bool
	Error      string
	Suggestion string
}

// Validator checks rendered queries for one tabular flavor.
type Validator struct {
	backend string
}

// New returns a validator for the tabular flavor; document queries are
// always checked against MongoDB.
func New(flavor models.Flavor) *Validator {
	backend, ok := mapping.BackendNames[flavor]
	if !ok {
		backend = mapping.BackendNames[models.FlavorMySQL]
	}
	return &Validator{backend: backend}
}

// Validate implements the builder's validation hook.
func (v *Validator) Validate(q *models.RenderedQuery) error {
	switch q.Dialect {
	case models.DialectTabular:
		return ValidateSQL(q.Text, v.backend)
	case models.DialectDocument:
		return ValidateRendered(q)
	}
	return fmt.Errorf("unsupported dialect: %s", q.Dialect)
}

// ValidateWithDetails reports the outcome instead of failing.
func (v *Validator) ValidateWithDetails(q *models.RenderedQuery) *ValidationResult {
	if err := v.Validate(q); err != nil {
		return &ValidationResult{Valid: false, Error: err.Error(), Suggestion: suggestionFor(q)}
	}
	return &ValidationResult{Valid: true}
}

// ValidateSQL validates query text based on database type
func ValidateSQL(query string, dbType string) error {
	switch dbType {
	case "PostgreSQL":
		return ValidatePostgreSQL(query)
	case "MySQL":
		return ValidateMySQL(query)
	default:
		return fmt.Errorf("unsupported database type: %s", dbType)
	}
}

func suggestionFor(q *models.RenderedQuery) string {
	if q.Dialect == models.DialectTabular && q.Container != "" {
		return fmt.Sprintf("if %s is a reserved word, quote it or rename the table", q.Container)
	}
	return ""
}
