// Package reverse accepts hand-written queries for the raw mode. Input is
// parsed, never evaluated, and only read-only shapes pass.
package reverse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/josephhbu/ChatDB/engine/models"
)

// ============================================================================
// ERRORS
// ============================================================================

var (
	ErrParseError = errors.New("failed to parse query")
	ErrEmptyQuery = errors.New("empty query")
)

// RawTemplate names queries that did not come from a registered template.
const RawTemplate = "raw"

// ============================================================================
// MAIN INTERFACE
// ============================================================================

// Parse checks a raw query for dialect and returns it ready to execute.
// Anything outside the allow-list fails with models.ErrNotAllowed.
func Parse(query string, dialect models.Dialect) (*models.RenderedQuery, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	switch dialect {
	case models.DialectTabular:
		return parseTabular(query)
	case models.DialectDocument:
		return parseDocument(query)
	default:
		return nil, fmt.Errorf("%w: unsupported dialect %s", models.ErrNotAllowed, dialect)
	}
}
