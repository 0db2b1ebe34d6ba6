package validator

import (
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v5"
)

// ValidatePostgreSQL validates PostgreSQL SQL syntax
func ValidatePostgreSQL(query string) error {
	if _, err := pg_query.Parse(query); err != nil {
		return fmt.Errorf("postgresql: %w", err)
	}
	return nil
}
