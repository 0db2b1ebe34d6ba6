package validator

import (
	"fmt"

	"github.com/xwb1989/sqlparser"
)

// ValidateMySQL validates MySQL SQL syntax
func ValidateMySQL(query string) error {
	if _, err := sqlparser.Parse(query); err != nil {
		return fmt.Errorf("mysql: %w", err)
	}
	return nil
}
