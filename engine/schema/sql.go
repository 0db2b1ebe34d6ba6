package schema

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/josephhbu/ChatDB/engine/models"
	"github.com/josephhbu/ChatDB/mapping"
)

// SQLCatalog reads information_schema of a MySQL or PostgreSQL database.
type SQLCatalog struct {
	db      *sql.DB
	flavor  models.Flavor
	backend string
	qb      sq.StatementBuilderType
	schema  string // current-schema expression of the flavor
}

// NewSQLCatalog wraps db for the given flavor.
func NewSQLCatalog(db *sql.DB, flavor models.Flavor) *SQLCatalog {
	c := &SQLCatalog{
		db:      db,
		flavor:  flavor,
		backend: mapping.BackendNames[flavor],
		qb:      sq.StatementBuilder.PlaceholderFormat(sq.Question),
		schema:  "table_schema = DATABASE()",
	}
	if flavor == models.FlavorPostgres {
		c.qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
		c.schema = "table_schema = current_schema()"
	}
	return c
}

// ListContainers returns base table names in name order.
func (c *SQLCatalog) ListContainers(ctx context.Context) ([]string, error) {
	query, args, err := c.qb.Select("table_name").
		From("information_schema.tables").
		Where(c.schema).
		Where(sq.Eq{"table_type": "BASE TABLE"}).
		OrderBy("table_name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building table list query: %w", err)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tables: %w", err)
	}
	return names, nil
}

// Describe returns declared columns in ordinal order. An unknown table
// yields an empty list.
func (c *SQLCatalog) Describe(ctx context.Context, container string) ([]models.Field, error) {
	query, args, err := c.qb.Select("column_name", "data_type").
		From("information_schema.columns").
		Where(c.schema).
		Where(sq.Eq{"table_name": container}).
		OrderBy("ordinal_position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building column query: %w", err)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying columns of %s: %w", container, err)
	}
	defer func() { _ = rows.Close() }()

	var fields []models.Field
	for rows.Next() {
		var name, native string
		if err := rows.Scan(&name, &native); err != nil {
			return nil, fmt.Errorf("scanning column: %w", err)
		}
		fields = append(fields, models.Field{
			Name:       name,
			Type:       mapping.CoarseTypeOf(c.backend, native),
			NativeType: native,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating columns: %w", err)
	}
	return fields, nil
}

// DistinctValues groups on field and returns up to limit non-null values.
func (c *SQLCatalog) DistinctValues(ctx context.Context, container, field string, limit int) ([]string, error) {
	if !ValidIdentifier(container) || !ValidIdentifier(field) {
		return nil, fmt.Errorf("invalid identifier %s.%s", container, field)
	}

	qb := c.qb.Select(field).
		From(container).
		Where(sq.NotEq{field: nil}).
		GroupBy(field).
		OrderBy(field)
	if limit > 0 {
		qb = qb.Limit(uint64(limit))
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building distinct query: %w", err)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying distinct %s.%s: %w", container, field, err)
	}
	defer func() { _ = rows.Close() }()

	var values []string
	for rows.Next() {
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning distinct value: %w", err)
		}
		if v.Valid {
			values = append(values, v.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating distinct values: %w", err)
	}
	return values, nil
}
