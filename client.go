// client.go

package chatdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/josephhbu/ChatDB/engine/models"
	"github.com/josephhbu/ChatDB/engine/schema"
)

// ============================================
// CLIENT STRUCT
// ============================================

// catalog is what a client needs from introspection: field metadata for
// the builder and distinct values for the synthesizer.
type catalog interface {
	schema.Catalog
	schema.ValueProbe
}

// Client wraps one storage backend. It runs rendered queries and answers
// schema questions for the dialect it serves.
type Client struct {
	sqlDB   *sql.DB
	mongoDB *mongo.Database
	flavor  models.Flavor
	dialect models.Dialect
	catalog catalog
}

// ============================================
// CONSTRUCTORS
// ============================================

// WrapSQL wraps a SQL database connection (MySQL or PostgreSQL).
// An unknown flavor falls back to MySQL.
func WrapSQL(db *sql.DB, flavor models.Flavor) *Client {
	if flavor != models.FlavorMySQL && flavor != models.FlavorPostgres {
		flavor = models.FlavorMySQL
	}
	return &Client{
		sqlDB:   db,
		flavor:  flavor,
		dialect: models.DialectTabular,
		catalog: schema.NewSQLCatalog(db, flavor),
	}
}

// WrapMongo wraps a MongoDB database handle.
func WrapMongo(db *mongo.Database) *Client {
	return &Client{
		mongoDB: db,
		dialect: models.DialectDocument,
		catalog: schema.NewMongoCatalog(db),
	}
}

// ============================================
// CONFIGURATION
// ============================================

// CacheSchema keeps container and field lists in redis between calls.
func (c *Client) CacheSchema(rdb *redis.Client, opts ...schema.CacheOption) *Client {
	c.catalog = schema.NewCachedCatalog(c.catalog, rdb, opts...)
	return c
}

// Dialect reports which query dialect the client executes.
func (c *Client) Dialect() models.Dialect {
	return c.dialect
}

// Flavor reports the SQL flavor; it is empty for document clients.
func (c *Client) Flavor() models.Flavor {
	return c.flavor
}

// ============================================
// SCHEMA
// ============================================

func (c *Client) ListContainers(ctx context.Context) ([]string, error) {
	return c.catalog.ListContainers(ctx)
}

func (c *Client) Describe(ctx context.Context, container string) ([]models.Field, error) {
	return c.catalog.Describe(ctx, container)
}

func (c *Client) DistinctValues(ctx context.Context, container, field string, limit int) ([]string, error) {
	return c.catalog.DistinctValues(ctx, container, field, limit)
}

// ============================================
// EXECUTION
// ============================================

// Execute runs a rendered query and returns its rows. Backend failures come
// back as *models.ExecutionError.
func (c *Client) Execute(ctx context.Context, q *models.RenderedQuery) ([]map[string]any, error) {
	if q == nil {
		return nil, errors.New("nothing to execute")
	}
	if q.Dialect != c.dialect {
		return nil, fmt.Errorf("client executes %s queries, got %s", c.dialect, q.Dialect)
	}

	var (
		rows []map[string]any
		err  error
	)
	switch c.dialect {
	case models.DialectTabular:
		rows, err = c.executeSQL(ctx, q)
	case models.DialectDocument:
		rows, err = c.executeMongo(ctx, q)
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", c.dialect)
	}
	if err != nil {
		return nil, &models.ExecutionError{Container: q.Container, Err: err}
	}
	return rows, nil
}

// ============================================
// SQL IMPLEMENTATION (MySQL, PostgreSQL)
// ============================================

func (c *Client) executeSQL(ctx context.Context, q *models.RenderedQuery) ([]map[string]any, error) {
	rows, err := c.sqlDB.QueryContext(ctx, q.Text)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return rowsToMaps(rows)
}

// ============================================
// MONGODB IMPLEMENTATION
// ============================================

func (c *Client) executeMongo(ctx context.Context, q *models.RenderedQuery) ([]map[string]any, error) {
	var (
		cursor *mongo.Cursor
		err    error
	)
	if q.IsCommand() {
		cursor, err = c.mongoDB.RunCommandCursor(ctx, q.Command)
	} else {
		if q.Container == "" {
			return nil, errors.New("pipeline has no collection")
		}
		cursor, err = c.mongoDB.Collection(q.Container).Aggregate(ctx, mongo.Pipeline(q.Pipeline))
	}
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []map[string]any
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		results = append(results, bsonToMap(doc))
	}
	return results, cursor.Err()
}

// ============================================
// HELPERS
// ============================================

func rowsToMaps(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []map[string]any
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for rows.Next() {
		for i := range values {
			values[i] = nil
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// bsonToMap flattens nested documents so callers see plain maps and slices.
func bsonToMap(doc bson.M) map[string]any {
	result := make(map[string]any, len(doc))
	for k, v := range doc {
		result[k] = plainValue(v)
	}
	return result
}

func plainValue(v any) any {
	switch t := v.(type) {
	case bson.M:
		return bsonToMap(t)
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = plainValue(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = plainValue(item)
		}
		return out
	default:
		return v
	}
}
