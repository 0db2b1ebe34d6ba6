package commands

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephhbu/ChatDB/engine/models"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	var buf bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// withMockSQL routes the tabular connection to sqlmock.
func withMockSQL(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Setenv("CHATDB_TABULAR_DSN", "sqlmock")
	prev := openSQL
	openSQL = func(driver, dsn string) (*sql.DB, error) {
		assert.Equal(t, "mysql", driver)
		return db, nil
	}
	t.Cleanup(func() {
		openSQL = prev
		_ = db.Close()
	})
	return mock
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "chatdb", cmd.Use)
	assert.NotEmpty(t, cmd.Short)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, expected := range []string{"version", "build", "ask", "raw", "examples", "schema"} {
		assert.Contains(t, names, expected)
	}
}

func TestVersionCommand(t *testing.T) {
	Version = "1.0.0-test"
	defer func() { Version = "dev" }()

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "ChatDB version: 1.0.0-test")
}

func TestBuildCommandText(t *testing.T) {
	out, err := run(t, "build", "count", "victim", "by", "gender")
	require.NoError(t, err)
	assert.Contains(t, out, "Query: SELECT gender, COUNT(*) AS count FROM victim GROUP BY gender")
	assert.Contains(t, out, "Description: count victim by gender")
}

func TestBuildCommandJSON(t *testing.T) {
	out, err := run(t, "build", "-d", "document", "-o", "json", "count victim by gender")
	require.NoError(t, err)

	var env map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &env))
	assert.Equal(t, "document", env["dialect"])
	assert.Equal(t, "count_by_category", env["template"])
	assert.Len(t, env["pipeline"], 1)
}

func TestBuildCommandValidate(t *testing.T) {
	out, err := run(t, "build", "--validate", "average age by gender from victims")
	require.NoError(t, err)
	assert.Contains(t, out, "Valid")

	out, err = run(t, "build", "--validate", "total sales_amount by product_category from orders")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, ExitCode(err))
	assert.Contains(t, out, "Suggestion: if order is a reserved word")
}

func TestBuildCommandEscapesForConfiguredDriver(t *testing.T) {
	out, err := run(t, "build", `get victims where gender is 'a\'`)
	require.NoError(t, err)
	assert.Contains(t, out, `WHERE gender = 'a\\'`)

	t.Setenv("CHATDB_TABULAR_DRIVER", "postgres")
	out, err = run(t, "build", `get victims where gender is 'a\'`)
	require.NoError(t, err)
	assert.Contains(t, out, `WHERE gender = 'a\'`)
}

func TestBuildCommandFailures(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"rejected request", []string{"build", "please do something"}, ExitRejected},
		{"bad output format", []string{"build", "-o", "xml", "count victim by gender"}, ExitFailure},
		{"bad dialect", []string{"build", "-d", "graph", "count victim by gender"}, ExitFailure},
		{"top-n without schema", []string{"build", "get me 3 states with highest count of incidents"}, ExitFailure},
		{"no request", []string{"build"}, ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, ExitCode(err))
		})
	}
}

func TestBuildTopNWithoutSchemaIsNotARejection(t *testing.T) {
	_, err := run(t, "build", "get me 3 states with highest count of incidents")
	assert.ErrorIs(t, err, models.ErrNoCatalog)
}

func TestAskCommand(t *testing.T) {
	mock := withMockSQL(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT gender, COUNT(*) AS count FROM victim GROUP BY gender")).
		WillReturnRows(sqlmock.NewRows([]string{"gender", "count"}).AddRow("female", int64(2)))
	mock.ExpectClose()

	out, err := run(t, "ask", "count victim by gender")
	require.NoError(t, err)
	assert.Contains(t, out, `{"count":2,"gender":"female"}`)
	assert.Contains(t, out, "1 row")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAskWithoutDSN(t *testing.T) {
	t.Setenv("CHATDB_TABULAR_DSN", "")
	_, err := run(t, "ask", "count victim by gender")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tabular.dsn")
}

func TestRawCommand(t *testing.T) {
	mock := withMockSQL(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM victim LIMIT 2")).
		WillReturnRows(sqlmock.NewRows([]string{"gender"}).AddRow("female").AddRow("male"))
	mock.ExpectClose()

	out, err := run(t, "raw", "-o", "json", "SELECT * FROM victim LIMIT 2")
	require.NoError(t, err)
	assert.Equal(t, "{\"gender\":\"female\"}\n{\"gender\":\"male\"}\n", out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRawCommandRefused(t *testing.T) {
	mock := withMockSQL(t)
	mock.ExpectClose()

	_, err := run(t, "raw", "DROP TABLE victim")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNotAllowed)
	assert.Equal(t, ExitRejected, ExitCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchemaCommand(t *testing.T) {
	mock := withMockSQL(t)
	mock.ExpectQuery("FROM information_schema.tables").
		WithArgs("BASE TABLE").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("incident").AddRow("victim"))
	mock.ExpectClose()

	out, err := run(t, "schema")
	require.NoError(t, err)
	assert.Contains(t, out, "2 tables")
	assert.Contains(t, out, "  incident\n")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchemaCommandDescribe(t *testing.T) {
	mock := withMockSQL(t)
	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("victim").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type"}).
			AddRow("gender", "varchar").
			AddRow("age", "int"))
	mock.ExpectClose()

	out, err := run(t, "schema", "victim", "-o", "json")
	require.NoError(t, err)

	var fields []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &fields))
	assert.Equal(t, []map[string]string{
		{"name": "gender", "type": "text", "native_type": "varchar"},
		{"name": "age", "type": "numeric", "native_type": "int"},
	}, fields)
}

func TestExamplesCommandEmptySchema(t *testing.T) {
	mock := withMockSQL(t)
	mock.ExpectQuery("FROM information_schema.tables").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}))
	mock.ExpectClose()

	out, err := run(t, "examples", "-n", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "No examples could be built")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitFailure, ExitCode(errors.New("boom")))
	assert.Equal(t, ExitRejected, ExitCode(fmt.Errorf("wrapped: %w", models.Reject(models.ReasonMalformed, "x", models.IntentUnknown, ""))))
	assert.Equal(t, ExitRejected, ExitCode(models.ErrNotAllowed))
}

func TestCounted(t *testing.T) {
	assert.Equal(t, "1 table", counted(1, "table"))
	assert.Equal(t, "0 tables", counted(0, "table"))
	assert.Equal(t, "3 rows", counted(3, "row"))
	assert.Equal(t, "2 indices", counted(2, "index"))
}
