package chatdb

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"sync"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephhbu/ChatDB/engine/models"
	"github.com/josephhbu/ChatDB/engine/schema"
	"github.com/josephhbu/ChatDB/engine/templates"
)

func testCatalog() *schema.StaticCatalog {
	return &schema.StaticCatalog{
		Metadata: models.Metadata{
			"incident": {
				{Name: "incident_id", Type: models.TypeNumeric, NativeType: "int"},
				{Name: "state", Type: models.TypeText, NativeType: "varchar"},
				{Name: "killed", Type: models.TypeNumeric, NativeType: "int"},
				{Name: "incident_date", Type: models.TypeUnknown, NativeType: "date"},
			},
			"victim": {
				{Name: "incident_id", Type: models.TypeNumeric, NativeType: "int"},
				{Name: "gender", Type: models.TypeText, NativeType: "varchar"},
				{Name: "age", Type: models.TypeNumeric, NativeType: "int"},
			},
		},
		Values: map[string]map[string][]string{
			"incident": {"state": {"CA", "TX"}},
			"victim":   {"gender": {"female", "male"}},
		},
	}
}

// newTestEngine wires a sqlmock-backed tabular client whose schema comes
// from an in-memory catalog.
func newTestEngine(t *testing.T, opts ...Option) (*Engine, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	client := WrapSQL(db, models.FlavorMySQL)
	client.catalog = testCatalog()

	reg, err := templates.Builtin(models.FlavorMySQL)
	require.NoError(t, err)
	return New(reg, append([]Option{WithClient(client)}, opts...)...), mock, db
}

func TestEngineAsk(t *testing.T) {
	e, mock, _ := newTestEngine(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT gender, COUNT(*) AS count FROM victim GROUP BY gender")).
		WillReturnRows(sqlmock.NewRows([]string{"gender", "count"}).AddRow("female", int64(2)))

	res, err := e.Ask(context.Background(), "count victim by gender", models.DialectTabular)
	require.NoError(t, err)
	assert.Equal(t, "count_by_category", res.Query.Template)
	assert.Equal(t, []map[string]any{{"gender": "female", "count": int64(2)}}, res.Rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEngineAskTopNUsesClientSchema(t *testing.T) {
	e, mock, _ := newTestEngine(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT state, COUNT(*) AS counting FROM incident GROUP BY state ORDER BY counting DESC LIMIT 3")).
		WillReturnRows(sqlmock.NewRows([]string{"state", "counting"}).AddRow("CA", int64(9)))

	res, err := e.Ask(context.Background(), "get me 3 states with highest count of incidents", models.DialectTabular)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEngineAskRejectionRunsNothing(t *testing.T) {
	e, mock, _ := newTestEngine(t)

	_, err := e.Ask(context.Background(), "please do something", models.DialectTabular)
	assert.ErrorIs(t, err, models.ErrUnrecognized)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEngineAskExecutionError(t *testing.T) {
	e, mock, _ := newTestEngine(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT gender, AVG(age) AS average FROM victim GROUP BY gender")).
		WillReturnError(errors.New("table is locked"))

	_, err := e.Ask(context.Background(), "average age by gender from victims", models.DialectTabular)
	var execErr *models.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "victim", execErr.Container)
	_, rejected := models.AsRejected(err)
	assert.False(t, rejected)
}

func TestEngineNoClient(t *testing.T) {
	e, _, _ := newTestEngine(t)

	_, err := e.Ask(context.Background(), "count victim by gender", models.DialectDocument)
	assert.ErrorIs(t, err, ErrNoClient)
	_, err = e.Raw(context.Background(), "db.victim.find({})", models.DialectDocument)
	assert.ErrorIs(t, err, ErrNoClient)
	_, err = e.Examples(context.Background(), models.DialectDocument, 3, "")
	assert.ErrorIs(t, err, ErrNoClient)

	q, err := e.Build(context.Background(), "count victim by gender", models.DialectDocument)
	require.NoError(t, err)
	assert.Equal(t, "victim", q.Container)
}

func TestEngineValidation(t *testing.T) {
	e, _, _ := newTestEngine(t, WithValidation(true))

	_, err := e.Build(context.Background(), "average age by gender from victims", models.DialectTabular)
	assert.NoError(t, err)

	_, err = e.Build(context.Background(), "total sales_amount by product_category from orders", models.DialectTabular)
	require.Error(t, err)
	_, rejected := models.AsRejected(err)
	assert.False(t, rejected)

	lenient, _, _ := newTestEngine(t)
	_, err = lenient.Build(context.Background(), "total sales_amount by product_category from orders", models.DialectTabular)
	assert.NoError(t, err)
}

func TestEngineRaw(t *testing.T) {
	e, mock, _ := newTestEngine(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM victim WHERE age > 30")).
		WillReturnRows(sqlmock.NewRows([]string{"gender", "age"}).AddRow("male", int64(41)))

	res, err := e.Raw(context.Background(), "SELECT * FROM victim WHERE age > 30;", models.DialectTabular)
	require.NoError(t, err)
	assert.Equal(t, "victim", res.Query.Container)
	assert.Len(t, res.Rows, 1)

	_, err = e.Raw(context.Background(), "DELETE FROM victim", models.DialectTabular)
	assert.ErrorIs(t, err, models.ErrNotAllowed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEngineExamples(t *testing.T) {
	e, _, _ := newTestEngine(t, WithSeed(1))

	examples, err := e.Examples(context.Background(), models.DialectTabular, 3, "")
	require.NoError(t, err)
	require.NotEmpty(t, examples)
	assert.LessOrEqual(t, len(examples), 3)
	for _, ex := range examples {
		assert.Equal(t, models.DialectTabular, ex.Query.Dialect)
		assert.Equal(t, ex.Description, ex.Query.Description)
	}
}

func TestEngineExamplesNonPositiveCount(t *testing.T) {
	e, _, _ := newTestEngine(t, WithSeed(1))

	for _, n := range []int{0, -1} {
		examples, err := e.Examples(context.Background(), models.DialectTabular, n, "")
		require.NoError(t, err)
		assert.Empty(t, examples)
	}
}

func TestEngineExamplesConcurrent(t *testing.T) {
	e, _, _ := newTestEngine(t, WithSeed(3))

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.Examples(context.Background(), models.DialectTabular, 3, "")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestEngineEscapesForClientFlavor(t *testing.T) {
	reg, err := templates.Builtin(models.FlavorMySQL)
	require.NoError(t, err)
	input := `get victims where gender is 'a\'`

	mysql := New(reg)
	q, err := mysql.Build(context.Background(), input, models.DialectTabular)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM victim WHERE gender = 'a\\'`, q.Text)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	postgres := New(reg, WithClient(WrapSQL(db, models.FlavorPostgres)))
	q, err = postgres.Build(context.Background(), input, models.DialectTabular)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM victim WHERE gender = 'a\'`, q.Text)
}
