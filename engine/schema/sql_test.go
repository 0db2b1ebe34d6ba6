package schema

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephhbu/ChatDB/engine/models"
)

func TestSQLCatalogListContainers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() AND table_type = ?")).
		WithArgs("BASE TABLE").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("incident").AddRow("victim"))

	cat := NewSQLCatalog(db, models.FlavorMySQL)
	names, err := cat.ListContainers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"incident", "victim"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLCatalogDescribePostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1 ORDER BY ordinal_position")).
		WithArgs("victim").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type"}).
			AddRow("victim_id", "integer").
			AddRow("gender", "character varying").
			AddRow("incident_date", "date").
			AddRow("tags", "jsonb"))

	cat := NewSQLCatalog(db, models.FlavorPostgres)
	fields, err := cat.Describe(context.Background(), "victim")
	require.NoError(t, err)
	assert.Equal(t, []models.Field{
		{Name: "victim_id", Type: models.TypeNumeric, NativeType: "integer"},
		{Name: "gender", Type: models.TypeText, NativeType: "character varying"},
		{Name: "incident_date", Type: models.TypeUnknown, NativeType: "date"},
		{Name: "tags", Type: models.TypeUnknown, NativeType: "jsonb"},
	}, fields)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLCatalogDescribeError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("information_schema.columns").WillReturnError(errors.New("connection reset"))

	_, err = NewSQLCatalog(db, models.FlavorMySQL).Describe(context.Background(), "victim")
	assert.ErrorContains(t, err, "connection reset")
}

func TestSQLCatalogDistinctValues(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT gender FROM victim WHERE gender IS NOT NULL GROUP BY gender ORDER BY gender")).
		WillReturnRows(sqlmock.NewRows([]string{"gender"}).AddRow("female").AddRow("male").AddRow(nil))

	values, err := NewSQLCatalog(db, models.FlavorMySQL).DistinctValues(context.Background(), "victim", "gender", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"female", "male"}, values)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLCatalogDistinctValuesRejectsBadIdentifiers(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = NewSQLCatalog(db, models.FlavorMySQL).DistinctValues(context.Background(), "victim; drop table x", "gender", 10)
	assert.Error(t, err)
}
