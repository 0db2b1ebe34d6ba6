package templates

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/josephhbu/ChatDB/engine/models"
	"github.com/josephhbu/ChatDB/mapping"
)

// slotValue returns a value that is valid wherever the slot can appear,
// including raw JSON positions in document stages.
func slotValue(slot string) string {
	switch slot {
	case "filter":
		return `{"age": {"$gte": 25}}`
	case "projection":
		return `{"_id": 0}`
	case "sort_direction":
		return "-1"
	case "n":
		return "5"
	}
	return "v_" + slot
}

func fullParams(t *Template) models.ParameterSet {
	params := models.ParameterSet{}
	for _, slot := range t.Required() {
		params[slot] = slotValue(slot)
	}
	return params
}

func TestBuiltinRendersWithAllSlots(t *testing.T) {
	for _, flavor := range []models.Flavor{models.FlavorMySQL, models.FlavorPostgres} {
		reg, err := Builtin(flavor)
		require.NoError(t, err)

		for _, dialect := range mapping.SupportedDialects {
			tmpls := reg.Templates(dialect)
			require.Len(t, tmpls, 12, "%s/%s", flavor, dialect)

			for _, tmpl := range tmpls {
				t.Run(string(flavor)+"/"+string(dialect)+"/"+tmpl.Name, func(t *testing.T) {
					q, err := reg.Render(tmpl.Name, dialect, fullParams(tmpl))
					require.NoError(t, err)
					assert.NotContains(t, q.Description, "{{")
					assert.NotContains(t, q.Text, "{{")
					assert.Equal(t, tmpl.Name, q.Template)
				})
			}
		}
	}
}

func TestRenderMissingParameter(t *testing.T) {
	reg, err := Builtin(models.FlavorMySQL)
	require.NoError(t, err)

	_, err = reg.Render(mapping.TemplateTotalByCategory, models.DialectTabular, models.ParameterSet{
		"table":    "order",
		"category": "product_category",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrMissingParameter))

	var missing *models.MissingParameterError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "measure", missing.Slot)
	assert.Equal(t, models.DialectTabular, missing.Dialect)
}

func TestRenderUnknownTemplate(t *testing.T) {
	reg, err := Builtin(models.FlavorMySQL)
	require.NoError(t, err)

	_, err = reg.Render("nope", models.DialectDocument, models.ParameterSet{})
	assert.ErrorIs(t, err, models.ErrUnknownTemplate)
}

func TestRenderTabular(t *testing.T) {
	reg, err := Builtin(models.FlavorMySQL)
	require.NoError(t, err)

	q, err := reg.Render(mapping.TemplateTotalByCategory, models.DialectTabular, models.ParameterSet{
		"measure":  "sales_amount",
		"category": "product_category",
		"table":    "order",
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT product_category, SUM(sales_amount) AS total FROM order GROUP BY product_category", q.Text)
	assert.Equal(t, "total sales_amount by product_category from order", q.Description)
	assert.Equal(t, "order", q.Container)
	assert.Equal(t, q.Text, q.String())
}

func TestRenderDocumentPipeline(t *testing.T) {
	reg, err := Builtin(models.FlavorMySQL)
	require.NoError(t, err)

	q, err := reg.Render(mapping.TemplateTopNTable, models.DialectDocument, models.ParameterSet{
		"table":          "order",
		"measure":        "price",
		"extreme":        "highest",
		"n":              "3",
		"sort_direction": "-1",
	})
	require.NoError(t, err)
	require.Len(t, q.Pipeline, 2)
	assert.Equal(t, bson.D{{Key: "$sort", Value: bson.D{{Key: "price", Value: int32(-1)}}}}, q.Pipeline[0])
	assert.Equal(t, bson.D{{Key: "$limit", Value: int32(3)}}, q.Pipeline[1])
	assert.Equal(t, "get me 3 order with highest price", q.Description)
}

func TestRenderDocumentEscapesStringValues(t *testing.T) {
	reg, err := Builtin(models.FlavorMySQL)
	require.NoError(t, err)

	q, err := reg.Render(mapping.TemplateFilterByDateRange, models.DialectDocument, models.ParameterSet{
		"table":       "event",
		"date_column": `da"te`,
		"start_date":  "2022-01-01",
		"end_date":    "2022-12-31",
	})
	require.NoError(t, err)
	require.Len(t, q.Pipeline, 1)

	match := q.Pipeline[0].Map()["$match"].(bson.D)
	assert.Equal(t, `da"te`, match[0].Key)
}

func TestRenderDocumentCommand(t *testing.T) {
	reg, err := Builtin(models.FlavorMySQL)
	require.NoError(t, err)

	q, err := reg.Render(mapping.TemplateListContainers, models.DialectDocument, models.ParameterSet{})
	require.NoError(t, err)
	assert.True(t, q.IsCommand())
	assert.Empty(t, q.Pipeline)
	assert.Equal(t, "listCollections", q.Command[0].Key)
}

func TestPostgresOverrides(t *testing.T) {
	reg, err := Builtin(models.FlavorPostgres)
	require.NoError(t, err)

	tmpl, ok := reg.Lookup(mapping.TemplateListContainers, models.DialectTabular)
	require.True(t, ok)
	assert.Contains(t, tmpl.Pattern, "information_schema.tables")

	mysql, err := Builtin(models.FlavorMySQL)
	require.NoError(t, err)
	tmpl, ok = mysql.Lookup(mapping.TemplateListContainers, models.DialectTabular)
	require.True(t, ok)
	assert.Equal(t, "SHOW TABLES", tmpl.Pattern)
}

func TestRequiredSlots(t *testing.T) {
	reg, err := Builtin(models.FlavorMySQL)
	require.NoError(t, err)

	tmpl, ok := reg.Lookup(mapping.TemplateFilterSort, models.DialectTabular)
	require.True(t, ok)
	assert.Equal(t, []string{"columns", "table", "where", "sort_column", "sort_order", "condition"}, tmpl.Required())
	assert.True(t, tmpl.Uses("where"))
	assert.False(t, tmpl.Uses("filter"))
}

func TestBuilderRejectsDuplicatesAndBadShapes(t *testing.T) {
	b := NewBuilder()
	def := mapping.TemplateDefinition{Name: "t", Pattern: "SELECT 1", Description: "one"}
	require.NoError(t, b.Register(models.DialectTabular, def))
	assert.Error(t, b.Register(models.DialectTabular, def))
	require.NoError(t, b.Register(models.DialectDocument, mapping.TemplateDefinition{Name: "t", Stages: []string{`{"$limit": 1}`}}))

	assert.Error(t, b.Register(models.DialectDocument, mapping.TemplateDefinition{Name: "u", Pattern: "SELECT 1"}))
	assert.Error(t, b.Register(models.DialectTabular, mapping.TemplateDefinition{Name: "v"}))
	assert.Error(t, b.Register(models.DialectTabular, mapping.TemplateDefinition{Pattern: "SELECT 1"}))

	require.NoError(t, b.Replace(models.DialectTabular, mapping.TemplateDefinition{Name: "t", Pattern: "SELECT 2"}))
	reg := b.Freeze()
	tmpl, ok := reg.Lookup("t", models.DialectTabular)
	require.True(t, ok)
	assert.Equal(t, "SELECT 2", tmpl.Pattern)
}

func TestLoadFileOverridesBuiltin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	catalog := `
tabular:
  - name: count_by_category
    intent: count-by-category
    pattern: SELECT {{category}}, COUNT(*) AS n FROM {{table}} GROUP BY {{category}} ORDER BY n DESC
    description: count {{table}} by {{category}}
document:
  - name: latest
    stages:
      - '{"$sort": {"{{field}}": -1}}'
      - '{"$limit": 1}'
    description: latest {{table}} by {{field}}
`
	require.NoError(t, os.WriteFile(path, []byte(catalog), 0o600))

	b := NewBuilder()
	require.NoError(t, b.RegisterBuiltin(models.FlavorMySQL))
	require.NoError(t, b.LoadFile(path))
	reg := b.Freeze()

	q, err := reg.Render(mapping.TemplateCountByCategory, models.DialectTabular, models.ParameterSet{"table": "victim", "category": "gender"})
	require.NoError(t, err)
	assert.Equal(t, "SELECT gender, COUNT(*) AS n FROM victim GROUP BY gender ORDER BY n DESC", q.Text)

	q, err = reg.Render("latest", models.DialectDocument, models.ParameterSet{"table": "event", "field": "ts"})
	require.NoError(t, err)
	assert.Len(t, q.Pipeline, 2)
}

func TestLoadFileErrors(t *testing.T) {
	b := NewBuilder()
	assert.Error(t, b.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, b.LoadYAML([]byte("tabular: [")))
	assert.Error(t, b.LoadYAML([]byte("document:\n  - name: x\n    pattern: SELECT 1\n")))
}
