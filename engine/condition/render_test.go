package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephhbu/ChatDB/engine/models"
)

func TestLiteral(t *testing.T) {
	tests := []struct {
		cond models.Condition
		want string
	}{
		{models.Condition{Field: "age", Value: "25"}, "25"},
		{models.Condition{Field: "price", Value: "-3.5"}, "-3.5"},
		{models.Condition{Field: "zip", Value: "02134", Quoted: true}, "'02134'"},
		{models.Condition{Field: "name", Value: "o'brien"}, "'o''brien'"},
		{models.Condition{Field: "state", Value: "ca"}, "'CA'"},
		{models.Condition{Field: "State", Value: "tx"}, "'TX'"},
		{models.Condition{Field: "state", Value: "texas"}, "'texas'"},
		{models.Condition{Field: "country_code", Value: "u2"}, "'u2'"},
		{models.Condition{Field: "gender", Value: "f"}, "'f'"},
		{models.Condition{Field: "name", Value: "Nan"}, "'Nan'"},
		{models.Condition{Field: "name", Value: "inf"}, "'inf'"},
		{models.Condition{Field: "name", Value: "Infinity"}, "'Infinity'"},
		{models.Condition{Field: "code", Value: "0x1p3"}, "'0x1p3'"},
		{models.Condition{Field: "code", Value: "1e5"}, "'1e5'"},
		{models.Condition{Field: "path", Value: `a\`, Quoted: true}, `'a\\'`},
		{models.Condition{Field: "path", Value: `c:\tmp\'x`, Quoted: true}, `'c:\\tmp\\''x'`},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Literal(tt.cond, models.FlavorMySQL))
		})
	}
}

func TestLiteralPostgresKeepsBackslashes(t *testing.T) {
	c := models.Condition{Field: "path", Value: `a\`, Quoted: true}
	assert.Equal(t, `'a\'`, Literal(c, models.FlavorPostgres))
}

func TestWhere(t *testing.T) {
	conds, err := Parse("age is at least 25 and state is not ny")
	require.NoError(t, err)
	assert.Equal(t, "age >= 25 AND state != 'NY'", Where(conds, models.FlavorMySQL))
}

func TestFilter(t *testing.T) {
	tests := []struct {
		phrase string
		want   string
	}{
		{"age > 30", `{"age":{"$gt":30}}`},
		{"age = 30", `{"age":30}`},
		{"score is at most 2.5", `{"score":{"$lte":2.5}}`},
		{"gender is female", `{"gender":{"$regex":"^female$","$options":"i"}}`},
		{"gender is not male", `{"gender":{"$not":{"$regex":"^male$","$options":"i"}}}`},
		{"city is 'St. Louis'", `{"city":{"$regex":"^St\\. Louis$","$options":"i"}}`},
		{"zip is '02134'", `{"zip":{"$regex":"^02134$","$options":"i"}}`},
		{"name is Nan", `{"name":{"$regex":"^Nan$","$options":"i"}}`},
		{"name is Infinity", `{"name":{"$regex":"^Infinity$","$options":"i"}}`},
		{"code is 0x1p3", `{"code":{"$regex":"^0x1p3$","$options":"i"}}`},
		{
			"age >= 18 and state is ca",
			`{"$and":[{"age":{"$gte":18}},{"state":{"$regex":"^CA$","$options":"i"}}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			conds, err := Parse(tt.phrase)
			require.NoError(t, err)
			got, err := Filter(conds)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, got)
		})
	}
}

func TestProjection(t *testing.T) {
	got, err := Projection([]string{"name", "age"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":1,"age":1,"_id":0}`, got)

	got, err = Projection([]string{models.Wildcard})
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":0}`, got)
}

func TestAnchoredPattern(t *testing.T) {
	assert.Equal(t, `^a\+b$`, AnchoredPattern("a+b"))
}
