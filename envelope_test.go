package chatdb

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/josephhbu/ChatDB/engine/models"
)

func TestEnvelopeTabular(t *testing.T) {
	q := &models.RenderedQuery{
		Dialect:     models.DialectTabular,
		Template:    "count_by_category",
		Container:   "victim",
		Text:        "SELECT gender, COUNT(*) AS count FROM victim GROUP BY gender",
		Description: "count victim by gender",
		Parameters:  models.ParameterSet{"table": "victim", "category": "gender"},
	}

	env, err := Envelope(q)
	require.NoError(t, err)
	got := env.AsMap()
	assert.Equal(t, "tabular", got["dialect"])
	assert.Equal(t, q.Text, got["query"])
	assert.Equal(t, map[string]any{"table": "victim", "category": "gender"}, got["parameters"])
	assert.NotContains(t, got, "pipeline")
}

func TestEnvelopeDocumentPipeline(t *testing.T) {
	q := &models.RenderedQuery{
		Dialect:   models.DialectDocument,
		Template:  "basic_select",
		Container: "incident",
		Pipeline: []bson.D{
			{{Key: "$match", Value: bson.D{{Key: "killed", Value: bson.D{{Key: "$gt", Value: int32(2)}}}}}},
			{{Key: "$project", Value: bson.D{{Key: "_id", Value: int32(0)}}}},
		},
	}

	raw, err := MarshalEnvelope(q)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "basic_select", got["template"])
	assert.Equal(t, []any{
		map[string]any{"$match": map[string]any{"killed": map[string]any{"$gt": float64(2)}}},
		map[string]any{"$project": map[string]any{"_id": float64(0)}},
	}, got["pipeline"])
}

func TestEnvelopeDocumentCommand(t *testing.T) {
	q := &models.RenderedQuery{
		Dialect:  models.DialectDocument,
		Template: "list_containers",
		Command:  bson.D{{Key: "listCollections", Value: int32(1)}, {Key: "nameOnly", Value: true}},
	}

	env, err := Envelope(q)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"listCollections": float64(1), "nameOnly": true}, env.AsMap()["command"])
}
