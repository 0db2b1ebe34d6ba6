package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/josephhbu/ChatDB/engine/models"
)

func TestMongoCatalog(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("describe samples one document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.victim", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "abc"},
			{Key: "name", Value: "Ann"},
			{Key: "age", Value: int32(31)},
			{Key: "score", Value: 4.5},
			{Key: "tags", Value: bson.A{"x"}},
		}))

		fields, err := NewMongoCatalog(mt.DB).Describe(context.Background(), "victim")
		require.NoError(mt, err)
		assert.Equal(mt, []models.Field{
			{Name: "name", Type: models.TypeText, NativeType: "string"},
			{Name: "age", Type: models.TypeNumeric, NativeType: "32-bit integer"},
			{Name: "score", Type: models.TypeNumeric, NativeType: "double"},
			{Name: "tags", Type: models.TypeUnknown, NativeType: "array"},
		}, fields)
	})

	mt.Run("empty collection describes as empty", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.victim", mtest.FirstBatch))

		fields, err := NewMongoCatalog(mt.DB).Describe(context.Background(), "victim")
		require.NoError(mt, err)
		assert.Empty(mt, fields)
	})

	mt.Run("list collections sorted", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.$cmd.listCollections", mtest.FirstBatch,
			bson.D{{Key: "name", Value: "victim"}, {Key: "type", Value: "collection"}},
			bson.D{{Key: "name", Value: "incident"}, {Key: "type", Value: "collection"}},
		))

		names, err := NewMongoCatalog(mt.DB).ListContainers(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, []string{"incident", "victim"}, names)
	})

	mt.Run("distinct keeps scalars", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "values", Value: bson.A{"female", "male", int32(3), bson.D{{Key: "a", Value: 1}}}}))

		values, err := NewMongoCatalog(mt.DB).DistinctValues(context.Background(), "victim", "gender", 10)
		require.NoError(mt, err)
		assert.Equal(mt, []string{"female", "male", "3"}, values)
	})

	mt.Run("command failure surfaces", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 13, Message: "unauthorized"}))

		_, err := NewMongoCatalog(mt.DB).ListContainers(context.Background())
		assert.ErrorContains(mt, err, "unauthorized")
	})
}
