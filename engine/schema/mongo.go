package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/josephhbu/ChatDB/engine/models"
	"github.com/josephhbu/ChatDB/mapping"
)

// MongoCatalog infers fields by sampling one document per collection.
type MongoCatalog struct {
	db *mongo.Database
}

// NewMongoCatalog wraps a database handle.
func NewMongoCatalog(db *mongo.Database) *MongoCatalog {
	return &MongoCatalog{db: db}
}

// ListContainers returns collection names in name order.
func (c *MongoCatalog) ListContainers(ctx context.Context) ([]string, error) {
	names, err := c.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Describe samples the first document and reports its top-level keys in
// stored order, skipping _id. An empty collection yields an empty list.
func (c *MongoCatalog) Describe(ctx context.Context, container string) ([]models.Field, error) {
	raw, err := c.db.Collection(container).FindOne(ctx, bson.D{}).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sampling %s: %w", container, err)
	}

	elems, err := raw.Elements()
	if err != nil {
		return nil, fmt.Errorf("reading sample of %s: %w", container, err)
	}

	fields := make([]models.Field, 0, len(elems))
	for _, e := range elems {
		if e.Key() == "_id" {
			continue
		}
		native := e.Value().Type.String()
		fields = append(fields, models.Field{
			Name:       e.Key(),
			Type:       mapping.CoarseTypeOf(mapping.DocumentBackend, native),
			NativeType: native,
		})
	}
	return fields, nil
}

// DistinctValues returns up to limit distinct scalar values of field.
func (c *MongoCatalog) DistinctValues(ctx context.Context, container, field string, limit int) ([]string, error) {
	raw, err := c.db.Collection(container).Distinct(ctx, field, bson.D{}, options.Distinct())
	if err != nil {
		return nil, fmt.Errorf("distinct %s.%s: %w", container, field, err)
	}

	var values []string
	for _, v := range raw {
		switch x := v.(type) {
		case string:
			values = append(values, x)
		case int32, int64, float64:
			values = append(values, fmt.Sprint(x))
		}
		if limit > 0 && len(values) >= limit {
			break
		}
	}
	return values, nil
}
