package schema

import (
	"context"

	"github.com/josephhbu/ChatDB/engine/models"
)

// StaticCatalog serves a fixed snapshot. It backs tests and callers that
// already hold metadata.
type StaticCatalog struct {
	Metadata models.Metadata
	Values   map[string]map[string][]string
}

func (s *StaticCatalog) ListContainers(_ context.Context) ([]string, error) {
	return s.Metadata.Containers(), nil
}

func (s *StaticCatalog) Describe(_ context.Context, container string) ([]models.Field, error) {
	// unknown containers describe as empty, like a collection with no documents
	_, fields, _ := s.Metadata.Lookup(container)
	return fields, nil
}

func (s *StaticCatalog) DistinctValues(_ context.Context, container, field string, limit int) ([]string, error) {
	values := s.Values[container][field]
	if limit > 0 && len(values) > limit {
		values = values[:limit]
	}
	return values, nil
}
