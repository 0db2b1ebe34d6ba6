package validator

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/josephhbu/ChatDB/engine/models"
	"github.com/josephhbu/ChatDB/mapping"
)

// commands lists the database commands a rendered query may carry.
var commands = map[string]bool{
	"listCollections": true,
}

// ValidateRendered checks a document query: a command must be known, and a
// pipeline must be non-empty with one allowed stage operator per stage.
func ValidateRendered(q *models.RenderedQuery) error {
	if q.IsCommand() {
		if name := q.Command[0].Key; !commands[name] {
			return fmt.Errorf("mongodb: command %s is not allowed", name)
		}
		return nil
	}
	if q.Container == "" {
		return fmt.Errorf("mongodb: pipeline has no collection")
	}
	if len(q.Pipeline) == 0 {
		return fmt.Errorf("mongodb: empty pipeline")
	}
	return ValidatePipeline(q.Pipeline)
}

// ValidatePipeline checks every stage against the stage allow-list.
func ValidatePipeline(stages []bson.D) error {
	for i, stage := range stages {
		if len(stage) != 1 {
			return fmt.Errorf("mongodb: stage %d must have exactly one operator, has %d", i, len(stage))
		}
		if op := stage[0].Key; !mapping.RawPipelineStages[op] {
			return fmt.Errorf("mongodb: stage %d: %w: %s", i, models.ErrNotAllowed, op)
		}
	}
	return nil
}
