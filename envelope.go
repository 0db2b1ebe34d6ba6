// envelope.go

package chatdb

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/josephhbu/ChatDB/engine/models"
)

// ============================================
// QUERY ENVELOPE
// ============================================

// Envelope describes a rendered query as a protobuf Struct. Document
// stages and commands are carried as nested structs, so consumers never
// parse extended JSON themselves.
func Envelope(q *models.RenderedQuery) (*structpb.Struct, error) {
	params := make(map[string]any, len(q.Parameters))
	for k, v := range q.Parameters {
		params[k] = v
	}

	fields := map[string]any{
		"dialect":     string(q.Dialect),
		"template":    q.Template,
		"container":   q.Container,
		"query":       q.String(),
		"description": q.Description,
		"parameters":  params,
	}

	if q.Dialect == models.DialectDocument {
		if q.IsCommand() {
			cmd, err := plainDocument(q.Command)
			if err != nil {
				return nil, err
			}
			fields["command"] = cmd
		} else {
			stages := make([]any, 0, len(q.Pipeline))
			for _, stage := range q.Pipeline {
				doc, err := plainDocument(stage)
				if err != nil {
					return nil, err
				}
				stages = append(stages, doc)
			}
			fields["pipeline"] = stages
		}
	}

	env, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("building envelope: %w", err)
	}
	return env, nil
}

// MarshalEnvelope renders the envelope as JSON.
func MarshalEnvelope(q *models.RenderedQuery) ([]byte, error) {
	env, err := Envelope(q)
	if err != nil {
		return nil, err
	}
	return protojson.MarshalOptions{UseProtoNames: true}.Marshal(env)
}

// plainDocument converts a bson document to the map form structpb accepts.
func plainDocument(doc bson.D) (map[string]any, error) {
	raw, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return nil, fmt.Errorf("encoding stage: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding stage: %w", err)
	}
	return out, nil
}
