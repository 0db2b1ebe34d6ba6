package reverse

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/josephhbu/ChatDB/engine/lexer"
	"github.com/josephhbu/ChatDB/engine/models"
	"github.com/josephhbu/ChatDB/engine/schema"
	"github.com/josephhbu/ChatDB/engine/validator"
	"github.com/josephhbu/ChatDB/mapping"
)

// forbiddenOperators run server-side JavaScript.
var forbiddenOperators = map[string]bool{
	"$where":       true,
	"$function":    true,
	"$accumulator": true,
}

// parseDocument accepts db.<collection>.<operation>(<extended JSON args>).
// Every operation is rewritten as an aggregation pipeline.
func parseDocument(query string) (*models.RenderedQuery, error) {
	open := strings.IndexByte(query, '(')
	if open < 0 || !strings.HasSuffix(query, ")") {
		return nil, fmt.Errorf("%w: expected db.<collection>.<operation>(...)", ErrParseError)
	}

	collection, op, err := parseCall(query[:open])
	if err != nil {
		return nil, err
	}
	args, err := parseArgs(query[open+1 : len(query)-1])
	if err != nil {
		return nil, err
	}
	if err := checkOperators(args); err != nil {
		return nil, err
	}

	var pipeline []bson.D
	switch op {
	case "find":
		pipeline, err = findPipeline(args)
	case "countDocuments":
		pipeline, err = countPipeline(args)
	case "aggregate":
		pipeline, err = aggregatePipeline(args)
	}
	if err != nil {
		return nil, err
	}

	return &models.RenderedQuery{
		Dialect:     models.DialectDocument,
		Template:    RawTemplate,
		Container:   collection,
		Pipeline:    pipeline,
		Description: query,
	}, nil
}

// parseCall splits the call head with the lexer; it must be one bare word.
func parseCall(head string) (string, string, error) {
	tokens, err := lexer.Tokenize(head)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrParseError, err)
	}
	if len(tokens) != 2 || tokens[0].Type != lexer.TOKEN_WORD {
		return "", "", fmt.Errorf("%w: expected db.<collection>.<operation>", ErrParseError)
	}

	parts := strings.Split(tokens[0].Value, ".")
	if len(parts) != 3 || parts[0] != "db" {
		return "", "", fmt.Errorf("%w: expected db.<collection>.<operation>, got %s", ErrParseError, tokens[0].Value)
	}
	collection, op := parts[1], parts[2]
	if !schema.ValidIdentifier(collection) {
		return "", "", fmt.Errorf("%w: invalid collection name %q", ErrParseError, collection)
	}
	if !mapping.RawDocumentOperations[op] {
		return "", "", fmt.Errorf("%w: operation %s", models.ErrNotAllowed, op)
	}
	return collection, op, nil
}

// parseArgs reads the comma-separated argument list as one extended JSON array.
func parseArgs(text string) (bson.A, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	var wrapper bson.D
	if err := bson.UnmarshalExtJSON([]byte(`{"args": [`+text+`]}`), false, &wrapper); err != nil {
		return nil, fmt.Errorf("%w: arguments: %v", ErrParseError, err)
	}
	if len(wrapper) != 1 {
		return nil, fmt.Errorf("%w: malformed argument list", ErrParseError)
	}
	args, ok := wrapper[0].Value.(bson.A)
	if !ok {
		return nil, fmt.Errorf("%w: malformed argument list", ErrParseError)
	}
	return args, nil
}

func findPipeline(args bson.A) ([]bson.D, error) {
	if len(args) > 2 {
		return nil, fmt.Errorf("%w: find takes a filter and a projection", ErrParseError)
	}
	filter, err := docArg(args, 0, "filter")
	if err != nil {
		return nil, err
	}
	pipeline := []bson.D{{{Key: "$match", Value: filter}}}
	if len(args) == 2 {
		projection, err := docArg(args, 1, "projection")
		if err != nil {
			return nil, err
		}
		pipeline = append(pipeline, bson.D{{Key: "$project", Value: projection}})
	}
	return pipeline, nil
}

func countPipeline(args bson.A) ([]bson.D, error) {
	if len(args) > 1 {
		return nil, fmt.Errorf("%w: countDocuments takes one filter", ErrParseError)
	}
	filter, err := docArg(args, 0, "filter")
	if err != nil {
		return nil, err
	}
	return []bson.D{
		{{Key: "$match", Value: filter}},
		{{Key: "$count", Value: "count"}},
	}, nil
}

func aggregatePipeline(args bson.A) ([]bson.D, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: aggregate takes one pipeline", ErrParseError)
	}
	raw, ok := args[0].(bson.A)
	if !ok {
		return nil, fmt.Errorf("%w: pipeline must be an array", ErrParseError)
	}
	pipeline := make([]bson.D, 0, len(raw))
	for i, s := range raw {
		stage, ok := s.(bson.D)
		if !ok {
			return nil, fmt.Errorf("%w: stage %d is not a document", ErrParseError, i)
		}
		pipeline = append(pipeline, stage)
	}
	if err := validator.ValidatePipeline(pipeline); err != nil {
		return nil, err
	}
	return pipeline, nil
}

// docArg returns argument i as a document; a missing argument is empty.
func docArg(args bson.A, i int, name string) (bson.D, error) {
	if i >= len(args) {
		return bson.D{}, nil
	}
	doc, ok := args[i].(bson.D)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a document", ErrParseError, name)
	}
	return doc, nil
}

// checkOperators walks every document and array looking for operators
// that execute code on the server.
func checkOperators(v any) error {
	switch x := v.(type) {
	case bson.D:
		for _, e := range x {
			if forbiddenOperators[e.Key] {
				return fmt.Errorf("%w: operator %s", models.ErrNotAllowed, e.Key)
			}
			if err := checkOperators(e.Value); err != nil {
				return err
			}
		}
	case bson.A:
		for _, item := range x {
			if err := checkOperators(item); err != nil {
				return err
			}
		}
	}
	return nil
}
