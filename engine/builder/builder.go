// Package builder turns a request phrase into a rendered query:
// classify, extract, resolve joins or top-n shapes, coerce, render.
package builder

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/josephhbu/ChatDB/engine/extract"
	"github.com/josephhbu/ChatDB/engine/intent"
	"github.com/josephhbu/ChatDB/engine/models"
	"github.com/josephhbu/ChatDB/engine/schema"
	"github.com/josephhbu/ChatDB/engine/templates"
)

// Validator checks a rendered query before it is handed out.
type Validator interface {
	Validate(q *models.RenderedQuery) error
}

// Builder is stateless per request and safe for concurrent use once built.
type Builder struct {
	registry   *templates.Registry
	classifier *intent.Classifier
	catalogs   map[models.Dialect]schema.Catalog
	validator  Validator
	flavor     models.Flavor
	logger     *zap.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithCatalog sets the schema source used for joins, top-n and date columns.
func WithCatalog(dialect models.Dialect, cat schema.Catalog) Option {
	return func(b *Builder) {
		if cat != nil {
			b.catalogs[dialect] = cat
		}
	}
}

// WithClassifier replaces the built-in classifier.
func WithClassifier(c *intent.Classifier) Option {
	return func(b *Builder) { b.classifier = c }
}

// WithValidator checks every rendered query.
func WithValidator(v Validator) Option {
	return func(b *Builder) { b.validator = v }
}

// WithFlavor sets the SQL variant string literals are escaped for.
func WithFlavor(f models.Flavor) Option {
	return func(b *Builder) { b.flavor = f }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// New creates a builder over a frozen registry.
func New(reg *templates.Registry, opts ...Option) *Builder {
	b := &Builder{
		registry:   reg,
		classifier: intent.NewClassifier(),
		catalogs:   make(map[models.Dialect]schema.Catalog),
		flavor:     models.FlavorMySQL,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build runs Start -> Classified -> Extracted -> [JoinResolved] -> Rendered.
// User-correctable failures are *models.RejectedError. A missing template
// slot is returned as *models.MissingParameterError and logged at error
// level. Nothing is retried.
func (b *Builder) Build(ctx context.Context, input string, dialect models.Dialect) (*models.RenderedQuery, error) {
	log := b.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("dialect", string(dialect)),
	)

	in := b.classifier.Classify(input)
	log.Debug("classified", zap.String("input", input), zap.String("intent", string(in)))
	if in == models.IntentUnknown {
		rej := models.Reject(models.ReasonUnrecognized, input, in, "no query pattern matches this request")
		rej.Suggestion = b.classifier.Suggest(input)
		log.Info("request rejected", zap.String("reason", string(rej.Reason)))
		return nil, rej
	}

	raw, err := extract.ForIntent(input, in)
	if err != nil {
		return nil, b.reject(log, models.Reject(models.ReasonMalformed, input, in,
			fmt.Sprintf("looks like a %s request but its parts could not be read", in)))
	}
	params, err := extract.Bind(in, raw)
	if err != nil {
		return nil, b.reject(log, models.Reject(models.ReasonMalformed, input, in, err.Error()))
	}

	name, slots, err := b.bind(ctx, params, dialect)
	if err != nil {
		var rej *models.RejectedError
		if errors.As(err, &rej) {
			rej.Input, rej.Intent = input, in
			return nil, b.reject(log, rej)
		}
		log.Warn("build failed", zap.String("intent", string(in)), zap.Error(err))
		return nil, err
	}

	q, err := b.registry.Render(name, dialect, slots)
	if err != nil {
		var missing *models.MissingParameterError
		if errors.As(err, &missing) {
			log.Error("template slot has no bound value",
				zap.String("template", missing.Template),
				zap.String("slot", missing.Slot),
				zap.String("intent", string(in)))
		}
		return nil, err
	}

	if b.validator != nil {
		if err := b.validator.Validate(q); err != nil {
			log.Error("rendered query failed validation", zap.String("template", name), zap.Error(err))
			return nil, fmt.Errorf("rendered %s query is invalid: %w", name, err)
		}
	}

	log.Debug("rendered", zap.String("template", name), zap.String("container", q.Container))
	return q, nil
}

func (b *Builder) reject(log *zap.Logger, rej *models.RejectedError) error {
	log.Info("request rejected",
		zap.String("reason", string(rej.Reason)),
		zap.String("intent", string(rej.Intent)),
		zap.String("detail", rej.Detail))
	return rej
}

func malformed(format string, args ...any) *models.RejectedError {
	return &models.RejectedError{Reason: models.ReasonMalformed, Detail: fmt.Sprintf(format, args...)}
}
