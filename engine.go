// engine.go

// Package chatdb answers plain-English data questions against a SQL or a
// MongoDB backend: it builds a query from the request, runs it and hands
// back the rows.
package chatdb

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/josephhbu/ChatDB/engine/builder"
	"github.com/josephhbu/ChatDB/engine/models"
	"github.com/josephhbu/ChatDB/engine/reverse"
	"github.com/josephhbu/ChatDB/engine/sample"
	"github.com/josephhbu/ChatDB/engine/schema"
	"github.com/josephhbu/ChatDB/engine/templates"
	"github.com/josephhbu/ChatDB/engine/validator"
	"github.com/josephhbu/ChatDB/internal/metrics"
)

// ErrNoClient means no backend was attached for the requested dialect.
var ErrNoClient = errors.New("no client for dialect")

// Result is a query together with the rows it produced.
type Result struct {
	Query *models.RenderedQuery
	Rows  []map[string]any
}

// ============================================
// ENGINE
// ============================================

// Engine ties the builder, the synthesizer and the backends together.
type Engine struct {
	clients map[models.Dialect]*Client
	builder *builder.Builder
	logger  *zap.Logger
	synth   *sample.Synthesizer
}

type settings struct {
	clients  []*Client
	validate bool
	logger   *zap.Logger
	rng      *rand.Rand
	seed     int64
	flavor   models.Flavor
}

// Option configures an Engine.
type Option func(*settings)

// WithClient attaches a backend. The last client per dialect wins.
func WithClient(c *Client) Option {
	return func(s *settings) {
		if c != nil {
			s.clients = append(s.clients, c)
		}
	}
}

// WithValidation parses every built query before returning it.
func WithValidation(on bool) Option {
	return func(s *settings) { s.validate = on }
}

// WithFlavor sets the SQL variant used when no tabular client is attached.
// An attached tabular client's flavor takes precedence.
func WithFlavor(f models.Flavor) Option {
	return func(s *settings) { s.flavor = f }
}

// WithLogger sets the logger shared by every component.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithSeed makes example synthesis repeatable. Zero keeps a time seed.
func WithSeed(seed int64) Option {
	return func(s *settings) { s.seed = seed }
}

// WithRand injects the random source used for examples.
func WithRand(r *rand.Rand) Option {
	return func(s *settings) { s.rng = r }
}

// New assembles an engine over a frozen template registry.
func New(reg *templates.Registry, opts ...Option) *Engine {
	s := &settings{logger: zap.NewNop(), flavor: models.FlavorMySQL}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	e := &Engine{
		clients: make(map[models.Dialect]*Client),
		logger:  s.logger,
	}

	flavor := s.flavor
	for _, c := range s.clients {
		e.clients[c.Dialect()] = c
		if c.Dialect() == models.DialectTabular {
			flavor = c.Flavor()
		}
	}
	builderOpts := []builder.Option{builder.WithLogger(s.logger), builder.WithFlavor(flavor)}
	for dialect, c := range e.clients {
		builderOpts = append(builderOpts, builder.WithCatalog(dialect, c))
	}
	if s.validate {
		builderOpts = append(builderOpts, builder.WithValidator(validator.New(flavor)))
	}
	e.builder = builder.New(reg, builderOpts...)

	synthOpts := []sample.Option{sample.WithLogger(s.logger), sample.WithFlavor(flavor), sample.WithSeed(s.seed)}
	if s.rng != nil {
		synthOpts = append(synthOpts, sample.WithRand(s.rng))
	}
	e.synth = sample.New(reg, synthOpts...)
	return e
}

// Client returns the backend attached for dialect.
func (e *Engine) Client(dialect models.Dialect) (*Client, bool) {
	c, ok := e.clients[dialect]
	return c, ok
}

// ============================================
// BUILD / ASK / RAW
// ============================================

// Build turns input into a query without running it.
func (e *Engine) Build(ctx context.Context, input string, dialect models.Dialect) (*models.RenderedQuery, error) {
	q, err := e.builder.Build(ctx, input, dialect)
	label := string(dialect)
	if err == nil {
		metrics.ObserveBuild(label, q.Template, metrics.OutcomeOK)
		return q, nil
	}
	if rej, ok := models.AsRejected(err); ok {
		metrics.ObserveBuild(label, "", metrics.OutcomeRejected)
		metrics.ObserveRejection(label, string(rej.Reason))
	} else {
		metrics.ObserveBuild(label, "", metrics.OutcomeError)
	}
	return nil, err
}

// Ask builds a query from input and runs it.
func (e *Engine) Ask(ctx context.Context, input string, dialect models.Dialect) (*Result, error) {
	c, err := e.client(dialect)
	if err != nil {
		return nil, err
	}
	q, err := e.Build(ctx, input, dialect)
	if err != nil {
		return nil, err
	}
	return e.execute(ctx, c, q)
}

// Raw runs a hand-written, read-only query after checking it against the
// allow-list for dialect.
func (e *Engine) Raw(ctx context.Context, input string, dialect models.Dialect) (*Result, error) {
	c, err := e.client(dialect)
	if err != nil {
		return nil, err
	}
	q, err := reverse.Parse(input, dialect)
	if err != nil {
		e.logger.Info("raw query refused", zap.String("dialect", string(dialect)), zap.Error(err))
		return nil, err
	}
	return e.execute(ctx, c, q)
}

func (e *Engine) execute(ctx context.Context, c *Client, q *models.RenderedQuery) (*Result, error) {
	start := time.Now()
	rows, err := c.Execute(ctx, q)
	elapsed := time.Since(start)
	if err != nil {
		metrics.ObserveExecution(string(q.Dialect), metrics.OutcomeError, elapsed)
		e.logger.Warn("query execution failed",
			zap.String("template", q.Template),
			zap.String("container", q.Container),
			zap.Error(err))
		return nil, err
	}
	metrics.ObserveExecution(string(q.Dialect), metrics.OutcomeOK, elapsed)
	e.logger.Debug("query executed",
		zap.String("template", q.Template),
		zap.Int("rows", len(rows)),
		zap.Duration("elapsed", elapsed))
	return &Result{Query: q, Rows: rows}, nil
}

// ============================================
// EXAMPLES
// ============================================

// Examples synthesizes up to n example requests from the live schema of
// dialect's backend. construct, when set, narrows the templates drawn from.
func (e *Engine) Examples(ctx context.Context, dialect models.Dialect, n int, construct string) ([]models.Example, error) {
	c, err := e.client(dialect)
	if err != nil {
		return nil, err
	}
	meta, err := schema.Snapshot(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("reading %s schema: %w", dialect, err)
	}

	examples, err := e.synth.Synthesize(ctx, sample.Request{
		Dialect:   dialect,
		Count:     n,
		Metadata:  meta,
		Probe:     c,
		Construct: construct,
	})
	if err != nil {
		return nil, err
	}
	metrics.ObserveExamples(string(dialect), len(examples))
	return examples, nil
}

func (e *Engine) client(dialect models.Dialect) (*Client, error) {
	c, ok := e.clients[dialect]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrNoClient, dialect)
	}
	return c, nil
}
