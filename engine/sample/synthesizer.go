// Package sample synthesizes example requests and their queries from live
// schema, so users can see phrasing the engine understands.
package sample

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/josephhbu/ChatDB/engine/models"
	"github.com/josephhbu/ChatDB/engine/schema"
	"github.com/josephhbu/ChatDB/engine/templates"
	"github.com/josephhbu/ChatDB/mapping"
)

// PlaceholderValue stands in for a condition value when no probe is available.
const PlaceholderValue = "example_value"

// probeLimit caps how many distinct values are fetched per field.
const probeLimit = 20

// excluded templates need two containers or carry nothing to illustrate.
var excluded = map[string]bool{
	mapping.TemplateJoinQuery:          true,
	mapping.TemplateListContainers:     true,
	mapping.TemplateDescribeAttributes: true,
}

// errSkip abandons one iteration without failing the batch.
var errSkip = errors.New("skip")

// Request describes one batch.
type Request struct {
	Dialect   models.Dialect
	Count     int
	Metadata  models.Metadata
	Probe     schema.ValueProbe // optional
	Construct string            // optional, e.g. "group by" or "$group"
}

// Synthesizer draws examples from a registry. It is safe for concurrent
// use: each batch runs on its own random source seeded from the shared one.
type Synthesizer struct {
	registry *templates.Registry
	flavor   models.Flavor
	logger   *zap.Logger

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithRand injects the random source.
func WithRand(r *rand.Rand) Option {
	return func(s *Synthesizer) { s.rng = r }
}

// WithSeed seeds a private random source; zero keeps the time-based default.
func WithSeed(seed int64) Option {
	return func(s *Synthesizer) {
		if seed != 0 {
			s.rng = rand.New(rand.NewSource(seed))
		}
	}
}

// WithFlavor sets the SQL variant condition literals are escaped for.
func WithFlavor(f models.Flavor) Option {
	return func(s *Synthesizer) { s.flavor = f }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Synthesizer) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a synthesizer over reg.
func New(reg *templates.Registry, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		registry: reg,
		flavor:   models.FlavorMySQL,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Candidates lists the templates a batch may draw from, sorted by name.
func (s *Synthesizer) Candidates(dialect models.Dialect, construct string) []*templates.Template {
	construct = strings.ToLower(strings.TrimSpace(construct))
	var out []*templates.Template
	for _, t := range s.registry.Templates(dialect) {
		if excluded[t.Name] {
			continue
		}
		if construct != "" && !strings.Contains(strings.ToLower(t.Source()), construct) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Synthesize runs req.Count iterations. Each draws a template not yet used
// in this batch and a random container, then fills the template from the
// container's fields. Iterations that cannot be filled are skipped, so the
// batch may come back short. A Count of zero or less yields no examples.
func (s *Synthesizer) Synthesize(ctx context.Context, req Request) ([]models.Example, error) {
	if !mapping.IsSupportedDialect(req.Dialect) {
		return nil, fmt.Errorf("unsupported dialect %q", req.Dialect)
	}
	if req.Count <= 0 {
		return nil, nil
	}

	var containers []string
	for _, name := range req.Metadata.Containers() {
		if len(req.Metadata[name]) > 0 {
			containers = append(containers, name)
		}
	}
	candidates := s.Candidates(req.Dialect, req.Construct)
	if len(containers) == 0 || len(candidates) == 0 {
		s.logger.Info("nothing to synthesize from",
			zap.Int("containers", len(containers)),
			zap.Int("templates", len(candidates)))
		return nil, nil
	}

	rng := s.batchRand()
	examples := make([]models.Example, 0, min(req.Count, len(candidates)))
	for i := 0; i < req.Count && len(candidates) > 0; i++ {
		if err := ctx.Err(); err != nil {
			return examples, err
		}

		pick := rng.Intn(len(candidates))
		t := candidates[pick]
		candidates = append(candidates[:pick], candidates[pick+1:]...)
		container := containers[rng.Intn(len(containers))]

		f := &filler{
			ctx:       ctx,
			rng:       rng,
			template:  t,
			dialect:   req.Dialect,
			flavor:    s.flavor,
			container: container,
			groups:    schema.Group(req.Metadata[container]),
			probe:     req.Probe,
			slots:     models.ParameterSet{"table": container},
		}
		slots, err := f.fill()
		if errors.Is(err, errSkip) {
			s.logger.Debug("example skipped",
				zap.String("template", t.Name),
				zap.String("container", container),
				zap.Error(err))
			continue
		}
		if err != nil {
			return examples, err
		}

		q, err := t.Render(slots)
		if err != nil {
			return examples, fmt.Errorf("rendering example %s: %w", t.Name, err)
		}
		examples = append(examples, models.Example{Description: q.Description, Query: q})
	}
	return examples, nil
}

// batchRand derives a private source for one batch so probes run unlocked.
func (s *Synthesizer) batchRand() *rand.Rand {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rand.New(rand.NewSource(s.rng.Int63()))
}
