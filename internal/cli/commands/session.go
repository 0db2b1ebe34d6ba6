package commands

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	chatdb "github.com/josephhbu/ChatDB"
	"github.com/josephhbu/ChatDB/engine/models"
	"github.com/josephhbu/ChatDB/engine/schema"
	"github.com/josephhbu/ChatDB/engine/templates"
	"github.com/josephhbu/ChatDB/internal/config"
	"github.com/josephhbu/ChatDB/internal/logging"
	"github.com/josephhbu/ChatDB/internal/metrics"
)

// Connectors, swapped out in tests.
var (
	openSQL = sql.Open

	openMongo = func(ctx context.Context, uri string) (*mongo.Client, error) {
		return mongo.Connect(ctx, options.Client().ApplyURI(uri))
	}
)

// driverNames maps a tabular flavor to its database/sql driver.
var driverNames = map[models.Flavor]string{
	models.FlavorMySQL:    "mysql",
	models.FlavorPostgres: "postgres",
}

// session is everything one command invocation needs.
type session struct {
	cfg     *config.Config
	dialect models.Dialect
	logger  *zap.Logger
	engine  *chatdb.Engine
	closers []func(context.Context) error
}

// openSession loads configuration and builds the engine. When connect is
// set, a backend for the chosen dialect is attached; a tabular backend
// also needs tabular.dsn.
func openSession(ctx context.Context, flags *globalFlags, connect bool) (*session, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	dialect := cfg.DefaultDialect()
	if flags.dialect != "" {
		if dialect, err = models.ParseDialect(flags.dialect); err != nil {
			return nil, err
		}
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, dialect: dialect, logger: logger}

	reg, err := s.registry()
	if err != nil {
		return nil, err
	}

	opts := []chatdb.Option{
		chatdb.WithLogger(logger),
		chatdb.WithValidation(cfg.Validate),
		chatdb.WithFlavor(cfg.Flavor()),
		chatdb.WithSeed(cfg.Examples.Seed),
	}
	if connect {
		client, err := s.connect(ctx)
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		opts = append(opts, chatdb.WithClient(client))
	}
	s.engine = chatdb.New(reg, opts...)
	return s, nil
}

func (s *session) registry() (*templates.Registry, error) {
	b := templates.NewBuilder()
	if err := b.RegisterBuiltin(s.cfg.Flavor()); err != nil {
		return nil, err
	}
	if s.cfg.Templates.File != "" {
		if err := b.LoadFile(s.cfg.Templates.File); err != nil {
			return nil, err
		}
	}
	return b.Freeze(), nil
}

func (s *session) connect(ctx context.Context) (*chatdb.Client, error) {
	var client *chatdb.Client
	switch s.dialect {
	case models.DialectTabular:
		if s.cfg.Tabular.DSN == "" {
			return nil, fmt.Errorf("tabular.dsn is not set (CHATDB_TABULAR_DSN)")
		}
		flavor := s.cfg.Flavor()
		db, err := openSQL(driverNames[flavor], s.cfg.Tabular.DSN)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", flavor, err)
		}
		s.closers = append(s.closers, func(context.Context) error { return db.Close() })
		client = chatdb.WrapSQL(db, flavor)
	case models.DialectDocument:
		mc, err := openMongo(ctx, s.cfg.Document.URI)
		if err != nil {
			return nil, fmt.Errorf("connecting to mongodb: %w", err)
		}
		s.closers = append(s.closers, mc.Disconnect)
		client = chatdb.WrapMongo(mc.Database(s.cfg.Document.Database))
	default:
		return nil, fmt.Errorf("unsupported dialect %s", s.dialect)
	}

	if s.cfg.Cache.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: s.cfg.Cache.RedisAddr})
		s.closers = append(s.closers, func(context.Context) error { return rdb.Close() })
		client.CacheSchema(rdb,
			schema.WithTTL(s.cfg.Cache.TTL),
			schema.WithPrefix("chatdb:schema:"+string(s.dialect)),
			schema.WithCacheLogger(s.logger))
	}
	return client, nil
}

// Close releases connections, writes the metrics textfile and flushes logs.
func (s *session) Close(ctx context.Context) error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	if err := metrics.WriteTextfile(s.cfg.Metrics.Textfile); err != nil {
		s.logger.Warn("writing metrics textfile failed", zap.String("path", s.cfg.Metrics.Textfile), zap.Error(err))
	}
	_ = s.logger.Sync()
	return first
}

func (s *session) client() (*chatdb.Client, error) {
	c, ok := s.engine.Client(s.dialect)
	if !ok {
		return nil, fmt.Errorf("%w %s", chatdb.ErrNoClient, s.dialect)
	}
	return c, nil
}
