// Package config loads chatdb settings from chatdb.yaml and CHATDB_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/josephhbu/ChatDB/engine/models"
)

// EnvPrefix prefixes every environment override, e.g. CHATDB_TABULAR_DSN.
const EnvPrefix = "CHATDB"

// Config is the full runtime configuration.
type Config struct {
	Dialect   string          `mapstructure:"dialect"`
	Tabular   TabularConfig   `mapstructure:"tabular"`
	Document  DocumentConfig  `mapstructure:"document"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Validate  bool            `mapstructure:"validate"`
	Log       LogConfig       `mapstructure:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Examples  ExamplesConfig  `mapstructure:"examples"`
}

// TabularConfig selects the SQL driver and connection.
type TabularConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// DocumentConfig points at a MongoDB database.
type DocumentConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

// CacheConfig enables the redis schema cache when RedisAddr is set.
type CacheConfig struct {
	RedisAddr string        `mapstructure:"redis_addr"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// TemplatesConfig names an optional YAML template catalog.
type TemplatesConfig struct {
	File string `mapstructure:"file"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

type ExamplesConfig struct {
	Count int   `mapstructure:"count"`
	Seed  int64 `mapstructure:"seed"`
}

// Load reads path, or chatdb.yaml in the working directory when path is
// empty. A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("dialect", string(models.DialectTabular))
	v.SetDefault("tabular.driver", string(models.FlavorMySQL))
	v.SetDefault("tabular.dsn", "")
	v.SetDefault("document.uri", "mongodb://localhost:27017")
	v.SetDefault("document.database", "chatdb")
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.ttl", "30s")
	v.SetDefault("templates.file", "")
	v.SetDefault("validate", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("examples.count", 3)
	v.SetDefault("examples.seed", 0)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("chatdb")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Flavor returns the parsed tabular flavor.
func (c *Config) Flavor() models.Flavor {
	f, _ := models.ParseFlavor(c.Tabular.Driver)
	return f
}

// DefaultDialect returns the parsed default dialect.
func (c *Config) DefaultDialect() models.Dialect {
	d, _ := models.ParseDialect(c.Dialect)
	return d
}

func validateConfig(cfg *Config) error {
	if _, err := models.ParseFlavor(cfg.Tabular.Driver); err != nil {
		return fmt.Errorf("tabular.driver: %w", err)
	}
	if _, err := models.ParseDialect(cfg.Dialect); err != nil {
		return fmt.Errorf("dialect: %w", err)
	}
	if cfg.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %s", cfg.Cache.TTL)
	}
	if cfg.Examples.Count < 0 {
		return fmt.Errorf("examples.count must not be negative, got %d", cfg.Examples.Count)
	}
	return nil
}
