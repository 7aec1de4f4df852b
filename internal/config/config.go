package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/k8ika0s/bounty-ledger/internal/events"
	"github.com/k8ika0s/bounty-ledger/internal/kv"
	"github.com/k8ika0s/bounty-ledger/internal/objectstore"
	"github.com/k8ika0s/bounty-ledger/internal/store"
)

// Config holds runtime settings for the bounty server and CLI.
type Config struct {
	HTTPAddr       string        `yaml:"http_addr" env:"HTTP_ADDR"`
	Port           string        `yaml:"port" env:"PORT"`
	WebRoot        string        `yaml:"web_root" env:"WEB_ROOT"`
	DataFile       string        `yaml:"data_file" env:"DATA_FILE"`
	SettingsPath   string        `yaml:"settings_path" env:"SETTINGS_PATH"`
	KVURL          string        `yaml:"kv_rest_api_url" env:"KV_REST_API_URL"`
	KVToken        string        `yaml:"kv_rest_api_token" env:"KV_REST_API_TOKEN"`
	KVKey          string        `yaml:"kv_key" env:"KV_KEY"`
	KVTimeout      time.Duration `yaml:"kv_timeout" env:"KV_TIMEOUT"`
	RedisURL       string        `yaml:"redis_url" env:"REDIS_URL"`
	SQLDriver      string        `yaml:"sql_driver" env:"SQL_DRIVER"`
	SQLDSN         string        `yaml:"sql_dsn" env:"SQL_DSN"`
	RequireDynamic bool          `yaml:"require_dynamic" env:"REQUIRE_DYNAMIC"`
	KafkaBrokers   string        `yaml:"kafka_brokers" env:"KAFKA_BROKERS"`
	KafkaTopic     string        `yaml:"kafka_topic" env:"KAFKA_TOPIC"`
	ObjectStore    ObjectStore   `yaml:"object_store" envPrefix:"OBJECT_STORE_"`
	CORSOrigins    []string      `yaml:"cors_origins" env:"CORS_ORIGINS" envSeparator:","`
	LogLevel       string        `yaml:"log_level" env:"LOG_LEVEL"`
	APIURL         string        `yaml:"api_url" env:"BOUNTIES_API_URL"`
}

// ObjectStore configures snapshot archiving.
type ObjectStore struct {
	Endpoint string `yaml:"endpoint" env:"ENDPOINT"`
	Bucket   string `yaml:"bucket" env:"BUCKET"`
	Access   string `yaml:"access_key" env:"ACCESS_KEY"`
	Secret   string `yaml:"secret_key" env:"SECRET_KEY"`
	BasePath string `yaml:"base_path" env:"BASE_PATH"`
	UseSSL   bool   `yaml:"use_ssl" env:"USE_SSL"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		HTTPAddr:     "",
		WebRoot:      "web",
		DataFile:     "data/bounties.json",
		SettingsPath: "data/settings.json",
		KVKey:        kv.DefaultKey,
		KVTimeout:    10 * time.Second,
		KafkaTopic:   events.DefaultTopic,
		LogLevel:     "info",
		APIURL:       "http://localhost:8080",
	}
}

// Load applies, in order, defaults, the YAML file named by BOUNTIES_CONFIG
// (if any) and environment variables.
func Load() (Config, error) {
	cfg := Defaults()
	if path := os.Getenv("BOUNTIES_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Addr is the listen address. HTTP_ADDR wins over PORT.
func (c Config) Addr() string {
	if c.HTTPAddr != "" {
		return c.HTTPAddr
	}
	if c.Port != "" {
		return ":" + c.Port
	}
	return ":8080"
}

// ConfigHint tells the operator how to enable persistent writes.
func (c Config) ConfigHint() string {
	if c.KVURL != "" || c.KVToken != "" {
		return "Missing KV_REST_API_URL or KV_REST_API_TOKEN. Configure the KV store for persistent writes"
	}
	return "Configure a dynamic store (KV_REST_API_URL and KV_REST_API_TOKEN, REDIS_URL, or SQL_DRIVER and SQL_DSN) for persistent writes"
}

// DynamicList builds the dynamic tier backend. It returns nil, nil when none
// is configured. A REST endpoint with only one of URL and token counts as
// unconfigured, matching the hosted deployment.
func (c Config) DynamicList(ctx context.Context) (kv.List, error) {
	switch {
	case c.KVURL != "" && c.KVToken != "":
		return kv.NewRESTList(c.KVURL, c.KVToken, c.KVKey, c.KVTimeout), nil
	case c.RedisURL != "":
		l := kv.NewRedisList(c.RedisURL, c.KVKey)
		if !l.Configured() {
			return nil, errors.New("invalid REDIS_URL")
		}
		return l, nil
	case c.SQLDriver != "" || c.SQLDSN != "":
		return kv.OpenSQLList(ctx, c.SQLDriver, c.SQLDSN, c.KVKey)
	}
	return nil, nil
}

// Store builds the row store over the seed file and dynamic tier.
func (c Config) Store(ctx context.Context, log *zap.Logger) (*store.Store, error) {
	dyn, err := c.DynamicList(ctx)
	if err != nil {
		return nil, err
	}
	if dyn != nil {
		log.Info("dynamic store enabled", zap.String("backend", dyn.Name()))
	}
	return store.New(store.NewSeedFile(c.DataFile), dyn, store.Options{
		RequireDynamic: c.RequireDynamic,
		ConfigHint:     c.ConfigHint(),
		Logger:         log,
	}), nil
}

// Publisher builds the event publisher if Kafka is configured.
func (c Config) Publisher() events.Publisher {
	if c.KafkaBrokers == "" {
		return events.NullPublisher{}
	}
	return events.NewKafkaPublisher(c.KafkaBrokers, c.KafkaTopic)
}

// Archive builds the snapshot store if configured.
func (c Config) Archive(ctx context.Context) (objectstore.Store, error) {
	o := c.ObjectStore
	if o.Endpoint == "" || o.Bucket == "" {
		return objectstore.NullStore{}, nil
	}
	return objectstore.NewMinIOStore(ctx, o.Endpoint, o.Access, o.Secret, o.Bucket, o.BasePath, o.UseSSL)
}

// Logger builds a production zap logger at LogLevel.
func (c Config) Logger() (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc.Level = level
	return zc.Build()
}
