package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gookit/validate"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string    `mapstructure:"env" validate:"required"` // current application environment (local, dev, production)
	TelegramAPIToken string    `mapstructure:"-"`                       // Telegram API token loaded from environment
	Timezone         string    `mapstructure:"timezone"`                // zone that defines the calendar day, e.g. "Europe/Moscow" or "UTC+3"
	Storage          Storage   `mapstructure:"storage"`                 // which key-value backend to use
	DB               DB        `mapstructure:"database"`                // database configuration section
	Redis            Redis     `mapstructure:"redis"`                   // redis configuration section
	Cache            Cache     `mapstructure:"cache"`                   // in-process read cache over the store
	Metrics          Metrics   `mapstructure:"metrics"`                 // prometheus endpoint
	LessonGen        LessonGen `mapstructure:"lessongen"`               // lesson generation webhook
	Store            Store     `mapstructure:"store"`                   // purchase stub behaviour
	Ads              Ads       `mapstructure:"ads"`                     // interstitial shown before generation
	Rollover         Rollover  `mapstructure:"rollover"`                // day rollover schedule
}

type Storage struct {
	Driver string `mapstructure:"driver" validate:"required|in:postgres,redis,memory"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                                         // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections" validate:"required|min:1"` // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`                         // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

type Redis struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"-"`
	DB          int           `mapstructure:"db"`
	KeyPrefix   string        `mapstructure:"key_prefix"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

type Cache struct {
	Enabled bool          `mapstructure:"enabled"`
	SizeMB  int           `mapstructure:"size_mb" validate:"required|min:1"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type Metrics struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

type LessonGen struct {
	URL     string        `mapstructure:"url"`
	Secret  string        `mapstructure:"-"`
	Timeout time.Duration `mapstructure:"timeout"`
	Stub    bool          `mapstructure:"stub"`    // serve canned lessons without calling the webhook
}

type Store struct {
	DeclinedSKUs []string `mapstructure:"declined_skus"`
	FailingSKUs  []string `mapstructure:"failing_skus"`
}

type Ads struct {
	Text string `mapstructure:"text" validate:"required"`
}

type Rollover struct {
	Spec string `mapstructure:"spec" validate:"required"`
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// A missing .env file is fine; real deployments set the environment.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Secrets are bound explicitly and never read from the file.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("redis_password", "REDIS_PASSWORD")
	_ = v.BindEnv("lessongen_secret", "LESSONGEN_SECRET")
	_ = v.BindEnv("env", "APP_ENV")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")
	cfg.Redis.Password = v.GetString("redis_password")
	cfg.LessonGen.Secret = v.GetString("lessongen_secret")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("timezone", "UTC")
	v.SetDefault("storage.driver", DriverPostgres)
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "calearner:")
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.size_mb", 16)
	v.SetDefault("cache.ttl", "10m")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9090")
	v.SetDefault("lessongen.url", "")
	v.SetDefault("lessongen.timeout", "30s")
	v.SetDefault("lessongen.stub", false)
	v.SetDefault("store.declined_skus", []string{})
	v.SetDefault("store.failing_skus", []string{})
	v.SetDefault("ads.text", "Sponsored message. Close it to get today's lesson.")
	v.SetDefault("rollover.spec", "0 0 * * *")
}

// Validate checks field rules and the settings each driver needs.
func (c *Config) Validate() error {
	if c.TelegramAPIToken == "" {
		return fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}

	v := validate.Struct(c)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %w", v.Errors)
	}

	switch c.Storage.Driver {
	case DriverPostgres:
		if c.DB.URL == "" {
			return fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
		}
	case DriverRedis:
		if c.Redis.Addr == "" {
			return errors.New("invalid config: redis.addr is required")
		}
	}

	if !c.LessonGen.Stub && c.LessonGen.URL == "" {
		return errors.New("invalid config: lessongen.url is required unless lessongen.stub is set")
	}

	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return errors.New("invalid config: metrics.addr is required when metrics are enabled")
	}

	return nil
}
