package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:              "local",
		TelegramAPIToken: "token",
		Timezone:         "UTC",
		Storage:          Storage{Driver: DriverMemory},
		DB:               DB{MaxConnections: 5},
		Cache:            Cache{SizeMB: 1, TTL: time.Minute},
		LessonGen:        LessonGen{Stub: true},
		Ads:              Ads{Text: "ad"},
		Rollover:         Rollover{Spec: "0 0 * * *"},
	}
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing token", func(c *Config) { c.TelegramAPIToken = "" }},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "sqlite" }},
		{"postgres without url", func(c *Config) { c.Storage.Driver = DriverPostgres }},
		{"redis without addr", func(c *Config) { c.Storage.Driver = DriverRedis }},
		{"webhook without url", func(c *Config) { c.LessonGen.Stub = false }},
		{"metrics without addr", func(c *Config) { c.Metrics.Enabled = true }},
		{"zero cache size", func(c *Config) { c.Cache.SizeMB = 0 }},
		{"empty rollover spec", func(c *Config) { c.Rollover.Spec = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestValidate_MissingSecretsAreTyped(t *testing.T) {
	c := validConfig()
	c.Storage.Driver = DriverPostgres
	assert.ErrorIs(t, c.Validate(), ErrMissingEnvironmentVariables)

	c.TelegramAPIToken = ""
	assert.ErrorIs(t, c.Validate(), ErrMissingEnvironmentVariables)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("LESSONGEN_STUB", "true")
	t.Setenv("TIMEZONE", "Europe/Berlin")
	t.Setenv("STORE_DECLINED_SKUS", "sub_lifetime")
	t.Setenv("LESSONGEN_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.TelegramAPIToken)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.True(t, cfg.LessonGen.Stub)
	assert.Equal(t, "s3cret", cfg.LessonGen.Secret)
	assert.Equal(t, "Europe/Berlin", cfg.Timezone)
	assert.Equal(t, []string{"sub_lifetime"}, cfg.Store.DeclinedSKUs)
	assert.Equal(t, 20, cfg.DB.MaxConnections)
	assert.Equal(t, 30*time.Second, cfg.DB.MaxConnLifetime)
	assert.Equal(t, "0 0 * * *", cfg.Rollover.Spec)
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("LESSONGEN_STUB", "true")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingEnvironmentVariables)
}
