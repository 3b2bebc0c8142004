package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/jwtflow/core/config"
	"github.com/dmitrymomot/jwtflow/pkg/jwt"
)

type testConfig struct {
	Name    string        `env:"CONFIG_TEST_NAME" envDefault:"default"`
	Timeout time.Duration `env:"CONFIG_TEST_TIMEOUT" envDefault:"5s"`
}

type requiredConfig struct {
	Value string `env:"CONFIG_TEST_REQUIRED,required"`
}

func TestLoad(t *testing.T) {
	config.Reset()
	t.Setenv("CONFIG_TEST_NAME", "first")

	var cfg testConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "first", cfg.Name)
	assert.Equal(t, 5*time.Second, cfg.Timeout)

	t.Run("returns cached value", func(t *testing.T) {
		t.Setenv("CONFIG_TEST_NAME", "second")
		var again testConfig
		require.NoError(t, config.Load(&again))
		assert.Equal(t, "first", again.Name)
	})

	t.Run("reset reloads", func(t *testing.T) {
		t.Setenv("CONFIG_TEST_NAME", "third")
		config.Reset()
		var fresh testConfig
		require.NoError(t, config.Load(&fresh))
		assert.Equal(t, "third", fresh.Name)
	})
}

func TestLoadErrors(t *testing.T) {
	config.Reset()

	assert.ErrorIs(t, config.Load[testConfig](nil), config.ErrNilConfig)

	var cfg requiredConfig
	assert.Error(t, config.Load(&cfg))
	assert.Panics(t, func() { config.MustLoad(&cfg) })

	t.Setenv("CONFIG_TEST_REQUIRED", "present")
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "present", cfg.Value)
}

func TestLoadTokenConfig(t *testing.T) {
	config.Reset()
	t.Setenv("JWT_ISSUER", "my-app")
	t.Setenv("JWT_ALGORITHM", "HMAC512")
	t.Setenv("JWT_SECRET", "s3cr3t")

	var cfg jwt.Config
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "my-app", cfg.Issuer)
	assert.Equal(t, jwt.HS512, cfg.Algorithm)
	assert.Equal(t, "s3cr3t", cfg.Secret)
	assert.NoError(t, cfg.Validate())
}

func TestLoadTokenConfigDefaultAlgorithm(t *testing.T) {
	config.Reset()
	t.Setenv("JWT_ISSUER", "my-app")
	t.Setenv("JWT_SECRET", "s3cr3t")

	var cfg jwt.Config
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, jwt.HS256, cfg.Algorithm)
}
