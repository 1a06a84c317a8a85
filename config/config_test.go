package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/stir-engine/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "./data/stir.db", cfg.Store.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, []int{2026, 2027}, cfg.Holidays.Years)
	assert.Equal(t, 10*time.Second, cfg.Holidays.Timeout)
	assert.False(t, cfg.Holidays.Offline)
	assert.False(t, cfg.FOMC.Refresh)
	assert.Equal(t, 10.0, cfg.Server.RateLimit)
	assert.Equal(t, 30, cfg.Server.RateBurst)
	assert.Equal(t, 15*time.Minute, cfg.Server.CacheTTL)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STIR_STORE_PATH=/tmp/from-dotenv.db\n"), 0o644))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Cleanup(func() { os.Unsetenv("STIR_STORE_PATH") })

	cfg, err := config.Load("")

	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-dotenv.db", cfg.Store.Path)
}

func TestLoad_NegativeRateLimit(t *testing.T) {
	t.Setenv("STIR_SERVER_RATE_LIMIT", "-1")

	_, err := config.Load("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.rate_limit")
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stir.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
store:
  path: ":memory:"
holidays:
  offline: true
  timeout: 3s
`), 0o644))
	t.Setenv("STIR_SERVER_PORT", "9100")
	t.Setenv("STIR_LOG_LEVEL", "debug")

	cfg, err := config.Load(path)

	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port, "env beats file")
	assert.Equal(t, ":memory:", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Holidays.Offline)
	assert.Equal(t, 3*time.Second, cfg.Holidays.Timeout)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Error(t, err)
}

func TestLoad_InvalidLevel(t *testing.T) {
	t.Setenv("STIR_LOG_LEVEL", "loud")

	_, err := config.Load("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func validConfig() config.Config {
	return config.Config{
		Server:   config.ServerConfig{Port: 8080},
		Store:    config.StoreConfig{Path: ":memory:"},
		Log:      config.LogConfig{Level: "info"},
		Holidays: config.HolidaysConfig{Years: []int{2026}, Timeout: time.Second},
	}
}

func TestValidate_PortRange_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	properties.Property("ports outside 1-65535 are rejected", prop.ForAll(
		func(port int) bool {
			cfg := validConfig()
			cfg.Server.Port = port
			return cfg.Validate() != nil
		},
		gen.OneGenOf(gen.IntRange(-100000, 0), gen.IntRange(65536, 200000)),
	))
	properties.Property("ports inside 1-65535 are accepted", prop.ForAll(
		func(port int) bool {
			cfg := validConfig()
			cfg.Server.Port = port
			return cfg.Validate() == nil
		},
		gen.IntRange(1, 65535),
	))
	properties.TestingRun(t)
}

func TestValidate_OfflineNeedsNoYears(t *testing.T) {
	cfg := validConfig()
	cfg.Holidays.Years = nil
	assert.Error(t, cfg.Validate())

	cfg.Holidays.Offline = true
	assert.NoError(t, cfg.Validate())
}
