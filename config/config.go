// Package config loads server settings: defaults, then an optional YAML
// file, then STIR_* environment variables (a .env file in the working
// directory is loaded into the environment first).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const EnvPrefix = "STIR"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"   yaml:"server"`
	Store    StoreConfig    `mapstructure:"store"    yaml:"store"`
	Log      LogConfig      `mapstructure:"log"      yaml:"log"`
	Holidays HolidaysConfig `mapstructure:"holidays" yaml:"holidays"`
	FOMC     FOMCConfig     `mapstructure:"fomc"     yaml:"fomc"`
}

type ServerConfig struct {
	Port        int           `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string      `mapstructure:"cors_origins" yaml:"cors_origins"`
	RateLimit   float64       `mapstructure:"rate_limit"   yaml:"rate_limit"` // requests/s, 0 disables
	RateBurst   int           `mapstructure:"rate_burst"   yaml:"rate_burst"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"    yaml:"cache_ttl"` // analysis results
}

type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"` // sqlite file, or ":memory:"
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // debug, info, warn, error
}

type HolidaysConfig struct {
	URL     string        `mapstructure:"url"     yaml:"url"`
	Years   []int         `mapstructure:"years"   yaml:"years"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Offline bool          `mapstructure:"offline" yaml:"offline"`
}

type FOMCConfig struct {
	URL     string        `mapstructure:"url"     yaml:"url"`
	Refresh bool          `mapstructure:"refresh" yaml:"refresh"` // scrape on startup
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Load reads configuration. path may be empty, in which case only
// defaults and environment variables apply.
//
// Environment format: STIR_<SECTION>_<KEY>, e.g. STIR_SERVER_PORT.
func Load(path string) (*Config, error) {
	// Existing environment variables win over .env entries.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"http://localhost:5173", "http://localhost:8080"})
	v.SetDefault("server.rate_limit", 10.0)
	v.SetDefault("server.rate_burst", 30)
	v.SetDefault("server.cache_ttl", 15*time.Minute)

	v.SetDefault("store.path", "./data/stir.db")

	v.SetDefault("log.level", "info")

	v.SetDefault("holidays.url", "https://date.nager.at/api/v3/publicholidays")
	v.SetDefault("holidays.years", []int{2026, 2027})
	v.SetDefault("holidays.timeout", 10*time.Second)
	v.SetDefault("holidays.offline", false)

	v.SetDefault("fomc.url", "https://www.federalreserve.gov/monetarypolicy/fomccalendars.htm")
	v.SetDefault("fomc.refresh", false)
	v.SetDefault("fomc.timeout", 10*time.Second)
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port: %d is out of range", c.Server.Port))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, errors.New("server.rate_limit: must not be negative"))
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst <= 0 {
		errs = append(errs, errors.New("server.rate_burst: must be positive when rate limiting"))
	}
	if c.Server.CacheTTL < 0 {
		errs = append(errs, errors.New("server.cache_ttl: must not be negative"))
	}
	if c.Store.Path == "" {
		errs = append(errs, errors.New("store.path: required"))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if !c.Holidays.Offline && len(c.Holidays.Years) == 0 {
		errs = append(errs, errors.New("holidays.years: at least one year required unless offline"))
	}
	if c.Holidays.Timeout <= 0 {
		errs = append(errs, errors.New("holidays.timeout: must be positive"))
	}
	if c.FOMC.Refresh && c.FOMC.Timeout <= 0 {
		errs = append(errs, errors.New("fomc.timeout: must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
