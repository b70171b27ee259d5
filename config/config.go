package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is loaded from the environment.
type Config struct {
	ListenAddr    string `env:"PORTER_LISTEN_ADDR" envDefault:":9000"`
	Production    bool   `env:"PORTER_PRODUCTION" envDefault:"false"`
	RedisURL      string `env:"PORTER_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	DatabaseDSN   string `env:"PORTER_DATABASE_DSN" envDefault:"file:porter.db?cache=shared"`
	AccessSecret  string `env:"PORTER_ACCESS_SECRET,required"`
	RefreshSecret string `env:"PORTER_REFRESH_SECRET,required"`
	AccessExpiry  string `env:"PORTER_ACCESS_EXPIRY" envDefault:"15m"`
	RefreshExpiry string `env:"PORTER_REFRESH_EXPIRY" envDefault:"7d"`
}

// Load parses the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if _, err := ParseExpiry(cfg.AccessExpiry); err != nil {
		return nil, fmt.Errorf("invalid access expiry: %w", err)
	}
	if _, err := ParseExpiry(cfg.RefreshExpiry); err != nil {
		return nil, fmt.Errorf("invalid refresh expiry: %w", err)
	}
	return cfg, nil
}

// AccessTTL returns the access token expiration window
func (c *Config) AccessTTL() time.Duration {
	d, _ := ParseExpiry(c.AccessExpiry)
	return d
}

// RefreshTTL returns the refresh token expiration window
func (c *Config) RefreshTTL() time.Duration {
	d, _ := ParseExpiry(c.RefreshExpiry)
	return d
}

// expiryUnits are checked in order; "ms" must come before "m" and "s" so
// the longest suffix wins ("100ms" is milliseconds, not minutes).
var expiryUnits = []struct {
	suffix string
	unit   time.Duration
}{
	{"ms", time.Millisecond},
	{"d", 24 * time.Hour},
	{"h", time.Hour},
	{"m", time.Minute},
	{"s", time.Second},
}

// ParseExpiry parses an expiration window like "15m", "7d" or "500ms".
func ParseExpiry(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	for _, u := range expiryUnits {
		if !strings.HasSuffix(s, u.suffix) {
			continue
		}
		value := strings.TrimSuffix(s, u.suffix)
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid expiry value %q", s)
		}
		return time.Duration(n) * u.unit, nil
	}
	return 0, fmt.Errorf("invalid expiry unit in %q", s)
}
