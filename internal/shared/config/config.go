package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/reshetovitsme/transfer-pulse/internal/modules/source/domain"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// DefaultFiles are the config files probed, in order, by Load
var DefaultFiles = []string{
	"config.yaml",
	"config.yml",
	"config.json",
	"config.toml",
}

type Config struct {
	HTTPPort         string          `koanf:"http_port"`
	RefreshInterval  int             `koanf:"refresh_interval"`
	FetchTimeout     int             `koanf:"fetch_timeout"`
	UpstreamRetries  int             `koanf:"upstream_retries"`
	RSSMode          RSSMode         `koanf:"rss_mode"`
	RSS2JSONURL      string          `koanf:"rss2json_url"`
	XAPIURL          string          `koanf:"x_api_url"`
	XBearerToken     string          `koanf:"x_bearer_token"`
	TelegramBotToken string          `koanf:"telegram_bot_token"`
	TelegramAPIURL   string          `koanf:"telegram_api_url"`
	AllowedUsers     []int64         `koanf:"allowed_users"`
	AppEnv           AppEnv          `koanf:"app_env"`
	LogLevel         string          `koanf:"log_level"`
	Sources          []domain.Source `koanf:"sources"`
}

// RefreshEvery is the automatic refresh period
func (c *Config) RefreshEvery() time.Duration {
	return time.Duration(c.RefreshInterval) * time.Second
}

// FetchDeadline bounds a single adapter call
func (c *Config) FetchDeadline() time.Duration {
	return time.Duration(c.FetchTimeout) * time.Second
}

// SlogLevel parses LogLevel, falling back to info
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// StructuredLogs reports whether stdout logs are JSON. Only production
// switches away from the text format.
func (c *Config) StructuredLogs() bool {
	return c.AppEnv == AppEnvProduction
}

// Load reads the first config file found in the working directory, then
// environment variables
func Load() (*Config, error) {
	return LoadFiles(DefaultFiles...)
}

// LoadFiles is Load with an explicit list of candidate files
func LoadFiles(configFiles ...string) (*Config, error) {
	k := koanf.New(".")

	// Use lo.Find to find the first existing config file
	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Load environment variables (they override config file values)
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	// TWITTER_BEARER_TOKEN is accepted as a legacy alias
	if !k.Exists("x_bearer_token") && k.String("twitter_bearer_token") != "" {
		k.Set("x_bearer_token", k.String("twitter_bearer_token"))
	}

	// Set defaults
	defaults := map[string]any{
		"http_port":        "8080",
		"refresh_interval": 240,
		"fetch_timeout":    20,
		"upstream_retries": 0,
		"rss_mode":         string(RSSModeRss2json),
		"rss2json_url":     "https://api.rss2json.com/v1/api.json",
		"x_api_url":        "https://api.x.com",
		"telegram_api_url": "https://api.telegram.org",
		"app_env":          string(AppEnvProduction),
		"log_level":        "info",
	}
	for key, value := range defaults {
		if !k.Exists(key) {
			k.Set(key, value)
		}
	}

	// allowed_users may arrive as a comma-separated string; decode it by hand
	allowedUsers := k.Get("allowed_users")
	k.Delete("allowed_users")

	// Unmarshal into struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	// Parse AllowedUsers from comma-separated string if it's a string
	if allowedUsers != nil {
		switch v := allowedUsers.(type) {
		case string:
			cfg.AllowedUsers = ParseAllowedUsers(v)
		case []interface{}:
			cfg.AllowedUsers = lo.FilterMap(v, func(item interface{}, _ int) (int64, bool) {
				switch val := item.(type) {
				case int64:
					return val, true
				case int:
					return int64(val), true
				case float64:
					return int64(val), true
				default:
					return 0, false
				}
			})
		}
	}

	if env, err := ParseAppEnv(k.String("app_env")); err == nil {
		cfg.AppEnv = env
	} else {
		cfg.AppEnv = AppEnvProduction
	}

	mode, err := ParseRSSMode(k.String("rss_mode"))
	if err != nil {
		return nil, oops.With("rss_mode", k.String("rss_mode")).Wrap(err)
	}
	cfg.RSSMode = mode

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that have no sensible fallback
func (c *Config) Validate() error {
	if c.RefreshInterval <= 0 {
		return oops.With("refresh_interval", c.RefreshInterval).Errorf("refresh_interval must be positive")
	}
	if c.FetchTimeout <= 0 {
		return oops.With("fetch_timeout", c.FetchTimeout).Errorf("fetch_timeout must be positive")
	}
	if c.UpstreamRetries < 0 {
		return oops.With("upstream_retries", c.UpstreamRetries).Errorf("upstream_retries must not be negative")
	}
	return nil
}

// ParseAllowedUsers parses comma-separated user IDs string into []int64
func ParseAllowedUsers(s string) []int64 {
	if s == "" {
		return []int64{}
	}
	parts := strings.Split(s, ",")
	return lo.FilterMap(parts, func(part string, _ int) (int64, bool) {
		part = strings.TrimSpace(part)
		if part == "" {
			return 0, false
		}
		var id int64
		if _, err := fmt.Sscanf(part, "%d", &id); err == nil {
			return id, true
		}
		return 0, false
	})
}
