// Package config loads client settings from the environment and an
// optional YAML file, validates them, and turns them into client options.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/adamwoolhether/payhttp/client"
	"github.com/adamwoolhether/payhttp/client/restyconn"
	"github.com/adamwoolhether/payhttp/client/throttle"
)

// EnvPrefix namespaces the environment variables read by [Load],
// e.g. PAYHTTP_TIMEOUT.
const EnvPrefix = "PAYHTTP"

const (
	TransportHTTP  = "http"
	TransportResty = "resty"
)

// Config holds the client settings an application usually keeps outside
// of code.
type Config struct {
	Transport         string        `mapstructure:"transport" validate:"required,oneof=http resty"`
	UserAgent         string        `mapstructure:"user_agent" validate:"max=256"`
	Timeout           time.Duration `mapstructure:"timeout" validate:"gte=0"`
	Workers           int           `mapstructure:"workers" validate:"gte=0"`
	ThrottleRPS       int           `mapstructure:"throttle_rps" validate:"gte=0"`
	ThrottleBurst     int           `mapstructure:"throttle_burst" validate:"required_with=ThrottleRPS,excluded_without=ThrottleRPS,gte=0"`
	NoFollowRedirects bool          `mapstructure:"no_follow_redirects"`
	LogLevel          string        `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// LoadOption adjusts how [Load] finds its sources.
type LoadOption func(*loadOpts)

type loadOpts struct {
	file    string
	dotenvs []string
}

// WithFile reads a YAML (or any viper-supported) file in addition to the
// environment. Environment values take precedence.
func WithFile(path string) LoadOption {
	return func(o *loadOpts) {
		o.file = path
	}
}

// WithDotEnv loads the given dotenv files into the process environment
// before reading it. Missing files are ignored; variables already set win.
func WithDotEnv(paths ...string) LoadOption {
	return func(o *loadOpts) {
		o.dotenvs = append(o.dotenvs, paths...)
	}
}

// Load reads, defaults and validates a Config.
func Load(optFns ...LoadOption) (Config, error) {
	var opts loadOpts
	for _, opt := range optFns {
		opt(&opts)
	}

	for _, path := range opts.dotenvs {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("loading dotenv %s: %w", path, err)
		}
	}

	v := viper.New()

	v.SetDefault("transport", TransportHTTP)
	v.SetDefault("user_agent", "")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("workers", 0)
	v.SetDefault("throttle_rps", 0)
	v.SetDefault("throttle_burst", 0)
	v.SetDefault("no_follow_redirects", false)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.file != "" {
		v.SetConfigFile(opts.file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Options converts cfg into client options. logger may be nil.
func (cfg Config) Options(logger *slog.Logger) ([]client.Option, error) {
	var opts []client.Option

	if logger != nil {
		opts = append(opts, client.WithLogger(logger))
	}
	if cfg.Workers > 0 {
		opts = append(opts, client.WithWorkers(cfg.Workers))
	}

	var tc *throttle.Config
	if cfg.ThrottleRPS > 0 {
		tc = &throttle.Config{RPS: cfg.ThrottleRPS, Burst: cfg.ThrottleBurst}
	}

	if cfg.Transport == TransportResty {
		rc, err := restyconn.NewClient(restyconn.ClientConfig{
			Timeout:           cfg.Timeout,
			UserAgent:         cfg.UserAgent,
			NoFollowRedirects: cfg.NoFollowRedirects,
			Throttle:          tc,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("building resty client: %w", err)
		}

		return append(opts, client.WithConnector(restyconn.New(rc))), nil
	}

	opts = append(opts, client.WithTimeout(cfg.Timeout))
	if cfg.UserAgent != "" {
		opts = append(opts, client.WithUserAgent(cfg.UserAgent))
	}
	if tc != nil {
		opts = append(opts, client.WithThrottle(tc.RPS, tc.Burst))
	}
	if cfg.NoFollowRedirects {
		opts = append(opts, client.WithNoFollowRedirects())
	}

	return opts, nil
}

// Level maps LogLevel onto a slog level, defaulting to info.
func (cfg Config) Level() slog.Level {
	switch cfg.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
