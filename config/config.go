// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config loads client configuration from TOML.
//
// A complete file, with the default values, looks like this:
//
//	[retry]
//	max_retries = 5
//	backoff_base = "50ms"
//	backoff_max = "1s"
//	jitter = true
//
//	[timeout]
//	attempt = "5s"
//
//	[body]
//	expect_continue = false
//	chunk_size = 8192
//
//	[registry]
//	start = 0
//	delta = 1
//
//	[log]
//	level = "info"
//	format = "json"
//
// Every key is optional. Unknown keys are rejected.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/gogama/httpcore/body"
	"github.com/gogama/httpcore/handle"
	"github.com/gogama/httpcore/retry"
	"github.com/gogama/httpcore/timeout"
)

// maxChunkSize is the initial HTTP/2 maximum frame size.
const maxChunkSize = 16384

// Config is the root of the configuration file.
type Config struct {
	Retry    RetryConfig    `toml:"retry"`
	Timeout  TimeoutConfig  `toml:"timeout"`
	Body     BodyConfig     `toml:"body"`
	Registry RegistryConfig `toml:"registry"`
	Log      LogConfig      `toml:"log"`
}

// RetryConfig configures the retry stage.
type RetryConfig struct {
	// MaxRetries bounds the number of retries per execution. Zero
	// disables retry.
	MaxRetries  int      `toml:"max_retries"`
	BackoffBase Duration `toml:"backoff_base"`
	BackoffMax  Duration `toml:"backoff_max"`
	Jitter      bool     `toml:"jitter"`
}

// TimeoutConfig configures the per-attempt timeout stage.
type TimeoutConfig struct {
	// Attempt is the timeout of each attempt. Zero means no timeout.
	Attempt Duration `toml:"attempt"`
}

// BodyConfig configures request body transmission.
type BodyConfig struct {
	ExpectContinue bool `toml:"expect_continue"`
	ChunkSize      int  `toml:"chunk_size"`
}

// RegistryConfig seeds the request id counter of non-multiplexed
// connections.
type RegistryConfig struct {
	Start int32 `toml:"start"`
	Delta int32 `toml:"delta"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// A Duration is a time.Duration written as a string such as "250ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Retry: RetryConfig{
			MaxRetries:  5,
			BackoffBase: Duration{50 * time.Millisecond},
			BackoffMax:  Duration{time.Second},
			Jitter:      true,
		},
		Timeout: TimeoutConfig{
			Attempt: Duration{5 * time.Second},
		},
		Body: BodyConfig{
			ChunkSize: body.DefaultChunkSize,
		},
		Registry: RegistryConfig{
			Start: 0,
			Delta: 1,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Parse decodes TOML data over the default configuration and validates
// the result.
func Parse(data string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("httpcore/config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("httpcore/config: unknown keys: %s", strings.Join(keys, ", "))
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("httpcore/config: %w", err)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first invalid value in cfg.
func (cfg *Config) Validate() error {
	r := cfg.Retry
	if r.MaxRetries < 0 {
		return errors.New("httpcore/config: retry.max_retries must not be negative")
	}
	if r.MaxRetries > 0 {
		if r.BackoffBase.Duration <= 0 {
			return errors.New("httpcore/config: retry.backoff_base must be positive")
		}
		if r.BackoffMax.Duration < r.BackoffBase.Duration {
			return errors.New("httpcore/config: retry.backoff_max must be at least retry.backoff_base")
		}
	}
	if cfg.Timeout.Attempt.Duration < 0 {
		return errors.New("httpcore/config: timeout.attempt must not be negative")
	}
	if cfg.Body.ChunkSize < 0 || cfg.Body.ChunkSize > maxChunkSize {
		return fmt.Errorf("httpcore/config: body.chunk_size must be between 0 and %d", maxChunkSize)
	}
	if cfg.Registry.Delta == 0 {
		return errors.New("httpcore/config: registry.delta must not be zero")
	}
	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("httpcore/config: log.level: %w", err)
	}
	switch cfg.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("httpcore/config: log.format must be json or console, not %q", cfg.Log.Format)
	}
	return nil
}

// Backoff returns the exponential backoff described by r, or nil if
// retry is disabled.
func (r RetryConfig) Backoff() retry.Backoff {
	if r.MaxRetries < 1 {
		return nil
	}
	var jitter interface{}
	if r.Jitter {
		jitter = time.Now()
	}
	return retry.NewExpBackoff(r.BackoffBase.Duration, r.BackoffMax.Duration, jitter)
}

// Policy returns the timeout policy described by t.
func (t TimeoutConfig) Policy() timeout.Policy {
	if t.Attempt.Duration == 0 {
		return timeout.Infinite
	}
	return timeout.Fixed(t.Attempt.Duration)
}

// NewRegistry returns a handle registry seeded as described by r, for
// use by connection implementations which are not multiplexed.
func (r RegistryConfig) NewRegistry() *handle.Registry {
	return handle.NewRegistry(r.Start, r.Delta)
}

// Logger returns a logger writing to w at the configured level, as JSON
// or in the human-friendly console format.
func (l LogConfig) Logger(w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("httpcore/config: log.level: %w", err)
	}
	if l.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
