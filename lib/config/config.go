// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable [Load] reads the config path
// from.
const EnvVar = "GPUTOP_CONFIG"

// Counter sources.
const (
	SourceI915      = "i915"
	SourceSimulated = "simulated"
)

// Config is the gputop server configuration.
type Config struct {
	// Server configures the HTTP listener and websocket endpoint.
	Server ServerConfig `yaml:"server"`

	// Stream configures sample streaming.
	Stream StreamConfig `yaml:"stream"`

	// Counters selects where performance counter data comes from.
	Counters CountersConfig `yaml:"counters"`

	// Log configures logging and log forwarding to the UI.
	Log LogConfig `yaml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Listen is the TCP address to listen on.
	// Default: 127.0.0.1:7890
	Listen string `yaml:"listen"`

	// UpgradePath is the URL path that accepts websocket upgrades.
	// Default: /gputop
	UpgradePath string `yaml:"upgrade_path"`

	// WebRoot is a directory of static UI assets served at /. Empty
	// disables static serving.
	WebRoot string `yaml:"web_root"`

	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `yaml:"tls_cert"`
	TLSKey  string `yaml:"tls_key"`
}

// StreamConfig configures the flush scheduler and sample rings.
type StreamConfig struct {
	// TickInterval is the period between flush passes.
	// Default: 200ms
	TickInterval time.Duration `yaml:"tick_interval"`

	// BufferPages is the sample ring size in pages. Must be a power
	// of two.
	// Default: 32
	BufferPages int `yaml:"buffer_pages"`
}

// CountersConfig selects the counter source.
type CountersConfig struct {
	// Source is "i915" for the kernel OA PMU or "simulated" for
	// synthetic records.
	// Default: i915
	Source string `yaml:"source"`

	// SysRoot is the sysfs mount used for device probing.
	// Default: /sys
	SysRoot string `yaml:"sys_root"`

	// SimulatedInterval is how often the simulated source writes
	// records. Ignored for the i915 source.
	// Default: 10ms
	SimulatedInterval time.Duration `yaml:"simulated_interval"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is the minimum level written to stderr.
	// Default: info
	Level string `yaml:"level"`

	// ForwardLevel is the minimum level forwarded to the UI in Log
	// messages.
	// Default: info
	ForwardLevel string `yaml:"forward_level"`

	// BatchCapacity bounds the entries held between flush passes.
	// Older entries are dropped first.
	// Default: 256
	BatchCapacity int `yaml:"batch_capacity"`
}

// Default returns the default configuration. File values are merged
// over it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:      "127.0.0.1:7890",
			UpgradePath: "/gputop",
		},
		Stream: StreamConfig{
			TickInterval: 200 * time.Millisecond,
			BufferPages:  32,
		},
		Counters: CountersConfig{
			Source:            SourceI915,
			SysRoot:           "/sys",
			SimulatedInterval: 10 * time.Millisecond,
		},
		Log: LogConfig{
			Level:         "info",
			ForwardLevel:  "info",
			BatchCapacity: 256,
		},
	}
}

// Load loads configuration from the file named by GPUTOP_CONFIG.
// Fails if the variable is unset.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvVar)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of a gputop.yaml config file, or use --config", EnvVar)
	}
	return LoadFile(configPath)
}

// Resolve loads configuration from flagPath if non-empty, then from
// GPUTOP_CONFIG if set, and otherwise returns [Default].
func Resolve(flagPath string) (*Config, error) {
	if flagPath != "" {
		return LoadFile(flagPath)
	}
	if os.Getenv(EnvVar) != "" {
		return Load()
	}
	return Default(), nil
}

// LoadFile loads configuration from path, merged over [Default].
// ${HOME} and ${VAR:-default} patterns in path fields are expanded.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	// An empty file decodes to io.EOF and leaves the defaults.
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Server.WebRoot = expandVars(c.Server.WebRoot, vars)
	c.Server.TLSCert = expandVars(c.Server.TLSCert, vars)
	c.Server.TLSKey = expandVars(c.Server.TLSKey, vars)
	c.Counters.SysRoot = expandVars(c.Counters.SysRoot, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns. vars is
// consulted before the process environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if _, _, err := net.SplitHostPort(c.Server.Listen); err != nil {
		errs = append(errs, fmt.Errorf("server.listen %q: %w", c.Server.Listen, err))
	}
	if !strings.HasPrefix(c.Server.UpgradePath, "/") {
		errs = append(errs, fmt.Errorf("server.upgrade_path must start with /: %q", c.Server.UpgradePath))
	}
	if (c.Server.TLSCert == "") != (c.Server.TLSKey == "") {
		errs = append(errs, errors.New("server.tls_cert and server.tls_key must be set together"))
	}

	if c.Stream.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("stream.tick_interval must be positive, got %v", c.Stream.TickInterval))
	}
	if pages := c.Stream.BufferPages; pages <= 0 || pages&(pages-1) != 0 {
		errs = append(errs, fmt.Errorf("stream.buffer_pages must be a power of two, got %d", pages))
	}

	switch c.Counters.Source {
	case SourceI915:
	case SourceSimulated:
		if c.Counters.SimulatedInterval <= 0 {
			errs = append(errs, fmt.Errorf("counters.simulated_interval must be positive, got %v", c.Counters.SimulatedInterval))
		}
	default:
		errs = append(errs, fmt.Errorf("counters.source must be one of: %s, %s", SourceI915, SourceSimulated))
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if _, err := ParseLevel(c.Log.ForwardLevel); err != nil {
		errs = append(errs, fmt.Errorf("log.forward_level: %w", err))
	}
	if c.Log.BatchCapacity <= 0 {
		errs = append(errs, fmt.Errorf("log.batch_capacity must be positive, got %d", c.Log.BatchCapacity))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// BufferSize returns the sample ring size in bytes for the given page
// size.
func (c *Config) BufferSize(pageSize int) int {
	return c.Stream.BufferPages * pageSize
}

// TLS reports whether HTTPS is configured.
func (c *Config) TLS() bool {
	return c.Server.TLSCert != "" && c.Server.TLSKey != ""
}

// ParseLevel parses a slog level name ("debug", "info", "warn",
// "error", optionally with an offset like "info+2").
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, err
	}
	return level, nil
}
