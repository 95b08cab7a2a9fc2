package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/getmockd/mockwire/pkg/logging"
	"github.com/getmockd/mockwire/pkg/server"
	"gopkg.in/yaml.v3"
)

// Config is the complete mockwire configuration.
type Config struct {
	Addr         string        `yaml:"addr"`
	Concurrent   bool          `yaml:"concurrent"`
	MaxConns     int           `yaml:"maxConns"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	ProbeTimeout time.Duration `yaml:"probeTimeout"`
	Log          LogConfig     `yaml:"log"`

	// Mocks lists seed mock files or doublestar globs, relative to the
	// config file.
	Mocks []string `yaml:"mocks"`

	// BaseDir is the directory relative mock paths resolve against.
	BaseDir string `yaml:"-"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Addr:         server.DefaultAddr,
		ProbeTimeout: server.DefaultProbeTimeout,
		Log: LogConfig{
			Level:  "info",
			Format: string(logging.FormatText),
		},
	}
}

// Load reads a YAML config file on top of Default. Unknown keys are
// rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Message: err.Error()}
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader([]byte(ExpandEnvVars(string(data)))))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, yamlError(path, err)
	}
	cfg.BaseDir = BaseDir(path)
	return cfg, nil
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}

// Validate checks the configuration for values the server cannot use.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("invalid addr %q: %w", c.Addr, err)
	}
	if c.MaxConns < 0 {
		return fmt.Errorf("maxConns must be >= 0, got %d", c.MaxConns)
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.ProbeTimeout < 0 {
		return errors.New("timeouts must not be negative")
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case string(logging.FormatText), string(logging.FormatJSON):
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}
	return nil
}

// ServerConfig converts c to the listener settings.
func (c *Config) ServerConfig() server.Config {
	return server.Config{
		Addr:         c.Addr,
		Concurrent:   c.Concurrent,
		MaxConns:     c.MaxConns,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
		ProbeTimeout: c.ProbeTimeout,
	}
}

// LoggingConfig converts c to logger settings writing to w.
func (c *Config) LoggingConfig(w io.Writer) logging.Config {
	return logging.Config{
		Level:  logging.ParseLevel(c.Log.Level),
		Format: logging.ParseFormat(c.Log.Format),
		Output: w,
	}
}

// ConfigError represents a configuration file error with location info.
type ConfigError struct {
	Path    string
	Line    int
	Column  int
	Message string
}

func (e *ConfigError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return e.Path + " (line " + strconv.Itoa(e.Line) + ", column " + strconv.Itoa(e.Column) + "): " + e.Message
	case e.Line > 0:
		return e.Path + " (line " + strconv.Itoa(e.Line) + "): " + e.Message
	}
	return e.Path + ": " + e.Message
}

var yamlLinePattern = regexp.MustCompile(`line (\d+):\s*`)

// yamlError converts a yaml.v3 error into a ConfigError, keeping the first
// line number it mentions.
func yamlError(path string, err error) *ConfigError {
	msg := strings.TrimPrefix(err.Error(), "yaml: ")
	msg = strings.TrimPrefix(msg, "unmarshal errors:\n")
	msg = strings.TrimSpace(msg)

	cfgErr := &ConfigError{Path: path, Message: msg}
	if m := yamlLinePattern.FindStringSubmatchIndex(msg); m != nil {
		cfgErr.Line, _ = strconv.Atoi(msg[m[2]:m[3]])
		cfgErr.Message = msg[:m[0]] + msg[m[1]:]
	}
	return cfgErr
}
