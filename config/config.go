// Package config loads the YAML configuration of the blok launcher: how to
// log, whether to collect metrics, which executive new bloks start with and
// which modules and objects to bring up.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AnatoleLucet/blok/errors"
)

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

var executives = []string{"PushExecutive", "PullExecutive", "PushPullExecutive"}

type Config struct {
	Log       Log       `yaml:"log"`
	Metrics   Metrics   `yaml:"metrics"`
	Executive Executive `yaml:"executive"`
	Modules   []string  `yaml:"modules,omitempty"`
	Create    []string  `yaml:"create,omitempty"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Metrics struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace,omitempty"`
}

type Executive struct {
	Default string `yaml:"default"`
}

// Default is the configuration used when no file is given.
func Default() Config {
	return Config{
		Log:       Log{Level: "info", Format: LogFormatText},
		Metrics:   Metrics{Namespace: "blok"},
		Executive: Executive{Default: "PushPullExecutive"},
	}
}

// Parse decodes input over the defaults and validates the result.
func Parse(input []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(input, &cfg); err != nil {
		return Config{}, errors.WrapInvalid(
			fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err), "config", "Parse", "decode")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "config", "Load", "read file")
	}
	return Parse(data)
}

func (c Config) Validate() error {
	if _, err := c.level(); err != nil {
		return invalid("log.level unsupported: %q", c.Log.Level)
	}

	switch strings.ToLower(strings.TrimSpace(c.Log.Format)) {
	case LogFormatText, LogFormatJSON:
	default:
		return invalid("log.format unsupported: %q", c.Log.Format)
	}

	if !slices.Contains(executives, c.Executive.Default) {
		return invalid("executive.default must be one of %v, got %q", executives, c.Executive.Default)
	}

	for i, name := range c.Modules {
		if strings.TrimSpace(name) == "" {
			return invalid("modules[%d] is empty", i)
		}
	}
	for i, name := range c.Create {
		if strings.TrimSpace(name) == "" {
			return invalid("create[%d] is empty", i)
		}
	}
	return nil
}

// Logger builds the logger described by the log section, writing to w.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.level()
	if err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(strings.TrimSpace(c.Log.Format), LogFormatJSON) {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (c Config) level() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(strings.TrimSpace(c.Log.Level)))
	return level, err
}

func invalid(format string, args ...any) error {
	return errors.WrapInvalid(
		fmt.Errorf("%w: "+format, append([]any{errors.ErrInvalidConfig}, args...)...),
		"config", "Validate", "check")
}
