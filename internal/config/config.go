// Package config loads dsvedit settings.
//
// Settings are layered: built-in defaults, then a TOML file, then
// environment variables prefixed with DSVEDIT_. Each layer is a nested map;
// the merged map is decoded into a Config.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/dsvedit/internal/config/loader"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "DSVEDIT_"

// ErrInvalid is returned for settings that fail validation.
var ErrInvalid = errors.New("invalid configuration")

// Config holds every dsvedit setting.
type Config struct {
	Document DocumentConfig `toml:"document"`
	History  HistoryConfig  `toml:"history"`
	Paste    PasteConfig    `toml:"paste"`
	Labels   LabelsConfig   `toml:"labels"`
	Logging  LoggingConfig  `toml:"logging"`

	// Strict checks the buffer after every edit.
	Strict bool `toml:"strict"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Document: DocumentConfig{
			Delimiter:    ",",
			RowDelimiter: "\n",
			Quote:        `"`,
			Header:       true,
		},
		History: HistoryConfig{MaxEntries: 1000},
		Paste: PasteConfig{
			FieldSeparator: "\t",
			RowSeparator:   "\n",
		},
		Labels:  LabelsConfig{Scheme: "letters"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load builds a Config from the defaults, the TOML file at path and the
// environment. An empty path or a missing file skips the file layer.
func Load(path string) (*Config, error) {
	return LoadWith(loader.DefaultFS(), path, loader.NewEnvLoader(EnvPrefix))
}

// LoadWith is Load with an explicit file system and environment loader.
// A nil env skips the environment layer.
func LoadWith(fs loader.FileSystem, path string, env loader.Loader) (*Config, error) {
	merged, err := Default().toMap()
	if err != nil {
		return nil, err
	}

	if path != "" {
		file, err := loader.NewTOMLLoaderWithFS(fs, path).Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, file)
	}

	if env != nil {
		vars, err := env.Load()
		if err != nil {
			return nil, fmt.Errorf("reading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, vars)
	}

	return FromMap(merged)
}

// FromMap decodes a settings map and validates the result.
func FromMap(m map[string]any) (*Config, error) {
	data, err := toml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}
	c := &Config{}
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	if err := c.normalize(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) toMap() (map[string]any, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding defaults: %w", err)
	}
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding defaults: %w", err)
	}
	return m, nil
}

// normalize expands escape sequences in separators, so that "\t" written
// in an environment variable means a tab.
func (c *Config) normalize() error {
	fields := []*string{
		&c.Document.Delimiter,
		&c.Document.RowDelimiter,
		&c.Paste.FieldSeparator,
		&c.Paste.RowSeparator,
	}
	for _, f := range fields {
		s, err := unescape(*f)
		if err != nil {
			return fmt.Errorf("separator %q: %w", *f, ErrInvalid)
		}
		*f = s
	}
	c.Labels.Scheme = strings.ToLower(c.Labels.Scheme)
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	return nil
}

func unescape(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	return strconv.Unquote(`"` + strings.ReplaceAll(s, `"`, `\"`) + `"`)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	d := c.Document
	switch {
	case d.Delimiter == "":
		return fmt.Errorf("document.delimiter is empty: %w", ErrInvalid)
	case d.RowDelimiter == "":
		return fmt.Errorf("document.rowDelimiter is empty: %w", ErrInvalid)
	case d.Delimiter == d.RowDelimiter:
		return fmt.Errorf("document.delimiter equals document.rowDelimiter: %w", ErrInvalid)
	case len(d.Quote) > 1:
		return fmt.Errorf("document.quote %q is longer than one byte: %w", d.Quote, ErrInvalid)
	case c.History.MaxEntries < 1:
		return fmt.Errorf("history.maxEntries %d is below 1: %w", c.History.MaxEntries, ErrInvalid)
	case c.Paste.FieldSeparator == "" || c.Paste.RowSeparator == "":
		return fmt.Errorf("paste separators must not be empty: %w", ErrInvalid)
	case c.Paste.FieldSeparator == c.Paste.RowSeparator:
		return fmt.Errorf("paste.fieldSeparator equals paste.rowSeparator: %w", ErrInvalid)
	}

	switch c.Labels.Scheme {
	case "letters", "numbers":
	case "lua":
		if c.Labels.Script == "" {
			return fmt.Errorf("labels.script is required by the lua scheme: %w", ErrInvalid)
		}
	default:
		return fmt.Errorf("labels.scheme %q: %w", c.Labels.Scheme, ErrInvalid)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q: %w", c.Logging.Level, ErrInvalid)
	}
	return nil
}
