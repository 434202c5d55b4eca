package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"

	iox "github.com/wdm0006/stratafill/pkg/io/ioutils"
	imp "github.com/wdm0006/stratafill/pkg/transform/impute"
)

const envPrefix = "stratafill"

type InputConfig struct {
	Path       string   `json:"path" yaml:"path" toml:"path" validate:"required"`
	Type       string   `json:"type" yaml:"type" toml:"type" validate:"oneof=csv jsonl parquet xlsx"`
	HasHeader  *bool    `json:"has_header" yaml:"has_header" toml:"has_header" split_words:"true"`
	Delimiter  string   `json:"delimiter" yaml:"delimiter" toml:"delimiter" validate:"max=1"`
	Sheet      string   `json:"sheet" yaml:"sheet" toml:"sheet"`
	NullValues []string `json:"null_values" yaml:"null_values" toml:"null_values" split_words:"true"`
}

type OutputConfig struct {
	Path      string `json:"path" yaml:"path" toml:"path" validate:"required"`
	Type      string `json:"type" yaml:"type" toml:"type" validate:"oneof=csv jsonl parquet xlsx"`
	Delimiter string `json:"delimiter" yaml:"delimiter" toml:"delimiter" validate:"max=1"`
	Sheet     string `json:"sheet" yaml:"sheet" toml:"sheet"`
}

// StepArgs is the union of the arguments every step kind accepts.
type StepArgs struct {
	Key      string            `json:"key" yaml:"key" toml:"key"`
	Strategy string            `json:"strategy" yaml:"strategy" toml:"strategy"`
	Column   string            `json:"column" yaml:"column" toml:"column"`
	Value    *float64          `json:"value" yaml:"value" toml:"value"`
	Map      map[string]string `json:"map" yaml:"map" toml:"map"`
	Pattern  string            `json:"pattern" yaml:"pattern" toml:"pattern"`
	Replace  string            `json:"replace" yaml:"replace" toml:"replace"`
}

// Step is a single-key object naming the step kind.
type Step map[string]StepArgs

type Config struct {
	Input     InputConfig  `json:"input" yaml:"input" toml:"input"`
	Output    OutputConfig `json:"output" yaml:"output" toml:"output"`
	KeyColumn string       `json:"key_column" yaml:"key_column" toml:"key_column" split_words:"true" validate:"required_without=Steps"`
	Strategy  string       `json:"strategy" yaml:"strategy" toml:"strategy" validate:"oneof=mean median"`
	LogLevel  string       `json:"log_level" yaml:"log_level" toml:"log_level" split_words:"true" validate:"oneof=debug info warn error"`
	LogFormat string       `json:"log_format" yaml:"log_format" toml:"log_format" split_words:"true" validate:"oneof=json console"`
	Report    bool         `json:"report" yaml:"report" toml:"report"`
	Steps     []Step       `json:"steps" yaml:"steps" toml:"steps" ignored:"true"`
}

var errConfigFormat = errors.New("unsupported config format")

// readConfigFile decodes path by its extension. An empty path yields a zero
// Config.
func readConfigFile(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(b, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return cfg, fmt.Errorf("%w: %q", errConfigFormat, filepath.Ext(path))
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnv overlays STRATAFILL_* environment variables.
func (c *Config) applyEnv() error {
	return envconfig.Process(envPrefix, c)
}

func (c *Config) applyDefaults() {
	if c.Strategy == "" {
		c.Strategy = imp.DefaultStrategy.String()
	}
	c.Strategy = strings.ToLower(strings.TrimSpace(c.Strategy))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "json"
	}
	if c.Input.HasHeader == nil {
		t := true
		c.Input.HasHeader = &t
	}
	if c.Output.Path == "" {
		c.Output.Path = "-"
	}
	if c.Input.Type == "" {
		c.Input.Type = typeOr(c.Input.Path, "csv")
	}
	if c.Output.Type == "" {
		fallback := c.Input.Type
		if c.Output.Path == "-" {
			fallback = "csv"
		}
		c.Output.Type = typeOr(c.Output.Path, fallback)
	}
}

func typeOr(path, fallback string) string {
	if t := iox.TypeFromPath(path); t != "" {
		return t
	}
	return fallback
}

func (c *Config) validate() error {
	return validator.New().Struct(c)
}

func delimiter(s string) rune {
	if s == "" {
		return 0
	}
	if s == `\t` {
		return '\t'
	}
	return []rune(s)[0]
}
