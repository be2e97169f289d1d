package campaign

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"github.com/tailscale/hujson"

	"github.com/crillab/wcnffuzz/generator"
)

// ConfigFileName is the config file loaded from the working directory if present.
const ConfigFileName = ".wcnffuzz.json"

var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigInvalid      = errors.New("invalid config")
)

// Config holds the settings of a campaign.
type Config struct {
	TimeoutSeconds          int    `json:"timeout_seconds"`
	GraceSeconds            int    `json:"grace_seconds"`
	Generator               string `json:"generator"`
	GeneratorTimeoutSeconds int    `json:"generator_timeout_seconds"`
	InstanceDir             string `json:"instance_dir"`
	CrossCheck              bool   `json:"cross_check"`
	MaxOutputBytes          int64  `json:"max_output_bytes"`

	Source string `json:"-"` // Config file the settings were read from, if any.
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		TimeoutSeconds:          10,
		GraceSeconds:            1,
		Generator:               generator.DefaultCommand,
		GeneratorTimeoutSeconds: int(generator.DefaultTimeout / time.Second),
		InstanceDir:             ".",
		CrossCheck:              true,
	}
}

// LoadConfig returns the default configuration, overlaid with the content of
// the JSONC file at path.
// If path is empty, ConfigFileName is used if it exists.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	mustExist := path != ""
	if path == "" {
		path = ConfigFileName
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
		}
		return Config{}, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	if err := parseConfig(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}
	cfg.Source = path
	return cfg, nil
}

// parseConfig overlays cfg with the keys present in data.
func parseConfig(data []byte, cfg *Config) error {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fmt.Errorf("invalid JSONC: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// Validate checks the settings make sense.
func (c Config) Validate() error {
	switch {
	case c.TimeoutSeconds <= 0:
		return fmt.Errorf("timeout must be positive, got %d", c.TimeoutSeconds)
	case c.GraceSeconds <= 0:
		return fmt.Errorf("grace period must be positive, got %d", c.GraceSeconds)
	case c.Generator == "":
		return errors.New("generator command is empty")
	case c.GeneratorTimeoutSeconds <= 0:
		return fmt.Errorf("generator timeout must be positive, got %d", c.GeneratorTimeoutSeconds)
	case c.InstanceDir == "":
		return errors.New("instance directory is empty")
	case c.MaxOutputBytes < 0:
		return fmt.Errorf("max output must not be negative, got %d", c.MaxOutputBytes)
	}
	return nil
}

// Overrides are the settings given on the command line.
// Only flags that were explicitly set override the config file.
type Overrides struct {
	fs         *pflag.FlagSet
	timeout    int
	generator  string
	dir        string
	crossCheck bool
}

// BindFlags registers the flags overriding the config on fs.
func BindFlags(fs *pflag.FlagSet) *Overrides {
	def := DefaultConfig()
	o := &Overrides{fs: fs}
	fs.IntVar(&o.timeout, "timeout", def.TimeoutSeconds, "solver wall-clock limit in seconds")
	fs.StringVar(&o.generator, "generator", def.Generator, "generator command")
	fs.StringVar(&o.dir, "dir", def.InstanceDir, "directory for instance files")
	fs.BoolVar(&o.crossCheck, "cross-check", def.CrossCheck, "enable cross-solver checks")
	return o
}

// Apply overlays cfg with the flags that were set, and validates the result.
func (o *Overrides) Apply(cfg *Config) error {
	if o.fs.Changed("timeout") {
		cfg.TimeoutSeconds = o.timeout
	}
	if o.fs.Changed("generator") {
		cfg.Generator = o.generator
	}
	if o.fs.Changed("dir") {
		cfg.InstanceDir = o.dir
	}
	if o.fs.Changed("cross-check") {
		cfg.CrossCheck = o.crossCheck
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}
	return nil
}
