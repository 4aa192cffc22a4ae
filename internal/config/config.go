package config

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// KBConfig selects the knowledge base backend.
type KBConfig struct {
	Driver string `mapstructure:"driver" toml:"driver"`
	DSN    string `mapstructure:"dsn" toml:"dsn"`
}

// ExpandConfig tunes pathway expansion.
type ExpandConfig struct {
	SuppressAgainst    string `mapstructure:"suppress_against" toml:"suppress_against"`
	DedupeKeyReactions bool   `mapstructure:"dedupe_key_reactions" toml:"dedupe_key_reactions"`
	// ClassifyByKind also treats members whose frame kind is pathway as
	// pathways. Off means only sub-pathways and "PWY" ids are expanded.
	ClassifyByKind bool `mapstructure:"classify_by_kind" toml:"classify_by_kind"`
}

// AnnotateConfig tunes reaction annotation.
type AnnotateConfig struct {
	TieBreak string `mapstructure:"tie_break" toml:"tie_break"`
}

// MetricsConfig controls the Prometheus textfile written after an export.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile" toml:"textfile"`
}

// S3Config controls upload of the finished table. Empty Bucket disables it.
type S3Config struct {
	Bucket    string `mapstructure:"bucket" toml:"bucket"`
	Key       string `mapstructure:"key" toml:"key"`
	Region    string `mapstructure:"region" toml:"region"`
	Endpoint  string `mapstructure:"endpoint" toml:"endpoint"`
	PathStyle bool   `mapstructure:"path_style" toml:"path_style"`
}

// Config holds all runtime configuration for an export.
// Values are populated from .pwyexport.toml, PWYEXPORT_* env vars, and CLI flags.
type Config struct {
	KB       KBConfig       `mapstructure:"kb" toml:"kb"`
	Organism string         `mapstructure:"organism" toml:"organism"`
	Output   string         `mapstructure:"output" toml:"output"`
	Expand   ExpandConfig   `mapstructure:"expand" toml:"expand"`
	Annotate AnnotateConfig `mapstructure:"annotate" toml:"annotate"`
	Metrics  MetricsConfig  `mapstructure:"metrics" toml:"metrics"`
	S3       S3Config       `mapstructure:"s3" toml:"s3"`
	Verbose  bool           `mapstructure:"verbose" toml:"verbose"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		KB:       KBConfig{Driver: "sqlite"},
		Organism: "META",
		Output:   "meta_pwy.tbl",
		Expand:   ExpandConfig{SuppressAgainst: "leaves", ClassifyByKind: true},
		Annotate: AnnotateConfig{TieBreak: "lexical"},
		S3:       S3Config{Key: "meta_pwy.tbl", Region: "us-east-1"},
	}
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	d := Defaults()
	viper.SetDefault("kb.driver", d.KB.Driver)
	viper.SetDefault("kb.dsn", d.KB.DSN)
	viper.SetDefault("organism", d.Organism)
	viper.SetDefault("output", d.Output)
	viper.SetDefault("expand.suppress_against", d.Expand.SuppressAgainst)
	viper.SetDefault("expand.dedupe_key_reactions", d.Expand.DedupeKeyReactions)
	viper.SetDefault("expand.classify_by_kind", d.Expand.ClassifyByKind)
	viper.SetDefault("annotate.tie_break", d.Annotate.TieBreak)
	viper.SetDefault("metrics.textfile", d.Metrics.Textfile)
	viper.SetDefault("s3.bucket", d.S3.Bucket)
	viper.SetDefault("s3.key", d.S3.Key)
	viper.SetDefault("s3.region", d.S3.Region)
	viper.SetDefault("s3.endpoint", d.S3.Endpoint)
	viper.SetDefault("s3.path_style", d.S3.PathStyle)
	viper.SetDefault("verbose", d.Verbose)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects unknown drivers and modes.
func (c Config) Validate() error {
	switch c.KB.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("kb.driver: unknown driver %q (want sqlite or postgres)", c.KB.Driver)
	}
	switch c.Expand.SuppressAgainst {
	case "leaves", "queue":
	default:
		return fmt.Errorf("expand.suppress_against: unknown mode %q (want leaves or queue)", c.Expand.SuppressAgainst)
	}
	switch c.Annotate.TieBreak {
	case "lexical", "first":
	default:
		return fmt.Errorf("annotate.tie_break: unknown mode %q (want lexical or first)", c.Annotate.TieBreak)
	}
	if c.Organism == "" {
		return fmt.Errorf("organism must not be empty")
	}
	if c.S3.Bucket != "" && c.S3.Key == "" {
		return fmt.Errorf("s3.key must be set when s3.bucket is")
	}
	return nil
}

// WriteDefault writes the built-in configuration as TOML to path. It refuses
// to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	data, err := toml.Marshal(Defaults())
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
