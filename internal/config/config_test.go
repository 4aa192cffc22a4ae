package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if diff := cmp.Diff(Defaults(), cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{"organism", "PWYEXPORT_ORGANISM", "ECOLI", func(c Config) any { return c.Organism }, "ECOLI"},
		{"kb.driver", "PWYEXPORT_KB_DRIVER", "postgres", func(c Config) any { return c.KB.Driver }, "postgres"},
		{"expand.suppress_against", "PWYEXPORT_EXPAND_SUPPRESS_AGAINST", "queue", func(c Config) any { return c.Expand.SuppressAgainst }, "queue"},
		{"expand.dedupe_key_reactions", "PWYEXPORT_EXPAND_DEDUPE_KEY_REACTIONS", "true", func(c Config) any { return c.Expand.DedupeKeyReactions }, true},
		{"expand.classify_by_kind", "PWYEXPORT_EXPAND_CLASSIFY_BY_KIND", "false", func(c Config) any { return c.Expand.ClassifyByKind }, false},
		{"annotate.tie_break", "PWYEXPORT_ANNOTATE_TIE_BREAK", "first", func(c Config) any { return c.Annotate.TieBreak }, "first"},
		{"s3.path_style", "PWYEXPORT_S3_PATH_STYLE", "true", func(c Config) any { return c.S3.PathStyle }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			viper.SetEnvPrefix("PWYEXPORT")
			viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
			viper.AutomaticEnv()
			t.Setenv(tt.envKey, tt.envVal)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() returned unexpected error: %v", err)
			}
			if got := tt.field(cfg); got != tt.want {
				t.Errorf("%s: got %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestLoad_RejectsUnknownModes(t *testing.T) {
	tests := []struct {
		key, value, wantErr string
	}{
		{"kb.driver", "mysql", "kb.driver"},
		{"expand.suppress_against", "both", "expand.suppress_against"},
		{"annotate.tie_break", "random", "annotate.tie_break"},
		{"organism", "", "organism"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			viper.Reset()
			viper.Set(tt.key, tt.value)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Load() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_S3KeyRequired(t *testing.T) {
	cfg := Defaults()
	cfg.S3.Bucket = "exports"
	cfg.S3.Key = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for bucket without key")
	}
}

func TestWriteDefault_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", ".pwyexport.toml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	viper.Reset()
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Defaults(), cfg); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	if err := WriteDefault(path); err == nil {
		t.Error("second WriteDefault should refuse to overwrite")
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "classify_by_kind = true") {
		t.Errorf("expected classify_by_kind in written config:\n%s", data)
	}
	if !strings.Contains(string(data), "suppress_against = 'leaves'") {
		t.Errorf("unexpected TOML:\n%s", data)
	}
}
