package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"metacyc/pwyexport/internal/config"
	"metacyc/pwyexport/internal/export"
	"metacyc/pwyexport/internal/kb"
	"metacyc/pwyexport/internal/pathway"
)

var (
	kbPath string
	cfg    config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "pwyexport",
	Short: "Flatten knowledge base pathways into an annotated reaction table",
	Long: `pwyexport expands every pathway of an organism database into its leaf
reactions, annotates each reaction with EC numbers and a display name, and
writes one tab-separated row per pathway.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		zc := zap.NewProductionConfig()
		if cfg.Verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default .pwyexport.toml)")
	pf.StringVar(&kbPath, "kb", "", "Path to .metacyc.db knowledge base (or Postgres URL with --driver postgres)")
	pf.String("driver", "sqlite", "Knowledge base driver: sqlite or postgres")
	pf.String("organism", "META", "Organism database to read")
	pf.BoolP("verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("kb.driver", pf.Lookup("driver"))
	_ = viper.BindPFlag("organism", pf.Lookup("organism"))
	_ = viper.BindPFlag("verbose", pf.Lookup("verbose"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".pwyexport")
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("PWYEXPORT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// DiscoverKB finds the knowledge base using priority:
// env > flag > config > walk-up > XDG fallback.
// Postgres has no file to find, so only the first three apply.
func DiscoverKB(driver, configured string) (string, error) {
	if driver == kb.DriverPostgres {
		for _, dsn := range []string{os.Getenv("PWYEXPORT_KB"), kbPath, configured} {
			if dsn != "" {
				return dsn, nil
			}
		}
		return "", fmt.Errorf("no postgres URL (set PWYEXPORT_KB, use --kb, or set kb.dsn)")
	}

	// 1. Environment variable
	if envPath := os.Getenv("PWYEXPORT_KB"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}

	// 2. CLI flag
	if kbPath != "" {
		if _, err := os.Stat(kbPath); err == nil {
			return kbPath, nil
		}
		return "", fmt.Errorf("knowledge base not found at --kb path: %s", kbPath)
	}

	// 3. Config file
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured, nil
		}
		return "", fmt.Errorf("knowledge base not found at kb.dsn: %s", configured)
	}

	// 4. Walk up from CWD
	dir, err := os.Getwd()
	if err == nil {
		for {
			candidate := filepath.Join(dir, ".metacyc.db")
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	// 5. XDG fallback
	if p := xdgKBPath(); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("no .metacyc.db found (set PWYEXPORT_KB, use --kb, or run from a directory containing .metacyc.db)")
}

func xdgKBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "pwyexport", "metacyc.db")
}

// OpenKB discovers and opens the knowledge base
func OpenKB() (*kb.DB, error) {
	dsn, err := DiscoverKB(cfg.KB.Driver, cfg.KB.DSN)
	if err != nil {
		return nil, err
	}
	d, err := kb.Open(cfg.KB.Driver, dsn)
	if err != nil {
		return nil, err
	}
	logger.Debug("opened knowledge base",
		zap.String("driver", d.Driver()),
		zap.String("location", d.Location()))
	return d, nil
}

func session() kb.Session {
	return kb.Session{Organism: cfg.Organism}
}

// exportOptions maps configuration onto expansion and annotation options.
func exportOptions(c config.Config) export.Options {
	opts := export.DefaultOptions()
	opts.Expand.SuppressAgainst = pathway.SuppressMode(c.Expand.SuppressAgainst)
	opts.Expand.DedupeKeyReactions = c.Expand.DedupeKeyReactions
	opts.Expand.ClassifyByKind = c.Expand.ClassifyByKind
	opts.Annotate.TieBreak = pathway.TieBreak(c.Annotate.TieBreak)
	return opts
}

// pathwayLookup is what ResolvePathway needs from the knowledge base.
type pathwayLookup interface {
	Frame(ctx context.Context, s kb.Session, id string) (*kb.Frame, error)
	SearchPathways(ctx context.Context, s kb.Session, text string, limit int) ([]kb.PathwayMatch, error)
}

// ResolvePathway finds a pathway by exact id, |bar|-quoted id, or a unique
// id/name search match.
func ResolvePathway(ctx context.Context, d pathwayLookup, s kb.Session, reference string) (*kb.Frame, error) {
	// 1. Exact ID match, bare or quoted
	for _, id := range []string{reference, "|" + strings.Trim(reference, "|") + "|"} {
		f, err := d.Frame(ctx, s, id)
		if err == nil && f.Kind == kb.KindPathway {
			return f, nil
		}
		if err != nil && !errors.Is(err, kb.ErrNotFound) {
			return nil, err
		}
	}

	// 2. Search by id or common name
	matches, err := d.SearchPathways(ctx, s, reference, 10)
	if err != nil {
		return nil, fmt.Errorf("searching pathways: %w", err)
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("pathway not found: %s", reference)
	case 1:
		return d.Frame(ctx, s, matches[0].ID)
	}
	lines := make([]string, len(matches))
	for i, m := range matches {
		lines[i] = fmt.Sprintf("  %s %s", m.ID, pathway.CleanPathwayName(m.CommonName))
	}
	return nil, fmt.Errorf("ambiguous reference '%s'. %d matches:\n%s\nUse a pathway ID instead.",
		reference, len(matches), strings.Join(lines, "\n"))
}
