package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"metacyc/pwyexport/internal/kb"
)

var loadCmd = &cobra.Command{
	Use:   "load <dump.yaml>",
	Short: "Create the knowledge base schema and import a YAML frame dump",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening dump: %w", err)
		}
		defer in.Close()

		target, err := loadTarget()
		if err != nil {
			return err
		}
		d, err := kb.Open(cfg.KB.Driver, target)
		if err != nil {
			return err
		}
		defer d.Close()

		stats, err := d.LoadYAML(cmd.Context(), in)
		if err != nil {
			return fmt.Errorf("loading %s: %w", args[0], err)
		}
		fmt.Printf("Loaded %s into %s (%s): %d frames, %d slot values, %d catalysis links, %d activity names\n",
			stats.Organism, d.Location(), d.Driver(), stats.Frames, stats.SlotValues, stats.Catalysis, stats.Activities)

		counts, err := d.CountFrames(cmd.Context(), kb.Session{Organism: stats.Organism})
		if err != nil {
			return fmt.Errorf("counting frames: %w", err)
		}
		fmt.Printf("Knowledge base now holds %s\n", formatCounts(counts))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

// loadTarget is where load writes: an existing knowledge base if one is
// found, else the --kb path, else .metacyc.db in the working directory.
func loadTarget() (string, error) {
	if cfg.KB.Driver != kb.DriverPostgres && kbPath != "" {
		return kbPath, nil
	}
	dsn, err := DiscoverKB(cfg.KB.Driver, cfg.KB.DSN)
	if err == nil {
		return dsn, nil
	}
	if cfg.KB.Driver == kb.DriverPostgres {
		return "", err
	}
	if cfg.KB.DSN != "" {
		return cfg.KB.DSN, nil
	}
	return ".metacyc.db", nil
}

// formatCounts renders per-kind frame counts in a fixed kind order.
func formatCounts(counts map[string]int) string {
	kinds := []string{kb.KindPathway, kb.KindReaction, kb.KindEnzyme, kb.KindClass}
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%d %s", counts[k], k))
	}
	return strings.Join(parts, ", ")
}
