package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"metacyc/pwyexport/internal/graph"
)

var (
	analyzeJSON bool
	analyzeTopN int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the pathway containment graph: nesting, cycles, shared reactions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenKB()
		if err != nil {
			return err
		}
		defer d.Close()

		snap, err := graph.SnapshotFromKB(cmd.Context(), d, session())
		if err != nil {
			return fmt.Errorf("loading graph: %w", err)
		}

		report := graph.Analyze(snap, analyzeTopN)

		if analyzeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		printHumanReadable(report)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Output as JSON")
	analyzeCmd.Flags().IntVar(&analyzeTopN, "top-n", 10, "Number of top items to show per section")
	rootCmd.AddCommand(analyzeCmd)
}

func printHumanReadable(r *graph.Report) {
	fmt.Println("\n  CONTAINMENT")
	fmt.Println("  ────────────────────────────────────────")
	fmt.Printf("  Pathways: %d  Reactions: %d  Edges: %d\n", r.Pathways, r.Reactions, r.Edges)
	fmt.Printf("  Superpathways: %d  Max nesting depth: %d", r.SuperpathwayCount, r.MaxDepth)
	if r.DeepestPathway != "" {
		fmt.Printf(" (%s)", r.DeepestPathway)
	}
	fmt.Println()
	fmt.Printf("  Components: %d  Largest: %d\n", r.NumComponents, r.LargestComponent)

	if r.OrphanCount > 0 {
		fmt.Printf("  Empty pathways: %d\n", r.OrphanCount)
		for _, id := range r.OrphanIDs {
			fmt.Printf("    - %s\n", id)
		}
		if r.OrphanCount > len(r.OrphanIDs) {
			fmt.Printf("    ... and %d more\n", r.OrphanCount-len(r.OrphanIDs))
		}
	}

	if len(r.SharedReactions) > 0 {
		fmt.Println("\n  Most shared reactions:")
		for _, s := range r.SharedReactions {
			fmt.Printf("    %-24s %d pathways\n", truncTitle(s.ID, 24), s.Pathways)
		}
	}

	if len(r.Cycles) > 0 || len(r.SelfReferences) > 0 || len(r.MissingPathways) > 0 {
		fmt.Println("\n  INCONSISTENCIES")
		fmt.Println("  ────────────────────────────────────────")
		if len(r.Cycles) > 0 {
			fmt.Printf("  %d groups of pathways containing each other:\n", len(r.Cycles))
			for _, c := range r.Cycles {
				fmt.Printf("    %s\n", formatGroup(c))
			}
		}
		if len(r.SelfReferences) > 0 {
			fmt.Printf("  %d pathways list themselves: %s\n", len(r.SelfReferences), strings.Join(r.SelfReferences, ", "))
		}
		if len(r.MissingPathways) > 0 {
			fmt.Printf("  %d sub-pathways do not exist: %s\n", len(r.MissingPathways), strings.Join(r.MissingPathways, ", "))
		}
	}

	fmt.Println()
}

// formatGroup prints a cycle group as a set. The ids are sorted, not in
// containment order.
func formatGroup(ids []string) string {
	return "{" + strings.Join(ids, ", ") + "}"
}
