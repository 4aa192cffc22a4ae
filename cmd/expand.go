package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"metacyc/pwyexport/internal/export"
	"metacyc/pwyexport/internal/pathway"
)

var (
	expandJSON     bool
	expandAnnotate bool
)

var expandCmd = &cobra.Command{
	Use:   "expand <pathway>",
	Short: "Show the leaf reactions and key reactions of one pathway",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, err := OpenKB()
		if err != nil {
			return err
		}
		defer d.Close()

		f, err := ResolvePathway(ctx, d, session(), args[0])
		if err != nil {
			return err
		}
		opts := exportOptions(cfg)

		if !expandAnnotate {
			exp, err := pathway.NewExpander(d, session(), opts.Expand, logger).Expand(ctx, f.ID)
			if err != nil {
				return err
			}
			if expandJSON {
				return writeJSON(exp)
			}
			printExpansion(exp)
			return nil
		}

		res, err := export.NewAssembler(d, session(), opts, logger).Assemble(ctx, f.ID)
		if err != nil {
			return err
		}
		if expandJSON {
			return writeJSON(res)
		}
		printExpansion(res.Expansion)
		printAnnotations(res)
		return nil
	},
}

func init() {
	expandCmd.Flags().BoolVar(&expandJSON, "json", false, "Output as JSON")
	expandCmd.Flags().BoolVar(&expandAnnotate, "annotate", false, "Annotate each reaction and show the table row")
	rootCmd.AddCommand(expandCmd)
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printExpansion(exp *pathway.Expansion) {
	kind := "pathway"
	if exp.Superpathway {
		kind = "superpathway"
	}
	fmt.Printf("\n  %s (%s)\n", exp.Pathway, kind)
	fmt.Println("  ────────────────────────────────────────")
	fmt.Printf("  Leaf reactions: %d\n", len(exp.Leaves))
	for _, r := range exp.Leaves {
		fmt.Printf("    - %s\n", r)
	}
	if len(exp.KeyReactions) > 0 {
		fmt.Printf("  Key reactions: %s\n", exp.KeyReactionColumn())
	}
	if len(exp.SkippedCycles) > 0 {
		fmt.Printf("  Not expanded (containment cycle): %s\n", strings.Join(exp.SkippedCycles, ", "))
	}
	fmt.Println()
}

func printAnnotations(res *export.Result) {
	fmt.Println("  ANNOTATIONS")
	fmt.Println("  ────────────────────────────────────────")
	for _, a := range res.Annotations {
		if a.Spontaneous {
			fmt.Printf("    %-20s spontaneous\n", truncTitle(a.Reaction, 20))
			continue
		}
		var flags []string
		if a.AmbiguousName {
			flags = append(flags, "ambiguous name")
		}
		if a.AmbiguousEC {
			flags = append(flags, "ambiguous EC")
		}
		ec := a.ECEntry()
		if ec == "" {
			ec = "-"
		}
		line := fmt.Sprintf("    %-20s %-18s %s", truncTitle(a.Reaction, 20), truncTitle(ec, 18), truncTitle(a.Name, 50))
		if len(flags) > 0 {
			line += "  [" + strings.Join(flags, ", ") + "]"
		}
		fmt.Println(line)
	}
	for _, r := range res.Missing {
		fmt.Printf("    %-20s does not exist\n", truncTitle(r, 20))
	}

	fmt.Println("\n  ROW")
	fmt.Println("  ────────────────────────────────────────")
	fields := res.Row.Fields()
	for i, h := range export.Header {
		fmt.Printf("    %-12s %s\n", h, fields[i])
	}
	fmt.Println()
}

func truncTitle(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// back up to a rune boundary
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + "..."
}
