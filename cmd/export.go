package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"metacyc/pwyexport/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the pathway table for every pathway of the organism",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, err := OpenKB()
		if err != nil {
			return err
		}
		defer d.Close()

		toStdout := cfg.Output == "-"
		if toStdout && cfg.S3.Bucket != "" {
			return fmt.Errorf("cannot upload a table written to stdout; set --output to a file")
		}

		var out io.Writer = os.Stdout
		var f *os.File
		if !toStdout {
			f, err = os.Create(cfg.Output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", cfg.Output, err)
			}
			out = f
		}

		metrics := export.NewMetrics()
		sum, err := export.NewRunner(d, session(), exportOptions(cfg), metrics, logger).Run(ctx, out)
		if f != nil {
			if cerr := f.Close(); err == nil && cerr != nil {
				err = fmt.Errorf("closing %s: %w", cfg.Output, cerr)
			}
		}
		if err != nil {
			return err
		}

		if cfg.Metrics.Textfile != "" {
			if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
				return err
			}
		}

		if cfg.S3.Bucket != "" {
			up, err := export.NewUploader(ctx, export.UploadConfig{
				Bucket:    cfg.S3.Bucket,
				Region:    cfg.S3.Region,
				Endpoint:  cfg.S3.Endpoint,
				PathStyle: cfg.S3.PathStyle,
			})
			if err != nil {
				return err
			}
			if err := up.Upload(ctx, cfg.Output, cfg.S3.Key, sum.RunID); err != nil {
				return err
			}
			logger.Info("table uploaded",
				zap.String("run_id", sum.RunID),
				zap.String("bucket", cfg.S3.Bucket),
				zap.String("key", cfg.S3.Key))
		}

		printSummary(os.Stderr, sum, cfg.Output)
		return nil
	},
}

func init() {
	f := exportCmd.Flags()
	f.StringP("output", "o", "meta_pwy.tbl", "Output table path (- for stdout)")
	f.String("metrics-file", "", "Write Prometheus textfile metrics to this path")
	f.String("s3-bucket", "", "Upload the finished table to this S3 bucket")
	f.String("s3-key", "meta_pwy.tbl", "Object key for the uploaded table")
	f.String("suppress-against", "leaves", "Skip sub-pathways already among the leaves or already queued: leaves or queue")
	f.Bool("dedupe-key-reactions", false, "Drop repeated key reactions")
	f.Bool("classify-by-kind", true, "Also expand members whose frame kind is pathway (off: only sub-pathways and PWY ids)")
	f.String("tie-break", "lexical", "Pick among several activity names: lexical or first")

	_ = viper.BindPFlag("output", f.Lookup("output"))
	_ = viper.BindPFlag("metrics.textfile", f.Lookup("metrics-file"))
	_ = viper.BindPFlag("s3.bucket", f.Lookup("s3-bucket"))
	_ = viper.BindPFlag("s3.key", f.Lookup("s3-key"))
	_ = viper.BindPFlag("expand.suppress_against", f.Lookup("suppress-against"))
	_ = viper.BindPFlag("expand.dedupe_key_reactions", f.Lookup("dedupe-key-reactions"))
	_ = viper.BindPFlag("expand.classify_by_kind", f.Lookup("classify-by-kind"))
	_ = viper.BindPFlag("annotate.tie_break", f.Lookup("tie-break"))
	rootCmd.AddCommand(exportCmd)
}

func printSummary(w io.Writer, s *export.Summary, output string) {
	fmt.Fprintf(w, "\n  Exported %d pathways to %s in %s\n", s.Pathways, output, s.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "  run %s  organism %s\n", s.RunID, s.Organism)
	fmt.Fprintf(w, "  superpathways: %d  reactions: %d  spontaneous: %d\n", s.Superpathways, s.Reactions, s.Spontaneous)
	if s.Skipped > 0 {
		fmt.Fprintf(w, "  skipped pathways: %d (not found)\n", s.Skipped)
	}
	if s.MissingReactions > 0 {
		fmt.Fprintf(w, "  missing reactions: %d\n", s.MissingReactions)
	}
	if s.AmbiguousNames > 0 || s.AmbiguousECs > 0 {
		fmt.Fprintf(w, "  ambiguous annotations: %d names, %d EC substitutions\n", s.AmbiguousNames, s.AmbiguousECs)
	}
	if s.CycleSkips > 0 {
		fmt.Fprintf(w, "  containment cycles cut: %d\n", s.CycleSkips)
	}
	if s.StatusMismatches > 0 {
		fmt.Fprintf(w, "  status mismatches: %d\n", s.StatusMismatches)
	}
	fmt.Fprintln(w)
}
