package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"metacyc/pwyexport/internal/kb"
	"metacyc/pwyexport/internal/pathway"
)

// Summary describes one finished export run.
type Summary struct {
	RunID            string        `json:"run_id"`
	Organism         string        `json:"organism"`
	Pathways         int           `json:"pathways"`
	Skipped          int           `json:"skipped"`
	Superpathways    int           `json:"superpathways"`
	Reactions        int           `json:"reactions"`
	Spontaneous      int           `json:"spontaneous"`
	MissingReactions int           `json:"missing_reactions"`
	AmbiguousNames   int           `json:"ambiguous_names"`
	AmbiguousECs     int           `json:"ambiguous_ecs"`
	StatusMismatches int           `json:"status_mismatches"`
	CycleSkips       int           `json:"cycle_skips"`
	Duration         time.Duration `json:"duration"`
}

// Runner exports every pathway of one organism.
type Runner struct {
	src     Source
	session kb.Session
	asm     *Assembler
	metrics *Metrics
	log     *zap.Logger
}

// NewRunner returns a Runner. metrics may be nil.
func NewRunner(src Source, s kb.Session, opts Options, metrics *Metrics, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		src:     src,
		session: s,
		asm:     NewAssembler(src, s, opts, log),
		metrics: metrics,
		log:     log,
	}
}

// Run writes the header and one row per pathway, in knowledge base order,
// to out. Pathways that do not resolve are logged and skipped. Any other
// knowledge base error aborts the run.
func (r *Runner) Run(ctx context.Context, out io.Writer) (*Summary, error) {
	start := time.Now()
	sum := &Summary{RunID: uuid.NewString(), Organism: r.session.Organism}
	log := r.log.With(zap.String("run_id", sum.RunID), zap.String("organism", sum.Organism))

	ids, err := r.src.AllPathways(ctx, r.session)
	if err != nil {
		return nil, fmt.Errorf("listing pathways: %w", err)
	}
	log.Info("export started", zap.Int("pathways", len(ids)))

	w := NewWriter(out)
	if err := w.WriteHeader(); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t0 := time.Now()
		res, err := r.asm.Assemble(ctx, id)
		var nf *pathway.NotFoundError
		if errors.As(err, &nf) {
			log.Warn("pathway does not exist", zap.String("pathway", id))
			sum.Skipped++
			r.metrics.skipped()
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("exporting %s: %w", id, err)
		}
		if err := w.Write(res.Row); err != nil {
			return nil, err
		}
		sum.add(res)
		r.metrics.written(res, time.Since(t0))
		log.Debug("pathway written",
			zap.String("pathway", id),
			zap.Int("reactions", res.Row.ReaNr),
			zap.Bool("superpathway", res.Row.Superpathway))
	}

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("flushing table: %w", err)
	}
	sum.Duration = time.Since(start)
	log.Info("export finished",
		zap.Int("written", sum.Pathways),
		zap.Int("skipped", sum.Skipped),
		zap.Int("status_mismatches", sum.StatusMismatches),
		zap.Duration("duration", sum.Duration))
	return sum, nil
}

func (s *Summary) add(res *Result) {
	s.Pathways++
	if res.Row.Superpathway {
		s.Superpathways++
	}
	s.Reactions += res.Row.ReaNr
	s.Spontaneous += res.Row.Spontaneous
	s.MissingReactions += len(res.Missing)
	s.CycleSkips += len(res.Expansion.SkippedCycles)
	for _, a := range res.Annotations {
		if a.AmbiguousName {
			s.AmbiguousNames++
		}
		if a.AmbiguousEC {
			s.AmbiguousECs++
		}
	}
	if !res.Row.Status {
		s.StatusMismatches++
	}
}
