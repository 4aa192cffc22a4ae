// Package export assembles one table row per pathway and writes the
// pathway table.
package export

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"metacyc/pwyexport/internal/kb"
	"metacyc/pwyexport/internal/pathway"
)

// Source is the knowledge base surface the export reads.
type Source interface {
	pathway.Accessor
	AllPathways(ctx context.Context, s kb.Session) ([]string, error)
	InstanceAllTypes(ctx context.Context, s kb.Session, id string) ([]string, error)
}

var _ Source = (*kb.DB)(nil)

// Header is the first line of the pathway table.
var Header = []string{
	"id", "name", "altname", "hierarchy", "taxrange",
	"reaId", "reaEc", "keyRea", "reaName",
	"reaNr", "ecNr", "superpathway", "status",
}

// Row is one pathway's line in the table.
type Row struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	AltName      string `json:"altname"`
	Hierarchy    string `json:"hierarchy"`
	TaxRange     string `json:"taxrange"`
	KeyRea       string `json:"key_rea"`
	Superpathway bool   `json:"superpathway"`
	pathway.Columns
}

// Fields returns the row's cells in Header order.
func (r *Row) Fields() []string {
	return []string{
		r.ID, r.Name, r.AltName, r.Hierarchy, r.TaxRange,
		r.ReaID, r.ReaEC, r.KeyRea, r.ReaName,
		strconv.Itoa(r.ReaNr), strconv.Itoa(r.ECNr),
		boolCell(r.Superpathway), boolCell(r.Status),
	}
}

func boolCell(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// Result is everything assembled for one pathway.
type Result struct {
	Row         *Row                  `json:"row"`
	Expansion   *pathway.Expansion    `json:"expansion"`
	Annotations []*pathway.Annotation `json:"annotations"`
	// Missing lists leaf reactions that did not resolve and were left out.
	Missing []string `json:"missing,omitempty"`
}

// Options tunes expansion and annotation.
type Options struct {
	Expand   pathway.ExpandOptions
	Annotate pathway.AnnotateOptions
}

// DefaultOptions returns the options the export command starts from.
func DefaultOptions() Options {
	return Options{
		Expand:   pathway.DefaultExpandOptions(),
		Annotate: pathway.AnnotateOptions{TieBreak: pathway.TieBreakLexical},
	}
}

// Assembler builds rows for pathways of one organism.
type Assembler struct {
	src       Source
	session   kb.Session
	expander  *pathway.Expander
	annotator *pathway.Annotator
	log       *zap.Logger
}

// NewAssembler returns an Assembler reading from src within session s.
func NewAssembler(src Source, s kb.Session, opts Options, log *zap.Logger) *Assembler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assembler{
		src:       src,
		session:   s,
		expander:  pathway.NewExpander(src, s, opts.Expand, log),
		annotator: pathway.NewAnnotator(src, s, opts.Annotate, log),
		log:       log,
	}
}

// Assemble expands and annotates pathwayID and builds its row. Returns a
// *pathway.NotFoundError if the pathway does not resolve.
func (a *Assembler) Assemble(ctx context.Context, pathwayID string) (*Result, error) {
	f, err := a.src.Frame(ctx, a.session, pathwayID)
	if errors.Is(err, kb.ErrNotFound) {
		return nil, &pathway.NotFoundError{ID: pathwayID}
	}
	if err != nil {
		return nil, fmt.Errorf("resolving pathway %s: %w", pathwayID, err)
	}

	exp, err := a.expander.Expand(ctx, pathwayID)
	if err != nil {
		return nil, err
	}

	res := &Result{Expansion: exp}
	for _, r := range exp.Leaves {
		ann, err := a.annotator.Annotate(ctx, r, pathwayID)
		var nf *pathway.NotFoundError
		if errors.As(err, &nf) {
			a.log.Warn("reaction does not exist", zap.String("pathway", pathwayID), zap.String("reaction", r))
			res.Missing = append(res.Missing, r)
			continue
		}
		if err != nil {
			return nil, err
		}
		res.Annotations = append(res.Annotations, ann)
	}

	hierarchy, err := a.src.InstanceAllTypes(ctx, a.session, pathwayID)
	if err != nil {
		return nil, fmt.Errorf("types of %s: %w", pathwayID, err)
	}

	row := &Row{
		ID:           pathwayID,
		AltName:      strings.Join(f.Slot(kb.SlotNames), ","),
		Hierarchy:    strings.Join(hierarchy, ","),
		TaxRange:     strings.Join(f.Slot(kb.SlotTaxonomicRange), ","),
		KeyRea:       exp.KeyReactionColumn(),
		Superpathway: exp.Superpathway,
		Columns:      pathway.Collect(res.Annotations),
	}
	if f.CommonName != nil {
		row.Name = pathway.CleanPathwayName(*f.CommonName)
	}
	if !row.Status {
		a.log.Warn("status mismatch",
			zap.String("pathway", pathwayID),
			zap.Int("reactions", row.ReaNr),
			zap.Error(pathway.ErrStructuralInconsistency))
	}
	res.Row = row
	return res, nil
}
