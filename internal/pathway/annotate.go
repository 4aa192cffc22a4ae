package pathway

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"metacyc/pwyexport/internal/kb"
)

// TieBreak picks one activity name when several enzymes name a reaction
// differently within the same pathway.
type TieBreak string

const (
	// TieBreakLexical picks the lexicographically smallest name.
	TieBreakLexical TieBreak = "lexical"
	// TieBreakFirst picks the first name in accessor order.
	TieBreakFirst TieBreak = "first"
)

// AnnotateOptions tunes the annotator.
type AnnotateOptions struct {
	TieBreak TieBreak
}

// Annotation is the EC and name record of one leaf reaction.
type Annotation struct {
	Reaction    string   `json:"reaction"`
	Pathway     string   `json:"pathway"`
	Name        string   `json:"name,omitempty"`
	ECCodes     []string `json:"ec_codes,omitempty"`
	Spontaneous bool     `json:"spontaneous"`

	AmbiguousName bool `json:"ambiguous_name,omitempty"`
	AmbiguousEC   bool `json:"ambiguous_ec,omitempty"`
}

// ECNr is how many times the reaction id and name are repeated in the row:
// one per EC code, at least one.
func (a *Annotation) ECNr() int {
	if len(a.ECCodes) == 0 {
		return 1
	}
	return len(a.ECCodes)
}

// ECEntry is the reaction's entry in the reaEc column.
func (a *Annotation) ECEntry() string {
	ec := strings.Join(a.ECCodes, ",")
	ec = strings.ReplaceAll(ec, "|", "")
	return strings.ReplaceAll(ec, "EC-", "")
}

// IDEntry is the reaction id repeated ECNr times, comma-joined.
func (a *Annotation) IDEntry() string {
	return repeatJoin(strings.ReplaceAll(a.Reaction, "|", ""), a.ECNr(), ",")
}

// NameEntry is the display name repeated ECNr times, semicolon-joined.
func (a *Annotation) NameEntry() string {
	return repeatJoin(a.Name, a.ECNr(), ";")
}

func repeatJoin(s string, n int, sep string) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = s
	}
	return strings.Join(parts, sep)
}

// Annotator resolves EC numbers and display names of reactions.
type Annotator struct {
	kb      Accessor
	session kb.Session
	opts    AnnotateOptions
	log     *zap.Logger
}

// NewAnnotator returns an Annotator reading from acc within session s.
func NewAnnotator(acc Accessor, s kb.Session, opts AnnotateOptions, log *zap.Logger) *Annotator {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.TieBreak == "" {
		opts.TieBreak = TieBreakLexical
	}
	return &Annotator{kb: acc, session: s, opts: opts, log: log}
}

// Annotate builds the annotation of reactionID as a member of pathwayID.
// Spontaneous reactions come back with Spontaneous set and nothing else
// resolved. Returns a *NotFoundError if the reaction does not resolve.
func (an *Annotator) Annotate(ctx context.Context, reactionID, pathwayID string) (*Annotation, error) {
	f, err := an.kb.Frame(ctx, an.session, reactionID)
	if errors.Is(err, kb.ErrNotFound) {
		return nil, &NotFoundError{ID: reactionID}
	}
	if err != nil {
		return nil, fmt.Errorf("resolving reaction %s: %w", reactionID, err)
	}

	a := &Annotation{Reaction: reactionID, Pathway: pathwayID}
	if f.Spontaneous {
		a.Spontaneous = true
		return a, nil
	}

	if f.CommonName != nil {
		a.Name = *f.CommonName
	} else {
		a.Name, a.AmbiguousName, err = an.activityName(ctx, reactionID, pathwayID)
		if err != nil {
			return nil, err
		}
	}
	a.Name = SanitizeName(a.Name)

	if codes := f.Slot(kb.SlotECNumber); len(codes) > 0 {
		a.ECCodes = append([]string(nil), codes...)
	} else {
		a.ECCodes, a.AmbiguousEC, err = an.relatedEC(ctx, f, pathwayID)
		if err != nil {
			return nil, err
		}
	}
	return a, nil
}

// activityName names a reaction by the activities of the enzymes that
// catalyse it within the pathway. Falls back to the reaction id.
func (an *Annotator) activityName(ctx context.Context, reactionID, pathwayID string) (string, bool, error) {
	ofPathway, err := an.kb.EnzymesOfPathway(ctx, an.session, pathwayID)
	if err != nil {
		return "", false, fmt.Errorf("enzymes of %s: %w", pathwayID, err)
	}
	ofReaction, err := an.kb.EnzymesOfReaction(ctx, an.session, reactionID)
	if err != nil {
		return "", false, fmt.Errorf("enzymes of %s: %w", reactionID, err)
	}

	inPathway := make(map[string]bool, len(ofPathway))
	for _, e := range ofPathway {
		inPathway[e] = true
	}
	var names []string
	seen := map[string]bool{}
	for _, e := range ofReaction {
		if !inPathway[e] {
			continue
		}
		name, err := an.kb.EnzymeActivityName(ctx, an.session, e, pathwayID)
		if err != nil {
			return "", false, err
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	switch len(names) {
	case 0:
		return reactionID, false, nil
	case 1:
		return names[0], false, nil
	}

	an.log.Warn("more than one enzyme-reaction match",
		zap.String("pathway", pathwayID),
		zap.String("reaction", reactionID),
		zap.Strings("candidates", names),
		zap.Error(&AmbiguousAnnotationError{Kind: AmbiguousName, Pathway: pathwayID, Reaction: reactionID, Candidates: names}))
	if an.opts.TieBreak == TieBreakLexical {
		sorted := append([]string(nil), names...)
		sort.Strings(sorted)
		return sorted[0], true, nil
	}
	return names[0], true, nil
}

// relatedEC borrows EC numbers from the single related reaction listed in
// the reaction's in-pathway slot. Zero or several candidates give [""].
func (an *Annotator) relatedEC(ctx context.Context, f *kb.Frame, pathwayID string) ([]string, bool, error) {
	var related []string
	for _, id := range f.Slot(kb.SlotInPathway) {
		if strings.Contains(id, "RXN") {
			related = append(related, id)
		}
	}

	switch len(related) {
	case 0:
		return []string{""}, false, nil
	case 1:
	default:
		an.log.Warn("unclear EC substitution",
			zap.String("pathway", pathwayID),
			zap.String("reaction", f.ID),
			zap.Strings("candidates", related),
			zap.Error(&AmbiguousAnnotationError{Kind: AmbiguousEC, Pathway: pathwayID, Reaction: f.ID, Candidates: related}))
		return []string{""}, true, nil
	}

	r2, err := an.kb.Frame(ctx, an.session, related[0])
	if errors.Is(err, kb.ErrNotFound) {
		return []string{""}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("resolving related reaction %s: %w", related[0], err)
	}
	if codes := r2.Slot(kb.SlotECNumber); len(codes) > 0 {
		return append([]string(nil), codes...), false, nil
	}
	return []string{""}, false, nil
}
