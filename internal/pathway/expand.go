package pathway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"metacyc/pwyexport/internal/kb"
)

// SuppressMode selects which collection a superpathway's sub-pathway ids are
// checked against before they are queued.
type SuppressMode string

const (
	// SuppressAgainstLeaves skips sub-pathways already collected as leaves.
	// This is the historical behavior of the export.
	SuppressAgainstLeaves SuppressMode = "leaves"
	// SuppressAgainstQueue skips sub-pathways that are already waiting in the
	// work-queue or already listed among the member's reactions.
	SuppressAgainstQueue SuppressMode = "queue"
)

// ExpandOptions tunes the expansion.
type ExpandOptions struct {
	SuppressAgainst    SuppressMode
	DedupeKeyReactions bool
	// ClassifyByKind also treats members whose frame kind is pathway as
	// pathway-like, in addition to the sub-pathway and "PWY" id rules.
	ClassifyByKind bool
}

// DefaultExpandOptions returns the options used by the export command.
func DefaultExpandOptions() ExpandOptions {
	return ExpandOptions{
		SuppressAgainst: SuppressAgainstLeaves,
		ClassifyByKind:  true,
	}
}

// Expansion is the flattened content of one pathway.
type Expansion struct {
	Pathway      string   `json:"pathway"`
	Leaves       []string `json:"leaves"`
	KeyReactions []string `json:"key_reactions"`
	Superpathway bool     `json:"superpathway"`
	// SkippedCycles lists members that were not expanded because they
	// already appear among their own expanding ancestors.
	SkippedCycles []string `json:"skipped_cycles,omitempty"`
}

// KeyReactionColumn joins the key reactions with commas and strips the
// knowledge base's |bar| quoting.
func (e *Expansion) KeyReactionColumn() string {
	return strings.ReplaceAll(strings.Join(e.KeyReactions, ","), "|", "")
}

// IsPathwayID reports whether id follows the pathway naming convention.
func IsPathwayID(id string) bool {
	return strings.Contains(id, "PWY")
}

// Expander flattens pathways into leaf reactions.
type Expander struct {
	kb      Accessor
	session kb.Session
	opts    ExpandOptions
	log     *zap.Logger
}

// NewExpander returns an Expander reading from acc within session s.
func NewExpander(acc Accessor, s kb.Session, opts ExpandOptions, log *zap.Logger) *Expander {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.SuppressAgainst == "" {
		opts.SuppressAgainst = SuppressAgainstLeaves
	}
	return &Expander{kb: acc, session: s, opts: opts, log: log}
}

// chain links a queued member to the pathway whose expansion queued it.
type chain struct {
	id     string
	parent *chain
}

func (c *chain) contains(id string) bool {
	for ; c != nil; c = c.parent {
		if c.id == id {
			return true
		}
	}
	return false
}

type queued struct {
	id  string
	via *chain
}

// Expand walks pathwayID's members with a FIFO work-queue. Genuine reactions
// are appended to the leaves; pathway-like members are replaced by their own
// reactions and sub-pathways. Returns a *NotFoundError if pathwayID does not
// resolve.
func (x *Expander) Expand(ctx context.Context, pathwayID string) (*Expansion, error) {
	root, err := x.frame(ctx, pathwayID)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, &NotFoundError{ID: pathwayID}
	}

	exp := &Expansion{
		Pathway:      pathwayID,
		KeyReactions: append([]string(nil), root.Slot(kb.SlotKeyReactions)...),
	}

	members := append([]string(nil), root.Slot(kb.SlotReactionList)...)
	for _, sub := range root.Slot(kb.SlotSubPathways) {
		if !contains(members, sub) {
			members = append(members, sub)
		}
	}

	top := &chain{id: pathwayID}
	queue := make([]queued, 0, len(members))
	for _, m := range members {
		queue = append(queue, queued{id: m, via: top})
	}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		f, err := x.frame(ctx, item.id)
		if err != nil {
			return nil, err
		}
		hasSub := f.Has(kb.SlotSubPathways)
		if !x.pathwayLike(item.id, f, hasSub) {
			exp.Leaves = append(exp.Leaves, item.id)
			continue
		}
		if f == nil {
			x.log.Warn("pathway member does not exist",
				zap.String("pathway", pathwayID), zap.String("member", item.id))
			continue
		}
		if item.via.contains(item.id) {
			x.log.Warn("containment cycle, member not expanded",
				zap.String("pathway", pathwayID), zap.String("member", item.id))
			exp.SkippedCycles = append(exp.SkippedCycles, item.id)
			continue
		}

		next := append([]string(nil), f.Slot(kb.SlotReactionList)...)
		if hasSub {
			for _, sub := range f.Slot(kb.SlotSubPathways) {
				if x.suppressed(sub, exp.Leaves, next, queue) {
					continue
				}
				next = append(next, sub)
			}
		}
		next = removeFirst(next, item.id)

		exp.KeyReactions = append(exp.KeyReactions, f.Slot(kb.SlotKeyReactions)...)
		exp.Superpathway = true

		link := &chain{id: item.id, parent: item.via}
		for _, m := range next {
			queue = append(queue, queued{id: m, via: link})
		}
	}

	if x.opts.DedupeKeyReactions {
		exp.KeyReactions = dedupe(exp.KeyReactions)
	}
	return exp, nil
}

func (x *Expander) pathwayLike(id string, f *kb.Frame, hasSub bool) bool {
	if hasSub || IsPathwayID(id) {
		return true
	}
	return x.opts.ClassifyByKind && f != nil && f.Kind == kb.KindPathway
}

func (x *Expander) suppressed(sub string, leaves, next []string, queue []queued) bool {
	if x.opts.SuppressAgainst == SuppressAgainstQueue {
		if contains(next, sub) {
			return true
		}
		for _, q := range queue {
			if q.id == sub {
				return true
			}
		}
		return false
	}
	return contains(leaves, sub)
}

// frame resolves id, mapping a missing frame to (nil, nil).
func (x *Expander) frame(ctx context.Context, id string) (*kb.Frame, error) {
	f, err := x.kb.Frame(ctx, x.session, id)
	if errors.Is(err, kb.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", id, err)
	}
	return f, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func removeFirst(list []string, s string) []string {
	for i, v := range list {
		if v == s {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func dedupe(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := list[:0]
	for _, v := range list {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
