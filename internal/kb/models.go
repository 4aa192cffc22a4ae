package kb

import "errors"

// ErrNotFound is returned when an identifier does not resolve to a frame.
var ErrNotFound = errors.New("frame not found")

// Session scopes every accessor call to one organism database.
type Session struct {
	Organism string
}

// Frame kinds stored in the frames table.
const (
	KindPathway  = "pathway"
	KindReaction = "reaction"
	KindEnzyme   = "enzyme"
	KindClass    = "class"
)

// Slot names for multi-valued frame attributes.
const (
	SlotNames          = "names"
	SlotReactionList   = "reaction-list"
	SlotSubPathways    = "sub-pathways"
	SlotKeyReactions   = "key-reactions"
	SlotTaxonomicRange = "taxonomic-range"
	SlotECNumber       = "ec-number"
	SlotInPathway      = "in-pathway"
	SlotTypes          = "types"
)

// Frame is a knowledge-base record with named slots.
type Frame struct {
	ID          string              `json:"id"`
	Kind        string              `json:"kind"`
	CommonName  *string             `json:"common_name"`
	Spontaneous bool                `json:"spontaneous"`
	Slots       map[string][]string `json:"slots"`
}

// Slot returns the values of a slot, or nil when the slot is absent.
func (f *Frame) Slot(name string) []string {
	if f == nil {
		return nil
	}
	return f.Slots[name]
}

// Has reports whether the slot carries at least one value.
func (f *Frame) Has(name string) bool {
	return len(f.Slot(name)) > 0
}
