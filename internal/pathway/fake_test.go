package pathway

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"metacyc/pwyexport/internal/kb"
)

var meta = kb.Session{Organism: "META"}

// memKB is an in-memory Accessor for tests.
type memKB struct {
	frames     map[string]*kb.Frame
	catalysis  map[string][]string // reaction -> enzymes
	activities map[string]string   // enzyme/pathway -> name
	failOn     string
	lookups    int
}

func newMemKB() *memKB {
	return &memKB{
		frames:     map[string]*kb.Frame{},
		catalysis:  map[string][]string{},
		activities: map[string]string{},
	}
}

func (m *memKB) pathway(id string, slots map[string][]string) *memKB {
	m.frames[id] = &kb.Frame{ID: id, Kind: kb.KindPathway, Slots: slots}
	return m
}

func (m *memKB) reaction(id string, name *string, slots map[string][]string) *memKB {
	m.frames[id] = &kb.Frame{ID: id, Kind: kb.KindReaction, CommonName: name, Slots: slots}
	return m
}

func (m *memKB) spontaneous(id string) *memKB {
	m.frames[id] = &kb.Frame{ID: id, Kind: kb.KindReaction, Spontaneous: true}
	return m
}

func (m *memKB) Frame(_ context.Context, s kb.Session, id string) (*kb.Frame, error) {
	m.lookups++
	if id == m.failOn {
		return nil, errors.New("connection reset")
	}
	f, ok := m.frames[id]
	if !ok || s.Organism != meta.Organism {
		return nil, fmt.Errorf("%s: %w", id, kb.ErrNotFound)
	}
	return f, nil
}

func (m *memKB) EnzymesOfPathway(_ context.Context, _ kb.Session, pathwayID string) ([]string, error) {
	seen := map[string]bool{}
	visited := map[string]bool{pathwayID: true}
	var out []string
	work := []string{pathwayID}
	for len(work) > 0 {
		id := work[0]
		work = work[1:]
		for _, e := range m.catalysis[id] {
			if !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
		f := m.frames[id]
		for _, member := range append(f.Slot(kb.SlotReactionList), f.Slot(kb.SlotSubPathways)...) {
			if !visited[member] {
				visited[member] = true
				work = append(work, member)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *memKB) EnzymesOfReaction(_ context.Context, _ kb.Session, reactionID string) ([]string, error) {
	return m.catalysis[reactionID], nil
}

func (m *memKB) EnzymeActivityName(_ context.Context, _ kb.Session, enzymeID, pathwayID string) (string, error) {
	if name, ok := m.activities[enzymeID+"/"+pathwayID]; ok {
		return name, nil
	}
	return enzymeID, nil
}

func strPtr(s string) *string { return &s }
