// Package pathway flattens pathways into their leaf reactions and annotates
// each reaction with EC numbers and a display name.
package pathway

import (
	"context"

	"metacyc/pwyexport/internal/kb"
)

// Accessor is the knowledge-base surface the expander and annotator consume.
// *kb.DB satisfies it.
type Accessor interface {
	Frame(ctx context.Context, s kb.Session, id string) (*kb.Frame, error)
	EnzymesOfPathway(ctx context.Context, s kb.Session, pathwayID string) ([]string, error)
	EnzymesOfReaction(ctx context.Context, s kb.Session, reactionID string) ([]string, error)
	EnzymeActivityName(ctx context.Context, s kb.Session, enzymeID, pathwayID string) (string, error)
}

var _ Accessor = (*kb.DB)(nil)
