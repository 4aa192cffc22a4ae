package pathway

import (
	"errors"
	"fmt"
	"strings"

	"metacyc/pwyexport/internal/kb"
)

var (
	// ErrAmbiguousAnnotation indicates more than one candidate name or
	// related reaction was found for a reaction.
	ErrAmbiguousAnnotation = errors.New("ambiguous annotation")
	// ErrStructuralInconsistency indicates the counted reactions do not match
	// the number of EC column entries. Reported through the status column only.
	ErrStructuralInconsistency = errors.New("reaction count does not match EC entries")
)

// NotFoundError reports an identifier that does not resolve in the
// knowledge base.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s does not exist", e.ID)
}

func (e *NotFoundError) Unwrap() error { return kb.ErrNotFound }

// AmbiguityKind says which annotation step was ambiguous.
type AmbiguityKind string

const (
	AmbiguousName AmbiguityKind = "name"
	AmbiguousEC   AmbiguityKind = "ec"
)

// AmbiguousAnnotationError records an ambiguous annotation and its candidates.
type AmbiguousAnnotationError struct {
	Kind       AmbiguityKind
	Pathway    string
	Reaction   string
	Candidates []string
}

func (e *AmbiguousAnnotationError) Error() string {
	return fmt.Sprintf("%s of %s in %s has %d candidates: %s",
		e.Kind, e.Reaction, e.Pathway, len(e.Candidates), strings.Join(e.Candidates, ", "))
}

func (e *AmbiguousAnnotationError) Unwrap() error { return ErrAmbiguousAnnotation }
