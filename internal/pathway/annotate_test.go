package pathway

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"metacyc/pwyexport/internal/kb"
)

func annotate(t *testing.T, m *memKB, opts AnnotateOptions, rxn, pwy string) *Annotation {
	t.Helper()
	a, err := NewAnnotator(m, meta, opts, zap.NewNop()).Annotate(context.Background(), rxn, pwy)
	if err != nil {
		t.Fatalf("Annotate(%s, %s): %v", rxn, pwy, err)
	}
	return a
}

func TestAnnotate_DirectEC(t *testing.T) {
	m := newMemKB().reaction("R1", strPtr("alcohol dehydrogenase"), slots{kb.SlotECNumber: {"EC-1.1.1.1"}})
	a := annotate(t, m, AnnotateOptions{}, "R1", "P1")

	if a.Name != "alcohol dehydrogenase" {
		t.Errorf("Name = %q", a.Name)
	}
	if got := a.ECEntry(); got != "1.1.1.1" {
		t.Errorf("ECEntry = %q, want 1.1.1.1", got)
	}
	if a.ECNr() != 1 {
		t.Errorf("ECNr = %d, want 1", a.ECNr())
	}
}

func TestAnnotate_MultipleECAligned(t *testing.T) {
	m := newMemKB().reaction("|RXN-5|", strPtr("a, b"), slots{kb.SlotECNumber: {"EC-1.1.1.1", "|EC-2.2.2.2|", "3.3.3.3"}})
	a := annotate(t, m, AnnotateOptions{}, "|RXN-5|", "P1")

	tests := []struct {
		name, got, want string
	}{
		{"ec", a.ECEntry(), "1.1.1.1,2.2.2.2,3.3.3.3"},
		{"id", a.IDEntry(), "RXN-5,RXN-5,RXN-5"},
		{"name", a.NameEntry(), "a, b;a, b;a, b"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s entry = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestAnnotate_Spontaneous(t *testing.T) {
	m := newMemKB().spontaneous("R9")
	a := annotate(t, m, AnnotateOptions{}, "R9", "P1")
	if !a.Spontaneous {
		t.Fatal("expected spontaneous annotation")
	}
	if a.Name != "" || a.ECCodes != nil {
		t.Errorf("spontaneous reactions are not resolved further, got %+v", a)
	}
}

func TestAnnotate_RelatedReactionEC(t *testing.T) {
	m := newMemKB().
		reaction("R2", strPtr("second step"), slots{kb.SlotInPathway: {"PWY-1", "RXN-REL"}}).
		reaction("RXN-REL", nil, slots{kb.SlotECNumber: {"2.2.2.2"}})

	a := annotate(t, m, AnnotateOptions{}, "R2", "P1")
	if diff := cmp.Diff([]string{"2.2.2.2"}, a.ECCodes); diff != "" {
		t.Errorf("EC mismatch (-want +got):\n%s", diff)
	}
}

func TestAnnotate_RelatedReactionFallbacks(t *testing.T) {
	tests := []struct {
		name          string
		inPathway     []string
		wantAmbiguous bool
	}{
		{"no related reaction", []string{"PWY-1"}, false},
		{"related reaction without EC", []string{"RXN-BARE"}, false},
		{"related reaction missing", []string{"RXN-GONE"}, false},
		{"several related reactions", []string{"RXN-BARE", "RXN-OTHER"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMemKB().
				reaction("R2", strPtr("x"), slots{kb.SlotInPathway: tt.inPathway}).
				reaction("RXN-BARE", nil, nil).
				reaction("RXN-OTHER", nil, slots{kb.SlotECNumber: {"9.9.9.9"}})

			core, logs := observer.New(zapcore.WarnLevel)
			a, err := NewAnnotator(m, meta, AnnotateOptions{}, zap.New(core)).Annotate(context.Background(), "R2", "P1")
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff([]string{""}, a.ECCodes); diff != "" {
				t.Errorf("EC mismatch (-want +got):\n%s", diff)
			}
			if a.ECNr() != 1 || a.ECEntry() != "" {
				t.Errorf("expected one empty EC entry, got nr=%d entry=%q", a.ECNr(), a.ECEntry())
			}
			if a.AmbiguousEC != tt.wantAmbiguous {
				t.Errorf("AmbiguousEC = %v, want %v", a.AmbiguousEC, tt.wantAmbiguous)
			}
			warned := logs.FilterMessage("unclear EC substitution").Len() == 1
			if warned != tt.wantAmbiguous {
				t.Errorf("warning logged = %v, want %v", warned, tt.wantAmbiguous)
			}
		})
	}
}

func TestAnnotate_NameFromSingleActivity(t *testing.T) {
	m := newMemKB().
		pathway("P1", slots{kb.SlotReactionList: {"R1"}}).
		reaction("R1", nil, slots{kb.SlotECNumber: {"1.1.1.1"}})
	m.catalysis["R1"] = []string{"ENZ-1"}
	m.activities["ENZ-1/P1"] = "D-&alpha;-alanine <i>transport</i>"

	a := annotate(t, m, AnnotateOptions{}, "R1", "P1")
	if a.Name != "D-alpha-alanine transport" {
		t.Errorf("Name = %q, want %q", a.Name, "D-alpha-alanine transport")
	}
	if a.AmbiguousName {
		t.Error("single activity is not ambiguous")
	}
}

func TestAnnotate_NameIgnoresEnzymesOutsidePathway(t *testing.T) {
	m := newMemKB().
		pathway("P1", slots{kb.SlotReactionList: {"R0"}}).
		reaction("R0", strPtr("first"), nil).
		reaction("R1", nil, nil)
	m.catalysis["R0"] = []string{"ENZ-1"}
	m.catalysis["R1"] = []string{"ENZ-1", "ENZ-OUT"}
	m.activities["ENZ-1/P1"] = "kinase"
	m.activities["ENZ-OUT/P1"] = "phosphatase"

	a := annotate(t, m, AnnotateOptions{}, "R1", "P1")
	if a.Name != "kinase" {
		t.Errorf("Name = %q, want kinase", a.Name)
	}
	if a.AmbiguousName {
		t.Error("enzymes outside the pathway must not make the name ambiguous")
	}
}

func TestAnnotate_NameFromSubPathwayEnzyme(t *testing.T) {
	m := newMemKB().
		pathway("SUPER", slots{kb.SlotSubPathways: {"PWY-A"}}).
		pathway("PWY-A", slots{kb.SlotReactionList: {"R1"}}).
		reaction("R1", nil, nil)
	m.catalysis["R1"] = []string{"ENZ-1"}
	m.activities["ENZ-1/SUPER"] = "isomerase"

	a := annotate(t, m, AnnotateOptions{}, "R1", "SUPER")
	if a.Name != "isomerase" {
		t.Errorf("Name = %q, want the enzyme's activity name", a.Name)
	}
}

func TestAnnotate_NameFallsBackToID(t *testing.T) {
	m := newMemKB().
		pathway("P1", slots{kb.SlotReactionList: {"RXN-7"}}).
		reaction("RXN-7", nil, nil)

	a := annotate(t, m, AnnotateOptions{}, "RXN-7", "P1")
	if a.Name != "RXN-7" {
		t.Errorf("Name = %q, want reaction id", a.Name)
	}
}

func TestAnnotate_AmbiguousNameTieBreak(t *testing.T) {
	m := newMemKB().
		pathway("P1", slots{kb.SlotReactionList: {"R1"}}).
		reaction("R1", nil, nil)
	m.catalysis["R1"] = []string{"ENZ-1", "ENZ-2"}
	m.activities["ENZ-1/P1"] = "zeta kinase"
	m.activities["ENZ-2/P1"] = "alpha kinase"

	tests := []struct {
		tieBreak TieBreak
		want     string
	}{
		{TieBreakLexical, "alpha kinase"},
		{TieBreakFirst, "zeta kinase"},
		{"", "alpha kinase"},
	}
	for _, tt := range tests {
		t.Run(string(tt.tieBreak), func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			a, err := NewAnnotator(m, meta, AnnotateOptions{TieBreak: tt.tieBreak}, zap.New(core)).
				Annotate(context.Background(), "R1", "P1")
			if err != nil {
				t.Fatal(err)
			}
			if a.Name != tt.want {
				t.Errorf("Name = %q, want %q", a.Name, tt.want)
			}
			if !a.AmbiguousName {
				t.Error("AmbiguousName should be set")
			}
			entries := logs.FilterMessage("more than one enzyme-reaction match").All()
			if len(entries) != 1 {
				t.Fatalf("expected one ambiguity warning, got %d", len(entries))
			}
			fields := entries[0].ContextMap()
			if fields["pathway"] != "P1" || fields["reaction"] != "R1" {
				t.Errorf("warning should identify pathway and reaction, got %v", fields)
			}
		})
	}
}

func TestAnnotate_DuplicateActivityNamesNotAmbiguous(t *testing.T) {
	m := newMemKB().
		pathway("P1", slots{kb.SlotReactionList: {"R1"}}).
		reaction("R1", nil, nil)
	m.catalysis["R1"] = []string{"ENZ-1", "ENZ-2"}
	m.activities["ENZ-1/P1"] = "kinase"
	m.activities["ENZ-2/P1"] = "kinase"

	a := annotate(t, m, AnnotateOptions{}, "R1", "P1")
	if a.Name != "kinase" || a.AmbiguousName {
		t.Errorf("got name %q ambiguous=%v, want kinase/false", a.Name, a.AmbiguousName)
	}
}

func TestAnnotate_StoredNameSanitized(t *testing.T) {
	m := newMemKB().reaction("R1", strPtr("&beta;-galactosidase <sub>2</sub>"), slots{kb.SlotECNumber: {"3.2.1.23"}})
	a := annotate(t, m, AnnotateOptions{}, "R1", "P1")
	if a.Name != "beta-galactosidase 2" {
		t.Errorf("Name = %q", a.Name)
	}
}

func TestAnnotate_NotFound(t *testing.T) {
	_, err := NewAnnotator(newMemKB(), meta, AnnotateOptions{}, nil).Annotate(context.Background(), "RXN-404", "P1")
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.ID != "RXN-404" {
		t.Fatalf("expected NotFoundError for RXN-404, got %v", err)
	}
}

func TestAmbiguousAnnotationError(t *testing.T) {
	err := &AmbiguousAnnotationError{Kind: AmbiguousEC, Pathway: "P1", Reaction: "R1", Candidates: []string{"RXN-A", "RXN-B"}}
	if !errors.Is(err, ErrAmbiguousAnnotation) {
		t.Error("should unwrap to ErrAmbiguousAnnotation")
	}
	want := "ec of R1 in P1 has 2 candidates: RXN-A, RXN-B"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
