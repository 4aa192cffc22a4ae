package export

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"metacyc/pwyexport/internal/pathway"
)

func assemble(t *testing.T, id string) *Result {
	t.Helper()
	asm := NewAssembler(setupTestKB(t), meta, DefaultOptions(), zap.NewNop())
	res, err := asm.Assemble(context.Background(), id)
	if err != nil {
		t.Fatalf("Assemble(%s): %v", id, err)
	}
	return res
}

func TestAssemble_FlatPathway(t *testing.T) {
	res := assemble(t, "P1")

	want := []string{
		"P1", "glycolysis I", "EMP pathway,glycolysis", "Glycolysis,Pathways", "TAX-2,TAX-2157",
		"R1,R2", "1.1.1.1,2.2.2.2", "", "first step;second alpha step",
		"2", "2", "False", "True",
	}
	if diff := cmp.Diff(want, res.Row.Fields()); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}
	if len(res.Missing) != 0 {
		t.Errorf("unexpected missing reactions %v", res.Missing)
	}
}

func TestAssemble_Superpathway(t *testing.T) {
	res := assemble(t, "SUPER-PWY")
	row := res.Row

	if !row.Superpathway {
		t.Error("SUPER-PWY should be a superpathway")
	}
	if row.KeyRea != "R1" {
		t.Errorf("keyRea = %q, want R1", row.KeyRea)
	}
	if row.Spontaneous != 1 {
		t.Errorf("spontaneous = %d, want 1", row.Spontaneous)
	}
	if row.ReaID != "R1,R2" || row.ReaNr != 2 {
		t.Errorf("reaId = %q reaNr = %d, want R1,R2 / 2", row.ReaID, row.ReaNr)
	}
	// R2's enzyme is found through sub-pathway P1; its activity name is
	// recorded for P1 only, so the enzyme's common name is used
	if row.ReaName != "first step;dehydrogenase" {
		t.Errorf("reaName = %q, want %q", row.ReaName, "first step;dehydrogenase")
	}
	if row.Hierarchy != "" || row.TaxRange != "" {
		t.Errorf("expected empty hierarchy and taxrange, got %q %q", row.Hierarchy, row.TaxRange)
	}
}

func TestAssemble_MissingReactionExcluded(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	asm := NewAssembler(setupTestKB(t), meta, DefaultOptions(), zap.New(core))
	res, err := asm.Assemble(context.Background(), "PWY-MISSING")
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"RXN-GONE"}, res.Missing); diff != "" {
		t.Errorf("missing mismatch (-want +got):\n%s", diff)
	}
	if res.Row.ReaID != "R1" || res.Row.ReaNr != 1 || !res.Row.Status {
		t.Errorf("unexpected row %+v", res.Row)
	}
	if res.Row.Name != "" {
		t.Errorf("name = %q, want empty for a pathway without common name", res.Row.Name)
	}
	if logs.FilterMessage("reaction does not exist").Len() != 1 {
		t.Error("expected a warning for the missing reaction")
	}
}

func TestAssemble_NotFound(t *testing.T) {
	asm := NewAssembler(setupTestKB(t), meta, DefaultOptions(), nil)
	_, err := asm.Assemble(context.Background(), "NOPE-PWY")
	var nf *pathway.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestRowFields_MatchHeader(t *testing.T) {
	r := &Row{ID: "X"}
	if len(r.Fields()) != len(Header) {
		t.Fatalf("Fields() has %d cells, Header has %d", len(r.Fields()), len(Header))
	}
	got := r.Fields()
	if got[11] != "False" || got[12] != "False" {
		t.Errorf("booleans should render as False, got %q %q", got[11], got[12])
	}
}
