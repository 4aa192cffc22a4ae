package export

import (
	"context"
	"strings"
	"testing"

	"metacyc/pwyexport/internal/kb"
)

const fixture = `
organism: META
frames:
  - id: P1
    kind: pathway
    common-name: "|glycolysis <i>I</i>|"
    slots:
      names: [EMP pathway, glycolysis]
      reaction-list: [R1, R2]
      taxonomic-range: [TAX-2, TAX-2157]
      types: [Glycolysis]
  - id: SUPER-PWY
    kind: pathway
    common-name: superpathway of sugar degradation
    slots:
      reaction-list: [R3]
      sub-pathways: [P1]
      key-reactions: ["|R1|"]
  - id: PWY-MISSING
    kind: pathway
    slots:
      reaction-list: [RXN-GONE, R1]
  - id: R1
    kind: reaction
    common-name: first step
    slots:
      ec-number: [EC-1.1.1.1]
  - id: R2
    kind: reaction
    slots:
      in-pathway: [P1, RXN-REL]
  - id: R3
    kind: reaction
    spontaneous: true
  - id: RXN-REL
    kind: reaction
    slots:
      ec-number: ["2.2.2.2"]
  - id: ENZ-1
    kind: enzyme
    common-name: dehydrogenase
  - id: Glycolysis
    kind: class
    slots:
      types: [Pathways]
  - id: Pathways
    kind: class
catalysis:
  - {enzyme: ENZ-1, reaction: R2}
activities:
  - {enzyme: ENZ-1, pathway: P1, name: "second &alpha; step"}
`

var meta = kb.Session{Organism: "META"}

// setupTestKB creates an in-memory knowledge base loaded with fixture.
func setupTestKB(t *testing.T) *kb.DB {
	t.Helper()
	d, err := kb.Open(kb.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { d.Close() })
	if _, err := d.LoadYAML(context.Background(), strings.NewReader(fixture)); err != nil {
		t.Fatal(err)
	}
	return d
}
