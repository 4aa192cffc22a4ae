package pathway

import "strings"

// Columns holds the reaction-derived column values of one pathway row.
// The i-th EC code across ReaEC lines up with the i-th id in ReaID and the
// i-th name in ReaName.
type Columns struct {
	ReaID       string `json:"rea_id"`
	ReaEC       string `json:"rea_ec"`
	ReaName     string `json:"rea_name"`
	ReaNr       int    `json:"rea_nr"`
	ECNr        int    `json:"ec_nr"`
	Spontaneous int    `json:"spontaneous"`
	Status      bool   `json:"status"`
}

// Collect joins annotations into the pathway's reaction columns.
// Spontaneous reactions are only counted. ECNr counts reactions whose EC
// entry is non-empty. Status is the structural check that every counted
// reaction contributed exactly one EC entry.
func Collect(anns []*Annotation) Columns {
	var c Columns
	var ecs, ids, names []string
	for _, a := range anns {
		if a.Spontaneous {
			c.Spontaneous++
			continue
		}
		c.ReaNr++
		ec := a.ECEntry()
		ecs = append(ecs, ec)
		if ec != "" {
			c.ECNr++
		}
		ids = append(ids, a.IDEntry())
		names = append(names, a.NameEntry())
	}
	c.ReaEC = strings.Join(ecs, ",")
	c.ReaID = strings.Join(ids, ",")
	c.ReaName = strings.Join(names, ";")
	c.Status = c.ReaNr == len(ecs)
	return c
}
