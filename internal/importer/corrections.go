package importer

import (
	"github.com/encukou/ptcgdex/internal/cardfile"
)

// Patch fixes one field of a known-bad source record. Old guards the patch:
// it only applies while the source still carries the bad value, so an
// upstream fix makes the patch a no-op instead of re-corrupting the data.
type Patch struct {
	Field  string
	Old    any
	New    any
	Delete bool
}

// Correction binds patches to one record, keyed by set identifier and card
// name.
type Correction struct {
	Set     string
	Name    string
	Patches []Patch
}

// Corrections is the data-driven replacement for inline fixup conditionals:
// the full exception list is auditable and testable on its own.
type Corrections []Correction

// Apply patches a record in place before decomposition.
func (cs Corrections) Apply(setIdent string, rec *cardfile.Record) {
	name, _ := rec.Get("name")
	for _, c := range cs {
		if c.Set != setIdent || c.Name != name {
			continue
		}
		for _, p := range c.Patches {
			cur, ok := rec.Get(p.Field)
			if p.Old != nil && (!ok || cur != p.Old) {
				continue
			}
			if p.Delete {
				rec.Discard(p.Field)
				continue
			}
			rec.Set(p.Field, p.New)
		}
	}
}

// DefaultCorrections covers the known bad historical records.
func DefaultCorrections() Corrections {
	cs := Corrections{
		{
			Set: "mysterious-treasures", Name: "Uxie",
			Patches: []Patch{{Field: "height", Old: `1"00"`, New: "1'00"}},
		},
		{
			Set: "majestic-dawn", Name: "Croagunk",
			Patches: []Patch{{Field: "weight", Old: `2' 04"`, New: 50.7}},
		},
	}
	// The Platinum "G" cards carry the team name where the genus belongs.
	for _, name := range []string{
		"Dialga G", "Palkia G", "Weavile G", "Gyarados G", "Toxicroak G",
		"Bronzong G", "Crobat G", "Houndoom G", "Honchkrow G", "Purugly G",
		"Skuntank G",
	} {
		cs = append(cs, Correction{
			Set: "platinum", Name: name,
			Patches: []Patch{{Field: "species", Old: "Team Galactic's", Delete: true}},
		})
	}
	return cs
}
