// Package exporter projects stored entities back into the card-file record
// shape. Projections are pure and read-only; they are also what the import
// resolver compares against, so they define entity identity.
package exporter

import (
	"strings"

	"github.com/encukou/ptcgdex/internal/cardfile"
	"github.com/encukou/ptcgdex/internal/domain"
)

// Card projects a card without any printing context. Legal is always
// emitted; everything else empty is omitted.
func Card(c *domain.Card) (cardfile.CardRecord, error) {
	rec := cardfile.CardRecord{
		Name:  c.Family.Name,
		Class: domain.ClassCode(c.Class.Identifier),
		HP:    c.HP,
		Legal: boolPtr(c.Legal),
	}
	if c.Stage != nil {
		rec.Stage = c.Stage.Name
	}
	rec.Retreat = c.RetreatCost
	for _, t := range c.Types {
		rec.Types = append(rec.Types, t.Name)
	}
	for _, s := range c.Subclasses {
		rec.Subclasses = append(rec.Subclasses, s.Name)
	}
	for _, m := range c.Mechanics {
		rec.Mechanics = append(rec.Mechanics, Mechanic(&m))
	}
	for _, d := range c.Modifiers {
		rec.Modifiers = append(rec.Modifiers, Modifier(d))
	}

	from := c.EvolvesFrom()
	if len(from) > 1 {
		names := make([]string, len(from))
		for i, f := range from {
			names[i] = f.Name
		}
		return rec, &domain.AmbiguousEvolutionError{Card: c.Family.Name, Families: names}
	}
	if len(from) == 1 {
		rec.EvolvesFrom = from[0].Name
	}
	for _, f := range c.EvolvesInto() {
		rec.EvolvesInto = append(rec.EvolvesInto, f.Name)
	}
	return rec, nil
}

// Mechanic projects one mechanic. An empty cost surfaces as the zero-cost
// marker only for attacks; for other classes an empty cost means
// not-applicable and is omitted.
func Mechanic(m *domain.Mechanic) cardfile.MechanicRecord {
	rec := cardfile.MechanicRecord{
		Class:  m.Class.Identifier,
		Cost:   m.CostString(),
		Damage: domain.FormatDamage(m.DamageBase, m.DamageModifier),
	}
	if m.Name != nil {
		rec.Name = *m.Name
	}
	if m.Effect != nil {
		rec.Text = cardfile.Text(*m.Effect)
	}
	if rec.Cost == "" && m.Class.Identifier == domain.MechanicClassAttack {
		rec.Cost = domain.CostEmptyMarker
	}
	return rec
}

// Modifier projects a weakness/resistance entry with the ASCII operation
// spelling used on the wire.
func Modifier(d domain.DamageModifier) cardfile.ModifierRecord {
	return cardfile.ModifierRecord{
		Type:      d.Type.Initial,
		Operation: domain.ASCIIOperation(d.Operation),
		Amount:    d.Amount,
	}
}

// Print projects a full printing: the card plus set membership, rarity,
// artists, scans and flavor. Holographic and order are always emitted.
func Print(p *domain.Print) (cardfile.CardRecord, error) {
	rec, err := Card(p.Card)
	if err != nil {
		return rec, err
	}
	if p.SetPrint != nil {
		rec.Set = p.SetPrint.Set.Identifier
		rec.Number = p.SetPrint.Number
		rec.Order = intPtr(p.SetPrint.Order)
	}
	if p.Rarity != nil {
		rec.Rarity = p.Rarity.Identifier
	}
	rec.Holographic = boolPtr(p.Holographic)
	if len(p.Illustrators) > 0 {
		names := make([]string, len(p.Illustrators))
		for i, ill := range p.Illustrators {
			names[i] = ill.Name
		}
		rec.Illustrator = strings.Join(names, ", ")
	}
	for _, scan := range p.Scans {
		rec.Filename = append(rec.Filename, scan.Filename)
	}
	if f := p.Flavor; f != nil {
		if f.Species != nil {
			rec.DexNumber = intPtr(f.Species.ID)
			rec.Pokemon = f.Species.Name
		}
		rec.Species = f.Genus
		rec.Weight = f.Weight
		if f.HeightInches != nil {
			rec.Height = domain.FormatHeight(*f.HeightInches)
		}
		rec.DexEntry = cardfile.Text(f.DexEntry)
	}
	return rec, nil
}

// Set projects a whole set file from its metadata and prints, in the order
// given.
func Set(s domain.Set, prints []*domain.Print) (cardfile.SetRecord, error) {
	rec := cardfile.SetRecord{
		Name:  s.Name,
		Total: s.Total,
	}
	if s.ReleaseDate != nil {
		rec.ReleaseDate = s.ReleaseDate.Format(cardfile.DateLayout)
	}
	if s.BanDate != nil {
		rec.BanDate = s.BanDate.Format(cardfile.DateLayout)
	}
	for _, p := range prints {
		card, err := Print(p)
		if err != nil {
			return rec, err
		}
		// Inside a set file the set identifier is implied by the file.
		card.Set = ""
		rec.Cards = append(rec.Cards, card)
	}
	return rec, nil
}

func boolPtr(b bool) *bool { return &b }
func intPtr(n int) *int    { return &n }
