package importer

import (
	"fmt"
	"strings"

	"github.com/encukou/ptcgdex/internal/cardfile"
	"github.com/encukou/ptcgdex/internal/domain"
)

// DecomposedCard is one card record split into its normalized parts before
// any storage access. Catalog references are still raw text; the resolver
// turns them into entities.
type DecomposedCard struct {
	Name    string
	Class   string
	Stage   string
	HP      *int
	Retreat *int
	Legal   bool

	Types      []string
	Mechanics  []MechanicInput
	Subclasses []string
	Modifiers  []ModifierInput

	EvolvesFrom string
	EvolvesInto []string

	Print PrintInput
}

// MechanicInput is one decomposed mechanic.
type MechanicInput struct {
	Name           *string
	Text           *string
	Class          string
	Cost           []domain.CostSegment
	DamageBase     *int
	DamageModifier string
}

// ModifierInput is one decomposed weakness/resistance entry with the
// operation already normalized to its canonical symbol.
type ModifierInput struct {
	Type      string
	Operation string
	Amount    int
}

// PrintInput carries the printing-level attributes, handed to the print
// assembler rather than the card resolver.
type PrintInput struct {
	Set          string
	Number       string
	Order        int
	Rarity       string
	Holographic  bool
	Illustrators []string
	Filenames    []string
	Flavor       *FlavorInput
}

// FlavorInput is the decomposed dex block.
type FlavorInput struct {
	DexNumber    *int
	Pokemon      string
	Genus        string
	Weight       *float64
	HeightInches *int
	DexEntry     string
}

// Legacy fields that are recognized but carry no modeled meaning; they are
// consumed without validation.
var ignoredFields = []string{"orphan", "has-variant", "dated", "in-set-variant-of", "evo line"}

// Decompose consumes every recognized field of a card record. Fields left
// unconsumed at the end fail the record with a SchemaMismatchError; that
// check is the primary defense against silently dropping new fields as the
// record schema evolves.
func Decompose(rec *cardfile.Record) (*DecomposedCard, error) {
	out := &DecomposedCard{}

	name, hasName, err := rec.PopString("name")
	if err != nil {
		return nil, err
	}
	if !hasName {
		return nil, &domain.SchemaMismatchError{Missing: []string{"name"}}
	}
	out.Name = name

	if out.Class, _, err = rec.PopString("class"); err != nil {
		return nil, err
	}
	if out.Stage, _, err = rec.PopString("stage"); err != nil {
		return nil, err
	}
	if out.HP, err = popOptInt(rec, "hp"); err != nil {
		return nil, err
	}
	if out.Retreat, err = popOptInt(rec, "retreat"); err != nil {
		return nil, err
	}
	if out.Legal, _, err = rec.PopBool("legal"); err != nil {
		return nil, err
	}
	if out.Types, _, err = rec.PopStringList("types"); err != nil {
		return nil, err
	}
	if out.Subclasses, _, err = rec.PopStringList("subclasses"); err != nil {
		return nil, err
	}
	if out.Mechanics, err = popMechanics(rec); err != nil {
		return nil, err
	}
	if out.Modifiers, err = popModifiers(rec); err != nil {
		return nil, err
	}

	from, _, err := rec.PopStringList("evolves from")
	if err != nil {
		return nil, err
	}
	if len(from) > 1 {
		return nil, &domain.AmbiguousEvolutionError{Card: name, Families: from}
	}
	if len(from) == 1 {
		out.EvolvesFrom = from[0]
	}
	if out.EvolvesInto, _, err = rec.PopStringList("evolves into"); err != nil {
		return nil, err
	}

	if out.Print, err = popPrint(rec); err != nil {
		return nil, err
	}

	rec.Discard(ignoredFields...)
	if rec.Len() > 0 {
		return nil, &domain.SchemaMismatchError{Leftover: rec.Leftover()}
	}
	return out, nil
}

func popOptInt(rec *cardfile.Record, key string) (*int, error) {
	n, ok, err := rec.PopInt(key)
	if err != nil || !ok {
		return nil, err
	}
	return &n, nil
}

func popOptFloat(rec *cardfile.Record, key string) (*float64, error) {
	f, ok, err := rec.PopFloat(key)
	if err != nil || !ok {
		return nil, err
	}
	return &f, nil
}

func popMechanics(rec *cardfile.Record) ([]MechanicInput, error) {
	raw, _, err := rec.PopMapList("mechanics")
	if err != nil {
		return nil, err
	}
	var out []MechanicInput
	for i, mrec := range raw {
		m, err := popMechanic(mrec)
		if err != nil {
			return nil, fmt.Errorf("mechanic %d: %w", i, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func popMechanic(rec *cardfile.Record) (MechanicInput, error) {
	var m MechanicInput

	class, hasClass, err := rec.PopString("type")
	if err != nil {
		return m, err
	}
	if !hasClass {
		return m, &domain.SchemaMismatchError{Missing: []string{"type"}}
	}
	m.Class = class

	if name, ok, err := rec.PopString("name"); err != nil {
		return m, err
	} else if ok {
		m.Name = &name
	}
	if text, ok, err := rec.PopString("text"); err != nil {
		return m, err
	} else if ok {
		m.Text = &text
	}

	cost, _, err := rec.PopString("cost")
	if err != nil {
		return m, err
	}
	m.Cost = domain.DecodeCost(cost)

	// Damage without a modifier suffix is written as a bare integer.
	damage, _, err := rec.PopNumberString("damage")
	if err != nil {
		return m, err
	}
	if m.DamageBase, m.DamageModifier, err = domain.ParseDamage(damage); err != nil {
		return m, err
	}

	if rec.Len() > 0 {
		return m, &domain.SchemaMismatchError{Leftover: rec.Leftover()}
	}
	return m, nil
}

// popModifiers accepts the canonical "damage modifiers" list and the
// legacy scalar weakness/resistance blocks, normalizing everything to the
// list form with weakness first.
func popModifiers(rec *cardfile.Record) ([]ModifierInput, error) {
	var out []ModifierInput

	weak, hasWeak, err := rec.PopMap("weakness")
	if err != nil {
		return nil, err
	}
	if hasWeak {
		m, err := popModifier(weak, domain.DamageTimes)
		if err != nil {
			return nil, fmt.Errorf("weakness: %w", err)
		}
		out = append(out, m)
	}
	resist, hasResist, err := rec.PopMap("resistance")
	if err != nil {
		return nil, err
	}
	if hasResist {
		m, err := popModifier(resist, domain.DamageMinus)
		if err != nil {
			return nil, fmt.Errorf("resistance: %w", err)
		}
		out = append(out, m)
	}

	raw, _, err := rec.PopMapList("damage modifiers")
	if err != nil {
		return nil, err
	}
	for i, mrec := range raw {
		m, err := popModifier(mrec, "")
		if err != nil {
			return nil, fmt.Errorf("damage modifier %d: %w", i, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func popModifier(rec *cardfile.Record, defaultOp string) (ModifierInput, error) {
	var m ModifierInput

	typ, hasType, err := rec.PopString("type")
	if err != nil {
		return m, err
	}
	if !hasType {
		return m, &domain.SchemaMismatchError{Missing: []string{"type"}}
	}
	m.Type = typ

	op, hasOp, err := rec.PopString("operation")
	if err != nil {
		return m, err
	}
	switch {
	case hasOp:
		canon, ok := domain.NormalizeOperation(op)
		if !ok {
			return m, fmt.Errorf("unknown operation %q: %w", op, domain.ErrValidation)
		}
		m.Operation = canon
	case defaultOp != "":
		m.Operation = defaultOp
	default:
		return m, &domain.SchemaMismatchError{Missing: []string{"operation"}}
	}

	amount, hasAmount, err := rec.PopInt("amount")
	if err != nil {
		return m, err
	}
	if !hasAmount {
		return m, &domain.SchemaMismatchError{Missing: []string{"amount"}}
	}
	m.Amount = amount

	if rec.Len() > 0 {
		return m, &domain.SchemaMismatchError{Leftover: rec.Leftover()}
	}
	return m, nil
}

func popPrint(rec *cardfile.Record) (PrintInput, error) {
	var p PrintInput
	var err error

	if p.Set, _, err = rec.PopString("set"); err != nil {
		return p, err
	}
	if p.Number, _, err = rec.PopNumberString("number"); err != nil {
		return p, err
	}
	if p.Order, _, err = rec.PopInt("order"); err != nil {
		return p, err
	}
	if p.Rarity, _, err = rec.PopString("rarity"); err != nil {
		return p, err
	}
	if p.Holographic, _, err = rec.PopBool("holographic"); err != nil {
		return p, err
	}

	illustrator, hasIll, err := rec.PopString("illustrator")
	if err != nil {
		return p, err
	}
	if hasIll && illustrator != "" {
		p.Illustrators = splitIllustrators(illustrator)
	}
	if p.Filenames, _, err = rec.PopStringList("filename"); err != nil {
		return p, err
	}

	p.Flavor, err = popFlavor(rec)
	return p, err
}

// splitIllustrators splits a collaboration credit ("A, B") into names.
func splitIllustrators(s string) []string {
	parts := strings.Split(s, ", ")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func popFlavor(rec *cardfile.Record) (*FlavorInput, error) {
	var f FlavorInput
	var present bool
	var err error

	if f.DexNumber, err = popOptInt(rec, "dex number"); err != nil {
		return nil, err
	}
	present = present || f.DexNumber != nil

	pop := func(key string, dst *string) error {
		s, ok, err := rec.PopString(key)
		if err != nil {
			return err
		}
		if ok {
			*dst = s
			present = true
		}
		return nil
	}
	if err := pop("pokemon", &f.Pokemon); err != nil {
		return nil, err
	}
	if err := pop("species", &f.Genus); err != nil {
		return nil, err
	}
	if err := pop("dex entry", &f.DexEntry); err != nil {
		return nil, err
	}

	if f.Weight, err = popOptFloat(rec, "weight"); err != nil {
		return nil, err
	}
	present = present || f.Weight != nil

	height, hasHeight, err := rec.PopString("height")
	if err != nil {
		return nil, err
	}
	if hasHeight {
		inches, err := domain.ParseHeight(height)
		if err != nil {
			return nil, err
		}
		f.HeightInches = &inches
		present = true
	}

	if !present {
		return nil, nil
	}
	return &f, nil
}
