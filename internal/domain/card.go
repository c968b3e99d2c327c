package domain

import (
	"time"

	"github.com/google/uuid"
)

// Card is a normalized gameplay definition shared by all printings with
// identical stats and mechanics. Its identity is fully determined by the
// discriminating fields (Stage, Class, Family, HP, RetreatCost, Legal) plus
// the ordered type/mechanic/subclass/modifier/evolution signature; the
// resolution engine must never create two cards that project identically.
//
// Cards are never mutated after creation. Child slices are kept in card
// order; link order is dense and zero-based.
type Card struct {
	ID          uuid.UUID
	Family      CardFamily
	Stage       *Stage
	Class       Class
	HP          *int
	RetreatCost *int
	Legal       bool

	Types      []TCGType
	Mechanics  []Mechanic
	Subclasses []Subclass
	Modifiers  []DamageModifier
	Evolutions []Evolution

	CreatedAt time.Time
}

// Name returns the card's display name, which lives on the family.
func (c *Card) Name() string { return c.Family.Name }

// EvolvesFrom returns the families this card evolves from, in link order.
func (c *Card) EvolvesFrom() []CardFamily {
	var out []CardFamily
	for _, e := range c.Evolutions {
		if e.FamilyToCard {
			out = append(out, e.Family)
		}
	}
	return out
}

// EvolvesInto returns the families this card evolves into, in link order.
func (c *Card) EvolvesInto() []CardFamily {
	var out []CardFamily
	for _, e := range c.Evolutions {
		if !e.FamilyToCard {
			out = append(out, e.Family)
		}
	}
	return out
}

// CardFilter is the discriminator query for card resolution. Nil pointers
// match stored NULLs, not "any value".
type CardFilter struct {
	FamilyID    uuid.UUID
	ClassID     uuid.UUID
	StageID     *uuid.UUID
	HP          *int
	RetreatCost *int
}

// DamageModifier is a weakness or resistance: the card takes Amount more
// (or fewer, or times as much) damage from attacks of the given type.
type DamageModifier struct {
	Type      TCGType
	Operation string
	Amount    int
	Order     int
}

// Evolution links a card to a family it evolves from (FamilyToCard true)
// or into (FamilyToCard false).
type Evolution struct {
	Family       CardFamily
	FamilyToCard bool
	Order        int
}
