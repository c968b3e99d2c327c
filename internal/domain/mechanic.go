package domain

import "github.com/google/uuid"

// Mechanic is a reusable rules-text unit (attack, ability, trainer rule)
// attachable to cards. Identity is (name, effect, class) plus the cost and
// damage signature; the same mechanic row is shared across every card that
// carries it.
type Mechanic struct {
	ID             uuid.UUID
	Class          MechanicClass
	Name           *string
	Effect         *string
	DamageBase     *int
	DamageModifier string
	Costs          []MechanicCost
}

// MechanicFilter is the discriminator query for mechanic resolution. Nil
// pointers match stored NULLs.
type MechanicFilter struct {
	ClassID uuid.UUID
	Name    *string
	Effect  *string
}

// MechanicCost is one run of a mechanic's energy cost, in printed order.
type MechanicCost struct {
	Type   TCGType
	Amount int
	Order  int
}

// CostString re-encodes the cost list back to its run-length form,
// e.g. two Water plus one Colorless becomes "WWC".
func (m *Mechanic) CostString() string {
	var b []byte
	for _, c := range m.Costs {
		for i := 0; i < c.Amount; i++ {
			b = append(b, c.Type.Initial...)
		}
	}
	return string(b)
}
