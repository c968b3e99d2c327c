package domain

import (
	"time"

	"github.com/google/uuid"
)

// Closed catalogs are provisioned out of band (see cmd/catalog); the import
// pipeline only looks them up and treats a miss as a data error. Open
// catalogs (Subclass, Illustrator, CardFamily) are created on first sight.

// TCGType is an energy type (Water, Fire, ...). Closed catalog.
// Initial is the unique one-letter shorthand used in cost strings.
type TCGType struct {
	ID         uuid.UUID
	Identifier string
	Initial    string
	Name       string
}

// Class is the top-level card class: pokemon, trainer or energy. Closed catalog.
type Class struct {
	ID         uuid.UUID
	Identifier string
	Name       string
}

// classIdentifiers maps the single-letter class codes used in card records
// to catalog identifiers.
var classIdentifiers = map[string]string{
	"P": "pokemon",
	"T": "trainer",
	"E": "energy",
}

// ClassIdentifierForCode resolves a one-letter class code (P/T/E) to the
// catalog identifier. ok is false for unknown codes.
func ClassIdentifierForCode(code string) (string, bool) {
	ident, ok := classIdentifiers[code]
	return ident, ok
}

// ClassCode is the inverse of ClassIdentifierForCode; it returns "" for
// identifiers outside the closed catalog.
func ClassCode(identifier string) string {
	for code, ident := range classIdentifiers {
		if ident == identifier {
			return code
		}
	}
	return ""
}

// Stage is an evolution stage (Basic, Stage 1, ...). Closed catalog.
type Stage struct {
	ID         uuid.UUID
	Identifier string
	Name       string
}

// Subclass is an open-ended trainer/card subtype (Item, Stadium, Supporter, ...).
type Subclass struct {
	ID         uuid.UUID
	Identifier string
	Name       string
}

// Rarity is a card rarity with its printed symbol. Closed catalog.
type Rarity struct {
	ID         uuid.UUID
	Identifier string
	Name       string
	Symbol     string
}

// MechanicClass tags a mechanic: attack, ability, poke-power, rule text, ...
// Closed catalog.
type MechanicClass struct {
	ID         uuid.UUID
	Identifier string
	Name       string
}

// MechanicClassAttack is the class whose empty cost is meaningful (a
// zero-cost attack) rather than not-applicable.
const MechanicClassAttack = "attack"

// Illustrator is a card artist, created on first reference.
type Illustrator struct {
	ID         uuid.UUID
	Identifier string
	Name       string
}

// CardFamily groups all cards sharing a display name. Evolution lines and
// translations anchor to the family, not to individual cards, so the family
// identifier must stay stable across stat variations of the same name.
type CardFamily struct {
	ID         uuid.UUID
	Identifier string
	Name       string
}

// Species is a handheld-game species referenced by Pokémon flavor blocks.
// Closed catalog keyed by the national dex number.
type Species struct {
	ID    int
	Name  string
	Genus string
}

// Set is a card release grouping.
type Set struct {
	ID          uuid.UUID
	Identifier  string
	Name        string
	Total       *int
	ReleaseDate *time.Time
	BanDate     *time.Time
}
