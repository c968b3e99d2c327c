package exporter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encukou/ptcgdex/internal/domain"
)

var (
	lightning = domain.TCGType{Identifier: "lightning", Initial: "L", Name: "Lightning"}
	colorless = domain.TCGType{Identifier: "colorless", Initial: "C", Name: "Colorless"}
	fighting  = domain.TCGType{Identifier: "fighting", Initial: "F", Name: "Fighting"}

	pokemonClass = domain.Class{Identifier: "pokemon", Name: "Pokémon"}
	attackClass  = domain.MechanicClass{Identifier: "attack", Name: "Attack"}
	powerClass   = domain.MechanicClass{Identifier: "poke-power", Name: "Poké-Power"}
)

func strPtr(s string) *string { return &s }
func iPtr(n int) *int         { return &n }

func basicPikachu() *domain.Card {
	hp := 40
	retreat := 1
	return &domain.Card{
		Family:      domain.CardFamily{Identifier: "pikachu", Name: "Pikachu"},
		Stage:       &domain.Stage{Identifier: "basic", Name: "Basic"},
		Class:       pokemonClass,
		HP:          &hp,
		RetreatCost: &retreat,
		Legal:       true,
		Types:       []domain.TCGType{lightning},
		Mechanics: []domain.Mechanic{
			{
				Class:      attackClass,
				Name:       strPtr("Thunder Jolt"),
				DamageBase: iPtr(30),
				Costs: []domain.MechanicCost{
					{Type: lightning, Amount: 1, Order: 0},
					{Type: colorless, Amount: 1, Order: 1},
				},
			},
		},
		Modifiers: []domain.DamageModifier{
			{Type: fighting, Operation: "×", Amount: 2, Order: 0},
		},
		Evolutions: []domain.Evolution{
			{Family: domain.CardFamily{Identifier: "raichu", Name: "Raichu"}, FamilyToCard: false, Order: 0},
		},
	}
}

func TestCardProjection(t *testing.T) {
	rec, err := Card(basicPikachu())
	require.NoError(t, err)

	assert.Equal(t, "Pikachu", rec.Name)
	assert.Equal(t, "P", rec.Class)
	assert.Equal(t, []string{"Lightning"}, rec.Types)
	require.NotNil(t, rec.HP)
	assert.Equal(t, 40, *rec.HP)
	assert.Equal(t, "Basic", rec.Stage)
	require.NotNil(t, rec.Legal)
	assert.True(t, *rec.Legal)
	assert.Equal(t, "", rec.EvolvesFrom)
	assert.Equal(t, []string{"Raichu"}, rec.EvolvesInto)

	require.Len(t, rec.Mechanics, 1)
	assert.Equal(t, "Thunder Jolt", rec.Mechanics[0].Name)
	assert.Equal(t, "LC", rec.Mechanics[0].Cost)
	assert.Equal(t, "30", rec.Mechanics[0].Damage)

	require.Len(t, rec.Modifiers, 1)
	assert.Equal(t, "F", rec.Modifiers[0].Type)
	assert.Equal(t, "x", rec.Modifiers[0].Operation)
	assert.Equal(t, 2, rec.Modifiers[0].Amount)
}

func TestCardLegalAlwaysEmitted(t *testing.T) {
	card := basicPikachu()
	card.Legal = false
	rec, err := Card(card)
	require.NoError(t, err)
	require.NotNil(t, rec.Legal)
	assert.False(t, *rec.Legal)
}

func TestMechanicZeroCostAttack(t *testing.T) {
	rec := Mechanic(&domain.Mechanic{Class: attackClass, Name: strPtr("Splash About")})
	assert.Equal(t, "#", rec.Cost)
}

func TestMechanicEmptyCostNonAttack(t *testing.T) {
	rec := Mechanic(&domain.Mechanic{
		Class:  powerClass,
		Name:   strPtr("Rain Dance"),
		Effect: strPtr("Attach Water Energy as often as you like."),
	})
	assert.Equal(t, "", rec.Cost)
	assert.Equal(t, "Rain Dance", rec.Name)
}

func TestCardAmbiguousEvolution(t *testing.T) {
	card := basicPikachu()
	card.Evolutions = []domain.Evolution{
		{Family: domain.CardFamily{Name: "Eevee"}, FamilyToCard: true, Order: 0},
		{Family: domain.CardFamily{Name: "Ditto"}, FamilyToCard: true, Order: 1},
	}
	_, err := Card(card)
	require.Error(t, err)

	var ambiguous *domain.AmbiguousEvolutionError
	require.True(t, errors.As(err, &ambiguous))
	assert.Equal(t, []string{"Eevee", "Ditto"}, ambiguous.Families)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestPrintProjection(t *testing.T) {
	weight := 13.2
	height := 16
	p := &domain.Print{
		Card:        basicPikachu(),
		Rarity:      &domain.Rarity{Identifier: "common", Name: "Common", Symbol: "●"},
		Holographic: false,
		Illustrators: []domain.Illustrator{
			{Identifier: "mitsuhiro-arita", Name: "Mitsuhiro Arita"},
			{Identifier: "keiji-kinebuchi", Name: "Keiji Kinebuchi"},
		},
		Scans: []domain.Scan{{Filename: "base-58-pikachu.jpg", Order: 0}},
		Flavor: &domain.PokemonFlavor{
			Species:      &domain.Species{ID: 25, Name: "Pikachu", Genus: "Mouse"},
			Genus:        "Mouse",
			Weight:       &weight,
			HeightInches: &height,
			DexEntry:     "When several of these Pokémon gather, their electricity could build and cause lightning storms.",
		},
		SetPrint: &domain.SetPrint{
			Set:    domain.Set{Identifier: "base", Name: "Base Set"},
			Number: "58",
			Order:  0,
		},
	}

	rec, err := Print(p)
	require.NoError(t, err)

	assert.Equal(t, "base", rec.Set)
	assert.Equal(t, "58", rec.Number)
	require.NotNil(t, rec.Order)
	assert.Equal(t, 0, *rec.Order)
	assert.Equal(t, "common", rec.Rarity)
	require.NotNil(t, rec.Holographic)
	assert.False(t, *rec.Holographic)
	assert.Equal(t, "Mitsuhiro Arita, Keiji Kinebuchi", rec.Illustrator)
	assert.Equal(t, []string{"base-58-pikachu.jpg"}, rec.Filename)

	require.NotNil(t, rec.DexNumber)
	assert.Equal(t, 25, *rec.DexNumber)
	assert.Equal(t, "Pikachu", rec.Pokemon)
	assert.Equal(t, "Mouse", rec.Species)
	assert.Equal(t, "1'4", rec.Height)
}

func TestSetProjection(t *testing.T) {
	total := 102
	s := domain.Set{Identifier: "base", Name: "Base Set", Total: &total}
	p := &domain.Print{
		Card:     basicPikachu(),
		SetPrint: &domain.SetPrint{Set: s, Number: "58", Order: 0},
	}

	rec, err := Set(s, []*domain.Print{p})
	require.NoError(t, err)
	assert.Equal(t, "Base Set", rec.Name)
	require.Len(t, rec.Cards, 1)
	assert.Equal(t, "", rec.Cards[0].Set)
	assert.Equal(t, "58", rec.Cards[0].Number)
}
