package testhelper

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/encukou/ptcgdex/internal/adapter/postgres/catalog"
	"github.com/encukou/ptcgdex/internal/domain"
)

// SeedCatalogs loads a small closed-catalog fixture: seven energy types,
// the three card classes, basic/stage-1/stage-2, three rarities, four
// mechanic classes and three species. Upserts, so safe to call from every
// test sharing the container.
func SeedCatalogs(t *testing.T, pool *pgxpool.Pool) *catalog.Repo {
	t.Helper()
	ctx := context.Background()
	repo := catalog.New(pool)

	err := repo.UpsertTypes(ctx, []domain.TCGType{
		{Identifier: "grass", Initial: "G", Name: "Grass"},
		{Identifier: "fire", Initial: "R", Name: "Fire"},
		{Identifier: "water", Initial: "W", Name: "Water"},
		{Identifier: "lightning", Initial: "L", Name: "Lightning"},
		{Identifier: "psychic", Initial: "P", Name: "Psychic"},
		{Identifier: "fighting", Initial: "F", Name: "Fighting"},
		{Identifier: "colorless", Initial: "C", Name: "Colorless"},
	})
	if err != nil {
		t.Fatalf("seed types: %v", err)
	}

	err = repo.UpsertClasses(ctx, []domain.Class{
		{Identifier: "pokemon", Name: "Pokémon"},
		{Identifier: "trainer", Name: "Trainer"},
		{Identifier: "energy", Name: "Energy"},
	})
	if err != nil {
		t.Fatalf("seed classes: %v", err)
	}

	err = repo.UpsertStages(ctx, []domain.Stage{
		{Identifier: "basic", Name: "Basic"},
		{Identifier: "stage-1", Name: "Stage 1"},
		{Identifier: "stage-2", Name: "Stage 2"},
	})
	if err != nil {
		t.Fatalf("seed stages: %v", err)
	}

	err = repo.UpsertRarities(ctx, []domain.Rarity{
		{Identifier: "common", Name: "Common", Symbol: "●"},
		{Identifier: "uncommon", Name: "Uncommon", Symbol: "◆"},
		{Identifier: "rare", Name: "Rare", Symbol: "★"},
	})
	if err != nil {
		t.Fatalf("seed rarities: %v", err)
	}

	err = repo.UpsertMechanicClasses(ctx, []domain.MechanicClass{
		{Identifier: "attack", Name: "Attack"},
		{Identifier: "poke-power", Name: "Poké-Power"},
		{Identifier: "poke-body", Name: "Poké-Body"},
		{Identifier: "rule", Name: "Rule"},
	})
	if err != nil {
		t.Fatalf("seed mechanic classes: %v", err)
	}

	err = repo.UpsertSpecies(ctx, []domain.Species{
		{ID: 25, Name: "Pikachu", Genus: "Mouse"},
		{ID: 26, Name: "Raichu", Genus: "Mouse"},
		{ID: 129, Name: "Magikarp", Genus: "Fish"},
	})
	if err != nil {
		t.Fatalf("seed species: %v", err)
	}

	return repo
}
