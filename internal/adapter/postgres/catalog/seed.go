package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	postgres "github.com/encukou/ptcgdex/internal/adapter/postgres"
	"github.com/encukou/ptcgdex/internal/domain"
)

// Bulk upserts for the closed catalogs, used by the catalog loader. Each
// call is one pgx batch round trip.

const upsertTypeSQL = `
INSERT INTO tcg_types (identifier, initial, name) VALUES ($1, $2, $3)
ON CONFLICT (identifier) DO UPDATE SET initial = EXCLUDED.initial, name = EXCLUDED.name`

const upsertClassSQL = `
INSERT INTO tcg_classes (identifier, name) VALUES ($1, $2)
ON CONFLICT (identifier) DO UPDATE SET name = EXCLUDED.name`

const upsertStageSQL = `
INSERT INTO tcg_stages (identifier, name) VALUES ($1, $2)
ON CONFLICT (identifier) DO UPDATE SET name = EXCLUDED.name`

const upsertRaritySQL = `
INSERT INTO tcg_rarities (identifier, name, symbol) VALUES ($1, $2, $3)
ON CONFLICT (identifier) DO UPDATE SET name = EXCLUDED.name, symbol = EXCLUDED.symbol`

const upsertMechanicClassSQL = `
INSERT INTO tcg_mechanic_classes (identifier, name) VALUES ($1, $2)
ON CONFLICT (identifier) DO UPDATE SET name = EXCLUDED.name`

const upsertSpeciesSQL = `
INSERT INTO tcg_species (id, name, genus) VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, genus = EXCLUDED.genus`

// UpsertTypes loads or refreshes energy types.
func (r *Repo) UpsertTypes(ctx context.Context, types []domain.TCGType) error {
	batch := &pgx.Batch{}
	for _, t := range types {
		batch.Queue(upsertTypeSQL, t.Identifier, t.Initial, t.Name)
	}
	return r.sendBatch(ctx, batch, "types")
}

// UpsertClasses loads or refreshes card classes.
func (r *Repo) UpsertClasses(ctx context.Context, classes []domain.Class) error {
	batch := &pgx.Batch{}
	for _, c := range classes {
		batch.Queue(upsertClassSQL, c.Identifier, c.Name)
	}
	return r.sendBatch(ctx, batch, "classes")
}

// UpsertStages loads or refreshes evolution stages.
func (r *Repo) UpsertStages(ctx context.Context, stages []domain.Stage) error {
	batch := &pgx.Batch{}
	for _, s := range stages {
		batch.Queue(upsertStageSQL, s.Identifier, s.Name)
	}
	return r.sendBatch(ctx, batch, "stages")
}

// UpsertRarities loads or refreshes rarities.
func (r *Repo) UpsertRarities(ctx context.Context, rarities []domain.Rarity) error {
	batch := &pgx.Batch{}
	for _, rar := range rarities {
		batch.Queue(upsertRaritySQL, rar.Identifier, rar.Name, rar.Symbol)
	}
	return r.sendBatch(ctx, batch, "rarities")
}

// UpsertMechanicClasses loads or refreshes mechanic classes.
func (r *Repo) UpsertMechanicClasses(ctx context.Context, classes []domain.MechanicClass) error {
	batch := &pgx.Batch{}
	for _, mc := range classes {
		batch.Queue(upsertMechanicClassSQL, mc.Identifier, mc.Name)
	}
	return r.sendBatch(ctx, batch, "mechanic classes")
}

// UpsertSpecies loads or refreshes species.
func (r *Repo) UpsertSpecies(ctx context.Context, species []domain.Species) error {
	batch := &pgx.Batch{}
	for _, sp := range species {
		batch.Queue(upsertSpeciesSQL, sp.ID, sp.Name, sp.Genus)
	}
	return r.sendBatch(ctx, batch, "species")
}

func (r *Repo) sendBatch(ctx context.Context, batch *pgx.Batch, what string) error {
	if batch.Len() == 0 {
		return nil
	}
	q := postgres.QuerierFromCtx(ctx, r.pool)
	results := q.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert %s: %w", what, err)
		}
	}
	return nil
}
