// Package catalog implements catalog persistence using PostgreSQL: the
// closed catalogs loaded out of band and the open ones the importer
// creates on first sight.
package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/encukou/ptcgdex/internal/adapter/postgres"
	"github.com/encukou/ptcgdex/internal/domain"
)

// Repo provides catalog persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Closed catalogs: lookups only
// ---------------------------------------------------------------------------

const typeByInitialSQL = `
SELECT id, identifier, initial, name FROM tcg_types WHERE initial = $1`

const typeByNameSQL = `
SELECT id, identifier, initial, name FROM tcg_types WHERE name = $1`

// TypeByInitial resolves an energy type by its cost-string initial.
func (r *Repo) TypeByInitial(ctx context.Context, initial string) (domain.TCGType, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	var t domain.TCGType
	err := q.QueryRow(ctx, typeByInitialSQL, initial).Scan(&t.ID, &t.Identifier, &t.Initial, &t.Name)
	if err != nil {
		return domain.TCGType{}, postgres.MapError(err, "type initial", initial)
	}
	return t, nil
}

// TypeByName resolves an energy type by display name.
func (r *Repo) TypeByName(ctx context.Context, name string) (domain.TCGType, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	var t domain.TCGType
	err := q.QueryRow(ctx, typeByNameSQL, name).Scan(&t.ID, &t.Identifier, &t.Initial, &t.Name)
	if err != nil {
		return domain.TCGType{}, postgres.MapError(err, "type", name)
	}
	return t, nil
}

const classByIdentifierSQL = `
SELECT id, identifier, name FROM tcg_classes WHERE identifier = $1`

// ClassByIdentifier resolves a card class.
func (r *Repo) ClassByIdentifier(ctx context.Context, identifier string) (domain.Class, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	var c domain.Class
	err := q.QueryRow(ctx, classByIdentifierSQL, identifier).Scan(&c.ID, &c.Identifier, &c.Name)
	if err != nil {
		return domain.Class{}, postgres.MapError(err, "class", identifier)
	}
	return c, nil
}

const stageByNameSQL = `
SELECT id, identifier, name FROM tcg_stages WHERE name = $1`

// StageByName resolves an evolution stage by display name.
func (r *Repo) StageByName(ctx context.Context, name string) (domain.Stage, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	var s domain.Stage
	err := q.QueryRow(ctx, stageByNameSQL, name).Scan(&s.ID, &s.Identifier, &s.Name)
	if err != nil {
		return domain.Stage{}, postgres.MapError(err, "stage", name)
	}
	return s, nil
}

const rarityByIdentifierSQL = `
SELECT id, identifier, name, symbol FROM tcg_rarities WHERE identifier = $1`

// RarityByIdentifier resolves a rarity.
func (r *Repo) RarityByIdentifier(ctx context.Context, identifier string) (domain.Rarity, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	var rar domain.Rarity
	err := q.QueryRow(ctx, rarityByIdentifierSQL, identifier).Scan(&rar.ID, &rar.Identifier, &rar.Name, &rar.Symbol)
	if err != nil {
		return domain.Rarity{}, postgres.MapError(err, "rarity", identifier)
	}
	return rar, nil
}

const mechanicClassByIdentifierSQL = `
SELECT id, identifier, name FROM tcg_mechanic_classes WHERE identifier = $1`

// MechanicClassByIdentifier resolves a mechanic class.
func (r *Repo) MechanicClassByIdentifier(ctx context.Context, identifier string) (domain.MechanicClass, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	var mc domain.MechanicClass
	err := q.QueryRow(ctx, mechanicClassByIdentifierSQL, identifier).Scan(&mc.ID, &mc.Identifier, &mc.Name)
	if err != nil {
		return domain.MechanicClass{}, postgres.MapError(err, "mechanic class", identifier)
	}
	return mc, nil
}

const speciesByIDSQL = `
SELECT id, name, genus FROM tcg_species WHERE id = $1`

// SpeciesByID resolves a species by national dex number.
func (r *Repo) SpeciesByID(ctx context.Context, id int) (domain.Species, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	var sp domain.Species
	err := q.QueryRow(ctx, speciesByIDSQL, id).Scan(&sp.ID, &sp.Name, &sp.Genus)
	if err != nil {
		return domain.Species{}, postgres.MapError(err, "species", fmt.Sprint(id))
	}
	return sp, nil
}

// ---------------------------------------------------------------------------
// Open catalogs: lookup plus create
// ---------------------------------------------------------------------------

const familyByIdentifierSQL = `
SELECT id, identifier, name FROM tcg_card_families WHERE identifier = $1`

const createFamilySQL = `
INSERT INTO tcg_card_families (identifier, name) VALUES ($1, $2)
RETURNING id`

// FamilyByIdentifier resolves a card family.
func (r *Repo) FamilyByIdentifier(ctx context.Context, identifier string) (domain.CardFamily, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	var f domain.CardFamily
	err := q.QueryRow(ctx, familyByIdentifierSQL, identifier).Scan(&f.ID, &f.Identifier, &f.Name)
	if err != nil {
		return domain.CardFamily{}, postgres.MapError(err, "family", identifier)
	}
	return f, nil
}

// CreateFamily inserts a new card family.
func (r *Repo) CreateFamily(ctx context.Context, family domain.CardFamily) (domain.CardFamily, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	err := q.QueryRow(ctx, createFamilySQL, family.Identifier, family.Name).Scan(&family.ID)
	if err != nil {
		return domain.CardFamily{}, postgres.MapError(err, "family", family.Identifier)
	}
	return family, nil
}

const subclassByIdentifierSQL = `
SELECT id, identifier, name FROM tcg_subclasses WHERE identifier = $1`

const createSubclassSQL = `
INSERT INTO tcg_subclasses (identifier, name) VALUES ($1, $2)
RETURNING id`

// SubclassByIdentifier resolves a subclass.
func (r *Repo) SubclassByIdentifier(ctx context.Context, identifier string) (domain.Subclass, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	var s domain.Subclass
	err := q.QueryRow(ctx, subclassByIdentifierSQL, identifier).Scan(&s.ID, &s.Identifier, &s.Name)
	if err != nil {
		return domain.Subclass{}, postgres.MapError(err, "subclass", identifier)
	}
	return s, nil
}

// CreateSubclass inserts a new subclass.
func (r *Repo) CreateSubclass(ctx context.Context, subclass domain.Subclass) (domain.Subclass, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	err := q.QueryRow(ctx, createSubclassSQL, subclass.Identifier, subclass.Name).Scan(&subclass.ID)
	if err != nil {
		return domain.Subclass{}, postgres.MapError(err, "subclass", subclass.Identifier)
	}
	return subclass, nil
}

const illustratorByIdentifierSQL = `
SELECT id, identifier, name FROM tcg_illustrators WHERE identifier = $1`

const createIllustratorSQL = `
INSERT INTO tcg_illustrators (identifier, name) VALUES ($1, $2)
RETURNING id`

// IllustratorByIdentifier resolves an illustrator.
func (r *Repo) IllustratorByIdentifier(ctx context.Context, identifier string) (domain.Illustrator, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	var ill domain.Illustrator
	err := q.QueryRow(ctx, illustratorByIdentifierSQL, identifier).Scan(&ill.ID, &ill.Identifier, &ill.Name)
	if err != nil {
		return domain.Illustrator{}, postgres.MapError(err, "illustrator", identifier)
	}
	return ill, nil
}

// CreateIllustrator inserts a new illustrator.
func (r *Repo) CreateIllustrator(ctx context.Context, ill domain.Illustrator) (domain.Illustrator, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	err := q.QueryRow(ctx, createIllustratorSQL, ill.Identifier, ill.Name).Scan(&ill.ID)
	if err != nil {
		return domain.Illustrator{}, postgres.MapError(err, "illustrator", ill.Identifier)
	}
	return ill, nil
}

// ---------------------------------------------------------------------------
// Sets
// ---------------------------------------------------------------------------

const setByIdentifierSQL = `
SELECT id, identifier, name, total, release_date, ban_date
FROM tcg_sets WHERE identifier = $1`

const upsertSetSQL = `
INSERT INTO tcg_sets (identifier, name, total, release_date, ban_date)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (identifier) DO UPDATE
SET name = EXCLUDED.name, total = EXCLUDED.total,
    release_date = EXCLUDED.release_date, ban_date = EXCLUDED.ban_date
RETURNING id`

const listSetsSQL = `
SELECT id, identifier, name, total, release_date, ban_date
FROM tcg_sets ORDER BY release_date NULLS LAST, identifier`

// SetByIdentifier resolves a set.
func (r *Repo) SetByIdentifier(ctx context.Context, identifier string) (domain.Set, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	var s domain.Set
	err := q.QueryRow(ctx, setByIdentifierSQL, identifier).
		Scan(&s.ID, &s.Identifier, &s.Name, &s.Total, &s.ReleaseDate, &s.BanDate)
	if err != nil {
		return domain.Set{}, postgres.MapError(err, "set", identifier)
	}
	return s, nil
}

// UpsertSet inserts a set or refreshes its metadata.
func (r *Repo) UpsertSet(ctx context.Context, set domain.Set) (domain.Set, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	err := q.QueryRow(ctx, upsertSetSQL,
		set.Identifier, set.Name, set.Total, set.ReleaseDate, set.BanDate).Scan(&set.ID)
	if err != nil {
		return domain.Set{}, postgres.MapError(err, "set", set.Identifier)
	}
	return set, nil
}

// ListSets returns all sets in release order.
func (r *Repo) ListSets(ctx context.Context) ([]domain.Set, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, listSetsSQL)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	defer rows.Close()

	var out []domain.Set
	for rows.Next() {
		var s domain.Set
		if err := rows.Scan(&s.ID, &s.Identifier, &s.Name, &s.Total, &s.ReleaseDate, &s.BanDate); err != nil {
			return nil, fmt.Errorf("scan set: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
