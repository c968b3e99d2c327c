// Package print implements print persistence using PostgreSQL. A print's
// exclusive children (illustrator links, scans, flavor, set membership)
// cascade on delete, which is what replace-on-conflict relies on.
package print

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/encukou/ptcgdex/internal/adapter/postgres"
	"github.com/encukou/ptcgdex/internal/adapter/postgres/card"
	"github.com/encukou/ptcgdex/internal/domain"
)

// Repo provides print persistence backed by PostgreSQL. Card hydration is
// delegated to the card repository.
type Repo struct {
	pool  *pgxpool.Pool
	cards *card.Repo
}

// New creates a new print repository.
func New(pool *pgxpool.Pool, cards *card.Repo) *Repo {
	return &Repo{pool: pool, cards: cards}
}

const setPrintSQL = `
SELECT p.id, p.card_id, p.holographic,
       r.id, r.identifier, r.name, r.symbol,
       s.id, s.identifier, s.name, s.total, s.release_date, s.ban_date,
       sp.number, sp.ord
FROM tcg_set_prints sp
JOIN tcg_prints p ON p.id = sp.print_id
LEFT JOIN tcg_rarities r ON r.id = p.rarity_id
JOIN tcg_sets s ON s.id = sp.set_id
WHERE sp.set_id = $1 AND sp.number = $2 AND sp.ord = $3`

// FindSetPrint looks a print up by its natural key and returns it fully
// hydrated.
func (r *Repo) FindSetPrint(ctx context.Context, setID uuid.UUID, number string, order int) (*domain.Print, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	p, cardID, err := scanPrint(q.QueryRow(ctx, setPrintSQL, setID, number, order))
	if err != nil {
		return nil, postgres.MapError(err, "set print", fmt.Sprintf("%s/%s", setID, number))
	}
	if err := r.hydrate(ctx, p, cardID); err != nil {
		return nil, err
	}
	return p, nil
}

// ListSetPrints returns every print of a set, numerically where numbers
// are numeric, for set export.
func (r *Repo) ListSetPrints(ctx context.Context, setID uuid.UUID) ([]*domain.Print, error) {
	const listSQL = `
SELECT p.id, p.card_id, p.holographic,
       r.id, r.identifier, r.name, r.symbol,
       s.id, s.identifier, s.name, s.total, s.release_date, s.ban_date,
       sp.number, sp.ord
FROM tcg_set_prints sp
JOIN tcg_prints p ON p.id = sp.print_id
LEFT JOIN tcg_rarities r ON r.id = p.rarity_id
JOIN tcg_sets s ON s.id = sp.set_id
WHERE sp.set_id = $1
ORDER BY length(sp.number), sp.number, sp.ord`

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, listSQL, setID)
	if err != nil {
		return nil, fmt.Errorf("list set prints: %w", err)
	}
	defer rows.Close()

	var prints []*domain.Print
	var cardIDs []uuid.UUID
	for rows.Next() {
		p, cardID, err := scanPrint(rows)
		if err != nil {
			return nil, fmt.Errorf("scan set print: %w", err)
		}
		prints = append(prints, p)
		cardIDs = append(cardIDs, cardID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list set prints: %w", err)
	}

	for i, p := range prints {
		if err := r.hydrate(ctx, p, cardIDs[i]); err != nil {
			return nil, err
		}
	}
	return prints, nil
}

const familyPrintsSQL = `
SELECT p.id, p.card_id, p.holographic,
       r.id, r.identifier, r.name, r.symbol,
       s.id, s.identifier, s.name, s.total, s.release_date, s.ban_date,
       sp.number, sp.ord
FROM tcg_prints p
JOIN tcg_cards c ON c.id = p.card_id
LEFT JOIN tcg_rarities r ON r.id = p.rarity_id
LEFT JOIN tcg_set_prints sp ON sp.print_id = p.id
LEFT JOIN tcg_sets s ON s.id = sp.set_id
WHERE c.family_id = $1
ORDER BY s.release_date NULLS LAST, length(sp.number), sp.number, sp.ord`

// ListFamilyPrints returns every print of a card family in release order,
// for card export. Prints outside any set sort last.
func (r *Repo) ListFamilyPrints(ctx context.Context, familyID uuid.UUID) ([]*domain.Print, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, familyPrintsSQL, familyID)
	if err != nil {
		return nil, fmt.Errorf("list family prints: %w", err)
	}
	defer rows.Close()

	var prints []*domain.Print
	var cardIDs []uuid.UUID
	for rows.Next() {
		p, cardID, err := scanFamilyPrint(rows)
		if err != nil {
			return nil, fmt.Errorf("scan family print: %w", err)
		}
		prints = append(prints, p)
		cardIDs = append(cardIDs, cardID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list family prints: %w", err)
	}

	for i, p := range prints {
		if err := r.hydrate(ctx, p, cardIDs[i]); err != nil {
			return nil, err
		}
	}
	return prints, nil
}

// scanFamilyPrint is scanPrint with nullable set membership.
func scanFamilyPrint(row pgx.Row) (*domain.Print, uuid.UUID, error) {
	var p domain.Print
	var cardID uuid.UUID
	var rarID *uuid.UUID
	var rarIdent, rarName, rarSymbol *string
	var setID *uuid.UUID
	var setIdent, setName, number *string
	var total, ord *int
	var releaseDate, banDate *time.Time
	err := row.Scan(&p.ID, &cardID, &p.Holographic,
		&rarID, &rarIdent, &rarName, &rarSymbol,
		&setID, &setIdent, &setName, &total, &releaseDate, &banDate,
		&number, &ord)
	if err != nil {
		return nil, uuid.Nil, err
	}
	if rarID != nil {
		p.Rarity = &domain.Rarity{ID: *rarID, Identifier: *rarIdent, Name: *rarName, Symbol: *rarSymbol}
	}
	if setID != nil {
		p.SetPrint = &domain.SetPrint{
			Set: domain.Set{
				ID: *setID, Identifier: *setIdent, Name: *setName,
				Total: total, ReleaseDate: releaseDate, BanDate: banDate,
			},
			Number: *number,
			Order:  *ord,
		}
	}
	return &p, cardID, nil
}

func scanPrint(row pgx.Row) (*domain.Print, uuid.UUID, error) {
	var p domain.Print
	var cardID uuid.UUID
	var rarID *uuid.UUID
	var rarIdent, rarName, rarSymbol *string
	sp := &domain.SetPrint{}
	err := row.Scan(&p.ID, &cardID, &p.Holographic,
		&rarID, &rarIdent, &rarName, &rarSymbol,
		&sp.Set.ID, &sp.Set.Identifier, &sp.Set.Name, &sp.Set.Total,
		&sp.Set.ReleaseDate, &sp.Set.BanDate,
		&sp.Number, &sp.Order)
	if err != nil {
		return nil, uuid.Nil, err
	}
	if rarID != nil {
		p.Rarity = &domain.Rarity{ID: *rarID, Identifier: *rarIdent, Name: *rarName, Symbol: *rarSymbol}
	}
	p.SetPrint = sp
	return &p, cardID, nil
}

const printIllustratorsSQL = `
SELECT i.id, i.identifier, i.name
FROM tcg_print_illustrators pi
JOIN tcg_illustrators i ON i.id = pi.illustrator_id
WHERE pi.print_id = $1
ORDER BY pi.ord`

const printScansSQL = `
SELECT filename, ord FROM tcg_scans WHERE print_id = $1 ORDER BY ord`

const printFlavorSQL = `
SELECT f.genus, f.weight, f.height, f.dex_entry,
       sp.id, sp.name, sp.genus
FROM tcg_pokemon_flavors f
LEFT JOIN tcg_species sp ON sp.id = f.species_id
WHERE f.print_id = $1`

func (r *Repo) hydrate(ctx context.Context, p *domain.Print, cardID uuid.UUID) error {
	var err error
	if p.Card, err = r.cards.GetByID(ctx, cardID); err != nil {
		return err
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, printIllustratorsSQL, p.ID)
	if err != nil {
		return fmt.Errorf("print illustrators: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ill domain.Illustrator
		if err := rows.Scan(&ill.ID, &ill.Identifier, &ill.Name); err != nil {
			return fmt.Errorf("scan print illustrator: %w", err)
		}
		p.Illustrators = append(p.Illustrators, ill)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = q.Query(ctx, printScansSQL, p.ID)
	if err != nil {
		return fmt.Errorf("print scans: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var scan domain.Scan
		if err := rows.Scan(&scan.Filename, &scan.Order); err != nil {
			return fmt.Errorf("scan print scan: %w", err)
		}
		p.Scans = append(p.Scans, scan)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var flavor domain.PokemonFlavor
	var spID *int
	var spName, spGenus *string
	err = q.QueryRow(ctx, printFlavorSQL, p.ID).
		Scan(&flavor.Genus, &flavor.Weight, &flavor.HeightInches, &flavor.DexEntry,
			&spID, &spName, &spGenus)
	switch {
	case err == nil:
		if spID != nil {
			flavor.Species = &domain.Species{ID: *spID, Name: *spName, Genus: *spGenus}
		}
		p.Flavor = &flavor
	case err == pgx.ErrNoRows:
	default:
		return fmt.Errorf("print flavor: %w", err)
	}
	return nil
}

const createPrintSQL = `
INSERT INTO tcg_prints (card_id, rarity_id, holographic)
VALUES ($1, $2, $3)
RETURNING id`

const insertPrintIllustratorSQL = `
INSERT INTO tcg_print_illustrators (print_id, illustrator_id, ord) VALUES ($1, $2, $3)`

const insertScanSQL = `
INSERT INTO tcg_scans (print_id, filename, ord) VALUES ($1, $2, $3)`

const insertFlavorSQL = `
INSERT INTO tcg_pokemon_flavors (print_id, species_id, genus, weight, height, dex_entry)
VALUES ($1, $2, $3, $4, $5, $6)`

const insertSetPrintSQL = `
INSERT INTO tcg_set_prints (set_id, print_id, number, ord) VALUES ($1, $2, $3, $4)`

// CreatePrint inserts a print with all of its exclusive children and, when
// set membership is present, the set join row.
func (r *Repo) CreatePrint(ctx context.Context, p *domain.Print) (*domain.Print, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var rarityID *uuid.UUID
	if p.Rarity != nil {
		rarityID = &p.Rarity.ID
	}
	err := q.QueryRow(ctx, createPrintSQL, p.Card.ID, rarityID, p.Holographic).Scan(&p.ID)
	if err != nil {
		return nil, postgres.MapError(err, "print", p.Card.Family.Identifier)
	}

	batch := &pgx.Batch{}
	for i, ill := range p.Illustrators {
		batch.Queue(insertPrintIllustratorSQL, p.ID, ill.ID, i)
	}
	for _, scan := range p.Scans {
		batch.Queue(insertScanSQL, p.ID, scan.Filename, scan.Order)
	}
	if f := p.Flavor; f != nil {
		var speciesID *int
		if f.Species != nil {
			speciesID = &f.Species.ID
		}
		batch.Queue(insertFlavorSQL, p.ID, speciesID, f.Genus, f.Weight, f.HeightInches, f.DexEntry)
	}
	if sp := p.SetPrint; sp != nil {
		batch.Queue(insertSetPrintSQL, sp.Set.ID, p.ID, sp.Number, sp.Order)
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return nil, fmt.Errorf("print children: %w", err)
		}
	}
	return p, nil
}

const deletePrintSQL = `DELETE FROM tcg_prints WHERE id = $1`

// DeletePrint removes a print; its exclusive children cascade.
func (r *Repo) DeletePrint(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	if _, err := q.Exec(ctx, deletePrintSQL, id); err != nil {
		return postgres.MapError(err, "print", id.String())
	}
	return nil
}
