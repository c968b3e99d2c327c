// Package card implements card and mechanic persistence using PostgreSQL.
// The discriminator queries are built with squirrel because nullable
// discriminators (stage, hp, retreat) need IS NULL instead of equality.
package card

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/encukou/ptcgdex/internal/adapter/postgres"
	"github.com/encukou/ptcgdex/internal/domain"
)

// Repo provides card persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new card repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ---------------------------------------------------------------------------
// Cards
// ---------------------------------------------------------------------------

// FindCards runs the discriminator query and returns fully hydrated
// candidates in creation order, so first-match-wins is deterministic.
func (r *Repo) FindCards(ctx context.Context, filter domain.CardFilter) ([]*domain.Card, error) {
	eq := sq.Eq{
		"c.family_id": filter.FamilyID,
		"c.class_id":  filter.ClassID,
	}
	// squirrel renders nil as IS NULL, which is exactly the discriminator
	// semantics for nullable fields.
	if filter.StageID != nil {
		eq["c.stage_id"] = *filter.StageID
	} else {
		eq["c.stage_id"] = nil
	}
	if filter.HP != nil {
		eq["c.hp"] = *filter.HP
	} else {
		eq["c.hp"] = nil
	}
	if filter.RetreatCost != nil {
		eq["c.retreat_cost"] = *filter.RetreatCost
	} else {
		eq["c.retreat_cost"] = nil
	}

	query, args, err := psql.
		Select("c.id", "c.hp", "c.retreat_cost", "c.legal", "c.created_at",
			"f.id", "f.identifier", "f.name",
			"cl.id", "cl.identifier", "cl.name",
			"s.id", "s.identifier", "s.name").
		From("tcg_cards c").
		Join("tcg_card_families f ON f.id = c.family_id").
		Join("tcg_classes cl ON cl.id = c.class_id").
		LeftJoin("tcg_stages s ON s.id = c.stage_id").
		Where(eq).
		OrderBy("c.created_at", "c.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build card query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find cards: %w", err)
	}
	defer rows.Close()

	var cards []*domain.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find cards: %w", err)
	}

	for _, c := range cards {
		if err := r.hydrateCard(ctx, c); err != nil {
			return nil, err
		}
	}
	return cards, nil
}

const getCardSQL = `
SELECT c.id, c.hp, c.retreat_cost, c.legal, c.created_at,
       f.id, f.identifier, f.name,
       cl.id, cl.identifier, cl.name,
       s.id, s.identifier, s.name
FROM tcg_cards c
JOIN tcg_card_families f ON f.id = c.family_id
JOIN tcg_classes cl ON cl.id = c.class_id
LEFT JOIN tcg_stages s ON s.id = c.stage_id
WHERE c.id = $1`

// GetByID returns one fully hydrated card.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	c, err := scanCard(q.QueryRow(ctx, getCardSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "card", id.String())
	}
	if err := r.hydrateCard(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func scanCard(row pgx.Row) (*domain.Card, error) {
	var c domain.Card
	var stageID *uuid.UUID
	var stageIdent, stageName *string
	err := row.Scan(&c.ID, &c.HP, &c.RetreatCost, &c.Legal, &c.CreatedAt,
		&c.Family.ID, &c.Family.Identifier, &c.Family.Name,
		&c.Class.ID, &c.Class.Identifier, &c.Class.Name,
		&stageID, &stageIdent, &stageName)
	if err != nil {
		return nil, err
	}
	if stageID != nil {
		c.Stage = &domain.Stage{ID: *stageID, Identifier: *stageIdent, Name: *stageName}
	}
	return &c, nil
}

const createCardSQL = `
INSERT INTO tcg_cards (family_id, class_id, stage_id, hp, retreat_cost, legal)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at`

const insertCardTypeSQL = `
INSERT INTO tcg_card_types (card_id, type_id, ord) VALUES ($1, $2, $3)`

const insertCardSubclassSQL = `
INSERT INTO tcg_card_subclasses (card_id, subclass_id, ord) VALUES ($1, $2, $3)`

const insertCardMechanicSQL = `
INSERT INTO tcg_card_mechanics (card_id, mechanic_id, ord) VALUES ($1, $2, $3)`

const insertDamageModifierSQL = `
INSERT INTO tcg_damage_modifiers (card_id, type_id, operation, amount, ord)
VALUES ($1, $2, $3, $4, $5)`

const insertEvolutionSQL = `
INSERT INTO tcg_evolutions (card_id, family_id, family_to_card, ord)
VALUES ($1, $2, $3, $4)`

// CreateCard inserts a card with all of its child links. Mechanics must
// already be persisted; only the ordered links are written here.
func (r *Repo) CreateCard(ctx context.Context, card *domain.Card) (*domain.Card, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var stageID *uuid.UUID
	if card.Stage != nil {
		stageID = &card.Stage.ID
	}
	err := q.QueryRow(ctx, createCardSQL,
		card.Family.ID, card.Class.ID, stageID, card.HP, card.RetreatCost, card.Legal).
		Scan(&card.ID, &card.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "card", card.Family.Identifier)
	}

	batch := &pgx.Batch{}
	for i, t := range card.Types {
		batch.Queue(insertCardTypeSQL, card.ID, t.ID, i)
	}
	for i, s := range card.Subclasses {
		batch.Queue(insertCardSubclassSQL, card.ID, s.ID, i)
	}
	for i, m := range card.Mechanics {
		batch.Queue(insertCardMechanicSQL, card.ID, m.ID, i)
	}
	for _, d := range card.Modifiers {
		batch.Queue(insertDamageModifierSQL, card.ID, d.Type.ID, d.Operation, d.Amount, d.Order)
	}
	for _, e := range card.Evolutions {
		batch.Queue(insertEvolutionSQL, card.ID, e.Family.ID, e.FamilyToCard, e.Order)
	}
	if err := sendBatch(ctx, q, batch); err != nil {
		return nil, fmt.Errorf("card %s children: %w", card.Family.Identifier, err)
	}
	return card, nil
}

func sendBatch(ctx context.Context, q postgres.Querier, batch *pgx.Batch) error {
	if batch.Len() == 0 {
		return nil
	}
	results := q.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Card hydration
// ---------------------------------------------------------------------------

const cardTypesSQL = `
SELECT t.id, t.identifier, t.initial, t.name
FROM tcg_card_types ct
JOIN tcg_types t ON t.id = ct.type_id
WHERE ct.card_id = $1
ORDER BY ct.ord`

const cardSubclassesSQL = `
SELECT s.id, s.identifier, s.name
FROM tcg_card_subclasses cs
JOIN tcg_subclasses s ON s.id = cs.subclass_id
WHERE cs.card_id = $1
ORDER BY cs.ord`

const cardMechanicsSQL = `
SELECT m.id, m.name, m.effect, m.damage_base, m.damage_modifier,
       mc.id, mc.identifier, mc.name
FROM tcg_card_mechanics cm
JOIN tcg_mechanics m ON m.id = cm.mechanic_id
JOIN tcg_mechanic_classes mc ON mc.id = m.class_id
WHERE cm.card_id = $1
ORDER BY cm.ord`

const cardModifiersSQL = `
SELECT t.id, t.identifier, t.initial, t.name, d.operation, d.amount, d.ord
FROM tcg_damage_modifiers d
JOIN tcg_types t ON t.id = d.type_id
WHERE d.card_id = $1
ORDER BY d.ord`

const cardEvolutionsSQL = `
SELECT f.id, f.identifier, f.name, e.family_to_card, e.ord
FROM tcg_evolutions e
JOIN tcg_card_families f ON f.id = e.family_id
WHERE e.card_id = $1
ORDER BY e.ord`

func (r *Repo) hydrateCard(ctx context.Context, c *domain.Card) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, cardTypesSQL, c.ID)
	if err != nil {
		return fmt.Errorf("card types: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t domain.TCGType
		if err := rows.Scan(&t.ID, &t.Identifier, &t.Initial, &t.Name); err != nil {
			return fmt.Errorf("scan card type: %w", err)
		}
		c.Types = append(c.Types, t)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = q.Query(ctx, cardSubclassesSQL, c.ID)
	if err != nil {
		return fmt.Errorf("card subclasses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s domain.Subclass
		if err := rows.Scan(&s.ID, &s.Identifier, &s.Name); err != nil {
			return fmt.Errorf("scan card subclass: %w", err)
		}
		c.Subclasses = append(c.Subclasses, s)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = q.Query(ctx, cardMechanicsSQL, c.ID)
	if err != nil {
		return fmt.Errorf("card mechanics: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m domain.Mechanic
		if err := rows.Scan(&m.ID, &m.Name, &m.Effect, &m.DamageBase, &m.DamageModifier,
			&m.Class.ID, &m.Class.Identifier, &m.Class.Name); err != nil {
			return fmt.Errorf("scan card mechanic: %w", err)
		}
		c.Mechanics = append(c.Mechanics, m)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for i := range c.Mechanics {
		if err := r.hydrateMechanicCosts(ctx, &c.Mechanics[i]); err != nil {
			return err
		}
	}

	rows, err = q.Query(ctx, cardModifiersSQL, c.ID)
	if err != nil {
		return fmt.Errorf("card modifiers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d domain.DamageModifier
		if err := rows.Scan(&d.Type.ID, &d.Type.Identifier, &d.Type.Initial, &d.Type.Name,
			&d.Operation, &d.Amount, &d.Order); err != nil {
			return fmt.Errorf("scan damage modifier: %w", err)
		}
		c.Modifiers = append(c.Modifiers, d)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = q.Query(ctx, cardEvolutionsSQL, c.ID)
	if err != nil {
		return fmt.Errorf("card evolutions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e domain.Evolution
		if err := rows.Scan(&e.Family.ID, &e.Family.Identifier, &e.Family.Name,
			&e.FamilyToCard, &e.Order); err != nil {
			return fmt.Errorf("scan evolution: %w", err)
		}
		c.Evolutions = append(c.Evolutions, e)
	}
	return rows.Err()
}

// ---------------------------------------------------------------------------
// Mechanics
// ---------------------------------------------------------------------------

// FindMechanics runs the mechanic discriminator query and returns hydrated
// candidates.
func (r *Repo) FindMechanics(ctx context.Context, filter domain.MechanicFilter) ([]*domain.Mechanic, error) {
	eq := sq.Eq{"m.class_id": filter.ClassID}
	if filter.Name != nil {
		eq["m.name"] = *filter.Name
	} else {
		eq["m.name"] = nil
	}
	if filter.Effect != nil {
		eq["m.effect"] = *filter.Effect
	} else {
		eq["m.effect"] = nil
	}

	query, args, err := psql.
		Select("m.id", "m.name", "m.effect", "m.damage_base", "m.damage_modifier",
			"mc.id", "mc.identifier", "mc.name").
		From("tcg_mechanics m").
		Join("tcg_mechanic_classes mc ON mc.id = m.class_id").
		Where(eq).
		OrderBy("m.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build mechanic query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find mechanics: %w", err)
	}
	defer rows.Close()

	var out []*domain.Mechanic
	for rows.Next() {
		var m domain.Mechanic
		if err := rows.Scan(&m.ID, &m.Name, &m.Effect, &m.DamageBase, &m.DamageModifier,
			&m.Class.ID, &m.Class.Identifier, &m.Class.Name); err != nil {
			return nil, fmt.Errorf("scan mechanic: %w", err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find mechanics: %w", err)
	}

	for _, m := range out {
		if err := r.hydrateMechanicCosts(ctx, m); err != nil {
			return nil, err
		}
	}
	return out, nil
}

const createMechanicSQL = `
INSERT INTO tcg_mechanics (class_id, name, effect, damage_base, damage_modifier)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

const insertMechanicCostSQL = `
INSERT INTO tcg_mechanic_costs (mechanic_id, type_id, amount, ord)
VALUES ($1, $2, $3, $4)`

// CreateMechanic inserts a mechanic with its ordered cost rows.
func (r *Repo) CreateMechanic(ctx context.Context, m *domain.Mechanic) (*domain.Mechanic, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	err := q.QueryRow(ctx, createMechanicSQL,
		m.Class.ID, m.Name, m.Effect, m.DamageBase, m.DamageModifier).Scan(&m.ID)
	if err != nil {
		return nil, postgres.MapError(err, "mechanic", m.Class.Identifier)
	}

	batch := &pgx.Batch{}
	for _, c := range m.Costs {
		batch.Queue(insertMechanicCostSQL, m.ID, c.Type.ID, c.Amount, c.Order)
	}
	if err := sendBatch(ctx, q, batch); err != nil {
		return nil, fmt.Errorf("mechanic costs: %w", err)
	}
	return m, nil
}

const mechanicCostsSQL = `
SELECT t.id, t.identifier, t.initial, t.name, c.amount, c.ord
FROM tcg_mechanic_costs c
JOIN tcg_types t ON t.id = c.type_id
WHERE c.mechanic_id = $1
ORDER BY c.ord`

func (r *Repo) hydrateMechanicCosts(ctx context.Context, m *domain.Mechanic) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, mechanicCostsSQL, m.ID)
	if err != nil {
		return fmt.Errorf("mechanic costs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c domain.MechanicCost
		if err := rows.Scan(&c.Type.ID, &c.Type.Identifier, &c.Type.Initial, &c.Type.Name,
			&c.Amount, &c.Order); err != nil {
			return fmt.Errorf("scan mechanic cost: %w", err)
		}
		m.Costs = append(m.Costs, c)
	}
	return rows.Err()
}
