// Package importer is the entity-resolution engine: it decomposes card
// records, reuses or creates normalized entities, and assembles prints.
package importer

import (
	"context"

	"github.com/google/uuid"

	"github.com/encukou/ptcgdex/internal/domain"
)

// CatalogStore resolves catalog entities. Closed catalogs (types, classes,
// stages, rarities, mechanic classes, species) only have lookups and
// return domain.ErrNotFound on a miss; open catalogs (families, subclasses,
// illustrators) also support creation.
type CatalogStore interface {
	TypeByInitial(ctx context.Context, initial string) (domain.TCGType, error)
	TypeByName(ctx context.Context, name string) (domain.TCGType, error)
	ClassByIdentifier(ctx context.Context, identifier string) (domain.Class, error)
	StageByName(ctx context.Context, name string) (domain.Stage, error)
	RarityByIdentifier(ctx context.Context, identifier string) (domain.Rarity, error)
	MechanicClassByIdentifier(ctx context.Context, identifier string) (domain.MechanicClass, error)
	SpeciesByID(ctx context.Context, id int) (domain.Species, error)

	FamilyByIdentifier(ctx context.Context, identifier string) (domain.CardFamily, error)
	CreateFamily(ctx context.Context, family domain.CardFamily) (domain.CardFamily, error)
	SubclassByIdentifier(ctx context.Context, identifier string) (domain.Subclass, error)
	CreateSubclass(ctx context.Context, subclass domain.Subclass) (domain.Subclass, error)
	IllustratorByIdentifier(ctx context.Context, identifier string) (domain.Illustrator, error)
	CreateIllustrator(ctx context.Context, illustrator domain.Illustrator) (domain.Illustrator, error)

	SetByIdentifier(ctx context.Context, identifier string) (domain.Set, error)
	UpsertSet(ctx context.Context, set domain.Set) (domain.Set, error)
}

// CardStore reads and writes cards and mechanics. Find results come back
// fully hydrated in a stable order (cards by creation time, mechanics by
// primary key) so first-match-wins is deterministic.
type CardStore interface {
	FindCards(ctx context.Context, filter domain.CardFilter) ([]*domain.Card, error)
	CreateCard(ctx context.Context, card *domain.Card) (*domain.Card, error)
	FindMechanics(ctx context.Context, filter domain.MechanicFilter) ([]*domain.Mechanic, error)
	CreateMechanic(ctx context.Context, mechanic *domain.Mechanic) (*domain.Mechanic, error)
}

// PrintStore reads and writes prints. FindSetPrint looks up by the natural
// key (set, number, order) and returns the print fully hydrated;
// DeletePrint removes the print together with its exclusive children.
type PrintStore interface {
	FindSetPrint(ctx context.Context, setID uuid.UUID, number string, order int) (*domain.Print, error)
	CreatePrint(ctx context.Context, print *domain.Print) (*domain.Print, error)
	DeletePrint(ctx context.Context, id uuid.UUID) error
}

// TxRunner scopes a function to one storage transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store is everything the import pipeline needs from storage.
type Store interface {
	CatalogStore
	CardStore
	PrintStore
}
