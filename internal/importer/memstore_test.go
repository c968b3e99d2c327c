package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/encukou/ptcgdex/internal/domain"
)

// memStore is an in-memory Store for pipeline tests. Creation order stands
// in for created_at ordering.
type memStore struct {
	types        []domain.TCGType
	classes      []domain.Class
	stages       []domain.Stage
	rarities     []domain.Rarity
	mechClasses  []domain.MechanicClass
	species      []domain.Species
	families     []domain.CardFamily
	subclasses   []domain.Subclass
	illustrators []domain.Illustrator
	sets         []domain.Set
	cards        []*domain.Card
	mechanics    []*domain.Mechanic
	prints       []*domain.Print
	seq          int64
}

func newMemStore() *memStore {
	s := &memStore{}
	for _, t := range []struct{ ident, initial, name string }{
		{"grass", "G", "Grass"},
		{"fire", "R", "Fire"},
		{"water", "W", "Water"},
		{"lightning", "L", "Lightning"},
		{"psychic", "P", "Psychic"},
		{"fighting", "F", "Fighting"},
		{"colorless", "C", "Colorless"},
	} {
		s.types = append(s.types, domain.TCGType{ID: uuid.New(), Identifier: t.ident, Initial: t.initial, Name: t.name})
	}
	for _, c := range []struct{ ident, name string }{
		{"pokemon", "Pokémon"}, {"trainer", "Trainer"}, {"energy", "Energy"},
	} {
		s.classes = append(s.classes, domain.Class{ID: uuid.New(), Identifier: c.ident, Name: c.name})
	}
	for _, st := range []struct{ ident, name string }{
		{"basic", "Basic"}, {"stage-1", "Stage 1"}, {"stage-2", "Stage 2"},
	} {
		s.stages = append(s.stages, domain.Stage{ID: uuid.New(), Identifier: st.ident, Name: st.name})
	}
	for _, r := range []struct{ ident, name, symbol string }{
		{"common", "Common", "●"}, {"uncommon", "Uncommon", "◆"}, {"rare", "Rare", "★"},
	} {
		s.rarities = append(s.rarities, domain.Rarity{ID: uuid.New(), Identifier: r.ident, Name: r.name, Symbol: r.symbol})
	}
	for _, mc := range []struct{ ident, name string }{
		{"attack", "Attack"}, {"poke-power", "Poké-Power"}, {"poke-body", "Poké-Body"}, {"rule", "Rule"},
	} {
		s.mechClasses = append(s.mechClasses, domain.MechanicClass{ID: uuid.New(), Identifier: mc.ident, Name: mc.name})
	}
	s.species = []domain.Species{
		{ID: 25, Name: "Pikachu", Genus: "Mouse"},
		{ID: 26, Name: "Raichu", Genus: "Mouse"},
		{ID: 129, Name: "Magikarp", Genus: "Fish"},
	}
	return s
}

// RunInTx satisfies TxRunner; the fake has no transaction scope.
func (s *memStore) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (s *memStore) nextTime() time.Time {
	s.seq++
	return time.Unix(s.seq, 0)
}

func notFound(kind, key string) error {
	return fmt.Errorf("%s %q: %w", kind, key, domain.ErrNotFound)
}

func (s *memStore) TypeByInitial(_ context.Context, initial string) (domain.TCGType, error) {
	for _, t := range s.types {
		if t.Initial == initial {
			return t, nil
		}
	}
	return domain.TCGType{}, notFound("type initial", initial)
}

func (s *memStore) TypeByName(_ context.Context, name string) (domain.TCGType, error) {
	for _, t := range s.types {
		if t.Name == name {
			return t, nil
		}
	}
	return domain.TCGType{}, notFound("type", name)
}

func (s *memStore) ClassByIdentifier(_ context.Context, ident string) (domain.Class, error) {
	for _, c := range s.classes {
		if c.Identifier == ident {
			return c, nil
		}
	}
	return domain.Class{}, notFound("class", ident)
}

func (s *memStore) StageByName(_ context.Context, name string) (domain.Stage, error) {
	for _, st := range s.stages {
		if st.Name == name {
			return st, nil
		}
	}
	return domain.Stage{}, notFound("stage", name)
}

func (s *memStore) RarityByIdentifier(_ context.Context, ident string) (domain.Rarity, error) {
	for _, r := range s.rarities {
		if r.Identifier == ident {
			return r, nil
		}
	}
	return domain.Rarity{}, notFound("rarity", ident)
}

func (s *memStore) MechanicClassByIdentifier(_ context.Context, ident string) (domain.MechanicClass, error) {
	for _, mc := range s.mechClasses {
		if mc.Identifier == ident {
			return mc, nil
		}
	}
	return domain.MechanicClass{}, notFound("mechanic class", ident)
}

func (s *memStore) SpeciesByID(_ context.Context, id int) (domain.Species, error) {
	for _, sp := range s.species {
		if sp.ID == id {
			return sp, nil
		}
	}
	return domain.Species{}, notFound("species", fmt.Sprint(id))
}

func (s *memStore) FamilyByIdentifier(_ context.Context, ident string) (domain.CardFamily, error) {
	for _, f := range s.families {
		if f.Identifier == ident {
			return f, nil
		}
	}
	return domain.CardFamily{}, notFound("family", ident)
}

func (s *memStore) CreateFamily(_ context.Context, f domain.CardFamily) (domain.CardFamily, error) {
	f.ID = uuid.New()
	s.families = append(s.families, f)
	return f, nil
}

func (s *memStore) SubclassByIdentifier(_ context.Context, ident string) (domain.Subclass, error) {
	for _, sub := range s.subclasses {
		if sub.Identifier == ident {
			return sub, nil
		}
	}
	return domain.Subclass{}, notFound("subclass", ident)
}

func (s *memStore) CreateSubclass(_ context.Context, sub domain.Subclass) (domain.Subclass, error) {
	sub.ID = uuid.New()
	s.subclasses = append(s.subclasses, sub)
	return sub, nil
}

func (s *memStore) IllustratorByIdentifier(_ context.Context, ident string) (domain.Illustrator, error) {
	for _, ill := range s.illustrators {
		if ill.Identifier == ident {
			return ill, nil
		}
	}
	return domain.Illustrator{}, notFound("illustrator", ident)
}

func (s *memStore) CreateIllustrator(_ context.Context, ill domain.Illustrator) (domain.Illustrator, error) {
	ill.ID = uuid.New()
	s.illustrators = append(s.illustrators, ill)
	return ill, nil
}

func (s *memStore) SetByIdentifier(_ context.Context, ident string) (domain.Set, error) {
	for _, set := range s.sets {
		if set.Identifier == ident {
			return set, nil
		}
	}
	return domain.Set{}, notFound("set", ident)
}

func (s *memStore) UpsertSet(_ context.Context, set domain.Set) (domain.Set, error) {
	for i, existing := range s.sets {
		if existing.Identifier == set.Identifier {
			set.ID = existing.ID
			s.sets[i] = set
			return set, nil
		}
	}
	set.ID = uuid.New()
	s.sets = append(s.sets, set)
	return set, nil
}

func (s *memStore) FindCards(_ context.Context, filter domain.CardFilter) ([]*domain.Card, error) {
	var out []*domain.Card
	for _, c := range s.cards {
		if c.Family.ID != filter.FamilyID || c.Class.ID != filter.ClassID {
			continue
		}
		if !matchOptID(stageID(c), filter.StageID) {
			continue
		}
		if !matchOptInt(c.HP, filter.HP) || !matchOptInt(c.RetreatCost, filter.RetreatCost) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func stageID(c *domain.Card) *uuid.UUID {
	if c.Stage == nil {
		return nil
	}
	return &c.Stage.ID
}

func matchOptID(a, b *uuid.UUID) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

func matchOptInt(a, b *int) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

func matchOptStr(a, b *string) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

func (s *memStore) CreateCard(_ context.Context, card *domain.Card) (*domain.Card, error) {
	card.ID = uuid.New()
	card.CreatedAt = s.nextTime()
	s.cards = append(s.cards, card)
	return card, nil
}

func (s *memStore) FindMechanics(_ context.Context, filter domain.MechanicFilter) ([]*domain.Mechanic, error) {
	var out []*domain.Mechanic
	for _, m := range s.mechanics {
		if m.Class.ID != filter.ClassID {
			continue
		}
		if !matchOptStr(m.Name, filter.Name) || !matchOptStr(m.Effect, filter.Effect) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *memStore) CreateMechanic(_ context.Context, m *domain.Mechanic) (*domain.Mechanic, error) {
	m.ID = uuid.New()
	s.mechanics = append(s.mechanics, m)
	return m, nil
}

func (s *memStore) FindSetPrint(_ context.Context, setID uuid.UUID, number string, order int) (*domain.Print, error) {
	for _, p := range s.prints {
		sp := p.SetPrint
		if sp != nil && sp.Set.ID == setID && sp.Number == number && sp.Order == order {
			return p, nil
		}
	}
	return nil, notFound("set print", number)
}

func (s *memStore) CreatePrint(_ context.Context, p *domain.Print) (*domain.Print, error) {
	p.ID = uuid.New()
	s.prints = append(s.prints, p)
	return p, nil
}

func (s *memStore) DeletePrint(_ context.Context, id uuid.UUID) error {
	for i, p := range s.prints {
		if p.ID == id {
			s.prints = append(s.prints[:i], s.prints[i+1:]...)
			return nil
		}
	}
	return notFound("print", id.String())
}

var _ Store = (*memStore)(nil)
var _ TxRunner = (*memStore)(nil)
