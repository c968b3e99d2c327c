package importer

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/encukou/ptcgdex/internal/domain"
	"github.com/encukou/ptcgdex/internal/exporter"
)

// Stats counts what an import run touched.
type Stats struct {
	CardsCreated        int
	CardsReused         int
	MechanicsCreated    int
	MechanicsReused     int
	FamiliesCreated     int
	SubclassesCreated   int
	IllustratorsCreated int
	PrintsCreated       int
	PrintsReused        int
	PrintsReplaced      int
}

// Resolver implements reuse-or-create for every normalized entity. The
// first-pass lookup uses cheap discriminator equality; the final check
// compares full exported projections, so the export projection is the
// definition of entity identity. First match in creation order wins.
type Resolver struct {
	store Store
	stats *Stats
}

// NewResolver wires a resolver over a store. stats may be shared with the
// caller; it must not be nil.
func NewResolver(store Store, stats *Stats) *Resolver {
	return &Resolver{store: store, stats: stats}
}

// ResolveCard reuses an existing card whose projection matches the
// decomposed input, or creates the card with all of its child rows.
func (r *Resolver) ResolveCard(ctx context.Context, dec *DecomposedCard) (*domain.Card, error) {
	want, err := r.buildCard(ctx, dec)
	if err != nil {
		return nil, err
	}
	wantRec, err := exporter.Card(want)
	if err != nil {
		return nil, err
	}

	filter := domain.CardFilter{
		FamilyID: want.Family.ID,
		ClassID:  want.Class.ID,
		HP:       want.HP,
	}
	if want.Stage != nil {
		filter.StageID = &want.Stage.ID
	}
	filter.RetreatCost = want.RetreatCost

	candidates, err := r.store.FindCards(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("card candidates for %q: %w", dec.Name, err)
	}
	for _, candidate := range candidates {
		rec, err := exporter.Card(candidate)
		if err != nil {
			return nil, err
		}
		if reflect.DeepEqual(rec, wantRec) {
			r.stats.CardsReused++
			return candidate, nil
		}
	}

	// No candidate projects identically; create the card and its children.
	for i := range want.Mechanics {
		resolved, err := r.resolveMechanic(ctx, &want.Mechanics[i])
		if err != nil {
			return nil, err
		}
		want.Mechanics[i] = *resolved
	}
	created, err := r.store.CreateCard(ctx, want)
	if err != nil {
		return nil, fmt.Errorf("create card %q: %w", dec.Name, err)
	}
	r.stats.CardsCreated++
	return created, nil
}

// buildCard resolves every catalog reference of the decomposed input into
// an unsaved card. Mechanics stay unsaved too; they are only resolved to
// stored rows when the card turns out to be new.
func (r *Resolver) buildCard(ctx context.Context, dec *DecomposedCard) (*domain.Card, error) {
	card := &domain.Card{
		HP:          dec.HP,
		RetreatCost: dec.Retreat,
		Legal:       dec.Legal,
	}

	family, err := r.resolveFamily(ctx, dec.Name)
	if err != nil {
		return nil, err
	}
	card.Family = family

	classIdent, ok := domain.ClassIdentifierForCode(dec.Class)
	if !ok {
		return nil, fmt.Errorf("card %q: unknown class code %q: %w", dec.Name, dec.Class, domain.ErrValidation)
	}
	if card.Class, err = r.store.ClassByIdentifier(ctx, classIdent); err != nil {
		return nil, fmt.Errorf("class %q: %w", classIdent, err)
	}

	if dec.Stage != "" {
		stage, err := r.store.StageByName(ctx, dec.Stage)
		if err != nil {
			return nil, fmt.Errorf("stage %q: %w", dec.Stage, err)
		}
		card.Stage = &stage
	}

	for _, name := range dec.Types {
		t, err := r.store.TypeByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", name, err)
		}
		card.Types = append(card.Types, t)
	}

	for _, name := range dec.Subclasses {
		sub, err := r.resolveSubclass(ctx, name)
		if err != nil {
			return nil, err
		}
		card.Subclasses = append(card.Subclasses, sub)
	}

	for i, in := range dec.Modifiers {
		t, err := r.store.TypeByInitial(ctx, in.Type)
		if err != nil {
			return nil, fmt.Errorf("type initial %q: %w", in.Type, err)
		}
		card.Modifiers = append(card.Modifiers, domain.DamageModifier{
			Type:      t,
			Operation: in.Operation,
			Amount:    in.Amount,
			Order:     i,
		})
	}

	for _, in := range dec.Mechanics {
		m, err := r.buildMechanic(ctx, in)
		if err != nil {
			return nil, err
		}
		card.Mechanics = append(card.Mechanics, *m)
	}

	order := 0
	if dec.EvolvesFrom != "" {
		from, err := r.resolveFamily(ctx, dec.EvolvesFrom)
		if err != nil {
			return nil, err
		}
		card.Evolutions = append(card.Evolutions, domain.Evolution{Family: from, FamilyToCard: true, Order: order})
		order++
	}
	for _, name := range dec.EvolvesInto {
		into, err := r.resolveFamily(ctx, name)
		if err != nil {
			return nil, err
		}
		card.Evolutions = append(card.Evolutions, domain.Evolution{Family: into, FamilyToCard: false, Order: order})
		order++
	}
	return card, nil
}

func (r *Resolver) buildMechanic(ctx context.Context, in MechanicInput) (*domain.Mechanic, error) {
	class, err := r.store.MechanicClassByIdentifier(ctx, in.Class)
	if err != nil {
		return nil, fmt.Errorf("mechanic class %q: %w", in.Class, err)
	}
	m := &domain.Mechanic{
		Class:          class,
		Name:           in.Name,
		Effect:         in.Text,
		DamageBase:     in.DamageBase,
		DamageModifier: in.DamageModifier,
	}
	for i, seg := range in.Cost {
		t, err := r.store.TypeByInitial(ctx, seg.Initial)
		if err != nil {
			return nil, fmt.Errorf("cost initial %q: %w", seg.Initial, err)
		}
		m.Costs = append(m.Costs, domain.MechanicCost{Type: t, Amount: seg.Amount, Order: i})
	}
	return m, nil
}

// resolveMechanic reuses a stored mechanic whose projection matches, or
// persists the built one.
func (r *Resolver) resolveMechanic(ctx context.Context, want *domain.Mechanic) (*domain.Mechanic, error) {
	wantRec := exporter.Mechanic(want)

	candidates, err := r.store.FindMechanics(ctx, domain.MechanicFilter{
		ClassID: want.Class.ID,
		Name:    want.Name,
		Effect:  want.Effect,
	})
	if err != nil {
		return nil, fmt.Errorf("mechanic candidates: %w", err)
	}
	for _, candidate := range candidates {
		if reflect.DeepEqual(exporter.Mechanic(candidate), wantRec) {
			r.stats.MechanicsReused++
			return candidate, nil
		}
	}

	created, err := r.store.CreateMechanic(ctx, want)
	if err != nil {
		return nil, fmt.Errorf("create mechanic: %w", err)
	}
	r.stats.MechanicsCreated++
	return created, nil
}

func (r *Resolver) resolveFamily(ctx context.Context, name string) (domain.CardFamily, error) {
	ident := domain.FamilyIdent(name)
	family, err := r.store.FamilyByIdentifier(ctx, ident)
	if err == nil {
		return family, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.CardFamily{}, fmt.Errorf("family %q: %w", ident, err)
	}
	displayName := name
	if ident == "unown" {
		// All Unown variants share one family under the base name.
		displayName = "Unown"
	}
	family, err = r.store.CreateFamily(ctx, domain.CardFamily{Identifier: ident, Name: displayName})
	if err != nil {
		return domain.CardFamily{}, fmt.Errorf("create family %q: %w", ident, err)
	}
	r.stats.FamiliesCreated++
	return family, nil
}

func (r *Resolver) resolveSubclass(ctx context.Context, name string) (domain.Subclass, error) {
	ident := domain.Slugify(name)
	sub, err := r.store.SubclassByIdentifier(ctx, ident)
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Subclass{}, fmt.Errorf("subclass %q: %w", ident, err)
	}
	sub, err = r.store.CreateSubclass(ctx, domain.Subclass{Identifier: ident, Name: name})
	if err != nil {
		return domain.Subclass{}, fmt.Errorf("create subclass %q: %w", ident, err)
	}
	r.stats.SubclassesCreated++
	return sub, nil
}

func (r *Resolver) resolveIllustrator(ctx context.Context, name string) (domain.Illustrator, error) {
	ident := domain.Slugify(name)
	ill, err := r.store.IllustratorByIdentifier(ctx, ident)
	if err == nil {
		return ill, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Illustrator{}, fmt.Errorf("illustrator %q: %w", ident, err)
	}
	ill, err = r.store.CreateIllustrator(ctx, domain.Illustrator{Identifier: ident, Name: name})
	if err != nil {
		return domain.Illustrator{}, fmt.Errorf("create illustrator %q: %w", ident, err)
	}
	r.stats.IllustratorsCreated++
	return ill, nil
}
