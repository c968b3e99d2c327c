package importer

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/encukou/ptcgdex/internal/domain"
	"github.com/encukou/ptcgdex/internal/exporter"
)

// AssemblePrint attaches printing context to a resolved card under the
// natural key (set, number, order). An identical existing print is a
// no-op; a differing one is deleted with its exclusive children and
// recreated. Prints without set membership have no natural key, so they
// are always created fresh: re-importing a set-less record duplicates
// its Print row.
func (r *Resolver) AssemblePrint(ctx context.Context, card *domain.Card, in PrintInput, set *domain.Set) (*domain.Print, error) {
	want, err := r.buildPrint(ctx, card, in, set)
	if err != nil {
		return nil, err
	}
	if set == nil {
		created, err := r.store.CreatePrint(ctx, want)
		if err != nil {
			return nil, fmt.Errorf("create print: %w", err)
		}
		r.stats.PrintsCreated++
		return created, nil
	}

	existing, err := r.store.FindSetPrint(ctx, set.ID, in.Number, in.Order)
	switch {
	case err == nil:
		existingRec, err := exporter.Print(existing)
		if err != nil {
			return nil, err
		}
		wantRec, err := exporter.Print(want)
		if err != nil {
			return nil, err
		}
		if reflect.DeepEqual(existingRec, wantRec) {
			r.stats.PrintsReused++
			return existing, nil
		}
		if err := r.store.DeletePrint(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("replace print %s/%s: %w", set.Identifier, in.Number, err)
		}
		r.stats.PrintsReplaced++
	case errors.Is(err, domain.ErrNotFound):
	default:
		return nil, fmt.Errorf("print %s/%s: %w", set.Identifier, in.Number, err)
	}

	created, err := r.store.CreatePrint(ctx, want)
	if err != nil {
		return nil, fmt.Errorf("create print %s/%s: %w", set.Identifier, in.Number, err)
	}
	r.stats.PrintsCreated++
	return created, nil
}

func (r *Resolver) buildPrint(ctx context.Context, card *domain.Card, in PrintInput, set *domain.Set) (*domain.Print, error) {
	p := &domain.Print{
		Card:        card,
		Holographic: in.Holographic,
	}
	if in.Rarity != "" {
		rarity, err := r.store.RarityByIdentifier(ctx, in.Rarity)
		if err != nil {
			return nil, fmt.Errorf("rarity %q: %w", in.Rarity, err)
		}
		p.Rarity = &rarity
	}
	for _, name := range in.Illustrators {
		ill, err := r.resolveIllustrator(ctx, name)
		if err != nil {
			return nil, err
		}
		p.Illustrators = append(p.Illustrators, ill)
	}
	for i, filename := range in.Filenames {
		p.Scans = append(p.Scans, domain.Scan{Filename: filename, Order: i})
	}
	if in.Flavor != nil {
		flavor, err := r.buildFlavor(ctx, in.Flavor)
		if err != nil {
			return nil, err
		}
		p.Flavor = flavor
	}
	if set != nil {
		p.SetPrint = &domain.SetPrint{Set: *set, Number: in.Number, Order: in.Order}
	}
	return p, nil
}

// buildFlavor resolves the species reference and cross-checks it against
// the record's own species name; a mismatch means corrupt source data.
func (r *Resolver) buildFlavor(ctx context.Context, in *FlavorInput) (*domain.PokemonFlavor, error) {
	flavor := &domain.PokemonFlavor{
		Genus:        in.Genus,
		Weight:       in.Weight,
		HeightInches: in.HeightInches,
		DexEntry:     in.DexEntry,
	}
	if in.DexNumber != nil {
		species, err := r.store.SpeciesByID(ctx, *in.DexNumber)
		if err != nil {
			return nil, fmt.Errorf("species #%d: %w", *in.DexNumber, err)
		}
		if in.Pokemon != "" && !strings.EqualFold(species.Name, in.Pokemon) {
			return nil, domain.NewValidationError("pokemon",
				fmt.Sprintf("species #%d is %q, record says %q", species.ID, species.Name, in.Pokemon))
		}
		flavor.Species = &species
	}
	return flavor, nil
}
