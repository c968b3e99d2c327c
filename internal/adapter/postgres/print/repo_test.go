package print_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/encukou/ptcgdex/internal/adapter/postgres/card"
	"github.com/encukou/ptcgdex/internal/adapter/postgres/catalog"
	"github.com/encukou/ptcgdex/internal/adapter/postgres/print"
	"github.com/encukou/ptcgdex/internal/adapter/postgres/testhelper"
	"github.com/encukou/ptcgdex/internal/domain"
)

type fixture struct {
	repo *print.Repo
	cat  *catalog.Repo
	card *domain.Card
	set  domain.Set
}

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

// newFixture seeds catalogs, one stored card and one set.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	cat := testhelper.SeedCatalogs(t, pool)
	cards := card.New(pool)
	ctx := context.Background()

	suffix := uuid.New().String()[:8]
	family, err := cat.CreateFamily(ctx, domain.CardFamily{Identifier: "pikachu-" + suffix, Name: "Pikachu"})
	if err != nil {
		t.Fatalf("seed family: %v", err)
	}
	class, err := cat.ClassByIdentifier(ctx, "pokemon")
	if err != nil {
		t.Fatalf("class: %v", err)
	}
	stage, err := cat.StageByName(ctx, "Basic")
	if err != nil {
		t.Fatalf("stage: %v", err)
	}
	lightning, err := cat.TypeByInitial(ctx, "L")
	if err != nil {
		t.Fatalf("type: %v", err)
	}

	stored, err := cards.CreateCard(ctx, &domain.Card{
		Family: family,
		Class:  class,
		Stage:  &stage,
		HP:     intp(40),
		Legal:  true,
		Types:  []domain.TCGType{lightning},
	})
	if err != nil {
		t.Fatalf("seed card: %v", err)
	}

	release := time.Date(1999, 1, 9, 0, 0, 0, 0, time.UTC)
	set, err := cat.UpsertSet(ctx, domain.Set{
		Identifier:  "base-" + suffix,
		Name:        "Base Set",
		ReleaseDate: &release,
	})
	if err != nil {
		t.Fatalf("seed set: %v", err)
	}

	return &fixture{repo: print.New(pool, cards), cat: cat, card: stored, set: set}
}

// ---------------------------------------------------------------------------
// CreatePrint + FindSetPrint
// ---------------------------------------------------------------------------

func TestRepo_CreatePrint_AndFindSetPrint(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	rarity, err := f.cat.RarityByIdentifier(ctx, "common")
	if err != nil {
		t.Fatalf("rarity: %v", err)
	}
	ill, err := f.cat.CreateIllustrator(ctx, domain.Illustrator{
		Identifier: "mitsuhiro-arita-" + uuid.New().String()[:8],
		Name:       "Mitsuhiro Arita",
	})
	if err != nil {
		t.Fatalf("illustrator: %v", err)
	}
	species, err := f.cat.SpeciesByID(ctx, 25)
	if err != nil {
		t.Fatalf("species: %v", err)
	}

	created, err := f.repo.CreatePrint(ctx, &domain.Print{
		Card:         f.card,
		Rarity:       &rarity,
		Holographic:  false,
		Illustrators: []domain.Illustrator{ill},
		Scans: []domain.Scan{
			{Filename: "base/58.jpg", Order: 0},
		},
		Flavor: &domain.PokemonFlavor{
			Species:      &species,
			Genus:        "Mouse",
			Weight:       floatp(13.2),
			HeightInches: intp(16),
			DexEntry:     "When several of these Pokémon gather, their electricity could build and cause lightning storms.",
		},
		SetPrint: &domain.SetPrint{Set: f.set, Number: "58", Order: 0},
	})
	if err != nil {
		t.Fatalf("CreatePrint: unexpected error: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("CreatePrint: expected non-zero ID")
	}

	got, err := f.repo.FindSetPrint(ctx, f.set.ID, "58", 0)
	if err != nil {
		t.Fatalf("FindSetPrint: unexpected error: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID mismatch: got %s, want %s", got.ID, created.ID)
	}
	if got.Card == nil || got.Card.ID != f.card.ID {
		t.Errorf("Card mismatch: got %+v", got.Card)
	}
	if got.Rarity == nil || got.Rarity.Identifier != "common" {
		t.Errorf("Rarity mismatch: got %+v", got.Rarity)
	}
	if len(got.Illustrators) != 1 || got.Illustrators[0].Name != "Mitsuhiro Arita" {
		t.Errorf("Illustrators mismatch: got %+v", got.Illustrators)
	}
	if len(got.Scans) != 1 || got.Scans[0].Filename != "base/58.jpg" {
		t.Errorf("Scans mismatch: got %+v", got.Scans)
	}
	if got.Flavor == nil {
		t.Fatal("Flavor: expected non-nil")
	}
	if got.Flavor.Species == nil || got.Flavor.Species.ID != 25 {
		t.Errorf("Species mismatch: got %+v", got.Flavor.Species)
	}
	if got.Flavor.HeightInches == nil || *got.Flavor.HeightInches != 16 {
		t.Errorf("Height mismatch: got %v", got.Flavor.HeightInches)
	}
	if got.SetPrint == nil || got.SetPrint.Number != "58" || got.SetPrint.Set.Identifier != f.set.Identifier {
		t.Errorf("SetPrint mismatch: got %+v", got.SetPrint)
	}
}

// ---------------------------------------------------------------------------
// FindSetPrint miss
// ---------------------------------------------------------------------------

func TestRepo_FindSetPrint_NotFound(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.repo.FindSetPrint(context.Background(), f.set.ID, "999", 0)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// DeletePrint cascades children
// ---------------------------------------------------------------------------

func TestRepo_DeletePrint(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.repo.CreatePrint(ctx, &domain.Print{
		Card:     f.card,
		Scans:    []domain.Scan{{Filename: "base/58-holo.jpg", Order: 0}},
		SetPrint: &domain.SetPrint{Set: f.set, Number: "58", Order: 1},
	})
	if err != nil {
		t.Fatalf("CreatePrint: unexpected error: %v", err)
	}

	if err := f.repo.DeletePrint(ctx, created.ID); err != nil {
		t.Fatalf("DeletePrint: unexpected error: %v", err)
	}

	_, err = f.repo.FindSetPrint(ctx, f.set.ID, "58", 1)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// ListSetPrints ordering
// ---------------------------------------------------------------------------

func TestRepo_ListSetPrints_NumericOrder(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	for _, number := range []string{"10", "2", "1"} {
		_, err := f.repo.CreatePrint(ctx, &domain.Print{
			Card:     f.card,
			SetPrint: &domain.SetPrint{Set: f.set, Number: number, Order: 0},
		})
		if err != nil {
			t.Fatalf("CreatePrint %s: unexpected error: %v", number, err)
		}
	}

	prints, err := f.repo.ListSetPrints(ctx, f.set.ID)
	if err != nil {
		t.Fatalf("ListSetPrints: unexpected error: %v", err)
	}
	if len(prints) != 3 {
		t.Fatalf("ListSetPrints: got %d prints, want 3", len(prints))
	}
	var numbers []string
	for _, p := range prints {
		numbers = append(numbers, p.SetPrint.Number)
	}
	want := []string{"1", "2", "10"}
	for i := range want {
		if numbers[i] != want[i] {
			t.Fatalf("ListSetPrints order: got %v, want %v", numbers, want)
		}
	}
}
