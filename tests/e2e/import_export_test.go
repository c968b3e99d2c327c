//go:build e2e

package e2e_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encukou/ptcgdex/internal/adapter/postgres"
	"github.com/encukou/ptcgdex/internal/adapter/postgres/store"
	"github.com/encukou/ptcgdex/internal/adapter/postgres/testhelper"
	"github.com/encukou/ptcgdex/internal/cardfile"
	"github.com/encukou/ptcgdex/internal/exporter"
	"github.com/encukou/ptcgdex/internal/importer"
)

const jungleFile = `name: Jungle
release date: 1999-06-16
total: 2
cards:
- number: "60"
  name: Pikachu
  class: P
  types:
  - Lightning
  hp: 40
  stage: Basic
  evolves into:
  - Raichu
  legal: true
  mechanics:
  - name: Spark
    type: attack
    cost: LC
    damage: 20
    text: >-
      Choose 1 of your opponent's Benched Pokémon and do 10 damage to it.
  damage modifiers:
  - type: F
    operation: x
    amount: 2
  retreat: 1
  rarity: common
  illustrator: Mitsuhiro Arita
  dex number: 25
  species: Mouse
  weight: 13.2
  height: 1'4
- number: "45"
  name: Raichu
  class: P
  types:
  - Lightning
  hp: 90
  stage: Stage 1
  evolves from: Pikachu
  legal: true
  mechanics:
  - name: Thunder
    type: attack
    cost: LLLC
    damage: 60
  retreat: 1
  rarity: rare
  holographic: true
  illustrator: Ken Sugimori
  dex number: 26
  species: Mouse
`

// setup boots a real database, seeds catalogs and returns a wired importer
// and store.
func setup(t *testing.T) (*importer.Importer, *store.Store) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	testhelper.SeedCatalogs(t, pool)
	st := store.New(pool)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return importer.New(st, postgres.NewTxManager(pool), logger), st
}

// TestE2E_ImportExportRoundTrip imports a set file against a real database
// and verifies the exported set carries the same cards.
func TestE2E_ImportExportRoundTrip(t *testing.T) {
	imp, st := setup(t)
	ctx := context.Background()

	require.NoError(t, imp.ImportReader(ctx, strings.NewReader(jungleFile), "jungle"))
	assert.Equal(t, 2, imp.Stats.CardsCreated)
	assert.Equal(t, 2, imp.Stats.PrintsCreated)

	set, err := st.SetByIdentifier(ctx, "jungle")
	require.NoError(t, err)
	prints, err := st.ListSetPrints(ctx, set.ID)
	require.NoError(t, err)
	require.Len(t, prints, 2)

	rec, err := exporter.Set(set, prints)
	require.NoError(t, err)
	assert.Equal(t, "Jungle", rec.Name)
	assert.Equal(t, "1999-06-16", rec.ReleaseDate)
	require.Len(t, rec.Cards, 2)

	raichu := rec.Cards[0]
	assert.Equal(t, "45", raichu.Number)
	assert.Equal(t, "Raichu", raichu.Name)
	assert.Equal(t, "Pikachu", raichu.EvolvesFrom)
	require.NotNil(t, raichu.Holographic)
	assert.True(t, *raichu.Holographic)

	pikachu := rec.Cards[1]
	assert.Equal(t, "60", pikachu.Number)
	assert.Equal(t, "Pikachu", pikachu.Name)
	require.Len(t, pikachu.Mechanics, 1)
	assert.Equal(t, "LC", pikachu.Mechanics[0].Cost)
	require.Len(t, pikachu.Modifiers, 1)
	assert.Equal(t, "x", pikachu.Modifiers[0].Operation)
	assert.Equal(t, "1'4", pikachu.Height)

	// The exported file decodes back to the same documents.
	var buf strings.Builder
	require.NoError(t, cardfile.EncodeDocuments(&buf, rec))
	docs, err := cardfile.DecodeDocuments(strings.NewReader(buf.String()))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.NotNil(t, docs[0].Set)
	assert.Equal(t, "Jungle", docs[0].Set.Name)
	assert.Len(t, docs[0].Cards, 2)
}

// TestE2E_ImportIdempotent re-imports the same file and verifies nothing
// new is created.
func TestE2E_ImportIdempotent(t *testing.T) {
	imp, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, imp.ImportReader(ctx, strings.NewReader(jungleFile), "jungle"))
	require.NoError(t, imp.ImportReader(ctx, strings.NewReader(jungleFile), "jungle"))

	assert.Equal(t, 2, imp.Stats.CardsCreated)
	assert.Equal(t, 2, imp.Stats.CardsReused)
	assert.Equal(t, 2, imp.Stats.PrintsCreated)
	assert.Equal(t, 2, imp.Stats.PrintsReused)
	assert.Equal(t, 0, imp.Stats.PrintsReplaced)
}
