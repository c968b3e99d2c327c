// Package store composes the PostgreSQL repositories into the single
// storage surface the import pipeline works against.
package store

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/encukou/ptcgdex/internal/adapter/postgres/card"
	"github.com/encukou/ptcgdex/internal/adapter/postgres/catalog"
	"github.com/encukou/ptcgdex/internal/adapter/postgres/print"
	"github.com/encukou/ptcgdex/internal/importer"
)

// Aliases so the repos can be embedded side by side.
type (
	catalogRepo = catalog.Repo
	cardRepo    = card.Repo
	printRepo   = print.Repo
)

// Store bundles the catalog, card and print repositories.
type Store struct {
	*catalogRepo
	*cardRepo
	*printRepo
}

var _ importer.Store = (*Store)(nil)

// New wires the repositories over one pool.
func New(pool *pgxpool.Pool) *Store {
	cards := card.New(pool)
	return &Store{
		catalogRepo: catalog.New(pool),
		cardRepo:    cards,
		printRepo:   print.New(pool, cards),
	}
}
