// Command export writes stored cards back out as card files on stdout.
// Exactly one selector is required.
//
// Flags:
//
//	--set   export one set file by identifier
//	--all   export every set, one YAML document per set
//	--card  export every print of a card family, one document per print
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/encukou/ptcgdex/internal/adapter/postgres"
	"github.com/encukou/ptcgdex/internal/adapter/postgres/store"
	"github.com/encukou/ptcgdex/internal/app"
	"github.com/encukou/ptcgdex/internal/cardfile"
	"github.com/encukou/ptcgdex/internal/config"
	"github.com/encukou/ptcgdex/internal/domain"
	"github.com/encukou/ptcgdex/internal/exporter"
)

func main() {
	setFlag := flag.String("set", "", "set identifier to export")
	cardFlag := flag.String("card", "", "card family identifier to export")
	allFlag := flag.Bool("all", false, "export every set")
	flag.Parse()

	selectors := 0
	for _, on := range []bool{*setFlag != "", *cardFlag != "", *allFlag} {
		if on {
			selectors++
		}
	}
	if selectors != 1 {
		fmt.Fprintln(os.Stderr, "exactly one of --set, --card or --all is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// The card files go to stdout; logs stay on stderr.
	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	st := store.New(pool)

	switch {
	case *setFlag != "":
		err = exportSets(ctx, st, []string{*setFlag})
	case *allFlag:
		err = exportAll(ctx, st)
	default:
		err = exportFamily(ctx, st, *cardFlag)
	}
	if err != nil {
		logger.Error("export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func exportAll(ctx context.Context, st *store.Store) error {
	sets, err := st.ListSets(ctx)
	if err != nil {
		return err
	}
	idents := make([]string, len(sets))
	for i, set := range sets {
		idents[i] = set.Identifier
	}
	return exportSets(ctx, st, idents)
}

func exportSets(ctx context.Context, st *store.Store, idents []string) error {
	var docs []any
	for _, ident := range idents {
		set, err := st.SetByIdentifier(ctx, ident)
		if err != nil {
			return fmt.Errorf("set %q: %w", ident, err)
		}
		prints, err := st.ListSetPrints(ctx, set.ID)
		if err != nil {
			return fmt.Errorf("set %q: %w", ident, err)
		}
		rec, err := exporter.Set(set, prints)
		if err != nil {
			return fmt.Errorf("set %q: %w", ident, err)
		}
		docs = append(docs, rec)
	}
	return cardfile.EncodeDocuments(os.Stdout, docs...)
}

func exportFamily(ctx context.Context, st *store.Store, ident string) error {
	family, err := st.FamilyByIdentifier(ctx, domain.FamilyIdent(ident))
	if err != nil {
		return fmt.Errorf("family %q: %w", ident, err)
	}
	prints, err := st.ListFamilyPrints(ctx, family.ID)
	if err != nil {
		return fmt.Errorf("family %q: %w", ident, err)
	}
	var docs []any
	for _, p := range prints {
		rec, err := exporter.Print(p)
		if err != nil {
			return err
		}
		docs = append(docs, rec)
	}
	return cardfile.EncodeDocuments(os.Stdout, docs...)
}
