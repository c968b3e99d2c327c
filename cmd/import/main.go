// Command import loads card files into the database. Arguments are YAML
// files or directories of them; with no arguments the configured data
// directory is imported. The set identifier of a file is its name without
// the extension.
//
// Flags:
//
//	--set  comma-separated set identifiers; documents for other sets are skipped
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/encukou/ptcgdex/internal/adapter/postgres"
	"github.com/encukou/ptcgdex/internal/adapter/postgres/store"
	"github.com/encukou/ptcgdex/internal/app"
	"github.com/encukou/ptcgdex/internal/config"
	"github.com/encukou/ptcgdex/internal/importer"
)

func main() {
	setFlag := flag.String("set", "", "comma-separated set identifiers to import")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{cfg.Import.DataDir}
	}
	files, err := collectFiles(paths)
	if err != nil {
		logger.Error("collect card files", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if len(files) == 0 {
		logger.Error("no card files found", slog.String("paths", strings.Join(paths, ", ")))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	imp := importer.New(store.New(pool), postgres.NewTxManager(pool), logger)
	if *setFlag != "" {
		var idents []string
		for _, ident := range strings.Split(*setFlag, ",") {
			idents = append(idents, strings.TrimSpace(ident))
		}
		imp.Restrict(idents)
	}

	for _, file := range files {
		if err := importFile(ctx, imp, file); err != nil {
			logger.Error("import failed",
				slog.String("file", file),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("imported file", slog.String("file", file))
	}

	stats := imp.Stats
	logger.Info("import complete",
		slog.Int("cards_created", stats.CardsCreated),
		slog.Int("cards_reused", stats.CardsReused),
		slog.Int("prints_created", stats.PrintsCreated),
		slog.Int("prints_reused", stats.PrintsReused),
		slog.Int("prints_replaced", stats.PrintsReplaced),
		slog.Int("families_created", stats.FamiliesCreated))
}

// collectFiles expands directories into their *.yaml/*.yml files.
func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			switch filepath.Ext(p) {
			case ".yaml", ".yml":
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func importFile(ctx context.Context, imp *importer.Importer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ident := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if err := imp.ImportReader(ctx, f, ident); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
