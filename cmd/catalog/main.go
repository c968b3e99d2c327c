// Command catalog loads the closed catalogs from CSV files. The argument
// is a directory containing types.csv, classes.csv, stages.csv,
// rarities.csv, mechanic_classes.csv and species.csv; missing files are
// skipped. Rows upsert, so reloading a refreshed dataset is safe.
//
// Column layouts (all files carry a header row):
//
//	types.csv             identifier,initial,name
//	classes.csv           identifier,name
//	stages.csv            identifier,name
//	rarities.csv          identifier,name,symbol
//	mechanic_classes.csv  identifier,name
//	species.csv           id,name,genus
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/encukou/ptcgdex/internal/adapter/postgres"
	"github.com/encukou/ptcgdex/internal/adapter/postgres/catalog"
	"github.com/encukou/ptcgdex/internal/app"
	"github.com/encukou/ptcgdex/internal/config"
	"github.com/encukou/ptcgdex/internal/domain"
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: catalog <csv-dir>")
		os.Exit(1)
	}
	dir := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	repo := catalog.New(pool)

	loaders := []struct {
		file string
		load func(ctx context.Context, rows [][]string) (int, error)
	}{
		{"types.csv", func(ctx context.Context, rows [][]string) (int, error) {
			types := make([]domain.TCGType, 0, len(rows))
			for _, row := range rows {
				if len(row) < 3 {
					return 0, fmt.Errorf("want 3 columns, got %d", len(row))
				}
				types = append(types, domain.TCGType{Identifier: row[0], Initial: row[1], Name: row[2]})
			}
			return len(types), repo.UpsertTypes(ctx, types)
		}},
		{"classes.csv", func(ctx context.Context, rows [][]string) (int, error) {
			classes := make([]domain.Class, 0, len(rows))
			for _, row := range rows {
				if len(row) < 2 {
					return 0, fmt.Errorf("want 2 columns, got %d", len(row))
				}
				classes = append(classes, domain.Class{Identifier: row[0], Name: row[1]})
			}
			return len(classes), repo.UpsertClasses(ctx, classes)
		}},
		{"stages.csv", func(ctx context.Context, rows [][]string) (int, error) {
			stages := make([]domain.Stage, 0, len(rows))
			for _, row := range rows {
				if len(row) < 2 {
					return 0, fmt.Errorf("want 2 columns, got %d", len(row))
				}
				stages = append(stages, domain.Stage{Identifier: row[0], Name: row[1]})
			}
			return len(stages), repo.UpsertStages(ctx, stages)
		}},
		{"rarities.csv", func(ctx context.Context, rows [][]string) (int, error) {
			rarities := make([]domain.Rarity, 0, len(rows))
			for _, row := range rows {
				if len(row) < 3 {
					return 0, fmt.Errorf("want 3 columns, got %d", len(row))
				}
				rarities = append(rarities, domain.Rarity{Identifier: row[0], Name: row[1], Symbol: row[2]})
			}
			return len(rarities), repo.UpsertRarities(ctx, rarities)
		}},
		{"mechanic_classes.csv", func(ctx context.Context, rows [][]string) (int, error) {
			classes := make([]domain.MechanicClass, 0, len(rows))
			for _, row := range rows {
				if len(row) < 2 {
					return 0, fmt.Errorf("want 2 columns, got %d", len(row))
				}
				classes = append(classes, domain.MechanicClass{Identifier: row[0], Name: row[1]})
			}
			return len(classes), repo.UpsertMechanicClasses(ctx, classes)
		}},
		{"species.csv", func(ctx context.Context, rows [][]string) (int, error) {
			species := make([]domain.Species, 0, len(rows))
			for _, row := range rows {
				if len(row) < 3 {
					return 0, fmt.Errorf("want 3 columns, got %d", len(row))
				}
				id, err := strconv.Atoi(row[0])
				if err != nil {
					return 0, fmt.Errorf("species id %q: %w", row[0], err)
				}
				species = append(species, domain.Species{ID: id, Name: row[1], Genus: row[2]})
			}
			return len(species), repo.UpsertSpecies(ctx, species)
		}},
	}

	for _, l := range loaders {
		path := filepath.Join(dir, l.file)
		rows, err := readCSV(path)
		if os.IsNotExist(err) {
			logger.Debug("catalog file absent, skipping", slog.String("file", l.file))
			continue
		}
		if err != nil {
			logger.Error("read catalog file", slog.String("file", l.file), slog.String("error", err.Error()))
			os.Exit(1)
		}
		n, err := l.load(ctx, rows)
		if err != nil {
			logger.Error("load catalog", slog.String("file", l.file), slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("loaded catalog", slog.String("file", l.file), slog.Int("rows", n))
	}
}

// readCSV returns the data rows of a CSV file, header excluded.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	return r.ReadAll()
}
