package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/encukou/ptcgdex/internal/cardfile"
	"github.com/encukou/ptcgdex/internal/domain"
)

// Importer drives the pipeline: decode, correct, decompose, resolve,
// assemble. Each document runs in its own transaction; the first failing
// card rolls the whole document back, so a bad record never leaves a
// half-imported set behind.
type Importer struct {
	store       Store
	tx          TxRunner
	log         *slog.Logger
	corrections Corrections
	restrict    map[string]bool
	now         func() time.Time

	Stats Stats
}

// New builds an importer with the default correction table.
func New(store Store, tx TxRunner, log *slog.Logger) *Importer {
	return &Importer{
		store:       store,
		tx:          tx,
		log:         log,
		corrections: DefaultCorrections(),
		now:         time.Now,
	}
}

// Restrict limits the run to the named set identifiers. Documents for
// other sets are skipped, not failed.
func (imp *Importer) Restrict(setIdents []string) {
	if len(setIdents) == 0 {
		imp.restrict = nil
		return
	}
	imp.restrict = make(map[string]bool, len(setIdents))
	for _, ident := range setIdents {
		imp.restrict[ident] = true
	}
}

// ImportReader decodes a YAML stream and imports every document in it.
// fileIdent is the set identifier implied by the file name; set files
// without an explicit set field inherit it.
func (imp *Importer) ImportReader(ctx context.Context, r io.Reader, fileIdent string) error {
	docs, err := cardfile.DecodeDocuments(r)
	if err != nil {
		return err
	}
	return imp.ImportDocuments(ctx, docs, fileIdent)
}

// ImportDocuments imports documents in order, one transaction per
// document.
func (imp *Importer) ImportDocuments(ctx context.Context, docs []*cardfile.Document, fileIdent string) error {
	for i, doc := range docs {
		if imp.skip(fileIdent) {
			imp.log.Debug("skipping document outside set restriction", "file", fileIdent, "doc", i)
			continue
		}
		err := imp.tx.RunInTx(ctx, func(ctx context.Context) error {
			return imp.importDocument(ctx, doc, fileIdent)
		})
		if err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
	}
	return nil
}

func (imp *Importer) skip(fileIdent string) bool {
	return imp.restrict != nil && !imp.restrict[fileIdent]
}

func (imp *Importer) importDocument(ctx context.Context, doc *cardfile.Document, fileIdent string) error {
	resolver := NewResolver(imp.store, &imp.Stats)

	var set *domain.Set
	if doc.Set != nil {
		upserted, err := imp.store.UpsertSet(ctx, domain.Set{
			Identifier:  fileIdent,
			Name:        doc.Set.Name,
			Total:       doc.Set.Total,
			ReleaseDate: doc.Set.ReleaseDate,
			BanDate:     doc.Set.BanDate,
		})
		if err != nil {
			return fmt.Errorf("set %q: %w", fileIdent, err)
		}
		set = &upserted
	}

	for _, rec := range doc.Cards {
		if err := imp.importCard(ctx, resolver, rec, set); err != nil {
			return err
		}
	}
	return nil
}

func (imp *Importer) importCard(ctx context.Context, resolver *Resolver, rec *cardfile.Record, set *domain.Set) error {
	setIdent := ""
	if set != nil {
		setIdent = set.Identifier
	}
	if explicit, ok := rec.Get("set"); ok && setIdent == "" {
		if s, ok := explicit.(string); ok {
			setIdent = s
		}
	}
	imp.corrections.Apply(setIdent, rec)

	// Capture the record identity before decomposition consumes it.
	ident := recordIdentity(setIdent, rec)

	dec, err := Decompose(rec)
	if err != nil {
		return fmt.Errorf("%s: %w", ident, err)
	}

	if set == nil && dec.Print.Set != "" {
		found, err := imp.store.SetByIdentifier(ctx, dec.Print.Set)
		if err != nil {
			return fmt.Errorf("%s: set %q: %w", ident, dec.Print.Set, err)
		}
		set = &found
	} else if set != nil && dec.Print.Set != "" && dec.Print.Set != set.Identifier {
		return fmt.Errorf("%s: %w", ident,
			domain.NewValidationError("set", fmt.Sprintf("record says %q, file says %q", dec.Print.Set, set.Identifier)))
	}

	if set != nil && set.BanDate != nil && set.BanDate.Before(imp.now()) && dec.Legal {
		return fmt.Errorf("%s: %w", ident,
			domain.NewValidationError("legal", fmt.Sprintf("set banned since %s", set.BanDate.Format(cardfile.DateLayout))))
	}

	card, err := resolver.ResolveCard(ctx, dec)
	if err != nil {
		return fmt.Errorf("%s: %w", ident, err)
	}
	if _, err := resolver.AssemblePrint(ctx, card, dec.Print, set); err != nil {
		return fmt.Errorf("%s: %w", ident, err)
	}

	imp.log.Debug("imported card", "set", setIdent, "number", dec.Print.Number, "name", dec.Name)
	return nil
}

// recordIdentity names a record for error messages so bad source data can
// be found and fixed by hand.
func recordIdentity(setIdent string, rec *cardfile.Record) string {
	name, _ := rec.Get("name")
	number, hasNumber := rec.Get("number")
	switch {
	case setIdent != "" && hasNumber:
		return fmt.Sprintf("card %v (set %s, number %v)", name, setIdent, number)
	case setIdent != "":
		return fmt.Sprintf("card %v (set %s)", name, setIdent)
	default:
		return fmt.Sprintf("card %v", name)
	}
}
