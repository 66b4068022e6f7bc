package seedproducts

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/suspensionlab/seedtools/internal/batch"
	"github.com/suspensionlab/seedtools/internal/catalog"
	"github.com/suspensionlab/seedtools/internal/fileio"
	"github.com/suspensionlab/seedtools/internal/metadata"
	"github.com/suspensionlab/seedtools/internal/report"
	"github.com/suspensionlab/seedtools/internal/store"
	"github.com/suspensionlab/seedtools/internal/tools/purge"
)

const (
	// COUNT_FIELD is the metadata field holding the number of products in the catalog.
	COUNT_FIELD = "totalProducts"
	DESCRIPTION = "Suspension products database with version tracking"
)

const dryRunRows = 20

func updater(s store.Store) *metadata.Updater {
	return metadata.NewUpdater(s, catalog.PRODUCTS_COLLECTION, COUNT_FIELD, DESCRIPTION)
}

// SeedProducts loads the catalog in ctx.File, writes every product stamped with the next catalog version, and then records that version.
// If any batch fails the version is left as it was.
func SeedProducts(ctx *Context) error {
	cat, err := catalog.Load(ctx, ctx.File)
	if err != nil {
		return fmt.Errorf("SeedProducts: %w", err)
	}
	log.Printf("Found %d products in %s", len(cat.Products), ctx.File)

	s := ctx.Store
	var dry *store.DryRun
	if ctx.DryRun {
		dry = store.NewDryRun(s)
		s = dry
	}

	meta := updater(s)
	current, err := meta.Current(ctx)
	if err != nil {
		return fmt.Errorf("SeedProducts: %w", err)
	}
	version := current + 1
	log.Printf("Current version: %d", current)
	log.Printf("New version: %d", version)

	ops := cat.Ops(version)
	var src batch.Source = batch.Ops(ops...)
	var export *report.Export
	if ctx.Export != "" {
		export = report.NewExport()
		src = batch.Tee(src, export.Add)
	}

	bar := report.NewProgress(len(ops), "seeding "+catalog.PRODUCTS_COLLECTION, ctx.NoProgress)
	w := batch.NewWriter(s)
	w.MaxBatchSize = ctx.BatchSize
	w.OnCommit = report.Advance(bar)

	session, err := w.Write(ctx, src)
	bar.Finish()
	if err != nil {
		return fmt.Errorf("SeedProducts: failed to write products, version not updated: %w", err)
	}

	created, err := fileio.CreationTime(ctx, ctx.File)
	if err != nil {
		log.Warnf("Unable to stat %s: %v", ctx.File, err)
	}
	err = meta.Write(ctx, metadata.Version{
		Version:       version,
		Total:         len(cat.Products),
		Checksum:      cat.Checksum(),
		SourceFile:    ctx.File,
		SourceCreated: created,
	})
	if err != nil {
		return fmt.Errorf("SeedProducts: %w", err)
	}

	if dry != nil {
		log.Print("DRY RUN: would write the following to the store:")
		report.PrintOps(ctx.Out, dry.Recorder.Applied(), dryRunRows)
	}
	report.PrintSession(ctx.Out, session)

	if export != nil {
		if err := export.WriteFile(ctx, ctx.Export); err != nil {
			return fmt.Errorf("SeedProducts: failed to export: %w", err)
		}
		log.Printf("Exported %d documents to %s", export.Len(), ctx.Export)
	}

	log.Printf("Seeded %d products at version %d", session.Committed, version)
	return nil
}

// DeleteProducts removes every product and then the catalog metadata.
// The metadata is removed even when there were no products to delete, after the same confirmation.
func DeleteProducts(ctx *Context) error {
	pctx := purge.NewContext(ctx.Context)
	pctx.DryRun = ctx.DryRun
	pctx.Force = ctx.Force
	pctx.NoProgress = ctx.NoProgress
	pctx.Store = ctx.Store
	pctx.Collection = catalog.PRODUCTS_COLLECTION
	pctx.BatchSize = ctx.BatchSize
	pctx.Confirm = ctx.Confirm
	pctx.Also = metadata.METADATA_COLLECTION + "/" + catalog.PRODUCTS_COLLECTION

	session, err := purge.Purge(pctx)
	if errors.Is(err, purge.ErrDeclined) {
		log.Print("Aborted: nothing was deleted")
		return nil
	}
	if err != nil {
		return fmt.Errorf("DeleteProducts: %w", err)
	}

	s := ctx.Store
	if ctx.DryRun {
		s = store.NewDryRun(s)
	}
	if err := updater(s).Delete(ctx); err != nil {
		return fmt.Errorf("DeleteProducts: %w", err)
	}

	if len(session.Batches) > 0 {
		report.PrintSession(ctx.Out, session)
	}
	return nil
}
