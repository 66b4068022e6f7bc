package seedcommunity

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/suspensionlab/seedtools/internal/batch"
	"github.com/suspensionlab/seedtools/internal/community"
	"github.com/suspensionlab/seedtools/internal/report"
	"github.com/suspensionlab/seedtools/internal/store"
	"github.com/suspensionlab/seedtools/internal/tools/purge"
)

// dryRunRows caps how many planned documents a dry run prints.
const dryRunRows = 20

// SeedCommunity writes ctx.Count random community settings.
func SeedCommunity(ctx *Context) error {
	if ctx.Count < 0 {
		return fmt.Errorf("SeedCommunity: count must not be negative, got %d", ctx.Count)
	}

	s := ctx.Store
	var dry *store.DryRun
	if ctx.DryRun {
		dry = store.NewDryRun(s)
		s = dry
	}

	gen := community.NewGenerator(ctx.Seed, ctx.Count)
	if ctx.Now != nil {
		gen.Now = ctx.Now
	}

	var src batch.Source = gen
	var export *report.Export
	if ctx.Export != "" {
		export = report.NewExport()
		src = batch.Tee(src, export.Add)
	}

	log.Printf("Seeding %d community settings into %s", ctx.Count, gen.Collection)

	bar := report.NewProgress(ctx.Count, "seeding "+gen.Collection, ctx.NoProgress)
	w := batch.NewWriter(s)
	w.MaxBatchSize = ctx.BatchSize
	w.OnCommit = report.Advance(bar)

	session, err := w.Write(ctx, src)
	bar.Finish()
	if err != nil {
		return fmt.Errorf("SeedCommunity: failed to write community settings: %w", err)
	}

	if dry != nil {
		log.Print("DRY RUN: would write the following to the store:")
		report.PrintOps(ctx.Out, dry.Recorder.Applied(), dryRunRows)
	}
	report.PrintSession(ctx.Out, session)

	if export != nil {
		if err := export.WriteFile(ctx, ctx.Export); err != nil {
			return fmt.Errorf("SeedCommunity: failed to export: %w", err)
		}
		log.Printf("Exported %d documents to %s", export.Len(), ctx.Export)
	}

	log.Printf("Seeded %d community settings", session.Committed)
	return nil
}

// DeleteCommunity removes every community setting.
func DeleteCommunity(ctx *Context) error {
	pctx := purge.NewContext(ctx.Context)
	pctx.DryRun = ctx.DryRun
	pctx.Force = ctx.Force
	pctx.NoProgress = ctx.NoProgress
	pctx.Store = ctx.Store
	pctx.Collection = community.SETTINGS_COLLECTION
	pctx.BatchSize = ctx.BatchSize
	pctx.Confirm = ctx.Confirm

	session, err := purge.Purge(pctx)
	if errors.Is(err, purge.ErrDeclined) {
		log.Print("Aborted: nothing was deleted")
		return nil
	}
	if err != nil {
		return fmt.Errorf("DeleteCommunity: %w", err)
	}
	if len(session.Batches) > 0 {
		report.PrintSession(ctx.Out, session)
	}
	return nil
}
