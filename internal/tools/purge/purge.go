// Package purge deletes every document of a collection in bounded batches.
package purge

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	log "github.com/sirupsen/logrus"
	"github.com/suspensionlab/seedtools/internal/batch"
	"github.com/suspensionlab/seedtools/internal/report"
	"github.com/suspensionlab/seedtools/internal/store"
)

// ErrDeclined is returned when the operator does not confirm a deletion.
var ErrDeclined = errors.New("deletion not confirmed")

// SurveyConfirm asks a yes/no question on the terminal. The default answer is no.
func SurveyConfirm(message string) (bool, error) {
	q := &survey.Confirm{
		Message: message,
		Default: false,
	}
	var ok bool
	err := survey.AskOne(q, &ok)
	return ok, err
}

// Purge lists the documents of ctx.Collection and deletes them all.
// Unless ctx.Force or ctx.DryRun is set, the operator must confirm first.
func Purge(ctx *Context) (*batch.Session, error) {
	ids, err := ctx.Store.ListIDs(ctx, ctx.Collection)
	if err != nil {
		return nil, fmt.Errorf("Purge: failed to list %s: %w", ctx.Collection, err)
	}

	if len(ids) == 0 && ctx.Also == "" {
		log.Printf("No documents found in %s. Nothing to delete.", ctx.Collection)
		return &batch.Session{Batches: make([]int, 0)}, nil
	}
	log.Printf("Found %d documents to delete in %s", len(ids), ctx.Collection)

	s := ctx.Store
	if ctx.DryRun {
		s = store.NewDryRun(s)
	} else if !ctx.Force {
		confirm := ctx.Confirm
		if confirm == nil {
			confirm = SurveyConfirm
		}
		ok, err := confirm(confirmMessage(ctx, len(ids)))
		if err != nil {
			return nil, fmt.Errorf("Purge: failed to confirm: %w", err)
		}
		if !ok {
			return nil, ErrDeclined
		}
	}

	if len(ids) == 0 {
		return &batch.Session{Batches: make([]int, 0)}, nil
	}

	bar := report.NewProgress(len(ids), "deleting "+ctx.Collection, ctx.NoProgress)
	w := batch.NewWriter(s)
	w.MaxBatchSize = ctx.BatchSize
	w.OnCommit = report.Advance(bar)

	session, err := w.Write(ctx, batch.Deletes(ctx.Collection, ids))
	bar.Finish()
	if err != nil {
		return session, fmt.Errorf("Purge: failed to delete from %s: %w", ctx.Collection, err)
	}

	if ctx.DryRun {
		log.Printf("DRY RUN: would have deleted %d documents from %s", session.Committed, ctx.Collection)
	} else {
		log.Printf("Deleted %d documents from %s", session.Committed, ctx.Collection)
	}
	return session, nil
}

func confirmMessage(ctx *Context, n int) string {
	msg := fmt.Sprintf("Permanently delete all %d documents in %s", n, ctx.Collection)
	if ctx.Also != "" {
		msg += " and " + ctx.Also
	}
	return msg + "?"
}
