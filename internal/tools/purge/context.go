package purge

import (
	"context"

	"github.com/suspensionlab/seedtools/internal/batch"
	"github.com/suspensionlab/seedtools/internal/store"
)

type Context struct {
	context.Context

	DryRun     bool
	Force      bool
	NoProgress bool
	Store      store.Store
	Collection string
	BatchSize  int

	// Also names documents the caller deletes after the collection. When set, the operator is asked even if the collection is empty.
	Also string

	// Confirm asks the operator to approve the deletion. Defaults to an interactive prompt.
	Confirm func(message string) (bool, error)
}

func NewContext(ctx context.Context) *Context {
	return &Context{Context: ctx, BatchSize: batch.MaxBatchSize, Confirm: SurveyConfirm}
}
