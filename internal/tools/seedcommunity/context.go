package seedcommunity

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/suspensionlab/seedtools/internal/batch"
	"github.com/suspensionlab/seedtools/internal/store"
	"github.com/suspensionlab/seedtools/internal/tools/purge"
)

type Context struct {
	context.Context

	DryRun     bool
	Force      bool
	NoProgress bool
	Store      store.Store

	Count     int
	Seed      int64
	BatchSize int
	Export    string

	// Now is the clock creation dates are drawn back from.
	Now func() time.Time
	// Confirm approves a purge. Defaults to an interactive prompt.
	Confirm func(message string) (bool, error)
	// Out receives printed tables.
	Out io.Writer
}

func NewContext(ctx context.Context) *Context {
	return &Context{
		Context:   ctx,
		Count:     50,
		Seed:      -1,
		BatchSize: batch.MaxBatchSize,
		Now:       time.Now,
		Confirm:   purge.SurveyConfirm,
		Out:       os.Stdout,
	}
}
