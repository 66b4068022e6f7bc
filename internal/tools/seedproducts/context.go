package seedproducts

import (
	"context"
	"io"
	"os"

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

	// File is the catalog to load, a local path or gs:// URL.
	File      string
	BatchSize int
	Export    string

	// Confirm approves a purge. Defaults to an interactive prompt.
	Confirm func(message string) (bool, error)
	// Out receives printed tables.
	Out io.Writer
}

func NewContext(ctx context.Context) *Context {
	return &Context{
		Context:   ctx,
		File:      "assets/data/suspension_products.json",
		BatchSize: batch.MaxBatchSize,
		Confirm:   purge.SurveyConfirm,
		Out:       os.Stdout,
	}
}
