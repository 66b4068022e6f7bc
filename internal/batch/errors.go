package batch

import (
	"fmt"

	"github.com/suspensionlab/seedtools/internal/store"
)

// CommitFailure is returned when the store rejects a batch. Nothing from the failed batch was applied.
type CommitFailure struct {
	// Committed counts operations from earlier batches that were applied.
	Committed int
	// Batch is the rejected batch.
	Batch []store.Op
	Err   error
}

func (e *CommitFailure) Error() string {
	return fmt.Sprintf("batch of %d operations failed after %d operations committed: %v", len(e.Batch), e.Committed, e.Err)
}

func (e *CommitFailure) Unwrap() error {
	return e.Err
}

// SourceFailure is returned when the source errors mid-run.
type SourceFailure struct {
	Committed int
	Err       error
}

func (e *SourceFailure) Error() string {
	return fmt.Sprintf("record source failed after %d operations committed: %v", e.Committed, e.Err)
}

func (e *SourceFailure) Unwrap() error {
	return e.Err
}
