package batch

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/suspensionlab/seedtools/internal/store"
	"google.golang.org/api/iterator"
)

// MaxBatchSize is the largest number of writes a single atomic commit may carry.
const MaxBatchSize = 500

// Result describes one committed batch.
type Result struct {
	// Number is the 1-based position of the batch in the session.
	Number int
	// Size is the number of operations in the batch.
	Size int
	// Committed is the running total of committed operations including this batch.
	Committed int
}

// Session is the bookkeeping for a single drain of a Source.
type Session struct {
	// Total counts operations drawn from the source.
	Total int
	// Committed counts operations in successfully committed batches.
	Committed int
	// Batches holds the size of each committed batch, in commit order.
	Batches []int
}

// Complete reports whether every operation drawn from the source has been committed.
func (s *Session) Complete() bool {
	return s.Committed == s.Total
}

// Writer drains a Source into a Committer in bounded, sequential batches.
type Writer struct {
	Committer store.Committer

	// MaxBatchSize caps the operations per commit. Zero or less means MaxBatchSize.
	MaxBatchSize int

	// OnCommit, if set, is called after each successful commit.
	OnCommit func(Result)
}

// NewWriter returns a Writer using the default batch size.
func NewWriter(c store.Committer) *Writer {
	return &Writer{Committer: c, MaxBatchSize: MaxBatchSize}
}

func (w *Writer) batchSize() (int, error) {
	n := w.MaxBatchSize
	if n <= 0 {
		n = MaxBatchSize
	}
	if n > MaxBatchSize {
		return 0, fmt.Errorf("batch size %d exceeds the per-commit limit of %d", n, MaxBatchSize)
	}
	return n, nil
}

// Write commits every operation of src, flushing whenever MaxBatchSize operations have accumulated and once more for any trailing partial batch.
// On failure the returned Session reflects what was committed before the error.
func (w *Writer) Write(ctx context.Context, src Source) (*Session, error) {
	session := &Session{Batches: make([]int, 0)}
	n, err := w.batchSize()
	if err != nil {
		return session, err
	}

	pending := make([]store.Op, 0, n)
	for {
		op, err := src.Next(ctx)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return session, &SourceFailure{Committed: session.Committed, Err: err}
		}
		session.Total++
		pending = append(pending, op)

		if len(pending) >= n {
			if err := w.flush(ctx, session, pending); err != nil {
				return session, err
			}
			pending = make([]store.Op, 0, n)
		}
	}

	if len(pending) > 0 {
		if err := w.flush(ctx, session, pending); err != nil {
			return session, err
		}
	}

	return session, nil
}

func (w *Writer) flush(ctx context.Context, s *Session, ops []store.Op) error {
	if err := w.Committer.Commit(ctx, ops); err != nil {
		return &CommitFailure{Committed: s.Committed, Batch: ops, Err: err}
	}
	s.Committed += len(ops)
	s.Batches = append(s.Batches, len(ops))
	r := Result{Number: len(s.Batches), Size: len(ops), Committed: s.Committed}
	log.Printf("Committed batch %d of %d operations (%d total)", r.Number, r.Size, r.Committed)
	if w.OnCommit != nil {
		w.OnCommit(r)
	}
	return nil
}
