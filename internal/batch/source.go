package batch

import (
	"context"

	"github.com/suspensionlab/seedtools/internal/store"
	"google.golang.org/api/iterator"
)

// Source produces an ordered, finite sequence of operations.
// Next returns iterator.Done once the sequence is exhausted.
type Source interface {
	Next(ctx context.Context) (store.Op, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (store.Op, error)

func (f SourceFunc) Next(ctx context.Context) (store.Op, error) {
	return f(ctx)
}

type sliceSource struct {
	ops []store.Op
	i   int
}

// Ops returns a Source over a fixed list of operations.
func Ops(ops ...store.Op) Source {
	return &sliceSource{ops: ops}
}

func (s *sliceSource) Next(ctx context.Context) (store.Op, error) {
	if s.i >= len(s.ops) {
		return store.Op{}, iterator.Done
	}
	op := s.ops[s.i]
	s.i++
	return op, nil
}

// Deletes returns a Source that deletes every listed document of a collection.
func Deletes(collection string, ids []string) Source {
	i := 0
	return SourceFunc(func(ctx context.Context) (store.Op, error) {
		if i >= len(ids) {
			return store.Op{}, iterator.Done
		}
		op := store.DeleteOp(collection, ids[i])
		i++
		return op, nil
	})
}

// Tee returns a Source that passes every operation of src to f before yielding it.
func Tee(src Source, f func(store.Op)) Source {
	return SourceFunc(func(ctx context.Context) (store.Op, error) {
		op, err := src.Next(ctx)
		if err == nil {
			f(op)
		}
		return op, err
	})
}
