package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Store. It records every committed batch so callers can inspect how a run was split.
type Memory struct {
	// Now resolves ServerTimestamp placeholders. Defaults to time.Now.
	Now func() time.Time

	// NewID generates identifiers for Set operations without one. Defaults to random UUIDs.
	NewID func() string

	// Hook, if set, is called before the n-th (1-based) commit is applied. A non-nil return fails the commit without applying it.
	Hook func(n int, ops []Op) error

	mu      sync.Mutex
	docs    map[string]map[string]map[string]interface{}
	commits [][]Op
	calls   int
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		Now:   time.Now,
		NewID: uuid.NewString,
		docs:  make(map[string]map[string]map[string]interface{}),
	}
}

// Commit applies ops atomically.
func (m *Memory) Commit(ctx context.Context, ops []Op) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	for _, op := range ops {
		if err := op.Validate(); err != nil {
			return err
		}
	}
	if m.Hook != nil {
		if err := m.Hook(m.calls, ops); err != nil {
			return err
		}
	}

	now := m.now()
	applied := make([]Op, len(ops))
	for i, op := range ops {
		if op.Kind == Set && op.ID == "" {
			op.ID = m.newID()
		}
		if op.Kind == Set {
			op.Payload = resolve(op.Payload, now)
		}
		applied[i] = op
	}
	for _, op := range applied {
		m.apply(op)
	}
	m.commits = append(m.commits, applied)
	return nil
}

// Get returns a copy of the document's fields.
func (m *Memory) Get(ctx context.Context, collection, id string) (map[string]interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[collection][id]
	if !ok {
		return nil, DocumentNotFound(collection + "/" + id)
	}
	return copyMap(doc), nil
}

// Set writes a single document.
func (m *Memory) Set(ctx context.Context, collection, id string, payload map[string]interface{}) error {
	op := SetOp(collection, id, payload)
	if err := op.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if op.ID == "" {
		op.ID = m.newID()
	}
	op.Payload = resolve(op.Payload, m.now())
	m.apply(op)
	return nil
}

// Delete removes a single document.
func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	op := DeleteOp(collection, id)
	if err := op.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apply(op)
	return nil
}

// ListIDs returns the document identifiers of a collection in lexical order.
func (m *Memory) ListIDs(ctx context.Context, collection string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.docs[collection]))
	for id := range m.docs[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}

// Commits returns the batches applied so far, in order, with generated IDs filled in.
func (m *Memory) Commits() [][]Op {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]Op, len(m.commits))
	copy(out, m.commits)
	return out
}

// Applied returns every operation of every applied batch, in commit order.
func (m *Memory) Applied() []Op {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ops []Op
	for _, b := range m.commits {
		ops = append(ops, b...)
	}
	return ops
}

// CommitCalls counts every call to Commit, including failed ones.
func (m *Memory) CommitCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Len returns the number of documents in a collection.
func (m *Memory) Len(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs[collection])
}

func (m *Memory) apply(op Op) {
	switch op.Kind {
	case Set:
		if m.docs == nil {
			m.docs = make(map[string]map[string]map[string]interface{})
		}
		col, ok := m.docs[op.Collection]
		if !ok {
			col = make(map[string]map[string]interface{})
			m.docs[op.Collection] = col
		}
		col[op.ID] = op.Payload
	case Delete:
		delete(m.docs[op.Collection], op.ID)
	}
}

func (m *Memory) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

func (m *Memory) newID() string {
	if m.NewID == nil {
		return uuid.NewString()
	}
	return m.NewID()
}

// resolve deep-copies a payload, replacing ServerTimestamp with t.
func resolve(payload map[string]interface{}, t time.Time) map[string]interface{} {
	return MapServerTimestamps(payload, func() interface{} { return t })
}

func copyMap(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		if vv, ok := v.(map[string]interface{}); ok {
			out[k] = copyMap(vv)
			continue
		}
		out[k] = v
	}
	return out
}

// MapServerTimestamps deep-copies a payload, replacing every ServerTimestamp placeholder with the value returned by f.
func MapServerTimestamps(payload map[string]interface{}, f func() interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(payload))
	for k, v := range payload {
		switch vv := v.(type) {
		case sentinel:
			if vv == ServerTimestamp {
				out[k] = f()
				continue
			}
			out[k] = vv
		case map[string]interface{}:
			out[k] = MapServerTimestamps(vv, f)
		default:
			out[k] = vv
		}
	}
	return out
}
