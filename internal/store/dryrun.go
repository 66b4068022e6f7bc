package store

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// DryRun reads from an underlying Store but diverts every write into an in-memory Recorder.
type DryRun struct {
	reader   Store
	Recorder *Memory
}

// NewDryRun wraps s so that nothing is ever written to it.
func NewDryRun(s Store) *DryRun {
	return &DryRun{reader: s, Recorder: NewMemory()}
}

func (d *DryRun) Commit(ctx context.Context, ops []Op) error {
	log.Printf("DRY RUN: would commit batch of %d operations", len(ops))
	for _, op := range ops {
		log.Debugf("DRY RUN: %s", op)
	}
	return d.Recorder.Commit(ctx, ops)
}

func (d *DryRun) Get(ctx context.Context, collection, id string) (map[string]interface{}, error) {
	return d.reader.Get(ctx, collection, id)
}

func (d *DryRun) Set(ctx context.Context, collection, id string, payload map[string]interface{}) error {
	log.Printf("DRY RUN: would set %s/%s: %+v", collection, id, payload)
	return d.Recorder.Set(ctx, collection, id, payload)
}

func (d *DryRun) Delete(ctx context.Context, collection, id string) error {
	log.Printf("DRY RUN: would delete %s/%s", collection, id)
	return d.Recorder.Delete(ctx, collection, id)
}

func (d *DryRun) ListIDs(ctx context.Context, collection string) ([]string, error) {
	return d.reader.ListIDs(ctx, collection)
}

// Close closes the underlying store.
func (d *DryRun) Close() error {
	return d.reader.Close()
}
