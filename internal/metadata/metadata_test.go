package metadata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suspensionlab/seedtools/internal/store"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestUpdater() (*Updater, *store.Memory) {
	m := store.NewMemory()
	m.Now = func() time.Time { return testNow }
	return NewUpdater(m, "suspension_products", "totalProducts", "Suspension products"), m
}

func TestCurrent_Absent(t *testing.T) {
	u, _ := newTestUpdater()
	v, err := u.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	md, err := u.Read(context.Background())
	require.NoError(t, err)
	assert.Nil(t, md)
}

func TestWriteRead(t *testing.T) {
	ctx := context.Background()
	u, m := newTestUpdater()
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, u.Write(ctx, Version{Version: 3, Total: 1200, Checksum: "abc", SourceFile: "gs://b/p.json", SourceCreated: created}))

	doc, err := m.Get(ctx, METADATA_COLLECTION, "suspension_products")
	require.NoError(t, err)
	assert.Equal(t, 3, doc["version"])
	assert.Equal(t, 1200, doc["totalProducts"])
	assert.Equal(t, testNow, doc["lastUpdated"])
	assert.Equal(t, "seed_script", doc["updatedBy"])
	assert.Equal(t, "Suspension products", doc["description"])
	assert.Equal(t, "abc", doc["sourceChecksum"])

	v, err := u.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Version{
		Version:       3,
		Total:         1200,
		LastUpdated:   testNow,
		Checksum:      "abc",
		SourceFile:    "gs://b/p.json",
		SourceCreated: created,
	}, v)

	// no commits: metadata is never batched
	assert.Zero(t, m.CommitCalls())
}

func TestFields_OmitsEmptySource(t *testing.T) {
	u, _ := newTestUpdater()
	f := u.Fields(Version{Version: 1, Total: 2})
	assert.NotContains(t, f, "sourceChecksum")
	assert.NotContains(t, f, "sourceFile")
	assert.NotContains(t, f, "sourceCreated")
	assert.Equal(t, store.ServerTimestamp, f["lastUpdated"])
}

func TestCurrent_NumericTypes(t *testing.T) {
	ctx := context.Background()
	for _, v := range []interface{}{7, int32(7), int64(7), 7.0} {
		u, m := newTestUpdater()
		require.NoError(t, m.Set(ctx, METADATA_COLLECTION, "suspension_products", map[string]interface{}{"version": v}))
		got, err := u.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, 7, got, "%T", v)
	}
}

func TestCurrent_MissingVersionField(t *testing.T) {
	ctx := context.Background()
	u, m := newTestUpdater()
	require.NoError(t, m.Set(ctx, METADATA_COLLECTION, "suspension_products", map[string]interface{}{"description": "legacy"}))
	got, err := u.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	u, m := newTestUpdater()
	require.NoError(t, u.Delete(ctx))

	require.NoError(t, u.Write(ctx, Version{Version: 1, Total: 1}))
	require.NoError(t, u.Delete(ctx))
	_, err := m.Get(ctx, METADATA_COLLECTION, "suspension_products")
	var nf store.DocumentNotFound
	assert.True(t, errors.As(err, &nf))
}

type failingStore struct {
	*store.Memory
}

func (failingStore) Get(ctx context.Context, collection, id string) (map[string]interface{}, error) {
	return nil, errors.New("unavailable")
}

func TestRead_Error(t *testing.T) {
	u := NewUpdater(failingStore{store.NewMemory()}, "suspension_products", "totalProducts", "")
	_, err := u.Current(context.Background())
	assert.Error(t, err)
}
