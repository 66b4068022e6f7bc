package seedproducts

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suspensionlab/seedtools/internal/batch"
	"github.com/suspensionlab/seedtools/internal/catalog"
	"github.com/suspensionlab/seedtools/internal/metadata"
	"github.com/suspensionlab/seedtools/internal/store"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func writeCatalog(t *testing.T, n int) string {
	t.Helper()
	products := make([]map[string]interface{}, n)
	for i := range products {
		typ := "fork"
		if i%2 == 1 {
			typ = "shock"
		}
		products[i] = map[string]interface{}{
			"brand": "Fox",
			"model": "Model " + strconv.Itoa(i),
			"year":  2023,
			"type":  typ,
		}
	}
	b, err := json.Marshal(products)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "suspension_products.json")
	require.NoError(t, os.WriteFile(path, b, 0o644))
	return path
}

func newTestContext(m *store.Memory, file string) *Context {
	ctx := NewContext(context.Background())
	ctx.Store = m
	ctx.File = file
	ctx.NoProgress = true
	ctx.Out = io.Discard
	ctx.Confirm = func(string) (bool, error) { return true, nil }
	return ctx
}

func newMemory() *store.Memory {
	m := store.NewMemory()
	m.Now = func() time.Time { return testNow }
	return m
}

func readMetadata(t *testing.T, m *store.Memory) map[string]interface{} {
	t.Helper()
	doc, err := m.Get(context.Background(), metadata.METADATA_COLLECTION, catalog.PRODUCTS_COLLECTION)
	require.NoError(t, err)
	return doc
}

func TestSeedProducts_Batches(t *testing.T) {
	m := newMemory()
	ctx := newTestContext(m, writeCatalog(t, 1200))

	require.NoError(t, SeedProducts(ctx))

	var sizes []int
	for _, c := range m.Commits() {
		sizes = append(sizes, len(c))
	}
	assert.Equal(t, []int{500, 500, 200}, sizes)
	assert.Equal(t, 1200, m.Len(catalog.PRODUCTS_COLLECTION))

	meta := readMetadata(t, m)
	assert.Equal(t, 1, meta["version"])
	assert.Equal(t, 1200, meta[COUNT_FIELD])
	assert.Equal(t, "seed_script", meta["updatedBy"])
	assert.Equal(t, DESCRIPTION, meta["description"])
	assert.Equal(t, ctx.File, meta["sourceFile"])
	assert.Len(t, meta["sourceChecksum"], 16)
	assert.Equal(t, testNow, meta["lastUpdated"])

	doc, err := m.Get(context.Background(), catalog.PRODUCTS_COLLECTION, "fox_model_0_2023_fork")
	require.NoError(t, err)
	assert.Equal(t, 1, doc["version"])
	assert.Equal(t, testNow, doc["createdAt"])
}

func TestSeedProducts_Reseed(t *testing.T) {
	m := newMemory()
	ctx := newTestContext(m, writeCatalog(t, 30))

	require.NoError(t, SeedProducts(ctx))
	first, err := m.ListIDs(context.Background(), catalog.PRODUCTS_COLLECTION)
	require.NoError(t, err)

	require.NoError(t, SeedProducts(ctx))
	second, err := m.ListIDs(context.Background(), catalog.PRODUCTS_COLLECTION)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, second, 30)
	assert.Equal(t, 2, readMetadata(t, m)["version"])

	doc, err := m.Get(context.Background(), catalog.PRODUCTS_COLLECTION, "fox_model_1_2023_shock")
	require.NoError(t, err)
	assert.Equal(t, 2, doc["version"])
}

func TestSeedProducts_CommitFailure(t *testing.T) {
	m := newMemory()
	m.Hook = func(n int, ops []store.Op) error {
		if n == 2 {
			return errors.New("resource exhausted")
		}
		return nil
	}
	ctx := newTestContext(m, writeCatalog(t, 1200))

	err := SeedProducts(ctx)
	var cf *batch.CommitFailure
	require.True(t, errors.As(err, &cf))
	assert.Equal(t, 500, cf.Committed)
	assert.Equal(t, 2, m.CommitCalls())

	_, err = m.Get(context.Background(), metadata.METADATA_COLLECTION, catalog.PRODUCTS_COLLECTION)
	var nf store.DocumentNotFound
	assert.True(t, errors.As(err, &nf), "metadata must not be written")
}

func TestSeedProducts_InvalidCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"brand":"Fox","model":"36","year":2023,"type":"fork"},{"brand":"Fox","year":2023,"type":"fork"}]`), 0o644))
	m := newMemory()

	err := SeedProducts(newTestContext(m, path))
	var se *catalog.SourceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 1, se.Index)
	assert.Zero(t, m.CommitCalls())
}

func TestSeedProducts_DryRun(t *testing.T) {
	m := newMemory()
	ctx := newTestContext(m, writeCatalog(t, 10))
	ctx.DryRun = true

	require.NoError(t, SeedProducts(ctx))
	assert.Zero(t, m.CommitCalls())
	assert.Zero(t, m.Len(catalog.PRODUCTS_COLLECTION))
	assert.Zero(t, m.Len(metadata.METADATA_COLLECTION))
}

func TestSeedProducts_Export(t *testing.T) {
	m := newMemory()
	ctx := newTestContext(m, writeCatalog(t, 5))
	ctx.Export = filepath.Join(t.TempDir(), "products.xlsx")

	require.NoError(t, SeedProducts(ctx))
	_, err := os.Stat(ctx.Export)
	assert.NoError(t, err)
}

func TestDeleteProducts(t *testing.T) {
	m := newMemory()
	ctx := newTestContext(m, writeCatalog(t, 600))
	require.NoError(t, SeedProducts(ctx))

	require.NoError(t, DeleteProducts(ctx))
	ids, err := m.ListIDs(context.Background(), catalog.PRODUCTS_COLLECTION)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Zero(t, m.Len(metadata.METADATA_COLLECTION))
}

func TestDeleteProducts_EmptyCollectionStillDeletesMetadata(t *testing.T) {
	m := newMemory()
	require.NoError(t, m.Set(context.Background(), metadata.METADATA_COLLECTION, catalog.PRODUCTS_COLLECTION, map[string]interface{}{"version": 4}))

	asked := 0
	ctx := newTestContext(m, "")
	ctx.Confirm = func(string) (bool, error) {
		asked++
		return true, nil
	}
	require.NoError(t, DeleteProducts(ctx))
	assert.Equal(t, 1, asked)
	assert.Zero(t, m.Len(metadata.METADATA_COLLECTION))
}

func TestDeleteProducts_EmptyCollectionDeclinedKeepsMetadata(t *testing.T) {
	m := newMemory()
	require.NoError(t, m.Set(context.Background(), metadata.METADATA_COLLECTION, catalog.PRODUCTS_COLLECTION, map[string]interface{}{"version": 4}))

	ctx := newTestContext(m, "")
	ctx.Confirm = func(string) (bool, error) { return false, nil }
	require.NoError(t, DeleteProducts(ctx))
	assert.Equal(t, 1, m.Len(metadata.METADATA_COLLECTION))

	got, err := m.Get(context.Background(), metadata.METADATA_COLLECTION, catalog.PRODUCTS_COLLECTION)
	require.NoError(t, err)
	assert.EqualValues(t, 4, got["version"])
}

func TestDeleteProducts_Declined(t *testing.T) {
	m := newMemory()
	ctx := newTestContext(m, writeCatalog(t, 10))
	require.NoError(t, SeedProducts(ctx))

	ctx.Confirm = func(string) (bool, error) { return false, nil }
	require.NoError(t, DeleteProducts(ctx))
	assert.Equal(t, 10, m.Len(catalog.PRODUCTS_COLLECTION))
	assert.Equal(t, 1, m.Len(metadata.METADATA_COLLECTION))
}

func TestDeleteProducts_DryRun(t *testing.T) {
	m := newMemory()
	ctx := newTestContext(m, writeCatalog(t, 10))
	require.NoError(t, SeedProducts(ctx))

	ctx.DryRun = true
	require.NoError(t, DeleteProducts(ctx))
	assert.Equal(t, 10, m.Len(catalog.PRODUCTS_COLLECTION))
	assert.Equal(t, 1, m.Len(metadata.METADATA_COLLECTION))
}
