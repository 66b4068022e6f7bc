package firestore

import (
	"context"
	"errors"
	"os"
	"testing"

	fs "cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suspensionlab/seedtools/internal/store"
)

func TestFields(t *testing.T) {
	got := fields(map[string]interface{}{
		"brand":     "Fox",
		"createdAt": store.ServerTimestamp,
		"location":  map[string]interface{}{"seen": store.ServerTimestamp},
	})
	assert.Equal(t, fs.ServerTimestamp, got["createdAt"])
	assert.Equal(t, fs.ServerTimestamp, got["location"].(map[string]interface{})["seen"])
	assert.Equal(t, "Fox", got["brand"])
}

func TestNewStore_NoProject(t *testing.T) {
	_, err := NewStore(context.Background(), "", "")
	var se *store.SetupError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "firestore", se.Backend)
}

// TestStore_Emulator runs against the Firestore emulator when FIRESTORE_EMULATOR_HOST is set.
func TestStore_Emulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx := context.Background()
	s, err := NewStore(ctx, "seedtools-test", "")
	require.NoError(t, err)
	defer s.Close()

	err = s.Commit(ctx, []store.Op{
		store.SetOp("emulator_products", "fox_36_2023_fork", map[string]interface{}{"brand": "Fox", "createdAt": store.ServerTimestamp}),
		store.SetOp("emulator_products", "", map[string]interface{}{"brand": "Ohlins"}),
	})
	require.NoError(t, err)

	doc, err := s.Get(ctx, "emulator_products", "fox_36_2023_fork")
	require.NoError(t, err)
	assert.Equal(t, "Fox", doc["brand"])

	ids, err := s.ListIDs(ctx, "emulator_products")
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	ops := make([]store.Op, len(ids))
	for i, id := range ids {
		ops[i] = store.DeleteOp("emulator_products", id)
	}
	require.NoError(t, s.Commit(ctx, ops))

	_, err = s.Get(ctx, "emulator_products", "fox_36_2023_fork")
	var nf store.DocumentNotFound
	assert.True(t, errors.As(err, &nf))
}
