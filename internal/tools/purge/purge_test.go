package purge

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suspensionlab/seedtools/internal/store"
)

func filled(t *testing.T, n int) *store.Memory {
	t.Helper()
	m := store.NewMemory()
	for i := 0; i < n; i++ {
		require.NoError(t, m.Set(context.Background(), "community_settings", fmt.Sprintf("%05d", i), map[string]interface{}{"i": i}))
	}
	require.NoError(t, m.Set(context.Background(), "other", "keep", map[string]interface{}{}))
	return m
}

func newTestContext(m *store.Memory) (*Context, *int) {
	asked := 0
	ctx := NewContext(context.Background())
	ctx.Store = m
	ctx.Collection = "community_settings"
	ctx.NoProgress = true
	ctx.Confirm = func(string) (bool, error) {
		asked++
		return true, nil
	}
	return ctx, &asked
}

func TestPurge_Confirmed(t *testing.T) {
	m := filled(t, 1200)
	ctx, asked := newTestContext(m)

	session, err := Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, *asked)
	assert.Equal(t, []int{500, 500, 200}, session.Batches)
	assert.True(t, session.Complete())

	ids, err := m.ListIDs(context.Background(), "community_settings")
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Equal(t, 1, m.Len("other"))
}

func TestPurge_Force(t *testing.T) {
	m := filled(t, 10)
	ctx, asked := newTestContext(m)
	ctx.Force = true

	_, err := Purge(ctx)
	require.NoError(t, err)
	assert.Zero(t, *asked)
	assert.Zero(t, m.Len("community_settings"))
}

func TestPurge_Declined(t *testing.T) {
	m := filled(t, 10)
	ctx, _ := newTestContext(m)
	ctx.Confirm = func(string) (bool, error) { return false, nil }

	_, err := Purge(ctx)
	assert.ErrorIs(t, err, ErrDeclined)
	assert.Zero(t, m.CommitCalls())
	assert.Equal(t, 10, m.Len("community_settings"))
}

func TestPurge_ConfirmError(t *testing.T) {
	m := filled(t, 10)
	ctx, _ := newTestContext(m)
	ctx.Confirm = func(string) (bool, error) { return false, errors.New("interrupt") }

	_, err := Purge(ctx)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrDeclined)
	assert.Zero(t, m.CommitCalls())
}

func TestPurge_DryRun(t *testing.T) {
	m := filled(t, 600)
	ctx, asked := newTestContext(m)
	ctx.DryRun = true

	session, err := Purge(ctx)
	require.NoError(t, err)
	assert.Zero(t, *asked)
	assert.Equal(t, []int{500, 100}, session.Batches)
	assert.Zero(t, m.CommitCalls())
	assert.Equal(t, 600, m.Len("community_settings"))
}

func TestPurge_Empty(t *testing.T) {
	m := store.NewMemory()
	ctx, asked := newTestContext(m)

	session, err := Purge(ctx)
	require.NoError(t, err)
	assert.Zero(t, *asked)
	assert.Zero(t, session.Committed)
	assert.Zero(t, m.CommitCalls())
}

func TestPurge_CommitFailure(t *testing.T) {
	m := filled(t, 1200)
	m.Hook = func(n int, ops []store.Op) error {
		if n == 2 {
			return errors.New("quota exceeded")
		}
		return nil
	}
	ctx, _ := newTestContext(m)

	session, err := Purge(ctx)
	require.Error(t, err)
	assert.Equal(t, 500, session.Committed)
	assert.Equal(t, 700, m.Len("community_settings"))
}

func TestPurge_EmptyWithFollowUp(t *testing.T) {
	m := store.NewMemory()
	ctx, asked := newTestContext(m)
	ctx.Also = "metadata/community_settings"
	var message string
	ctx.Confirm = func(msg string) (bool, error) {
		*asked++
		message = msg
		return true, nil
	}

	session, err := Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, *asked)
	assert.Equal(t, "Permanently delete all 0 documents in community_settings and metadata/community_settings?", message)
	assert.Zero(t, session.Committed)
	assert.Zero(t, m.CommitCalls())

	ctx.Confirm = func(string) (bool, error) { return false, nil }
	_, err = Purge(ctx)
	assert.ErrorIs(t, err, ErrDeclined)
}
