package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinly/coinly/internal/model"
)

func newProfile() *Profile {
	return &Profile{Data: model.UserData{ID: "u1", Name: "Asha"}}
}

func TestMemoryStore_GetOrCreate(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	calls := 0
	init := func() *Profile {
		calls++
		return newProfile()
	}
	first, err := store.GetOrCreate(ctx, "u1", init)
	require.NoError(t, err)
	second, err := store.GetOrCreate(ctx, "u1", init)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestMemoryStore_UpdateIsAtomic(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()
	_, err := store.GetOrCreate(ctx, "u1", newProfile)
	require.NoError(t, err)

	_, err = store.Update(ctx, "u1", func(p *Profile) error {
		p.Data.CurrentBalance = decimal.NewFromInt(999)
		return errors.New("rejected")
	})
	require.Error(t, err)

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, got.Data.CurrentBalance.IsZero(), "failed update leaves nothing behind")

	updated, err := store.Update(ctx, "u1", func(p *Profile) error {
		p.Data.Transactions = append(p.Data.Transactions, model.Transaction{ID: "t1"})
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, updated.Data.Transactions, 1)

	updated.Data.Transactions[0].ID = "mutated"
	got, err = store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "t1", got.Data.Transactions[0].ID, "returned profiles are copies")

	_, err = store.Update(ctx, "missing", func(*Profile) error { return nil })
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestMemoryStore_BlogsNewestFirst(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, &model.Blog{ID: "b1"}))
	require.NoError(t, store.Create(ctx, &model.Blog{ID: "b2"}))

	blogs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, blogs, 2)
	assert.Equal(t, "b2", blogs[0].ID)
	assert.Equal(t, "b1", blogs[1].ID)
}
