package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBookStorageContract checks the behaviors every storage driver must share.
// The store is expected to be empty on entry.
func testBookStorageContract(t *testing.T, store BookStorage) {
	ctx := context.Background()
	unassigned := "000000000000000000000000"

	t.Run("empty collection lists as empty slice", func(t *testing.T) {
		books, err := store.GetAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, books)
		assert.Len(t, books, 0)
	})

	var created Book
	t.Run("created book is found with same fields", func(t *testing.T) {
		var err error
		created, err = store.Add(ctx, Book{Name: "Dune", Price: 12.5, Category: "Fiction"})
		require.NoError(t, err)
		assert.Len(t, created.ID, BookIDLength)

		got, err := store.GetOne(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, Book{ID: created.ID, Name: "Dune", Price: 12.5, Category: "Fiction"}, got)
	})

	t.Run("preset id is rejected on creation", func(t *testing.T) {
		_, err := store.Add(ctx, Book{ID: unassigned, Name: "Preset"})
		assert.ErrorIs(t, err, ErrBookIDAssigned)
		_, err = store.GetOne(ctx, unassigned)
		assert.ErrorIs(t, err, ErrBookNotFound)
	})

	t.Run("listing contains all created books", func(t *testing.T) {
		second, err := store.Add(ctx, Book{Name: "Emma", Price: 7, Category: "Classic"})
		require.NoError(t, err)
		third, err := store.Add(ctx, Book{Name: "Ulysses", Price: 15, Category: "Modernist"})
		require.NoError(t, err)
		assert.NotEqual(t, second.ID, third.ID)

		books, err := store.GetAll(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []Book{created, second, third}, books)
	})

	t.Run("absent id is not found", func(t *testing.T) {
		_, err := store.GetOne(ctx, unassigned)
		assert.ErrorIs(t, err, ErrBookNotFound)
	})

	t.Run("replace updates every field of existing book", func(t *testing.T) {
		found, err := store.Replace(ctx, created.ID, Book{Name: "Dune Messiah", Price: 9, Category: "Sci-Fi"})
		require.NoError(t, err)
		assert.True(t, found)
		got, err := store.GetOne(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, Book{ID: created.ID, Name: "Dune Messiah", Price: 9, Category: "Sci-Fi"}, got)
	})

	t.Run("replace of absent id creates nothing", func(t *testing.T) {
		before, err := store.GetAll(ctx)
		require.NoError(t, err)
		found, err := store.Replace(ctx, unassigned, Book{Name: "Ghost"})
		require.NoError(t, err)
		assert.False(t, found)
		_, err = store.GetOne(ctx, unassigned)
		assert.ErrorIs(t, err, ErrBookNotFound)
		after, err := store.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, created.ID))
		_, err := store.GetOne(ctx, created.ID)
		assert.ErrorIs(t, err, ErrBookNotFound)
		assert.NoError(t, store.Delete(ctx, created.ID))
		assert.NoError(t, store.Delete(ctx, unassigned))
	})
}
