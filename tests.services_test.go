package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestBookServicePublishing ensures only successful changes reach the queue.
func TestBookServicePublishing(t *testing.T) {
	ctx := context.Background()
	storage := &MockBookStorage{
		AddFunc: func(ctx context.Context, book Book) (Book, error) {
			book.ID = testBookID
			return book, nil
		},
		ReplaceFunc: func(ctx context.Context, id string, book Book) (bool, error) {
			return id == testBookID, nil
		},
		DeleteFunc: func(ctx context.Context, id string) error {
			return nil
		},
	}

	t.Run("changes are published", func(t *testing.T) {
		q := NewMockQueuer()
		bs := NewBookService(zap.NewNop(), storage, q)

		created, err := bs.Add(ctx, Book{Name: "Dune"})
		require.NoError(t, err)
		found, err := bs.Replace(ctx, testBookID, Book{Name: "Dune Messiah"})
		require.NoError(t, err)
		assert.True(t, found)
		require.NoError(t, bs.Delete(ctx, testBookID))

		assert.Equal(t, []queuedBook{
			{CreateQueue, created},
			{UpdateQueue, Book{ID: testBookID, Name: "Dune Messiah"}},
			{DeleteQueue, Book{ID: testBookID}},
		}, q.Pushed())
	})

	t.Run("unmatched replace is not published", func(t *testing.T) {
		q := NewMockQueuer()
		bs := NewBookService(zap.NewNop(), storage, q)
		found, err := bs.Replace(ctx, "000000000000000000000000", Book{Name: "Ghost"})
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, q.Pushed())
	})

	t.Run("storage failures are not published", func(t *testing.T) {
		q := NewMockQueuer()
		failing := &MockBookStorage{
			AddFunc: func(ctx context.Context, book Book) (Book, error) {
				return Book{}, errors.New("storage failure")
			},
			DeleteFunc: func(ctx context.Context, id string) error {
				return errors.New("storage failure")
			},
		}
		bs := NewBookService(zap.NewNop(), failing, q)
		_, err := bs.Add(ctx, Book{Name: "Dune"})
		assert.Error(t, err)
		assert.Error(t, bs.Delete(ctx, testBookID))
		assert.Empty(t, q.Pushed())
	})

	t.Run("queue failure does not fail the request", func(t *testing.T) {
		q := NewMockQueuer()
		q.PushErr = errors.New("queue down")
		bs := NewBookService(zap.NewNop(), storage, q)
		created, err := bs.Add(ctx, Book{Name: "Dune"})
		assert.NoError(t, err)
		assert.Equal(t, testBookID, created.ID)
	})

	t.Run("nil queue is allowed", func(t *testing.T) {
		bs := NewBookService(zap.NewNop(), storage, nil)
		_, err := bs.Add(ctx, Book{Name: "Dune"})
		assert.NoError(t, err)
		assert.NoError(t, bs.Delete(ctx, testBookID))
	})
}
