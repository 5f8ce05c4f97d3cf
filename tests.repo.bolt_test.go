package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoltStore(t *testing.T) {
	testBookStorageContract(t, newTestBoltStore(t))
}

// Ensure the bolt store keeps books with external ids when used as snapshot.
func TestBoltStore_Snapshot(t *testing.T) {
	bs := newTestBoltStore(t)
	ctx := context.Background()

	b := Book{ID: testBookID, Name: "Dune", Price: 12.5, Category: "Fiction"}
	require.NoError(t, bs.Put(ctx, b))
	got, err := bs.GetOne(ctx, testBookID)
	require.NoError(t, err)
	assert.Equal(t, b, got)

	b.Price = 14
	require.NoError(t, bs.Put(ctx, b))
	got, err = bs.GetOne(ctx, testBookID)
	require.NoError(t, err)
	assert.Equal(t, 14.0, got.Price)

	require.NoError(t, bs.Remove(ctx, testBookID))
	require.NoError(t, bs.Remove(ctx, testBookID))
	_, err = bs.GetOne(ctx, testBookID)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

// Ensure data survives a reopening of the file.
func TestBoltStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.db")
	config := &BoltDBConfig{Timeout: time.Second, BucketName: "books"}

	client, err := GetBoltDBClient(path, config)
	require.NoError(t, err)
	bs := NewBoltBookStorage(nil, config.BucketName, client)
	created, err := bs.Add(context.Background(), Book{Name: "Dune"})
	require.NoError(t, err)
	require.NoError(t, bs.Close())

	client, err = GetBoltDBClient(path, config)
	require.NoError(t, err)
	bs = NewBoltBookStorage(nil, config.BucketName, client)
	defer bs.Close()
	got, err := bs.GetOne(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

// Ensure opening fails when the path cannot hold a database file.
func TestGetBoltDBClient_InvalidPath(t *testing.T) {
	config := &BoltDBConfig{Timeout: time.Second, BucketName: "books"}
	_, err := GetBoltDBClient(filepath.Join(t.TempDir(), "missing", "books.db"), config)
	assert.Error(t, err)
}
