package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	_ BookStorage     = (*boltBookStorage)(nil)
	_ BookSnapshotter = (*boltBookStorage)(nil)
)

type boltBookStorage struct {
	logger *zap.Logger
	client *bolt.DB
	bucket []byte
}

// GetBoltDBClient opens the database file, ensures the bucket exists and provides a ready to use client.
func GetBoltDBClient(path string, config *BoltDBConfig) (*bolt.DB, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: config.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, errB := tx.CreateBucketIfNotExists([]byte(config.BucketName)); errB != nil {
			return fmt.Errorf("failed to create %s bucket: %v", config.BucketName, errB)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set up bucket: %v", err)
	}
	return db, nil
}

// NewBoltBookStorage provides an instance of bolt-based book storage.
func NewBoltBookStorage(logger *zap.Logger, bucketName string, client *bolt.DB) *boltBookStorage {
	return &boltBookStorage{
		logger: logger,
		client: client,
		bucket: []byte(bucketName),
	}
}

// Close shuts down the bolt-based book storage.
func (bs *boltBookStorage) Close() error {
	return bs.client.Close()
}

// GetAll retrieves all books of the bucket, ordered by id.
func (bs *boltBookStorage) GetAll(_ context.Context) ([]Book, error) {
	tx, err := bs.client.Begin(false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	books := []Book{}
	c := tx.Bucket(bs.bucket).Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var book Book
		if err = json.Unmarshal(v, &book); err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, nil
}

// GetOne retrieves a book record based on its ID from boltdb store.
func (bs *boltBookStorage) GetOne(_ context.Context, id string) (Book, error) {
	var book Book
	tx, err := bs.client.Begin(false)
	if err != nil {
		return book, err
	}
	defer tx.Rollback()

	result := tx.Bucket(bs.bucket).Get([]byte(id))
	if result == nil {
		return book, ErrBookNotFound
	}
	err = json.Unmarshal(result, &book)
	return book, err
}

// Add inserts a new book record under a newly generated id.
func (bs *boltBookStorage) Add(ctx context.Context, book Book) (Book, error) {
	if book.ID != "" {
		return book, ErrBookIDAssigned
	}
	book.ID = primitive.NewObjectID().Hex()
	if err := bs.Put(ctx, book); err != nil {
		return Book{}, err
	}
	return book, nil
}

// Replace overwrites the book at id inside a single update transaction.
func (bs *boltBookStorage) Replace(_ context.Context, id string, book Book) (bool, error) {
	book.ID = id
	data, err := json.Marshal(book)
	if err != nil {
		return false, err
	}
	var found bool
	err = bs.client.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bs.bucket)
		if b.Get([]byte(id)) == nil {
			return nil
		}
		found = true
		return b.Put([]byte(id), data)
	})
	return found, err
}

// Delete removes a book record based on its ID from boltdb store.
func (bs *boltBookStorage) Delete(ctx context.Context, id string) error {
	return bs.Remove(ctx, id)
}

// Put writes the book under its own id, creating or overwriting it.
func (bs *boltBookStorage) Put(_ context.Context, book Book) error {
	data, err := json.Marshal(book)
	if err != nil {
		return err
	}
	return bs.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bs.bucket).Put([]byte(book.ID), data)
	})
}

// Remove deletes the key id. Bolt ignores missing keys.
func (bs *boltBookStorage) Remove(_ context.Context, id string) error {
	return bs.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bs.bucket).Delete([]byte(id))
	})
}
