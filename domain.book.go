package main

import (
	"context"
	"errors"
)

var (
	// ErrBookNotFound is returned when no record matches a given book id.
	ErrBookNotFound = errors.New("book not found")
	// ErrBookIDAssigned is returned when a caller tries to insert a book which already
	// carries an id. Identifiers are only assigned by the storage layer.
	ErrBookIDAssigned = errors.New("book id must be empty on creation")
)

// BookIDLength is the exact size of a book identifier. Ids are hex-encoded object ids.
const BookIDLength = 24

// Book represents a book entity.
type Book struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// BookStorage defines possible operations on the book collection.
// Each call is a single round trip to the underlying store.
type BookStorage interface {
	// GetAll returns every stored book. An empty collection gives an empty slice.
	GetAll(ctx context.Context) ([]Book, error)
	// GetOne returns ErrBookNotFound when the id matches nothing.
	GetOne(ctx context.Context, id string) (Book, error)
	// Add stores a new book and returns it with its assigned id.
	Add(ctx context.Context, book Book) (Book, error)
	// Replace overwrites the book at id. It reports false and creates
	// nothing when no record exists with that id.
	Replace(ctx context.Context, id string, book Book) (bool, error)
	// Delete removes the book at id. Missing ids are not an error.
	Delete(ctx context.Context, id string) error
}

// BookSnapshotter is implemented by stores able to mirror books
// with ids assigned elsewhere.
type BookSnapshotter interface {
	Put(ctx context.Context, book Book) error
	Remove(ctx context.Context, id string) error
}
