package main

import (
	"context"

	"go.uber.org/zap"
)

type BookServiceProvider interface {
	GetAll(ctx context.Context) ([]Book, error)
	GetOne(ctx context.Context, id string) (Book, error)
	Add(ctx context.Context, book Book) (Book, error)
	Replace(ctx context.Context, id string, book Book) (bool, error)
	Delete(ctx context.Context, id string) error
}

// BookService forwards each call to the storage. When a queue is
// set, successful changes are also published for the snapshot mirror.
type BookService struct {
	logger  *zap.Logger
	storage BookStorage
	queue   Queuer
}

// NewBookService provides a book service. The queue may be nil.
func NewBookService(logger *zap.Logger, storage BookStorage, queue Queuer) BookServiceProvider {
	return &BookService{
		logger:  logger,
		storage: storage,
		queue:   queue,
	}
}

func (bs *BookService) GetAll(ctx context.Context) ([]Book, error) {
	return bs.storage.GetAll(ctx)
}

func (bs *BookService) GetOne(ctx context.Context, id string) (Book, error) {
	return bs.storage.GetOne(ctx, id)
}

func (bs *BookService) Add(ctx context.Context, book Book) (Book, error) {
	book, err := bs.storage.Add(ctx, book)
	if err == nil {
		bs.publish(ctx, CreateQueue, book)
	}
	return book, err
}

func (bs *BookService) Replace(ctx context.Context, id string, book Book) (bool, error) {
	found, err := bs.storage.Replace(ctx, id, book)
	if err == nil && found {
		book.ID = id
		bs.publish(ctx, UpdateQueue, book)
	}
	return found, err
}

func (bs *BookService) Delete(ctx context.Context, id string) error {
	err := bs.storage.Delete(ctx, id)
	if err == nil {
		bs.publish(ctx, DeleteQueue, Book{ID: id})
	}
	return err
}

func (bs *BookService) publish(ctx context.Context, qid string, book Book) {
	if bs.queue == nil {
		return
	}
	if err := bs.queue.Push(ctx, qid, book); err != nil {
		bs.logger.Error("service: failed to push book to queue", zap.String("qid", qid), zap.String("book.id", book.ID), zap.Error(err))
	}
}
