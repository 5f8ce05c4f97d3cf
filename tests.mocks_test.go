package main

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// This file contains mocks definitions needed to perform unit tests.

// testBookID is a well-formed book id used across handlers tests.
const testBookID = "64b6c5e1f1a2b3c4d5e6f708"

type MockBookStorage struct {
	GetAllFunc  func(ctx context.Context) ([]Book, error)
	GetOneFunc  func(ctx context.Context, id string) (Book, error)
	AddFunc     func(ctx context.Context, book Book) (Book, error)
	ReplaceFunc func(ctx context.Context, id string, book Book) (bool, error)
	DeleteFunc  func(ctx context.Context, id string) error
}

// GetAll mocks the behavior of retrieving all books by the repository.
func (m *MockBookStorage) GetAll(ctx context.Context) ([]Book, error) {
	return m.GetAllFunc(ctx)
}

// GetOne mocks the behavior of retrieving a book by the repository.
func (m *MockBookStorage) GetOne(ctx context.Context, id string) (Book, error) {
	return m.GetOneFunc(ctx, id)
}

// Add mocks the behavior of book creation by the repository.
func (m *MockBookStorage) Add(ctx context.Context, book Book) (Book, error) {
	return m.AddFunc(ctx, book)
}

// Replace mocks the behavior of replacing a book by the repository.
func (m *MockBookStorage) Replace(ctx context.Context, id string, book Book) (bool, error) {
	return m.ReplaceFunc(ctx, id, book)
}

// Delete mocks the behavior of deleting a book by the repository.
func (m *MockBookStorage) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

type queuedBook struct {
	qid  string
	book Book
}

// MockQueuer records pushed books and serves the fed ones on Pop.
type MockQueuer struct {
	mu      sync.Mutex
	pushed  []queuedBook
	PushErr error
	items   chan queuedBook
}

func NewMockQueuer() *MockQueuer {
	return &MockQueuer{items: make(chan queuedBook, 16)}
}

func (mq *MockQueuer) Push(_ context.Context, qid string, book Book) error {
	mq.mu.Lock()
	defer mq.mu.Unlock()
	if mq.PushErr != nil {
		return mq.PushErr
	}
	mq.pushed = append(mq.pushed, queuedBook{qid, book})
	return nil
}

// Pop blocks until a fed item is available or ctx is done.
func (mq *MockQueuer) Pop(ctx context.Context, _ ...string) (string, Book, error) {
	select {
	case <-ctx.Done():
		return "", Book{}, ctx.Err()
	case it := <-mq.items:
		return it.qid, it.book, nil
	}
}

// Feed makes a book available to the next Pop call.
func (mq *MockQueuer) Feed(qid string, book Book) {
	mq.items <- queuedBook{qid, book}
}

// Pushed returns a copy of what was pushed so far.
func (mq *MockQueuer) Pushed() []queuedBook {
	mq.mu.Lock()
	defer mq.mu.Unlock()
	return append([]queuedBook(nil), mq.pushed...)
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockUIDHandler implements a fake UIDHandler with predictable request ids.
type MockUIDHandler struct {
	MockedUID string
}

func NewMockUIDHandler(id string) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}

func (muid *MockUIDHandler) IsValidBookID(id string) bool {
	return len(id) == BookIDLength
}

// newTestAPIHandler builds an api handler with mocked clock and ids over the given storage.
func newTestAPIHandler(storage BookStorage) *APIHandler {
	clock := NewMockClocker()
	return NewAPIHandler(
		zap.NewNop(),
		&Config{},
		&Statistics{started: clock.Now()},
		clock,
		NewMockUIDHandler("abc"),
		NewBookService(zap.NewNop(), storage, nil),
	)
}
