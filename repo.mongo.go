package main

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

var _ BookStorage = (*mongoBookStorage)(nil)

// bookDocument is the persisted form of a book inside the mongo collection.
type bookDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Price    float64            `bson:"price"`
	Category string             `bson:"category"`
}

func toBookDocument(oid primitive.ObjectID, book Book) bookDocument {
	return bookDocument{
		ID:       oid,
		Name:     book.Name,
		Price:    book.Price,
		Category: book.Category,
	}
}

func (d bookDocument) toBook() Book {
	return Book{
		ID:       d.ID.Hex(),
		Name:     d.Name,
		Price:    d.Price,
		Category: d.Category,
	}
}

type mongoBookStorage struct {
	logger     *zap.Logger
	collection *mongo.Collection
}

// NewMongoBookStorage provides an instance of mongo-based book storage.
func NewMongoBookStorage(logger *zap.Logger, collection *mongo.Collection) BookStorage {
	return &mongoBookStorage{
		logger:     logger,
		collection: collection,
	}
}

// GetMongoClient provides a connected and ready to use mongo client.
func GetMongoClient(config *Config) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(config.Mongo.URI).
		SetConnectTimeout(config.Mongo.ConnectTimeout).
		SetServerSelectionTimeout(config.Mongo.ServerSelectionTimeout)
	if config.Mongo.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(config.Mongo.MaxPoolSize)
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.Mongo.ConnectTimeout)
	defer cancel()
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	// test connection.
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("test connection failed: %w", err)
	}
	return client, nil
}

// GetAll retrieves all books of the collection in natural order.
func (ms *mongoBookStorage) GetAll(ctx context.Context) ([]Book, error) {
	cursor, err := ms.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	var docs []bookDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	books := make([]Book, 0, len(docs))
	for _, doc := range docs {
		books = append(books, doc.toBook())
	}
	return books, nil
}

// GetOne retrieves a book record based on its ID. Ids which are
// not valid object ids cannot match any document.
func (ms *mongoBookStorage) GetOne(ctx context.Context, id string) (Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Book{}, ErrBookNotFound
	}
	var doc bookDocument
	err = ms.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Book{}, ErrBookNotFound
	}
	if err != nil {
		return Book{}, err
	}
	return doc.toBook(), nil
}

// Add inserts a new book document with a freshly generated object id.
func (ms *mongoBookStorage) Add(ctx context.Context, book Book) (Book, error) {
	if book.ID != "" {
		return book, ErrBookIDAssigned
	}
	doc := toBookDocument(primitive.NewObjectID(), book)
	if _, err := ms.collection.InsertOne(ctx, doc); err != nil {
		return book, err
	}
	return doc.toBook(), nil
}

// Replace swaps the whole document at id. It never upserts.
func (ms *mongoBookStorage) Replace(ctx context.Context, id string, book Book) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	result, err := ms.collection.ReplaceOne(ctx, bson.M{"_id": oid}, toBookDocument(oid, book))
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// Delete removes the document at id if it exists.
func (ms *mongoBookStorage) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	_, err = ms.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
