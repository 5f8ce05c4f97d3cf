package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var _ BookStorage = (*redisBookStorage)(nil)

// replaceIfExistsScript sets the hash field only when it is already present.
var replaceIfExistsScript = redis.NewScript(`
if redis.call("HEXISTS", KEYS[1], ARGV[1]) == 1 then
	redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
	return 1
end
return 0
`)

type redisBookStorage struct {
	logger *zap.Logger
	client *redis.Client
	key    string
}

// NewRedisBookStorage provides an instance of redis-based book storage.
// All books live as json values of a single hash identified by key.
func NewRedisBookStorage(logger *zap.Logger, client *redis.Client, key string) BookStorage {
	return &redisBookStorage{
		logger: logger,
		client: client,
		key:    key,
	}
}

// GetRedisClient provides a ready to use redis client.
func GetRedisClient(config *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(config.Redis.Host, config.Redis.Port),
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
		PoolSize:     config.Redis.PoolSize,
		PoolTimeout:  config.Redis.PoolTimeout,
		Password:     config.Redis.Password,
		Username:     config.Redis.Username,
		DB:           config.Redis.DatabaseIndex,
	})

	// test connection.
	if pong, err := client.Ping(context.Background()).Result(); pong != "PONG" || err != nil {
		return client, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

// GetAll retrieves a list of all books stored in the redis hash.
func (rs *redisBookStorage) GetAll(ctx context.Context) ([]Book, error) {
	values, err := rs.client.HVals(ctx, rs.key).Result()
	if err != nil {
		return nil, err
	}
	books := make([]Book, 0, len(values))
	for _, value := range values {
		var book Book
		if err = json.Unmarshal([]byte(value), &book); err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, nil
}

// GetOne retrieves a book record based on its ID.
func (rs *redisBookStorage) GetOne(ctx context.Context, id string) (Book, error) {
	var book Book
	value, err := rs.client.HGet(ctx, rs.key, id).Result()
	if err == redis.Nil {
		return book, ErrBookNotFound
	}
	if err != nil {
		return book, err
	}
	err = json.Unmarshal([]byte(value), &book)
	return book, err
}

// Add inserts a new book record under a newly generated id.
func (rs *redisBookStorage) Add(ctx context.Context, book Book) (Book, error) {
	if book.ID != "" {
		return book, ErrBookIDAssigned
	}
	book.ID = primitive.NewObjectID().Hex()
	data, err := json.Marshal(book)
	if err != nil {
		return Book{}, err
	}
	if err = rs.client.HSet(ctx, rs.key, book.ID, data).Err(); err != nil {
		return Book{}, err
	}
	return book, nil
}

// Replace overwrites an existing book record. The check and the write
// run atomically on the server so a missing record is never created.
func (rs *redisBookStorage) Replace(ctx context.Context, id string, book Book) (bool, error) {
	book.ID = id
	data, err := json.Marshal(book)
	if err != nil {
		return false, err
	}
	n, err := replaceIfExistsScript.Run(ctx, rs.client, []string{rs.key}, id, data).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Delete removes a book record based on its ID.
func (rs *redisBookStorage) Delete(ctx context.Context, id string) error {
	return rs.client.HDel(ctx, rs.key, id).Err()
}
