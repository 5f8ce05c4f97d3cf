package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// NewBookStorage connects the storage driver selected by the configuration
// and returns it with the function releasing its underlying client.
//
// Supported drivers:
//
//	"mongo" - one collection of a MongoDB database (default)
//	"redis" - one redis hash
//	"bolt"  - one bucket of a local bolt file
func NewBookStorage(config *Config, logger *zap.Logger) (BookStorage, func() error, error) {
	switch config.Storage.Driver {
	case MongoDriver, "":
		client, err := GetMongoClient(config)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to mongo server: %s", err)
		}
		collection := client.Database(config.Mongo.Database).Collection(config.Mongo.Collection)
		closer := func() error {
			ctx, cancel := context.WithTimeout(context.Background(), config.Server.ShutdownTimeout)
			defer cancel()
			return client.Disconnect(ctx)
		}
		return NewMongoBookStorage(logger, collection), closer, nil

	case RedisDriver:
		client, err := GetRedisClient(config)
		if err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis server: %s", err)
		}
		return NewRedisBookStorage(logger, client, config.Redis.HashKey), client.Close, nil

	case BoltDriver:
		client, err := GetBoltDBClient(config.BoltDB.FilePath, &config.BoltDB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open boltdb file: %s", err)
		}
		bs := NewBoltBookStorage(logger, config.BoltDB.BucketName, client)
		return bs, bs.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver: %q", config.Storage.Driver)
	}
}
