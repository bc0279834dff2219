package storage

import (
	"context"
	"fmt"
	"tourvisto/internal/providers"
	"tourvisto/internal/structures"
)

// NewDocumentStore picks the backend named by storage.driver. The returned
// cleanup closes the mongo client.
func NewDocumentStore(conf *structures.Config, logger providers.Logger) (DocumentStoreInterface, func(), error) {
	if conf.Storage.Driver == "memory" {
		logger.Warnf(providers.TypeApp, "Using in-memory document store, data is lost on restart")
		return NewMemoryStore(), func() {}, nil
	}

	ctx := context.Background()
	client, err := Connect(ctx, conf.Mongo)
	if err != nil {
		return nil, nil, err
	}

	store := NewMongoStore(client, conf.Mongo)
	if err = store.EnsureIndexes(ctx); err != nil {
		_ = store.Close(ctx)
		return nil, nil, fmt.Errorf("ensure indexes: %w", err)
	}
	logger.Infof(providers.TypeApp, "Connected to MongoDB database %s", conf.Mongo.Database)

	cleanup := func() {
		if err := store.Close(context.Background()); err != nil {
			logger.Errorf(providers.TypeApp, "Failed to disconnect MongoDB client: %s", err)
		}
	}
	return store, cleanup, nil
}
