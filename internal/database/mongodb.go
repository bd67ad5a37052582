package database

import (
	"context"
	"fmt"
	"time"

	"github.com/agentdeck/agentdeck/internal/agents"
	"github.com/agentdeck/agentdeck/internal/config"
	"github.com/agentdeck/agentdeck/internal/contents"
	"github.com/agentdeck/agentdeck/internal/store"
	"github.com/agentdeck/agentdeck/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// retry policy for the initial MongoDB connection
var (
	connectAttempts = 5
	connectBackoff  = time.Second
)

// ConnectMongo opens a connection and returns the client. Caller should call client.Disconnect(ctx).
func ConnectMongo(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	clientOpts := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// connectWithRetry tolerates MongoDB starting after the service.
func connectWithRetry(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	backoff := connectBackoff
	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		var client *mongo.Client
		client, err = ConnectMongo(ctx, uri, timeout)
		if err == nil {
			return client, nil
		}
		logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, connectAttempts, err)
		if attempt < connectAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}
	return nil, fmt.Errorf("could not connect to MongoDB after %d attempts: %w", connectAttempts, err)
}

// RecordStore is the record store selected by configuration: MongoDB when a
// URI is configured, process memory otherwise. Every call is counted in the
// store metrics.
type RecordStore struct {
	store.Store
	client *mongo.Client
	db     *mongo.Database
}

// OpenRecordStore connects the configured store and creates the lookup
// indexes the repositories query by.
func OpenRecordStore(ctx context.Context, cfg config.MongoDBConfig) (*RecordStore, error) {
	if cfg.URI == "" {
		logger.Warn("MONGODB_URI not set; using in-memory record store")
		return &RecordStore{Store: store.NewInstrumented(store.NewMemoryStore())}, nil
	}
	client, err := connectWithRetry(ctx, cfg.URI, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.Database)
	ms := store.NewMongoStore(db)
	for _, idx := range []struct{ collection, field string }{
		{agents.Collection, "ownerId"},
		{contents.Collection, "agentId"},
		{contents.Collection, "contentCode"},
	} {
		if err := ms.EnsureIndex(ctx, idx.collection, idx.field); err != nil {
			logger.Warnf("index %s.%s not created: %v", idx.collection, idx.field, err)
		}
	}
	logger.Infof("Connected to MongoDB database %s", cfg.Database)
	return &RecordStore{Store: store.NewInstrumented(ms), client: client, db: db}, nil
}

// Database returns the Mongo database, or nil for the in-memory store.
func (r *RecordStore) Database() *mongo.Database {
	return r.db
}

// Ping checks the MongoDB connection; the in-memory store is always up.
func (r *RecordStore) Ping(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Ping(ctx, nil)
}

func (r *RecordStore) Close(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Disconnect(ctx)
}
