package mongo

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"inkline/internal/config"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ErrNotInitialized is returned by Shutdown when no connection is open.
var ErrNotInitialized = errors.New("mongo client not initialized")

var (
	client *mongo.Client
	db     *mongo.Database
	mu     sync.Mutex

	drv driver = liveDriver{}

	replicaSet atomic.Bool
)

// IsReplicaSet reports whether the connected deployment is a replica set.
// The value is cached at Init and only a hint.
func IsReplicaSet() bool { return replicaSet.Load() }

// Init initializes the MongoDB connection (first successful call wins, thread-safe).
// A failed attempt leaves nothing cached so the caller may retry.
func Init(ctx context.Context, cfg config.Config, log *slog.Logger) (*mongo.Client, *mongo.Database, error) {
	mu.Lock()
	defer mu.Unlock()

	if client != nil && db != nil {
		return client, db, nil
	}

	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetConnectTimeout(10 * time.Second).
		SetAppName("inkline")

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cli, err := drv.Connect(ctx, opts)
	if err != nil {
		log.Error("failed to connect to mongo", "err", err)
		return nil, nil, err
	}

	if err := drv.Ping(ctx, cli); err != nil {
		log.Error("failed to ping mongo", "err", err)
		_ = drv.Disconnect(ctx, cli)
		return nil, nil, err
	}

	probeReplicaSet(ctx, cli)

	client = cli
	db = cli.Database(cfg.MongoDBName)

	log.Info("successfully connected to mongo", "db", cfg.MongoDBName, "replica_set", IsReplicaSet())

	return client, db, nil
}

// probeReplicaSet records whether the deployment reports a replica set name.
func probeReplicaSet(ctx context.Context, cli *mongo.Client) {
	var hello struct {
		SetName string `bson:"setName"`
	}
	err := cli.Database("admin").RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello)
	replicaSet.Store(err == nil && hello.SetName != "")
}

// Client returns the singleton MongoDB client instance.
func Client() *mongo.Client {
	mu.Lock()
	defer mu.Unlock()
	return client
}

// DB returns the singleton MongoDB database instance.
func DB() *mongo.Database {
	mu.Lock()
	defer mu.Unlock()
	return db
}

// Shutdown gracefully shuts down the MongoDB connection.
// Calling it without an open connection returns ErrNotInitialized.
func Shutdown(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()

	if client == nil {
		return ErrNotInitialized
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := drv.Disconnect(ctx, client)

	client = nil
	db = nil
	replicaSet.Store(false)

	return err
}

// reset drops the cached connection without disconnecting. Tests only.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	client = nil
	db = nil
	replicaSet.Store(false)
}
