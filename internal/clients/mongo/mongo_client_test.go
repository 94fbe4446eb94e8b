package mongo

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"inkline/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var silentLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

const (
	msgClientShouldBeNil = "client should be nil on connection failure"
	msgDBShouldBeNil     = "db should be nil on connection failure"
	MongoTestURI         = "mongodb://invalid/?connectTimeoutMS=1&serverSelectionTimeoutMS=1"
)

// stubDriver implements the driver interface for testing
type stubDriver struct {
	connects int
	mu       sync.Mutex
}

func (s *stubDriver) Connect(_ context.Context, _ *options.ClientOptions) (*mongo.Client, error) {
	s.mu.Lock()
	s.connects++
	s.mu.Unlock()
	return nil, context.DeadlineExceeded
}

func (*stubDriver) Ping(_ context.Context, _ *mongo.Client) error {
	return context.DeadlineExceeded
}

func (*stubDriver) Disconnect(_ context.Context, _ *mongo.Client) error { return nil }

// withStubDriver temporarily replaces the global driver with a stub for testing
func withStubDriver(t *testing.T) *stubDriver {
	t.Helper()
	old := drv
	stub := &stubDriver{}
	drv = stub
	reset()
	t.Cleanup(func() {
		drv = old
		reset()
	})
	return stub
}

func testMongoConfig() config.Config {
	return config.Config{
		MongoURI:    MongoTestURI,
		MongoDBName: "test",
		LogLevel:    "error",
		LogFormat:   "json",
	}
}

func TestMongoClientInitFailureLeavesNothingCached(t *testing.T) {
	withStubDriver(t)

	client1, db1, err := Init(context.Background(), testMongoConfig(), silentLogger)
	require.Error(t, err)
	assert.Nil(t, client1, msgClientShouldBeNil)
	assert.Nil(t, db1, msgDBShouldBeNil)

	assert.Nil(t, Client())
	assert.Nil(t, DB())
	assert.False(t, IsReplicaSet())
}

func TestMongoClientRetryAfterFailure(t *testing.T) {
	stub := withStubDriver(t)
	ctx := context.Background()

	_, _, err1 := Init(ctx, testMongoConfig(), silentLogger)
	_, _, err2 := Init(ctx, testMongoConfig(), silentLogger)

	assert.Error(t, err1)
	assert.Error(t, err2)
	assert.Equal(t, 2, stub.connects, "a failed Init must not be cached")
}

func TestMongoClientConcurrency(t *testing.T) {
	stub := withStubDriver(t)
	ctx := context.Background()

	const goroutines = 10
	var wg sync.WaitGroup
	wg.Add(goroutines)

	for range goroutines {
		go func() {
			defer wg.Done()
			client, db, err := Init(ctx, testMongoConfig(), silentLogger)
			if err == nil || client != nil || db != nil {
				t.Errorf("Init should fail and return nil handles")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines, stub.connects)
}

func TestMongoClientShutdownWithoutInit(t *testing.T) {
	withStubDriver(t)
	ctx := context.Background()

	assert.ErrorIs(t, Shutdown(ctx), ErrNotInitialized)
	assert.ErrorIs(t, Shutdown(ctx), ErrNotInitialized)
}

func TestWithRepoTimeout(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := WithRepoTimeout(parent, OpTimeout)
	defer cancel()

	dl, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(OpTimeout), dl, time.Second)

	cancelParent()
	ctx2, cancel2 := WithRepoTimeout(parent, OpTimeout)
	defer cancel2()
	assert.Same(t, parent, ctx2, "canceled parents are returned unchanged")

	short, cancelShort := context.WithTimeout(context.Background(), OpTimeout/10)
	defer cancelShort()
	ctx3, cancel3 := WithRepoTimeout(short, OpTimeout)
	defer cancel3()
	assert.Equal(t, short, ctx3, "a stricter deadline is kept")
}
