package service

import (
	"context"
	"io"
	"sync"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tonetrace-api/internal/models"
	"github.com/noah-isme/tonetrace-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func testRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return server, client
}

type storedSnapshot struct {
	snapshot models.DatasetSnapshot
	dataset  models.Dataset
}

type fakeDatasetRepo struct {
	mu        sync.Mutex
	nextID    uint
	snapshots map[string]storedSnapshot
	loads     int
	saveErr   error
}

func newFakeDatasetRepo() *fakeDatasetRepo {
	return &fakeDatasetRepo{snapshots: map[string]storedSnapshot{}}
}

func (f *fakeDatasetRepo) SaveSnapshot(ctx context.Context, snapshot *models.DatasetSnapshot, dataset models.Dataset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	if existing, ok := f.snapshots[snapshot.Name]; ok {
		snapshot.ID = existing.snapshot.ID
	} else {
		f.nextID++
		snapshot.ID = f.nextID
	}
	f.snapshots[snapshot.Name] = storedSnapshot{snapshot: *snapshot, dataset: dataset}
	return nil
}

func (f *fakeDatasetRepo) LoadSnapshot(ctx context.Context, name string) (models.DatasetSnapshot, models.Dataset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	stored, ok := f.snapshots[name]
	if !ok {
		return models.DatasetSnapshot{}, models.Dataset{}, repository.ErrSnapshotNotFound
	}
	return stored.snapshot, stored.dataset, nil
}

func (f *fakeDatasetRepo) ListSnapshots(ctx context.Context) ([]models.DatasetSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]models.DatasetSnapshot, 0, len(f.snapshots))
	for _, stored := range f.snapshots {
		result = append(result, stored.snapshot)
	}
	return result, nil
}

type publishedMessage struct {
	subject string
	data    []byte
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
	err      error
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, publishedMessage{subject: subject, data: data})
	return nil
}

func ptr[T any](value T) *T {
	return &value
}
