package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tonetrace-api/internal/dto"
	"github.com/noah-isme/tonetrace-api/internal/mockdata"
	"github.com/noah-isme/tonetrace-api/internal/repository"
)

func mockOptions() DatasetOptions {
	return DatasetOptions{
		UseMocks:           true,
		DefaultSeed:        mockdata.DefaultSeed,
		DefaultStudents:    8,
		DefaultAssignments: 3,
		CacheTTL:           time.Minute,
		EventsSubject:      "tonetrace.datasets.generated",
	}
}

func TestDatasetServiceLoadUsesDefaults(t *testing.T) {
	svc := NewDatasetService(nil, nil, nil, nil, nil, mockOptions(), testLogger())

	response, err := svc.Load(context.Background(), dto.DatasetQuery{})
	require.NoError(t, err)
	require.Equal(t, SourceMock, response.Source)
	require.Equal(t, dto.DatasetParams{Seed: mockdata.DefaultSeed, Students: 8, Assignments: 3}, response.Params)
	require.Len(t, response.Students, 8)
	require.Len(t, response.Assignments, 3)

	expected, err := mockdata.BuildMockDataset(mockdata.DefaultSeed, 8, 3)
	require.NoError(t, err)
	require.Equal(t, expected, response.Dataset)
}

func TestDatasetServiceLoadOverridesDefaults(t *testing.T) {
	svc := NewDatasetService(nil, nil, nil, nil, nil, mockOptions(), testLogger())

	response, err := svc.Load(context.Background(), dto.DatasetQuery{Seed: ptr(int64(7)), Students: ptr(2), Assignments: ptr(0)})
	require.NoError(t, err)
	require.Equal(t, int64(7), response.Params.Seed)
	require.Len(t, response.Students, 2)
	require.Empty(t, response.Assignments)
	require.Empty(t, response.Submissions)
}

func TestDatasetServiceLoadCachesMockDataset(t *testing.T) {
	server, client := testRedis(t)
	svc := NewDatasetService(nil, nil, client, nil, nil, mockOptions(), testLogger())

	first, err := svc.Load(context.Background(), dto.DatasetQuery{})
	require.NoError(t, err)
	require.False(t, first.CacheHit)
	require.True(t, server.Exists("dataset:mock:12345:8:3"))
	require.Equal(t, time.Minute, server.TTL("dataset:mock:12345:8:3"))

	second, err := svc.Load(context.Background(), dto.DatasetQuery{})
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Equal(t, len(first.Analyses), len(second.Analyses))
	require.Equal(t, first.Students[0].ID, second.Students[0].ID)
	require.True(t, first.Submissions[0].SubmittedAt.Equal(*second.Submissions[0].SubmittedAt))
}

func TestDatasetServiceIgnoresMalformedCache(t *testing.T) {
	server, client := testRedis(t)
	require.NoError(t, server.Set("dataset:mock:12345:8:3", "{not json"))
	svc := NewDatasetService(nil, nil, client, nil, nil, mockOptions(), testLogger())

	response, err := svc.Load(context.Background(), dto.DatasetQuery{})
	require.NoError(t, err)
	require.False(t, response.CacheHit)
	require.Len(t, response.Students, 8)
}

func TestDatasetServiceLoadRejectsInvalidCounts(t *testing.T) {
	svc := NewDatasetService(nil, nil, nil, nil, nil, mockOptions(), testLogger())

	_, err := svc.Load(context.Background(), dto.DatasetQuery{Students: ptr(-1)})
	var validationErrs validator.ValidationErrors
	require.True(t, errors.As(err, &validationErrs))

	_, err = svc.Load(context.Background(), dto.DatasetQuery{Students: ptr(500)})
	require.ErrorIs(t, err, mockdata.ErrInvalidPopulationSize)
}

func TestDatasetServiceLatencyHonoursCancellation(t *testing.T) {
	opts := mockOptions()
	opts.MockLatency = time.Hour
	svc := NewDatasetService(nil, nil, nil, nil, nil, opts, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Load(ctx, dto.DatasetQuery{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDatasetServiceLatencyDelaysMockReads(t *testing.T) {
	opts := mockOptions()
	opts.MockLatency = 20 * time.Millisecond
	svc := NewDatasetService(nil, nil, nil, nil, nil, opts, testLogger())

	start := time.Now()
	_, err := svc.Load(context.Background(), dto.DatasetQuery{})
	require.NoError(t, err)
	require.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestDatasetServiceCreateSnapshotPersistsAndPublishes(t *testing.T) {
	server, client := testRedis(t)
	repo := newFakeDatasetRepo()
	publisher := &fakePublisher{}
	svc := NewDatasetService(nil, repo, client, publisher, nil, mockOptions(), testLogger())

	require.NoError(t, server.Set("dataset:snapshot:fall", "stale"))
	require.NoError(t, server.Set("analytics:class:dataset:snapshot:fall", "stale"))

	snapshot, err := svc.CreateSnapshot(context.Background(), dto.SnapshotCreateRequest{Name: " fall ", Students: ptr(5), Assignments: ptr(2)})
	require.NoError(t, err)
	require.Equal(t, "fall", snapshot.Name)
	require.Equal(t, mockdata.DefaultSeed, snapshot.Seed)
	require.Equal(t, 5, snapshot.StudentCount)
	require.Equal(t, 2, snapshot.AssignmentCount)
	require.NotZero(t, snapshot.ID)

	stored := repo.snapshots["fall"]
	require.Len(t, stored.dataset.Students, 5)
	require.Equal(t, len(stored.dataset.Submissions), snapshot.SubmissionCount)

	require.False(t, server.Exists("dataset:snapshot:fall"))
	require.False(t, server.Exists("analytics:class:dataset:snapshot:fall"))

	require.Len(t, publisher.messages, 1)
	require.Equal(t, "tonetrace.datasets.generated", publisher.messages[0].subject)
	var event dto.DatasetGeneratedEvent
	require.NoError(t, json.Unmarshal(publisher.messages[0].data, &event))
	require.Equal(t, "fall", event.Snapshot)
	require.Equal(t, 5, event.StudentCount)
	require.NotEmpty(t, event.EventID)
}

func TestDatasetServiceSnapshotNamesKeepSeparateCacheEntries(t *testing.T) {
	_, client := testRedis(t)
	repo := newFakeDatasetRepo()
	svc := NewDatasetService(nil, repo, client, nil, nil, mockOptions(), testLogger())

	_, err := svc.CreateSnapshot(context.Background(), dto.SnapshotCreateRequest{Name: "term:a", Students: ptr(3), Assignments: ptr(2)})
	require.NoError(t, err)
	_, err = svc.CreateSnapshot(context.Background(), dto.SnapshotCreateRequest{Name: "term|a", Students: ptr(10), Assignments: ptr(2)})
	require.NoError(t, err)

	require.NotEqual(t, snapshotCacheKey("term:a"), snapshotCacheKey("term|a"))
	require.NotEqual(t,
		aggregatesCacheKey(dto.DatasetResponse{Source: SourceSnapshot, Params: dto.DatasetParams{Snapshot: "term:a"}}),
		aggregatesCacheKey(dto.DatasetResponse{Source: SourceSnapshot, Params: dto.DatasetParams{Snapshot: "term|a"}}),
	)

	for round := 0; round < 2; round++ {
		colon, err := svc.GetSnapshot(context.Background(), "term:a")
		require.NoError(t, err)
		require.Equal(t, "term:a", colon.Params.Snapshot)
		require.Len(t, colon.Students, 3)

		pipe, err := svc.GetSnapshot(context.Background(), "term|a")
		require.NoError(t, err)
		require.Equal(t, "term|a", pipe.Params.Snapshot)
		require.Len(t, pipe.Students, 10)
		require.Equal(t, round == 1, pipe.CacheHit)
	}
}

func TestDatasetServiceListSnapshotsReportsSubmissionCounts(t *testing.T) {
	repo := newFakeDatasetRepo()
	svc := NewDatasetService(nil, repo, nil, nil, nil, mockOptions(), testLogger())

	created, err := svc.CreateSnapshot(context.Background(), dto.SnapshotCreateRequest{Name: "week-1", Students: ptr(6), Assignments: ptr(3)})
	require.NoError(t, err)
	require.NotZero(t, created.SubmissionCount)

	listed, err := svc.ListSnapshots(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, len(repo.snapshots["week-1"].dataset.Submissions), listed[0].SubmissionCount)
	require.Equal(t, created.SubmissionCount, listed[0].SubmissionCount)
}

func TestDatasetServiceCreateSnapshotToleratesPublishFailure(t *testing.T) {
	repo := newFakeDatasetRepo()
	publisher := &fakePublisher{err: errors.New("nats down")}
	svc := NewDatasetService(nil, repo, nil, publisher, nil, mockOptions(), testLogger())

	_, err := svc.CreateSnapshot(context.Background(), dto.SnapshotCreateRequest{Name: "demo"})
	require.NoError(t, err)
	require.Contains(t, repo.snapshots, "demo")
}

func TestDatasetServiceCreateSnapshotValidation(t *testing.T) {
	svc := NewDatasetService(nil, newFakeDatasetRepo(), nil, nil, nil, mockOptions(), testLogger())

	_, err := svc.CreateSnapshot(context.Background(), dto.SnapshotCreateRequest{Name: "  "})
	var validationErrs validator.ValidationErrors
	require.True(t, errors.As(err, &validationErrs))

	_, err = svc.CreateSnapshot(context.Background(), dto.SnapshotCreateRequest{Name: "a/b"})
	require.True(t, errors.As(err, &validationErrs))

	_, err = svc.CreateSnapshot(context.Background(), dto.SnapshotCreateRequest{Name: "big", Assignments: ptr(13)})
	require.ErrorIs(t, err, mockdata.ErrInvalidPopulationSize)
}

func TestDatasetServiceWithoutRepository(t *testing.T) {
	svc := NewDatasetService(nil, nil, nil, nil, nil, mockOptions(), testLogger())

	_, err := svc.CreateSnapshot(context.Background(), dto.SnapshotCreateRequest{Name: "demo"})
	require.ErrorIs(t, err, ErrSnapshotsUnavailable)

	_, err = svc.GetSnapshot(context.Background(), "demo")
	require.ErrorIs(t, err, ErrSnapshotsUnavailable)

	_, err = svc.ListSnapshots(context.Background())
	require.ErrorIs(t, err, ErrSnapshotsUnavailable)
}

func TestDatasetServiceReadsDefaultSnapshotWhenMocksDisabled(t *testing.T) {
	_, client := testRedis(t)
	repo := newFakeDatasetRepo()
	opts := mockOptions()
	opts.UseMocks = false
	opts.DefaultSnapshot = "term-1"
	svc := NewDatasetService(nil, repo, client, nil, nil, opts, testLogger())

	_, err := svc.Load(context.Background(), dto.DatasetQuery{})
	require.ErrorIs(t, err, repository.ErrSnapshotNotFound)

	_, err = svc.CreateSnapshot(context.Background(), dto.SnapshotCreateRequest{Name: "term-1", Seed: ptr(int64(99)), Students: ptr(4), Assignments: ptr(2)})
	require.NoError(t, err)

	response, err := svc.Load(context.Background(), dto.DatasetQuery{})
	require.NoError(t, err)
	require.Equal(t, SourceSnapshot, response.Source)
	require.False(t, response.CacheHit)
	require.Equal(t, dto.DatasetParams{Seed: 99, Students: 4, Assignments: 2, Snapshot: "term-1"}, response.Params)
	require.Len(t, response.Students, 4)

	cached, err := svc.Load(context.Background(), dto.DatasetQuery{})
	require.NoError(t, err)
	require.True(t, cached.CacheHit)
	require.Equal(t, 2, repo.loads)
}

func TestDatasetServiceExplicitSnapshotOverridesMocks(t *testing.T) {
	repo := newFakeDatasetRepo()
	svc := NewDatasetService(nil, repo, nil, nil, nil, mockOptions(), testLogger())

	_, err := svc.CreateSnapshot(context.Background(), dto.SnapshotCreateRequest{Name: "saved", Students: ptr(3), Assignments: ptr(1)})
	require.NoError(t, err)

	response, err := svc.Load(context.Background(), dto.DatasetQuery{Snapshot: "saved"})
	require.NoError(t, err)
	require.Equal(t, SourceSnapshot, response.Source)
	require.Len(t, response.Students, 3)

	byName, err := svc.GetSnapshot(context.Background(), "saved")
	require.NoError(t, err)
	require.Equal(t, response.Params, byName.Params)

	list, err := svc.ListSnapshots(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "saved", list[0].Name)
}
