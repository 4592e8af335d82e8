package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/tonetrace-api/internal/dto"
	"github.com/noah-isme/tonetrace-api/internal/mockdata"
	"github.com/noah-isme/tonetrace-api/internal/models"
	"github.com/noah-isme/tonetrace-api/internal/observability"
	"github.com/noah-isme/tonetrace-api/internal/repository"
)

const (
	// SourceMock marks datasets synthesized in memory.
	SourceMock = "mock"
	// SourceSnapshot marks datasets read from a stored snapshot.
	SourceSnapshot = "snapshot"
)

var (
	// ErrSnapshotsUnavailable indicates no snapshot storage is configured.
	ErrSnapshotsUnavailable = errors.New("snapshot storage is not configured")
)

// EventPublisher publishes raw payloads to a subject. *nats.Conn satisfies it.
type EventPublisher interface {
	Publish(subject string, data []byte) error
}

// DatasetOptions configures the dataset service.
type DatasetOptions struct {
	UseMocks           bool
	DefaultSeed        int64
	DefaultStudents    int
	DefaultAssignments int
	DefaultSnapshot    string
	MockLatency        time.Duration
	CacheTTL           time.Duration
	EventsSubject      string
}

// DatasetService resolves which dataset a request operates on and produces it.
type DatasetService interface {
	Load(ctx context.Context, query dto.DatasetQuery) (dto.DatasetResponse, error)
	CreateSnapshot(ctx context.Context, req dto.SnapshotCreateRequest) (dto.SnapshotResponse, error)
	GetSnapshot(ctx context.Context, name string) (dto.DatasetResponse, error)
	ListSnapshots(ctx context.Context) ([]dto.SnapshotResponse, error)
}

type datasetService struct {
	builder   *mockdata.Builder
	repo      repository.DatasetRepository
	cache     *redis.Client
	publisher EventPublisher
	validator *validator.Validate
	opts      DatasetOptions
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewDatasetService constructs the dataset service. repo, cache and publisher are optional.
func NewDatasetService(builder *mockdata.Builder, repo repository.DatasetRepository, cache *redis.Client, publisher EventPublisher, validate *validator.Validate, opts DatasetOptions, logger zerolog.Logger) DatasetService {
	if builder == nil {
		builder = mockdata.NewBuilder()
	}
	if validate == nil {
		validate = validator.New(validator.WithRequiredStructEnabled())
	}
	if opts.DefaultSnapshot == "" {
		opts.DefaultSnapshot = "default"
	}

	return &datasetService{
		builder:   builder,
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		validator: validate,
		opts:      opts,
		logger:    logger.With().Str("component", "dataset_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/tonetrace-api/internal/service/dataset"),
		now:       time.Now,
		sleep:     sleepContext,
	}
}

func (s *datasetService) Load(ctx context.Context, query dto.DatasetQuery) (dto.DatasetResponse, error) {
	params := s.resolve(query)
	if err := s.validator.Struct(params); err != nil {
		return dto.DatasetResponse{}, err
	}

	if s.opts.UseMocks && query.Snapshot == "" {
		return s.loadMock(ctx, params)
	}
	return s.loadSnapshot(ctx, params.Snapshot)
}

func (s *datasetService) GetSnapshot(ctx context.Context, name string) (dto.DatasetResponse, error) {
	params := dto.DatasetParams{Snapshot: strings.TrimSpace(name)}
	if err := s.validator.Var(params.Snapshot, "required,max=128,printascii,excludesall=/"); err != nil {
		return dto.DatasetResponse{}, err
	}
	return s.loadSnapshot(ctx, params.Snapshot)
}

func (s *datasetService) CreateSnapshot(ctx context.Context, req dto.SnapshotCreateRequest) (dto.SnapshotResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return dto.SnapshotResponse{}, err
	}
	if s.repo == nil {
		return dto.SnapshotResponse{}, ErrSnapshotsUnavailable
	}

	ctx, span := s.tracer.Start(ctx, "dataset.snapshot.create", trace.WithAttributes(attribute.String("dataset.snapshot", req.Name)))
	defer span.End()

	params := s.resolve(dto.DatasetQuery{Seed: req.Seed, Students: req.Students, Assignments: req.Assignments})
	dataset, err := s.build(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build_failed")
		return dto.SnapshotResponse{}, err
	}

	snapshot := &models.DatasetSnapshot{
		Name:            req.Name,
		Seed:            params.Seed,
		StudentCount:    params.Students,
		AssignmentCount: params.Assignments,
		SubmissionCount: len(dataset.Submissions),
	}
	if err := s.repo.SaveSnapshot(ctx, snapshot, dataset); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save_failed")
		return dto.SnapshotResponse{}, fmt.Errorf("save snapshot %q: %w", req.Name, err)
	}
	observability.SnapshotsSaved().Inc()

	if s.cache != nil {
		if err := s.cache.Del(ctx, snapshotCacheKey(req.Name), classAggregatesPrefix+snapshotCacheKey(req.Name)).Err(); err != nil {
			s.logger.Warn().Err(err).Str("snapshot", req.Name).Msg("failed to invalidate snapshot cache")
		}
	}

	s.publishGenerated(*snapshot)

	s.logger.Info().
		Str("snapshot", snapshot.Name).
		Int64("seed", snapshot.Seed).
		Int("students", snapshot.StudentCount).
		Int("assignments", snapshot.AssignmentCount).
		Int("submissions", snapshot.SubmissionCount).
		Msg("dataset snapshot stored")

	return toSnapshotResponse(*snapshot), nil
}

func (s *datasetService) ListSnapshots(ctx context.Context) ([]dto.SnapshotResponse, error) {
	if s.repo == nil {
		return nil, ErrSnapshotsUnavailable
	}
	snapshots, err := s.repo.ListSnapshots(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.SnapshotResponse, 0, len(snapshots))
	for _, snapshot := range snapshots {
		responses = append(responses, toSnapshotResponse(snapshot))
	}
	return responses, nil
}

func (s *datasetService) loadMock(ctx context.Context, params dto.DatasetParams) (dto.DatasetResponse, error) {
	ctx, span := s.tracer.Start(ctx, "dataset.load", trace.WithAttributes(
		attribute.String("dataset.source", SourceMock),
		attribute.Int64("dataset.seed", params.Seed),
		attribute.Int("dataset.students", params.Students),
		attribute.Int("dataset.assignments", params.Assignments),
	))
	defer span.End()

	if s.opts.MockLatency > 0 {
		if err := s.sleep(ctx, s.opts.MockLatency); err != nil {
			return dto.DatasetResponse{}, err
		}
	}

	params.Snapshot = ""
	response := dto.DatasetResponse{Source: SourceMock, Params: params}
	cacheKey := mockCacheKey(params)

	if dataset, ok := s.readCache(ctx, cacheKey); ok {
		span.SetAttributes(attribute.Bool("dataset.cache_hit", true))
		observability.DatasetsLoaded().WithLabelValues(SourceMock, "hit").Inc()
		response.Dataset = dataset
		response.CacheHit = true
		return response, nil
	}

	dataset, err := s.build(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build_failed")
		return dto.DatasetResponse{}, err
	}
	observability.DatasetsLoaded().WithLabelValues(SourceMock, "miss").Inc()

	s.writeCache(ctx, cacheKey, dataset)
	response.Dataset = dataset
	return response, nil
}

func (s *datasetService) loadSnapshot(ctx context.Context, name string) (dto.DatasetResponse, error) {
	if s.repo == nil {
		return dto.DatasetResponse{}, ErrSnapshotsUnavailable
	}
	if name == "" {
		name = s.opts.DefaultSnapshot
	}

	ctx, span := s.tracer.Start(ctx, "dataset.load", trace.WithAttributes(
		attribute.String("dataset.source", SourceSnapshot),
		attribute.String("dataset.snapshot", name),
	))
	defer span.End()

	cacheKey := snapshotCacheKey(name)
	var cached snapshotCacheEntry
	if s.readCacheInto(ctx, cacheKey, &cached) && cached.Params.Snapshot == name {
		observability.DatasetsLoaded().WithLabelValues(SourceSnapshot, "hit").Inc()
		return dto.DatasetResponse{
			Dataset:  cached.Dataset,
			Source:   SourceSnapshot,
			Params:   cached.Params,
			CacheHit: true,
		}, nil
	}

	start := time.Now()
	snapshot, dataset, err := s.repo.LoadSnapshot(ctx, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load_failed")
		return dto.DatasetResponse{}, err
	}
	observability.DatasetBuildDuration().WithLabelValues(SourceSnapshot).Observe(time.Since(start).Seconds())
	observability.DatasetsLoaded().WithLabelValues(SourceSnapshot, "miss").Inc()

	params := dto.DatasetParams{
		Seed:        snapshot.Seed,
		Students:    snapshot.StudentCount,
		Assignments: snapshot.AssignmentCount,
		Snapshot:    snapshot.Name,
	}
	s.writeCache(ctx, cacheKey, snapshotCacheEntry{Params: params, Dataset: dataset})

	return dto.DatasetResponse{Dataset: dataset, Source: SourceSnapshot, Params: params}, nil
}

func (s *datasetService) build(ctx context.Context, params dto.DatasetParams) (models.Dataset, error) {
	_, span := s.tracer.Start(ctx, "dataset.build")
	defer span.End()

	start := time.Now()
	dataset, err := s.builder.Build(mockdata.NewSeededRandom(params.Seed), params.Students, params.Assignments)
	if err != nil {
		return models.Dataset{}, err
	}
	observability.DatasetBuildDuration().WithLabelValues(SourceMock).Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("dataset.submissions", len(dataset.Submissions)))

	s.logger.Debug().
		Int64("seed", params.Seed).
		Int("students", params.Students).
		Int("assignments", params.Assignments).
		Int("submissions", len(dataset.Submissions)).
		Msg("dataset synthesized")

	return dataset, nil
}

func (s *datasetService) resolve(query dto.DatasetQuery) dto.DatasetParams {
	params := dto.DatasetParams{
		Seed:        s.opts.DefaultSeed,
		Students:    s.opts.DefaultStudents,
		Assignments: s.opts.DefaultAssignments,
		Snapshot:    strings.TrimSpace(query.Snapshot),
	}
	if query.Seed != nil {
		params.Seed = *query.Seed
	}
	if query.Students != nil {
		params.Students = *query.Students
	}
	if query.Assignments != nil {
		params.Assignments = *query.Assignments
	}
	return params
}

type snapshotCacheEntry struct {
	Params  dto.DatasetParams `json:"params"`
	Dataset models.Dataset    `json:"dataset"`
}

func (s *datasetService) readCache(ctx context.Context, key string) (models.Dataset, bool) {
	var dataset models.Dataset
	if !s.readCacheInto(ctx, key, &dataset) {
		return models.Dataset{}, false
	}
	return dataset, true
}

func (s *datasetService) readCacheInto(ctx context.Context, key string, target interface{}) bool {
	if s.cache == nil {
		return false
	}
	cached, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("failed to read dataset cache")
		}
		return false
	}
	if err := json.Unmarshal([]byte(cached), target); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("discarding malformed dataset cache entry")
		return false
	}
	return true
}

func (s *datasetService) writeCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode dataset cache entry")
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.opts.CacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to store dataset cache")
	}
}

func (s *datasetService) publishGenerated(snapshot models.DatasetSnapshot) {
	if s.publisher == nil || s.opts.EventsSubject == "" {
		return
	}

	event := dto.DatasetGeneratedEvent{
		EventID:         uuid.NewString(),
		Snapshot:        snapshot.Name,
		Seed:            snapshot.Seed,
		StudentCount:    snapshot.StudentCount,
		AssignmentCount: snapshot.AssignmentCount,
		SubmissionCount: snapshot.SubmissionCount,
		GeneratedAt:     s.now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode dataset event")
		return
	}
	if err := s.publisher.Publish(s.opts.EventsSubject, payload); err != nil {
		observability.EventsPublished().WithLabelValues("failed").Inc()
		s.logger.Warn().Err(err).Str("subject", s.opts.EventsSubject).Msg("failed to publish dataset event")
		return
	}
	observability.EventsPublished().WithLabelValues("published").Inc()
}

func toSnapshotResponse(snapshot models.DatasetSnapshot) dto.SnapshotResponse {
	return dto.SnapshotResponse{
		ID:              snapshot.ID,
		Name:            snapshot.Name,
		Seed:            snapshot.Seed,
		StudentCount:    snapshot.StudentCount,
		AssignmentCount: snapshot.AssignmentCount,
		SubmissionCount: snapshot.SubmissionCount,
		CreatedAt:       snapshot.CreatedAt,
		UpdatedAt:       snapshot.UpdatedAt,
	}
}

func mockCacheKey(params dto.DatasetParams) string {
	return fmt.Sprintf("dataset:mock:%d:%d:%d", params.Seed, params.Students, params.Assignments)
}

// snapshotCacheKey path-escapes name so distinct snapshot names never share a key.
func snapshotCacheKey(name string) string {
	return "dataset:snapshot:" + url.PathEscape(name)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
