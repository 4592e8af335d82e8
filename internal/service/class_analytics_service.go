package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/tonetrace-api/internal/analytics"
	"github.com/noah-isme/tonetrace-api/internal/dto"
	"github.com/noah-isme/tonetrace-api/internal/models"
	"github.com/noah-isme/tonetrace-api/pkg/export"
)

// StudentExportColumns is the header row of the roster CSV export.
var StudentExportColumns = []string{
	"student_id",
	"name",
	"email",
	"risk_level",
	"submission_count",
	"missing_count",
	"mean_deviation",
	"mean_grammar_quality",
	"mean_formality",
	"mean_readability",
	"struggling",
}

// ClassAnalyticsService derives dashboard statistics from the active dataset.
type ClassAnalyticsService interface {
	ClassAggregates(ctx context.Context, query dto.DatasetQuery) (dto.ClassAggregatesResponse, error)
	StudentSummaries(ctx context.Context, query dto.DatasetQuery, strugglingOnly bool) (dto.StudentSummaryListResponse, error)
	AssignmentSummaries(ctx context.Context, query dto.DatasetQuery) (dto.AssignmentSummaryListResponse, error)
	ExportStudentSummaries(ctx context.Context, query dto.DatasetQuery, strugglingOnly bool) ([]byte, error)
}

type classAnalyticsService struct {
	datasets DatasetService
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// NewClassAnalyticsService constructs the analytics service. cache may be nil.
func NewClassAnalyticsService(datasets DatasetService, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) ClassAnalyticsService {
	return &classAnalyticsService{
		datasets: datasets,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "class_analytics_service").Logger(),
		tracer:   otel.Tracer("github.com/noah-isme/tonetrace-api/internal/service/class_analytics"),
		now:      time.Now,
	}
}

func (s *classAnalyticsService) ClassAggregates(ctx context.Context, query dto.DatasetQuery) (dto.ClassAggregatesResponse, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.aggregate")
	defer span.End()

	dataset, err := s.datasets.Load(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load_dataset_failed")
		return dto.ClassAggregatesResponse{}, err
	}

	cacheKey := aggregatesCacheKey(dataset)
	span.SetAttributes(attribute.String("analytics.cache_key", cacheKey))

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var response dto.ClassAggregatesResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				span.SetAttributes(attribute.Bool("analytics.cache_hit", true))
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read aggregates cache")
			span.RecordError(err)
		}
	}

	response := dto.ClassAggregatesResponse{
		ClassAggregates: analytics.ComputeClassAggregates(dataset.Dataset),
		Source:          dataset.Source,
		GeneratedAt:     s.now().UTC(),
	}
	span.SetAttributes(
		attribute.Int("analytics.analyses", len(dataset.Analyses)),
		attribute.Int("analytics.struggling", len(response.StrugglingStudents)),
		attribute.Int("analytics.missing", len(response.MissingSubmissions)),
	)

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store aggregates cache")
				span.RecordError(err)
			}
		}
	}

	return response, nil
}

func (s *classAnalyticsService) StudentSummaries(ctx context.Context, query dto.DatasetQuery, strugglingOnly bool) (dto.StudentSummaryListResponse, error) {
	dataset, err := s.datasets.Load(ctx, query)
	if err != nil {
		return dto.StudentSummaryListResponse{}, err
	}

	summaries := analytics.ComputeStudentSummaries(dataset.Dataset)
	response := dto.StudentSummaryListResponse{
		Items:       make([]models.StudentSummary, 0, len(summaries)),
		GeneratedAt: s.now().UTC(),
	}
	for _, summary := range summaries {
		if summary.Struggling {
			response.Struggling++
		} else if strugglingOnly {
			continue
		}
		response.Items = append(response.Items, summary)
	}
	return response, nil
}

func (s *classAnalyticsService) AssignmentSummaries(ctx context.Context, query dto.DatasetQuery) (dto.AssignmentSummaryListResponse, error) {
	dataset, err := s.datasets.Load(ctx, query)
	if err != nil {
		return dto.AssignmentSummaryListResponse{}, err
	}

	generatedAt := s.now().UTC()
	return dto.AssignmentSummaryListResponse{
		Items:       analytics.ComputeAssignmentSummaries(dataset.Dataset, generatedAt),
		GeneratedAt: generatedAt,
	}, nil
}

func (s *classAnalyticsService) ExportStudentSummaries(ctx context.Context, query dto.DatasetQuery, strugglingOnly bool) ([]byte, error) {
	summaries, err := s.StudentSummaries(ctx, query, strugglingOnly)
	if err != nil {
		return nil, err
	}

	table := export.Table{Columns: StudentExportColumns}
	for _, summary := range summaries.Items {
		table.AddRow(map[string]string{
			"student_id":           summary.StudentID,
			"name":                 summary.Name,
			"email":                summary.Email,
			"risk_level":           string(summary.RiskLevel),
			"submission_count":     strconv.Itoa(summary.SubmissionCount),
			"missing_count":        strconv.Itoa(summary.MissingCount),
			"mean_deviation":       formatFloat(summary.MeanDeviation),
			"mean_grammar_quality": formatFloat(summary.MeanGrammarQuality),
			"mean_formality":       formatFloat(summary.MeanFormality),
			"mean_readability":     formatFloat(summary.MeanReadability),
			"struggling":           strconv.FormatBool(summary.Struggling),
		})
	}

	payload, err := export.RenderCSV(table)
	if err != nil {
		return nil, fmt.Errorf("render roster export: %w", err)
	}

	s.logger.Info().
		Int("rows", len(table.Rows)).
		Bool("struggling_only", strugglingOnly).
		Msg("roster exported")

	return payload, nil
}

const classAggregatesPrefix = "analytics:class:"

func aggregatesCacheKey(dataset dto.DatasetResponse) string {
	if dataset.Source == SourceSnapshot {
		return classAggregatesPrefix + snapshotCacheKey(dataset.Params.Snapshot)
	}
	return classAggregatesPrefix + mockCacheKey(dataset.Params)
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}
