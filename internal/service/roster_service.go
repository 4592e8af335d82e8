package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/noah-isme/tonetrace-api/internal/analytics"
	"github.com/noah-isme/tonetrace-api/internal/dto"
	"github.com/noah-isme/tonetrace-api/internal/models"
)

var (
	// ErrStudentNotFound indicates the requested student is not part of the dataset.
	ErrStudentNotFound = errors.New("student not found")
	// ErrAnalysisNotFound indicates the requested analysis is not part of the dataset.
	ErrAnalysisNotFound = errors.New("analysis not found")
)

// RosterService exposes the raw entities of the active dataset.
type RosterService interface {
	ListStudents(ctx context.Context, query dto.DatasetQuery, risk string) ([]models.Student, error)
	GetStudent(ctx context.Context, query dto.DatasetQuery, id string) (dto.StudentDetailResponse, error)
	ListAssignments(ctx context.Context, query dto.DatasetQuery) ([]models.Assignment, error)
	GetAnalysis(ctx context.Context, query dto.DatasetQuery, id string) (models.AnalysisMetrics, error)
}

type rosterService struct {
	datasets DatasetService
	logger   zerolog.Logger
}

// NewRosterService constructs the roster service.
func NewRosterService(datasets DatasetService, logger zerolog.Logger) RosterService {
	return &rosterService{
		datasets: datasets,
		logger:   logger.With().Str("component", "roster_service").Logger(),
	}
}

func (s *rosterService) ListStudents(ctx context.Context, query dto.DatasetQuery, risk string) ([]models.Student, error) {
	dataset, err := s.datasets.Load(ctx, query)
	if err != nil {
		return nil, err
	}
	if risk == "" {
		return dataset.Students, nil
	}

	filtered := make([]models.Student, 0, len(dataset.Students))
	for _, student := range dataset.Students {
		if string(student.RiskLevel) == risk {
			filtered = append(filtered, student)
		}
	}
	return filtered, nil
}

func (s *rosterService) GetStudent(ctx context.Context, query dto.DatasetQuery, id string) (dto.StudentDetailResponse, error) {
	dataset, err := s.datasets.Load(ctx, query)
	if err != nil {
		return dto.StudentDetailResponse{}, err
	}

	student, ok := dataset.StudentByID(id)
	if !ok {
		return dto.StudentDetailResponse{}, ErrStudentNotFound
	}

	response := dto.StudentDetailResponse{
		Student:     student,
		Submissions: make([]models.Submission, 0),
		Analyses:    dataset.AnalysesForStudent(id),
		Missing:     make([]models.Submission, 0),
	}
	for _, submission := range dataset.Submissions {
		if submission.StudentID == id {
			response.Submissions = append(response.Submissions, submission)
		}
	}
	for _, missing := range analytics.MissingSubmissions(dataset.Dataset) {
		if missing.StudentID == id {
			response.Missing = append(response.Missing, missing)
		}
	}
	for _, summary := range analytics.ComputeStudentSummaries(dataset.Dataset) {
		if summary.StudentID == id {
			response.Summary = summary
			break
		}
	}

	s.logger.Debug().
		Str("student_id", id).
		Int("submissions", len(response.Submissions)).
		Int("missing", len(response.Missing)).
		Msg("student detail assembled")

	return response, nil
}

func (s *rosterService) ListAssignments(ctx context.Context, query dto.DatasetQuery) ([]models.Assignment, error) {
	dataset, err := s.datasets.Load(ctx, query)
	if err != nil {
		return nil, err
	}
	return dataset.Assignments, nil
}

func (s *rosterService) GetAnalysis(ctx context.Context, query dto.DatasetQuery, id string) (models.AnalysisMetrics, error) {
	dataset, err := s.datasets.Load(ctx, query)
	if err != nil {
		return models.AnalysisMetrics{}, err
	}

	analysis, ok := dataset.AnalysisByID(id)
	if !ok {
		return models.AnalysisMetrics{}, ErrAnalysisNotFound
	}
	return analysis, nil
}
