package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/tonetrace-api/internal/dto"
	"github.com/noah-isme/tonetrace-api/internal/repository"
)

// ErrSeedDisabled indicates startup seeding is disabled by configuration.
var ErrSeedDisabled = errors.New("seeding is disabled")

// SeedService makes sure the snapshot read by default exists before traffic arrives.
type SeedService interface {
	EnsureSnapshot(ctx context.Context, name string) (bool, error)
}

type seedService struct {
	datasets DatasetService
	repo     repository.DatasetRepository
	enabled  bool
	logger   zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(datasets DatasetService, repo repository.DatasetRepository, enabled bool, logger zerolog.Logger) SeedService {
	return &seedService{
		datasets: datasets,
		repo:     repo,
		enabled:  enabled,
		logger:   logger.With().Str("component", "seed_service").Logger(),
	}
}

// EnsureSnapshot generates and stores the named snapshot from the configured
// defaults when it is missing. It reports whether a snapshot was created.
func (s *seedService) EnsureSnapshot(ctx context.Context, name string) (bool, error) {
	if !s.enabled {
		return false, ErrSeedDisabled
	}
	if s.repo == nil {
		return false, ErrSnapshotsUnavailable
	}

	name = strings.TrimSpace(name)
	_, _, err := s.repo.LoadSnapshot(ctx, name)
	switch {
	case err == nil:
		s.logger.Debug().Str("snapshot", name).Msg("snapshot already present")
		return false, nil
	case !errors.Is(err, repository.ErrSnapshotNotFound):
		return false, err
	}

	snapshot, err := s.datasets.CreateSnapshot(ctx, dto.SnapshotCreateRequest{Name: name})
	if err != nil {
		return false, err
	}

	s.logger.Info().
		Str("snapshot", snapshot.Name).
		Int64("seed", snapshot.Seed).
		Int("submissions", snapshot.SubmissionCount).
		Msg("default snapshot seeded")
	return true, nil
}
