package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/tonetrace-api/internal/dto"
	"github.com/noah-isme/tonetrace-api/internal/middleware"
	"github.com/noah-isme/tonetrace-api/internal/mockdata"
	"github.com/noah-isme/tonetrace-api/internal/repository"
	"github.com/noah-isme/tonetrace-api/internal/service"
	"github.com/noah-isme/tonetrace-api/internal/utils"
)

func parseQueryInt(c *fiber.Ctx, key string) (*int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &parsed, nil
}

func parseQueryInt64(c *fiber.Ctx, key string) (*int64, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &parsed, nil
}

func parseQueryBool(c *fiber.Ctx, key string) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(c.Query(key)))
	return err == nil && value
}

// datasetQuery reads the seed, students, assignments and snapshot query parameters.
func datasetQuery(c *fiber.Ctx) (dto.DatasetQuery, error) {
	seed, err := parseQueryInt64(c, "seed")
	if err != nil {
		return dto.DatasetQuery{}, err
	}
	students, err := parseQueryInt(c, "students")
	if err != nil {
		return dto.DatasetQuery{}, err
	}
	assignments, err := parseQueryInt(c, "assignments")
	if err != nil {
		return dto.DatasetQuery{}, err
	}

	return dto.DatasetQuery{
		Seed:        seed,
		Students:    students,
		Assignments: assignments,
		Snapshot:    strings.TrimSpace(c.Query("snapshot")),
	}, nil
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

func validationDetails(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}
	details := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		field := strings.ToLower(fieldErr.Field())
		if fieldErr.Param() != "" {
			details[field] = fmt.Sprintf("failed %s=%s", fieldErr.Tag(), fieldErr.Param())
		} else {
			details[field] = "failed " + fieldErr.Tag()
		}
	}
	return details
}

// respondError maps service errors to HTTP statuses. Unexpected errors are logged and hidden.
func respondError(c *fiber.Ctx, logger zerolog.Logger, err error, fallback string) error {
	switch {
	case isValidationError(err):
		return utils.Fail(c, fiber.StatusBadRequest, "invalid parameters", validationDetails(err))
	case errors.Is(err, mockdata.ErrInvalidPopulationSize):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrSnapshotNotFound),
		errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, service.ErrAnalysisNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSnapshotsUnavailable):
		return utils.SendError(c, fiber.StatusServiceUnavailable, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		requestLogger(logger, c).Warn().Err(err).Msg("request abandoned")
		return utils.SendError(c, fiber.StatusServiceUnavailable, "request cancelled")
	default:
		requestLogger(logger, c).Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}

func datasetMeta(source string, cacheHit bool) fiber.Map {
	return fiber.Map{"source": source, "cache_hit": cacheHit}
}
