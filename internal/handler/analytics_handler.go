package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/tonetrace-api/internal/service"
	"github.com/noah-isme/tonetrace-api/internal/utils"
)

// AnalyticsHandler exposes the class overview, roster and assignment tracker statistics.
type AnalyticsHandler struct {
	service service.ClassAnalyticsService
	logger  zerolog.Logger
}

// NewAnalyticsHandler creates a new handler instance.
func NewAnalyticsHandler(service service.ClassAnalyticsService, logger zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		logger:  logger.With().Str("component", "analytics_handler").Logger(),
	}
}

// Register attaches the analytics endpoints.
func (h *AnalyticsHandler) Register(router fiber.Router) {
	router.Get("/class", h.classAggregates)
	router.Get("/students", h.studentSummaries)
	router.Get("/students/export", h.exportStudents)
	router.Get("/assignments", h.assignmentSummaries)
}

func (h *AnalyticsHandler) classAggregates(c *fiber.Ctx) error {
	query, err := datasetQuery(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.ClassAggregates(c.UserContext(), query)
	if err != nil {
		return respondError(c, h.logger, err, "failed to compute class aggregates")
	}

	return utils.OK(c, response, "class aggregates computed", datasetMeta(response.Source, response.CacheHit))
}

func (h *AnalyticsHandler) studentSummaries(c *fiber.Ctx) error {
	query, err := datasetQuery(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.StudentSummaries(c.UserContext(), query, parseQueryBool(c, "struggling"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to compute student summaries")
	}

	return utils.SendSuccess(c, "student summaries computed", response)
}

func (h *AnalyticsHandler) exportStudents(c *fiber.Ctx) error {
	query, err := datasetQuery(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	payload, err := h.service.ExportStudentSummaries(c.UserContext(), query, parseQueryBool(c, "struggling"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to export student summaries")
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="students.csv"`)
	return c.Status(fiber.StatusOK).Send(payload)
}

func (h *AnalyticsHandler) assignmentSummaries(c *fiber.Ctx) error {
	query, err := datasetQuery(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.AssignmentSummaries(c.UserContext(), query)
	if err != nil {
		return respondError(c, h.logger, err, "failed to compute assignment summaries")
	}

	return utils.SendSuccess(c, "assignment summaries computed", response)
}
