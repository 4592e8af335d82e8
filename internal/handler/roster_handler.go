package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/tonetrace-api/internal/models"
	"github.com/noah-isme/tonetrace-api/internal/service"
	"github.com/noah-isme/tonetrace-api/internal/utils"
)

// RosterHandler exposes students, assignments and individual analyses.
type RosterHandler struct {
	service service.RosterService
	logger  zerolog.Logger
}

// NewRosterHandler creates a new handler instance.
func NewRosterHandler(service service.RosterService, logger zerolog.Logger) *RosterHandler {
	return &RosterHandler{
		service: service,
		logger:  logger.With().Str("component", "roster_handler").Logger(),
	}
}

// Register attaches the roster endpoints.
func (h *RosterHandler) Register(router fiber.Router) {
	router.Get("/students", h.listStudents)
	router.Get("/students/:id", h.getStudent)
	router.Get("/assignments", h.listAssignments)
	router.Get("/analyses/:id", h.getAnalysis)
}

func (h *RosterHandler) listStudents(c *fiber.Ctx) error {
	query, err := datasetQuery(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	risk := strings.ToLower(strings.TrimSpace(c.Query("risk_level")))
	if risk != "" && !validRiskLevel(risk) {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid risk level", fiber.Map{"allowed": models.RiskLevels})
	}

	students, err := h.service.ListStudents(c.UserContext(), query, risk)
	if err != nil {
		return respondError(c, h.logger, err, "failed to list students")
	}

	return utils.OK(c, students, "students retrieved", fiber.Map{"total": len(students)})
}

func (h *RosterHandler) getStudent(c *fiber.Ctx) error {
	query, err := datasetQuery(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	detail, err := h.service.GetStudent(c.UserContext(), query, c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to load student")
	}

	return utils.SendSuccess(c, "student retrieved", detail)
}

func (h *RosterHandler) listAssignments(c *fiber.Ctx) error {
	query, err := datasetQuery(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	assignments, err := h.service.ListAssignments(c.UserContext(), query)
	if err != nil {
		return respondError(c, h.logger, err, "failed to list assignments")
	}

	return utils.OK(c, assignments, "assignments retrieved", fiber.Map{"total": len(assignments)})
}

func (h *RosterHandler) getAnalysis(c *fiber.Ctx) error {
	query, err := datasetQuery(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	analysis, err := h.service.GetAnalysis(c.UserContext(), query, c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to load analysis")
	}

	return utils.SendSuccess(c, "analysis retrieved", analysis)
}

func validRiskLevel(level string) bool {
	for _, candidate := range models.RiskLevels {
		if candidate == level {
			return true
		}
	}
	return false
}
