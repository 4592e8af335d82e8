package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/tonetrace-api/internal/dto"
	"github.com/noah-isme/tonetrace-api/internal/service"
	"github.com/noah-isme/tonetrace-api/internal/utils"
)

// DatasetHandler exposes dataset generation and snapshot endpoints.
type DatasetHandler struct {
	service service.DatasetService
	logger  zerolog.Logger
}

// NewDatasetHandler creates a new handler instance.
func NewDatasetHandler(service service.DatasetService, logger zerolog.Logger) *DatasetHandler {
	return &DatasetHandler{
		service: service,
		logger:  logger.With().Str("component", "dataset_handler").Logger(),
	}
}

// Register attaches the dataset endpoints. createGuards run before snapshot creation only.
func (h *DatasetHandler) Register(router fiber.Router, createGuards ...fiber.Handler) {
	router.Get("/", h.load)
	router.Get("/snapshots", h.listSnapshots)
	router.Get("/snapshots/:name", h.getSnapshot)
	router.Post("/snapshots", append(createGuards, h.createSnapshot)...)
}

func (h *DatasetHandler) load(c *fiber.Ctx) error {
	query, err := datasetQuery(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.Load(c.UserContext(), query)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load dataset")
	}

	return utils.OK(c, response, "dataset retrieved", datasetMeta(response.Source, response.CacheHit))
}

func (h *DatasetHandler) listSnapshots(c *fiber.Ctx) error {
	snapshots, err := h.service.ListSnapshots(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err, "failed to list snapshots")
	}
	return utils.SendSuccess(c, "snapshots retrieved", snapshots)
}

func (h *DatasetHandler) getSnapshot(c *fiber.Ctx) error {
	response, err := h.service.GetSnapshot(c.UserContext(), c.Params("name"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to load snapshot")
	}
	return utils.OK(c, response, "snapshot retrieved", datasetMeta(response.Source, response.CacheHit))
}

func (h *DatasetHandler) createSnapshot(c *fiber.Ctx) error {
	var req dto.SnapshotCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	snapshot, err := h.service.CreateSnapshot(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, err, "failed to create snapshot")
	}

	requestLogger(h.logger, c).Info().
		Str("snapshot", snapshot.Name).
		Int("students", snapshot.StudentCount).
		Int("assignments", snapshot.AssignmentCount).
		Msg("snapshot created")

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "snapshot created", snapshot)
}
