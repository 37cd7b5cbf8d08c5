package integrity

import (
	"errors"

	"log-console/core/logger"
	"log-console/core/utils"
	"log-console/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/structure", h.HandleStructureCheck)
	group.Get("/samples", h.HandleSamplesCheck)
	group.Get("/database", h.HandleDatabaseCheck)
}

// HandleIntegrityCheck runs all integrity checks.
// @Summary Run All Integrity Checks
// @Description Runs the structure, samples and database checks concurrently.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	logger.WithRayID(h.service.logger, c).Info("Triggering all integrity checks")
	return c.JSON(h.service.CheckAll(c.Context()))
}

// HandleStructureCheck checks and optionally fixes the bucket structure.
// @Summary Check Structure
// @Description Checks that the bucket and the samples/ and exports/ folders exist. Optionally creates them.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Fix missing bucket and folders"
// @Success 200 {object} StructureResult
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/structure [get]
func (h *Handler) HandleStructureCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := utils.ToBool(c.Query("fix"))

	result, err := h.service.Structure(c.Context(), fix)
	if err != nil {
		l.Error("Structure check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if len(result.Missing) > 0 {
		l.Warn("Missing folders detected", zap.Strings("missing", result.Missing), zap.String("status", result.Status))
	}
	return c.JSON(result)
}

// HandleSamplesCheck reports empty and oversized samples.
// @Summary Check Samples
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.SamplesReport
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/samples [get]
func (h *Handler) HandleSamplesCheck(c *fiber.Ctx) error {
	report, err := h.service.CheckSamples(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Samples check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// HandleDatabaseCheck compares the database schema with the models.
// @Summary Check Database Schema
// @Description Checks that the log_configs table has every column of the model.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.DatabaseReport
// @Failure 503 {object} map[string]string "No Database"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/database [get]
func (h *Handler) HandleDatabaseCheck(c *fiber.Ctx) error {
	report, err := h.service.CheckDatabase()
	if err != nil {
		if errors.Is(err, checks.ErrNoDatabase) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		}
		logger.WithRayID(h.service.logger, c).Error("Database check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}
