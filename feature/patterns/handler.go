package patterns

import (
	"context"
	"errors"

	"log-console/core/logger"
	"log-console/core/patternmatch"
	"log-console/feature/samples"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for pattern testing.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the pattern routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/patterns")
	group.Post("/match", h.HandleMatch)
	group.Post("/match-sample", h.HandleMatchSample)
}

// HandleMatch runs a pattern against a text.
// @Summary Match Pattern
// @Description Runs an ECMAScript regex against the text. Invalid or timed out patterns yield {"error"}.
// @Tags patterns
// @Accept json
// @Produce json
// @Param request body patternmatch.Request true "Pattern and text"
// @Success 200 {object} patternmatch.Response
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /patterns/match [post]
func (h *Handler) HandleMatch(c *fiber.Ctx) error {
	var req patternmatch.Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	resp, err := h.service.Match(c.Context(), req)
	if err != nil {
		return h.fail(c, "Match pattern failed", err)
	}
	return c.JSON(resp)
}

// HandleMatchSample runs a pattern against every line of a stored sample.
// @Summary Match Pattern On Sample
// @Tags patterns
// @Accept json
// @Produce json
// @Param request body SampleRequest true "Pattern and sample key"
// @Success 200 {object} SampleResult
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Sample Not Found"
// @Router /patterns/match-sample [post]
func (h *Handler) HandleMatchSample(c *fiber.Ctx) error {
	var req SampleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	result, err := h.service.MatchSample(c.Context(), req)
	if err != nil {
		return h.fail(c, "Match pattern on sample failed", err)
	}
	return c.JSON(result)
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	switch {
	case errors.Is(err, ErrEmptyPattern), errors.Is(err, samples.ErrInvalidKey):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, samples.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, patternmatch.ErrClosed), errors.Is(err, patternmatch.ErrNotStarted):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{"error": err.Error()})
	}
	logger.WithRayID(h.service.logger, c).Error(msg, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
