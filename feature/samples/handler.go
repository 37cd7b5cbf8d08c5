package samples

import (
	"errors"

	"log-console/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for sample logs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the sample routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/samples")
	group.Get("/", h.HandleList)
	group.Get("/*", h.HandleRead)
	group.Put("/*", h.HandleUpload)
	group.Delete("/*", h.HandleDelete)
}

// HandleList lists sample logs.
// @Summary List Samples
// @Tags samples
// @Produce json
// @Param prefix query string false "Key prefix inside samples/"
// @Success 200 {array} Sample
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /samples [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	items, err := h.service.List(c.Context(), c.Query("prefix"))
	if err != nil {
		return h.fail(c, "List samples failed", err)
	}
	return c.JSON(items)
}

// HandleRead returns a sample's content.
// @Summary Read Sample
// @Tags samples
// @Produce json
// @Param key path string true "Sample key"
// @Success 200 {object} Content
// @Failure 404 {object} map[string]string "Not Found"
// @Router /samples/{key} [get]
func (h *Handler) HandleRead(c *fiber.Ctx) error {
	content, err := h.service.Read(c.Context(), c.Params("*"))
	if err != nil {
		return h.fail(c, "Read sample failed", err)
	}
	return c.JSON(content)
}

// HandleUpload stores the raw request body as a sample.
// @Summary Upload Sample
// @Tags samples
// @Accept plain
// @Produce json
// @Param key path string true "Sample key"
// @Success 201 {object} Sample
// @Failure 400 {object} map[string]string "Invalid Key"
// @Router /samples/{key} [put]
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	sample, err := h.service.Upload(c.Context(), c.Params("*"), c.Body())
	if err != nil {
		return h.fail(c, "Upload sample failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(sample)
}

// HandleDelete removes a sample.
// @Summary Delete Sample
// @Tags samples
// @Param key path string true "Sample key"
// @Success 204
// @Router /samples/{key} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("*")); err != nil {
		return h.fail(c, "Delete sample failed", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	l := logger.WithRayID(h.service.logger, c)
	switch {
	case errors.Is(err, ErrInvalidKey):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrTooLarge):
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": err.Error()})
	}
	l.Error(msg, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
