package views

import (
	"errors"

	"log-console/core/logger"
	"log-console/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for console views.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the view routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/views")
	group.Post("/", h.HandleCreate)
	group.Get("/:id", h.HandleGet)
	group.Patch("/:id", h.HandleUpdate)
	group.Post("/:id/reload", h.HandleReload)
	group.Delete("/:id", h.HandleDelete)
}

// HandleCreate opens a view and starts loading its data.
// @Summary Open View
// @Tags views
// @Accept json
// @Produce json
// @Param request body Params true "Kind, filter and page"
// @Success 201 {object} Snapshot
// @Failure 400 {object} map[string]string "Invalid Kind"
// @Failure 429 {object} map[string]string "Too Many Views"
// @Router /views [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	var p Params
	if err := c.BodyParser(&p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	snap, err := h.service.Create(p)
	if err != nil {
		return h.fail(c, "Open view failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(snap)
}

// HandleGet returns a view's data, loading state and error.
// @Summary Get View
// @Description With wait=true the request blocks until the current load settles (bounded).
// @Tags views
// @Produce json
// @Param id path string true "View ID"
// @Param wait query bool false "Wait for the current load"
// @Success 200 {object} Snapshot
// @Failure 404 {object} map[string]string "Not Found"
// @Router /views/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	snap, err := h.service.Get(c.Context(), c.Params("id"), utils.ToBool(c.Query("wait")))
	if err != nil {
		return h.fail(c, "Get view failed", err)
	}
	return c.JSON(snap)
}

// HandleUpdate changes the filter or page of a view.
// @Summary Update View
// @Tags views
// @Accept json
// @Produce json
// @Param id path string true "View ID"
// @Param request body Patch true "New dependencies"
// @Success 200 {object} Snapshot
// @Failure 404 {object} map[string]string "Not Found"
// @Router /views/{id} [patch]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	var p Patch
	if err := c.BodyParser(&p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	snap, err := h.service.Update(c.Params("id"), p)
	if err != nil {
		return h.fail(c, "Update view failed", err)
	}
	return c.JSON(snap)
}

// HandleReload reloads a view with unchanged dependencies.
// @Summary Reload View
// @Tags views
// @Produce json
// @Param id path string true "View ID"
// @Success 200 {object} Snapshot
// @Failure 404 {object} map[string]string "Not Found"
// @Router /views/{id}/reload [post]
func (h *Handler) HandleReload(c *fiber.Ctx) error {
	snap, err := h.service.Reload(c.Params("id"))
	if err != nil {
		return h.fail(c, "Reload view failed", err)
	}
	return c.JSON(snap)
}

// HandleDelete closes a view.
// @Summary Close View
// @Tags views
// @Param id path string true "View ID"
// @Success 204
// @Failure 404 {object} map[string]string "Not Found"
// @Router /views/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Params("id")); err != nil {
		return h.fail(c, "Close view failed", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	switch {
	case errors.Is(err, ErrViewNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrInvalidKind):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrTooManyViews):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	logger.WithRayID(h.service.logger, c).Error(msg, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
