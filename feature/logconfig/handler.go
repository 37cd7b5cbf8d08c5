package logconfig

import (
	"errors"

	"log-console/core/logger"
	"log-console/core/utils"
	"log-console/feature/logconfig/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for log configurations.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the log configuration routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/logconfigs")
	group.Get("/", h.HandleList)
	group.Post("/", h.HandleCreate)

	group.Post("/drafts", h.HandleOpenDraft)
	group.Get("/drafts/:id", h.HandleGetDraft)
	group.Patch("/drafts/:id", h.HandleUpdateDraft)
	group.Post("/drafts/:id/commit", h.HandleCommitDraft)
	group.Delete("/drafts/:id", h.HandleCloseDraft)

	group.Get("/:id", h.HandleGet)
	group.Put("/:id", h.HandleUpdate)
	group.Delete("/:id", h.HandleDelete)
}

// HandleList lists log configurations.
// @Summary List Log Configs
// @Description Returns one page of log configurations whose name contains the filter.
// @Tags logconfigs
// @Produce json
// @Param filter query string false "Name filter"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} models.Page
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /logconfigs [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	page, err := h.service.List(c.Context(), c.Query("filter"), utils.ToInt(c.Query("page")), utils.ToInt(c.Query("size")))
	if err != nil {
		return h.fail(c, "List log configs failed", err)
	}
	return c.JSON(page)
}

// HandleGet returns a single log configuration.
// @Summary Get Log Config
// @Tags logconfigs
// @Produce json
// @Param id path string true "Config ID"
// @Success 200 {object} models.LogConfig
// @Failure 404 {object} map[string]string "Not Found"
// @Router /logconfigs/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	cfg, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, "Get log config failed", err)
	}
	return c.JSON(cfg)
}

// HandleCreate creates a log configuration.
// @Summary Create Log Config
// @Description Validates the configuration (including its regex against the sample log) and stores it.
// @Tags logconfigs
// @Accept json
// @Produce json
// @Param config body models.Input true "Log config"
// @Success 201 {object} models.LogConfig
// @Failure 400 {object} map[string]string "Validation Error"
// @Failure 409 {object} map[string]string "Duplicate Name"
// @Router /logconfigs [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	var in models.Input
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	cfg, err := h.service.Create(c.Context(), in)
	if err != nil {
		return h.fail(c, "Create log config failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(cfg)
}

// HandleUpdate replaces a log configuration.
// @Summary Update Log Config
// @Tags logconfigs
// @Accept json
// @Produce json
// @Param id path string true "Config ID"
// @Param config body models.Input true "Log config"
// @Success 200 {object} models.LogConfig
// @Failure 400 {object} map[string]string "Validation Error"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /logconfigs/{id} [put]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	var in models.Input
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	cfg, err := h.service.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return h.fail(c, "Update log config failed", err)
	}
	return c.JSON(cfg)
}

// HandleDelete deletes a log configuration.
// @Summary Delete Log Config
// @Tags logconfigs
// @Param id path string true "Config ID"
// @Success 204
// @Failure 404 {object} map[string]string "Not Found"
// @Router /logconfigs/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return h.fail(c, "Delete log config failed", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleOpenDraft opens an edit draft.
// @Summary Open Draft
// @Description Opens an unsaved edit of an existing config (baseId) or of a new one.
// @Tags logconfigs
// @Accept json
// @Produce json
// @Param body body object false "{\"baseId\": \"...\"}"
// @Success 201 {object} DraftView
// @Failure 404 {object} map[string]string "Base Not Found"
// @Router /logconfigs/drafts [post]
func (h *Handler) HandleOpenDraft(c *fiber.Ctx) error {
	var body struct {
		BaseID string `json:"baseId"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
	}
	view, err := h.service.OpenDraft(c.Context(), body.BaseID)
	if err != nil {
		return h.fail(c, "Open draft failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// HandleGetDraft returns a draft.
// @Summary Get Draft
// @Tags logconfigs
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} DraftView
// @Failure 404 {object} map[string]string "Not Found"
// @Router /logconfigs/drafts/{id} [get]
func (h *Handler) HandleGetDraft(c *fiber.Ctx) error {
	view, err := h.service.GetDraft(c.Params("id"))
	if err != nil {
		return h.fail(c, "Get draft failed", err)
	}
	return c.JSON(view)
}

// HandleUpdateDraft patches a draft and re-validates changed parsing fields.
// @Summary Update Draft
// @Tags logconfigs
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param patch body DraftPatch true "Changed fields"
// @Success 200 {object} DraftView
// @Failure 404 {object} map[string]string "Not Found"
// @Router /logconfigs/drafts/{id} [patch]
func (h *Handler) HandleUpdateDraft(c *fiber.Ctx) error {
	var patch DraftPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	view, err := h.service.UpdateDraft(c.Context(), c.Params("id"), patch)
	if err != nil {
		return h.fail(c, "Update draft failed", err)
	}
	return c.JSON(view)
}

// HandleCommitDraft saves a draft.
// @Summary Commit Draft
// @Tags logconfigs
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} models.LogConfig
// @Failure 400 {object} map[string]string "Validation Error"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /logconfigs/drafts/{id}/commit [post]
func (h *Handler) HandleCommitDraft(c *fiber.Ctx) error {
	cfg, err := h.service.CommitDraft(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, "Commit draft failed", err)
	}
	return c.JSON(cfg)
}

// HandleCloseDraft discards a draft.
// @Summary Close Draft
// @Tags logconfigs
// @Param id path string true "Draft ID"
// @Success 204
// @Failure 404 {object} map[string]string "Not Found"
// @Router /logconfigs/drafts/{id} [delete]
func (h *Handler) HandleCloseDraft(c *fiber.Ctx) error {
	if !h.service.CloseDraft(c.Params("id")) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": ErrDraftNotFound.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	l := logger.WithRayID(h.service.logger, c)

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDraftNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrDuplicateName):
		status = fiber.StatusConflict
	case errors.Is(err, ErrInvalidConfig):
		status = fiber.StatusBadRequest
	case errors.Is(err, ErrNoDatabase):
		status = fiber.StatusServiceUnavailable
	}

	if status >= fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Warn(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
