package sharing

import (
	"errors"

	"flashdeck/core/logger"
	"flashdeck/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for set sharing.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the sharing routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sharing")
	group.Get("/code", h.HandleGenerateCode)
	group.Get("/public", h.HandleListPublic)
	group.Get("/owned/:accountId", h.HandleListOwned)
	group.Post("/sets/:id/publish", h.HandlePublish)
	group.Post("/sets/:id/unpublish", h.HandleUnpublish)
	group.Delete("/public/:id", h.HandleDeletePublic)
	group.Post("/import", h.HandleImport)
	group.Post("/public/:id/copy", h.HandleCopy)
}

// ImportRequest is the body of an import by code.
type ImportRequest struct {
	Code string `json:"code"`
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	l := logger.WithRayID(h.service.logger, c)
	switch {
	case errors.Is(err, ErrShareNotFound), errors.Is(err, reconcile.ErrMutationTargetMissing):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrNotSignedIn):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	default:
		l.Error("Sharing request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

// HandleGenerateCode returns a fresh share code.
// @Summary Generate Share Code
// @Description Returns a random 6-character code from A-Z and 0-9.
// @Tags sharing
// @Produce json
// @Success 200 {object} map[string]string "Code"
// @Router /sharing/code [get]
func (h *Handler) HandleGenerateCode(c *fiber.Ctx) error {
	code, err := h.service.GenerateShareCode()
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"code": code})
}

// HandleListPublic lists public sets.
// @Summary List Public Sets
// @Description Returns every published set marked public.
// @Tags sharing
// @Produce json
// @Success 200 {array} models.FlashcardSet
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sharing/public [get]
func (h *Handler) HandleListPublic(c *fiber.Ctx) error {
	sets, err := h.service.FetchPublic(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(sets)
}

// HandleListOwned lists registry entries owned by an account.
// @Summary List Owned Shared Sets
// @Tags sharing
// @Produce json
// @Param accountId path string true "Account ID"
// @Success 200 {array} models.FlashcardSet
// @Router /sharing/owned/{accountId} [get]
func (h *Handler) HandleListOwned(c *fiber.Ctx) error {
	sets, err := h.service.FetchOwnedPublic(c.Context(), c.Params("accountId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(sets)
}

// HandlePublish shares a library set.
// @Summary Publish Set
// @Description Marks a library set public and publishes it. With code=true a share code is assigned if missing.
// @Tags sharing
// @Produce json
// @Param id path string true "Set ID"
// @Param code query boolean false "Assign a share code"
// @Success 200 {object} models.FlashcardSet
// @Failure 401 {object} map[string]string "Not signed in"
// @Failure 404 {object} map[string]string "Set not found"
// @Router /sharing/sets/{id}/publish [post]
func (h *Handler) HandlePublish(c *fiber.Ctx) error {
	set, err := h.service.ShareSet(c.Context(), c.Params("id"), c.QueryBool("code", false))
	if err != nil {
		return h.fail(c, err)
	}
	logger.WithRayID(h.service.logger, c).Info("Set shared", zap.String("set_id", set.ID))
	return c.JSON(set)
}

// HandleUnpublish hides a shared set.
// @Summary Unpublish Set
// @Tags sharing
// @Param id path string true "Set ID"
// @Success 204
// @Failure 404 {object} map[string]string "Not found"
// @Router /sharing/sets/{id}/unpublish [post]
func (h *Handler) HandleUnpublish(c *fiber.Ctx) error {
	if err := h.service.UnshareSet(c.Context(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDeletePublic removes a registry entry.
// @Summary Delete Shared Set
// @Tags sharing
// @Param id path string true "Set ID"
// @Success 204
// @Router /sharing/public/{id} [delete]
func (h *Handler) HandleDeletePublic(c *fiber.Ctx) error {
	if err := h.service.DeletePublic(c.Context(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleImport adds a personal copy of the set behind a share code.
// @Summary Import By Code
// @Tags sharing
// @Accept json
// @Produce json
// @Param request body ImportRequest true "Share code"
// @Success 201 {object} models.FlashcardSet
// @Failure 404 {object} map[string]string "Not found"
// @Router /sharing/import [post]
func (h *Handler) HandleImport(c *fiber.Ctx) error {
	var req ImportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	set, err := h.service.ImportToLibrary(c.Context(), req.Code)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(set)
}

// HandleCopy adds a personal copy of a public set.
// @Summary Copy Public Set
// @Tags sharing
// @Produce json
// @Param id path string true "Set ID"
// @Success 201 {object} models.FlashcardSet
// @Failure 404 {object} map[string]string "Not found"
// @Router /sharing/public/{id}/copy [post]
func (h *Handler) HandleCopy(c *fiber.Ctx) error {
	set, err := h.service.CopyPublic(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(set)
}
