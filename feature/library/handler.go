package library

import (
	"errors"

	"flashdeck/core/logger"
	"flashdeck/core/reconcile"
	"flashdeck/feature/identity"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for auth, profile and sets.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the library routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	auth := app.Group("/auth")
	auth.Get("/state", h.HandleState)
	auth.Post("/signin", h.HandleSignIn)
	auth.Post("/signup", h.HandleSignUp)
	auth.Post("/signout", h.HandleSignOut)

	profile := app.Group("/profile")
	profile.Get("/", h.HandleGetProfile)
	profile.Patch("/", h.HandleUpdateProfile)

	sets := app.Group("/sets")
	sets.Get("/", h.HandleListSets)
	sets.Get("/:id", h.HandleGetSet)
	sets.Post("/", h.HandleCreateSet)
	sets.Put("/:id", h.HandleUpdateSet)
	sets.Delete("/:id", h.HandleDeleteSet)
	sets.Post("/:id/cards", h.HandleAddCard)
	sets.Post("/:id/cards/:cardId/star", h.HandleToggleStar)
}

func status(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs),
		errors.Is(err, reconcile.ErrCredentialsRequired),
		errors.Is(err, identity.ErrWeakPassword),
		errors.Is(err, identity.ErrInvalidEmail):
		return fiber.StatusBadRequest
	case errors.Is(err, identity.ErrInvalidCredentials),
		errors.Is(err, reconcile.ErrNotSignedIn):
		return fiber.StatusUnauthorized
	case errors.Is(err, identity.ErrEmailInUse):
		return fiber.StatusConflict
	case errors.Is(err, reconcile.ErrMutationTargetMissing),
		errors.Is(err, ErrCardNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, identity.ErrNetwork),
		errors.Is(err, reconcile.ErrNotRunning):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	code := status(err)
	if code >= fiber.StatusInternalServerError {
		logger.WithRayID(h.service.logger, c).Error("Library request failed", zap.Error(err))
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func (h *Handler) authResult(c *fiber.Ctx, state StateResponse, err error) error {
	if err != nil {
		return c.Status(status(err)).JSON(fiber.Map{"error": err.Error(), "state": state})
	}
	return c.JSON(state)
}

// HandleState returns the auth state.
// @Summary Auth State
// @Tags auth
// @Produce json
// @Success 200 {object} StateResponse
// @Router /auth/state [get]
func (h *Handler) HandleState(c *fiber.Ctx) error {
	return c.JSON(h.service.State())
}

// HandleSignIn signs in with email and password.
// @Summary Sign In
// @Tags auth
// @Accept json
// @Produce json
// @Param request body Credentials true "Credentials"
// @Success 200 {object} StateResponse
// @Failure 400 {object} map[string]string "Missing credentials"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/signin [post]
func (h *Handler) HandleSignIn(c *fiber.Ctx) error {
	var creds Credentials
	if err := c.BodyParser(&creds); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	state, err := h.service.SignIn(c.Context(), creds)
	return h.authResult(c, state, err)
}

// HandleSignUp creates an account.
// @Summary Sign Up
// @Tags auth
// @Accept json
// @Produce json
// @Param request body Credentials true "Credentials"
// @Success 200 {object} StateResponse
// @Failure 400 {object} map[string]string "Weak password or invalid email"
// @Failure 409 {object} map[string]string "Email in use"
// @Router /auth/signup [post]
func (h *Handler) HandleSignUp(c *fiber.Ctx) error {
	var creds Credentials
	if err := c.BodyParser(&creds); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	state, err := h.service.SignUp(c.Context(), creds)
	return h.authResult(c, state, err)
}

// HandleSignOut signs out.
// @Summary Sign Out
// @Tags auth
// @Produce json
// @Success 200 {object} StateResponse
// @Router /auth/signout [post]
func (h *Handler) HandleSignOut(c *fiber.Ctx) error {
	state, err := h.service.SignOut(c.Context())
	return h.authResult(c, state, err)
}

// HandleGetProfile returns the signed-in profile.
// @Summary Get Profile
// @Tags profile
// @Produce json
// @Success 200 {object} models.AppUser
// @Failure 401 {object} map[string]string "Not signed in"
// @Router /profile [get]
func (h *Handler) HandleGetProfile(c *fiber.Ctx) error {
	p := h.service.Profile()
	if p == nil {
		return h.fail(c, reconcile.ErrNotSignedIn)
	}
	return c.JSON(p)
}

// HandleUpdateProfile sets the display name.
// @Summary Update Profile
// @Tags profile
// @Accept json
// @Produce json
// @Param request body DisplayNameInput true "Display name"
// @Success 200 {object} models.AppUser
// @Failure 401 {object} map[string]string "Not signed in"
// @Router /profile [patch]
func (h *Handler) HandleUpdateProfile(c *fiber.Ctx) error {
	var in DisplayNameInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	p, err := h.service.SetDisplayName(c.Context(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(p)
}

// HandleListSets returns the authoritative collection.
// @Summary List Sets
// @Description Returns the account's sets when signed in, otherwise the device-local sets.
// @Tags sets
// @Produce json
// @Success 200 {array} models.FlashcardSet
// @Router /sets [get]
func (h *Handler) HandleListSets(c *fiber.Ctx) error {
	return c.JSON(h.service.Sets())
}

// HandleGetSet returns one set.
// @Summary Get Set
// @Tags sets
// @Produce json
// @Param id path string true "Set ID"
// @Success 200 {object} models.FlashcardSet
// @Failure 404 {object} map[string]string "Not found"
// @Router /sets/{id} [get]
func (h *Handler) HandleGetSet(c *fiber.Ctx) error {
	set, ok := h.service.Set(c.Params("id"))
	if !ok {
		return h.fail(c, reconcile.ErrMutationTargetMissing)
	}
	return c.JSON(set)
}

// HandleCreateSet adds a set.
// @Summary Create Set
// @Tags sets
// @Accept json
// @Produce json
// @Param request body SetInput true "Set"
// @Success 201 {object} models.FlashcardSet
// @Failure 400 {object} map[string]string "Validation error"
// @Router /sets [post]
func (h *Handler) HandleCreateSet(c *fiber.Ctx) error {
	var in SetInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	set, err := h.service.CreateSet(c.Context(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(set)
}

// HandleUpdateSet replaces a set's content.
// @Summary Update Set
// @Tags sets
// @Accept json
// @Produce json
// @Param id path string true "Set ID"
// @Param request body SetInput true "Set"
// @Success 200 {object} models.FlashcardSet
// @Failure 404 {object} map[string]string "Not found"
// @Router /sets/{id} [put]
func (h *Handler) HandleUpdateSet(c *fiber.Ctx) error {
	var in SetInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	set, err := h.service.UpdateSet(c.Context(), c.Params("id"), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(set)
}

// HandleDeleteSet deletes a set.
// @Summary Delete Set
// @Tags sets
// @Param id path string true "Set ID"
// @Success 204
// @Failure 404 {object} map[string]string "Not found"
// @Router /sets/{id} [delete]
func (h *Handler) HandleDeleteSet(c *fiber.Ctx) error {
	if err := h.service.DeleteSet(c.Context(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleAddCard appends a card.
// @Summary Add Card
// @Tags sets
// @Accept json
// @Produce json
// @Param id path string true "Set ID"
// @Param request body CardInput true "Card"
// @Success 201 {object} models.FlashcardSet
// @Router /sets/{id}/cards [post]
func (h *Handler) HandleAddCard(c *fiber.Ctx) error {
	var in CardInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	set, err := h.service.AddCard(c.Context(), c.Params("id"), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(set)
}

// HandleToggleStar flips a card's starred flag.
// @Summary Toggle Star
// @Tags sets
// @Produce json
// @Param id path string true "Set ID"
// @Param cardId path string true "Card ID"
// @Success 200 {object} models.FlashcardSet
// @Router /sets/{id}/cards/{cardId}/star [post]
func (h *Handler) HandleToggleStar(c *fiber.Ctx) error {
	set, err := h.service.ToggleStar(c.Context(), c.Params("id"), c.Params("cardId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(set)
}
