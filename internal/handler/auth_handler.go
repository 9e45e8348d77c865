package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/convene-app/convene/internal/dto"
	"github.com/convene-app/convene/internal/middleware"
	"github.com/convene-app/convene/internal/repository"
	"github.com/convene-app/convene/internal/service"
	"github.com/convene-app/convene/internal/utils"
)

// AuthHandler provides HTTP endpoints for registration, login, and logout.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs a handler instance.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register binds the auth routes. The group is expected to carry the
// optional JWT middleware so an already-authenticated login can
// short-circuit.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/register", h.register)
	router.Post("/login", h.login)
	router.Post("/logout", h.logout)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	ctx := withRequestContext(c)

	response, err := h.service.Register(ctx, payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendValidationError(c, "an error occurred during registration", validationNotices(err))
		}
		if errors.Is(err, repository.ErrDuplicateUser) {
			return utils.SendValidationError(c, err.Error(), []utils.Notice{
				{Field: "username", Message: "username or email already registered"},
			})
		}
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "user registered successfully", response)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	// Already authenticated: skip the credential check and point the client
	// at the room listing.
	if userIDFromContext(c) != 0 {
		return utils.SendSuccess(c, "already logged in", fiber.Map{
			"location": service.RoomListingLocation,
		})
	}

	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	ctx := withRequestContext(c)

	response, err := h.service.Login(ctx, payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendValidationError(c, "invalid payload", validationNotices(err))
		}
		if errors.Is(err, service.ErrInvalidCredentials) {
			// No field values are echoed back on a failed login.
			return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
		}
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "logged in", response)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	ctx := withRequestContext(c)

	jti := tokenJTIFromContext(c)
	if jti != "" {
		expiresAt := middleware.TokenExpiry(c)
		if expiresAt.IsZero() {
			expiresAt = time.Now()
		}
		if err := h.service.Logout(ctx, jti, expiresAt); err != nil {
			h.logger.Warn().Err(err).Msg("failed to revoke session")
		}
	}

	return utils.SendSuccess(c, "logged out", fiber.Map{
		"location": service.RoomListingLocation,
	})
}
