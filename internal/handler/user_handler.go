package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/convene-app/convene/internal/dto"
	"github.com/convene-app/convene/internal/repository"
	"github.com/convene-app/convene/internal/service"
	"github.com/convene-app/convene/internal/utils"
)

// UserHandler provides profile viewing and self-service profile editing.
type UserHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

// NewUserHandler constructs a handler instance.
func NewUserHandler(service service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.With().Str("component", "user_handler").Logger(),
	}
}

// RegisterPublic binds the routes any identity may call.
func (h *UserHandler) RegisterPublic(router fiber.Router) {
	router.Get("/:id", h.profile)
}

// RegisterProtected binds the routes requiring an authenticated identity.
func (h *UserHandler) RegisterProtected(router fiber.Router) {
	router.Put("/me", h.updateProfile)
}

func (h *UserHandler) profile(c *fiber.Ctx) error {
	id, err := parseUintParamValue(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx := withRequestContext(c)

	profile, err := h.service.Profile(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		}
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "profile", profile)
}

// updateProfile edits the caller's own record. The avatar arrives as an
// optional multipart file under the "avatar" key.
func (h *UserHandler) updateProfile(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.UserUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	avatar, err := c.FormFile("avatar")
	if err != nil {
		avatar = nil
	}

	ctx := withRequestContext(c)

	user, err := h.service.UpdateProfile(ctx, userID, payload, avatar)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendValidationError(c, "invalid profile", validationNotices(err))
		case errors.Is(err, service.ErrUnsupportedAvatar), errors.Is(err, service.ErrAvatarTooLarge):
			return utils.SendValidationError(c, err.Error(), []utils.Notice{
				{Field: "avatar", Message: err.Error()},
			})
		case errors.Is(err, repository.ErrDuplicateUser):
			return utils.SendValidationError(c, err.Error(), []utils.Notice{
				{Field: "username", Message: "username or email already registered"},
			})
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		}
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "profile updated", fiber.Map{
		"user":     user,
		"location": fmt.Sprintf("/api/v1/users/%d", user.ID),
	})
}
