package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/convene-app/convene/internal/dto"
	"github.com/convene-app/convene/internal/service"
	"github.com/convene-app/convene/internal/utils"
)

// MessageHandler provides HTTP endpoints for posting and deleting messages
// and for the site-wide activity feed.
type MessageHandler struct {
	service service.MessageService
	logger  zerolog.Logger
}

// NewMessageHandler constructs a handler instance.
func NewMessageHandler(service service.MessageService, logger zerolog.Logger) *MessageHandler {
	return &MessageHandler{
		service: service,
		logger:  logger.With().Str("component", "message_handler").Logger(),
	}
}

// RegisterPublic binds the routes any identity may call.
func (h *MessageHandler) RegisterPublic(router fiber.Router) {
	router.Get("/:id", h.get)
}

// RegisterProtected binds the routes requiring an authenticated identity.
func (h *MessageHandler) RegisterProtected(router fiber.Router) {
	router.Post("/", h.post)
	router.Delete("/:id", h.delete)
}

// RegisterActivity binds the activity feed.
func (h *MessageHandler) RegisterActivity(router fiber.Router) {
	router.Get("/", h.activity)
}

func (h *MessageHandler) post(c *fiber.Ctx) error {
	authorID := userIDFromContext(c)
	if authorID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.MessageCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	ctx := withRequestContext(c)

	message, err := h.service.Post(ctx, authorID, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendValidationError(c, "invalid message", validationNotices(err))
		case errors.Is(err, service.ErrEmptyMessageBody):
			return utils.SendValidationError(c, err.Error(), []utils.Notice{
				{Field: "body", Message: "message body must contain visible content"},
			})
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "room not found")
		}
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "message posted", message)
}

// get serves the confirmation fetch before a delete.
func (h *MessageHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParamValue(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx := withRequestContext(c)

	message, err := h.service.Get(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "message not found")
		}
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "message", message)
}

func (h *MessageHandler) delete(c *fiber.Ctx) error {
	actorID := userIDFromContext(c)
	if actorID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	id, err := parseUintParamValue(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx := withRequestContext(c)

	if err := h.service.Delete(ctx, uint(id), actorID); err != nil {
		switch {
		case errors.Is(err, service.ErrMessageForbidden):
			return utils.SendError(c, fiber.StatusForbidden, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "message not found")
		}
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "message deleted", fiber.Map{
		"location": service.RoomListingLocation,
	})
}

func (h *MessageHandler) activity(c *fiber.Ctx) error {
	ctx := withRequestContext(c)

	feed, err := h.service.Activity(ctx)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "activity", feed)
}
