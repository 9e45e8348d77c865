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

// RoomHandler provides HTTP endpoints for room listing, detail, and lifecycle.
type RoomHandler struct {
	service service.RoomService
	logger  zerolog.Logger
}

// NewRoomHandler constructs a handler instance.
func NewRoomHandler(service service.RoomService, logger zerolog.Logger) *RoomHandler {
	return &RoomHandler{
		service: service,
		logger:  logger.With().Str("component", "room_handler").Logger(),
	}
}

// RegisterPublic binds the routes any identity may call.
func (h *RoomHandler) RegisterPublic(router fiber.Router) {
	router.Get("/", h.list)
	router.Get("/topics", h.topicChoices)
	router.Get("/:id", h.get)
}

// RegisterProtected binds the routes requiring an authenticated identity.
func (h *RoomHandler) RegisterProtected(router fiber.Router) {
	router.Post("/", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *RoomHandler) list(c *fiber.Ctx) error {
	query := c.Query("q")

	ctx := withRequestContext(c)

	listing, err := h.service.Home(ctx, query)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "rooms", listing)
}

func (h *RoomHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParamValue(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx := withRequestContext(c)

	room, err := h.service.Get(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "room not found")
		}
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "room", room)
}

// topicChoices serves the topic selector for the room form, always unfiltered.
func (h *RoomHandler) topicChoices(c *fiber.Ctx) error {
	ctx := withRequestContext(c)

	topics, err := h.service.TopicChoices(ctx)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "topics", topics)
}

func (h *RoomHandler) create(c *fiber.Ctx) error {
	hostID := userIDFromContext(c)
	if hostID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.RoomCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	ctx := withRequestContext(c)

	room, err := h.service.Create(ctx, hostID, payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendValidationError(c, "invalid room", validationNotices(err))
		}
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "room created", fiber.Map{
		"room":     room,
		"location": service.RoomListingLocation,
	})
}

func (h *RoomHandler) update(c *fiber.Ctx) error {
	actorID := userIDFromContext(c)
	if actorID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	id, err := parseUintParamValue(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.RoomUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	ctx := withRequestContext(c)

	room, err := h.service.Update(ctx, uint(id), actorID, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoomForbidden):
			return utils.SendError(c, fiber.StatusForbidden, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "room not found")
		case isValidationError(err):
			return utils.SendValidationError(c, "invalid room", validationNotices(err))
		}
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "room updated", room)
}

func (h *RoomHandler) delete(c *fiber.Ctx) error {
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
		case errors.Is(err, service.ErrRoomForbidden):
			return utils.SendError(c, fiber.StatusForbidden, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "room not found")
		}
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "room deleted", fiber.Map{
		"location": service.RoomListingLocation,
	})
}
