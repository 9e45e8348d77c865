package dto

import (
	"time"

	"github.com/convene-app/convene/internal/models"
)

// MessageCreateRequest carries a message post.
type MessageCreateRequest struct {
	RoomID uint   `json:"room_id" validate:"required"`
	Body   string `json:"body" validate:"required,max=10000"`
}

// MessageResponse is the public view of a message.
type MessageResponse struct {
	ID        uint        `json:"id"`
	Body      string      `json:"body"`
	User      UserSummary `json:"user"`
	RoomID    uint        `json:"room_id"`
	RoomName  string      `json:"room_name"`
	CreatedAt time.Time   `json:"created_at"`
}

// ActivityResponse is the site-wide activity feed: every message in creation
// order, unbounded.
type ActivityResponse struct {
	Messages []MessageResponse `json:"messages"`
}

// NewMessageResponse maps a message model to its response form.
func NewMessageResponse(message models.Message) MessageResponse {
	return MessageResponse{
		ID:        message.ID,
		Body:      message.Body,
		User:      NewUserSummary(message.User),
		RoomID:    message.RoomID,
		RoomName:  message.Room.Name,
		CreatedAt: message.CreatedAt,
	}
}

// NewMessageResponseSlice maps a slice of messages to response form.
func NewMessageResponseSlice(messages []models.Message) []MessageResponse {
	responses := make([]MessageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, NewMessageResponse(message))
	}
	return responses
}
