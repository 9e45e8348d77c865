package dto

import (
	"time"

	"github.com/convene-app/convene/internal/models"
)

// RoomCreateRequest carries a room creation submission. Topic is a free-form
// name resolved (or lazily created) at write time.
type RoomCreateRequest struct {
	Topic       string `json:"topic" validate:"required,max=255"`
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=5000"`
}

// RoomUpdateRequest carries a room edit. Same shape as creation; every field
// overwrites the stored value.
type RoomUpdateRequest struct {
	Topic       string `json:"topic" validate:"required,max=255"`
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=5000"`
}

// RoomResponse is the listing view of a room.
type RoomResponse struct {
	ID          uint          `json:"id"`
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Description string        `json:"description"`
	Topic       TopicResponse `json:"topic"`
	Host        UserSummary   `json:"host"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// RoomDetailResponse adds the ordered message history and participant set.
type RoomDetailResponse struct {
	RoomResponse
	Messages     []MessageResponse `json:"messages"`
	Participants []UserSummary     `json:"participants"`
}

// RoomListResponse is the home listing: filtered rooms, the fixed top-5
// topic sample, the total topic count, and the recent messages matching the
// topic-name filter. The three listings intentionally use different filter
// scopes.
type RoomListResponse struct {
	Rooms          []RoomResponse    `json:"rooms"`
	RoomCount      int64             `json:"room_count"`
	Topics         []TopicResponse   `json:"topics"`
	TopicCount     int64             `json:"topic_count"`
	RecentMessages []MessageResponse `json:"recent_messages"`
}

// NewRoomResponse maps a room model to its listing form.
func NewRoomResponse(room models.Room) RoomResponse {
	return RoomResponse{
		ID:          room.ID,
		Name:        room.Name,
		Slug:        room.Slug,
		Description: room.Description,
		Topic:       NewTopicResponse(room.Topic),
		Host:        NewUserSummary(room.Host),
		CreatedAt:   room.CreatedAt,
		UpdatedAt:   room.UpdatedAt,
	}
}

// NewRoomResponseSlice maps a slice of rooms to listing form.
func NewRoomResponseSlice(rooms []models.Room) []RoomResponse {
	responses := make([]RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		responses = append(responses, NewRoomResponse(room))
	}
	return responses
}

// NewRoomDetailResponse maps a room with preloaded messages and participants.
func NewRoomDetailResponse(room models.Room) RoomDetailResponse {
	return RoomDetailResponse{
		RoomResponse: NewRoomResponse(room),
		Messages:     NewMessageResponseSlice(room.Messages),
		Participants: NewUserSummarySlice(room.Participants),
	}
}
