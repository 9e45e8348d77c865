package dto

import (
	"time"

	"github.com/convene-app/convene/internal/models"
)

// UserResponse is the full public view of a user.
type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Bio       string    `json:"bio"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

// UserSummary is the compact view embedded in rooms and messages.
type UserSummary struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// UserUpdateRequest carries a profile edit. All fields apply to the caller's
// own record; the avatar file travels separately as multipart content.
type UserUpdateRequest struct {
	Name     string `form:"name" json:"name" validate:"required,max=255"`
	Username string `form:"username" json:"username" validate:"required,min=3,max=64,alphanum"`
	Email    string `form:"email" json:"email" validate:"required,email"`
	Bio      string `form:"bio" json:"bio" validate:"max=2000"`
}

// ProfileResponse bundles a user with their hosted rooms, their messages, and
// the full topic listing shown alongside the profile.
type ProfileResponse struct {
	User     UserResponse      `json:"user"`
	Rooms    []RoomResponse    `json:"rooms"`
	Messages []MessageResponse `json:"messages"`
	Topics   []TopicResponse   `json:"topics"`
}

// NewUserResponse maps a user model to its full response form.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Username:  user.Username,
		Email:     user.Email,
		Bio:       user.Bio,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
	}
}

// NewUserSummary maps a user model to its compact form.
func NewUserSummary(user models.User) UserSummary {
	return UserSummary{
		ID:        user.ID,
		Username:  user.Username,
		AvatarURL: user.AvatarURL,
	}
}

// NewUserSummarySlice maps a slice of users to compact form.
func NewUserSummarySlice(users []models.User) []UserSummary {
	summaries := make([]UserSummary, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, NewUserSummary(user))
	}
	return summaries
}
