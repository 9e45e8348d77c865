package models

import "time"

// Message is a single post inside a room. Deleting a room removes its
// messages; deleting a message removes only itself.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	User      User      `json:"user"`
	RoomID    uint      `gorm:"index;not null" json:"room_id"`
	Room      Room      `json:"room"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
