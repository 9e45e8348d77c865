package models

import "time"

// Topic groups rooms under a shared subject. Names are deduplicated by exact
// string match; the unique index is what closes the concurrent
// get-or-create race.
type Topic struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Room is a discussion room hosted by one user under one topic.
//
// Slug is derived from the name at creation time (spaces stripped) and is
// neither unique nor recomputed on rename.
type Room struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	HostID       uint      `gorm:"index;not null" json:"host_id"`
	Host         User      `json:"host"`
	TopicID      uint      `gorm:"index;not null" json:"topic_id"`
	Topic        Topic     `json:"topic"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Slug         string    `gorm:"size:255;index" json:"slug"`
	Description  string    `gorm:"type:text" json:"description"`
	Participants []User    `gorm:"many2many:room_participants" json:"participants,omitempty"`
	Messages     []Message `json:"messages,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
