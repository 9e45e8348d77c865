package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/convene-app/convene/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Topic{}, &models.Room{}, &models.Message{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Name:         username,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedRoom(t *testing.T, db *gorm.DB, host models.User, topicName, name, description string) models.Room {
	t.Helper()
	topic, err := NewTopicRepository(db).GetOrCreate(context.Background(), topicName)
	require.NoError(t, err)

	room := models.Room{
		HostID:      host.ID,
		TopicID:     topic.ID,
		Name:        name,
		Slug:        name,
		Description: description,
	}
	require.NoError(t, db.Create(&room).Error)
	return room
}

func seedMessage(t *testing.T, db *gorm.DB, author models.User, room models.Room, body string, createdAt time.Time) models.Message {
	t.Helper()
	message := models.Message{
		UserID:    author.ID,
		RoomID:    room.ID,
		Body:      body,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(&message).Error)
	return message
}
