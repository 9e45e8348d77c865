package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/convene-app/convene/internal/models"
)

func TestRoomRepositorySearchMatchesTopicNameAndDescription(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRoomRepository(db)
	host := seedUser(t, db, "alice")

	seedRoom(t, db, host, "Music", "Jazz talk", "weekly jam")
	seedRoom(t, db, host, "Sports", "music lovers", "football chat")
	seedRoom(t, db, host, "Art", "painting", "oil and canvas")

	rooms, err := repo.Search(context.Background(), "music")
	require.NoError(t, err)
	require.Len(t, rooms, 2)

	names := []string{rooms[0].Name, rooms[1].Name}
	require.ElementsMatch(t, []string{"Jazz talk", "music lovers"}, names)

	count, err := repo.Count(context.Background(), "music")
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}

func TestRoomRepositorySearchMatchesDescription(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRoomRepository(db)
	host := seedUser(t, db, "alice")

	seedRoom(t, db, host, "Tech", "gophers", "All about GO and concurrency")
	seedRoom(t, db, host, "Tech", "pythonistas", "dynamic typing fans")

	rooms, err := repo.Search(context.Background(), "concurrency")
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	require.Equal(t, "gophers", rooms[0].Name)
}

func TestRoomRepositorySearchEmptyQueryReturnsAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRoomRepository(db)
	host := seedUser(t, db, "alice")

	seedRoom(t, db, host, "Music", "one", "")
	seedRoom(t, db, host, "Art", "two", "")

	rooms, err := repo.Search(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, rooms, 2)
}

func TestRoomRepositorySearchEscapesLikeWildcards(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRoomRepository(db)
	host := seedUser(t, db, "alice")

	seedRoom(t, db, host, "Misc", "100% legit", "")
	seedRoom(t, db, host, "Misc", "fully legit", "")

	rooms, err := repo.Search(context.Background(), "100%")
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	require.Equal(t, "100% legit", rooms[0].Name)
}

func TestRoomRepositoryGetWithMessagesOrdersByCreation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRoomRepository(db)
	host := seedUser(t, db, "alice")
	room := seedRoom(t, db, host, "Music", "Jazz talk", "")

	now := time.Now()
	seedMessage(t, db, host, room, "second", now)
	seedMessage(t, db, host, room, "first", now.Add(-time.Hour))

	loaded, err := repo.GetWithMessages(context.Background(), room.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Messages, 2)
	require.Equal(t, "first", loaded.Messages[0].Body)
	require.Equal(t, "second", loaded.Messages[1].Body)
	require.Equal(t, "Music", loaded.Topic.Name)
}

func TestRoomRepositoryGetByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRoomRepository(db)

	_, err := repo.GetByID(context.Background(), 12345)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRoomRepositoryDeleteCascadesToMessages(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRoomRepository(db)
	host := seedUser(t, db, "alice")
	room := seedRoom(t, db, host, "Music", "Jazz talk", "")
	other := seedRoom(t, db, host, "Art", "painting", "")

	now := time.Now()
	seedMessage(t, db, host, room, "goes away", now)
	survivor := seedMessage(t, db, host, other, "stays", now)

	require.NoError(t, repo.AddParticipant(context.Background(), room.ID, host.ID))

	require.NoError(t, repo.Delete(context.Background(), room.ID))

	var messages []models.Message
	require.NoError(t, db.Find(&messages).Error)
	require.Len(t, messages, 1)
	require.Equal(t, survivor.ID, messages[0].ID)

	var participantCount int64
	require.NoError(t, db.Table("room_participants").Count(&participantCount).Error)
	require.Zero(t, participantCount)

	err := repo.Delete(context.Background(), room.ID)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRoomRepositoryListByHost(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRoomRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	seedRoom(t, db, alice, "Music", "hosted by alice", "")
	seedRoom(t, db, bob, "Music", "hosted by bob", "")

	rooms, err := repo.ListByHost(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	require.Equal(t, "hosted by alice", rooms[0].Name)
}
