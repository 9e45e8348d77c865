package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/convene-app/convene/internal/models"
)

// RoomRepository persists discussion rooms and their participant links.
type RoomRepository interface {
	Search(ctx context.Context, query string) ([]models.Room, error)
	Count(ctx context.Context, query string) (int64, error)
	GetByID(ctx context.Context, id uint) (models.Room, error)
	GetWithMessages(ctx context.Context, id uint) (models.Room, error)
	ListByHost(ctx context.Context, hostID uint) ([]models.Room, error)
	Create(ctx context.Context, room *models.Room) error
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, id uint) error
	AddParticipant(ctx context.Context, roomID, userID uint) error
}

type roomRepository struct {
	db *gorm.DB
}

// NewRoomRepository constructs a GORM-backed repository.
func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

// containsPattern turns a raw query into a lowercase LIKE pattern for
// case-insensitive substring matching on both postgres and sqlite.
func containsPattern(query string) string {
	escaped := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(strings.ToLower(query))
	return "%" + escaped + "%"
}

func (r *roomRepository) searchScope(ctx context.Context, query string) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&models.Room{}).
		Joins("JOIN topics ON topics.id = rooms.topic_id")
	if query != "" {
		pattern := containsPattern(query)
		// ESCAPE is spelled out because sqlite has no default escape character.
		tx = tx.Where(
			`LOWER(topics.name) LIKE ? ESCAPE '\' OR LOWER(rooms.name) LIKE ? ESCAPE '\' OR LOWER(rooms.description) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern,
		)
	}
	return tx
}

// Search returns rooms whose topic name, room name, or description contains
// the query as a case-insensitive substring. The three-field OR is
// intentional and must stay aligned with Count.
func (r *roomRepository) Search(ctx context.Context, query string) ([]models.Room, error) {
	var rooms []models.Room
	err := r.searchScope(ctx, query).
		Preload("Topic").
		Preload("Host").
		Order("rooms.updated_at DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *roomRepository) Count(ctx context.Context, query string) (int64, error) {
	var count int64
	if err := r.searchScope(ctx, query).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *roomRepository) GetByID(ctx context.Context, id uint) (models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).
		Preload("Topic").
		Preload("Host").
		First(&room, id).Error
	if err != nil {
		return models.Room{}, err
	}
	return room, nil
}

func (r *roomRepository) GetWithMessages(ctx context.Context, id uint) (models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).
		Preload("Topic").
		Preload("Host").
		Preload("Participants").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Messages.User").
		First(&room, id).Error
	if err != nil {
		return models.Room{}, err
	}
	return room, nil
}

func (r *roomRepository) ListByHost(ctx context.Context, hostID uint) ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.WithContext(ctx).
		Preload("Topic").
		Preload("Host").
		Where("host_id = ?", hostID).
		Order("updated_at DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *roomRepository) Create(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *roomRepository) Update(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

// Delete removes the room, its messages, and its participant links in a
// single transaction. The store has no native cascade, so the dependent rows
// go first.
func (r *roomRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}

		if err := tx.Exec("DELETE FROM room_participants WHERE room_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Room{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *roomRepository) AddParticipant(ctx context.Context, roomID, userID uint) error {
	room := models.Room{ID: roomID}
	return r.db.WithContext(ctx).
		Model(&room).
		Association("Participants").
		Append(&models.User{ID: userID})
}
