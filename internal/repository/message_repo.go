package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/convene-app/convene/internal/models"
)

// MessageRepository persists room messages.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id uint) (models.Message, error)
	Delete(ctx context.Context, id uint) error
	ListAll(ctx context.Context) ([]models.Message, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Message, error)
	RecentByTopicName(ctx context.Context, query string, limit int) ([]models.Message, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository constructs a GORM-backed repository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepository) GetByID(ctx context.Context, id uint) (models.Message, error) {
	var message models.Message
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Room").
		First(&message, id).Error
	if err != nil {
		return models.Message{}, err
	}
	return message, nil
}

func (r *messageRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Message{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListAll returns every message in creation order, unbounded.
func (r *messageRepository) ListAll(ctx context.Context) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Room").
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) ListByUser(ctx context.Context, userID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Room").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// RecentByTopicName returns the newest messages posted in rooms whose topic
// name contains the query. This deliberately matches on topic name only,
// unlike the three-field room search.
func (r *messageRepository) RecentByTopicName(ctx context.Context, query string, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 5
	}

	var messages []models.Message
	tx := r.db.WithContext(ctx).
		Joins("JOIN rooms ON rooms.id = messages.room_id").
		Joins("JOIN topics ON topics.id = rooms.topic_id")
	if query != "" {
		tx = tx.Where(`LOWER(topics.name) LIKE ? ESCAPE '\'`, containsPattern(query))
	}

	err := tx.
		Preload("User").
		Preload("Room").
		Preload("Room.Topic").
		Order("messages.created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
