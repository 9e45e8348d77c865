package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/convene-app/convene/internal/models"
)

// TopicRepository persists topics. Topic rows are created lazily the first
// time a room references a new name.
type TopicRepository interface {
	GetOrCreate(ctx context.Context, name string) (models.Topic, error)
	List(ctx context.Context, query string) ([]models.Topic, error)
	ListFirst(ctx context.Context, limit int) ([]models.Topic, error)
	Count(ctx context.Context) (int64, error)
}

type topicRepository struct {
	db *gorm.DB
}

// NewTopicRepository constructs a GORM-backed repository.
func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepository{db: db}
}

// GetOrCreate resolves a topic by exact name, inserting it when absent.
// Two concurrent first-time creates are serialized by the unique index on
// name: the loser of the insert race falls back to a lookup, so both callers
// end up referencing the same row.
func (r *topicRepository) GetOrCreate(ctx context.Context, name string) (models.Topic, error) {
	var topic models.Topic
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&topic).Error
	if err == nil {
		return topic, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Topic{}, err
	}

	topic = models.Topic{Name: name}
	if createErr := r.db.WithContext(ctx).Create(&topic).Error; createErr != nil {
		if !isUniqueViolation(createErr) {
			return models.Topic{}, createErr
		}
		if lookupErr := r.db.WithContext(ctx).Where("name = ?", name).First(&topic).Error; lookupErr != nil {
			return models.Topic{}, lookupErr
		}
	}

	return topic, nil
}

func (r *topicRepository) List(ctx context.Context, query string) ([]models.Topic, error) {
	var topics []models.Topic
	tx := r.db.WithContext(ctx).Order("id ASC")
	if query != "" {
		tx = tx.Where(`LOWER(name) LIKE ? ESCAPE '\'`, containsPattern(query))
	}
	if err := tx.Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

func (r *topicRepository) ListFirst(ctx context.Context, limit int) ([]models.Topic, error) {
	if limit <= 0 {
		limit = 5
	}

	var topics []models.Topic
	if err := r.db.WithContext(ctx).Order("id ASC").Limit(limit).Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

func (r *topicRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Topic{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
