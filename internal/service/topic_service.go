package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/convene-app/convene/internal/dto"
	"github.com/convene-app/convene/internal/repository"
)

// TopicService exposes the topic listing.
type TopicService interface {
	List(ctx context.Context, query string) ([]dto.TopicResponse, error)
}

type topicService struct {
	topics repository.TopicRepository
	logger zerolog.Logger
}

// NewTopicService constructs a topic service.
func NewTopicService(topics repository.TopicRepository, logger zerolog.Logger) TopicService {
	return &topicService{
		topics: topics,
		logger: logger.With().Str("component", "topic_service").Logger(),
	}
}

func (s *topicService) List(ctx context.Context, query string) ([]dto.TopicResponse, error) {
	topics, err := s.topics.List(ctx, query)
	if err != nil {
		return nil, err
	}
	return dto.NewTopicResponseSlice(topics), nil
}
