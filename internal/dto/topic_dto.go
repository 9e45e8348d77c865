package dto

import "github.com/convene-app/convene/internal/models"

// TopicResponse is the public view of a topic.
type TopicResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// NewTopicResponse maps a topic model to its response form.
func NewTopicResponse(topic models.Topic) TopicResponse {
	return TopicResponse{ID: topic.ID, Name: topic.Name}
}

// NewTopicResponseSlice maps a slice of topics to response form.
func NewTopicResponseSlice(topics []models.Topic) []TopicResponse {
	responses := make([]TopicResponse, 0, len(topics))
	for _, topic := range topics {
		responses = append(responses, NewTopicResponse(topic))
	}
	return responses
}
