package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/convene-app/convene/internal/dto"
	"github.com/convene-app/convene/internal/models"
	"github.com/convene-app/convene/internal/repository"
)

var (
	// ErrMessageForbidden indicates the actor is not the message's author.
	ErrMessageForbidden = errors.New("only the author may delete this message")

	// ErrEmptyMessageBody indicates the body had no content left once
	// sanitized.
	ErrEmptyMessageBody = errors.New("message body is empty after sanitization")
)

// MessageService exposes message posting, deletion, and the activity feed.
type MessageService interface {
	Post(ctx context.Context, authorID uint, payload dto.MessageCreateRequest) (dto.MessageResponse, error)
	Get(ctx context.Context, id uint) (dto.MessageResponse, error)
	Delete(ctx context.Context, id, actorID uint) error
	Activity(ctx context.Context) (dto.ActivityResponse, error)
}

type messageService struct {
	messages   repository.MessageRepository
	rooms      repository.RoomRepository
	users      repository.UserRepository
	validator  *validator.Validate
	logger     zerolog.Logger
	sanitizer  *bluemonday.Policy
	joinOnPost bool
}

// NewMessageService constructs a message service. joinOnPost controls
// whether posting adds the author to the room's participant set.
func NewMessageService(messages repository.MessageRepository, rooms repository.RoomRepository, users repository.UserRepository, validate *validator.Validate, joinOnPost bool, logger zerolog.Logger) MessageService {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("br")

	return &messageService{
		messages:   messages,
		rooms:      rooms,
		users:      users,
		validator:  validate,
		logger:     logger.With().Str("component", "message_service").Logger(),
		sanitizer:  policy,
		joinOnPost: joinOnPost,
	}
}

func (s *messageService) Post(ctx context.Context, authorID uint, payload dto.MessageCreateRequest) (dto.MessageResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.MessageResponse{}, err
	}

	body := strings.TrimSpace(s.sanitizer.Sanitize(payload.Body))
	if body == "" {
		return dto.MessageResponse{}, ErrEmptyMessageBody
	}

	room, err := s.rooms.GetByID(ctx, payload.RoomID)
	if err != nil {
		return dto.MessageResponse{}, err
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return dto.MessageResponse{}, err
	}

	message := models.Message{
		UserID: authorID,
		RoomID: room.ID,
		Body:   body,
	}

	if err := s.messages.Create(ctx, &message); err != nil {
		return dto.MessageResponse{}, err
	}

	if s.joinOnPost {
		if err := s.rooms.AddParticipant(ctx, room.ID, authorID); err != nil {
			s.logger.Warn().Err(err).Uint("room_id", room.ID).Uint("user_id", authorID).Msg("failed to add participant")
		}
	}

	message.User = author
	message.Room = room

	s.logger.Info().Uint("message_id", message.ID).Uint("room_id", room.ID).Uint("user_id", authorID).Msg("message posted")

	return dto.NewMessageResponse(message), nil
}

func (s *messageService) Get(ctx context.Context, id uint) (dto.MessageResponse, error) {
	message, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return dto.MessageResponse{}, err
	}
	return dto.NewMessageResponse(message), nil
}

func (s *messageService) Delete(ctx context.Context, id, actorID uint) error {
	message, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if message.UserID != actorID {
		return ErrMessageForbidden
	}

	return s.messages.Delete(ctx, id)
}

// Activity returns every message in creation order, unbounded.
func (s *messageService) Activity(ctx context.Context) (dto.ActivityResponse, error) {
	messages, err := s.messages.ListAll(ctx)
	if err != nil {
		return dto.ActivityResponse{}, err
	}
	return dto.ActivityResponse{Messages: dto.NewMessageResponseSlice(messages)}, nil
}
