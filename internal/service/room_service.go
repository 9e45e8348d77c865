package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/convene-app/convene/internal/dto"
	"github.com/convene-app/convene/internal/models"
	"github.com/convene-app/convene/internal/repository"
)

// ErrRoomForbidden indicates the actor is not the room's host.
var ErrRoomForbidden = errors.New("only the host may modify this room")

// RoomService exposes the room listing, detail, and lifecycle use-cases.
type RoomService interface {
	Home(ctx context.Context, query string) (dto.RoomListResponse, error)
	Get(ctx context.Context, id uint) (dto.RoomDetailResponse, error)
	Create(ctx context.Context, hostID uint, payload dto.RoomCreateRequest) (dto.RoomResponse, error)
	Update(ctx context.Context, id, actorID uint, payload dto.RoomUpdateRequest) (dto.RoomResponse, error)
	Delete(ctx context.Context, id, actorID uint) error
	TopicChoices(ctx context.Context) ([]dto.TopicResponse, error)
}

type roomService struct {
	rooms              repository.RoomRepository
	topics             repository.TopicRepository
	messages           repository.MessageRepository
	validator          *validator.Validate
	logger             zerolog.Logger
	tracer             trace.Tracer
	sanitizer          *bluemonday.Policy
	topicSampleLimit   int
	recentMessageLimit int
}

// NewRoomService constructs a room service.
func NewRoomService(rooms repository.RoomRepository, topics repository.TopicRepository, messages repository.MessageRepository, validate *validator.Validate, topicSampleLimit, recentMessageLimit int, logger zerolog.Logger) RoomService {
	if topicSampleLimit <= 0 {
		topicSampleLimit = 5
	}
	if recentMessageLimit <= 0 {
		recentMessageLimit = 5
	}

	return &roomService{
		rooms:              rooms,
		topics:             topics,
		messages:           messages,
		validator:          validate,
		logger:             logger.With().Str("component", "room_service").Logger(),
		tracer:             otel.Tracer("github.com/convene-app/convene/internal/service/room"),
		sanitizer:          bluemonday.UGCPolicy(),
		topicSampleLimit:   topicSampleLimit,
		recentMessageLimit: recentMessageLimit,
	}
}

// Home assembles the room listing. One query string feeds three listings
// with deliberately different scopes: rooms match on topic name, room name,
// or description; the topic sample ignores the query entirely; recent
// messages match on topic name only.
func (s *roomService) Home(ctx context.Context, query string) (dto.RoomListResponse, error) {
	rooms, err := s.rooms.Search(ctx, query)
	if err != nil {
		return dto.RoomListResponse{}, err
	}

	roomCount, err := s.rooms.Count(ctx, query)
	if err != nil {
		return dto.RoomListResponse{}, err
	}

	topics, err := s.topics.ListFirst(ctx, s.topicSampleLimit)
	if err != nil {
		return dto.RoomListResponse{}, err
	}

	topicCount, err := s.topics.Count(ctx)
	if err != nil {
		return dto.RoomListResponse{}, err
	}

	recent, err := s.messages.RecentByTopicName(ctx, query, s.recentMessageLimit)
	if err != nil {
		return dto.RoomListResponse{}, err
	}

	return dto.RoomListResponse{
		Rooms:          dto.NewRoomResponseSlice(rooms),
		RoomCount:      roomCount,
		Topics:         dto.NewTopicResponseSlice(topics),
		TopicCount:     topicCount,
		RecentMessages: dto.NewMessageResponseSlice(recent),
	}, nil
}

func (s *roomService) Get(ctx context.Context, id uint) (dto.RoomDetailResponse, error) {
	room, err := s.rooms.GetWithMessages(ctx, id)
	if err != nil {
		return dto.RoomDetailResponse{}, err
	}
	return dto.NewRoomDetailResponse(room), nil
}

func (s *roomService) Create(ctx context.Context, hostID uint, payload dto.RoomCreateRequest) (dto.RoomResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RoomResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "room.create", trace.WithAttributes(
		attribute.Int64("room.host_id", int64(hostID)),
		attribute.String("room.topic", payload.Topic),
	))
	defer span.End()

	topic, err := s.topics.GetOrCreate(spanCtx, strings.TrimSpace(payload.Topic))
	if err != nil {
		span.RecordError(err)
		return dto.RoomResponse{}, err
	}

	name := strings.TrimSpace(payload.Name)
	room := models.Room{
		HostID:      hostID,
		TopicID:     topic.ID,
		Topic:       topic,
		Name:        name,
		Slug:        deriveSlug(name),
		Description: s.sanitizer.Sanitize(payload.Description),
	}

	if err := s.rooms.Create(spanCtx, &room); err != nil {
		span.RecordError(err)
		return dto.RoomResponse{}, err
	}

	s.logger.Info().Uint("room_id", room.ID).Uint("host_id", hostID).Str("topic", topic.Name).Msg("room created")

	return dto.NewRoomResponse(room), nil
}

// Update overwrites name, topic, and description. The host check runs before
// any mutation. The slug keeps the value derived at creation time.
func (s *roomService) Update(ctx context.Context, id, actorID uint, payload dto.RoomUpdateRequest) (dto.RoomResponse, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return dto.RoomResponse{}, err
	}

	if room.HostID != actorID {
		return dto.RoomResponse{}, ErrRoomForbidden
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.RoomResponse{}, err
	}

	topic, err := s.topics.GetOrCreate(ctx, strings.TrimSpace(payload.Topic))
	if err != nil {
		return dto.RoomResponse{}, err
	}

	room.Name = strings.TrimSpace(payload.Name)
	room.TopicID = topic.ID
	room.Topic = topic
	room.Description = s.sanitizer.Sanitize(payload.Description)

	if err := s.rooms.Update(ctx, &room); err != nil {
		return dto.RoomResponse{}, err
	}

	return dto.NewRoomResponse(room), nil
}

func (s *roomService) Delete(ctx context.Context, id, actorID uint) error {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if room.HostID != actorID {
		return ErrRoomForbidden
	}

	if err := s.rooms.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Uint("room_id", id).Uint("host_id", actorID).Msg("room deleted")
	return nil
}

// TopicChoices lists every topic for the room creation form's selector,
// regardless of any active listing filter.
func (s *roomService) TopicChoices(ctx context.Context) ([]dto.TopicResponse, error) {
	topics, err := s.topics.List(ctx, "")
	if err != nil {
		return nil, err
	}
	return dto.NewTopicResponseSlice(topics), nil
}

// deriveSlug strips spaces from the room name. Not unique and not URL-safe
// beyond that, matching the display-only role slugs play here.
func deriveSlug(name string) string {
	return strings.ReplaceAll(name, " ", "")
}
