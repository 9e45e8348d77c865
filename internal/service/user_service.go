package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/convene-app/convene/internal/dto"
	"github.com/convene-app/convene/internal/repository"
)

var (
	// ErrUnsupportedAvatar indicates the uploaded avatar is not an image.
	ErrUnsupportedAvatar = errors.New("avatar must be an image file")

	// ErrAvatarTooLarge indicates the uploaded avatar exceeds the size cap.
	ErrAvatarTooLarge = fmt.Errorf("avatar must not exceed %d bytes", maxAvatarBytes)
)

const maxAvatarBytes = 5 << 20

// FileUploader pushes an asset to remote storage and returns its URL.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// UserService exposes profile viewing and self-service profile editing.
type UserService interface {
	Profile(ctx context.Context, id uint) (dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uint, payload dto.UserUpdateRequest, avatar *multipart.FileHeader) (dto.UserResponse, error)
}

type userService struct {
	users     repository.UserRepository
	rooms     repository.RoomRepository
	messages  repository.MessageRepository
	topics    repository.TopicRepository
	validator *validator.Validate
	uploader  FileUploader
	logger    zerolog.Logger
}

// NewUserService constructs a user service.
func NewUserService(users repository.UserRepository, rooms repository.RoomRepository, messages repository.MessageRepository, topics repository.TopicRepository, validate *validator.Validate, uploader FileUploader, logger zerolog.Logger) UserService {
	return &userService{
		users:     users,
		rooms:     rooms,
		messages:  messages,
		topics:    topics,
		validator: validate,
		uploader:  uploader,
		logger:    logger.With().Str("component", "user_service").Logger(),
	}
}

// Profile bundles the user with their hosted rooms, their messages, and the
// full topic listing.
func (s *userService) Profile(ctx context.Context, id uint) (dto.ProfileResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return dto.ProfileResponse{}, err
	}

	rooms, err := s.rooms.ListByHost(ctx, id)
	if err != nil {
		return dto.ProfileResponse{}, err
	}

	messages, err := s.messages.ListByUser(ctx, id)
	if err != nil {
		return dto.ProfileResponse{}, err
	}

	topics, err := s.topics.List(ctx, "")
	if err != nil {
		return dto.ProfileResponse{}, err
	}

	return dto.ProfileResponse{
		User:     dto.NewUserResponse(user),
		Rooms:    dto.NewRoomResponseSlice(rooms),
		Messages: dto.NewMessageResponseSlice(messages),
		Topics:   dto.NewTopicResponseSlice(topics),
	}, nil
}

// UpdateProfile edits the caller's own record. There is no target-user
// parameter: the identity is the record.
func (s *userService) UpdateProfile(ctx context.Context, userID uint, payload dto.UserUpdateRequest, avatar *multipart.FileHeader) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return dto.UserResponse{}, err
	}

	user.Name = strings.TrimSpace(payload.Name)
	user.Username = strings.ToLower(strings.TrimSpace(payload.Username))
	user.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	user.Bio = strings.TrimSpace(payload.Bio)

	if avatar != nil {
		url, err := s.uploadAvatar(ctx, avatar)
		if err != nil {
			return dto.UserResponse{}, err
		}
		user.AvatarURL = url
	}

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("profile updated")

	return dto.NewUserResponse(user), nil
}

func (s *userService) uploadAvatar(ctx context.Context, avatar *multipart.FileHeader) (string, error) {
	if avatar.Size > maxAvatarBytes {
		return "", ErrAvatarTooLarge
	}

	file, err := avatar.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open avatar: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(file, maxAvatarBytes+1)); err != nil {
		return "", fmt.Errorf("failed to read avatar: %w", err)
	}
	if buf.Len() > maxAvatarBytes {
		return "", ErrAvatarTooLarge
	}

	mime := mimetype.Detect(buf.Bytes())
	if !strings.HasPrefix(mime.String(), "image/") {
		return "", ErrUnsupportedAvatar
	}

	if s.uploader == nil {
		return "", errors.New("no uploader configured")
	}

	return s.uploader.Upload(ctx, avatar.Filename, &buf)
}
