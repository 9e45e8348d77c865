package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/convene-app/convene/internal/dto"
	"github.com/convene-app/convene/internal/models"
	"github.com/convene-app/convene/internal/repository"
	"github.com/convene-app/convene/internal/session"
)

// RoomListingLocation is where clients are sent after login, registration,
// and logout.
const RoomListingLocation = "/api/v1/rooms"

// ErrInvalidCredentials indicates the email/password pair did not match a user.
var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService implements registration, credential checks, and session
// establishment/teardown.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
}

type authService struct {
	users      repository.UserRepository
	sessions   session.Revoker
	validator  *validator.Validate
	jwtSecret  []byte
	sessionTTL time.Duration
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAuthService constructs the authentication service.
func NewAuthService(users repository.UserRepository, sessions session.Revoker, validate *validator.Validate, jwtSecret string, sessionTTL time.Duration, logger zerolog.Logger) AuthService {
	return &authService{
		users:      users,
		sessions:   sessions,
		validator:  validate,
		jwtSecret:  []byte(jwtSecret),
		sessionTTL: sessionTTL,
		logger:     logger.With().Str("component", "auth_service").Logger(),
		now:        time.Now,
	}
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	username := strings.ToLower(strings.TrimSpace(payload.Username))
	email := strings.ToLower(strings.TrimSpace(payload.Email))

	// Checked up front for a clean notice; the unique indexes still back this
	// up under concurrent registration.
	taken, err := s.users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return dto.AuthResponse{}, err
	}
	if taken {
		return dto.AuthResponse{}, repository.ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	user := models.User{
		Name:         strings.TrimSpace(payload.Name),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return dto.AuthResponse{}, err
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("user registered")

	return dto.AuthResponse{
		Token:    token,
		User:     dto.NewUserResponse(user),
		Location: RoomListingLocation,
	}, nil
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return dto.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("user logged in")

	return dto.AuthResponse{
		Token:    token,
		User:     dto.NewUserResponse(user),
		Location: RoomListingLocation,
	}, nil
}

// Logout revokes the presented token until it would have expired anyway.
// Anonymous logouts are a no-op, matching the original always-redirect
// behavior.
func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" || s.sessions == nil {
		return nil
	}

	ttl := expiresAt.Sub(s.now())
	return s.sessions.Revoke(ctx, jti, ttl)
}

func (s *authService) issueToken(userID uint) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": float64(userID),
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(s.sessionTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
