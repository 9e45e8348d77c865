package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Revoker tracks session tokens that were invalidated before their natural
// expiry (logout). Tokens are referenced by their JTI claim.
type Revoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type redisStore struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedisStore builds a Redis-backed revocation list. Entries carry a TTL
// matching the remaining token lifetime, so the list cleans itself up.
func NewRedisStore(client *redis.Client, logger zerolog.Logger) Revoker {
	return &redisStore{
		client: client,
		logger: logger.With().Str("component", "session_store").Logger(),
	}
}

func revocationKey(jti string) string {
	return fmt.Sprintf("session:revoked:%s", jti)
}

func (s *redisStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return errors.New("jti must not be empty")
	}
	if ttl <= 0 {
		// Already expired tokens need no revocation entry.
		return nil
	}

	if err := s.client.Set(ctx, revocationKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to store revocation: %w", err)
	}

	s.logger.Info().Str("jti", jti).Dur("ttl", ttl).Msg("session token revoked")
	return nil
}

func (s *redisStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}

	err := s.client.Get(ctx, revocationKey(jti)).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check revocation: %w", err)
}
