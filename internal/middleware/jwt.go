package middleware

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/convene-app/convene/internal/session"
	"github.com/convene-app/convene/internal/utils"
)

// Locals keys set by the JWT middlewares.
const (
	LocalUserID   = "user_id"
	LocalTokenJTI = "token_jti"
	LocalTokenExp = "token_exp"
)

// JWTProtected returns a middleware that requires a valid, unrevoked bearer
// token. Missing or invalid credentials yield 401, the API analogue of the
// redirect-to-login on protected pages.
func JWTProtected(secret string, revocations session.Revoker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := bindIdentity(c, secret, revocations); err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
		}
		if c.Locals(LocalUserID) == nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}
		return c.Next()
	}
}

// JWTOptional parses a bearer token when one is presented but lets anonymous
// requests through. Public pages still learn the caller's identity this way
// (for example the login short-circuit).
func JWTOptional(secret string, revocations session.Revoker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_ = bindIdentity(c, secret, revocations)
		return c.Next()
	}
}

func bindIdentity(c *fiber.Ctx, secret string, revocations session.Revoker) error {
	authorization := c.Get("Authorization")
	if authorization == "" {
		return fmt.Errorf("authorization header missing")
	}

	const bearer = "Bearer "
	if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
		return fmt.Errorf("invalid authorization header")
	}

	tokenString := strings.TrimSpace(authorization[len(bearer):])
	if tokenString == "" {
		return fmt.Errorf("invalid token")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return fmt.Errorf("invalid token claims")
	}

	jti, _ := claims["jti"].(string)
	if revocations != nil && jti != "" {
		revoked, err := revocations.IsRevoked(c.UserContext(), jti)
		if err != nil {
			return fmt.Errorf("session check failed")
		}
		if revoked {
			return fmt.Errorf("session expired")
		}
	}

	userID := extractUserIDFromClaims(claims)
	if userID == nil {
		return fmt.Errorf("invalid token subject")
	}

	c.Locals(LocalUserID, *userID)
	if jti != "" {
		c.Locals(LocalTokenJTI, jti)
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		c.Locals(LocalTokenExp, exp.Time)
	}

	return nil
}

func extractUserIDFromClaims(claims jwt.MapClaims) *uint {
	keys := []string{"sub", "user_id", "id"}
	for _, key := range keys {
		if value, ok := claims[key]; ok {
			if normalized, err := normalizeUserID(value); err == nil {
				return &normalized
			}
		}
	}

	return nil
}

func normalizeUserID(value interface{}) (uint, error) {
	switch v := value.(type) {
	case float64:
		if v < 0 {
			return 0, fmt.Errorf("invalid subject")
		}
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, err
		}
		return uint(parsed), nil
	case int:
		if v < 0 {
			return 0, fmt.Errorf("invalid subject")
		}
		return uint(v), nil
	default:
		return 0, fmt.Errorf("unsupported subject type")
	}
}

// TokenExpiry reads the expiry bound by bindIdentity, zero when absent.
func TokenExpiry(c *fiber.Ctx) time.Time {
	if v := c.Locals(LocalTokenExp); v != nil {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return time.Time{}
}
