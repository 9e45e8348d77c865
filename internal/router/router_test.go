package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/convene-app/convene/internal/config"
	"github.com/convene-app/convene/internal/dto"
	"github.com/convene-app/convene/internal/handler"
	"github.com/convene-app/convene/internal/middleware"
)

const routerTestSecret = "router-test-secret"

type stubUserService struct{}

func (stubUserService) Profile(_ context.Context, id uint) (dto.ProfileResponse, error) {
	return dto.ProfileResponse{User: dto.UserResponse{ID: id, Username: "alice"}}, nil
}

func (stubUserService) UpdateProfile(_ context.Context, userID uint, payload dto.UserUpdateRequest, _ *multipart.FileHeader) (dto.UserResponse, error) {
	return dto.UserResponse{ID: userID, Username: payload.Username}, nil
}

func newRoutedApp() *fiber.App {
	app := fiber.New()
	Register(app, config.Config{AppName: "convene-test"}, Dependencies{
		UserHandler: handler.NewUserHandler(stubUserService{}, zerolog.Nop()),
		JWTRequired: middleware.JWTProtected(routerTestSecret, nil),
		JWTOptional: middleware.JWTOptional(routerTestSecret, nil),
	})
	return app
}

func bearerToken(t *testing.T, userID uint) string {
	t.Helper()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": float64(userID),
		"jti": "router-test-jti",
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(routerTestSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func TestRouterProfileViewIsPublic(t *testing.T) {
	app := newRoutedApp()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouterProfileUpdateRequiresToken(t *testing.T) {
	app := newRoutedApp()

	payload, err := json.Marshal(dto.UserUpdateRequest{
		Name:     "Alice",
		Username: "alice",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/users/me", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPut, "/api/v1/users/me", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, 1))
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouterHealthIsPublic(t *testing.T) {
	app := newRoutedApp()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
