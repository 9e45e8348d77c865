package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/convene-app/convene/internal/middleware"
	"github.com/convene-app/convene/internal/utils"
)

// authAs simulates an upstream JWT middleware having bound an identity.
func authAs(userID uint, jti string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID != 0 {
			c.Locals(middleware.LocalUserID, userID)
		}
		if jti != "" {
			c.Locals(middleware.LocalTokenJTI, jti)
		}
		return c.Next()
	}
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeResponse(t *testing.T, resp *http.Response) utils.APIResponse {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded utils.APIResponse
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return decoded
}
