package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/convene-app/convene/internal/middleware"
	"github.com/convene-app/convene/internal/utils"
)

func parseUintParamValue(c *fiber.Ctx, key string) (uint64, error) {
	value := strings.TrimSpace(c.Params(key))
	if value == "" {
		return 0, fmt.Errorf("%s required", key)
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return parsed, nil
}

func userIDFromContext(c *fiber.Ctx) uint {
	if v := c.Locals(middleware.LocalUserID); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
		if id, ok := v.(int); ok {
			if id < 0 {
				return 0
			}
			return uint(id)
		}
	}
	return 0
}

func tokenJTIFromContext(c *fiber.Ctx) string {
	if v := c.Locals(middleware.LocalTokenJTI); v != nil {
		if jti, ok := v.(string); ok {
			return jti
		}
	}
	return ""
}

func withRequestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	return middleware.ContextWithCorrelation(ctx, middleware.GetCorrelationID(c))
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// validationNotices flattens validator errors into field-level notices so
// the client can re-render the form with the offending fields marked.
func validationNotices(err error) []utils.Notice {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	notices := make([]utils.Notice, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		notices = append(notices, utils.Notice{
			Field:   strings.ToLower(fieldError.Field()),
			Message: fmt.Sprintf("failed %s validation", fieldError.Tag()),
		})
	}
	return notices
}
