package common

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

// UserIDKey carries the authenticated user's ID through the request context.
const UserIDKey contextKey = "user_id"

// GetUserIDFromContext extracts the authenticated user ID from the request context.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// ParseUUID validates and parses a UUID path or body field.
func ParseUUID(idStr, fieldName string) (uuid.UUID, *AppError) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, NewValidationError("%s is required", fieldName)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, NewValidationError("Invalid %s", fieldName)
	}
	return id, nil
}

// ValidateQuantity rejects non-positive quantities.
func ValidateQuantity(quantity int) *AppError {
	if quantity <= 0 {
		return NewValidationError("Quantity must be greater than 0")
	}
	return nil
}

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// ParsePagination reads page/limit query parameters, falling back to the
// defaults (page=1, limit=10) on missing or non-positive values.
func ParsePagination(c echo.Context) (page, limit int) {
	page = defaultPage
	limit = defaultLimit
	if p := c.QueryParam("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if l := c.QueryParam("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
