package common

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestParseUUID(t *testing.T) {
	id := uuid.New()

	parsed, appErr := ParseUUID(id.String(), "order ID")
	assert.Nil(t, appErr)
	assert.Equal(t, id, parsed)

	_, appErr = ParseUUID("", "order ID")
	assert.NotNil(t, appErr)
	assert.Equal(t, KindValidation, appErr.Kind)
	assert.Equal(t, "order ID is required", appErr.Message)

	_, appErr = ParseUUID("not-a-uuid", "order ID")
	assert.NotNil(t, appErr)
	assert.Equal(t, "Invalid order ID", appErr.Message)
}

func TestValidateQuantity(t *testing.T) {
	assert.Nil(t, ValidateQuantity(1))
	assert.NotNil(t, ValidateQuantity(0))
	assert.NotNil(t, ValidateQuantity(-5))
}

func paginationContext(t *testing.T, query string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/orders?"+query, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestParsePagination(t *testing.T) {
	page, limit := ParsePagination(paginationContext(t, ""))
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)

	page, limit = ParsePagination(paginationContext(t, "page=3&limit=25"))
	assert.Equal(t, 3, page)
	assert.Equal(t, 25, limit)

	// Non-positive and garbage values fall back to the defaults.
	page, limit = ParsePagination(paginationContext(t, "page=-1&limit=abc"))
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)

	// Limit is capped.
	_, limit = ParsePagination(paginationContext(t, "limit=10000"))
	assert.Equal(t, 100, limit)
}

func TestHTTPStatusByKind(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, NewValidationError("bad").HTTPStatus())
	assert.Equal(t, http.StatusNotFound, NewNotFoundError("missing").HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, NewConflictError("conflict").HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, NewInternalError("do thing", nil).HTTPStatus())
}
