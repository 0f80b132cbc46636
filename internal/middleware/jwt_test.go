package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopmart/internal/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func runMiddleware(authHeader string) (uuid.UUID, bool, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var userID uuid.UUID
	var found bool
	handler := JWTMiddleware(testSecret)(func(c echo.Context) error {
		userID, found = common.GetUserIDFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})
	return userID, found, handler(c)
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	want := uuid.New()
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": want.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	userID, found, err := runMiddleware("Bearer " + token)

	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, userID)
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	_, _, err := runMiddleware("")

	var httpErr *echo.HTTPError
	assert.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestJWTMiddleware_NotBearer(t *testing.T) {
	_, _, err := runMiddleware("Basic abc123")

	var httpErr *echo.HTTPError
	assert.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestJWTMiddleware_WrongSecret(t *testing.T) {
	token := signToken(t, "other-secret", jwt.MapClaims{
		"sub": uuid.New().String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, _, err := runMiddleware("Bearer " + token)

	var httpErr *echo.HTTPError
	assert.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": uuid.New().String(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, _, err := runMiddleware("Bearer " + token)

	var httpErr *echo.HTTPError
	assert.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestJWTMiddleware_NonUUIDSubject(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "not-a-uuid",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, _, err := runMiddleware("Bearer " + token)

	var httpErr *echo.HTTPError
	assert.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
