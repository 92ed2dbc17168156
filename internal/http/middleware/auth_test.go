package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Notifuse/blockeditor/internal/domain"
)

var testSecret = []byte("test-jwt-secret-key-for-testing-32bytes")

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims UserClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims(userID string) UserClaims {
	return UserClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestRequireAuth(t *testing.T) {
	authConfig := NewAuthMiddleware(func() ([]byte, error) { return testSecret, nil })

	var seenUser string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser, _ = domain.UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := authConfig.RequireAuth()(next)

	serve := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	t.Run("missing authorization header", func(t *testing.T) {
		w := serve("")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Authorization header is required")
	})

	t.Run("invalid authorization header format", func(t *testing.T) {
		w := serve("InvalidFormat")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid authorization header format")
	})

	t.Run("invalid token", func(t *testing.T) {
		w := serve("Bearer not-a-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid token")
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, []byte("some-other-secret-key-of-32-bytes!!"), validClaims("user-1"))
		w := serve("Bearer " + token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := validClaims("user-1")
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		w := serve("Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, claims))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unsigned token", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, validClaims("user-1"))
		w := serve("Bearer " + token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing user id", func(t *testing.T) {
		w := serve("Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, validClaims("")))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "User ID not found in token")
	})

	t.Run("valid token", func(t *testing.T) {
		seenUser = ""
		w := serve("Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, validClaims("user-1")))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-1", seenUser)
	})
}

func TestRequireAuth_SecretUnavailable(t *testing.T) {
	authConfig := NewAuthMiddleware(func() ([]byte, error) { return nil, errors.New("secret not configured") })
	handler := authConfig.RequireAuth()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer anything")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
