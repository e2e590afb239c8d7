package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/models"
	apperrors "github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	users map[string]*models.User
	err   error
}

func (s *stubResolver) CurrentUser(_ context.Context, token string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[token]
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeUnauthorized, "could not validate credentials")
	}
	return user, nil
}

var resolver = &stubResolver{users: map[string]*models.User{
	"user-token":  {ID: 7, Email: "u@x.com", AccountType: models.AccountTypeUser},
	"admin-token": {ID: 1, Email: "admin@x.com", AccountType: models.AccountTypeAdmin},
}}

func performRequest(r http.Handler, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func authRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{RequireAuth(resolver)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": CurrentUser(c).ID})
	})
	r.GET("/p", handlers...)
	return r
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	w := performRequest(authRouter(), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apperrors.ErrCodeUnauthorized, body["code"])
}

func TestRequireAuth_BadPrefix(t *testing.T) {
	w := performRequest(authRouter(), map[string]string{"Authorization": "Token user-token"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	w := performRequest(authRouter(), map[string]string{"Authorization": "Bearer nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_Valid(t *testing.T) {
	w := performRequest(authRouter(), map[string]string{"Authorization": "bearer user-token"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7}`, w.Body.String())
}

func TestRequireAuth_InactiveUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/p", RequireAuth(&stubResolver{err: apperrors.New(apperrors.ErrCodeInactiveUser, "inactive user")}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := performRequest(r, map[string]string{"Authorization": "Bearer whatever"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "inactive user")
}

func TestRequireAdmin(t *testing.T) {
	r := authRouter(RequireAdmin())

	w := performRequest(r, map[string]string{"Authorization": "Bearer user-token"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = performRequest(r, map[string]string{"Authorization": "Bearer admin-token"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer   abc  ", "abc", true},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := bearerToken(tt.header)
		if got != tt.want || ok != tt.ok {
			t.Errorf("bearerToken(%q) = %q, %v, want %q, %v", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRequestLogger_AssignsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/p", func(c *gin.Context) { c.String(http.StatusOK, RequestID(c)) })

	w := performRequest(r, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	id := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, id, w.Body.String())

	given := uuid.NewString()
	w = performRequest(r, map[string]string{RequestIDHeader: given})
	assert.Equal(t, given, w.Header().Get(RequestIDHeader))

	w = performRequest(r, map[string]string{RequestIDHeader: "not-a-uuid"})
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(RequestIDHeader))
}

func TestAbortWithError_HidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/p", func(c *gin.Context) {
		AbortWithError(c, errors.New("pq: password authentication failed"))
	})

	w := performRequest(r, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"code":"INTERNAL_ERROR","error":"internal server error"}`, w.Body.String())
}

func TestRateLimiter_UserLimit(t *testing.T) {
	rl := NewRateLimiter(2, 100, time.Minute)
	defer rl.Stop()
	ctx := context.Background()

	assert.True(t, rl.CheckUserLimit(ctx, 1))
	assert.True(t, rl.CheckUserLimit(ctx, 1))
	assert.False(t, rl.CheckUserLimit(ctx, 1))
	assert.Equal(t, 0, rl.GetUserRemaining(ctx, 1))

	// Other users have their own budget
	assert.True(t, rl.CheckUserLimit(ctx, 2))
	assert.Equal(t, 1, rl.GetUserRemaining(ctx, 2))
}

func TestRateLimiter_WindowResets(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	rl := NewRateLimiterWithStore(store, 1, 1, time.Minute)
	defer rl.Stop()
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	assert.True(t, rl.CheckIPLimit(ctx, "10.0.0.1"))
	assert.False(t, rl.CheckIPLimit(ctx, "10.0.0.1"))

	now = now.Add(time.Minute + time.Second)
	assert.True(t, rl.CheckIPLimit(ctx, "10.0.0.1"))
	assert.Equal(t, 0, rl.GetIPRemaining(ctx, "10.0.0.1"))

	require.NoError(t, rl.Reset(ctx))
	assert.Equal(t, 1, rl.GetIPRemaining(ctx, "10.0.0.1"))
}

type failingStore struct{}

func (failingStore) Take(context.Context, string, int, time.Duration) (bool, error) {
	return false, errors.New("connection refused")
}
func (failingStore) Remaining(context.Context, string, int) (int, error) {
	return 0, errors.New("connection refused")
}
func (failingStore) Reset(context.Context) error { return nil }
func (failingStore) Close() error                { return nil }

func TestRateLimiter_FailsOpen(t *testing.T) {
	rl := NewRateLimiterWithStore(failingStore{}, 1, 1, time.Minute)
	ctx := context.Background()

	assert.True(t, rl.CheckIPLimit(ctx, "10.0.0.1"))
	assert.True(t, rl.CheckIPLimit(ctx, "10.0.0.1"))
	assert.Equal(t, 1, rl.GetUserRemaining(ctx, 3))
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(1, 2, time.Minute)
	defer rl.Stop()

	r := authRouter(rl.UserMiddleware())

	headers := map[string]string{"Authorization": "Bearer user-token"}
	w := performRequest(r, headers)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = performRequest(r, headers)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	ipOnly := gin.New()
	ipOnly.Use(rl.IPMiddleware())
	ipOnly.GET("/p", func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusOK, performRequest(ipOnly, nil).Code)
	assert.Equal(t, http.StatusOK, performRequest(ipOnly, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, performRequest(ipOnly, nil).Code)
}
