package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"code_practice_backend/internal/util"
	"code_practice_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const secret = "middleware-test-secret-0123456789abcdef"

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(roles ...util.Role) *gin.Engine {
	r := gin.New()
	r.GET("/private", AuthMiddleware(secret), RoleMiddleware(roles...), func(c *gin.Context) {
		util.Success(c, util.GetUserFromContext(c).Account)
	})
	return r
}

func tokenFor(t *testing.T, role util.Role) string {
	t.Helper()
	token, err := util.GenerateJWT(1, role, "S001", secret, time.Hour)
	require.NoError(t, err)
	return token
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(util.RoleStudent)

	w := do(r, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, do(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, util.RoleStudent))
	w = do(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "S001")

	req = httptest.NewRequest(http.MethodGet, "/private?token="+tokenFor(t, util.RoleStudent), nil)
	assert.Equal(t, http.StatusOK, do(r, req).Code)
}

func TestRoleMiddleware(t *testing.T) {
	r := newRouter(util.RoleTeacher)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, util.RoleStudent))
	assert.Equal(t, http.StatusForbidden, do(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, util.RoleAdmin))
	assert.Equal(t, http.StatusOK, do(r, req).Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := do(r, httptest.NewRequest(http.MethodGet, "/", nil))
	id := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, id, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = do(r, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRequestIDTagsInternalErrorLogs(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	t.Cleanup(func() { logger.Log = prev })

	r := gin.New()
	r.Use(RequestID())
	r.GET("/boom", func(c *gin.Context) { util.LogInternalError(c, errors.New("db down")) })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := do(r, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	entries := logs.FilterMessage("Internal server error").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "/boom", fields["path"])
}
