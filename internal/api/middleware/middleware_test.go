package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tipsy/internal/model"
	pkgerrors "tipsy/pkg/errors"
	"tipsy/pkg/metrics"
	"tipsy/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubResolver struct {
	calls int
	got   string
	user  *model.User
	err   error
}

func (s *stubResolver) Resolve(_ context.Context, credential string) (*model.User, error) {
	s.calls++
	s.got = credential
	return s.user, s.err
}

func serve(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	r.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthenticate(t *testing.T) {
	resolver := &stubResolver{user: &model.User{ID: 7, Role: model.RoleOwner}}
	r := gin.New()
	r.GET("/me", Authenticate(resolver), func(c *gin.Context) {
		u := c.MustGet(UserKey).(*model.User)
		c.JSON(http.StatusOK, gin.H{"id": u.ID, "role": c.GetString(RoleKey)})
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"empty credential", "Bearer   ", http.StatusUnauthorized},
		{"ok", "Bearer ext-7", http.StatusOK},
		{"lowercase scheme", "bearer ext-7", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.header != "" {
				h.Set("Authorization", tt.header)
			}
			w := serve(r, http.MethodGet, "/me", h)
			assert.Equal(t, tt.status, w.Code)
		})
	}
	assert.Equal(t, 2, resolver.calls)
	assert.Equal(t, "ext-7", resolver.got)
}

func TestAuthenticate_ResolverError(t *testing.T) {
	r := gin.New()
	r.GET("/me", Authenticate(&stubResolver{err: pkgerrors.ErrInvalidToken}), func(c *gin.Context) {
		t.Fatal("handler must not run")
	})

	h := http.Header{}
	h.Set("Authorization", "Bearer bad")
	w := serve(r, http.MethodGet, "/me", h)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_TOKEN", errorBody(t, w).Code)
}

func TestRoleAuth(t *testing.T) {
	withRole := func(role string) gin.HandlerFunc {
		return func(c *gin.Context) {
			if role != "" {
				c.Set(RoleKey, role)
			}
		}
	}
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	tests := []struct {
		role   string
		status int
	}{
		{model.RoleOwner, http.StatusNoContent},
		{model.RoleAdmin, http.StatusNoContent},
		{model.RoleWorker, http.StatusForbidden},
		{"", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run("role="+tt.role, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", withRole(tt.role), RoleAuth(model.RoleOwner, model.RoleAdmin), ok)
			w := serve(r, http.MethodGet, "/x", nil)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusForbidden {
				body := errorBody(t, w)
				assert.Equal(t, "INSUFFICIENT_PERMISSIONS", body.Code)
				assert.Equal(t, "Access denied. Owner or admin role required.", body.Error)
			}
		})
	}
}

func TestRateLimiter_LocalFallback(t *testing.T) {
	m := metrics.New()
	rl := NewRateLimiter(nil, 2, time.Minute, m, zap.NewNop())
	r := gin.New()
	r.POST("/tips", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	assert.Equal(t, http.StatusCreated, serve(r, http.MethodPost, "/tips", nil).Code)
	assert.Equal(t, http.StatusCreated, serve(r, http.MethodPost, "/tips", nil).Code)

	w := serve(r, http.MethodPost, "/tips", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Equal(t, "RATE_LIMITED", errorBody(t, w).Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimited.WithLabelValues("/tips")))
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := NewRateLimiter(nil, 0, time.Minute, nil, zap.NewNop())
	r := gin.New()
	r.GET("/x", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/x", nil).Code)
	}
}

func TestRequestIDAndSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), SecurityHeaders())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	w := serve(r, http.MethodGet, "/x", nil)
	assert.Len(t, w.Header().Get(requestIDHeader), 36)
	assert.Equal(t, w.Header().Get(requestIDHeader), w.Body.String())
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	h := http.Header{}
	h.Set(requestIDHeader, "abc-123")
	w = serve(r, http.MethodGet, "/x", h)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))

	for _, bad := range []string{"has space", "tab	here", strings.Repeat("a", requestIDMaxLen+1)} {
		h.Set(requestIDHeader, bad)
		w = serve(r, http.MethodGet, "/x", h)
		assert.Len(t, w.Header().Get(requestIDHeader), 36, "replaced %q", bad)
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://app.tipsy.test/"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	h := http.Header{}
	h.Set("Origin", "https://app.tipsy.test")
	w := serve(r, http.MethodOptions, "/x", h)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.tipsy.test", w.Header().Get("Access-Control-Allow-Origin"))

	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	h.Set("Origin", "https://evil.test")
	w = serve(r, http.MethodGet, "/x", h)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Wildcard(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"*"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	h := http.Header{}
	h.Set("Origin", "https://anywhere.test")
	w := serve(r, http.MethodGet, "/x", h)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "X-Unread-Count")
}

func TestMetrics(t *testing.T) {
	m := metrics.New()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/workers/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, http.MethodGet, "/workers/12", nil)
	serve(r, http.MethodGet, "/nowhere", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/workers/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}
