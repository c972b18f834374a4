package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tipsy/config"
	"tipsy/internal/api/handler"
	"tipsy/internal/model"
	"tipsy/internal/repository"
	"tipsy/internal/service"
	"tipsy/internal/testdb"
	"tipsy/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	engine     *gin.Engine
	repo       *repository.Repository
	owner      *model.User
	otherOwner *model.User
	worker     *model.User
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			BaseURL: "https://tipsy.test",
			CORS:    config.CORSConfig{AllowOrigins: []string{"*"}},
		},
		Auth:      config.AuthConfig{Mode: config.AuthModeOpaque, InvitationTTL: 24 * time.Hour},
		RateLimit: config.RateLimitConfig{PublicPerMinute: 0},
		Payment:   config.PaymentConfig{UPIPayeeName: "TIPSY"},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	ctx := context.Background()
	repo := repository.NewRepository(testdb.New(t))
	logger := zap.NewNop()
	m := metrics.New()

	ts := &testServer{repo: repo}
	ts.owner = addUser(t, repo, "owner-1", model.RoleOwner, "Olivia", "olivia@example.com")
	ts.otherOwner = addUser(t, repo, "owner-2", model.RoleOwner, "Oscar", "oscar@example.com")
	ts.worker = addUser(t, repo, "worker-1", model.RoleWorker, "Aisha", "aisha@example.com")

	restaurant := &model.Restaurant{OwnerUserID: ts.owner.ID, Name: "Spice Route"}
	require.NoError(t, repo.Restaurant.Create(ctx, restaurant))
	require.NoError(t, repo.Staff.Create(ctx, &model.Staff{
		RestaurantID:     restaurant.ID,
		UserID:           ts.worker.ID,
		RoleInRestaurant: "server",
		QRSlug:           "aisha-qr",
		JoinedAt:         time.Now().UTC(),
	}))

	svc := service.NewService(cfg, repo, nil, m, logger)
	ts.engine = Setup(cfg, handler.NewHandler(svc), Deps{
		Identity: svc.Identity,
		DB:       repo,
		Metrics:  m,
		Logger:   logger,
	})
	return ts
}

func addUser(t *testing.T, repo *repository.Repository, authID, role, name, email string) *model.User {
	t.Helper()
	u := &model.User{AuthUserID: authID, Role: role, Name: name, Email: email}
	require.NoError(t, repo.User.Create(context.Background(), u))
	return u
}

func (ts *testServer) do(method, path, bearer, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestTipThenModerate(t *testing.T) {
	ts := newTestServer(t, testConfig())

	w := ts.do(http.MethodPost, "/api/v1/tips", "",
		`{"qr_slug":"aisha-qr","amount_cents":25000,"rating":5,"payer_name":"Raj"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	assert.EqualValues(t, 25000, body["tip"].(map[string]any)["amountCents"])
	review := body["review"].(map[string]any)
	assert.EqualValues(t, 5, review["rating"])
	assert.Equal(t, "pending", review["status"])
	reviewID := int(review["id"].(float64))

	payload := `{"reviewId":` + jsonInt(reviewID) + `,"action":"approve"}`

	w = ts.do(http.MethodPost, "/api/v1/reviews/moderate", "owner-2", payload)
	assert.Equal(t, http.StatusForbidden, w.Code, "owner of another restaurant")

	w = ts.do(http.MethodPost, "/api/v1/reviews/moderate", "worker-1", payload)
	assert.Equal(t, http.StatusForbidden, w.Code, "worker")
	assert.Equal(t, "INSUFFICIENT_PERMISSIONS", decode(t, w)["code"])

	w = ts.do(http.MethodPost, "/api/v1/reviews/moderate", "owner-1", payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	moderated := decode(t, w)
	assert.Equal(t, "approved", moderated["status"])
	assert.EqualValues(t, ts.owner.ID, moderated["moderatedBy"].(map[string]any)["id"])

	w = ts.do(http.MethodGet, "/api/v1/workers/"+jsonInt(int(ts.worker.ID)), "", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 5, decode(t, w)["averageRating"])
}

func TestModerate_BodyGuardRunsAfterRole(t *testing.T) {
	ts := newTestServer(t, testConfig())

	w := ts.do(http.MethodPost, "/api/v1/reviews/moderate", "owner-1",
		`{"reviewId":1,"action":"approve","userId":2}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "USER_ID_NOT_ALLOWED", decode(t, w)["code"])
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t, testConfig())

	for _, path := range []string{"/api/v1/tips", "/api/v1/users/me", "/api/v1/restaurants", "/api/v1/notifications"} {
		w := ts.do(http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Basic b3duZXItMQ==")
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUnknownCredentialProvisionsWorker(t *testing.T) {
	ts := newTestServer(t, testConfig())

	w := ts.do(http.MethodGet, "/api/v1/users/me", "newcomer", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	profile := decode(t, w)
	assert.Equal(t, model.RoleWorker, profile["role"])
	assert.Equal(t, "newcomer@example.com", profile["email"])

	// Workers cannot reach owner-only routes.
	w = ts.do(http.MethodGet, "/api/v1/restaurants", "newcomer", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(http.MethodGet, "/api/v1/restaurants", "owner-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.EqualValues(t, 1, list[0]["staffCount"])
}

func TestPublicRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.PublicPerMinute = 2
	ts := newTestServer(t, cfg)

	body := `{"qr_slug":"aisha-qr","amount_cents":100}`
	for i := 0; i < 2; i++ {
		w := ts.do(http.MethodPost, "/api/v1/tips", "", body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	w := ts.do(http.MethodPost, "/api/v1/tips", "", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// Authenticated reads are not limited.
	w = ts.do(http.MethodGet, "/api/v1/tips", "worker-1", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t, testConfig())

	w := ts.do(http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	ts.do(http.MethodPost, "/api/v1/tips", "", `{"qr_slug":"aisha-qr","amount_cents":500}`)

	w = ts.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tips_submitted_total")
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t, testConfig())

	w := ts.do(http.MethodGet, "/api/v1/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func jsonInt(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}
