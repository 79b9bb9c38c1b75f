package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kunal592/MD-BlogApp/internal/config"
	"github.com/kunal592/MD-BlogApp/internal/entity"
	"github.com/kunal592/MD-BlogApp/internal/testutil"
	"github.com/kunal592/MD-BlogApp/pkg/identity"
)

type rejectingVerifier struct{}

func (rejectingVerifier) Verify(ctx context.Context, credential string) (*identity.GoogleProfile, error) {
	return nil, identity.ErrInvalidCredential
}

type harness struct {
	t      *testing.T
	db     *gorm.DB
	tokens *identity.TokenIssuer
	srv    *Server
}

func newHarness(t *testing.T) *harness {
	gin.SetMode(gin.TestMode)
	db := testutil.NewTestDB(t)
	tokens := identity.NewTokenIssuer("test-secret", time.Hour)

	srv := NewServer(Deps{
		Config: &config.Config{
			AppEnv:         "development",
			AllowedOrigins: []string{"http://localhost:3000"},
			FrontendURL:    "http://localhost:3000",
		},
		DB:       db,
		Verifier: rejectingVerifier{},
		Tokens:   tokens,
	})
	return &harness{t: t, db: db, tokens: tokens, srv: srv}
}

func (h *harness) token(u *entity.User) string {
	token, _, err := h.tokens.Issue(u.ID.String())
	require.NoError(h.t, err)
	return token
}

func (h *harness) do(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = h.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestFollowFeedAndNotificationFlow(t *testing.T) {
	h := newHarness(t)
	author := testutil.CreateUser(t, h.db, "author")
	reader := testutil.CreateUser(t, h.db, "reader")
	testutil.CreateBlog(t, h.db, author, "Followed Post")

	w := h.do(http.MethodPost, "/api/users/"+author.ID.String()+"/follow", h.token(reader))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = h.do(http.MethodGet, "/api/feed", h.token(reader))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Followed Post")

	w = h.do(http.MethodGet, "/api/notifications", h.token(author))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "reader started following you")

	w = h.do(http.MethodGet, "/api/users/"+author.ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"follower_count":1`)
}

func TestRouteProtection(t *testing.T) {
	h := newHarness(t)
	user := testutil.CreateUser(t, h.db, "plain")
	admin := testutil.CreateAdmin(t, h.db, "boss")

	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/api/feed", "").Code)
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodGet, "/api/admin/stats", h.token(user)).Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/api/admin/stats", h.token(admin)).Code)

	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/api/trending", "").Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/api/tags", "").Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/api/blogs", "").Code)

	w := h.do(http.MethodGet, "/api/admin/moderation?type=bogus", h.token(admin))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGoogleSignIn_RejectedCredential(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/google", strings.NewReader(`{"credential":"forged"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())
}
