package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userRepo "github.com/kunal592/MD-BlogApp/internal/modules/user/repository"
	"github.com/kunal592/MD-BlogApp/internal/observability"
	"github.com/kunal592/MD-BlogApp/internal/testutil"
	"github.com/kunal592/MD-BlogApp/pkg/identity"
	"github.com/kunal592/MD-BlogApp/pkg/response"
)

func newRouter(t *testing.T) (*gin.Engine, *identity.TokenIssuer, func(name string, admin bool) string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	tokens := identity.NewTokenIssuer("test-secret", time.Hour)
	auth := NewAuthMiddleware(userRepo.NewUserRepository(db), tokens)

	whoami := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString(response.ContextUserID),
			"role":    response.GetUserRole(c),
		})
	}

	router := gin.New()
	router.Use(Metrics())
	router.GET("/private", auth.RequireAuth(), whoami)
	router.GET("/public", auth.OptionalAuth(), whoami)
	router.GET("/admin", auth.RequireAuth(), auth.RequireAdmin(), whoami)

	login := func(name string, admin bool) string {
		create := testutil.CreateUser
		if admin {
			create = testutil.CreateAdmin
		}
		u := create(t, db, name)
		token, _, err := tokens.Issue(u.ID.String())
		require.NoError(t, err)
		return token
	}

	return router, tokens, login
}

func get(router *gin.Engine, path string, decorate func(r *http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if decorate != nil {
		decorate(req)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func bearer(token string) func(r *http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func TestRequireAuth(t *testing.T) {
	router, tokens, login := newRouter(t)
	token := login("alice", false)

	t.Run("bearer header", func(t *testing.T) {
		w := get(router, "/private", bearer(token))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"role":"USER"`)
	})

	t.Run("cookie", func(t *testing.T) {
		w := get(router, "/private", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("query parameter", func(t *testing.T) {
		w := get(router, "/private?token="+token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing", func(t *testing.T) {
		w := get(router, "/private", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "authorization required")
	})

	t.Run("tampered", func(t *testing.T) {
		w := get(router, "/private", bearer(token+"x"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		ghost, _, err := tokens.Issue(uuid.New().String())
		require.NoError(t, err)
		w := get(router, "/private", bearer(ghost))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireAuth_Deactivated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewTestDB(t)
	tokens := identity.NewTokenIssuer("test-secret", time.Hour)
	auth := NewAuthMiddleware(userRepo.NewUserRepository(db), tokens)

	u := testutil.CreateUser(t, db, "mallory")
	require.NoError(t, db.Model(u).Update("is_active", false).Error)
	token, _, err := tokens.Issue(u.ID.String())
	require.NoError(t, err)

	router := gin.New()
	router.GET("/private", auth.RequireAuth(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.GET("/public", auth.OptionalAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(response.ContextUserID))
	})

	assert.Equal(t, http.StatusForbidden, get(router, "/private", bearer(token)).Code)

	w := get(router, "/public", bearer(token))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestOptionalAuth(t *testing.T) {
	router, _, login := newRouter(t)
	token := login("bob", false)

	w := get(router, "/public", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":""`)

	w = get(router, "/public", bearer("garbage"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":""`)

	w = get(router, "/public", bearer(token))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"user_id":""`)
}

func TestRequireAdmin(t *testing.T) {
	router, _, login := newRouter(t)

	assert.Equal(t, http.StatusForbidden, get(router, "/admin", bearer(login("carol", false))).Code)
	assert.Equal(t, http.StatusOK, get(router, "/admin", bearer(login("dave", true))).Code)
	assert.Equal(t, http.StatusUnauthorized, get(router, "/admin", nil).Code)
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Metrics(), RequestLogger())
	router.GET("/blogs/:slug", func(c *gin.Context) { c.Status(http.StatusOK) })

	counter := observability.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/blogs/:slug", "200")
	before := promtest.ToFloat64(counter)

	get(router, "/blogs/first", nil)
	get(router, "/blogs/second", nil)

	assert.Equal(t, before+2, promtest.ToFloat64(counter))
	assert.Equal(t, float64(0), promtest.ToFloat64(
		observability.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/blogs/first", "200")))
}
