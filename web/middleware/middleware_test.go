package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/libdesk/libdesk/database/model"
	"github.com/libdesk/libdesk/web/service"
	"github.com/libdesk/libdesk/web/session"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/memstore"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions(session.CookieName, memstore.NewStore([]byte("test-secret"))))
	r.Use(Identity())

	r.GET("/as/:role", func(c *gin.Context) {
		user := &model.User{Id: 7, Username: "u", Role: model.Role(c.Param("role"))}
		if err := session.SetLoginUser(c, user, 3600); err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})

	admin := r.Group("/admin")
	admin.Use(RoleRequired("/login", model.RoleAdmin))
	admin.GET("", func(c *gin.Context) {
		c.String(http.StatusOK, "dashboard for %d", session.IdentityFrom(c).UserId)
	})
	return r
}

func do(r http.Handler, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoleRequired(t *testing.T) {
	r := newEngine()

	t.Run("no session", func(t *testing.T) {
		w := do(r, "/admin", nil)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	})

	t.Run("student role", func(t *testing.T) {
		login := do(r, "/as/student", nil)
		require.Equal(t, http.StatusNoContent, login.Code)
		w := do(r, "/admin", login.Result().Cookies())
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	})

	t.Run("admin role", func(t *testing.T) {
		login := do(r, "/as/admin", nil)
		require.Equal(t, http.StatusNoContent, login.Code)
		w := do(r, "/admin", login.Result().Cookies())
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "dashboard for 7", w.Body.String())
	})
}

func TestRoleRequiredRecordsAuthorizationError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var recorded error
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Next()
		if last := c.Errors.Last(); last != nil {
			recorded = last.Err
		}
	})
	r.Use(sessions.Sessions(session.CookieName, memstore.NewStore([]byte("test-secret"))))
	r.Use(Identity())
	r.GET("/as/:role", func(c *gin.Context) {
		user := &model.User{Id: 8, Username: "u", Role: model.Role(c.Param("role"))}
		_ = session.SetLoginUser(c, user, 3600)
		c.Status(http.StatusNoContent)
	})
	r.GET("/admin", RoleRequired("/login", model.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := do(r, "/admin", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	require.ErrorIs(t, recorded, service.ErrNotAdmin)
	kind, ok := service.KindOf(recorded)
	assert.True(t, ok)
	assert.Equal(t, service.KindAuthorization, kind)

	recorded = nil
	login := do(r, "/as/admin", nil)
	require.Equal(t, http.StatusNoContent, login.Code)
	w = do(r, "/admin", login.Result().Cookies())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, recorded)
}

func TestDomainValidator(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(DomainValidatorMiddleware("library.example.com"))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "library.example.com:5000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "evil.example.com"
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequestLoggerSetsId(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, "/", nil)
	assert.NotEmpty(t, w.Header().Get(RequestIdHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIdHeader, "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(RequestIdHeader))
}
