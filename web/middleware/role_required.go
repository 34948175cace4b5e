// Package middleware holds the gin middleware shared by every libdesk route:
// identity loading, the role guard, request logging and host validation.
package middleware

import (
	"net/http"

	"github.com/libdesk/libdesk/database/model"
	"github.com/libdesk/libdesk/logger"
	"github.com/libdesk/libdesk/web/service"
	"github.com/libdesk/libdesk/web/session"

	"github.com/gin-gonic/gin"
)

// Identity reads the logged-in user from the session once and binds it to the
// request so handlers never touch the session for authorization.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := session.GetLoginUser(c); id != nil {
			session.Bind(c, id)
		}
		c.Next()
	}
}

// RoleRequired lets the request through only when the bound identity has one
// of roles. Anyone else is redirected to redirectPath with no message and
// service.ErrNotAdmin is recorded on the context.
func RoleRequired(redirectPath string, roles ...model.Role) gin.HandlerFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		id := session.IdentityFrom(c)
		if id == nil || !allowed[id.Role] {
			err := c.Error(service.ErrNotAdmin)
			logger.Debugf("denied %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
			c.Redirect(http.StatusFound, redirectPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
