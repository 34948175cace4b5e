// Package session keeps the authenticated identity and flash messages in the
// server-side gin session, and hands the identity to handlers through the
// request context.
package session

import (
	"net/http"

	"github.com/libdesk/libdesk/database/model"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	gorillasessions "github.com/gorilla/sessions"
)

const (
	CookieName = "libdesk"

	keyUserId   = "user_id"
	keyRole     = "role"
	keyUsername = "username"
	identityKey = "identity"
)

// Identity is the authenticated caller of one request.
type Identity struct {
	UserId   int
	Username string
	Role     model.Role
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == model.RoleAdmin
}

// CookieOptions returns the session cookie attributes for a lifetime of
// maxAge seconds. A negative maxAge expires the cookie.
func CookieOptions(maxAge int) sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// SetLoginUser stores user in the session under a fresh session id that
// lives maxAge seconds. The previous server-side session is discarded.
func SetLoginUser(c *gin.Context, user *model.User, maxAge int) error {
	s := sessions.Default(c)
	if err := renew(s); err != nil {
		return err
	}
	s.Options(CookieOptions(maxAge))
	s.Set(keyUserId, user.Id)
	s.Set(keyUsername, user.Username)
	s.Set(keyRole, string(user.Role))
	return s.Save()
}

// renew drops the stored session row and clears the id so the next Save
// issues a new one.
func renew(s sessions.Session) error {
	gs, ok := s.(interface{ Session() *gorillasessions.Session })
	if !ok {
		return nil
	}
	session := gs.Session()
	if store, ok := session.Store().(*Store); ok {
		if err := store.delete(session); err != nil {
			return err
		}
	}
	session.ID = ""
	return nil
}

// GetLoginUser reads the identity stored in the session, or nil when the
// session carries no user id or role.
func GetLoginUser(c *gin.Context) *Identity {
	s := sessions.Default(c)
	id, ok := s.Get(keyUserId).(int)
	if !ok {
		return nil
	}
	role, ok := s.Get(keyRole).(string)
	if !ok || role == "" {
		return nil
	}
	username, _ := s.Get(keyUsername).(string)
	return &Identity{UserId: id, Username: username, Role: model.Role(role)}
}

// Bind stores id as the request-scoped identity.
func Bind(c *gin.Context, id *Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the identity bound to this request, or nil.
func IdentityFrom(c *gin.Context) *Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*Identity)
	return id
}

func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(CookieOptions(-1))
	if err := s.Save(); err != nil {
		return err
	}
	Bind(c, nil)
	return nil
}

func AddFlash(c *gin.Context, msg string) error {
	s := sessions.Default(c)
	s.AddFlash(msg)
	return s.Save()
}

// Flashes pops every pending flash message.
func Flashes(c *gin.Context) []string {
	s := sessions.Default(c)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = s.Save()
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			out = append(out, msg)
		}
	}
	return out
}
