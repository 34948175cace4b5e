package controller

import (
	"errors"
	"net/http"
	"text/template"

	"github.com/libdesk/libdesk/config"
	"github.com/libdesk/libdesk/database/model"
	"github.com/libdesk/libdesk/logger"
	"github.com/libdesk/libdesk/web/service"
	"github.com/libdesk/libdesk/web/session"

	"github.com/gin-gonic/gin"
)

// LoginForm represents the login request structure.
type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// IndexController handles the public routes: home, login and logout.
type IndexController struct {
	BaseController

	userService *service.UserService
}

func NewIndexController(g *gin.RouterGroup, userService *service.UserService) *IndexController {
	a := &IndexController{userService: userService}
	a.initRouter(g)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup) {
	g.GET("/", a.index)
	g.GET("/login", a.loginPage)
	g.POST("/login", a.login)
	g.GET("/logout", a.logout)
}

// index has no content of its own; students land here after login.
func (a *IndexController) index(c *gin.Context) {
	c.Redirect(http.StatusFound, "/login")
}

func (a *IndexController) loginPage(c *gin.Context) {
	if session.IdentityFrom(c).IsAdmin() {
		c.Redirect(http.StatusFound, "/admin")
		return
	}
	html(c, "login.html", "pages.login.title", nil)
}

func (a *IndexController) login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		html(c, "login.html", "pages.login.title", gin.H{
			"flashes": []string{I18nWeb(c, "invalidFormData")},
		})
		return
	}

	user, err := a.userService.CheckUser(form.Username, form.Password)
	if err != nil {
		safeUser := template.HTMLEscapeString(form.Username)
		if errors.Is(err, service.ErrInvalidCredentials) {
			logger.Warningf("wrong username or password: \"%s\", IP: \"%s\"", safeUser, getRemoteIp(c))
		} else {
			logger.Error("login failed for", safeUser, err)
		}
		html(c, "login.html", "pages.login.title", gin.H{
			"flashes": []string{I18nWeb(c, "pages.login.toasts.wrongUsernameOrPassword")},
		})
		return
	}

	if err := session.SetLoginUser(c, user, config.GetSessionMaxAge()*60); err != nil {
		logger.Error("unable to save session:", err)
		html(c, "login.html", "pages.login.title", gin.H{
			"flashes": []string{I18nWeb(c, "somethingWentWrong")},
		})
		return
	}
	logger.Infof("%s logged in successfully, IP: %s", user.Username, getRemoteIp(c))

	if user.Role == model.RoleAdmin {
		c.Redirect(http.StatusFound, "/admin")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (a *IndexController) logout(c *gin.Context) {
	if id := session.IdentityFrom(c); id != nil {
		logger.Infof("%s logged out", id.Username)
	}
	if err := session.ClearSession(c); err != nil {
		logger.Warning("unable to clear session:", err)
	}
	c.Redirect(http.StatusFound, "/login")
}
