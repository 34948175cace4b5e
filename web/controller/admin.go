package controller

import (
	"net/http"

	"github.com/libdesk/libdesk/logger"
	"github.com/libdesk/libdesk/web/service"
	"github.com/libdesk/libdesk/web/session"

	"github.com/gin-gonic/gin"
)

// AdminController renders the dashboard.
type AdminController struct {
	BaseController

	dashboardService *service.DashboardService
}

func NewAdminController(g *gin.RouterGroup, dashboardService *service.DashboardService) *AdminController {
	a := &AdminController{dashboardService: dashboardService}
	a.initRouter(g)
	return a
}

func (a *AdminController) initRouter(g *gin.RouterGroup) {
	g.GET("/admin", a.dashboard)
}

func (a *AdminController) dashboard(c *gin.Context) {
	stats, err := a.dashboardService.GetStats()
	if err != nil {
		logger.Error("load dashboard stats:", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	html(c, "admin.html", "pages.admin.title", gin.H{
		"stats":    stats,
		"greeting": I18nWeb(c, "pages.admin.greeting", "Username=="+session.IdentityFrom(c).Username),
	})
}
