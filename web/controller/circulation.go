package controller

import (
	"errors"
	"net/http"

	"github.com/libdesk/libdesk/logger"
	"github.com/libdesk/libdesk/web/service"

	"github.com/gin-gonic/gin"
)

// CirculationForm is submitted by both the issue and the return page.
type CirculationForm struct {
	BookId    int `form:"book_id" binding:"required,min=1"`
	StudentId int `form:"student_id" binding:"required,min=1"`
}

// CirculationController lends books out and takes them back. Both pages
// re-render in place and list what is currently on loan.
type CirculationController struct {
	BaseController

	issueService *service.IssueService
}

func NewCirculationController(g *gin.RouterGroup, issueService *service.IssueService) *CirculationController {
	a := &CirculationController{issueService: issueService}
	a.initRouter(g)
	return a
}

func (a *CirculationController) initRouter(g *gin.RouterGroup) {
	g.GET("/issue", a.issuePage)
	g.POST("/issue", a.issue)
	g.GET("/return", a.returnPage)
	g.POST("/return", a.returnBook)
}

func (a *CirculationController) render(c *gin.Context, name string, flashes ...string) {
	issues, err := a.issueService.GetIssues(true)
	if err != nil {
		logger.Error("list open issues:", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	data := gin.H{
		"issues":  issues,
		"flashes": flashes,
	}
	switch name {
	case "issue.html":
		data["action"] = "/issue"
		data["submit"] = "pages.issue.submit"
		html(c, name, "pages.issue.title", data)
	default:
		data["action"] = "/return"
		data["submit"] = "pages.return.submit"
		html(c, name, "pages.return.title", data)
	}
}

func (a *CirculationController) issuePage(c *gin.Context) {
	a.render(c, "issue.html")
}

func (a *CirculationController) issue(c *gin.Context) {
	var form CirculationForm
	if err := c.ShouldBind(&form); err != nil {
		a.render(c, "issue.html", I18nWeb(c, "invalidFormData"))
		return
	}

	_, err := a.issueService.IssueBook(form.BookId, form.StudentId)
	if err != nil {
		kind, ok := service.KindOf(err)
		if ok && (kind == service.KindNotFound || kind == service.KindBusinessRule) {
			logger.Debugf("issue book %d to student %d refused: %v", form.BookId, form.StudentId, err)
			a.render(c, "issue.html", I18nWeb(c, "pages.issue.toasts.invalid"))
			return
		}
		logger.Error("issue book:", err)
		a.render(c, "issue.html", I18nWeb(c, "somethingWentWrong"))
		return
	}
	a.render(c, "issue.html", I18nWeb(c, "pages.issue.toasts.issued"))
}

func (a *CirculationController) returnPage(c *gin.Context) {
	a.render(c, "return.html")
}

func (a *CirculationController) returnBook(c *gin.Context) {
	var form CirculationForm
	if err := c.ShouldBind(&form); err != nil {
		a.render(c, "return.html", I18nWeb(c, "invalidFormData"))
		return
	}

	_, err := a.issueService.ReturnBook(form.BookId, form.StudentId)
	switch {
	case err == nil:
		a.render(c, "return.html", I18nWeb(c, "pages.return.toasts.returned"))
	case errors.Is(err, service.ErrNoOpenIssue):
		a.render(c, "return.html", I18nWeb(c, "pages.return.toasts.notFound"))
	default:
		logger.Error("return book:", err)
		a.render(c, "return.html", I18nWeb(c, "somethingWentWrong"))
	}
}
