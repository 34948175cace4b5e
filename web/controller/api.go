package controller

import (
	"strconv"

	"github.com/libdesk/libdesk/web/entity"
	"github.com/libdesk/libdesk/web/service"

	"github.com/gin-gonic/gin"
)

// APIController exposes read-only JSON views of the catalog and circulation.
type APIController struct {
	BaseController

	studentService   *service.StudentService
	bookService      *service.BookService
	issueService     *service.IssueService
	dashboardService *service.DashboardService
}

func NewAPIController(
	g *gin.RouterGroup,
	studentService *service.StudentService,
	bookService *service.BookService,
	issueService *service.IssueService,
	dashboardService *service.DashboardService,
) *APIController {
	a := &APIController{
		studentService:   studentService,
		bookService:      bookService,
		issueService:     issueService,
		dashboardService: dashboardService,
	}
	a.initRouter(g)
	return a
}

func (a *APIController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/api")
	g.GET("/students", a.getStudents)
	g.GET("/students/:id", a.getStudent)
	g.GET("/books", a.getBooks)
	g.GET("/books/:id", a.getBook)
	g.GET("/issues", a.getIssues)
	g.GET("/stats", a.getStats)
}

func (a *APIController) getStudents(c *gin.Context) {
	students, err := a.studentService.GetStudents()
	jsonObj(c, students, err)
}

func (a *APIController) getStudent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonObj(c, nil, err)
		return
	}
	student, err := a.studentService.GetStudent(id)
	jsonObj(c, student, err)
}

func (a *APIController) getBooks(c *gin.Context) {
	books, err := a.bookService.GetBooks()
	jsonObj(c, books, err)
}

func (a *APIController) getBook(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonObj(c, nil, err)
		return
	}
	book, err := a.bookService.GetBook(id)
	if err != nil {
		jsonObj(c, nil, err)
		return
	}
	issues, err := a.issueService.GetBookIssues(id)
	jsonObj(c, entity.BookDetail{Book: book, Issues: issues}, err)
}

// getIssues returns every issue, or only open ones with ?open=true.
func (a *APIController) getIssues(c *gin.Context) {
	open, _ := strconv.ParseBool(c.Query("open"))
	issues, err := a.issueService.GetIssues(open)
	jsonObj(c, issues, err)
}

func (a *APIController) getStats(c *gin.Context) {
	stats, err := a.dashboardService.GetStats()
	jsonObj(c, stats, err)
}
