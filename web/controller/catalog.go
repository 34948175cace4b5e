package controller

import (
	"net/http"

	"github.com/libdesk/libdesk/logger"
	"github.com/libdesk/libdesk/web/service"

	"github.com/gin-gonic/gin"
)

type StudentForm struct {
	Name  string `form:"name" binding:"required,max=150"`
	Email string `form:"email" binding:"required,email,max=150"`
}

type BookForm struct {
	Title  string `form:"title" binding:"required,max=150"`
	Author string `form:"author" binding:"required,max=150"`
	Isbn   string `form:"isbn" binding:"required,len=13"`
}

// CatalogController lists and creates students and books.
type CatalogController struct {
	BaseController

	studentService *service.StudentService
	bookService    *service.BookService
}

func NewCatalogController(g *gin.RouterGroup, studentService *service.StudentService, bookService *service.BookService) *CatalogController {
	a := &CatalogController{studentService: studentService, bookService: bookService}
	a.initRouter(g)
	return a
}

func (a *CatalogController) initRouter(g *gin.RouterGroup) {
	g.GET("/students", a.students)
	g.POST("/students", a.addStudent)
	g.GET("/books", a.books)
	g.POST("/books", a.addBook)
}

func (a *CatalogController) renderStudents(c *gin.Context, flashes ...string) {
	students, err := a.studentService.GetStudents()
	if err != nil {
		logger.Error("list students:", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	html(c, "students.html", "pages.students.title", gin.H{
		"students": students,
		"flashes":  flashes,
	})
}

func (a *CatalogController) students(c *gin.Context) {
	a.renderStudents(c)
}

func (a *CatalogController) addStudent(c *gin.Context) {
	var form StudentForm
	if err := c.ShouldBind(&form); err != nil {
		a.renderStudents(c, I18nWeb(c, "invalidFormData"))
		return
	}
	if _, err := a.studentService.AddStudent(form.Name, form.Email); err != nil {
		a.renderStudents(c, a.createFailure(c, err, "pages.students.toasts.duplicate"))
		return
	}
	flash(c, I18nWeb(c, "pages.students.toasts.added"))
	c.Redirect(http.StatusFound, "/students")
}

func (a *CatalogController) renderBooks(c *gin.Context, flashes ...string) {
	books, err := a.bookService.GetBooks()
	if err != nil {
		logger.Error("list books:", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	html(c, "books.html", "pages.books.title", gin.H{
		"books":   books,
		"flashes": flashes,
	})
}

func (a *CatalogController) books(c *gin.Context) {
	a.renderBooks(c)
}

func (a *CatalogController) addBook(c *gin.Context) {
	var form BookForm
	if err := c.ShouldBind(&form); err != nil {
		a.renderBooks(c, I18nWeb(c, "invalidFormData"))
		return
	}
	if _, err := a.bookService.AddBook(form.Title, form.Author, form.Isbn); err != nil {
		a.renderBooks(c, a.createFailure(c, err, "pages.books.toasts.duplicate"))
		return
	}
	flash(c, I18nWeb(c, "pages.books.toasts.added"))
	c.Redirect(http.StatusFound, "/books")
}

// createFailure picks the message for a failed create: duplicateKey for
// constraint errors, a generic one otherwise.
func (a *CatalogController) createFailure(c *gin.Context, err error, duplicateKey string) string {
	if kind, ok := service.KindOf(err); ok && kind == service.KindConstraint {
		return I18nWeb(c, duplicateKey)
	}
	logger.Error("create failed:", err)
	return I18nWeb(c, "somethingWentWrong")
}
