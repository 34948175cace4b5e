// Package web assembles the libdesk HTTP server: gin engine, middleware,
// embedded templates and translations, controllers and background jobs.
package web

import (
	"context"
	"crypto/tls"
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/libdesk/libdesk/caching"
	"github.com/libdesk/libdesk/config"
	"github.com/libdesk/libdesk/database"
	"github.com/libdesk/libdesk/database/model"
	"github.com/libdesk/libdesk/logger"
	"github.com/libdesk/libdesk/util/common"
	"github.com/libdesk/libdesk/util/random"
	"github.com/libdesk/libdesk/web/controller"
	"github.com/libdesk/libdesk/web/job"
	"github.com/libdesk/libdesk/web/locale"
	"github.com/libdesk/libdesk/web/middleware"
	"github.com/libdesk/libdesk/web/network"
	"github.com/libdesk/libdesk/web/service"
	"github.com/libdesk/libdesk/web/session"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

//go:embed html
var htmlFS embed.FS

//go:embed translation/*
var i18nFS embed.FS

const shutdownTimeout = 10 * time.Second

// Server is the libdesk web server with its services and scheduled jobs.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	db           *gorm.DB
	cache        *caching.Cache
	sessionStore *session.Store

	userService      *service.UserService
	studentService   *service.StudentService
	bookService      *service.BookService
	issueService     *service.IssueService
	dashboardService *service.DashboardService

	cron *cron.Cron
}

// NewServer creates a server over the database opened by database.InitDB.
func NewServer() *Server {
	s := &Server{}
	s.initServices(database.GetDB())
	return s
}

func (s *Server) initServices(db *gorm.DB) {
	s.db = db
	s.cache = caching.NewCache(caching.DefaultTTL)
	s.userService = service.NewUserService(db)
	s.studentService = service.NewStudentService(db, s.cache)
	s.bookService = service.NewBookService(db, s.cache)
	s.issueService = service.NewIssueService(db, s.cache)
	s.dashboardService = service.NewDashboardService(db, s.cache)
}

// getHtmlTemplate parses every template under html/, partials included.
func (s *Server) getHtmlTemplate(funcMap template.FuncMap) (*template.Template, error) {
	t := template.New("").Funcs(funcMap)
	err := fs.WalkDir(htmlFS, "html", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			newT, err := t.ParseFS(htmlFS, path+"/*.html")
			if err != nil {
				// ignore folders without matches
				return nil
			}
			t = newT
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Server) newSessionStore() *session.Store {
	secret := config.GetSessionSecret()
	if secret == "" {
		logger.Warning("LIBDESK_SESSION_SECRET is not set, sessions will not survive a restart")
		secret = random.Seq(32)
	}
	store := session.NewStore(s.db, []byte(secret))
	store.Options(session.CookieOptions(config.GetSessionMaxAge() * 60))
	return store
}

// initRouter initializes gin, registers middleware, templates and
// controllers and returns the configured engine.
func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	if err := locale.InitLocalizer(i18nFS); err != nil {
		return nil, err
	}

	engine := gin.Default()
	engine.Use(gzip.Gzip(gzip.DefaultCompression))
	engine.Use(middleware.RequestLogger())
	if webDomain := config.GetWebDomain(); webDomain != "" {
		engine.Use(middleware.DomainValidatorMiddleware(webDomain))
	}

	s.sessionStore = s.newSessionStore()
	engine.Use(sessions.Sessions(session.CookieName, s.sessionStore))
	engine.Use(middleware.Identity())
	engine.Use(locale.LocalizerMiddleware())

	funcMap := template.FuncMap{"i18n": locale.I18n}
	engine.SetFuncMap(funcMap)
	tpl, err := s.getHtmlTemplate(funcMap)
	if err != nil {
		return nil, err
	}
	engine.SetHTMLTemplate(tpl)

	public := engine.Group("/")
	controller.NewIndexController(public, s.userService)

	admin := engine.Group("/", middleware.RoleRequired("/login", model.RoleAdmin))
	controller.NewAdminController(admin, s.dashboardService)
	controller.NewCatalogController(admin, s.studentService, s.bookService)
	controller.NewCirculationController(admin, s.issueService)
	controller.NewAPIController(admin, s.studentService, s.bookService, s.issueService, s.dashboardService)

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return engine, nil
}

// startTask schedules the background jobs.
func (s *Server) startTask() {
	if database.IsSQLite() {
		if _, err := s.cron.AddJob("@hourly", job.NewCheckpointJob()); err != nil {
			logger.Warning("add checkpoint job:", err)
		}
	}
	report := job.NewCirculationReportJob(s.dashboardService, s.issueService, 24*time.Hour)
	if _, err := s.cron.AddJob("@daily", report); err != nil {
		logger.Warning("add circulation report job:", err)
	}
	if _, err := s.cron.AddJob("@every 30m", job.NewSessionCleanupJob(s.sessionStore)); err != nil {
		logger.Warning("add session cleanup job:", err)
	}
}

// Start initializes and starts the web server.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	s.cron = cron.New(cron.WithLocation(time.Local))
	s.cron.Start()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(config.GetListen(), strconv.Itoa(config.GetPort()))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	certFile, keyFile := config.GetCertFile(), config.GetKeyFile()
	if certFile != "" || keyFile != "" {
		if cert, err := tls.LoadX509KeyPair(certFile, keyFile); err == nil {
			cfg := &tls.Config{Certificates: []tls.Certificate{cert}}
			listener = network.NewRedirectListener(listener)
			listener = tls.NewListener(listener, cfg)
			logger.Info("Web server running HTTPS on", listener.Addr())
		} else {
			logger.Error("Error loading certificates:", err)
			logger.Info("Web server running HTTP on", listener.Addr())
		}
	} else {
		logger.Info("Web server running HTTP on", listener.Addr())
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("web server stopped:", err)
		}
	}()

	s.startTask()
	return nil
}

// Stop shuts the HTTP server down and stops the cron scheduler.
func (s *Server) Stop() error {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	var err1, err2 error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err1 = s.httpServer.Shutdown(ctx)
	}
	if s.listener != nil {
		err2 = s.listener.Close()
		if errors.Is(err2, net.ErrClosed) {
			err2 = nil
		}
	}
	return common.Combine(err1, err2)
}
