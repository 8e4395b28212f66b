// Package api wires the HTTP surface of the ledger book.
package api

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/netlink-io/khatabook/internal/api/handler"
	"github.com/netlink-io/khatabook/internal/auth"
	"github.com/netlink-io/khatabook/internal/config"
	"github.com/netlink-io/khatabook/internal/ledger"
	"github.com/netlink-io/khatabook/internal/report"
	"github.com/netlink-io/khatabook/internal/web"
)

type Server struct {
	cfg       *config.Config
	ginEngine *gin.Engine
	handler   *handler.Handler
}

func New(cfg *config.Config, authProvider *auth.Provider, ledgerSvc *ledger.Service) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	h := handler.New(authProvider, ledgerSvc, report.New(cfg.Report), cfg.Report.Currency)

	return &Server{
		cfg:       cfg,
		ginEngine: gin.Default(),
		handler:   h,
	}, nil
}

func (s *Server) setupSession() {
	store := cookie.NewStore([]byte(s.cfg.SessionKey))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   s.cfg.SessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.ginEngine.Use(sessions.Sessions("khatabook_session", store))
}

func (s *Server) setupRoutes() {
	s.ginEngine.Use(gzip.Gzip(gzip.DefaultCompression))
	s.setupSession()
	s.ginEngine.SetHTMLTemplate(web.Templates())

	s.ginEngine.GET("/", s.handler.RegisterPage)
	s.ginEngine.POST("/", s.handler.Register)
	s.ginEngine.GET("/register", s.handler.RegisterPage)
	s.ginEngine.POST("/register", s.handler.Register)
	s.ginEngine.GET("/login", s.handler.LoginPage)
	s.ginEngine.POST("/login", s.handler.Login)
	s.ginEngine.GET("/logout", s.handler.Logout)

	protected := s.ginEngine.Group("/")
	protected.Use(auth.RequireSession())

	protected.GET("/dashboard", s.handler.Dashboard)
	protected.POST("/dashboard", s.handler.AddEntry)
	protected.GET("/download_pdf", s.handler.DownloadPDF)
	protected.GET("/delete/:id", s.handler.Delete)
}

func (s *Server) Run() error {
	s.setupRoutes()

	return s.ginEngine.Run(s.cfg.Listen)
}
