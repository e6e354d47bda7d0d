// Package server exposes the HTTP surface: page payloads, auth flow and
// the practice and synonym-game APIs.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/thanwa/flashvoc/internal/auth"
	"github.com/thanwa/flashvoc/internal/config"
	"github.com/thanwa/flashvoc/internal/practice"
	"github.com/thanwa/flashvoc/internal/progress"
	"github.com/thanwa/flashvoc/internal/synonym"
	"github.com/thanwa/flashvoc/internal/user"
	"github.com/thanwa/flashvoc/internal/vocab"
)

// Dependencies are the services the HTTP layer delegates to.
type Dependencies struct {
	Google   *auth.GoogleAuth
	Sessions *auth.SessionManager
	Users    user.Repository
	Words    vocab.Repository
	Practice *practice.Service
	Games    *synonym.Service
	History  synonym.Repository
	Recorder progress.Recorder
}

// Server wires routes onto an echo instance.
type Server struct {
	echo   *echo.Echo
	cfg    *config.Config
	logger *logrus.Logger
	deps   Dependencies
}

// New creates the Server and registers all routes.
func New(cfg *config.Config, logger *logrus.Logger, deps Dependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		cfg:    cfg,
		logger: logger,
		deps:   deps,
	}
	e.HTTPErrorHandler = s.errorHandler
	e.Use(s.requestLogger())
	if len(cfg.Server.CORS.AllowedOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.Server.CORS.AllowedOrigins,
			AllowCredentials: true,
		}))
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	e := s.echo

	e.GET("/auth/login", s.handleLogin)
	e.POST("/auth/callback", s.handleCallback)
	e.GET("/auth/logout", s.handleLogout)

	pages := e.Group("", s.requireUser(true))
	pages.GET("/dashboard", s.handleDashboard)
	pages.GET("/practice", s.handlePracticePage)
	pages.GET("/synonym-game", s.handleSynonymGamePage)

	api := e.Group("/api", s.requireUser(false))
	api.POST("/start_session", s.handleStartSession)
	api.POST("/end_session", s.handleEndSession)
	api.GET("/next_word", s.handleNextWord)
	api.POST("/submit_answer", s.handleSubmitAnswer)
	api.POST("/synonym-game/start", s.handleGameStart)
	api.GET("/synonym-game/next-round", s.handleGameNextRound)
	api.POST("/synonym-game/submit-round", s.handleGameSubmitRound)
	api.POST("/synonym-game/end", s.handleGameEnd)
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	s.logger.WithField("addr", addr).Info("starting http server")
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
