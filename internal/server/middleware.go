package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/thanwa/flashvoc/internal/apperr"
	"github.com/thanwa/flashvoc/internal/auth"
)

const userIDKey = "flashvoc.user_id"

// requireUser resolves the session cookie to a user id. Page routes
// redirect to the login page when the session is missing or invalid; API
// routes surface ErrNotAuthenticated instead.
func (s *Server) requireUser(redirect bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(auth.CookieName)
			if err != nil {
				return s.unauthenticated(c, redirect)
			}
			userID, err := s.deps.Sessions.Verify(cookie.Value)
			if err != nil {
				return s.unauthenticated(c, redirect)
			}
			c.Set(userIDKey, userID)
			return next(c)
		}
	}
}

func (s *Server) unauthenticated(c echo.Context, redirect bool) error {
	if redirect {
		return c.Redirect(http.StatusFound, "/auth/login")
	}
	return apperr.ErrNotAuthenticated
}

// currentUser returns the user id set by requireUser.
func currentUser(c echo.Context) int64 {
	id, _ := c.Get(userIDKey).(int64)
	return id
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			entry := s.logger.WithFields(logrus.Fields{
				"method":  c.Request().Method,
				"path":    c.Request().URL.Path,
				"status":  c.Response().Status,
				"took_ms": time.Since(start).Milliseconds(),
			})
			if err != nil {
				entry.WithError(err).Warn("request failed")
			} else {
				entry.Debug("request served")
			}
			return err
		}
	}
}

// errorHandler maps domain errors to HTTP statuses and renders a JSON body.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"
	switch {
	case errors.Is(err, apperr.ErrNotAuthenticated):
		status, message = http.StatusUnauthorized, "not authenticated"
	case errors.Is(err, apperr.ErrInvalidCredential):
		status, message = http.StatusUnauthorized, "invalid credential"
	case errors.Is(err, apperr.ErrNoActiveSession):
		status, message = http.StatusBadRequest, "no active session"
	case errors.Is(err, apperr.ErrNoActiveWord):
		status, message = http.StatusBadRequest, "no active word"
	case errors.Is(err, apperr.ErrNoActiveGame):
		status, message = http.StatusBadRequest, "no active game"
	case errors.Is(err, apperr.ErrNotFound):
		status, message = http.StatusNotFound, "not found"
	default:
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Code
			if msg, ok := httpErr.Message.(string); ok {
				message = msg
			}
		} else {
			s.logger.WithError(err).Error("unhandled error")
		}
	}

	if jsonErr := c.JSON(status, map[string]string{"error": message}); jsonErr != nil {
		s.logger.WithError(jsonErr).Error("write error response")
	}
}
