package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// handleLogin returns the Google consent URL for the sign-in page.
func (s *Server) handleLogin(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"login_url": s.deps.Google.LoginURL(uuid.NewString()),
	})
}

// handleCallback verifies the ID token posted by the Google sign-in
// widget, creates the user on first login and issues the session cookie.
func (s *Server) handleCallback(c echo.Context) error {
	identity, err := s.deps.Google.VerifyCredential(c.Request().Context(), c.FormValue("credential"))
	if err != nil {
		return err
	}

	u, err := s.deps.Users.GetOrCreate(c.Request().Context(), identity)
	if err != nil {
		return err
	}

	token, err := s.deps.Sessions.Issue(u.ID, u.Name, time.Now())
	if err != nil {
		return err
	}
	c.SetCookie(s.deps.Sessions.Cookie(token))

	s.logger.WithField("user_id", u.ID).Info("user logged in")
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (s *Server) handleLogout(c echo.Context) error {
	c.SetCookie(s.deps.Sessions.ClearCookie())
	return c.Redirect(http.StatusFound, "/auth/login")
}
