package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/thanwa/flashvoc/internal/progress"
	"github.com/thanwa/flashvoc/internal/synonym"
	"github.com/thanwa/flashvoc/internal/user"
	"github.com/thanwa/flashvoc/internal/vocab"
)

const historyLimit = 5

type dashboardResponse struct {
	User           user.User                   `json:"user"`
	Weekly         progress.WeeklyStats        `json:"weekly_stats"`
	RecentSessions []progress.Session          `json:"recent_sessions"`
	Groups         []progress.GroupPerformance `json:"group_performance"`
	RecentGames    []synonym.GameSummary       `json:"recent_games"`
}

// handleDashboard aggregates everything the dashboard page renders.
func (s *Server) handleDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	userID := currentUser(c)

	u, err := s.deps.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	weekly, err := s.deps.Recorder.WeeklyStats(ctx, userID, time.Now())
	if err != nil {
		return err
	}
	sessions, err := s.deps.Recorder.RecentSessions(ctx, userID, historyLimit)
	if err != nil {
		return err
	}
	groups, err := s.deps.Recorder.GroupPerformance(ctx, userID)
	if err != nil {
		return err
	}
	games, err := s.deps.History.GameHistory(ctx, userID, historyLimit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dashboardResponse{
		User:           u,
		Weekly:         weekly,
		RecentSessions: sessions,
		Groups:         groups,
		RecentGames:    games,
	})
}

type practicePageResponse struct {
	User   user.User     `json:"user"`
	Groups []vocab.Group `json:"groups"`
}

func (s *Server) handlePracticePage(c echo.Context) error {
	ctx := c.Request().Context()

	u, err := s.deps.Users.GetByID(ctx, currentUser(c))
	if err != nil {
		return err
	}
	groups, err := s.deps.Words.Groups(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, practicePageResponse{User: u, Groups: groups})
}

type synonymGamePageResponse struct {
	User  user.User             `json:"user"`
	Games []synonym.GameSummary `json:"recent_games"`
}

func (s *Server) handleSynonymGamePage(c echo.Context) error {
	ctx := c.Request().Context()
	userID := currentUser(c)

	u, err := s.deps.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	games, err := s.deps.History.GameHistory(ctx, userID, historyLimit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, synonymGamePageResponse{User: u, Games: games})
}
