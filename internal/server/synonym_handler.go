package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thanwa/flashvoc/internal/synonym"
)

func (s *Server) handleGameStart(c echo.Context) error {
	game, err := s.deps.Games.Start(c.Request().Context(), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, game)
}

func (s *Server) handleGameNextRound(c echo.Context) error {
	round, err := s.deps.Games.NextRound(c.Request().Context(), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, round)
}

type submitRoundRequest struct {
	Scores []synonym.MeaningScore `json:"scores"`
}

func (s *Server) handleGameSubmitRound(c echo.Context) error {
	var req submitRoundRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := s.deps.Games.SubmitRound(c.Request().Context(), currentUser(c), req.Scores); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"recorded": true})
}

func (s *Server) handleGameEnd(c echo.Context) error {
	scores, err := s.deps.Games.End(c.Request().Context(), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"scores": scores})
}
