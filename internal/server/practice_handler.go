package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thanwa/flashvoc/internal/practice"
	"github.com/thanwa/flashvoc/internal/progress"
)

func (s *Server) handleStartSession(c echo.Context) error {
	session, err := s.deps.Practice.StartSession(c.Request().Context(), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, session)
}

type endSessionRequest struct {
	TotalScore     int `json:"total_score"`
	WordsAttempted int `json:"words_attempted"`
	WordsCorrect   int `json:"words_correct"`
}

func (s *Server) handleEndSession(c echo.Context) error {
	var req endSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	session, err := s.deps.Practice.EndSession(c.Request().Context(), currentUser(c), progress.Totals{
		TotalScore:     req.TotalScore,
		WordsAttempted: req.WordsAttempted,
		WordsCorrect:   req.WordsCorrect,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, session)
}

func (s *Server) handleNextWord(c echo.Context) error {
	question, err := s.deps.Practice.NextWord(c.Request().Context(), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, question)
}

func (s *Server) handleSubmitAnswer(c echo.Context) error {
	var req practice.SubmitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := s.deps.Practice.SubmitAnswer(c.Request().Context(), currentUser(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
