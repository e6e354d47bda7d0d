// Package progress records practice sessions and per-answer attempts, and
// derives weekly statistics from the attempt log.
package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/thanwa/flashvoc/internal/apperr"
)

// Session is one practice run. EndTime stays null until the client closes it.
type Session struct {
	ID             int64        `db:"id" json:"id"`
	UserID         int64        `db:"user_id" json:"user_id"`
	StartTime      time.Time    `db:"start_time" json:"start_time"`
	EndTime        sql.NullTime `db:"end_time" json:"end_time,omitempty"`
	TotalScore     int          `db:"total_score" json:"total_score"`
	WordsAttempted int          `db:"words_attempted" json:"words_attempted"`
	WordsCorrect   int          `db:"words_correct" json:"words_correct"`
}

// Totals are the client-reported aggregates stored when a session closes.
type Totals struct {
	TotalScore     int
	WordsAttempted int
	WordsCorrect   int
}

// Attempt is one answered question. Rows are append-only.
type Attempt struct {
	UserID      int64
	WordID      int64
	SessionID   sql.NullInt64
	LevelAtTime int
	IsCorrect   bool
	TimeTaken   int
}

// WeeklyStats are derived from the attempt log for the current calendar
// week, recomputed on each request.
type WeeklyStats struct {
	WeekStart    time.Time `json:"week_start"`
	CorrectWords int       `json:"correct_words"`
	TotalWords   int       `json:"total_words"`
	AccuracyRate float64   `json:"accuracy_rate"`
	TotalScore   int       `json:"total_score"`
}

// GroupPerformance summarizes a user's attempts per word group.
type GroupPerformance struct {
	GroupID       int64        `db:"group_id" json:"group_id"`
	GroupName     string       `db:"group_name" json:"group_name"`
	TotalAttempts int          `db:"total_attempts" json:"total_words_practiced"`
	CorrectCount  int          `db:"correct_count" json:"correct_answers"`
	AccuracyRate  float64      `db:"-" json:"accuracy_rate"`
	LastPracticed sql.NullTime `db:"last_practiced" json:"last_practiced,omitempty"`
}

// Recorder defines session and attempt persistence.
type Recorder interface {
	OpenSession(ctx context.Context, userID int64) (Session, error)
	CloseSession(ctx context.Context, sessionID int64, totals Totals) (Session, error)
	RecordAttempt(ctx context.Context, attempt Attempt) error
	WeeklyStats(ctx context.Context, userID int64, now time.Time) (WeeklyStats, error)
	RecentSessions(ctx context.Context, userID int64, limit int) ([]Session, error)
	GroupPerformance(ctx context.Context, userID int64) ([]GroupPerformance, error)
}

// DBRecorder implements Recorder using MySQL.
type DBRecorder struct {
	db *sqlx.DB
}

// NewDBRecorder creates a new DBRecorder.
func NewDBRecorder(db *sqlx.DB) *DBRecorder {
	return &DBRecorder{db: db}
}

// OpenSession starts a new practice session.
func (r *DBRecorder) OpenSession(ctx context.Context, userID int64) (Session, error) {
	res, err := r.db.ExecContext(ctx, "INSERT INTO practice_sessions (user_id) VALUES (?)", userID)
	if err != nil {
		return Session{}, fmt.Errorf("insert session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Session{}, fmt.Errorf("session insert id: %w", err)
	}
	return r.session(ctx, id)
}

// CloseSession stamps the end time and stores the reported totals.
func (r *DBRecorder) CloseSession(ctx context.Context, sessionID int64, totals Totals) (Session, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE practice_sessions
		SET end_time = CURRENT_TIMESTAMP, total_score = ?, words_attempted = ?, words_correct = ?
		WHERE id = ?`,
		totals.TotalScore, totals.WordsAttempted, totals.WordsCorrect, sessionID)
	if err != nil {
		return Session{}, fmt.Errorf("close session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Session{}, fmt.Errorf("close session result: %w", err)
	}
	if affected == 0 {
		return Session{}, apperr.ErrNotFound
	}
	return r.session(ctx, sessionID)
}

func (r *DBRecorder) session(ctx context.Context, id int64) (Session, error) {
	var session Session
	if err := r.db.GetContext(ctx, &session, "SELECT * FROM practice_sessions WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, apperr.ErrNotFound
		}
		return Session{}, fmt.Errorf("load session %d: %w", id, err)
	}
	return session, nil
}

// RecordAttempt appends one answered question to the log.
func (r *DBRecorder) RecordAttempt(ctx context.Context, attempt Attempt) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_progress (user_id, word_id, session_id, level_at_time, is_correct, time_taken)
		VALUES (?, ?, ?, ?, ?, ?)`,
		attempt.UserID, attempt.WordID, attempt.SessionID,
		attempt.LevelAtTime, attempt.IsCorrect, attempt.TimeTaken)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

// WeeklyStats recomputes aggregates from attempts since the start of the
// current week. Cheap at expected volumes, and never stale.
func (r *DBRecorder) WeeklyStats(ctx context.Context, userID int64, now time.Time) (WeeklyStats, error) {
	weekStart := StartOfWeek(now)

	var row struct {
		CorrectWords int `db:"correct_words"`
		TotalWords   int `db:"total_words"`
		TotalScore   int `db:"total_score"`
	}
	err := r.db.GetContext(ctx, &row, `
		SELECT COALESCE(SUM(is_correct), 0) AS correct_words,
		       COUNT(*) AS total_words,
		       COALESCE(SUM(CASE WHEN is_correct THEN level_at_time + 1 ELSE 0 END), 0) AS total_score
		FROM user_progress
		WHERE user_id = ? AND attempted_at >= ?`, userID, weekStart)
	if err != nil {
		return WeeklyStats{}, fmt.Errorf("weekly stats: %w", err)
	}

	stats := WeeklyStats{
		WeekStart:    weekStart,
		CorrectWords: row.CorrectWords,
		TotalWords:   row.TotalWords,
		TotalScore:   row.TotalScore,
	}
	if stats.TotalWords > 0 {
		stats.AccuracyRate = float64(stats.CorrectWords) / float64(stats.TotalWords)
	}
	return stats, nil
}

// RecentSessions returns the user's latest sessions, newest first.
func (r *DBRecorder) RecentSessions(ctx context.Context, userID int64, limit int) ([]Session, error) {
	var sessions []Session
	err := r.db.SelectContext(ctx, &sessions, `
		SELECT * FROM practice_sessions
		WHERE user_id = ?
		ORDER BY start_time DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("load recent sessions: %w", err)
	}
	return sessions, nil
}

// GroupPerformance aggregates the attempt log per word group.
func (r *DBRecorder) GroupPerformance(ctx context.Context, userID int64) ([]GroupPerformance, error) {
	var rows []GroupPerformance
	err := r.db.SelectContext(ctx, &rows, `
		SELECT g.id AS group_id, g.name AS group_name,
		       COUNT(*) AS total_attempts,
		       COALESCE(SUM(up.is_correct), 0) AS correct_count,
		       MAX(up.attempted_at) AS last_practiced
		FROM user_progress up
		JOIN words w ON w.id = up.word_id
		JOIN word_groups g ON g.id = w.group_id
		WHERE up.user_id = ?
		GROUP BY g.id, g.name
		ORDER BY correct_count DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("group performance: %w", err)
	}
	for i := range rows {
		if rows[i].TotalAttempts > 0 {
			rows[i].AccuracyRate = float64(rows[i].CorrectCount) / float64(rows[i].TotalAttempts)
		}
	}
	return rows, nil
}

// StartOfWeek returns midnight on the Monday of now's week, in now's location.
func StartOfWeek(now time.Time) time.Time {
	offset := (int(now.Weekday()) + 6) % 7
	day := now.AddDate(0, 0, -offset)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
}
