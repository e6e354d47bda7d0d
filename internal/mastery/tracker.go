// Package mastery tracks per (user, word) proficiency levels. Levels are
// non-negative integers; a missing row means level 0. RecordAnswer is the
// only write path.
package mastery

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/thanwa/flashvoc/internal/database"
)

// WordLevel pairs a word with a user's current level for it.
type WordLevel struct {
	WordID        int64        `db:"word_id"`
	GroupID       int64        `db:"group_id"`
	Word          string       `db:"word"`
	PartOfSpeech  string       `db:"part_of_speech"`
	Level         int          `db:"level"`
	LastPracticed sql.NullTime `db:"last_practiced"`
}

// Tracker defines operations on mastery levels.
type Tracker interface {
	GetLevel(ctx context.Context, userID, wordID int64) (int, error)
	WordsWithLevels(ctx context.Context, userID int64) ([]WordLevel, error)
	RecordAnswer(ctx context.Context, userID, wordID int64, correct bool) (int, error)
}

// DBTracker implements Tracker using MySQL.
type DBTracker struct {
	db *sqlx.DB
}

// NewDBTracker creates a new DBTracker.
func NewDBTracker(db *sqlx.DB) *DBTracker {
	return &DBTracker{db: db}
}

// GetLevel returns the user's level for a word, 0 when never practiced.
func (t *DBTracker) GetLevel(ctx context.Context, userID, wordID int64) (int, error) {
	var level int
	err := t.db.GetContext(ctx, &level,
		"SELECT level FROM user_word_levels WHERE user_id = ? AND word_id = ?", userID, wordID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load level: %w", err)
	}
	return level, nil
}

// WordsWithLevels returns every word paired with the user's level,
// defaulting to 0 for words the user has never seen.
func (t *DBTracker) WordsWithLevels(ctx context.Context, userID int64) ([]WordLevel, error) {
	var levels []WordLevel
	err := t.db.SelectContext(ctx, &levels, `
		SELECT w.id AS word_id, w.group_id, w.word, w.part_of_speech,
		       COALESCE(uwl.level, 0) AS level, uwl.last_practiced
		FROM words w
		LEFT JOIN user_word_levels uwl ON w.id = uwl.word_id AND uwl.user_id = ?
		ORDER BY w.word`, userID)
	if err != nil {
		return nil, fmt.Errorf("load words with levels: %w", err)
	}
	return levels, nil
}

// RecordAnswer applies the level transition: +1 on a correct answer, -1
// floored at 0 on an incorrect one. The read-modify-write runs under a
// row lock so concurrent submits for the same (user, word) serialize; a
// failed transaction leaves the prior level intact.
func (t *DBTracker) RecordAnswer(ctx context.Context, userID, wordID int64, correct bool) (int, error) {
	var newLevel int
	err := database.RunInTx(ctx, t.db, func(ctx context.Context, tx *sqlx.Tx) error {
		var current int
		err := tx.GetContext(ctx, &current,
			"SELECT level FROM user_word_levels WHERE user_id = ? AND word_id = ? FOR UPDATE",
			userID, wordID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			newLevel = NextLevel(0, correct)
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO user_word_levels (user_id, word_id, level, last_practiced)
				VALUES (?, ?, ?, CURRENT_TIMESTAMP)`,
				userID, wordID, newLevel); err != nil {
				return fmt.Errorf("insert level: %w", err)
			}
			return nil
		case err != nil:
			return fmt.Errorf("lock level row: %w", err)
		}

		newLevel = NextLevel(current, correct)
		if _, err := tx.ExecContext(ctx, `
			UPDATE user_word_levels
			SET level = ?, last_practiced = CURRENT_TIMESTAMP
			WHERE user_id = ? AND word_id = ?`,
			newLevel, userID, wordID); err != nil {
			return fmt.Errorf("update level: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newLevel, nil
}

// NextLevel is the transition rule for a single answer.
func NextLevel(current int, correct bool) int {
	if correct {
		return current + 1
	}
	if current > 0 {
		return current - 1
	}
	return 0
}
