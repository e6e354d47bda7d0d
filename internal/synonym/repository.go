package synonym

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/thanwa/flashvoc/internal/apperr"
)

// Repository persists games, round scores and the synonym pool.
type Repository interface {
	RandomPairs(ctx context.Context, n int) ([]Pair, error)
	StartGame(ctx context.Context, userID int64) (Game, error)
	RecordRoundScore(ctx context.Context, gameID int64, round int, meaning string, score float64) error
	GameHistory(ctx context.Context, userID int64, limit int) ([]GameSummary, error)
	GameDetails(ctx context.Context, gameID int64) ([]RoundScore, error)
}

// DBRepository is a Repository backed by MySQL.
type DBRepository struct {
	db *sqlx.DB
}

var _ Repository = (*DBRepository)(nil)

// NewDBRepository creates a DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// RandomPairs returns n random rows from the synonym pool. A pool smaller
// than n cannot fill a round and maps to ErrNotFound.
func (r *DBRepository) RandomPairs(ctx context.Context, n int) ([]Pair, error) {
	var pairs []Pair
	query := "SELECT id, category, meaning, words FROM synonyms ORDER BY RAND() LIMIT ?"
	if err := r.db.SelectContext(ctx, &pairs, query, n); err != nil {
		return nil, fmt.Errorf("select random synonym pairs: %w", err)
	}
	if len(pairs) < n {
		return nil, apperr.ErrNotFound
	}
	return pairs, nil
}

func (r *DBRepository) StartGame(ctx context.Context, userID int64) (Game, error) {
	result, err := r.db.ExecContext(ctx, "INSERT INTO synonym_games (user_id) VALUES (?)", userID)
	if err != nil {
		return Game{}, fmt.Errorf("insert synonym game: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Game{}, fmt.Errorf("synonym game id: %w", err)
	}

	var game Game
	query := "SELECT id, user_id, played_at FROM synonym_games WHERE id = ?"
	if err := r.db.GetContext(ctx, &game, query, id); err != nil {
		return Game{}, fmt.Errorf("select synonym game: %w", err)
	}
	return game, nil
}

func (r *DBRepository) RecordRoundScore(ctx context.Context, gameID int64, round int, meaning string, score float64) error {
	query := "INSERT INTO synonym_scores (game_id, subgame_order, meaning, score) VALUES (?, ?, ?, ?)"
	if _, err := r.db.ExecContext(ctx, query, gameID, round, meaning, score); err != nil {
		return fmt.Errorf("insert round score: %w", err)
	}
	return nil
}

func (r *DBRepository) GameHistory(ctx context.Context, userID int64, limit int) ([]GameSummary, error) {
	var games []GameSummary
	query := `SELECT g.id, g.played_at, COUNT(s.id) AS rounds, COALESCE(AVG(s.score), 0) AS average_score
		FROM synonym_games g
		LEFT JOIN synonym_scores s ON s.game_id = g.id
		WHERE g.user_id = ?
		GROUP BY g.id, g.played_at
		ORDER BY g.played_at DESC
		LIMIT ?`
	if err := r.db.SelectContext(ctx, &games, query, userID, limit); err != nil {
		return nil, fmt.Errorf("select game history: %w", err)
	}
	return games, nil
}

func (r *DBRepository) GameDetails(ctx context.Context, gameID int64) ([]RoundScore, error) {
	var scores []RoundScore
	query := `SELECT game_id, subgame_order, meaning, score
		FROM synonym_scores
		WHERE game_id = ?
		ORDER BY subgame_order, meaning`
	if err := r.db.SelectContext(ctx, &scores, query, gameID); err != nil {
		return nil, fmt.Errorf("select game details: %w", err)
	}
	return scores, nil
}
