package synonym

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanwa/flashvoc/internal/apperr"
	"github.com/thanwa/flashvoc/internal/vocab"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.ExpectClose()
		assert.NoError(t, db.Close())
	})
	return sqlx.NewDb(db, "mysql"), mock
}

func TestDBRepository_RandomPairs(t *testing.T) {
	t.Run("enough pairs", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT id, category, meaning, words FROM synonyms ORDER BY RAND\\(\\) LIMIT \\?").
			WithArgs(2).
			WillReturnRows(sqlmock.NewRows([]string{"id", "category", "meaning", "words"}).
				AddRow(1, "size", "very large", []byte(`["huge","enormous"]`)).
				AddRow(2, "speed", "very fast", []byte(`["rapid","swift"]`)))

		pairs, err := NewDBRepository(db).RandomPairs(context.Background(), 2)
		require.NoError(t, err)
		require.Len(t, pairs, 2)
		assert.Equal(t, "very large", pairs[0].Meaning)
		assert.Equal(t, vocab.StringList{"huge", "enormous"}, pairs[0].Words)
	})

	t.Run("pool too small", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT id, category, meaning, words FROM synonyms ORDER BY RAND\\(\\) LIMIT \\?").
			WithArgs(2).
			WillReturnRows(sqlmock.NewRows([]string{"id", "category", "meaning", "words"}).
				AddRow(1, "size", "very large", []byte(`["huge"]`)))

		_, err := NewDBRepository(db).RandomPairs(context.Background(), 2)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestDBRepository_StartGame(t *testing.T) {
	db, mock := newMockDB(t)
	playedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO synonym_games \\(user_id\\) VALUES \\(\\?\\)").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery("SELECT id, user_id, played_at FROM synonym_games WHERE id = \\?").
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "played_at"}).
			AddRow(11, 7, playedAt))

	game, err := NewDBRepository(db).StartGame(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, Game{ID: 11, UserID: 7, PlayedAt: playedAt}, game)
}

func TestDBRepository_RecordRoundScore(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("INSERT INTO synonym_scores \\(game_id, subgame_order, meaning, score\\) VALUES \\(\\?, \\?, \\?, \\?\\)").
		WithArgs(int64(11), 1, "very large", 50.0).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := NewDBRepository(db).RecordRoundScore(context.Background(), 11, 1, "very large", 50.0)
	assert.NoError(t, err)
}

func TestDBRepository_GameHistory(t *testing.T) {
	db, mock := newMockDB(t)
	playedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT g.id, g.played_at, COUNT\\(s.id\\) AS rounds, COALESCE\\(AVG\\(s.score\\), 0\\) AS average_score").
		WithArgs(int64(7), 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "played_at", "rounds", "average_score"}).
			AddRow(11, playedAt, 4, 75.0))

	games, err := NewDBRepository(db).GameHistory(context.Background(), 7, 10)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, GameSummary{ID: 11, PlayedAt: playedAt, Rounds: 4, AverageScore: 75.0}, games[0])
}

func TestDBRepository_GameDetails(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT game_id, subgame_order, meaning, score").
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"game_id", "subgame_order", "meaning", "score"}).
			AddRow(11, 1, "very fast", 100.0).
			AddRow(11, 1, "very large", 50.0))

	scores, err := NewDBRepository(db).GameDetails(context.Background(), 11)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, RoundScore{GameID: 11, Round: 1, Meaning: "very fast", Score: 100.0}, scores[0])
}
