package vocab

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanwa/flashvoc/internal/apperr"
)

func newMockRepo(t *testing.T) (*DBRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDBRepository(sqlx.NewDb(db, "mysql")), mock
}

func TestDBRepository_GetOrCreateGroup(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantID    int64
		wantErr   bool
	}{
		{
			name: "returns existing group",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM word_groups WHERE name = \\?").
					WithArgs("Animals").
					WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}).AddRow(7, "Animals", now))
			},
			wantID: 7,
		},
		{
			name: "creates missing group",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM word_groups WHERE name = \\?").
					WithArgs("Animals").
					WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}))
				mock.ExpectExec("INSERT INTO word_groups").
					WithArgs("Animals").
					WillReturnResult(sqlmock.NewResult(3, 1))
				mock.ExpectQuery("SELECT \\* FROM word_groups WHERE id = \\?").
					WithArgs(int64(3)).
					WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}).AddRow(3, "Animals", now))
			},
			wantID: 3,
		},
		{
			name: "falls back to existing row on duplicate insert",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM word_groups WHERE name = \\?").
					WithArgs("Animals").
					WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}))
				mock.ExpectExec("INSERT INTO word_groups").
					WithArgs("Animals").
					WillReturnError(fmt.Errorf("Error 1062: Duplicate entry"))
				mock.ExpectQuery("SELECT \\* FROM word_groups WHERE name = \\?").
					WithArgs("Animals").
					WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}).AddRow(9, "Animals", now))
			},
			wantID: 9,
		},
		{
			name: "db error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM word_groups WHERE name = \\?").
					WithArgs("Animals").
					WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			tt.setupMock(mock)

			got, err := repo.GetOrCreateGroup(context.Background(), "Animals")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
			assert.Equal(t, "Animals", got.Name)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_CreateWords(t *testing.T) {
	t.Run("inserts all rows in one statement", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO words \(group_id, word, part_of_speech, meaning_en, meaning_th, examples, synonyms, antonyms, word_forms, difficulty, frequency\) VALUES \(\?, \?, \?, \?, \?, \?, \?, \?, \?, \?, \?\), \(\?, \?, \?, \?, \?, \?, \?, \?, \?, \?, \?\)`).
			WillReturnResult(sqlmock.NewResult(42, 2))
		mock.ExpectCommit()

		words := []Word{
			{GroupID: 1, Word: "cat", PartOfSpeech: "noun",
				MeaningEN: "a small domesticated feline", MeaningTH: "แมว",
				Synonyms: StringList{"feline"}},
			{GroupID: 1, Word: "dog", PartOfSpeech: "noun",
				MeaningEN: "a loyal canine", MeaningTH: "สุนัข"},
		}
		require.NoError(t, repo.CreateWords(context.Background(), words))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		require.NoError(t, repo.CreateWords(context.Background(), nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on insert failure", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO words").
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := repo.CreateWords(context.Background(), []Word{{GroupID: 1, Word: "cat"}})
		assert.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDBRepository_GetWord(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("returns word with list columns", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		rows := sqlmock.NewRows([]string{
			"id", "group_id", "word", "part_of_speech", "meaning_en", "meaning_th",
			"examples", "synonyms", "antonyms", "word_forms", "difficulty", "frequency", "created_at",
		}).AddRow(
			5, 1, "cat", "noun", "a small domesticated feline", "แมว",
			`["The cat sat."]`, `["feline","kitty"]`, `[]`, `["cats"]`, "easy", "high", now,
		)
		mock.ExpectQuery("SELECT \\* FROM words WHERE id = \\?").WithArgs(int64(5)).WillReturnRows(rows)

		got, err := repo.GetWord(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, "cat", got.Word)
		assert.Equal(t, StringList{"feline", "kitty"}, got.Synonyms)
		assert.Empty(t, got.Antonyms)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing word maps to ErrNotFound", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SELECT \\* FROM words WHERE id = \\?").
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetWord(context.Background(), 99)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestDBRepository_WordsByGroup(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "group_id", "word", "part_of_speech", "meaning_en", "meaning_th",
		"examples", "synonyms", "antonyms", "word_forms", "difficulty", "frequency", "created_at",
	}).
		AddRow(1, 2, "bird", "noun", "a feathered animal", "นก", `[]`, `[]`, `[]`, `[]`, "", "", now).
		AddRow(2, 2, "cat", "noun", "a small domesticated feline", "แมว", `[]`, `[]`, `[]`, `[]`, "", "", now)
	mock.ExpectQuery("SELECT \\* FROM words WHERE group_id = \\? ORDER BY word").
		WithArgs(int64(2)).
		WillReturnRows(rows)

	got, err := repo.WordsByGroup(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "bird", got[0].Word)
	assert.Equal(t, "cat", got[1].Word)
	assert.NoError(t, mock.ExpectationsWereMet())
}
