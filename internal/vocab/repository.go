package vocab

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/thanwa/flashvoc/internal/apperr"
	"github.com/thanwa/flashvoc/internal/database"
)

// Repository defines data access for groups and words.
type Repository interface {
	GetOrCreateGroup(ctx context.Context, name string) (Group, error)
	Groups(ctx context.Context) ([]Group, error)
	CreateWords(ctx context.Context, words []Word) error
	GetWord(ctx context.Context, id int64) (Word, error)
	WordsByGroup(ctx context.Context, groupID int64) ([]Word, error)
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// GetOrCreateGroup returns the group with the given name, creating it on
// first use. Import runs may race on the unique name; the duplicate-key
// path falls back to the existing row.
func (r *DBRepository) GetOrCreateGroup(ctx context.Context, name string) (Group, error) {
	group, err := r.groupByName(ctx, name)
	if err == nil {
		return group, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Group{}, fmt.Errorf("find group %q: %w", name, err)
	}

	res, err := r.db.ExecContext(ctx, "INSERT INTO word_groups (name) VALUES (?)", name)
	if err != nil {
		// Another request may have created it in between.
		if group, selErr := r.groupByName(ctx, name); selErr == nil {
			return group, nil
		}
		return Group{}, fmt.Errorf("create group %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Group{}, fmt.Errorf("group insert id: %w", err)
	}

	var created Group
	if err := r.db.GetContext(ctx, &created, "SELECT * FROM word_groups WHERE id = ?", id); err != nil {
		return Group{}, fmt.Errorf("load created group: %w", err)
	}
	return created, nil
}

func (r *DBRepository) groupByName(ctx context.Context, name string) (Group, error) {
	var group Group
	err := r.db.GetContext(ctx, &group, "SELECT * FROM word_groups WHERE name = ?", name)
	return group, err
}

// Groups returns all groups ordered by name.
func (r *DBRepository) Groups(ctx context.Context) ([]Group, error) {
	var groups []Group
	if err := r.db.SelectContext(ctx, &groups, "SELECT * FROM word_groups ORDER BY name"); err != nil {
		return nil, fmt.Errorf("load groups: %w", err)
	}
	return groups, nil
}

// CreateWords inserts a batch of words in one multi-row statement. All
// rows land or none do.
func (r *DBRepository) CreateWords(ctx context.Context, words []Word) error {
	if len(words) == 0 {
		return nil
	}

	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		columns := []string{
			"group_id", "word", "part_of_speech", "meaning_en", "meaning_th",
			"examples", "synonyms", "antonyms", "word_forms", "difficulty", "frequency",
		}
		query := database.BuildMultiRowInsert("words", columns, len(words))

		var args []interface{}
		for _, w := range words {
			args = append(args, w.GroupID, w.Word, w.PartOfSpeech, w.MeaningEN, w.MeaningTH,
				w.Examples, w.Synonyms, w.Antonyms, w.WordForms, w.Difficulty, w.Frequency)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert %d words: %w", len(words), err)
		}
		return nil
	})
}

// GetWord returns a word by ID.
func (r *DBRepository) GetWord(ctx context.Context, id int64) (Word, error) {
	var word Word
	if err := r.db.GetContext(ctx, &word, "SELECT * FROM words WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Word{}, apperr.ErrNotFound
		}
		return Word{}, fmt.Errorf("load word %d: %w", id, err)
	}
	return word, nil
}

// WordsByGroup returns all words in a group ordered by surface form.
func (r *DBRepository) WordsByGroup(ctx context.Context, groupID int64) ([]Word, error) {
	var words []Word
	if err := r.db.SelectContext(ctx, &words, "SELECT * FROM words WHERE group_id = ? ORDER BY word", groupID); err != nil {
		return nil, fmt.Errorf("load words in group %d: %w", groupID, err)
	}
	return words, nil
}
