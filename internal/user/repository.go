// Package user stores accounts keyed by their external identity.
package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/thanwa/flashvoc/internal/apperr"
)

// User is an account created lazily on first verified login.
type User struct {
	ID         int64     `db:"id" json:"id"`
	GoogleID   string    `db:"google_id" json:"google_id"`
	Email      string    `db:"email" json:"email"`
	GivenName  string    `db:"given_name" json:"given_name"`
	FamilyName string    `db:"family_name" json:"family_name"`
	Name       string    `db:"name" json:"name"`
	PictureURL string    `db:"picture_url" json:"picture_url"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	LastLogin  time.Time `db:"last_login" json:"last_login"`
}

// Identity is a verified external identity, as returned by the provider.
type Identity struct {
	ExternalID string
	Email      string
	GivenName  string
	FamilyName string
	Name       string
	PictureURL string
}

// Repository defines account persistence.
type Repository interface {
	GetOrCreate(ctx context.Context, identity Identity) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// GetOrCreate returns the account for a verified identity, creating it on
// first login. Existing accounts only get their last_login touched; profile
// fields stay as imported at signup.
func (r *DBRepository) GetOrCreate(ctx context.Context, identity Identity) (User, error) {
	existing, err := r.byGoogleID(ctx, identity.ExternalID)
	if err == nil {
		if _, err := r.db.ExecContext(ctx,
			"UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE google_id = ?",
			identity.ExternalID); err != nil {
			return User{}, fmt.Errorf("touch last login: %w", err)
		}
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("find user: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (google_id, email, given_name, family_name, name, picture_url)
		VALUES (?, ?, ?, ?, ?, ?)`,
		identity.ExternalID, identity.Email, identity.GivenName,
		identity.FamilyName, identity.Name, identity.PictureURL)
	if err != nil {
		// A concurrent first login may have created the row in between.
		if existing, selErr := r.byGoogleID(ctx, identity.ExternalID); selErr == nil {
			return existing, nil
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return User{}, fmt.Errorf("user insert id: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID returns a user by primary key.
func (r *DBRepository) GetByID(ctx context.Context, id int64) (User, error) {
	var u User
	if err := r.db.GetContext(ctx, &u, "SELECT * FROM users WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, apperr.ErrNotFound
		}
		return User{}, fmt.Errorf("load user %d: %w", id, err)
	}
	return u, nil
}

func (r *DBRepository) byGoogleID(ctx context.Context, googleID string) (User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, "SELECT * FROM users WHERE google_id = ?", googleID)
	return u, err
}
