package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schemaStatements create all tables used by the service. Each statement is
// idempotent so Migrate can run on every start.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS word_groups (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS words (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		group_id BIGINT NOT NULL,
		word VARCHAR(255) NOT NULL,
		part_of_speech VARCHAR(64) NOT NULL DEFAULT '',
		meaning_en TEXT NOT NULL,
		meaning_th TEXT NOT NULL,
		examples JSON,
		synonyms JSON,
		antonyms JSON,
		word_forms JSON,
		difficulty VARCHAR(32) NOT NULL DEFAULT '',
		frequency VARCHAR(32) NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (group_id) REFERENCES word_groups(id)
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		google_id VARCHAR(255) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL,
		given_name VARCHAR(255) NOT NULL DEFAULT '',
		family_name VARCHAR(255) NOT NULL DEFAULT '',
		name VARCHAR(255) NOT NULL DEFAULT '',
		picture_url TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		last_login TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS user_word_levels (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		word_id BIGINT NOT NULL,
		level INT NOT NULL DEFAULT 0,
		last_practiced TIMESTAMP NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uniq_user_word (user_id, word_id),
		FOREIGN KEY (user_id) REFERENCES users(id),
		FOREIGN KEY (word_id) REFERENCES words(id)
	)`,
	`CREATE TABLE IF NOT EXISTS practice_sessions (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		start_time TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		end_time TIMESTAMP NULL,
		total_score INT NOT NULL DEFAULT 0,
		words_attempted INT NOT NULL DEFAULT 0,
		words_correct INT NOT NULL DEFAULT 0,
		FOREIGN KEY (user_id) REFERENCES users(id)
	)`,
	`CREATE TABLE IF NOT EXISTS user_progress (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		word_id BIGINT NOT NULL,
		session_id BIGINT NULL,
		level_at_time INT NOT NULL,
		is_correct BOOLEAN NOT NULL,
		time_taken INT NOT NULL DEFAULT 0,
		attempted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id),
		FOREIGN KEY (word_id) REFERENCES words(id)
	)`,
	`CREATE TABLE IF NOT EXISTS synonyms (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		category VARCHAR(255) NOT NULL DEFAULT '',
		meaning VARCHAR(255) NOT NULL,
		words JSON
	)`,
	`CREATE TABLE IF NOT EXISTS synonym_games (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		played_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id)
	)`,
	`CREATE TABLE IF NOT EXISTS synonym_scores (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		game_id BIGINT NOT NULL,
		subgame_order INT NOT NULL,
		meaning VARCHAR(255) NOT NULL,
		score DECIMAL(5,2) NOT NULL,
		FOREIGN KEY (game_id) REFERENCES synonym_games(id)
	)`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}
	return nil
}
