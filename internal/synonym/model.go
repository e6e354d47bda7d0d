// Package synonym implements the synonym-matching game: random meaning/word
// pairs, per-round scoring and the game history.
package synonym

import (
	"time"

	"github.com/thanwa/flashvoc/internal/vocab"
)

// Pair is one meaning together with the words that share it.
type Pair struct {
	ID       int64            `db:"id" json:"id"`
	Category string           `db:"category" json:"category"`
	Meaning  string           `db:"meaning" json:"meaning"`
	Words    vocab.StringList `db:"words" json:"words"`
}

// Game is one play-through, recorded when it starts.
type Game struct {
	ID       int64     `db:"id" json:"id"`
	UserID   int64     `db:"user_id" json:"user_id"`
	PlayedAt time.Time `db:"played_at" json:"played_at"`
}

// RoundScore is the percentage score for one meaning of one round.
type RoundScore struct {
	GameID  int64   `db:"game_id" json:"game_id"`
	Round   int     `db:"subgame_order" json:"round"`
	Meaning string  `db:"meaning" json:"meaning"`
	Score   float64 `db:"score" json:"score"`
}

// GameSummary is one row of a user's game history.
type GameSummary struct {
	ID           int64     `db:"id" json:"id"`
	PlayedAt     time.Time `db:"played_at" json:"played_at"`
	Rounds       int       `db:"rounds" json:"rounds"`
	AverageScore float64   `db:"average_score" json:"average_score"`
}

// Round is the payload for one round: two meanings and their words pooled
// and shuffled. Each pair keeps its own words so the client can grade the
// matching.
type Round struct {
	Number int      `json:"round"`
	Pairs  []Pair   `json:"pairs"`
	Words  []string `json:"words"`
}
