package synonym

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/thanwa/flashvoc/internal/apperr"
)

const (
	pairsPerRound = 2
	wordsPerPair  = 2
	gameTTL       = 30 * time.Minute
)

type activeGame struct {
	gameID     int64
	round      int
	lastActive time.Time
}

// MeaningScore is one meaning's percentage score within a round.
type MeaningScore struct {
	Meaning string  `json:"meaning"`
	Score   float64 `json:"score"`
}

// Service runs games on top of a Repository. The active game per user is
// held in memory; a game idle for longer than gameTTL is discarded.
type Service struct {
	repo Repository

	mu     sync.Mutex
	rng    *rand.Rand
	active map[int64]*activeGame
	now    func() time.Time
}

// NewService creates a Service.
func NewService(repo Repository, rng *rand.Rand) *Service {
	return &Service{
		repo:   repo,
		rng:    rng,
		active: map[int64]*activeGame{},
		now:    time.Now,
	}
}

// Start records a new game and makes it the user's active game, replacing
// any game still in progress.
func (s *Service) Start(ctx context.Context, userID int64) (Game, error) {
	game, err := s.repo.StartGame(ctx, userID)
	if err != nil {
		return Game{}, err
	}

	s.mu.Lock()
	s.active[userID] = &activeGame{gameID: game.ID, lastActive: s.now()}
	s.mu.Unlock()
	return game, nil
}

// NextRound draws two random pairs, trims each to two words and returns
// the pooled words shuffled.
func (s *Service) NextRound(ctx context.Context, userID int64) (Round, error) {
	s.mu.Lock()
	game, ok := s.lookupLocked(userID)
	s.mu.Unlock()
	if !ok {
		return Round{}, apperr.ErrNoActiveGame
	}

	pairs, err := s.repo.RandomPairs(ctx, pairsPerRound)
	if err != nil {
		return Round{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	round := Round{Pairs: make([]Pair, 0, len(pairs))}
	for _, pair := range pairs {
		pair.Words = s.sampleLocked(pair.Words, wordsPerPair)
		round.Pairs = append(round.Pairs, pair)
		round.Words = append(round.Words, pair.Words...)
	}
	s.rng.Shuffle(len(round.Words), func(i, j int) {
		round.Words[i], round.Words[j] = round.Words[j], round.Words[i]
	})

	game.round++
	game.lastActive = s.now()
	round.Number = game.round
	return round, nil
}

// SubmitRound records the per-meaning scores for the current round.
func (s *Service) SubmitRound(ctx context.Context, userID int64, scores []MeaningScore) error {
	s.mu.Lock()
	game, ok := s.lookupLocked(userID)
	var gameID int64
	var round int
	if ok {
		game.lastActive = s.now()
		gameID, round = game.gameID, game.round
	}
	s.mu.Unlock()
	if !ok {
		return apperr.ErrNoActiveGame
	}
	if round == 0 {
		// No round has been dealt yet, so there is nothing to score.
		return apperr.ErrNoActiveGame
	}

	for _, score := range scores {
		if err := s.repo.RecordRoundScore(ctx, gameID, round, score.Meaning, score.Score); err != nil {
			return err
		}
	}
	return nil
}

// End closes the user's active game and returns its recorded scores.
func (s *Service) End(ctx context.Context, userID int64) ([]RoundScore, error) {
	s.mu.Lock()
	game, ok := s.lookupLocked(userID)
	if ok {
		delete(s.active, userID)
	}
	s.mu.Unlock()
	if !ok {
		return nil, apperr.ErrNoActiveGame
	}
	return s.repo.GameDetails(ctx, game.gameID)
}

// lookupLocked returns the user's active game, dropping it if it expired.
// Callers hold s.mu.
func (s *Service) lookupLocked(userID int64) (*activeGame, bool) {
	game, ok := s.active[userID]
	if !ok {
		return nil, false
	}
	if s.now().Sub(game.lastActive) > gameTTL {
		delete(s.active, userID)
		return nil, false
	}
	return game, true
}

// sampleLocked returns up to n words drawn without replacement. Callers
// hold s.mu.
func (s *Service) sampleLocked(words []string, n int) []string {
	picked := make([]string, len(words))
	copy(picked, words)
	s.rng.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	if len(picked) > n {
		picked = picked[:n]
	}
	return picked
}
