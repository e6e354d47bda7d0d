package synonym

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanwa/flashvoc/internal/apperr"
	"github.com/thanwa/flashvoc/internal/vocab"
)

type fakeRepository struct {
	pairs   []Pair
	nextID  int64
	games   []Game
	scores  []RoundScore
	details []RoundScore
}

var _ Repository = (*fakeRepository)(nil)

func (f *fakeRepository) RandomPairs(_ context.Context, n int) ([]Pair, error) {
	if len(f.pairs) < n {
		return nil, apperr.ErrNotFound
	}
	return append([]Pair(nil), f.pairs[:n]...), nil
}

func (f *fakeRepository) StartGame(_ context.Context, userID int64) (Game, error) {
	f.nextID++
	game := Game{ID: f.nextID, UserID: userID, PlayedAt: time.Now()}
	f.games = append(f.games, game)
	return game, nil
}

func (f *fakeRepository) RecordRoundScore(_ context.Context, gameID int64, round int, meaning string, score float64) error {
	f.scores = append(f.scores, RoundScore{GameID: gameID, Round: round, Meaning: meaning, Score: score})
	return nil
}

func (f *fakeRepository) GameHistory(_ context.Context, _ int64, _ int) ([]GameSummary, error) {
	return nil, nil
}

func (f *fakeRepository) GameDetails(_ context.Context, gameID int64) ([]RoundScore, error) {
	var out []RoundScore
	for _, s := range f.scores {
		if s.GameID == gameID {
			out = append(out, s)
		}
	}
	return out, nil
}

func testPairs() []Pair {
	return []Pair{
		{ID: 1, Meaning: "very large", Words: vocab.StringList{"huge", "enormous", "gigantic"}},
		{ID: 2, Meaning: "very fast", Words: vocab.StringList{"rapid", "swift"}},
	}
}

func newTestService(repo Repository) *Service {
	return NewService(repo, rand.New(rand.NewSource(1)))
}

func TestService_RoundLifecycle(t *testing.T) {
	repo := &fakeRepository{pairs: testPairs()}
	service := newTestService(repo)
	ctx := context.Background()

	game, err := service.Start(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), game.UserID)

	round, err := service.NextRound(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, round.Number)
	require.Len(t, round.Pairs, 2)
	assert.Len(t, round.Pairs[0].Words, 2)
	assert.Len(t, round.Pairs[1].Words, 2)
	assert.Len(t, round.Words, 4)
	// every pooled word belongs to one of the two pairs
	for _, word := range round.Words {
		found := false
		for _, pair := range round.Pairs {
			for _, w := range pair.Words {
				if w == word {
					found = true
				}
			}
		}
		assert.True(t, found, "word %q not in any pair", word)
	}

	err = service.SubmitRound(ctx, 7, []MeaningScore{
		{Meaning: "very large", Score: 50},
		{Meaning: "very fast", Score: 100},
	})
	require.NoError(t, err)
	require.Len(t, repo.scores, 2)
	assert.Equal(t, RoundScore{GameID: game.ID, Round: 1, Meaning: "very large", Score: 50}, repo.scores[0])

	round, err = service.NextRound(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, round.Number)

	scores, err := service.End(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, scores, 2)

	_, err = service.NextRound(ctx, 7)
	assert.ErrorIs(t, err, apperr.ErrNoActiveGame)
}

func TestService_NoActiveGame(t *testing.T) {
	service := newTestService(&fakeRepository{pairs: testPairs()})
	ctx := context.Background()

	_, err := service.NextRound(ctx, 7)
	assert.ErrorIs(t, err, apperr.ErrNoActiveGame)

	err = service.SubmitRound(ctx, 7, []MeaningScore{{Meaning: "very large", Score: 50}})
	assert.ErrorIs(t, err, apperr.ErrNoActiveGame)

	_, err = service.End(ctx, 7)
	assert.ErrorIs(t, err, apperr.ErrNoActiveGame)
}

func TestService_SubmitBeforeFirstRound(t *testing.T) {
	repo := &fakeRepository{pairs: testPairs()}
	service := newTestService(repo)
	ctx := context.Background()

	_, err := service.Start(ctx, 7)
	require.NoError(t, err)

	err = service.SubmitRound(ctx, 7, []MeaningScore{{Meaning: "very large", Score: 50}})
	assert.ErrorIs(t, err, apperr.ErrNoActiveGame)
	assert.Empty(t, repo.scores)
}

func TestService_GameExpires(t *testing.T) {
	service := newTestService(&fakeRepository{pairs: testPairs()})
	ctx := context.Background()

	_, err := service.Start(ctx, 7)
	require.NoError(t, err)

	current := time.Now()
	service.now = func() time.Time { return current.Add(gameTTL + time.Minute) }

	_, err = service.NextRound(ctx, 7)
	assert.ErrorIs(t, err, apperr.ErrNoActiveGame)
}

func TestService_StartReplacesActiveGame(t *testing.T) {
	repo := &fakeRepository{pairs: testPairs()}
	service := newTestService(repo)
	ctx := context.Background()

	_, err := service.Start(ctx, 7)
	require.NoError(t, err)
	_, err = service.NextRound(ctx, 7)
	require.NoError(t, err)

	second, err := service.Start(ctx, 7)
	require.NoError(t, err)

	round, err := service.NextRound(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, round.Number, "round counter restarts with the new game")

	err = service.SubmitRound(ctx, 7, []MeaningScore{{Meaning: "very fast", Score: 100}})
	require.NoError(t, err)
	assert.Equal(t, second.ID, repo.scores[0].GameID)
}

func TestService_EmptyPool(t *testing.T) {
	service := newTestService(&fakeRepository{})
	ctx := context.Background()

	_, err := service.Start(ctx, 7)
	require.NoError(t, err)

	_, err = service.NextRound(ctx, 7)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
