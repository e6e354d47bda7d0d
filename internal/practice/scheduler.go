// Package practice drives the flashcard loop: adaptive word selection,
// choice building and answer grading.
package practice

import (
	"context"
	"math/rand"

	"github.com/thanwa/flashvoc/internal/apperr"
	"github.com/thanwa/flashvoc/internal/mastery"
)

// Scheduler picks the next word to practice. Unpracticed words always win;
// otherwise lower levels get proportionally more mass.
type Scheduler struct {
	tracker mastery.Tracker
}

// NewScheduler creates a Scheduler.
func NewScheduler(tracker mastery.Tracker) *Scheduler {
	return &Scheduler{tracker: tracker}
}

// NextWord returns the next word for the user. An empty vocabulary maps
// to ErrNotFound.
func (s *Scheduler) NextWord(ctx context.Context, rng *rand.Rand, userID int64) (mastery.WordLevel, error) {
	levels, err := s.tracker.WordsWithLevels(ctx, userID)
	if err != nil {
		return mastery.WordLevel{}, err
	}
	if len(levels) == 0 {
		return mastery.WordLevel{}, apperr.ErrNotFound
	}
	return pickWord(rng, levels), nil
}

// pickWord prefers unpracticed words uniformly; among practiced words the
// weight of each is maxLevel - level + 1, so every word keeps nonzero mass.
func pickWord(rng *rand.Rand, levels []mastery.WordLevel) mastery.WordLevel {
	var unpracticed []mastery.WordLevel
	maxLevel := 0
	for _, wl := range levels {
		if wl.Level == 0 {
			unpracticed = append(unpracticed, wl)
		} else if wl.Level > maxLevel {
			maxLevel = wl.Level
		}
	}
	if len(unpracticed) > 0 {
		return unpracticed[rng.Intn(len(unpracticed))]
	}

	total := 0
	for _, wl := range levels {
		total += maxLevel - wl.Level + 1
	}
	pick := rng.Intn(total)
	for _, wl := range levels {
		pick -= maxLevel - wl.Level + 1
		if pick < 0 {
			return wl
		}
	}
	return levels[len(levels)-1]
}

// TimeLimit returns the answer time limit in seconds for a mastery level.
// Level 0 is unlimited; from level 3 on, the limit shrinks by 5 seconds
// per level down to a floor of 10.
func TimeLimit(level int) int {
	switch {
	case level <= 0:
		return 0
	case level <= 2:
		return 60
	default:
		limit := 60 - (level-2)*5
		if limit < 10 {
			limit = 10
		}
		return limit
	}
}
