package vocab

import (
	"context"
	"fmt"
	"math/rand"
)

// DistractorSelector picks plausible wrong answers for a target word.
// Distractors always come from the target's own group so they stay
// topically plausible.
type DistractorSelector struct {
	repo Repository
}

// NewDistractorSelector creates a new DistractorSelector.
func NewDistractorSelector(repo Repository) *DistractorSelector {
	return &DistractorSelector{repo: repo}
}

// Select returns up to count distractors for the target word.
func (s *DistractorSelector) Select(ctx context.Context, rng *rand.Rand, target Word, count int) ([]Word, error) {
	groupWords, err := s.repo.WordsByGroup(ctx, target.GroupID)
	if err != nil {
		return nil, fmt.Errorf("distractor candidates: %w", err)
	}
	return SampleDistractors(rng, target, groupWords, count), nil
}

// SampleDistractors samples distractors from the target's group-mates.
// Candidates sharing the target's part of speech are preferred when there
// are enough of them; otherwise the whole group (minus the target) is
// used. Returns fewer than count when the group is small, and an empty
// slice when the target has no group-mates at all.
func SampleDistractors(rng *rand.Rand, target Word, groupWords []Word, count int) []Word {
	candidates := make([]Word, 0, len(groupWords))
	for _, w := range groupWords {
		if w.ID != target.ID {
			candidates = append(candidates, w)
		}
	}

	if target.PartOfSpeech != "" {
		samePOS := make([]Word, 0, len(candidates))
		for _, w := range candidates {
			if w.PartOfSpeech == target.PartOfSpeech {
				samePOS = append(samePOS, w)
			}
		}
		if len(samePOS) >= count {
			candidates = samePOS
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	// Uniform sample without replacement.
	shuffled := make([]Word, len(candidates))
	copy(shuffled, candidates)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if count > len(shuffled) {
		count = len(shuffled)
	}
	return shuffled[:count]
}
