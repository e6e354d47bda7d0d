package practice

import (
	"sync"
	"time"
)

// pendingTTL bounds how long an unanswered question stays valid.
const pendingTTL = 10 * time.Minute

// pendingQuestion is the server-side half of an outstanding question: the
// correct index never leaves the process.
type pendingQuestion struct {
	token        string
	wordID       int64
	level        int
	correctIndex int
	answer       Choice
	createdAt    time.Time
}

// pendingStore keeps at most one outstanding question per user. Issuing a
// new question replaces the previous one.
type pendingStore struct {
	mu     sync.Mutex
	byUser map[int64]pendingQuestion
	now    func() time.Time
}

func newPendingStore() *pendingStore {
	return &pendingStore{
		byUser: map[int64]pendingQuestion{},
		now:    time.Now,
	}
}

func (s *pendingStore) put(userID int64, q pendingQuestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q.createdAt = s.now()
	s.byUser[userID] = q
}

// take removes and returns the user's outstanding question if the token
// matches and the question has not expired.
func (s *pendingStore) take(userID int64, token string) (pendingQuestion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.byUser[userID]
	if !ok || q.token != token {
		return pendingQuestion{}, false
	}
	delete(s.byUser, userID)
	if s.now().Sub(q.createdAt) > pendingTTL {
		return pendingQuestion{}, false
	}
	return q, true
}
