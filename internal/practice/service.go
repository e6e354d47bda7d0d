package practice

import (
	"context"
	"database/sql"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/thanwa/flashvoc/internal/apperr"
	"github.com/thanwa/flashvoc/internal/mastery"
	"github.com/thanwa/flashvoc/internal/progress"
	"github.com/thanwa/flashvoc/internal/vocab"
)

// Question is the client-facing half of a pending question.
type Question struct {
	Token        string   `json:"token"`
	WordID       int64    `json:"word_id"`
	Word         string   `json:"word"`
	PartOfSpeech string   `json:"part_of_speech"`
	Level        int      `json:"level"`
	TimeLimit    int      `json:"time_limit"`
	Choices      []Choice `json:"choices"`
	Hints        []string `json:"hints,omitempty"`
	Degraded     bool     `json:"degraded,omitempty"`
}

// SubmitRequest is an answer to an outstanding question.
type SubmitRequest struct {
	Token       string `json:"token"`
	ChoiceIndex int    `json:"choice_index"`
	TimeTaken   int    `json:"time_taken"`
}

// Result grades a submitted answer.
type Result struct {
	Correct  bool   `json:"correct"`
	NewLevel int    `json:"new_level"`
	Points   int    `json:"points"`
	Answer   Choice `json:"answer"`
}

// Service runs the practice loop. Cross-request state is limited to the
// pending-question store and the active-session map; everything else goes
// through the database.
type Service struct {
	words     vocab.Repository
	tracker   mastery.Tracker
	recorder  progress.Recorder
	selector  *vocab.DistractorSelector
	scheduler *Scheduler
	pending   *pendingStore
	logger    logrus.FieldLogger

	mu       sync.Mutex
	rng      *rand.Rand
	sessions map[int64]int64
}

// NewService creates a Service.
func NewService(
	words vocab.Repository,
	tracker mastery.Tracker,
	recorder progress.Recorder,
	rng *rand.Rand,
	logger logrus.FieldLogger,
) *Service {
	return &Service{
		words:     words,
		tracker:   tracker,
		recorder:  recorder,
		selector:  vocab.NewDistractorSelector(words),
		scheduler: NewScheduler(tracker),
		pending:   newPendingStore(),
		logger:    logger,
		rng:       rng,
		sessions:  map[int64]int64{},
	}
}

// StartSession opens a practice session and makes it the user's active one.
func (s *Service) StartSession(ctx context.Context, userID int64) (progress.Session, error) {
	session, err := s.recorder.OpenSession(ctx, userID)
	if err != nil {
		return progress.Session{}, err
	}
	s.mu.Lock()
	s.sessions[userID] = session.ID
	s.mu.Unlock()
	return session, nil
}

// EndSession closes the user's active session with the client-reported
// totals. Without an active session it returns ErrNoActiveSession.
func (s *Service) EndSession(ctx context.Context, userID int64, totals progress.Totals) (progress.Session, error) {
	s.mu.Lock()
	sessionID, ok := s.sessions[userID]
	s.mu.Unlock()
	if !ok {
		return progress.Session{}, apperr.ErrNoActiveSession
	}

	session, err := s.recorder.CloseSession(ctx, sessionID, totals)
	if err != nil {
		// Keep the mapping so the client can retry the close.
		return progress.Session{}, err
	}

	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
	return session, nil
}

// NextWord picks a word, builds its choice set and registers it as the
// user's pending question, replacing any outstanding one.
func (s *Service) NextWord(ctx context.Context, userID int64) (Question, error) {
	s.mu.Lock()
	pick, err := s.scheduler.NextWord(ctx, s.rng, userID)
	s.mu.Unlock()
	if err != nil {
		return Question{}, err
	}

	word, err := s.words.GetWord(ctx, pick.WordID)
	if err != nil {
		return Question{}, err
	}

	s.mu.Lock()
	distractors, err := s.selector.Select(ctx, s.rng, word, distractorCount)
	if err != nil {
		// fall through to the placeholder set
		s.logger.WithError(err).WithField("word_id", word.ID).
			Warn("distractor selection failed")
		distractors = nil
	}
	set := BuildChoices(s.rng, word, pick.Level, distractors)
	s.mu.Unlock()

	token := uuid.NewString()
	s.pending.put(userID, pendingQuestion{
		token:        token,
		wordID:       word.ID,
		level:        pick.Level,
		correctIndex: set.CorrectIndex,
		answer:       set.Choices[set.CorrectIndex],
	})

	return Question{
		Token:        token,
		WordID:       word.ID,
		Word:         word.Word,
		PartOfSpeech: word.PartOfSpeech,
		Level:        pick.Level,
		TimeLimit:    TimeLimit(pick.Level),
		Choices:      set.Choices,
		Hints:        set.Hints,
		Degraded:     set.Degraded,
	}, nil
}

// SubmitAnswer grades the user's answer against the pending question,
// updates the mastery level and appends the attempt to the progress log.
// Points are levelAtTime+1 on a correct answer, 0 otherwise.
func (s *Service) SubmitAnswer(ctx context.Context, userID int64, req SubmitRequest) (Result, error) {
	q, ok := s.pending.take(userID, req.Token)
	if !ok {
		return Result{}, apperr.ErrNoActiveWord
	}

	correct := req.ChoiceIndex == q.correctIndex
	newLevel, err := s.tracker.RecordAnswer(ctx, userID, q.wordID, correct)
	if err != nil {
		return Result{}, err
	}

	attempt := progress.Attempt{
		UserID:      userID,
		WordID:      q.wordID,
		LevelAtTime: q.level,
		IsCorrect:   correct,
		TimeTaken:   req.TimeTaken,
	}
	s.mu.Lock()
	if sessionID, active := s.sessions[userID]; active {
		attempt.SessionID = sql.NullInt64{Int64: sessionID, Valid: true}
	}
	s.mu.Unlock()
	if err := s.recorder.RecordAttempt(ctx, attempt); err != nil {
		return Result{}, err
	}

	points := 0
	if correct {
		points = q.level + 1
	}
	return Result{
		Correct:  correct,
		NewLevel: newLevel,
		Points:   points,
		Answer:   q.answer,
	}, nil
}
