// Package apperr defines the sentinel errors shared across services, so the
// HTTP layer can map them to status codes in one place.
package apperr

import "errors"

var (
	// ErrNotAuthenticated means no verified session accompanied the request.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInvalidCredential means the external identity credential failed verification.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrNoActiveSession means the client ended a practice session it never started.
	ErrNoActiveSession = errors.New("no active session")
	// ErrNoActiveWord means the client submitted an answer with no outstanding question.
	ErrNoActiveWord = errors.New("no active word")
	// ErrNoActiveGame means the client played a round of a game it never started.
	ErrNoActiveGame = errors.New("no active game")
	// ErrNotFound means the requested entity does not exist, or no words are available.
	ErrNotFound = errors.New("not found")
)
