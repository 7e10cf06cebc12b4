package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrCourseNotFound is returned for unknown course ids or slugs.
	ErrCourseNotFound = errors.New("course not found")
	// ErrDayNotFound is returned when attaching content to an unknown day.
	ErrDayNotFound = errors.New("day not found")
	// ErrDeckNotFound is returned for unknown flash-card decks.
	ErrDeckNotFound = errors.New("deck not found")
	// ErrAttemptNotFound is returned for unknown quiz attempts.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrAttemptSubmitted prevents scoring the same attempt twice.
	ErrAttemptSubmitted = errors.New("attempt already submitted")
	// ErrAttemptOpen is returned when asking for the result of an unsubmitted attempt.
	ErrAttemptOpen = errors.New("attempt not submitted yet")
	// ErrMissingSeriesParams means neither a day/month view nor a known filter was given.
	ErrMissingSeriesParams = errors.New("missing required parameters: view or filter")
	// ErrConflict is returned when a unique key such as a course slug is taken.
	ErrConflict = errors.New("already exists")
	// ErrInvalidInput wraps request validation failures.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized is returned for bad credentials or tokens.
	ErrUnauthorized = errors.New("unauthorized")
)
