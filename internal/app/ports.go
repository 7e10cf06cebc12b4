package app

import (
	"context"

	"lms-service/internal/analytics"
	"lms-service/internal/domain"
)

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	// Invalidate drops any cached copy after the quiz was edited.
	Invalidate(ctx context.Context, quizID string) error
}

// CatalogRepository stores authored course content.
type CatalogRepository interface {
	CreateCourse(ctx context.Context, c domain.Course) error
	UpdateCourse(ctx context.Context, c domain.Course) error
	DeleteCourse(ctx context.Context, id string) error
	// GetCourse and GetCourseBySlug return the course with days and resources in order.
	GetCourse(ctx context.Context, id string) (domain.Course, error)
	GetCourseBySlug(ctx context.Context, slug string) (domain.Course, error)
	ListCourses(ctx context.Context, publishedOnly bool) ([]domain.Course, error)
	AddDay(ctx context.Context, d domain.Day) error
	GetDay(ctx context.Context, id string) (domain.Day, error)
	AddResource(ctx context.Context, r domain.Resource) error

	SaveQuiz(ctx context.Context, q domain.Quiz) error
	// ListQuizzes returns quiz headers without questions.
	ListQuizzes(ctx context.Context, courseID string) ([]domain.Quiz, error)

	SaveDeck(ctx context.Context, d domain.FlashcardDeck) error
	GetDeck(ctx context.Context, id string) (domain.FlashcardDeck, error)
	ListDecks(ctx context.Context, courseID string) ([]domain.FlashcardDeck, error)
}

// AttemptRepository persists quiz attempts and their submitted answers.
type AttemptRepository interface {
	CreateAttempt(ctx context.Context, a domain.QuizAttempt) error
	GetAttempt(ctx context.Context, id string) (domain.QuizAttempt, error)
	// SaveSubmission must fail with domain.ErrAttemptSubmitted if answers were already stored.
	SaveSubmission(ctx context.Context, attemptID string, sub domain.Submission, result domain.ScoringResult) error
	GetSubmission(ctx context.Context, attemptID string) (domain.Submission, error)
}

// EventStore is the append-only tracking log read by the aggregator.
type EventStore interface {
	AppendVisit(ctx context.Context, v domain.PageVisit) error
	ListVisits(ctx context.Context, w analytics.Window) ([]domain.PageVisit, error)
	ListQuizAttempts(ctx context.Context, w analytics.Window) ([]domain.QuizAttempt, error)
}

// Notifier fans analytics events out to live dashboards.
type Notifier interface {
	Publish(ctx context.Context, ev domain.AnalyticsEvent) error
}
