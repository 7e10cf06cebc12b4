package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"lms-service/internal/domain"
	"lms-service/internal/metrics"
	"lms-service/internal/scoring"
)

// QuizService contains the learner-facing quiz use cases.
type QuizService struct {
	quizzes  QuizRepository
	attempts AttemptRepository
	notifier Notifier
	now      func() time.Time
}

func NewQuizService(quizzes QuizRepository, attempts AttemptRepository, notifier Notifier) *QuizService {
	return NewQuizServiceWithClock(quizzes, attempts, notifier, time.Now)
}

// NewQuizServiceWithClock is test-only for deterministic timestamps.
func NewQuizServiceWithClock(quizzes QuizRepository, attempts AttemptRepository, notifier Notifier, now func() time.Time) *QuizService {
	return &QuizService{quizzes: quizzes, attempts: attempts, notifier: notifier, now: now}
}

// GetQuiz returns the quiz with answer keys stripped.
func (s *QuizService) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	return quiz.LearnerView(), nil
}

// StartAttempt opens a new attempt for an existing quiz.
func (s *QuizService) StartAttempt(ctx context.Context, quizID, sessionID string) (domain.QuizAttempt, error) {
	// Unknown quizzes cannot be attempted.
	if _, err := s.quizzes.GetQuiz(ctx, quizID); err != nil {
		return domain.QuizAttempt{}, err
	}

	now := s.now()
	attempt := domain.QuizAttempt{
		ID:        uuid.NewString(),
		QuizID:    quizID,
		SessionID: sessionID,
		StartedAt: now,
	}
	if err := s.attempts.CreateAttempt(ctx, attempt); err != nil {
		return domain.QuizAttempt{}, err
	}
	metrics.QuizAttempts.WithLabelValues("started").Inc()
	s.notify(ctx, domain.AnalyticsEvent{Kind: domain.EventAttempt, At: now})
	return attempt, nil
}

// SubmitAttempt scores the answers against the current quiz content and
// closes the attempt, keeping that content with the answers. An attempt can
// be submitted once.
func (s *QuizService) SubmitAttempt(ctx context.Context, attemptID string, answers []domain.UserAnswer) (domain.QuizAttempt, domain.ScoringResult, error) {
	attempt, err := s.attempts.GetAttempt(ctx, attemptID)
	if err != nil {
		return domain.QuizAttempt{}, domain.ScoringResult{}, err
	}
	if attempt.Submitted() {
		return domain.QuizAttempt{}, domain.ScoringResult{}, domain.ErrAttemptSubmitted
	}

	quiz, err := s.quizzes.GetQuiz(ctx, attempt.QuizID)
	if err != nil {
		return domain.QuizAttempt{}, domain.ScoringResult{}, err
	}

	result := scoring.ComputeScore(quiz, answers)
	completedAt := s.now()
	submission := domain.Submission{Answers: answers, GradedQuiz: quiz, CompletedAt: completedAt}
	if err := s.attempts.SaveSubmission(ctx, attemptID, submission, result); err != nil {
		return domain.QuizAttempt{}, domain.ScoringResult{}, err
	}
	metrics.ObserveScore(result.Score, result.TotalQuestions)

	attempt.CompletedAt = &completedAt
	attempt.Score = &result.Score
	attempt.TotalQuestions = &result.TotalQuestions
	return attempt, result, nil
}

// GetResult re-scores a submitted attempt from its stored answers and the quiz
// content they were graded against.
func (s *QuizService) GetResult(ctx context.Context, attemptID string) (domain.QuizAttempt, domain.ScoringResult, error) {
	attempt, err := s.attempts.GetAttempt(ctx, attemptID)
	if err != nil {
		return domain.QuizAttempt{}, domain.ScoringResult{}, err
	}
	if !attempt.Submitted() {
		return domain.QuizAttempt{}, domain.ScoringResult{}, domain.ErrAttemptOpen
	}

	submission, err := s.attempts.GetSubmission(ctx, attemptID)
	if err != nil {
		return domain.QuizAttempt{}, domain.ScoringResult{}, err
	}
	quiz := submission.GradedQuiz
	if quiz.ID == "" {
		// Submitted before graded content was kept.
		if quiz, err = s.quizzes.GetQuiz(ctx, attempt.QuizID); err != nil {
			return domain.QuizAttempt{}, domain.ScoringResult{}, err
		}
	}
	return attempt, scoring.ComputeScore(quiz, submission.Answers), nil
}

func (s *QuizService) notify(ctx context.Context, ev domain.AnalyticsEvent) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, ev); err != nil && !errors.Is(err, context.Canceled) {
		logf("notify %s event: %v", ev.Kind, err)
	}
}
