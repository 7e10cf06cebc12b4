package memory

import (
	"context"
	"sort"
	"sync"

	"lms-service/internal/analytics"
	"lms-service/internal/domain"
)

// ActivityStore holds quiz attempts and page visits in memory. It implements
// both the attempt repository and the analytics event store.
type ActivityStore struct {
	mu       sync.RWMutex
	attempts map[string]domain.QuizAttempt
	graded   map[string]domain.Submission
	visits   []domain.PageVisit
}

func NewActivityStore() *ActivityStore {
	return &ActivityStore{
		attempts: make(map[string]domain.QuizAttempt),
		graded:   make(map[string]domain.Submission),
	}
}

func (s *ActivityStore) CreateAttempt(_ context.Context, a domain.QuizAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[a.ID] = a
	return nil
}

func (s *ActivityStore) GetAttempt(_ context.Context, id string) (domain.QuizAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.attempts[id]
	if !ok {
		return domain.QuizAttempt{}, domain.ErrAttemptNotFound
	}
	return a, nil
}

func (s *ActivityStore) SaveSubmission(_ context.Context, attemptID string, sub domain.Submission, result domain.ScoringResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[attemptID]
	if !ok {
		return domain.ErrAttemptNotFound
	}
	if a.Submitted() {
		return domain.ErrAttemptSubmitted
	}
	score, total := result.Score, result.TotalQuestions
	completedAt := sub.CompletedAt
	a.CompletedAt = &completedAt
	a.Score = &score
	a.TotalQuestions = &total
	s.attempts[attemptID] = a
	s.graded[attemptID] = copySubmission(sub)
	return nil
}

// GetSubmission returns an empty submission for attempts still open.
func (s *ActivityStore) GetSubmission(_ context.Context, attemptID string) (domain.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.attempts[attemptID]; !ok {
		return domain.Submission{}, domain.ErrAttemptNotFound
	}
	return copySubmission(s.graded[attemptID]), nil
}

func copySubmission(sub domain.Submission) domain.Submission {
	sub.Answers = append([]domain.UserAnswer(nil), sub.Answers...)
	sub.GradedQuiz = copyQuiz(sub.GradedQuiz)
	return sub
}

func (s *ActivityStore) AppendVisit(_ context.Context, v domain.PageVisit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visits = append(s.visits, v)
	return nil
}

// ListVisits returns visits inside w ordered by time.
func (s *ActivityStore) ListVisits(_ context.Context, w analytics.Window) ([]domain.PageVisit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.PageVisit
	for _, v := range s.visits {
		if w.Contains(v.VisitedAt) {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].VisitedAt.Before(out[j].VisitedAt) })
	return out, nil
}

// ListQuizAttempts returns attempts started inside w ordered by start time.
func (s *ActivityStore) ListQuizAttempts(_ context.Context, w analytics.Window) ([]domain.QuizAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.QuizAttempt
	for _, a := range s.attempts {
		if w.Contains(a.StartedAt) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out, nil
}
