package memory

import (
	"context"
	"sort"
	"sync"

	"lms-service/internal/domain"
)

// CatalogStore keeps authored content in process memory. It also serves as a
// QuizLoader for the quiz cache.
type CatalogStore struct {
	mu        sync.RWMutex
	courses   map[string]domain.Course
	days      map[string]domain.Day
	resources map[string]domain.Resource
	quizzes   map[string]domain.Quiz
	decks     map[string]domain.FlashcardDeck
}

func NewCatalogStore() *CatalogStore {
	return &CatalogStore{
		courses:   make(map[string]domain.Course),
		days:      make(map[string]domain.Day),
		resources: make(map[string]domain.Resource),
		quizzes:   make(map[string]domain.Quiz),
		decks:     make(map[string]domain.FlashcardDeck),
	}
}

func (s *CatalogStore) CreateCourse(_ context.Context, c domain.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slugTakenLocked(c.Slug, c.ID) {
		return domain.ErrConflict
	}
	c.Days = nil
	s.courses[c.ID] = c
	return nil
}

func (s *CatalogStore) UpdateCourse(_ context.Context, c domain.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[c.ID]; !ok {
		return domain.ErrCourseNotFound
	}
	if s.slugTakenLocked(c.Slug, c.ID) {
		return domain.ErrConflict
	}
	c.Days = nil
	s.courses[c.ID] = c
	return nil
}

// DeleteCourse removes the course with its days, resources and decks.
// Quizzes survive but are detached.
func (s *CatalogStore) DeleteCourse(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[id]; !ok {
		return domain.ErrCourseNotFound
	}
	delete(s.courses, id)
	for dayID, d := range s.days {
		if d.CourseID != id {
			continue
		}
		for resID, r := range s.resources {
			if r.DayID == dayID {
				delete(s.resources, resID)
			}
		}
		delete(s.days, dayID)
	}
	for deckID, d := range s.decks {
		if d.CourseID == id {
			delete(s.decks, deckID)
		}
	}
	for quizID, q := range s.quizzes {
		if q.CourseID == id {
			q.CourseID, q.DayID = "", ""
			s.quizzes[quizID] = q
		}
	}
	return nil
}

func (s *CatalogStore) GetCourse(_ context.Context, id string) (domain.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[id]
	if !ok {
		return domain.Course{}, domain.ErrCourseNotFound
	}
	return s.assembleLocked(c), nil
}

func (s *CatalogStore) GetCourseBySlug(_ context.Context, slug string) (domain.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.courses {
		if c.Slug == slug {
			return s.assembleLocked(c), nil
		}
	}
	return domain.Course{}, domain.ErrCourseNotFound
}

// ListCourses returns course headers ordered by creation time.
func (s *CatalogStore) ListCourses(_ context.Context, publishedOnly bool) ([]domain.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Course, 0, len(s.courses))
	for _, c := range s.courses {
		if publishedOnly && !c.Published {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Slug < out[j].Slug
	})
	return out, nil
}

func (s *CatalogStore) AddDay(_ context.Context, d domain.Day) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[d.CourseID]; !ok {
		return domain.ErrCourseNotFound
	}
	d.Resources = nil
	s.days[d.ID] = d
	return nil
}

func (s *CatalogStore) GetDay(_ context.Context, id string) (domain.Day, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.days[id]
	if !ok {
		return domain.Day{}, domain.ErrDayNotFound
	}
	d.Resources = s.resourcesLocked(id)
	return d, nil
}

func (s *CatalogStore) AddResource(_ context.Context, r domain.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.days[r.DayID]; !ok {
		return domain.ErrDayNotFound
	}
	s.resources[r.ID] = r
	return nil
}

func (s *CatalogStore) SaveQuiz(_ context.Context, q domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[q.ID] = copyQuiz(q)
	return nil
}

// LoadQuiz implements QuizLoader.
func (s *CatalogStore) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quizzes[quizID]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return copyQuiz(q), nil
}

func (s *CatalogStore) ListQuizzes(_ context.Context, courseID string) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Quiz
	for _, q := range s.quizzes {
		if q.CourseID == courseID {
			q.Questions = nil
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *CatalogStore) SaveDeck(_ context.Context, d domain.FlashcardDeck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[d.CourseID]; !ok {
		return domain.ErrCourseNotFound
	}
	d.Cards = append([]domain.Flashcard(nil), d.Cards...)
	s.decks[d.ID] = d
	return nil
}

func (s *CatalogStore) GetDeck(_ context.Context, id string) (domain.FlashcardDeck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.decks[id]
	if !ok {
		return domain.FlashcardDeck{}, domain.ErrDeckNotFound
	}
	d.Cards = append([]domain.Flashcard(nil), d.Cards...)
	return d, nil
}

func (s *CatalogStore) ListDecks(_ context.Context, courseID string) ([]domain.FlashcardDeck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.FlashcardDeck
	for _, d := range s.decks {
		if d.CourseID == courseID {
			d.Cards = append([]domain.Flashcard(nil), d.Cards...)
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *CatalogStore) slugTakenLocked(slug, exceptID string) bool {
	for id, c := range s.courses {
		if id != exceptID && c.Slug == slug {
			return true
		}
	}
	return false
}

func (s *CatalogStore) assembleLocked(c domain.Course) domain.Course {
	var days []domain.Day
	for _, d := range s.days {
		if d.CourseID == c.ID {
			d.Resources = s.resourcesLocked(d.ID)
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Position < days[j].Position })
	c.Days = days
	return c
}

func (s *CatalogStore) resourcesLocked(dayID string) []domain.Resource {
	var out []domain.Resource
	for _, r := range s.resources {
		if r.DayID == dayID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func copyQuiz(q domain.Quiz) domain.Quiz {
	questions := make([]domain.Question, len(q.Questions))
	for i, question := range q.Questions {
		question.Options = append([]domain.Option(nil), question.Options...)
		questions[i] = question
	}
	q.Questions = questions
	return q
}
