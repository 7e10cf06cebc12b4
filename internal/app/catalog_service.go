package app

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"lms-service/internal/domain"
)

// CatalogService manages courses, days, resources, quizzes and decks.
type CatalogService struct {
	repo    CatalogRepository
	quizzes QuizRepository
	now     func() time.Time
}

func NewCatalogService(repo CatalogRepository, quizzes QuizRepository) *CatalogService {
	return NewCatalogServiceWithClock(repo, quizzes, time.Now)
}

// NewCatalogServiceWithClock is test-only for deterministic timestamps.
func NewCatalogServiceWithClock(repo CatalogRepository, quizzes QuizRepository, now func() time.Time) *CatalogService {
	return &CatalogService{repo: repo, quizzes: quizzes, now: now}
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and joins its alphanumeric runs with dashes.
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// CreateCourse assigns an id, derives a slug from the title when none is given
// and stamps creation times.
func (s *CatalogService) CreateCourse(ctx context.Context, c domain.Course) (domain.Course, error) {
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		return domain.Course{}, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	c.Slug = Slugify(c.Slug)
	if c.Slug == "" {
		c.Slug = Slugify(c.Title)
	}
	if c.Slug == "" {
		return domain.Course{}, fmt.Errorf("%w: slug is empty", domain.ErrInvalidInput)
	}
	c.ID = uuid.NewString()
	c.Days = nil
	now := s.now()
	c.CreatedAt, c.UpdatedAt = now, now
	if err := s.repo.CreateCourse(ctx, c); err != nil {
		return domain.Course{}, fmt.Errorf("create course: %w", err)
	}
	return c, nil
}

// UpdateCourse overwrites the editable fields of an existing course.
func (s *CatalogService) UpdateCourse(ctx context.Context, id string, patch domain.Course) (domain.Course, error) {
	current, err := s.repo.GetCourse(ctx, id)
	if err != nil {
		return domain.Course{}, err
	}
	if t := strings.TrimSpace(patch.Title); t != "" {
		current.Title = t
	}
	if slug := Slugify(patch.Slug); slug != "" {
		current.Slug = slug
	}
	current.Description = patch.Description
	current.Published = patch.Published
	current.UpdatedAt = s.now()
	if err := s.repo.UpdateCourse(ctx, current); err != nil {
		return domain.Course{}, fmt.Errorf("update course: %w", err)
	}
	return current, nil
}

func (s *CatalogService) DeleteCourse(ctx context.Context, id string) error {
	return s.repo.DeleteCourse(ctx, id)
}

func (s *CatalogService) GetCourse(ctx context.Context, id string) (domain.Course, error) {
	return s.repo.GetCourse(ctx, id)
}

// CourseBySlug hides unpublished courses unless includeDrafts is set.
func (s *CatalogService) CourseBySlug(ctx context.Context, slug string, includeDrafts bool) (domain.Course, error) {
	c, err := s.repo.GetCourseBySlug(ctx, slug)
	if err != nil {
		return domain.Course{}, err
	}
	if !c.Published && !includeDrafts {
		return domain.Course{}, domain.ErrCourseNotFound
	}
	return c, nil
}

func (s *CatalogService) ListCourses(ctx context.Context, publishedOnly bool) ([]domain.Course, error) {
	return s.repo.ListCourses(ctx, publishedOnly)
}

// AddDay appends a day to a course. A zero position places it last.
func (s *CatalogService) AddDay(ctx context.Context, courseID string, d domain.Day) (domain.Day, error) {
	course, err := s.repo.GetCourse(ctx, courseID)
	if err != nil {
		return domain.Day{}, err
	}
	if strings.TrimSpace(d.Title) == "" {
		return domain.Day{}, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	d.ID = uuid.NewString()
	d.CourseID = course.ID
	d.Resources = nil
	if d.Position <= 0 {
		d.Position = len(course.Days) + 1
	}
	if err := s.repo.AddDay(ctx, d); err != nil {
		return domain.Day{}, fmt.Errorf("add day: %w", err)
	}
	return d, nil
}

// AddResource attaches content to a day. A zero position places it last.
func (s *CatalogService) AddResource(ctx context.Context, dayID string, r domain.Resource) (domain.Resource, error) {
	day, err := s.repo.GetDay(ctx, dayID)
	if err != nil {
		return domain.Resource{}, err
	}
	switch r.Kind {
	case domain.ResourceVideo, domain.ResourceArticle, domain.ResourceLink, domain.ResourceFile:
	default:
		return domain.Resource{}, fmt.Errorf("%w: unknown resource kind %q", domain.ErrInvalidInput, r.Kind)
	}
	r.ID = uuid.NewString()
	r.DayID = day.ID
	if r.Position <= 0 {
		r.Position = len(day.Resources) + 1
	}
	if err := s.repo.AddResource(ctx, r); err != nil {
		return domain.Resource{}, fmt.Errorf("add resource: %w", err)
	}
	return r, nil
}

// SaveQuiz creates or replaces a quiz. Missing ids are generated and order
// fields default to the position in the request.
func (s *CatalogService) SaveQuiz(ctx context.Context, q domain.Quiz) (domain.Quiz, error) {
	if strings.TrimSpace(q.Title) == "" {
		return domain.Quiz{}, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if q.CourseID != "" {
		if _, err := s.repo.GetCourse(ctx, q.CourseID); err != nil {
			return domain.Quiz{}, err
		}
	}
	if q.DayID != "" {
		if _, err := s.repo.GetDay(ctx, q.DayID); err != nil {
			return domain.Quiz{}, err
		}
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	for i := range q.Questions {
		question := &q.Questions[i]
		switch question.Type {
		case domain.SingleChoice, domain.MultipleChoice:
		default:
			return domain.Quiz{}, fmt.Errorf("%w: question %d has unknown type %q", domain.ErrInvalidInput, i+1, question.Type)
		}
		if question.ID == "" {
			question.ID = uuid.NewString()
		}
		if question.Order == 0 {
			question.Order = i + 1
		}
		for j := range question.Options {
			opt := &question.Options[j]
			if opt.ID == "" {
				opt.ID = uuid.NewString()
			}
			if opt.Order == 0 {
				opt.Order = j + 1
			}
		}
	}

	if err := s.repo.SaveQuiz(ctx, q); err != nil {
		return domain.Quiz{}, fmt.Errorf("save quiz: %w", err)
	}
	if err := s.quizzes.Invalidate(ctx, q.ID); err != nil {
		logf("invalidate quiz %s: %v", q.ID, err)
	}
	return q, nil
}

// Quiz returns the full quiz including answer keys.
func (s *CatalogService) Quiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	return s.quizzes.GetQuiz(ctx, quizID)
}

func (s *CatalogService) ListQuizzes(ctx context.Context, courseID string) ([]domain.Quiz, error) {
	return s.repo.ListQuizzes(ctx, courseID)
}

// CreateDeck stores a deck with its cards in request order.
func (s *CatalogService) CreateDeck(ctx context.Context, d domain.FlashcardDeck) (domain.FlashcardDeck, error) {
	if _, err := s.repo.GetCourse(ctx, d.CourseID); err != nil {
		return domain.FlashcardDeck{}, err
	}
	if strings.TrimSpace(d.Title) == "" {
		return domain.FlashcardDeck{}, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	d.ID = uuid.NewString()
	for i := range d.Cards {
		d.Cards[i].ID = uuid.NewString()
		d.Cards[i].DeckID = d.ID
		d.Cards[i].Position = i + 1
	}
	if err := s.repo.SaveDeck(ctx, d); err != nil {
		return domain.FlashcardDeck{}, fmt.Errorf("save deck: %w", err)
	}
	return d, nil
}

func (s *CatalogService) GetDeck(ctx context.Context, id string) (domain.FlashcardDeck, error) {
	return s.repo.GetDeck(ctx, id)
}

func (s *CatalogService) ListDecks(ctx context.Context, courseID string) ([]domain.FlashcardDeck, error) {
	return s.repo.ListDecks(ctx, courseID)
}
