package postgres

import (
	"time"

	"github.com/uptrace/bun"

	"lms-service/internal/domain"
)

type courseRow struct {
	bun.BaseModel `bun:"table:courses,alias:c"`

	ID          string    `bun:"id,pk"`
	Slug        string    `bun:"slug,notnull"`
	Title       string    `bun:"title,notnull"`
	Description string    `bun:"description,notnull"`
	Published   bool      `bun:"published,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

type dayRow struct {
	bun.BaseModel `bun:"table:days,alias:d"`

	ID       string `bun:"id,pk"`
	CourseID string `bun:"course_id,notnull"`
	Position int    `bun:"position,notnull"`
	Title    string `bun:"title,notnull"`
	Summary  string `bun:"summary,notnull"`
}

type resourceRow struct {
	bun.BaseModel `bun:"table:resources,alias:r"`

	ID       string `bun:"id,pk"`
	DayID    string `bun:"day_id,notnull"`
	Kind     string `bun:"kind,notnull"`
	Title    string `bun:"title,notnull"`
	URL      string `bun:"url,notnull"`
	Position int    `bun:"position,notnull"`
}

type quizRow struct {
	bun.BaseModel `bun:"table:quizzes,alias:qz"`

	ID       string `bun:"id,pk"`
	CourseID string `bun:"course_id,nullzero"`
	DayID    string `bun:"day_id,nullzero"`
	Title    string `bun:"title,notnull"`
}

type questionRow struct {
	bun.BaseModel `bun:"table:questions,alias:qu"`

	ID       string `bun:"id,pk"`
	QuizID   string `bun:"quiz_id,notnull"`
	Text     string `bun:"text,notnull"`
	Type     string `bun:"type,notnull"`
	Position int    `bun:"position,notnull"`
}

type optionRow struct {
	bun.BaseModel `bun:"table:options,alias:o"`

	ID         string `bun:"id,pk"`
	QuestionID string `bun:"question_id,notnull"`
	Text       string `bun:"text,notnull"`
	IsCorrect  bool   `bun:"is_correct,notnull"`
	Position   int    `bun:"position,notnull"`
}

type deckRow struct {
	bun.BaseModel `bun:"table:flashcard_decks,alias:fd"`

	ID       string `bun:"id,pk"`
	CourseID string `bun:"course_id,notnull"`
	Title    string `bun:"title,notnull"`
}

type cardRow struct {
	bun.BaseModel `bun:"table:flashcards,alias:fc"`

	ID       string `bun:"id,pk"`
	DeckID   string `bun:"deck_id,notnull"`
	Front    string `bun:"front,notnull"`
	Back     string `bun:"back,notnull"`
	Position int    `bun:"position,notnull"`
}

type attemptRow struct {
	bun.BaseModel `bun:"table:quiz_attempts,alias:qa"`

	ID             string     `bun:"id,pk"`
	QuizID         string     `bun:"quiz_id,notnull"`
	SessionID      string     `bun:"session_id,notnull"`
	StartedAt      time.Time  `bun:"started_at,notnull"`
	CompletedAt    *time.Time `bun:"completed_at"`
	Score          *int       `bun:"score"`
	TotalQuestions *int       `bun:"total_questions"`
}

type answerRow struct {
	bun.BaseModel `bun:"table:user_answers,alias:ua"`

	ID         int64  `bun:"id,pk,autoincrement"`
	AttemptID  string `bun:"attempt_id,notnull"`
	QuestionID string `bun:"question_id,notnull"`
	OptionID   string `bun:"option_id,notnull"`
}

type visitRow struct {
	bun.BaseModel `bun:"table:page_visits,alias:pv"`

	ID        string    `bun:"id,pk"`
	PageURL   string    `bun:"page_url,notnull"`
	PageType  string    `bun:"page_type,notnull"`
	Referrer  string    `bun:"referrer,notnull"`
	UserAgent string    `bun:"user_agent,notnull"`
	SessionID string    `bun:"session_id,notnull"`
	IPAddress string    `bun:"ip_address,notnull"`
	VisitedAt time.Time `bun:"visited_at,notnull"`
}

func courseToRow(c domain.Course) courseRow {
	return courseRow{
		ID:          c.ID,
		Slug:        c.Slug,
		Title:       c.Title,
		Description: c.Description,
		Published:   c.Published,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (r courseRow) toDomain() domain.Course {
	return domain.Course{
		ID:          r.ID,
		Slug:        r.Slug,
		Title:       r.Title,
		Description: r.Description,
		Published:   r.Published,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (r dayRow) toDomain() domain.Day {
	return domain.Day{ID: r.ID, CourseID: r.CourseID, Position: r.Position, Title: r.Title, Summary: r.Summary}
}

func (r resourceRow) toDomain() domain.Resource {
	return domain.Resource{ID: r.ID, DayID: r.DayID, Kind: domain.ResourceKind(r.Kind), Title: r.Title, URL: r.URL, Position: r.Position}
}

func (r cardRow) toDomain() domain.Flashcard {
	return domain.Flashcard{ID: r.ID, DeckID: r.DeckID, Front: r.Front, Back: r.Back, Position: r.Position}
}

func (r attemptRow) toDomain() domain.QuizAttempt {
	return domain.QuizAttempt{
		ID:             r.ID,
		QuizID:         r.QuizID,
		SessionID:      r.SessionID,
		StartedAt:      r.StartedAt,
		CompletedAt:    r.CompletedAt,
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
	}
}
