package http

import "lms-service/internal/domain"

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

type startAttemptRequest struct {
	SessionID string `json:"sessionId" validate:"max=128"`
}

type submitRequest struct {
	Answers []answerDTO `json:"answers" validate:"dive"`
}

type answerDTO struct {
	QuestionID string `json:"questionId" validate:"required"`
	OptionID   string `json:"optionId" validate:"required"`
}

func (r submitRequest) toDomain() []domain.UserAnswer {
	out := make([]domain.UserAnswer, len(r.Answers))
	for i, a := range r.Answers {
		out[i] = domain.UserAnswer{QuestionID: a.QuestionID, OptionID: a.OptionID}
	}
	return out
}

type attemptResponse struct {
	Attempt domain.QuizAttempt    `json:"attempt"`
	Result  *domain.ScoringResult `json:"result,omitempty"`
}

type trackRequest struct {
	PageURL   string `json:"pageUrl" validate:"required,max=2048"`
	PageType  string `json:"pageType" validate:"max=64"`
	Referrer  string `json:"referrer" validate:"max=2048"`
	SessionID string `json:"sessionId" validate:"max=128"`
}

type courseRequest struct {
	Slug        string `json:"slug" validate:"max=128"`
	Title       string `json:"title" validate:"required,max=256"`
	Description string `json:"description"`
	Published   bool   `json:"published"`
}

func (r courseRequest) toDomain() domain.Course {
	return domain.Course{Slug: r.Slug, Title: r.Title, Description: r.Description, Published: r.Published}
}

type dayRequest struct {
	Position int    `json:"position" validate:"gte=0"`
	Title    string `json:"title" validate:"required,max=256"`
	Summary  string `json:"summary"`
}

type resourceRequest struct {
	Kind     string `json:"kind" validate:"required,oneof=video article link file"`
	Title    string `json:"title" validate:"required,max=256"`
	URL      string `json:"url" validate:"omitempty,url"`
	Position int    `json:"position" validate:"gte=0"`
}

type quizRequest struct {
	ID        string            `json:"id"`
	CourseID  string            `json:"courseId"`
	DayID     string            `json:"dayId"`
	Title     string            `json:"title" validate:"required,max=256"`
	Questions []questionRequest `json:"questions" validate:"required,min=1,dive"`
}

type questionRequest struct {
	ID      string          `json:"id"`
	Text    string          `json:"text" validate:"required"`
	Type    string          `json:"type" validate:"required,oneof=SINGLE_CHOICE MULTIPLE_CHOICE"`
	Order   int             `json:"order" validate:"gte=0"`
	Options []optionRequest `json:"options" validate:"required,min=1,dive"`
}

type optionRequest struct {
	ID        string `json:"id"`
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"isCorrect"`
	Order     int    `json:"order" validate:"gte=0"`
}

func (r quizRequest) toDomain() domain.Quiz {
	q := domain.Quiz{ID: r.ID, CourseID: r.CourseID, DayID: r.DayID, Title: r.Title}
	q.Questions = make([]domain.Question, len(r.Questions))
	for i, qr := range r.Questions {
		question := domain.Question{ID: qr.ID, Text: qr.Text, Type: domain.QuestionType(qr.Type), Order: qr.Order}
		question.Options = make([]domain.Option, len(qr.Options))
		for j, o := range qr.Options {
			question.Options[j] = domain.Option{ID: o.ID, Text: o.Text, IsCorrect: o.IsCorrect, Order: o.Order}
		}
		q.Questions[i] = question
	}
	return q
}

type deckRequest struct {
	CourseID string        `json:"courseId" validate:"required"`
	Title    string        `json:"title" validate:"required,max=256"`
	Cards    []cardRequest `json:"cards" validate:"dive"`
}

type cardRequest struct {
	Front string `json:"front" validate:"required"`
	Back  string `json:"back" validate:"required"`
}

func (r deckRequest) toDomain() domain.FlashcardDeck {
	d := domain.FlashcardDeck{CourseID: r.CourseID, Title: r.Title}
	d.Cards = make([]domain.Flashcard, len(r.Cards))
	for i, c := range r.Cards {
		d.Cards[i] = domain.Flashcard{Front: c.Front, Back: c.Back}
	}
	return d
}
