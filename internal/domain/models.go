package domain

import "time"

// QuestionType selects the scoring rule for a question.
type QuestionType string

const (
	SingleChoice   QuestionType = "SINGLE_CHOICE"
	MultipleChoice QuestionType = "MULTIPLE_CHOICE"
)

// Option represents a possible answer for a question.
type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
	Order     int    `json:"order"`
}

// Question is a quiz question with its ordered options.
type Question struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Type    QuestionType `json:"type"`
	Order   int          `json:"order"`
	Options []Option     `json:"options"`
}

// Quiz is an ordered collection of questions, optionally attached to a course day.
type Quiz struct {
	ID        string     `json:"id"`
	CourseID  string     `json:"courseId,omitempty"`
	DayID     string     `json:"dayId,omitempty"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// LearnerView returns a copy of the quiz with correctness flags cleared.
func (q Quiz) LearnerView() Quiz {
	out := q
	out.Questions = make([]Question, len(q.Questions))
	for i, question := range q.Questions {
		opts := make([]Option, len(question.Options))
		for j, opt := range question.Options {
			opt.IsCorrect = false
			opts[j] = opt
		}
		question.Options = opts
		out.Questions[i] = question
	}
	return out
}

// UserAnswer is one selected option. Several answers may share a question.
type UserAnswer struct {
	QuestionID string `json:"questionId"`
	OptionID   string `json:"optionId"`
}

// Submission is what an attempt was graded on. GradedQuiz is the quiz as it
// stood at submit time, so later edits never change a past result.
type Submission struct {
	Answers     []UserAnswer
	GradedQuiz  Quiz
	CompletedAt time.Time
}

// QuestionDetail is the per-question breakdown of a scoring run.
type QuestionDetail struct {
	QuestionID            string       `json:"questionId"`
	QuestionText          string       `json:"questionText"`
	QuestionType          QuestionType `json:"questionType"`
	IsCorrect             bool         `json:"isCorrect"`
	CorrectOptionIDs      OptionSet    `json:"correctOptionIds"`
	UserSelectedOptionIDs OptionSet    `json:"userSelectedOptionIds"`
}

// ScoringResult is derived on every scoring call and never stored as such.
type ScoringResult struct {
	Score          int              `json:"score"`
	TotalQuestions int              `json:"totalQuestions"`
	Details        []QuestionDetail `json:"details"`
}

// QuizAttempt records a learner starting (and later submitting) a quiz.
type QuizAttempt struct {
	ID             string     `json:"id"`
	QuizID         string     `json:"quizId"`
	SessionID      string     `json:"sessionId,omitempty"`
	StartedAt      time.Time  `json:"startedAt"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	Score          *int       `json:"score,omitempty"`
	TotalQuestions *int       `json:"totalQuestions,omitempty"`
}

// Submitted reports whether answers were already recorded for the attempt.
func (a QuizAttempt) Submitted() bool {
	return a.CompletedAt != nil
}

// PageVisit is an append-only tracking event.
type PageVisit struct {
	ID        string    `json:"id"`
	PageURL   string    `json:"pageUrl"`
	PageType  string    `json:"pageType,omitempty"`
	Referrer  string    `json:"referrer,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	SessionID string    `json:"sessionId,omitempty"`
	IPAddress string    `json:"ipAddress,omitempty"`
	VisitedAt time.Time `json:"visitedAt"`
}

// ChartBucket is one labeled count in a chart series.
type ChartBucket struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Stats backs the dashboard stat cards.
type Stats struct {
	TotalVisits       int    `json:"totalVisits"`
	LiveUsers         int    `json:"liveUsers"`
	TotalQuizAttempts int    `json:"totalQuizAttempts"`
	Filter            string `json:"filter"`
}

// EventKind identifies what triggered a live analytics update.
type EventKind string

const (
	EventVisit   EventKind = "visit"
	EventAttempt EventKind = "attempt"
)

// AnalyticsEvent notifies live dashboards that new events were recorded.
type AnalyticsEvent struct {
	Kind EventKind `json:"kind"`
	At   time.Time `json:"at"`
}
