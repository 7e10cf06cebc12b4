package domain

import "time"

// ResourceKind classifies day content.
type ResourceKind string

const (
	ResourceVideo   ResourceKind = "video"
	ResourceArticle ResourceKind = "article"
	ResourceLink    ResourceKind = "link"
	ResourceFile    ResourceKind = "file"
)

// Course is the top-level authored unit.
type Course struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Published   bool      `json:"published"`
	Days        []Day     `json:"days,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Day is one ordered step of a course.
type Day struct {
	ID        string     `json:"id"`
	CourseID  string     `json:"courseId"`
	Position  int        `json:"position"`
	Title     string     `json:"title"`
	Summary   string     `json:"summary,omitempty"`
	Resources []Resource `json:"resources,omitempty"`
}

// Resource is a piece of content attached to a day.
type Resource struct {
	ID       string       `json:"id"`
	DayID    string       `json:"dayId"`
	Kind     ResourceKind `json:"kind"`
	Title    string       `json:"title"`
	URL      string       `json:"url"`
	Position int          `json:"position"`
}

// FlashcardDeck groups review cards for a course.
type FlashcardDeck struct {
	ID       string      `json:"id"`
	CourseID string      `json:"courseId"`
	Title    string      `json:"title"`
	Cards    []Flashcard `json:"cards"`
}

// Flashcard is a front/back pair.
type Flashcard struct {
	ID       string `json:"id"`
	DeckID   string `json:"deckId"`
	Front    string `json:"front"`
	Back     string `json:"back"`
	Position int    `json:"position"`
}
