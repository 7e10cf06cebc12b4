package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"lms-service/internal/domain"
	"lms-service/internal/infra/memory"
)

func newCatalogFixture() (*CatalogService, *memory.QuizRepository) {
	store := memory.NewCatalogStore()
	quizzes := memory.NewQuizRepository(store, time.Hour)
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	return NewCatalogServiceWithClock(store, quizzes, func() time.Time { return now }), quizzes
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Go Basics":          "go-basics",
		"  Intro to SQL!!  ": "intro-to-sql",
		"C++ / Rust":         "c-rust",
		"***":                "",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCourseLifecycle(t *testing.T) {
	svc, _ := newCatalogFixture()
	ctx := context.Background()

	if _, err := svc.CreateCourse(ctx, domain.Course{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	course, err := svc.CreateCourse(ctx, domain.Course{Title: "Go Basics"})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	if course.Slug != "go-basics" || course.ID == "" {
		t.Fatalf("unexpected course %+v", course)
	}
	if _, err := svc.CreateCourse(ctx, domain.Course{Title: "Go basics"}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	if _, err := svc.CourseBySlug(ctx, "go-basics", false); !errors.Is(err, domain.ErrCourseNotFound) {
		t.Fatalf("expected draft hidden, got %v", err)
	}

	first, err := svc.AddDay(ctx, course.ID, domain.Day{Title: "Setup"})
	if err != nil {
		t.Fatalf("add day: %v", err)
	}
	second, _ := svc.AddDay(ctx, course.ID, domain.Day{Title: "Types"})
	if first.Position != 1 || second.Position != 2 {
		t.Fatalf("expected auto positions, got %d and %d", first.Position, second.Position)
	}
	if _, err := svc.AddResource(ctx, first.ID, domain.Resource{Kind: "podcast", Title: "x"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected kind validation, got %v", err)
	}
	if _, err := svc.AddResource(ctx, first.ID, domain.Resource{Kind: domain.ResourceVideo, Title: "Install", URL: "https://example.com/v"}); err != nil {
		t.Fatalf("add resource: %v", err)
	}

	if _, err := svc.UpdateCourse(ctx, course.ID, domain.Course{Title: "Go Basics", Published: true}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	public, err := svc.CourseBySlug(ctx, "go-basics", false)
	if err != nil {
		t.Fatalf("published course: %v", err)
	}
	if len(public.Days) != 2 || len(public.Days[0].Resources) != 1 {
		t.Fatalf("unexpected course content %+v", public)
	}

	if err := svc.DeleteCourse(ctx, course.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetCourse(ctx, course.ID); !errors.Is(err, domain.ErrCourseNotFound) {
		t.Fatalf("expected deleted, got %v", err)
	}
}

func TestSaveQuizAssignsIDsAndRefreshesCache(t *testing.T) {
	svc, cache := newCatalogFixture()
	ctx := context.Background()

	quiz, err := svc.SaveQuiz(ctx, domain.Quiz{
		Title: "Warmup",
		Questions: []domain.Question{{
			Text: "Pick one",
			Type: domain.SingleChoice,
			Options: []domain.Option{
				{Text: "a", IsCorrect: true},
				{Text: "b"},
			},
		}},
	})
	if err != nil {
		t.Fatalf("save quiz: %v", err)
	}
	q := quiz.Questions[0]
	if quiz.ID == "" || q.ID == "" || q.Order != 1 || q.Options[1].Order != 2 || q.Options[0].ID == "" {
		t.Fatalf("expected generated ids and orders, got %+v", quiz)
	}

	if _, err := cache.GetQuiz(ctx, quiz.ID); err != nil {
		t.Fatalf("warm cache: %v", err)
	}
	quiz.Title = "Warmup v2"
	if _, err := svc.SaveQuiz(ctx, quiz); err != nil {
		t.Fatalf("update quiz: %v", err)
	}
	got, err := svc.Quiz(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("admin quiz: %v", err)
	}
	if got.Title != "Warmup v2" || !got.Questions[0].Options[0].IsCorrect {
		t.Fatalf("expected fresh quiz with answer key, got %+v", got)
	}

	if _, err := svc.SaveQuiz(ctx, domain.Quiz{Title: "bad", Questions: []domain.Question{{Type: "ESSAY"}}}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.SaveQuiz(ctx, domain.Quiz{Title: "orphan", CourseID: "nope"}); !errors.Is(err, domain.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestDecks(t *testing.T) {
	svc, _ := newCatalogFixture()
	ctx := context.Background()
	course, _ := svc.CreateCourse(ctx, domain.Course{Title: "Spanish"})

	deck, err := svc.CreateDeck(ctx, domain.FlashcardDeck{
		CourseID: course.ID,
		Title:    "Greetings",
		Cards:    []domain.Flashcard{{Front: "hola", Back: "hello"}, {Front: "adios", Back: "bye"}},
	})
	if err != nil {
		t.Fatalf("create deck: %v", err)
	}
	if deck.Cards[1].Position != 2 || deck.Cards[1].DeckID != deck.ID {
		t.Fatalf("unexpected cards %+v", deck.Cards)
	}
	decks, err := svc.ListDecks(ctx, course.ID)
	if err != nil || len(decks) != 1 || len(decks[0].Cards) != 2 {
		t.Fatalf("unexpected decks %+v err %v", decks, err)
	}
	if _, err := svc.CreateDeck(ctx, domain.FlashcardDeck{CourseID: "nope", Title: "x"}); !errors.Is(err, domain.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}
