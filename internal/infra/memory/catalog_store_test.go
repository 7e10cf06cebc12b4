package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"lms-service/internal/domain"
)

func TestCatalogStoreAssemblesCourse(t *testing.T) {
	ctx := context.Background()
	store := NewCatalogStore()
	course := domain.Course{ID: "c1", Slug: "go-basics", Title: "Go Basics", CreatedAt: time.Now()}
	if err := store.CreateCourse(ctx, course); err != nil {
		t.Fatalf("create course: %v", err)
	}
	for _, d := range []domain.Day{
		{ID: "d2", CourseID: "c1", Position: 2, Title: "Types"},
		{ID: "d1", CourseID: "c1", Position: 1, Title: "Setup"},
	} {
		if err := store.AddDay(ctx, d); err != nil {
			t.Fatalf("add day: %v", err)
		}
	}
	for _, r := range []domain.Resource{
		{ID: "r2", DayID: "d1", Kind: domain.ResourceLink, Position: 2},
		{ID: "r1", DayID: "d1", Kind: domain.ResourceVideo, Position: 1},
	} {
		if err := store.AddResource(ctx, r); err != nil {
			t.Fatalf("add resource: %v", err)
		}
	}

	got, err := store.GetCourseBySlug(ctx, "go-basics")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if len(got.Days) != 2 || got.Days[0].ID != "d1" || got.Days[1].ID != "d2" {
		t.Fatalf("unexpected day order: %+v", got.Days)
	}
	if len(got.Days[0].Resources) != 2 || got.Days[0].Resources[0].ID != "r1" {
		t.Fatalf("unexpected resources: %+v", got.Days[0].Resources)
	}
}

func TestCatalogStoreSlugConflict(t *testing.T) {
	ctx := context.Background()
	store := NewCatalogStore()
	if err := store.CreateCourse(ctx, domain.Course{ID: "c1", Slug: "go"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.CreateCourse(ctx, domain.Course{ID: "c2", Slug: "go"}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCatalogStoreDeleteCourseCascades(t *testing.T) {
	ctx := context.Background()
	store := NewCatalogStore()
	_ = store.CreateCourse(ctx, domain.Course{ID: "c1", Slug: "go"})
	_ = store.AddDay(ctx, domain.Day{ID: "d1", CourseID: "c1", Position: 1})
	_ = store.AddResource(ctx, domain.Resource{ID: "r1", DayID: "d1"})
	_ = store.SaveDeck(ctx, domain.FlashcardDeck{ID: "k1", CourseID: "c1"})
	_ = store.SaveQuiz(ctx, domain.Quiz{ID: "quiz-1", CourseID: "c1", DayID: "d1"})

	if err := store.DeleteCourse(ctx, "c1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetDay(ctx, "d1"); !errors.Is(err, domain.ErrDayNotFound) {
		t.Fatalf("expected day removed, got %v", err)
	}
	if _, err := store.GetDeck(ctx, "k1"); !errors.Is(err, domain.ErrDeckNotFound) {
		t.Fatalf("expected deck removed, got %v", err)
	}
	quiz, err := store.LoadQuiz(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("quiz should survive: %v", err)
	}
	if quiz.CourseID != "" || quiz.DayID != "" {
		t.Fatalf("expected quiz detached, got %+v", quiz)
	}
	if err := store.DeleteCourse(ctx, "c1"); !errors.Is(err, domain.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestCatalogStoreLoadQuizReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewCatalogStore()
	_ = store.SaveQuiz(ctx, sampleQuiz())

	q, _ := store.LoadQuiz(ctx, "quiz-1")
	q.Questions[0].Options[1].IsCorrect = false

	again, _ := store.LoadQuiz(ctx, "quiz-1")
	if !again.Questions[0].Options[1].IsCorrect {
		t.Fatalf("stored quiz was mutated through a loaded copy")
	}
}
