package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"lms-service/internal/app"
	"lms-service/internal/infra/memory"
)

func TestHashPasswordCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("hunter2\n"))
	cmd.SetArgs([]string{"hash-password"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	hash := strings.TrimSpace(out.String())
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")); err != nil {
		t.Fatalf("hash does not match: %v", err)
	}
}

func TestSeedCatalogIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewCatalogStore()
	catalog := app.NewCatalogService(store, memory.NewQuizRepository(store, time.Minute))

	if err := seedCatalog(ctx, catalog); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := seedCatalog(ctx, catalog); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	courses, _ := catalog.ListCourses(ctx, true)
	if len(courses) != 1 {
		t.Fatalf("expected one course, got %d", len(courses))
	}
	quiz, err := catalog.Quiz(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("seeded quiz: %v", err)
	}
	if len(quiz.Questions) != 2 || quiz.CourseID != courses[0].ID {
		t.Fatalf("unexpected seeded quiz %+v", quiz)
	}
}
