package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"lms-service/internal/app"
	"lms-service/internal/config"
	"lms-service/internal/domain"
)

// NewSeedCmd inserts a sample course into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert a sample course, quiz and flash-card deck",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured; the in-memory backend seeds itself on start")
			}
			if err := runMigrationsWithConfig(ctx, cfg); err != nil {
				return err
			}
			b, err := openBackend(ctx, cfg)
			if err != nil {
				return err
			}
			defer b.Close()
			return seedCatalog(ctx, app.NewCatalogService(b.catalog, b.quizzes))
		},
	}
}

// seedCatalog creates the sample course unless its slug is already taken.
func seedCatalog(ctx context.Context, catalog *app.CatalogService) error {
	course, err := catalog.CreateCourse(ctx, domain.Course{
		Slug:        "go-fundamentals",
		Title:       "Go Fundamentals",
		Description: "A five-day introduction to writing Go.",
		Published:   true,
	})
	if errors.Is(err, domain.ErrConflict) {
		log.Printf("sample course already present")
		return nil
	}
	if err != nil {
		return err
	}

	day, err := catalog.AddDay(ctx, course.ID, domain.Day{Title: "Tooling", Summary: "Install Go and run your first program."})
	if err != nil {
		return err
	}
	for _, r := range []domain.Resource{
		{Kind: domain.ResourceArticle, Title: "Tour of Go", URL: "https://go.dev/tour"},
		{Kind: domain.ResourceLink, Title: "Download Go", URL: "https://go.dev/dl"},
	} {
		if _, err := catalog.AddResource(ctx, day.ID, r); err != nil {
			return err
		}
	}

	quiz, err := catalog.SaveQuiz(ctx, domain.Quiz{
		ID:       "quiz-1",
		CourseID: course.ID,
		DayID:    day.ID,
		Title:    "Tooling check",
		Questions: []domain.Question{
			{
				Text: "Which command compiles and runs a program?",
				Type: domain.SingleChoice,
				Options: []domain.Option{
					{Text: "go run", IsCorrect: true},
					{Text: "go vet"},
					{Text: "go fmt"},
				},
			},
			{
				Text: "Which of these are Go keywords?",
				Type: domain.MultipleChoice,
				Options: []domain.Option{
					{Text: "defer", IsCorrect: true},
					{Text: "select", IsCorrect: true},
					{Text: "async"},
				},
			},
		},
	})
	if err != nil {
		return err
	}

	if _, err := catalog.CreateDeck(ctx, domain.FlashcardDeck{
		CourseID: course.ID,
		Title:    "Commands",
		Cards: []domain.Flashcard{
			{Front: "go build", Back: "Compile packages and dependencies"},
			{Front: "go test", Back: "Run package tests"},
		},
	}); err != nil {
		return err
	}
	log.Printf("seeded course %s with quiz %s", course.Slug, quiz.ID)
	return nil
}
