package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
)

//go:embed catalog.sql
var createCatalogSQL string

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, createCatalogSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS flashcards, flashcard_decks, options, questions, quizzes, resources, days, courses`)
			return err
		},
	)
}
