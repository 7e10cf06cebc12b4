package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
)

//go:embed activity.sql
var createActivitySQL string

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, createActivitySQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS page_visits, user_answers, quiz_attempts`)
			return err
		},
	)
}
