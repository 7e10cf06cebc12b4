package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `ALTER TABLE quiz_attempts ADD COLUMN IF NOT EXISTS graded_quiz JSONB`)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `ALTER TABLE quiz_attempts DROP COLUMN IF EXISTS graded_quiz`)
			return err
		},
	)
}
