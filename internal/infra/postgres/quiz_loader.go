package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"lms-service/internal/domain"
)

// QuizLoader reads a full quiz, answer keys included, with pgx.
type QuizLoader struct {
	pool *pgxpool.Pool
}

func NewQuizLoader(pool *pgxpool.Pool) *QuizLoader {
	return &QuizLoader{pool: pool}
}

const quizContentSQL = `
SELECT qu.id, qu.text, qu.type, qu.position,
       o.id, o.text, o.is_correct, o.position
FROM questions qu
LEFT JOIN options o ON o.question_id = qu.id
WHERE qu.quiz_id = $1
ORDER BY qu.position, qu.id, o.position, o.id`

func (l *QuizLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	var quiz domain.Quiz
	err := l.pool.QueryRow(ctx,
		`SELECT id, COALESCE(course_id, ''), COALESCE(day_id, ''), title FROM quizzes WHERE id = $1`,
		quizID,
	).Scan(&quiz.ID, &quiz.CourseID, &quiz.DayID, &quiz.Title)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}

	rows, err := l.pool.Query(ctx, quizContentSQL, quizID)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	quiz.Questions = []domain.Question{}
	for rows.Next() {
		var (
			q          domain.Question
			qType      string
			optID      *string
			optText    *string
			optCorrect *bool
			optOrder   *int32
		)
		if err := rows.Scan(&q.ID, &q.Text, &qType, &q.Order, &optID, &optText, &optCorrect, &optOrder); err != nil {
			return domain.Quiz{}, fmt.Errorf("scan question: %w", err)
		}
		q.Type = domain.QuestionType(qType)

		n := len(quiz.Questions)
		if n == 0 || quiz.Questions[n-1].ID != q.ID {
			q.Options = []domain.Option{}
			quiz.Questions = append(quiz.Questions, q)
			n++
		}
		if optID == nil {
			continue
		}
		opt := domain.Option{ID: *optID}
		if optText != nil {
			opt.Text = *optText
		}
		if optCorrect != nil {
			opt.IsCorrect = *optCorrect
		}
		if optOrder != nil {
			opt.Order = int(*optOrder)
		}
		quiz.Questions[n-1].Options = append(quiz.Questions[n-1].Options, opt)
	}
	if err := rows.Err(); err != nil {
		return domain.Quiz{}, fmt.Errorf("load questions: %w", err)
	}
	return quiz, nil
}
