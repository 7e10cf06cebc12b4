package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/uptrace/bun"

	"lms-service/internal/analytics"
	"lms-service/internal/domain"
)

// ActivityStore writes attempts and visits through bun and serves analytics
// range reads straight from the pgx pool.
type ActivityStore struct {
	db   *bun.DB
	pool *pgxpool.Pool
}

func NewActivityStore(db *bun.DB, pool *pgxpool.Pool) *ActivityStore {
	return &ActivityStore{db: db, pool: pool}
}

func (s *ActivityStore) CreateAttempt(ctx context.Context, a domain.QuizAttempt) error {
	row := attemptRow{ID: a.ID, QuizID: a.QuizID, SessionID: a.SessionID, StartedAt: a.StartedAt}
	_, err := s.db.NewInsert().Model(&row).Exec(ctx)
	return mapError(err, domain.ErrQuizNotFound)
}

func (s *ActivityStore) GetAttempt(ctx context.Context, id string) (domain.QuizAttempt, error) {
	var row attemptRow
	if err := s.db.NewSelect().Model(&row).Where("id = ?", id).Scan(ctx); err != nil {
		return domain.QuizAttempt{}, mapError(err, domain.ErrAttemptNotFound)
	}
	return row.toDomain(), nil
}

// SaveSubmission closes the attempt only if it is still open, then stores the
// answers. The graded quiz is kept as JSONB on the attempt row.
func (s *ActivityStore) SaveSubmission(ctx context.Context, attemptID string, sub domain.Submission, result domain.ScoringResult) error {
	graded, err := json.Marshal(sub.GradedQuiz)
	if err != nil {
		return fmt.Errorf("encode graded quiz: %w", err)
	}
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*attemptRow)(nil)).
			Set("completed_at = ?", sub.CompletedAt).
			Set("score = ?", result.Score).
			Set("total_questions = ?", result.TotalQuestions).
			Set("graded_quiz = ?::jsonb", string(graded)).
			Where("id = ?", attemptID).
			Where("completed_at IS NULL").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("close attempt: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			exists, err := tx.NewSelect().Model((*attemptRow)(nil)).Where("id = ?", attemptID).Exists(ctx)
			if err != nil {
				return err
			}
			if !exists {
				return domain.ErrAttemptNotFound
			}
			return domain.ErrAttemptSubmitted
		}

		if len(sub.Answers) == 0 {
			return nil
		}
		rows := make([]answerRow, len(sub.Answers))
		for i, a := range sub.Answers {
			rows[i] = answerRow{AttemptID: attemptID, QuestionID: a.QuestionID, OptionID: a.OptionID}
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("store answers: %w", err)
		}
		return nil
	})
}

// GetSubmission loads the stored answers and graded quiz. Attempts submitted
// before graded_quiz existed come back with a zero GradedQuiz.
func (s *ActivityStore) GetSubmission(ctx context.Context, attemptID string) (domain.Submission, error) {
	var head struct {
		CompletedAt *time.Time `bun:"completed_at"`
		GradedQuiz  []byte     `bun:"graded_quiz"`
	}
	err := s.db.NewSelect().
		Model((*attemptRow)(nil)).
		Column("completed_at", "graded_quiz").
		Where("id = ?", attemptID).
		Scan(ctx, &head)
	if err != nil {
		return domain.Submission{}, mapError(err, domain.ErrAttemptNotFound)
	}

	var sub domain.Submission
	if head.CompletedAt != nil {
		sub.CompletedAt = *head.CompletedAt
	}
	if len(head.GradedQuiz) > 0 {
		if err := json.Unmarshal(head.GradedQuiz, &sub.GradedQuiz); err != nil {
			return domain.Submission{}, fmt.Errorf("decode graded quiz: %w", err)
		}
	}

	var rows []answerRow
	if err := s.db.NewSelect().Model(&rows).Where("attempt_id = ?", attemptID).Order("id ASC").Scan(ctx); err != nil {
		return domain.Submission{}, fmt.Errorf("list answers: %w", err)
	}
	sub.Answers = make([]domain.UserAnswer, len(rows))
	for i, r := range rows {
		sub.Answers[i] = domain.UserAnswer{QuestionID: r.QuestionID, OptionID: r.OptionID}
	}
	return sub, nil
}

func (s *ActivityStore) AppendVisit(ctx context.Context, v domain.PageVisit) error {
	row := visitRow{
		ID:        v.ID,
		PageURL:   v.PageURL,
		PageType:  v.PageType,
		Referrer:  v.Referrer,
		UserAgent: v.UserAgent,
		SessionID: v.SessionID,
		IPAddress: v.IPAddress,
		VisitedAt: v.VisitedAt,
	}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("append visit: %w", err)
	}
	return nil
}

func (s *ActivityStore) ListVisits(ctx context.Context, w analytics.Window) ([]domain.PageVisit, error) {
	where, args := windowClause("visited_at", w)
	rows, err := s.pool.Query(ctx,
		`SELECT id, page_url, page_type, referrer, user_agent, session_id, ip_address, visited_at
		 FROM page_visits`+where+` ORDER BY visited_at`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list visits: %w", err)
	}
	defer rows.Close()

	var out []domain.PageVisit
	for rows.Next() {
		var v domain.PageVisit
		if err := rows.Scan(&v.ID, &v.PageURL, &v.PageType, &v.Referrer, &v.UserAgent, &v.SessionID, &v.IPAddress, &v.VisitedAt); err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *ActivityStore) ListQuizAttempts(ctx context.Context, w analytics.Window) ([]domain.QuizAttempt, error) {
	where, args := windowClause("started_at", w)
	rows, err := s.pool.Query(ctx,
		`SELECT id, quiz_id, session_id, started_at, completed_at, score, total_questions
		 FROM quiz_attempts`+where+` ORDER BY started_at`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list quiz attempts: %w", err)
	}
	defer rows.Close()

	var out []domain.QuizAttempt
	for rows.Next() {
		var (
			a            domain.QuizAttempt
			completedAt  *time.Time
			score, total *int32
		)
		if err := rows.Scan(&a.ID, &a.QuizID, &a.SessionID, &a.StartedAt, &completedAt, &score, &total); err != nil {
			return nil, fmt.Errorf("scan quiz attempt: %w", err)
		}
		a.CompletedAt = completedAt
		if score != nil {
			v := int(*score)
			a.Score = &v
		}
		if total != nil {
			v := int(*total)
			a.TotalQuestions = &v
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// windowClause renders a half-open range filter on column.
func windowClause(column string, w analytics.Window) (string, []interface{}) {
	var conds []string
	var args []interface{}
	if w.Start != nil {
		args = append(args, *w.Start)
		conds = append(conds, fmt.Sprintf("%s >= $%d", column, len(args)))
	}
	if w.End != nil {
		args = append(args, *w.End)
		conds = append(conds, fmt.Sprintf("%s < $%d", column, len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
