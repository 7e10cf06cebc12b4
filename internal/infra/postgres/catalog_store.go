package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"

	"lms-service/internal/domain"
)

// CatalogStore persists authored content through bun.
type CatalogStore struct {
	db *bun.DB
}

func NewCatalogStore(db *bun.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

func (s *CatalogStore) CreateCourse(ctx context.Context, c domain.Course) error {
	row := courseToRow(c)
	_, err := s.db.NewInsert().Model(&row).Exec(ctx)
	return mapError(err, domain.ErrCourseNotFound)
}

func (s *CatalogStore) UpdateCourse(ctx context.Context, c domain.Course) error {
	row := courseToRow(c)
	res, err := s.db.NewUpdate().
		Model(&row).
		Column("slug", "title", "description", "published", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return mapError(err, domain.ErrCourseNotFound)
	}
	return requireRow(res, domain.ErrCourseNotFound)
}

func (s *CatalogStore) DeleteCourse(ctx context.Context, id string) error {
	res, err := s.db.NewDelete().Model((*courseRow)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return requireRow(res, domain.ErrCourseNotFound)
}

func (s *CatalogStore) GetCourse(ctx context.Context, id string) (domain.Course, error) {
	return s.getCourse(ctx, "id = ?", id)
}

func (s *CatalogStore) GetCourseBySlug(ctx context.Context, slug string) (domain.Course, error) {
	return s.getCourse(ctx, "slug = ?", slug)
}

func (s *CatalogStore) getCourse(ctx context.Context, where string, arg string) (domain.Course, error) {
	var row courseRow
	if err := s.db.NewSelect().Model(&row).Where(where, arg).Scan(ctx); err != nil {
		return domain.Course{}, mapError(err, domain.ErrCourseNotFound)
	}
	course := row.toDomain()

	var days []dayRow
	if err := s.db.NewSelect().Model(&days).Where("course_id = ?", course.ID).Order("position ASC", "id ASC").Scan(ctx); err != nil {
		return domain.Course{}, fmt.Errorf("load days: %w", err)
	}
	if len(days) == 0 {
		return course, nil
	}

	ids := make([]string, len(days))
	for i, d := range days {
		ids[i] = d.ID
	}
	resources, err := s.resources(ctx, ids...)
	if err != nil {
		return domain.Course{}, err
	}
	course.Days = make([]domain.Day, len(days))
	for i, d := range days {
		course.Days[i] = d.toDomain()
		course.Days[i].Resources = resources[d.ID]
	}
	return course, nil
}

// ListCourses returns course headers ordered by creation time.
func (s *CatalogStore) ListCourses(ctx context.Context, publishedOnly bool) ([]domain.Course, error) {
	var rows []courseRow
	q := s.db.NewSelect().Model(&rows).Order("created_at ASC", "slug ASC")
	if publishedOnly {
		q = q.Where("published = TRUE")
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	out := make([]domain.Course, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}

func (s *CatalogStore) AddDay(ctx context.Context, d domain.Day) error {
	row := dayRow{ID: d.ID, CourseID: d.CourseID, Position: d.Position, Title: d.Title, Summary: d.Summary}
	_, err := s.db.NewInsert().Model(&row).Exec(ctx)
	return mapError(err, domain.ErrCourseNotFound)
}

func (s *CatalogStore) GetDay(ctx context.Context, id string) (domain.Day, error) {
	var row dayRow
	if err := s.db.NewSelect().Model(&row).Where("id = ?", id).Scan(ctx); err != nil {
		return domain.Day{}, mapError(err, domain.ErrDayNotFound)
	}
	resources, err := s.resources(ctx, id)
	if err != nil {
		return domain.Day{}, err
	}
	day := row.toDomain()
	day.Resources = resources[id]
	return day, nil
}

func (s *CatalogStore) AddResource(ctx context.Context, r domain.Resource) error {
	row := resourceRow{ID: r.ID, DayID: r.DayID, Kind: string(r.Kind), Title: r.Title, URL: r.URL, Position: r.Position}
	_, err := s.db.NewInsert().Model(&row).Exec(ctx)
	return mapError(err, domain.ErrDayNotFound)
}

func (s *CatalogStore) resources(ctx context.Context, dayIDs ...string) (map[string][]domain.Resource, error) {
	var rows []resourceRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("day_id IN (?)", bun.In(dayIDs)).
		Order("position ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("load resources: %w", err)
	}
	out := make(map[string][]domain.Resource)
	for _, r := range rows {
		out[r.DayID] = append(out[r.DayID], r.toDomain())
	}
	return out, nil
}

// SaveQuiz upserts the quiz header and replaces its questions and options.
func (s *CatalogStore) SaveQuiz(ctx context.Context, q domain.Quiz) error {
	header := quizRow{ID: q.ID, CourseID: q.CourseID, DayID: q.DayID, Title: q.Title}
	var questions []questionRow
	var options []optionRow
	for _, question := range q.Questions {
		questions = append(questions, questionRow{
			ID:       question.ID,
			QuizID:   q.ID,
			Text:     question.Text,
			Type:     string(question.Type),
			Position: question.Order,
		})
		for _, opt := range question.Options {
			options = append(options, optionRow{
				ID:         opt.ID,
				QuestionID: question.ID,
				Text:       opt.Text,
				IsCorrect:  opt.IsCorrect,
				Position:   opt.Order,
			})
		}
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().
			Model(&header).
			On("CONFLICT (id) DO UPDATE").
			Set("course_id = EXCLUDED.course_id").
			Set("day_id = EXCLUDED.day_id").
			Set("title = EXCLUDED.title").
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*questionRow)(nil)).Where("quiz_id = ?", q.ID).Exec(ctx); err != nil {
			return err
		}
		if len(questions) > 0 {
			if _, err := tx.NewInsert().Model(&questions).Exec(ctx); err != nil {
				return err
			}
		}
		if len(options) > 0 {
			if _, err := tx.NewInsert().Model(&options).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	return mapError(err, domain.ErrCourseNotFound)
}

// ListQuizzes returns quiz headers without questions.
func (s *CatalogStore) ListQuizzes(ctx context.Context, courseID string) ([]domain.Quiz, error) {
	var rows []quizRow
	if err := s.db.NewSelect().Model(&rows).Where("course_id = ?", courseID).Order("title ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	out := make([]domain.Quiz, len(rows))
	for i, r := range rows {
		out[i] = domain.Quiz{ID: r.ID, CourseID: r.CourseID, DayID: r.DayID, Title: r.Title}
	}
	return out, nil
}

func (s *CatalogStore) SaveDeck(ctx context.Context, d domain.FlashcardDeck) error {
	header := deckRow{ID: d.ID, CourseID: d.CourseID, Title: d.Title}
	cards := make([]cardRow, len(d.Cards))
	for i, c := range d.Cards {
		cards[i] = cardRow{ID: c.ID, DeckID: d.ID, Front: c.Front, Back: c.Back, Position: c.Position}
	}
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&header).Exec(ctx); err != nil {
			return err
		}
		if len(cards) == 0 {
			return nil
		}
		_, err := tx.NewInsert().Model(&cards).Exec(ctx)
		return err
	})
	return mapError(err, domain.ErrCourseNotFound)
}

func (s *CatalogStore) GetDeck(ctx context.Context, id string) (domain.FlashcardDeck, error) {
	var row deckRow
	if err := s.db.NewSelect().Model(&row).Where("id = ?", id).Scan(ctx); err != nil {
		return domain.FlashcardDeck{}, mapError(err, domain.ErrDeckNotFound)
	}
	decks, err := s.withCards(ctx, []deckRow{row})
	if err != nil {
		return domain.FlashcardDeck{}, err
	}
	return decks[0], nil
}

func (s *CatalogStore) ListDecks(ctx context.Context, courseID string) ([]domain.FlashcardDeck, error) {
	var rows []deckRow
	if err := s.db.NewSelect().Model(&rows).Where("course_id = ?", courseID).Order("title ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return s.withCards(ctx, rows)
}

func (s *CatalogStore) withCards(ctx context.Context, decks []deckRow) ([]domain.FlashcardDeck, error) {
	ids := make([]string, len(decks))
	for i, d := range decks {
		ids[i] = d.ID
	}
	var cards []cardRow
	if err := s.db.NewSelect().Model(&cards).Where("deck_id IN (?)", bun.In(ids)).Order("position ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("load flashcards: %w", err)
	}
	byDeck := make(map[string][]domain.Flashcard)
	for _, c := range cards {
		byDeck[c.DeckID] = append(byDeck[c.DeckID], c.toDomain())
	}
	out := make([]domain.FlashcardDeck, len(decks))
	for i, d := range decks {
		out[i] = domain.FlashcardDeck{ID: d.ID, CourseID: d.CourseID, Title: d.Title, Cards: byDeck[d.ID]}
	}
	return out, nil
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
