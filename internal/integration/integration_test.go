package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"lms-service/internal/app"
	"lms-service/internal/domain"
	"lms-service/internal/infra/postgres"
	pgmigrations "lms-service/internal/infra/postgres/migrations"
	infraredis "lms-service/internal/infra/redis"
)

func TestQuizAttemptEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	db := migrateDB(t, ctx, pgURL)
	defer db.Close()
	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	catalogStore := postgres.NewCatalogStore(db)
	activity := postgres.NewActivityStore(db, pool)
	quizRepo := infraredis.NewQuizRepository(redisClient, postgres.NewQuizLoader(pool), 5*time.Minute)
	feed := app.NewLiveFeed()
	notifier := infraredis.NewNotifier(redisClient, "")
	relayCtx, stopRelay := context.WithCancel(ctx)
	defer stopRelay()
	ready, _ := notifier.Relay(relayCtx, feed)
	<-ready
	events, cancel := feed.Subscribe()
	defer cancel()

	catalog := app.NewCatalogService(catalogStore, quizRepo)
	quizzes := app.NewQuizService(quizRepo, activity, notifier)

	course, err := catalog.CreateCourse(ctx, domain.Course{Title: "Arithmetic", Published: true})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	day, err := catalog.AddDay(ctx, course.ID, domain.Day{Title: "Addition"})
	if err != nil {
		t.Fatalf("add day: %v", err)
	}
	if _, err := catalog.SaveQuiz(ctx, sampleQuiz(course.ID, day.ID)); err != nil {
		t.Fatalf("save quiz: %v", err)
	}

	view, err := quizzes.GetQuiz(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if len(view.Questions) != 2 || len(view.Questions[1].Options) != 3 {
		t.Fatalf("unexpected quiz shape %+v", view)
	}
	for _, q := range view.Questions {
		for _, o := range q.Options {
			if o.IsCorrect {
				t.Fatalf("learner view leaked answer key on %s", o.ID)
			}
		}
	}

	attempt, err := quizzes.StartAttempt(ctx, "quiz-1", "sess-1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	select {
	case ev := <-events:
		if ev.Kind != domain.EventAttempt {
			t.Fatalf("expected attempt event, got %+v", ev)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("attempt event not relayed through redis")
	}

	_, result, err := quizzes.SubmitAttempt(ctx, attempt.ID, []domain.UserAnswer{
		{QuestionID: "q1", OptionID: "o2"},
		{QuestionID: "q2", OptionID: "m1"},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 1 || result.TotalQuestions != 2 {
		t.Fatalf("expected 1/2, got %d/%d", result.Score, result.TotalQuestions)
	}
	if _, _, err := quizzes.SubmitAttempt(ctx, attempt.ID, nil); !errors.Is(err, domain.ErrAttemptSubmitted) {
		t.Fatalf("expected resubmit rejection, got %v", err)
	}

	stored, again, err := quizzes.GetResult(ctx, attempt.ID)
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if stored.Score == nil || *stored.Score != 1 || again.Score != 1 {
		t.Fatalf("stored result mismatch: %+v %+v", stored, again)
	}

	edited := sampleQuiz(course.ID, day.ID)
	edited.Questions[1].Options[1].IsCorrect = true
	edited.Questions[0].ID = ""
	if _, err := catalog.SaveQuiz(ctx, edited); err != nil {
		t.Fatalf("edit quiz: %v", err)
	}
	_, afterEdit, err := quizzes.GetResult(ctx, attempt.ID)
	if err != nil {
		t.Fatalf("result after edit: %v", err)
	}
	if afterEdit.Score != 1 || afterEdit.Details[0].QuestionID != "q1" {
		t.Fatalf("result changed after quiz edit: %+v", afterEdit)
	}
}

func TestAnalyticsOverPostgres(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	db := migrateDB(t, ctx, pgURL)
	defer db.Close()
	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	activity := postgres.NewActivityStore(db, pool)
	now := time.Now().UTC().Truncate(time.Second)
	visits := []domain.PageVisit{
		{ID: "v1", PageURL: "/", SessionID: "a", VisitedAt: now.Add(-5 * time.Minute)},
		{ID: "v2", PageURL: "/courses", SessionID: "b", VisitedAt: now.Add(-10 * time.Minute)},
		{ID: "v3", PageURL: "/", SessionID: "a", VisitedAt: now.Add(-72 * time.Hour)},
	}
	for _, v := range visits {
		if err := activity.AppendVisit(ctx, v); err != nil {
			t.Fatalf("append visit: %v", err)
		}
	}

	svc := app.NewAnalyticsServiceWithClock(activity, time.UTC, func() time.Time { return now })
	stats, err := svc.Stats(ctx, "all")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalVisits != 3 || stats.LiveUsers != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	week, err := svc.Stats(ctx, "week")
	if err != nil {
		t.Fatalf("week stats: %v", err)
	}
	if week.TotalVisits != 3 {
		t.Fatalf("expected 3 visits this week, got %+v", week)
	}
}

func migrateDB(t *testing.T, ctx context.Context, dsn string) *bun.DB {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "lms", "POSTGRES_PASSWORD": "lmspass", "POSTGRES_DB": "lms"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://lms:lmspass@%s:%s/lms?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func sampleQuiz(courseID, dayID string) domain.Quiz {
	return domain.Quiz{
		ID:       "quiz-1",
		CourseID: courseID,
		DayID:    dayID,
		Title:    "Sums",
		Questions: []domain.Question{
			{
				ID:   "q1",
				Text: "What is 2 + 2?",
				Type: domain.SingleChoice,
				Options: []domain.Option{
					{ID: "o1", Text: "3"},
					{ID: "o2", Text: "4", IsCorrect: true},
					{ID: "o3", Text: "5"},
				},
			},
			{
				ID:   "q2",
				Text: "Which are even?",
				Type: domain.MultipleChoice,
				Options: []domain.Option{
					{ID: "m1", Text: "2", IsCorrect: true},
					{ID: "m2", Text: "3"},
					{ID: "m3", Text: "4", IsCorrect: true},
				},
			},
		},
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(opts), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
