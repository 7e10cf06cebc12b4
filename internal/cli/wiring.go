package cli

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"lms-service/internal/app"
	"lms-service/internal/auth"
	"lms-service/internal/config"
	"lms-service/internal/infra/memory"
	"lms-service/internal/infra/postgres"
	redisinfra "lms-service/internal/infra/redis"
)

type activityStore interface {
	app.AttemptRepository
	app.EventStore
}

// backend is the storage selected by config: Postgres when a URL is set,
// otherwise process memory; Redis adds the shared quiz cache and pub/sub.
type backend struct {
	catalog  app.CatalogRepository
	activity activityStore
	quizzes  app.QuizRepository
	notifier app.Notifier
	feed     *app.LiveFeed
	inMemory bool
	closers  []func()
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func openBackend(ctx context.Context, cfg config.Config) (*backend, error) {
	b := &backend{feed: app.NewLiveFeed()}
	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)

	var loader memory.QuizLoader
	if cfg.Postgres.URL != "" {
		db, err := openDB(cfg)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func() { db.Close() })

		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, pool.Close)

		b.catalog = postgres.NewCatalogStore(db)
		b.activity = postgres.NewActivityStore(db, pool)
		loader = postgres.NewQuizLoader(pool)
	} else {
		store := memory.NewCatalogStore()
		b.catalog = store
		b.activity = memory.NewActivityStore()
		loader = store
		b.inMemory = true
	}

	b.notifier = b.feed
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		b.closers = append(b.closers, func() { client.Close() })
		if err := client.Ping(ctx).Err(); err != nil {
			b.Close()
			return nil, err
		}
		b.quizzes = redisinfra.NewQuizRepository(client, loader, quizTTL)

		notifier := redisinfra.NewNotifier(client, cfg.Redis.Channel)
		relayCtx, stopRelay := context.WithCancel(context.Background())
		_, done := notifier.Relay(relayCtx, b.feed)
		go func() {
			if err := <-done; err != nil {
				log.Printf("analytics relay stopped: %v", err)
			}
		}()
		b.closers = append(b.closers, stopRelay)
		b.notifier = notifier
	} else {
		b.quizzes = memory.NewQuizRepository(loader, quizTTL)
	}
	return b, nil
}

func newAuthService(cfg config.Config) *auth.Service {
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		log.Printf("auth.jwt_secret not set; using a random secret, tokens will not survive restarts")
	}
	admins := make(map[string]string, len(cfg.Auth.Admins))
	for _, a := range cfg.Auth.Admins {
		admins[a.Username] = a.PasswordHash
	}
	if len(admins) == 0 {
		log.Printf("no admin accounts configured; admin API is unreachable")
	}
	return auth.NewService(secret, config.TTLDuration(cfg.Auth.TokenTTL, 8*time.Hour), admins)
}
