// Package http exposes the LMS over REST and a WebSocket analytics feed.
package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lms-service/internal/app"
	"lms-service/internal/auth"
)

// Services bundles the use cases the router serves.
type Services struct {
	Quizzes   *app.QuizService
	Catalog   *app.CatalogService
	Analytics *app.AnalyticsService
	Tracking  *app.TrackingService
	Feed      *app.LiveFeed
	Auth      *auth.Service
}

type handlers struct {
	Services
	validate *validator.Validate
}

// NewRouter builds the chi router. Empty corsOrigins allows any origin.
func NewRouter(s Services, corsOrigins []string) http.Handler {
	h := &handlers{Services: s, validate: validator.New()}
	ws := NewWSHandler(s.Analytics, s.Feed, s.Auth)

	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws/analytics", ws.ServeWS)

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(30 * time.Second))

		api.Post("/auth/login", h.login)
		api.Post("/track", h.track)

		api.Get("/courses", h.listPublishedCourses)
		api.Get("/courses/{slug}", h.publishedCourse)
		api.Get("/courses/{slug}/decks", h.courseDecks)
		api.Get("/decks/{deckID}", h.getDeck)

		api.Get("/quizzes/{quizID}", h.getQuiz)
		api.Post("/quizzes/{quizID}/attempts", h.startAttempt)
		api.Post("/attempts/{attemptID}/submit", h.submitAttempt)
		api.Get("/attempts/{attemptID}", h.getAttempt)

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(JWTMiddleware(s.Auth))

			admin.Get("/courses", h.listCourses)
			admin.Post("/courses", h.createCourse)
			admin.Get("/courses/{courseID}", h.getCourse)
			admin.Put("/courses/{courseID}", h.updateCourse)
			admin.Delete("/courses/{courseID}", h.deleteCourse)
			admin.Post("/courses/{courseID}/days", h.addDay)
			admin.Get("/courses/{courseID}/quizzes", h.listQuizzes)
			admin.Post("/days/{dayID}/resources", h.addResource)
			admin.Post("/quizzes", h.saveQuiz)
			admin.Get("/quizzes/{quizID}", h.adminQuiz)
			admin.Post("/decks", h.createDeck)

			admin.Get("/analytics/stats", h.stats)
			admin.Get("/analytics/series", h.series)
		})
	})
	return r
}

// JWTMiddleware requires a valid admin bearer token.
func JWTMiddleware(a *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing bearer"})
				return
			}
			if _, err := a.Parse(strings.TrimPrefix(header, "Bearer ")); err != nil {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "bad token"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
