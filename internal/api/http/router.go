// Package http exposes the question catalog and the pseudocode checker over
// a JSON API.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	auth "github.com/mind-engage/pseudocheck/internal/auth/middleware"
	"github.com/mind-engage/pseudocheck/internal/observe"
	"github.com/mind-engage/pseudocheck/internal/question"
	"github.com/mind-engage/pseudocheck/internal/rbac"
	"github.com/mind-engage/pseudocheck/internal/submission"
)

// Deps are the collaborators the router wires into handlers. Optional ones
// switch their routes off when nil.
type Deps struct {
	Service *question.Service

	Submissions *submission.Repo  // stats and submission log
	Auth        *auth.AuthService // admin API
	Admin       auth.Credentials

	ExposeAnswers bool
	CORSOrigins   []string

	Metrics        *observe.Metrics
	MetricsHandler http.Handler
	Ready          []Checker

	Logger         *slog.Logger
	RequestTimeout time.Duration
}

func NewRouter(d Deps) http.Handler {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	store := d.Service.Store()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	if d.Metrics != nil {
		r.Use(observe.Middleware(d.Metrics))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Get("/health", HealthHandler)
	r.Get("/healthz", Healthz)
	r.Get("/readyz", ReadyzHandler(d.Ready...))
	if d.MetricsHandler != nil {
		r.Handle("/metrics", d.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		if d.Auth != nil {
			api.Use(auth.OptionalJWT(d.Auth))
		}

		api.Get("/questions", ListQuestionsHandler(store, log))
		api.Get("/questions/{id}", GetQuestionHandler(store, d.ExposeAnswers, log))
		api.Post("/check-pseudocode", CheckPseudocodeHandler(d.Service, log))
		if d.Submissions != nil {
			api.Get("/questions/{id}/stats", QuestionStatsHandler(store, d.Submissions, log))
		}

		if d.Auth == nil {
			return
		}
		api.Post("/auth/login", auth.LoginHandler(d.Auth, d.Admin))
		api.Group(func(admin chi.Router) {
			admin.Use(auth.JWTMiddleware(d.Auth))
			admin.With(rbac.Require("question:create")).Post("/questions", PutQuestionHandler(store, log))
			admin.With(rbac.Require("question:delete")).Delete("/questions/{id}", DeleteQuestionHandler(store, log))
			if d.Submissions != nil {
				admin.With(rbac.Require("submission:view")).
					Get("/questions/{id}/submissions", ListSubmissionsHandler(store, d.Submissions, log))
			}
		})
	})
	return r
}
