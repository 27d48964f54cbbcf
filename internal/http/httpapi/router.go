package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"server/internal/http/handlers"
	"server/internal/infra"
	mw "server/internal/middleware"
)

// Options tunes the request pipeline around the handlers.
type Options struct {
	Logger          infra.Logger
	AllowedOrigins  []string
	CountryLookup   mw.CountryLookup
	RateLimitPerMin int
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RealIP,
		chimw.Recoverer,
		mw.RequestID,
		mw.Logger(opts.Logger),
		mw.CORS(opts.AllowedOrigins),
		chimw.RequestSize(2<<20),
		mw.I18N("zh", opts.CountryLookup),
	)

	r.Get("/health", app.Health)
	r.Get("/readyz", app.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			limit := opts.RateLimitPerMin
			if limit <= 0 {
				limit = 10
			}
			r.With(mw.RateLimit(limit, time.Minute)).Post("/send-sms", app.AuthSendSMS)
			r.Post("/verify-code", app.AuthVerifyCode)
		})

		r.With(mw.AuthBearer(app.JWTSecret)).Get("/user/profile", app.Profile)

		r.Route("/interview", func(r chi.Router) {
			r.Post("/generate-questions", app.GenerateQuestions)
			r.Post("/generate-answer", app.GenerateAnswer)
		})

		r.Route("/question-bank", func(r chi.Router) {
			r.Get("/availability", app.BankAvailability)
			r.Post("/generate", app.StartGeneration)
			r.Get("/tasks/{taskID}", app.GenerationStatus)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Use(mw.OptionalAuth(app.JWTSecret))
			r.Post("/", app.StartSession)
			r.Get("/{sessionID}/next", app.NextQuestion)
			r.Get("/{sessionID}/progress", app.SessionProgress)
			r.Post("/{sessionID}/end", app.EndSession)
		})
	})

	return r
}
