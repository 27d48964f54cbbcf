package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/interview"
	"server/internal/sms"
)

// App bundles the handler dependencies. Fields are plain so tests can build
// partial apps with only what a handler touches.
type App struct {
	Logger    infra.Logger
	DB        *pgxpool.Pool
	Generator *interview.Generator
	Sessions  *interview.Sessions
	Gateway   interview.Gateway
	Codes     *sms.Store
	Sender    sms.Sender
	JWTSecret string
	TokenTTL  time.Duration
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"error": errCode, "message": message})
}

// domainError maps service errors onto HTTP responses so every handler
// reports the same shape for the same failure.
func (a *App) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		a.error(w, http.StatusBadRequest, "bad_request", "industry and role are required")
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrSessionEnded):
		a.error(w, http.StatusConflict, "session_ended", "interview session already ended")
	case errors.Is(err, domain.ErrInsufficientQuestions):
		a.error(w, http.StatusConflict, "insufficient_questions", "question bank is empty for this pair, trigger generation first")
	case errors.Is(err, domain.ErrProviderFailure):
		a.error(w, http.StatusBadGateway, "provider_failure", "upstream model request failed")
	default:
		a.Logger.Error().Err(err).Msg("unhandled handler error")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return false
	}
	return true
}
