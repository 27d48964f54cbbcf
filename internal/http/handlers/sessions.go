package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"server/internal/middleware"
)

type startSessionRequest struct {
	Industry string `json:"industry"`
	Role     string `json:"role"`
}

// StartSession opens an interview over a fresh question snapshot.
func (a *App) StartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if !a.decode(w, r, &req) {
		return
	}

	userID := middleware.PhoneFromContext(r.Context())
	result, err := a.Sessions.Start(r.Context(), userID, req.Industry, req.Role)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, result)
}

// NextQuestion returns the next question of the session, or the completion
// notice once the snapshot is exhausted.
func (a *App) NextQuestion(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	result, err := a.Sessions.Next(r.Context(), sessionID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, result)
}

// SessionProgress reports completion percentage and elapsed time.
func (a *App) SessionProgress(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	progress, err := a.Sessions.GetProgress(r.Context(), sessionID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, progress)
}

// EndSession completes a session early. Ending an already ended session is
// reported rather than failed.
func (a *App) EndSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	changed, err := a.Sessions.End(r.Context(), sessionID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"ended": changed, "alreadyEnded": !changed})
}
