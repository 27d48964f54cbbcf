package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type generationRequest struct {
	Industry string `json:"industry"`
	Role     string `json:"role"`
}

// BankAvailability reports whether the bank can back an interview for the
// pair, with the running task when one exists.
func (a *App) BankAvailability(w http.ResponseWriter, r *http.Request) {
	industry := r.URL.Query().Get("industry")
	role := r.URL.Query().Get("role")

	availability, err := a.Generator.CheckAvailability(r.Context(), industry, role)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, availability)
}

// StartGeneration kicks off (or joins) a background generation task.
func (a *App) StartGeneration(w http.ResponseWriter, r *http.Request) {
	var req generationRequest
	if !a.decode(w, r, &req) {
		return
	}

	taskID, err := a.Generator.StartTask(r.Context(), req.Industry, req.Role)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusAccepted, map[string]string{"taskId": taskID})
}

type taskStatusResponse struct {
	TaskID       string     `json:"taskId"`
	Status       string     `json:"status"`
	Progress     int        `json:"progress"`
	Target       int        `json:"target"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// GenerationStatus is the polling endpoint for a generation task.
func (a *App) GenerationStatus(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	task, err := a.Generator.TaskStatus(r.Context(), taskID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, taskStatusResponse{
		TaskID:       task.TaskID,
		Status:       string(task.Status),
		Progress:     task.ProgressCurrent,
		Target:       task.ProgressTarget,
		ErrorMessage: task.ErrorMessage,
		CreatedAt:    task.CreatedAt,
		CompletedAt:  task.CompletedAt,
	})
}
