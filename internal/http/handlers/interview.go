package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"server/internal/interview"
	"server/internal/providers/deepseek"
)

type generateQuestionsRequest struct {
	TargetRole        string   `json:"targetRole"`
	ResumeText        string   `json:"resumeText"`
	JobDescription    string   `json:"jobDescription"`
	BatchSize         int      `json:"batchSize"`
	IsFirstBatch      bool     `json:"isFirstBatch"`
	ExistingQuestions []string `json:"existingQuestions"`
}

type generateQuestionsResponse struct {
	Questions []string `json:"questions"`
	Fallback  bool     `json:"fallback"`
}

// GenerateQuestions produces an ad-hoc conversational question batch from the
// candidate's resume and job description. An unusable model response degrades
// to the fixed fallback list instead of failing the request.
func (a *App) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	var req generateQuestionsRequest
	if !a.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.TargetRole) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "targetRole is required")
		return
	}

	systemPrompt, userPrompt := interview.BuildInterviewQuestionsPrompt(interview.BatchParams{
		TargetRole:        req.TargetRole,
		ResumeText:        req.ResumeText,
		JobDescription:    req.JobDescription,
		BatchSize:         req.BatchSize,
		IsFirstBatch:      req.IsFirstBatch,
		ExistingQuestions: req.ExistingQuestions,
	})

	response, err := a.Gateway.Send(r.Context(), userPrompt, deepseek.SendOptions{
		SystemPrompt: systemPrompt,
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("question batch request failed, serving fallback")
		a.json(w, http.StatusOK, generateQuestionsResponse{Questions: interview.FallbackQuestions, Fallback: true})
		return
	}

	questions := interview.ParseQuestionArray(response)
	if len(questions) == 0 {
		a.Logger.Warn().Msg("question batch response unusable, serving fallback")
		a.json(w, http.StatusOK, generateQuestionsResponse{Questions: interview.FallbackQuestions, Fallback: true})
		return
	}

	a.json(w, http.StatusOK, generateQuestionsResponse{Questions: questions})
}

type generateAnswerRequest struct {
	Question       string `json:"question"`
	TargetRole     string `json:"targetRole"`
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
}

// GenerateAnswer streams a reference answer for one question as
// server-sent events. Each model chunk is one data frame; the stream closes
// with a [DONE] frame.
func (a *App) GenerateAnswer(w http.ResponseWriter, r *http.Request) {
	var req generateAnswerRequest
	if !a.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Question) == "" || strings.TrimSpace(req.TargetRole) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "question and targetRole are required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		a.error(w, http.StatusInternalServerError, "internal", "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	systemPrompt, userPrompt := interview.BuildReferenceAnswerPrompt(req.Question, req.TargetRole, req.ResumeText, req.JobDescription)

	_, err := a.Gateway.SendStream(r.Context(), userPrompt, deepseek.SendOptions{
		SystemPrompt: systemPrompt,
	}, func(chunk string) {
		frame, merr := json.Marshal(map[string]string{"content": chunk})
		if merr != nil {
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", frame)
		flusher.Flush()
	})
	if err != nil {
		// Headers are gone; the best we can do is an error frame.
		a.Logger.Error().Err(err).Msg("answer stream failed")
		fmt.Fprintf(w, "data: %s\n\n", `{"error":"stream failed"}`)
		flusher.Flush()
		return
	}

	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}
