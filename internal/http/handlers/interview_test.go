package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"server/internal/interview"
	"server/internal/providers/deepseek"
)

type stubGateway struct {
	response string
	err      error
	chunks   []string
}

func (s *stubGateway) Send(_ context.Context, _ string, _ deepseek.SendOptions) (string, error) {
	return s.response, s.err
}

func (s *stubGateway) SendStream(_ context.Context, _ string, _ deepseek.SendOptions, onChunk func(string)) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	for _, c := range s.chunks {
		onChunk(c)
	}
	return strings.Join(s.chunks, ""), nil
}

func TestGenerateQuestions(t *testing.T) {
	app := &App{Logger: zerolog.Nop(), Gateway: &stubGateway{response: `["问题一", "问题二"]`}}

	rec := postJSON(t, app.GenerateQuestions, "/api/interview/generate-questions", generateQuestionsRequest{TargetRole: "产品经理"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", rec.Code, rec.Body)
	}
	var resp generateQuestionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Fallback || len(resp.Questions) != 2 {
		t.Fatalf("response = %+v, want 2 questions without fallback", resp)
	}
}

func TestGenerateQuestionsFallback(t *testing.T) {
	tests := []struct {
		name    string
		gateway *stubGateway
	}{
		{"gateway error", &stubGateway{err: errors.New("upstream down")}},
		{"unparseable response", &stubGateway{response: "抱歉，我无法按要求回答。"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &App{Logger: zerolog.Nop(), Gateway: tt.gateway}
			rec := postJSON(t, app.GenerateQuestions, "/api/interview/generate-questions", generateQuestionsRequest{TargetRole: "产品经理"})
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
			}
			var resp generateQuestionsResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if !resp.Fallback {
				t.Fatal("Fallback = false, want true")
			}
			if len(resp.Questions) != len(interview.FallbackQuestions) || resp.Questions[0] != interview.FirstQuestion {
				t.Fatalf("questions = %v, want fixed fallback list", resp.Questions)
			}
		})
	}
}

func TestGenerateQuestionsRequiresRole(t *testing.T) {
	app := &App{Logger: zerolog.Nop(), Gateway: &stubGateway{}}
	rec := postJSON(t, app.GenerateQuestions, "/api/interview/generate-questions", generateQuestionsRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestGenerateAnswerStreams(t *testing.T) {
	app := &App{Logger: zerolog.Nop(), Gateway: &stubGateway{chunks: []string{"你好", "，很高兴"}}}

	rec := postJSON(t, app.GenerateAnswer, "/api/interview/generate-answer", generateAnswerRequest{
		Question:   "请自我介绍",
		TargetRole: "后端工程师",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q, want text/event-stream", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `data: {"content":"你好"}`) {
		t.Errorf("stream missing first chunk frame:\n%s", body)
	}
	if !strings.HasSuffix(strings.TrimSpace(body), "data: [DONE]") {
		t.Errorf("stream missing terminator:\n%s", body)
	}
}

func TestGenerateAnswerStreamError(t *testing.T) {
	app := &App{Logger: zerolog.Nop(), Gateway: &stubGateway{err: errors.New("upstream down")}}

	rec := postJSON(t, app.GenerateAnswer, "/api/interview/generate-answer", generateAnswerRequest{
		Question:   "请自我介绍",
		TargetRole: "后端工程师",
	})
	if !strings.Contains(rec.Body.String(), `"error":"stream failed"`) {
		t.Fatalf("stream missing error frame:\n%s", rec.Body)
	}
}
