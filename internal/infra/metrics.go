package infra

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters exported on /metrics. Registered against the default registry so
// promhttp.Handler can serve them without extra wiring.
var (
	QuestionsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interview_questions_generated_total",
		Help: "Question bank records accepted from the model.",
	})

	GenerationTasksFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interview_generation_tasks_failed_total",
		Help: "Generation tasks that terminated in the failed state.",
	})

	GenerationTasksCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interview_generation_tasks_completed_total",
		Help: "Generation tasks that reached their target count.",
	})

	LLMRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interview_llm_request_retries_total",
		Help: "Retried upstream model calls.",
	})

	BillingTriggers = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interview_billing_triggered_total",
		Help: "Sessions that crossed the billing time threshold.",
	})
)
