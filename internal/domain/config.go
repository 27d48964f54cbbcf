package domain

// Runtime configuration keys persisted in the system_config table. Values are
// string-encoded integers; readers supply their own fallback defaults.
const (
	ConfigQuestionSetSize  = "INTERVIEW_QUESTION_SET_SIZE"
	ConfigBillingTimeLimit = "BILLING_TIME_LIMIT_MINUTES"
	ConfigMinQuestions     = "MIN_QUESTIONS_TO_START"
	ConfigTargetQuestions  = "TARGET_QUESTIONS_TO_GENERATE"
)

// DefaultConfigInt maps each runtime key to its fallback default.
var DefaultConfigInt = map[string]int{
	ConfigQuestionSetSize:  20,
	ConfigBillingTimeLimit: 30,
	ConfigMinQuestions:     5,
	ConfigTargetQuestions:  50,
}
