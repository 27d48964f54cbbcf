package domain

import "time"

// QuestionType enumerates the labelled interview question categories.
type QuestionType string

const (
	QuestionTypeBehavior    QuestionType = "behavior"
	QuestionTypeTechnical   QuestionType = "technical"
	QuestionTypeSituational QuestionType = "situational"
	QuestionTypeMotivation  QuestionType = "motivation"
)

// ValidQuestionType reports whether t is one of the four accepted labels.
func ValidQuestionType(t QuestionType) bool {
	switch t {
	case QuestionTypeBehavior, QuestionTypeTechnical, QuestionTypeSituational, QuestionTypeMotivation:
		return true
	}
	return false
}

// QuestionRecord is one entry in the question bank. Records are append-only:
// generation accumulates them and nothing ever deletes them.
type QuestionRecord struct {
	ID        int64
	Industry  string
	Role      string
	Text      string
	Type      QuestionType
	CreatedAt time.Time
}
