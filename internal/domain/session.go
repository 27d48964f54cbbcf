package domain

import "time"

// SessionStatus enumerates the states of the question-delivery loop. The
// billing threshold is tracked separately on BillingTriggered; crossing it
// does not stop question delivery.
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
)

// DisplayStatusOverTime is the informational status exposed to clients while
// an active session has crossed the billing threshold.
const DisplayStatusOverTime = "over_time"

// SessionQuestion is one entry of the immutable snapshot drawn at session
// start. Later growth of the question bank never changes it.
type SessionQuestion struct {
	ID   int64        `json:"id"`
	Text string       `json:"text"`
	Type QuestionType `json:"type"`
}

// InterviewSession is one candidate's run through a pre-drawn question set.
// The record store is the sole durable holder; there is no in-process cache.
type InterviewSession struct {
	SessionID        string
	UserID           string
	Industry         string
	Role             string
	QuestionSet      []SessionQuestion
	CurrentIndex     int
	Status           SessionStatus
	BillingTriggered bool
	StartTime        time.Time
	EndTime          *time.Time
}

// DisplayStatus is the status reported to clients: over_time while billing
// has triggered on a still-active session, the lifecycle status otherwise.
func (s *InterviewSession) DisplayStatus() string {
	if s.Status == SessionStatusActive && s.BillingTriggered {
		return DisplayStatusOverTime
	}
	return string(s.Status)
}
