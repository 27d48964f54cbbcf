package domain

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrValidation            = errors.New("invalid input")
	ErrSessionEnded          = errors.New("session already ended")
	ErrInsufficientQuestions = errors.New("insufficient questions")
	ErrProviderFailure       = errors.New("provider failure")
	ErrDuplicateOperation    = errors.New("duplicate operation")
)
