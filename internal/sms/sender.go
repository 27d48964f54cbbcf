package sms

import (
	"context"

	"server/internal/infra"
)

// Sender delivers a verification code to a phone number.
type Sender interface {
	Send(ctx context.Context, phone, code string) error
}

// SimulatedSender logs the code instead of calling a carrier. Used outside
// production and wherever no SMS provider is configured.
type SimulatedSender struct {
	Logger infra.Logger
}

func (s *SimulatedSender) Send(_ context.Context, phone, code string) error {
	s.Logger.Info().Str("phone", phone).Str("code", code).Msg("simulated sms delivery")
	return nil
}
