package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"server/internal/domain"
	"server/internal/infra"
)

// SessionSweeper force-completes sessions that were abandoned without an
// explicit end call. Without it an interrupted client would leave its session
// active forever.
type SessionSweeper struct {
	sessions domain.SessionRepository
	logger   infra.Logger
	idleTTL  time.Duration
	schedule string

	cron *cron.Cron
	now  func() time.Time
}

func NewSessionSweeper(sessions domain.SessionRepository, logger infra.Logger, idleTTL time.Duration, schedule string) *SessionSweeper {
	return &SessionSweeper{
		sessions: sessions,
		logger:   logger,
		idleTTL:  idleTTL,
		schedule: schedule,
		now:      time.Now,
	}
}

// Start registers the sweep on its cron schedule and begins running it.
func (s *SessionSweeper) Start() error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info().Str("schedule", s.schedule).Dur("idle_ttl", s.idleTTL).Msg("session sweeper started")
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *SessionSweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

// RunOnce performs a single sweep.
func (s *SessionSweeper) RunOnce(ctx context.Context) {
	cutoff := s.now().Add(-s.idleTTL)
	closed, err := s.sessions.CompleteIdleBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error().Err(err).Msg("session sweep failed")
		return
	}
	if closed > 0 {
		s.logger.Info().Int64("closed", closed).Time("cutoff", cutoff).Msg("stale sessions completed")
	}
}
