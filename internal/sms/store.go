package sms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"time"

	"github.com/redis/go-redis/v9"
)

const maxAttempts = 3

var (
	// ErrCooldown means the phone asked for a new code too soon.
	ErrCooldown = errors.New("code recently sent, wait before retrying")
	// ErrCodeExpired means no live code exists for the phone.
	ErrCodeExpired = errors.New("verification code expired or never sent")
	// ErrTooManyAttempts means the code was consumed by failed attempts.
	ErrTooManyAttempts = errors.New("too many failed attempts")
)

// MismatchError reports a wrong code together with the attempts left before
// the code is invalidated.
type MismatchError struct {
	Remaining int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("verification code mismatch, %d attempt(s) remaining", e.Remaining)
}

var phonePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)

// ValidPhone reports whether s is a mainland mobile number.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

type codeEntry struct {
	Code     string    `json:"code"`
	IssuedAt time.Time `json:"issued_at"`
	Attempts int       `json:"attempts"`
}

// Store keeps verification codes in Redis so state survives restarts and is
// shared across instances. Expiry rides on key TTLs.
type Store struct {
	rdb      *redis.Client
	codeTTL  time.Duration
	cooldown time.Duration

	randCode func() string
}

// NewStore builds a verification code store with the given lifetimes.
func NewStore(rdb *redis.Client, codeTTL, cooldown time.Duration) *Store {
	return &Store{
		rdb:      rdb,
		codeTTL:  codeTTL,
		cooldown: cooldown,
		randCode: func() string {
			return fmt.Sprintf("%06d", 100000+rand.Intn(900000))
		},
	}
}

func codeKey(phone string) string     { return "sms:code:" + phone }
func cooldownKey(phone string) string { return "sms:cooldown:" + phone }

// Issue mints a new 6-digit code for the phone, replacing any live one, and
// arms the resend cooldown. Returns ErrCooldown while the cooldown is live.
func (s *Store) Issue(ctx context.Context, phone string) (string, error) {
	ok, err := s.rdb.SetNX(ctx, cooldownKey(phone), "1", s.cooldown).Result()
	if err != nil {
		return "", fmt.Errorf("sms cooldown: %w", err)
	}
	if !ok {
		return "", ErrCooldown
	}

	entry := codeEntry{Code: s.randCode(), IssuedAt: time.Now()}
	payload, err := json.Marshal(entry)
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, codeKey(phone), payload, s.codeTTL).Err(); err != nil {
		return "", fmt.Errorf("sms code store: %w", err)
	}
	return entry.Code, nil
}

// Verify checks the submitted code. A match consumes the code and clears the
// cooldown; a mismatch burns one of the three attempts.
func (s *Store) Verify(ctx context.Context, phone, code string) error {
	raw, err := s.rdb.Get(ctx, codeKey(phone)).Result()
	if err == redis.Nil {
		return ErrCodeExpired
	}
	if err != nil {
		return fmt.Errorf("sms code read: %w", err)
	}

	var entry codeEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		s.rdb.Del(ctx, codeKey(phone))
		return ErrCodeExpired
	}

	if entry.Attempts >= maxAttempts {
		s.rdb.Del(ctx, codeKey(phone))
		return ErrTooManyAttempts
	}

	if entry.Code != code {
		entry.Attempts++
		if entry.Attempts >= maxAttempts {
			s.rdb.Del(ctx, codeKey(phone))
			return ErrTooManyAttempts
		}
		payload, merr := json.Marshal(entry)
		if merr == nil {
			// KeepTTL so failed attempts never extend the code's life.
			s.rdb.Set(ctx, codeKey(phone), payload, redis.KeepTTL)
		}
		return &MismatchError{Remaining: maxAttempts - entry.Attempts}
	}

	s.rdb.Del(ctx, codeKey(phone), cooldownKey(phone))
	return nil
}
