// Package quota enforces the per-user daily limit on completion calls.
package quota

//go:generate mockgen -destination=mock/mock_service.go -package=mockquota -source=service.go

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/KirkDiggler/charcraft/internal/entities"
	apperr "github.com/KirkDiggler/charcraft/internal/errors"
	"github.com/KirkDiggler/charcraft/internal/logging"
	"github.com/KirkDiggler/charcraft/internal/repositories/usage"
)

// DefaultDailyLimit is the number of completion calls a user gets per day
const DefaultDailyLimit = 200

// Status is a snapshot of a user's quota for the current day
type Status struct {
	Allowed   bool   `json:"allowed"`
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	Date      string `json:"date"`
}

// Service checks and records completion usage
type Service interface {
	// CheckLimit reports today's usage. A user with no counter has used 0.
	CheckLimit(ctx context.Context, userID string) (*Status, error)

	// RecordUsage counts one completion call against today
	RecordUsage(ctx context.Context, userID string) error

	// Acquire takes one slot atomically if the user is under the limit. The
	// returned status has Allowed=false when the limit was already reached.
	Acquire(ctx context.Context, userID string) (*Status, error)

	// Strict reports whether callers should Acquire before calling the
	// completion service instead of checking and recording separately
	Strict() bool
}

// TimeProvider supplies the current time
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider reads the system clock
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time {
	return time.Now()
}

type service struct {
	repository   usage.Repository
	limit        int
	location     *time.Location
	timeProvider TimeProvider
	strict       bool
	logger       *zap.Logger
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Repository   usage.Repository // Required
	DailyLimit   int              // Optional, defaults to DefaultDailyLimit
	Location     *time.Location   // Optional, calendar days are computed here; defaults to time.Local
	TimeProvider TimeProvider     // Optional
	Strict       bool             // Optional, enables atomic admission
	Logger       *zap.Logger      // Optional
}

// NewService creates a new quota service
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil {
		panic("config is required")
	}
	if cfg.Repository == nil {
		panic("usage repository is required")
	}

	svc := &service{
		repository:   cfg.Repository,
		limit:        cfg.DailyLimit,
		location:     cfg.Location,
		timeProvider: cfg.TimeProvider,
		strict:       cfg.Strict,
		logger:       logging.Component(cfg.Logger, "quota"),
	}
	if svc.limit <= 0 {
		svc.limit = DefaultDailyLimit
	}
	if svc.location == nil {
		svc.location = time.Local
	}
	if svc.timeProvider == nil {
		svc.timeProvider = RealTimeProvider{}
	}

	return svc
}

func (s *service) today() string {
	return entities.UsageDate(s.timeProvider.Now().In(s.location))
}

func (s *service) status(used int, date string) *Status {
	remaining := s.limit - used
	if remaining < 0 {
		remaining = 0
	}
	return &Status{
		Allowed:   used < s.limit,
		Used:      used,
		Limit:     s.limit,
		Remaining: remaining,
		Date:      date,
	}
}

func (s *service) CheckLimit(ctx context.Context, userID string) (*Status, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.InvalidArgument("user ID is required")
	}

	date := s.today()
	used, err := s.repository.Get(ctx, userID, date)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to read usage").
			WithMeta("user_id", userID).
			WithMeta("date", date)
	}

	return s.status(used, date), nil
}

func (s *service) RecordUsage(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return apperr.InvalidArgument("user ID is required")
	}

	date := s.today()
	count, err := s.repository.Increment(ctx, userID, date)
	if err != nil {
		return apperr.Wrap(err, "failed to record usage").
			WithMeta("user_id", userID).
			WithMeta("date", date)
	}

	s.logger.Debug("usage recorded",
		logging.UserID(userID),
		zap.String("date", date),
		zap.Int("count", count))
	return nil
}

func (s *service) Acquire(ctx context.Context, userID string) (*Status, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.InvalidArgument("user ID is required")
	}

	date := s.today()
	count, ok, err := s.repository.IncrementIfBelow(ctx, userID, date, s.limit)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to acquire usage slot").
			WithMeta("user_id", userID).
			WithMeta("date", date)
	}

	st := s.status(count, date)
	st.Allowed = ok
	return st, nil
}

func (s *service) Strict() bool {
	return s.strict
}
