package usage

//go:generate mockgen -destination=mock/mock.go -package=mockusage -source=interface.go

import (
	"context"

	apperr "github.com/KirkDiggler/charcraft/internal/errors"
)

// Repository stores per-user, per-day completion call counters. Dates use
// entities.DateLayout. Counters are never decremented.
type Repository interface {
	// Get returns the count for the day, 0 when no counter exists
	Get(ctx context.Context, ownerID, date string) (int, error)

	// Increment atomically creates or increments the counter and returns the new value
	Increment(ctx context.Context, ownerID, date string) (int, error)

	// IncrementIfBelow increments only while the counter is under limit. It
	// returns the resulting count and whether the increment happened.
	IncrementIfBelow(ctx context.Context, ownerID, date string, limit int) (int, bool, error)
}

func validate(ownerID, date string) error {
	if ownerID == "" {
		return apperr.InvalidArgument("owner ID is required")
	}
	if date == "" {
		return apperr.InvalidArgument("usage date is required")
	}
	return nil
}
