package usage

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/KirkDiggler/charcraft/internal/database/postgres"
	apperr "github.com/KirkDiggler/charcraft/internal/errors"
)

const tableName = "user_daily_limits"

type postgresRepo struct {
	db postgres.DB
}

// NewPostgres creates a Postgres-backed usage repository
func NewPostgres(db postgres.DB) Repository {
	if db == nil {
		panic("postgres DB cannot be nil")
	}
	return &postgresRepo{db: db}
}

func (r *postgresRepo) Get(ctx context.Context, ownerID, date string) (int, error) {
	if err := validate(ownerID, date); err != nil {
		return 0, err
	}

	query, args, err := squirrel.
		Select("ai_chat_count").
		From(tableName).
		Where(squirrel.Eq{"user_id": ownerID, "usage_date": date}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, apperr.Wrap(err, "failed to build usage query")
	}

	var count int
	err = r.db.QueryRow(ctx, query, args...).Scan(&count)
	if errors.Is(err, postgres.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, apperr.Wrap(err, "failed to get usage counter")
	}
	return count, nil
}

func (r *postgresRepo) Increment(ctx context.Context, ownerID, date string) (int, error) {
	if err := validate(ownerID, date); err != nil {
		return 0, err
	}

	query, args, err := squirrel.
		Insert(tableName).
		Columns("user_id", "usage_date", "ai_chat_count").
		Values(ownerID, date, 1).
		Suffix("ON CONFLICT (user_id, usage_date) DO UPDATE SET ai_chat_count = user_daily_limits.ai_chat_count + 1 RETURNING ai_chat_count").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, apperr.Wrap(err, "failed to build usage increment")
	}

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperr.Wrap(err, "failed to increment usage counter")
	}
	return count, nil
}

// IncrementIfBelow relies on the conditional upsert: the conflict update is
// skipped once the limit is reached, so no row comes back.
func (r *postgresRepo) IncrementIfBelow(ctx context.Context, ownerID, date string, limit int) (int, bool, error) {
	if err := validate(ownerID, date); err != nil {
		return 0, false, err
	}
	if limit <= 0 {
		count, err := r.Get(ctx, ownerID, date)
		return count, false, err
	}

	query, args, err := squirrel.
		Insert(tableName).
		Columns("user_id", "usage_date", "ai_chat_count").
		Values(ownerID, date, 1).
		Suffix("ON CONFLICT (user_id, usage_date) DO UPDATE SET ai_chat_count = user_daily_limits.ai_chat_count + 1 WHERE user_daily_limits.ai_chat_count < ? RETURNING ai_chat_count", limit).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, false, apperr.Wrap(err, "failed to build usage acquire")
	}

	var count int
	err = r.db.QueryRow(ctx, query, args...).Scan(&count)
	if errors.Is(err, postgres.ErrNoRows) {
		count, err := r.Get(ctx, ownerID, date)
		return count, false, err
	}
	if err != nil {
		return 0, false, apperr.Wrap(err, "failed to acquire usage slot")
	}
	return count, true, nil
}
