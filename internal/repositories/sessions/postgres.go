package sessions

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/KirkDiggler/charcraft/internal/database/postgres"
	"github.com/KirkDiggler/charcraft/internal/entities"
	apperr "github.com/KirkDiggler/charcraft/internal/errors"
	"github.com/KirkDiggler/charcraft/internal/repositories/characters"
)

const tableName = "character_creation_sessions"

type postgresRepo struct {
	pool postgres.Pool
}

// NewPostgres creates a Postgres-backed session repository
func NewPostgres(pool postgres.Pool) Repository {
	if pool == nil {
		panic("postgres pool cannot be nil")
	}
	return &postgresRepo{pool: pool}
}

func upsert(ctx context.Context, db postgres.DB, session *entities.CreationSession) error {
	sessionJSON, err := json.Marshal(toData(session))
	if err != nil {
		return apperr.Wrap(err, "failed to marshal session")
	}

	query, args, err := squirrel.
		Insert(tableName).
		Columns("user_id", "session_data", "created_at", "updated_at").
		Values(session.OwnerID, sessionJSON, session.CreatedAt, session.UpdatedAt).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET session_data = EXCLUDED.session_data, created_at = EXCLUDED.created_at, updated_at = EXCLUDED.updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return apperr.Wrap(err, "failed to build session upsert")
	}

	if _, err := db.Exec(ctx, query, args...); err != nil {
		return apperr.Wrap(err, "failed to save session")
	}
	return nil
}

func (r *postgresRepo) Upsert(ctx context.Context, session *entities.CreationSession) error {
	if err := validate(session); err != nil {
		return err
	}
	return upsert(ctx, r.pool, session)
}

func (r *postgresRepo) Get(ctx context.Context, ownerID string) (*entities.CreationSession, error) {
	if ownerID == "" {
		return nil, apperr.InvalidArgument("owner ID is required")
	}

	query, args, err := squirrel.
		Select("session_data").
		From(tableName).
		Where(squirrel.Eq{"user_id": ownerID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, apperr.Wrap(err, "failed to build session query")
	}

	var sessionJSON []byte
	err = r.pool.QueryRow(ctx, query, args...).Scan(&sessionJSON)
	if errors.Is(err, postgres.ErrNoRows) {
		return nil, notFound(ownerID)
	}
	if err != nil {
		return nil, apperr.Wrap(err, "failed to get session")
	}

	var data Data
	if err := json.Unmarshal(sessionJSON, &data); err != nil {
		return nil, apperr.Wrap(err, "failed to unmarshal session")
	}
	return fromData(data), nil
}

func (r *postgresRepo) Delete(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return apperr.InvalidArgument("owner ID is required")
	}

	query, args, err := squirrel.
		Delete(tableName).
		Where(squirrel.Eq{"user_id": ownerID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return apperr.Wrap(err, "failed to build session delete")
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return apperr.Wrap(err, "failed to delete session")
	}
	return nil
}

// Finalize upserts the session and inserts the character in one transaction
func (r *postgresRepo) Finalize(ctx context.Context, session *entities.CreationSession, character *entities.FinishedCharacter) error {
	if err := validateFinalize(session, character); err != nil {
		return err
	}

	return postgres.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := upsert(ctx, tx, session); err != nil {
			return err
		}
		return characters.Insert(ctx, tx, character)
	})
}
