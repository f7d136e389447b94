package characters

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/KirkDiggler/charcraft/internal/database/postgres"
	"github.com/KirkDiggler/charcraft/internal/entities"
	apperr "github.com/KirkDiggler/charcraft/internal/errors"
)

const (
	tableName           = "characters"
	uniqueViolationCode = "23505"
)

var selectColumns = []string{"id", "user_id", "name", "character_data", "created_at"}

type postgresRepo struct {
	db postgres.DB
}

// NewPostgres creates a Postgres-backed character repository
func NewPostgres(db postgres.DB) Repository {
	if db == nil {
		panic("postgres DB cannot be nil")
	}
	return &postgresRepo{db: db}
}

// Insert writes a new character row using db, which may be an open transaction
func Insert(ctx context.Context, db postgres.DB, character *entities.FinishedCharacter) error {
	if err := validate(character); err != nil {
		return err
	}

	draftJSON, err := json.Marshal(character.Draft.Clone())
	if err != nil {
		return apperr.Wrap(err, "failed to marshal character data")
	}

	query, args, err := squirrel.
		Insert(tableName).
		Columns(selectColumns...).
		Values(character.ID, character.OwnerID, character.Name, draftJSON, character.CreatedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return apperr.Wrap(err, "failed to build character insert")
	}

	if _, err := db.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return apperr.AlreadyExistsf("character with ID '%s' already exists", character.ID).
				WithMeta("character_id", character.ID)
		}
		return apperr.Wrap(err, "failed to insert character")
	}

	return nil
}

// Create stores a new character
func (r *postgresRepo) Create(ctx context.Context, character *entities.FinishedCharacter) error {
	return Insert(ctx, r.db, character)
}

// Get retrieves a character by ID
func (r *postgresRepo) Get(ctx context.Context, id string) (*entities.FinishedCharacter, error) {
	if id == "" {
		return nil, apperr.InvalidArgument("character ID is required")
	}

	query, args, err := squirrel.
		Select(selectColumns...).
		From(tableName).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, apperr.Wrap(err, "failed to build character query")
	}

	character, err := scanCharacter(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, postgres.ErrNoRows) {
		return nil, apperr.NotFoundf("character with ID '%s' not found", id).
			WithMeta("character_id", id)
	}
	if err != nil {
		return nil, apperr.Wrap(err, "failed to get character")
	}

	return character, nil
}

// ListByOwner returns an owner's characters, oldest first
func (r *postgresRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entities.FinishedCharacter, error) {
	if ownerID == "" {
		return nil, apperr.InvalidArgument("owner ID is required")
	}

	query, args, err := squirrel.
		Select(selectColumns...).
		From(tableName).
		Where(squirrel.Eq{"user_id": ownerID}).
		OrderBy("created_at ASC", "id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, apperr.Wrap(err, "failed to build character list query")
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to list characters")
	}
	defer rows.Close()

	result := make([]*entities.FinishedCharacter, 0)
	for rows.Next() {
		character, err := scanCharacter(rows)
		if err != nil {
			return nil, apperr.Wrap(err, "failed to scan character")
		}
		result = append(result, character)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(err, "failed to iterate characters")
	}

	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCharacter(row scanner) (*entities.FinishedCharacter, error) {
	var (
		character entities.FinishedCharacter
		draftJSON []byte
	)
	if err := row.Scan(&character.ID, &character.OwnerID, &character.Name, &draftJSON, &character.CreatedAt); err != nil {
		return nil, err
	}

	character.Draft = entities.CharacterDraft{}
	if err := json.Unmarshal(draftJSON, &character.Draft); err != nil {
		return nil, err
	}
	return &character, nil
}
