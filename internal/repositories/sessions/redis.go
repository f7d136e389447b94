package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/charcraft/internal/entities"
	apperr "github.com/KirkDiggler/charcraft/internal/errors"
	"github.com/KirkDiggler/charcraft/internal/repositories/characters"
)

type redisRepo struct {
	client redis.UniversalClient
}

// NewRedis creates a Redis-backed session repository
func NewRedis(client redis.UniversalClient) Repository {
	if client == nil {
		panic("Redis client cannot be nil")
	}
	return &redisRepo{client: client}
}

// Key is the Redis key holding an owner's session
func Key(ownerID string) string {
	return fmt.Sprintf("creation_session:%s", ownerID)
}

func encode(session *entities.CreationSession) (string, error) {
	jsonData, err := json.Marshal(toData(session))
	if err != nil {
		return "", apperr.Wrap(err, "failed to marshal session")
	}
	return string(jsonData), nil
}

func (r *redisRepo) Upsert(ctx context.Context, session *entities.CreationSession) error {
	if err := validate(session); err != nil {
		return err
	}

	value, err := encode(session)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, Key(session.OwnerID), value, 0).Err(); err != nil {
		return apperr.Wrap(err, "failed to save session to Redis")
	}
	return nil
}

func (r *redisRepo) Get(ctx context.Context, ownerID string) (*entities.CreationSession, error) {
	if ownerID == "" {
		return nil, apperr.InvalidArgument("owner ID is required")
	}

	raw, err := r.client.Get(ctx, Key(ownerID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(ownerID)
	}
	if err != nil {
		return nil, apperr.Wrap(err, "failed to get session from Redis")
	}

	var data Data
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, apperr.Wrap(err, "failed to unmarshal session")
	}
	return fromData(data), nil
}

func (r *redisRepo) Delete(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return apperr.InvalidArgument("owner ID is required")
	}

	if err := r.client.Del(ctx, Key(ownerID)).Err(); err != nil {
		return apperr.Wrap(err, "failed to delete session from Redis")
	}
	return nil
}

// Finalize writes the session and the character inside MULTI/EXEC
func (r *redisRepo) Finalize(ctx context.Context, session *entities.CreationSession, character *entities.FinishedCharacter) error {
	if err := validateFinalize(session, character); err != nil {
		return err
	}

	value, err := encode(session)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, Key(session.OwnerID), value, 0)
	if err := characters.QueueCreate(ctx, pipe, character); err != nil {
		pipe.Discard()
		return err
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.Wrap(err, "failed to finalize session in Redis")
	}
	return nil
}
