package characters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/charcraft/internal/entities"
	apperr "github.com/KirkDiggler/charcraft/internal/errors"
)

// maxConcurrentReads bounds the per-character GETs issued by ListByOwner
const maxConcurrentReads = 8

// Data is the serialized form of a finished character in Redis
type Data struct {
	ID        string            `json:"id"`
	OwnerID   string            `json:"owner_id"`
	Name      string            `json:"name"`
	Draft     map[string]string `json:"character_data"`
	CreatedAt time.Time         `json:"created_at"`
}

func toData(c *entities.FinishedCharacter) Data {
	return Data{
		ID:        c.ID,
		OwnerID:   c.OwnerID,
		Name:      c.Name,
		Draft:     c.Draft.Clone(),
		CreatedAt: c.CreatedAt,
	}
}

func fromData(d Data) *entities.FinishedCharacter {
	return &entities.FinishedCharacter{
		ID:        d.ID,
		OwnerID:   d.OwnerID,
		Name:      d.Name,
		Draft:     entities.CharacterDraft(d.Draft).Clone(),
		CreatedAt: d.CreatedAt,
	}
}

// Key is the Redis key holding one character
func Key(id string) string {
	return fmt.Sprintf("finished_character:%s", id)
}

// OwnerKey is the Redis set of an owner's character IDs
func OwnerKey(ownerID string) string {
	return fmt.Sprintf("owner:%s:finished_characters", ownerID)
}

// QueueCreate adds the writes for a new character to pipe. Callers that need
// the character stored together with other data pass a transactional pipeline.
func QueueCreate(ctx context.Context, pipe redis.Pipeliner, character *entities.FinishedCharacter) error {
	if err := validate(character); err != nil {
		return err
	}

	jsonData, err := json.Marshal(toData(character))
	if err != nil {
		return apperr.Wrap(err, "failed to marshal character")
	}

	pipe.Set(ctx, Key(character.ID), string(jsonData), 0)
	pipe.SAdd(ctx, OwnerKey(character.OwnerID), character.ID)
	return nil
}

type redisRepo struct {
	client redis.UniversalClient
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
}

// NewRedisRepository creates a new Redis-backed character repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil {
		panic("RedisRepoConfig cannot be nil")
	}
	if cfg.Client == nil {
		panic("Redis client cannot be nil")
	}

	return &redisRepo{client: cfg.Client}
}

// NewRedis creates a new Redis-backed character repository
func NewRedis(client redis.UniversalClient) Repository {
	return NewRedisRepository(&RedisRepoConfig{Client: client})
}

// Create stores a new character
func (r *redisRepo) Create(ctx context.Context, character *entities.FinishedCharacter) error {
	if err := validate(character); err != nil {
		return err
	}

	exists, err := r.client.Exists(ctx, Key(character.ID)).Result()
	if err != nil {
		return apperr.Wrap(err, "failed to check character existence")
	}
	if exists > 0 {
		return apperr.AlreadyExistsf("character with ID '%s' already exists", character.ID).
			WithMeta("character_id", character.ID)
	}

	pipe := r.client.TxPipeline()
	if err := QueueCreate(ctx, pipe, character); err != nil {
		return err
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.Wrap(err, "failed to save character to Redis")
	}

	return nil
}

// Get retrieves a character by ID
func (r *redisRepo) Get(ctx context.Context, id string) (*entities.FinishedCharacter, error) {
	if id == "" {
		return nil, apperr.InvalidArgument("character ID is required")
	}

	raw, err := r.client.Get(ctx, Key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperr.NotFoundf("character with ID '%s' not found", id).
			WithMeta("character_id", id)
	}
	if err != nil {
		return nil, apperr.Wrap(err, "failed to get character from Redis")
	}

	var data Data
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, apperr.Wrap(err, "failed to unmarshal character")
	}

	return fromData(data), nil
}

// ListByOwner returns an owner's characters, oldest first. IDs whose record
// has gone missing are skipped.
func (r *redisRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entities.FinishedCharacter, error) {
	if ownerID == "" {
		return nil, apperr.InvalidArgument("owner ID is required")
	}

	ids, err := r.client.SMembers(ctx, OwnerKey(ownerID)).Result()
	if err != nil {
		return nil, apperr.Wrap(err, "failed to list character IDs")
	}

	loaded := make([]*entities.FinishedCharacter, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)
	for i, id := range ids {
		g.Go(func() error {
			character, err := r.Get(gctx, id)
			if apperr.IsNotFound(err) {
				return nil
			}
			if err != nil {
				return err
			}
			loaded[i] = character
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]*entities.FinishedCharacter, 0, len(loaded))
	for _, character := range loaded {
		if character != nil {
			result = append(result, character)
		}
	}
	sortByCreation(result)

	return result, nil
}
