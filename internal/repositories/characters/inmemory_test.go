package characters_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/charcraft/internal/entities"
	apperr "github.com/KirkDiggler/charcraft/internal/errors"
	"github.com/KirkDiggler/charcraft/internal/repositories/characters"
)

func newCharacter(id, owner string, createdAt time.Time) *entities.FinishedCharacter {
	return entities.NewFinishedCharacter(id, owner, entities.CharacterDraft{"name": "Aria", "age": "17"}, createdAt)
}

func TestInMemoryRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := characters.NewInMemoryRepository()
	char := newCharacter("c1", "user-1", time.Now())

	require.NoError(t, repo.Create(ctx, char))

	got, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Aria", got.Name)
	assert.Equal(t, "17", got.Draft["age"])

	// stored copy is independent of the caller's value
	char.Draft["age"] = "99"
	got, err = repo.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "17", got.Draft["age"])
}

func TestInMemoryRepository_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := characters.NewInMemoryRepository()

	require.NoError(t, repo.Create(ctx, newCharacter("c1", "user-1", time.Now())))
	err := repo.Create(ctx, newCharacter("c1", "user-1", time.Now()))

	assert.True(t, apperr.IsAlreadyExists(err))
}

func TestInMemoryRepository_Validation(t *testing.T) {
	ctx := context.Background()
	repo := characters.NewInMemoryRepository()

	assert.True(t, apperr.IsInvalidArgument(repo.Create(ctx, nil)))
	assert.True(t, apperr.IsInvalidArgument(repo.Create(ctx, newCharacter("", "user-1", time.Now()))))

	_, err := repo.Get(ctx, "missing")
	assert.True(t, apperr.IsNotFound(err))
}

func TestInMemoryRepository_ListByOwner(t *testing.T) {
	ctx := context.Background()
	repo := characters.NewInMemoryRepository()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newCharacter("late", "user-1", base.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, newCharacter("early", "user-1", base)))
	require.NoError(t, repo.Create(ctx, newCharacter("other", "user-2", base)))

	list, err := repo.ListByOwner(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "early", list[0].ID)
	assert.Equal(t, "late", list[1].ID)

	empty, err := repo.ListByOwner(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
