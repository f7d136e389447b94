package sessions_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/charcraft/internal/entities"
	apperr "github.com/KirkDiggler/charcraft/internal/errors"
	"github.com/KirkDiggler/charcraft/internal/repositories/characters"
	"github.com/KirkDiggler/charcraft/internal/repositories/sessions"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestInMemoryRepository_UpsertGetDelete(t *testing.T) {
	ctx := context.Background()
	repo := sessions.NewInMemoryRepository(characters.NewInMemoryRepository())

	session := entities.NewCreationSession("user-1", "name", testNow)
	require.NoError(t, repo.Upsert(ctx, session))

	got, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "name", got.CurrentFieldKey)
	assert.Equal(t, 0, got.StepIndex)

	session.Advance(entities.CharacterDraft{"name": "Aria"}, 1, "age", testNow.Add(time.Minute))
	require.NoError(t, repo.Upsert(ctx, session))

	got, err = repo.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "age", got.CurrentFieldKey)
	assert.Equal(t, "Aria", got.Draft["name"])

	require.NoError(t, repo.Delete(ctx, "user-1"))
	require.NoError(t, repo.Delete(ctx, "user-1"))

	_, err = repo.Get(ctx, "user-1")
	assert.True(t, apperr.IsNotFound(err))
}

func TestInMemoryRepository_Finalize(t *testing.T) {
	ctx := context.Background()
	chars := characters.NewInMemoryRepository()
	repo := sessions.NewInMemoryRepository(chars)

	session := entities.NewCreationSession("user-1", "", testNow)
	session.Advance(entities.CharacterDraft{"name": "Aria"}, 20, "", testNow)
	character := entities.NewFinishedCharacter("c1", "user-1", session.Draft, testNow)

	require.NoError(t, repo.Finalize(ctx, session, character))

	stored, err := chars.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Aria", stored.Name)

	got, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 20, got.StepIndex)
	assert.False(t, got.HasCurrentField())
}

func TestInMemoryRepository_FinalizeFailureLeavesSession(t *testing.T) {
	ctx := context.Background()
	chars := characters.NewInMemoryRepository()
	repo := sessions.NewInMemoryRepository(chars)

	before := entities.NewCreationSession("user-1", "favorites", testNow)
	require.NoError(t, repo.Upsert(ctx, before))
	require.NoError(t, chars.Create(ctx, entities.NewFinishedCharacter("c1", "user-1", nil, testNow)))

	after := entities.NewCreationSession("user-1", "", testNow)
	after.Advance(entities.CharacterDraft{"name": "Aria"}, 20, "", testNow)

	err := repo.Finalize(ctx, after, entities.NewFinishedCharacter("c1", "user-1", after.Draft, testNow))
	require.True(t, apperr.IsAlreadyExists(err))

	got, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "favorites", got.CurrentFieldKey)
}

func TestInMemoryRepository_FinalizeValidation(t *testing.T) {
	ctx := context.Background()
	repo := sessions.NewInMemoryRepository(characters.NewInMemoryRepository())
	session := entities.NewCreationSession("user-1", "", testNow)

	assert.True(t, apperr.IsInvalidArgument(repo.Finalize(ctx, session, nil)))
	assert.True(t, apperr.IsInvalidArgument(repo.Finalize(ctx, session,
		entities.NewFinishedCharacter("c1", "user-2", nil, testNow))))
}
