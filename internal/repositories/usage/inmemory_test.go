package usage_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/KirkDiggler/charcraft/internal/errors"
	"github.com/KirkDiggler/charcraft/internal/repositories/usage"
)

func TestInMemoryRepository_Increment(t *testing.T) {
	ctx := context.Background()
	repo := usage.NewInMemoryRepository()

	count, err := repo.Get(ctx, "user-1", "2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	for want := 1; want <= 3; want++ {
		count, err = repo.Increment(ctx, "user-1", "2026-03-01")
		require.NoError(t, err)
		assert.Equal(t, want, count)
	}

	other, err := repo.Get(ctx, "user-1", "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, 0, other)
}

func TestInMemoryRepository_IncrementIfBelowIsBounded(t *testing.T) {
	ctx := context.Background()
	repo := usage.NewInMemoryRepository()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := repo.IncrementIfBelow(ctx, "user-1", "2026-03-01", 10)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, admitted)
	count, err := repo.Get(ctx, "user-1", "2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, 10, count)
}

func TestInMemoryRepository_Validation(t *testing.T) {
	ctx := context.Background()
	repo := usage.NewInMemoryRepository()

	_, err := repo.Increment(ctx, "", "2026-03-01")
	assert.True(t, apperr.IsInvalidArgument(err))
	_, err = repo.Get(ctx, "user-1", "")
	assert.True(t, apperr.IsInvalidArgument(err))
}
