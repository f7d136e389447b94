package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	mockcompletion "github.com/KirkDiggler/charcraft/internal/clients/completion/mock"
	"github.com/KirkDiggler/charcraft/internal/config"
	"github.com/KirkDiggler/charcraft/internal/services"
)

func TestNewProvider_Defaults(t *testing.T) {
	provider := services.NewProvider(nil)

	require.NotNil(t, provider.Repositories)
	assert.Equal(t, config.StoreMemory, provider.Repositories.Backend)
	assert.NotNil(t, provider.QuotaService)
	assert.Nil(t, provider.CreationService)
	assert.Equal(t, 20, provider.Registry.Len())
}

func TestNewProvider_WiresCreationService(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	provider := services.NewProvider(&services.ProviderConfig{
		Completion: mockcompletion.NewMockClient(ctrl),
		Quota:      services.QuotaSettings{DailyLimit: 3},
	})
	require.NotNil(t, provider.CreationService)

	result, err := provider.CreationService.Start(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Usage.Limit)

	_, err = provider.Repositories.Sessions.Get(ctx, "user-1")
	assert.NoError(t, err)
}

func TestOpenRepositories_Memory(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Backend: config.StoreMemory}}

	repos, err := services.OpenRepositories(context.Background(), cfg, zap.NewNop())

	require.NoError(t, err)
	defer repos.Close()
	assert.Nil(t, repos.Postgres)
	assert.NotNil(t, repos.Usage)
}

func TestOpenRepositories_BadRedisURL(t *testing.T) {
	cfg := &config.Config{
		Store: config.StoreConfig{Backend: config.StoreRedis},
		Redis: config.RedisConfig{URL: "not a url"},
	}

	_, err := services.OpenRepositories(context.Background(), cfg, zap.NewNop())

	assert.Error(t, err)
}
