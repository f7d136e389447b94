package services

import (
	"time"

	"go.uber.org/zap"

	"github.com/KirkDiggler/charcraft/internal/clients/completion"
	"github.com/KirkDiggler/charcraft/internal/fields"
	"github.com/KirkDiggler/charcraft/internal/prompts"
	"github.com/KirkDiggler/charcraft/internal/services/creation"
	"github.com/KirkDiggler/charcraft/internal/services/quota"
	"github.com/KirkDiggler/charcraft/internal/uuid"
)

// Provider holds all service instances
type Provider struct {
	Registry        *fields.Registry
	Repositories    *Repositories
	QuotaService    quota.Service
	CreationService creation.Service // nil when no completion client was configured
}

// QuotaSettings configures the quota service
type QuotaSettings struct {
	DailyLimit int
	Location   *time.Location
	Strict     bool
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	Repositories *Repositories            // Optional, defaults to in-memory
	Completion   completion.Client        // Optional, the creation service needs it
	Quota        QuotaSettings            // Optional
	Metrics      creation.MetricsRecorder // Optional
	Logger       *zap.Logger              // Optional
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) *Provider {
	if cfg == nil {
		cfg = &ProviderConfig{}
	}

	repos := cfg.Repositories
	if repos == nil {
		repos = NewInMemoryRepositories()
	}

	registry := fields.NewRegistry()

	quotaService := quota.NewService(&quota.ServiceConfig{
		Repository: repos.Usage,
		DailyLimit: cfg.Quota.DailyLimit,
		Location:   cfg.Quota.Location,
		Strict:     cfg.Quota.Strict,
		Logger:     cfg.Logger,
	})

	provider := &Provider{
		Registry:     registry,
		Repositories: repos,
		QuotaService: quotaService,
	}

	if cfg.Completion != nil {
		provider.CreationService = creation.NewService(&creation.ServiceConfig{
			Registry:            registry,
			Composer:            prompts.NewComposer(registry),
			SessionRepository:   repos.Sessions,
			CharacterRepository: repos.Characters,
			Quota:               quotaService,
			Completion:          cfg.Completion,
			UUIDGenerator:       uuid.NewRandomGenerator(),
			Metrics:             cfg.Metrics,
			Logger:              cfg.Logger,
		})
	}

	return provider
}
