// Package v2 assembles the interaction pipeline the bot runs on.
package v2

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/KirkDiggler/charcraft/internal/discord/v2/core"
	"github.com/KirkDiggler/charcraft/internal/discord/v2/handlers"
	"github.com/KirkDiggler/charcraft/internal/discord/v2/middleware"
	"github.com/KirkDiggler/charcraft/internal/discord/v2/routers"
	"github.com/KirkDiggler/charcraft/internal/services"
)

// Config tunes the pipeline
type Config struct {
	RateLimitPerSecond float64
	RateLimitBurst     int

	// Observer receives per-interaction metrics; nil disables them
	Observer middleware.InteractionObserver

	Logger *zap.Logger
}

// Bot is the wired pipeline plus the commands it serves
type Bot struct {
	pipeline *core.Pipeline
	commands []*discordgo.ApplicationCommand
	logger   *zap.Logger
}

// Setup builds the pipeline with global middleware and every router
func Setup(provider *services.Provider, cfg *Config) (*Bot, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	pipeline := core.NewPipeline(logger.Named("pipeline"))

	// Outermost first. Metrics sits inside the error middleware so failed
	// handlers are still counted before the error becomes a reply.
	pipeline.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(middleware.DefaultLogConfig(logger.Named("interactions"))),
		middleware.ErrorMiddleware(middleware.DefaultErrorConfig(logger)),
	)
	if cfg.Observer != nil {
		pipeline.Use(middleware.MetricsMiddleware(cfg.Observer))
	}
	if cfg.RateLimitPerSecond > 0 {
		pipeline.Use(middleware.UserRateLimitMiddleware(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	}

	deferConfig := middleware.DefaultDeferConfig()
	deferConfig.Logger = logger
	// a modal must be the first reply to the click
	deferConfig.SkipDeferFor = []middleware.DeferSkipRule{
		{Domain: routers.CharacterDomain, Action: handlers.ActionCustom},
	}
	pipeline.Use(middleware.DeferMiddleware(deferConfig))

	if _, err := routers.NewCharacterRouter(pipeline, provider, logger); err != nil {
		return nil, fmt.Errorf("failed to create character router: %w", err)
	}

	return &Bot{
		pipeline: pipeline,
		commands: []*discordgo.ApplicationCommand{routers.CharacterCommand()},
		logger:   logger,
	}, nil
}

// Pipeline returns the underlying pipeline
func (b *Bot) Pipeline() *core.Pipeline {
	return b.pipeline
}

// Commands returns the application commands to register
func (b *Bot) Commands() []*discordgo.ApplicationCommand {
	return b.commands
}

// HandleInteraction is the discordgo event handler
func (b *Bot) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := b.pipeline.Execute(context.Background(), s, i); err != nil {
		b.logger.Error("failed to handle interaction",
			zap.Error(err),
			zap.String("interaction_id", i.ID))
	}
}

// CommandRegistrar is the part of *discordgo.Session used to publish commands
type CommandRegistrar interface {
	ApplicationCommandBulkOverwrite(appID, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// RegisterCommands replaces the application's commands. An empty guildID
// registers them globally.
func (b *Bot) RegisterCommands(api CommandRegistrar, appID, guildID string) error {
	registered, err := api.ApplicationCommandBulkOverwrite(appID, guildID, b.commands)
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}
	for _, cmd := range registered {
		b.logger.Info("registered command",
			zap.String("name", cmd.Name),
			zap.String("guild_id", guildID))
	}
	return nil
}
