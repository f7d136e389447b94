package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/charcraft/internal/clients/completion"
	"github.com/KirkDiggler/charcraft/internal/config"
	v2 "github.com/KirkDiggler/charcraft/internal/discord/v2"
	"github.com/KirkDiggler/charcraft/internal/logging"
	"github.com/KirkDiggler/charcraft/internal/metrics"
	"github.com/KirkDiggler/charcraft/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "bot: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ValidateBot(); err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Development: cfg.Log.Development})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if envErr != nil {
		logger.Debug("no .env file found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := services.OpenRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer repos.Close()

	if repos.Postgres != nil {
		applied, err := repos.Postgres.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
		if len(applied) > 0 {
			logger.Info("applied migrations", zap.Strings("versions", applied))
		}
	}

	client, err := completion.NewGemini(ctx, &completion.Config{
		APIKey:  cfg.Completion.APIKey,
		Model:   cfg.Completion.Model,
		Timeout: cfg.Completion.Timeout,
		Logger:  logging.Component(logger, "completion"),

		ThinkingBudget: cfg.Completion.ThinkingBudget,
	})
	if err != nil {
		return fmt.Errorf("failed to create completion client: %w", err)
	}

	location, err := cfg.Quota.Location()
	if err != nil {
		return err
	}

	m := metrics.New()
	provider := services.NewProvider(&services.ProviderConfig{
		Repositories: repos,
		Completion:   client,
		Quota: services.QuotaSettings{
			DailyLimit: cfg.Quota.DailyLimit,
			Location:   location,
			Strict:     cfg.Quota.Strict,
		},
		Metrics: m,
		Logger:  logger,
	})

	bot, err := v2.Setup(provider, &v2.Config{
		RateLimitPerSecond: cfg.Discord.RateLimitPerSecond,
		RateLimitBurst:     cfg.Discord.RateLimitBurst,
		Observer:           m,
		Logger:             logger,
	})
	if err != nil {
		return err
	}

	dg, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}
	dg.AddHandler(bot.HandleInteraction)
	dg.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		logger.Info("connected to discord", zap.String("user", r.User.Username))
	})

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	defer func() {
		if err := dg.Close(); err != nil {
			logger.Error("failed to close Discord connection", zap.Error(err))
		}
	}()

	if err := bot.RegisterCommands(dg, cfg.Discord.AppID, cfg.Discord.GuildID); err != nil {
		return err
	}
	if cfg.Discord.GuildID == "" {
		logger.Info("registered global commands, they may take up to an hour to propagate")
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Metrics.Addr != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           metricsMux(m),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info("serving metrics", zap.String("addr", cfg.Metrics.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return nil
	})

	return g.Wait()
}

func metricsMux(m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
