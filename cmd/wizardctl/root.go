package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KirkDiggler/charcraft/internal/config"
	"github.com/KirkDiggler/charcraft/internal/logging"
	"github.com/KirkDiggler/charcraft/internal/services"
)

// app is what every subcommand works against
type app struct {
	provider *services.Provider
	logger   *zap.Logger
}

func (a *app) Close() {
	a.provider.Repositories.Close()
	_ = a.logger.Sync()
}

type openFunc func(ctx context.Context, verbose bool) (*app, error)

func openApp(ctx context.Context, verbose bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Config{Level: level, Development: true})
	if err != nil {
		return nil, err
	}

	repos, err := services.OpenRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	location, err := cfg.Quota.Location()
	if err != nil {
		repos.Close()
		return nil, err
	}

	return &app{
		provider: services.NewProvider(&services.ProviderConfig{
			Repositories: repos,
			Quota: services.QuotaSettings{
				DailyLimit: cfg.Quota.DailyLimit,
				Location:   location,
				Strict:     cfg.Quota.Strict,
			},
			Logger: logger,
		}),
		logger: logger,
	}, nil
}

type rootOptions struct {
	verbose bool
	json    bool
	timeout time.Duration
}

func newRootCmd(open openFunc) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "wizardctl",
		Short: "Inspect and repair character wizard state",
		Long: `wizardctl talks to the same store as the bot, selected by STORE_BACKEND.

Available commands:
  session show <user>   - Show a user's in-progress session
  session reset <user>  - Delete a user's in-progress session
  usage <user>          - Show today's completion usage
  characters <user>     - List a user's finished characters
  migrate               - Apply the Postgres schema`,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "Print JSON instead of text")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Operation timeout")

	// run opens the store for one command and closes it afterwards
	run := func(fn func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			a, err := open(ctx, opts.verbose)
			if err != nil {
				return err
			}
			defer a.Close()

			return fn(ctx, a, cmd, args)
		}
	}

	root.AddCommand(
		newSessionCmd(opts, run),
		newUsageCmd(opts, run),
		newCharactersCmd(opts, run),
		newMigrateCmd(run),
	)
	return root
}

type runner func(fn func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
