package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	apperr "github.com/KirkDiggler/charcraft/internal/errors"
	"github.com/KirkDiggler/charcraft/internal/progress"
)

func newSessionCmd(opts *rootOptions, run runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or reset in-progress sessions",
	}

	show := &cobra.Command{
		Use:   "show <user>",
		Short: "Show a user's in-progress session",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			session, err := a.provider.Repositories.Sessions.Get(ctx, args[0])
			if apperr.IsNotFound(err) {
				fmt.Fprintf(out, "no session for %s\n", args[0])
				return nil
			}
			if err != nil {
				return err
			}

			prog := progress.Evaluate(a.provider.Registry, session.Draft)
			if opts.json {
				return printJSON(out, map[string]any{
					"session":  session,
					"progress": prog,
				})
			}

			fmt.Fprintf(out, "owner:    %s\n", session.OwnerID)
			fmt.Fprintf(out, "progress: %s (%d/%d)\n", prog.Bar(), prog.CompletedCount, prog.TotalCount)
			fmt.Fprintf(out, "current:  %s\n", orNone(session.CurrentFieldKey))
			fmt.Fprintf(out, "updated:  %s\n\n", session.UpdatedAt.Format("2006-01-02 15:04:05"))

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, f := range a.provider.Registry.All() {
				if session.Draft.IsAnswered(f.Key) {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Key, f.Label, session.Draft.Value(f.Key))
				}
			}
			return tw.Flush()
		}),
	}

	reset := &cobra.Command{
		Use:   "reset <user>",
		Short: "Delete a user's in-progress session",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			if err := a.provider.Repositories.Sessions.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "session for %s deleted\n", args[0])
			return nil
		}),
	}

	cmd.AddCommand(show, reset)
	return cmd
}

func newUsageCmd(opts *rootOptions, run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "usage <user>",
		Short: "Show today's completion usage",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			status, err := a.provider.QuotaService.CheckLimit(ctx, args[0])
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), status)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d used on %s (%d remaining)\n",
				args[0], status.Used, status.Limit, status.Date, status.Remaining)
			return nil
		}),
	}
}

func newCharactersCmd(opts *rootOptions, run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "characters <user>",
		Short: "List a user's finished characters",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			characters, err := a.provider.Repositories.Characters.ListByOwner(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, characters)
			}
			if len(characters) == 0 {
				fmt.Fprintf(out, "no characters for %s\n", args[0])
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCREATED")
			for _, c := range characters {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Name, c.CreatedAt.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		}),
	}
}

func newMigrateCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the Postgres schema",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
			pg := a.provider.Repositories.Postgres
			if pg == nil {
				return fmt.Errorf("migrate needs STORE_BACKEND=postgres, got %q", a.provider.Repositories.Backend)
			}
			applied, err := pg.Migrate(ctx)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
				return nil
			}
			for _, v := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", v)
			}
			return nil
		}),
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
