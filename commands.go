package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"javadocbot/internal/config"
	"javadocbot/internal/services"
	"javadocbot/internal/state"
)

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "javadocbot",
		Short:         "Scheduled Javadoc generation for a tracked Java repository",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the configuration file")

	root.AddCommand(newRunCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newStateCmd())
	root.AddCommand(newHistoryCmd())
	root.AddCommand(newSecretCmd())
	return root
}

func loadApp() (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return NewApp(cfg), nil
}

// signalContext is cancelled on SIGINT/SIGTERM so an in-flight run can stop
// between files instead of dying mid-push.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newRunCmd() *cobra.Command {
	var forceFull, dryRun bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute one documentation run now",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()
			return app.RunOnce(ctx, forceFull, dryRun)
		},
	}
	cmd.Flags().BoolVar(&forceFull, "full", false, "process every Java file instead of the commit delta")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "generate documentation but push nothing")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run on the configured cron schedule until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()
			if err := app.Serve(ctx); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}
}

func newStateCmd() *cobra.Command {
	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or reset the run state record",
	}

	stateCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current run state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			st, err := state.NewStore(cfg.State.StateFile).Load()
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(st, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	})

	var confirm bool
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Discard the run state so the next run is a full one",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("state reset discards the incremental baseline; rerun with --confirm")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := state.NewStore(cfg.State.StateFile).Reset(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "state reset; the next run will process the whole repository")
			return nil
		},
	}
	reset.Flags().BoolVar(&confirm, "confirm", false, "acknowledge that the next run re-processes everything")
	stateCmd.AddCommand(reset)
	return stateCmd
}

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs from the history archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}
			if app.history == nil {
				return fmt.Errorf("run history is not available, check state.history_db in %s", configPath)
			}
			records, err := app.history.ListRecent(limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded yet")
				return nil
			}
			for _, r := range records {
				line := fmt.Sprintf("%s  %-11s %-6s  %d files (%d classes, %d methods)",
					r.StartedAt.Format("2006-01-02 15:04"), r.Mode, r.Status,
					r.FilesDocumented, r.ClassesDocumented, r.MethodsDocumented)
				if r.Branch != "" {
					line += "  " + r.Branch
				}
				if r.Error != "" {
					line += "  error: " + r.Error
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show")
	return cmd
}

func newSecretCmd() *cobra.Command {
	secretCmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage secrets in the OS keychain",
		Long:  "Store secrets (llm_api_key, git_access_token, smtp_password, teams_webhook_url) in the OS keychain instead of config.yaml.",
	}

	secretCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a secret",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.NewKeyringService().Store(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored %s\n", args[0])
			return nil
		},
	})

	secretCmd.AddCommand(&cobra.Command{
		Use:   "delete <key>",
		Short: "Remove a stored secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.NewKeyringService().Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	})
	return secretCmd
}
