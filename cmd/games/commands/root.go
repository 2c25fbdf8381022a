// Package commands holds the games CLI.
package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/fortuna/games/internal/collect"
	"github.com/fortuna/games/internal/config"
	"github.com/fortuna/games/internal/ingest/leaderboard"
	"github.com/fortuna/games/internal/telemetry"
	"github.com/spf13/cobra"
)

const (
	appName    = "games"
	appVersion = "1.0.0"
)

// NewRootCmd builds the games command tree.
func NewRootCmd() *cobra.Command {
	var (
		baseURL  string
		logLevel string
		policy   string
		timeout  string
	)

	root := &cobra.Command{
		Use:           appName,
		Short:         "games pulls CrossFit Games leaderboards into tables.",
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("base-url") {
				cfg.APIBase = baseURL
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if flags.Changed("policy") {
				cfg.ErrorPolicy = policy
			}
			if flags.Changed("timeout") {
				cfg.HTTPTimeout, err = parseDuration(timeout)
				if err != nil {
					return err
				}
			}

			level, err := config.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			p, err := collect.ParsePolicy(cfg.ErrorPolicy)
			if err != nil {
				return err
			}

			logger := config.NewLogger(cmd.ErrOrStderr(), level)

			tel, err := telemetry.Setup(cmd.Context(), appName, appVersion, cfg.TraceEndpoint)
			if err != nil {
				return err
			}
			shutdownAfterRun(cmd, tel)

			client := leaderboard.New(cfg.APIBase,
				leaderboard.WithLogger(logger),
				leaderboard.WithTimeout(cfg.HTTPTimeout),
			)

			cmd.SetContext(setValue(cmd.Context(), &Value{
				Config:    cfg,
				Logger:    logger,
				Collector: collect.New(client, logger, p),
			}))
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&baseURL, "base-url", leaderboard.BaseURL, "leaderboard API base URL (env GAMES_API_BASE)")
	pf.StringVar(&logLevel, "log-level", "info", "debug, info, warn, error or critical (env LOG_LEVEL)")
	pf.StringVar(&policy, "policy", collect.PolicyLegacy.String(), "error policy: legacy, continue or propagate (env GAMES_ERROR_POLICY)")
	pf.StringVar(&timeout, "timeout", leaderboard.DefaultTimeout.String(), "per-request timeout (env GAMES_HTTP_TIMEOUT)")

	root.AddCommand(
		newDumpCmd(),
		newInfoCmd(),
		newCompetitorsCmd(),
		newScoresCmd(),
		newServeCmd(),
	)
	return root
}

// shutdownAfterRun flushes tel once cmd's RunE returns. Cobra skips
// PersistentPostRunE when RunE fails, so the flush is attached to RunE.
func shutdownAfterRun(cmd *cobra.Command, tel telemetry.Telemetry) {
	run := cmd.RunE
	if run == nil {
		return
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		return errors.Join(err, tel.Shutdown(context.Background()))
	}
}

// Execute runs the CLI with ctx.
func Execute(ctx context.Context, args []string) error {
	root := NewRootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		return fmt.Errorf("%s: %w", appName, err)
	}
	return nil
}
