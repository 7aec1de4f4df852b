package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/k8ika0s/bounty-ledger/internal/config"
	"github.com/k8ika0s/bounty-ledger/internal/store"
)

// app carries state shared by subcommands once the root pre-run has loaded it.
type app struct {
	cfg    config.Config
	logger *zap.Logger
}

func (a *app) closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		a.logger.Warn("close dynamic store", zap.Error(err))
	}
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}
	var verbose bool
	root := &cobra.Command{
		Use:   "bounties",
		Short: "Record and browse bounty completions",
		Long: `bounties serves the completions leaderboard and its write API, and
offers the same views from the terminal.

Configuration comes from environment variables, optionally preceded by the
YAML file named in BOUNTIES_CONFIG.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if verbose {
				cfg.LogLevel = "debug"
			}
			logger, err := cfg.Logger()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(
		newServeCmd(a),
		newLeaderboardCmd(a),
		newCompletionsCmd(a),
		newStatsCmd(a),
		newAddCmd(a),
		newImportCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
