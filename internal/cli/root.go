// Package cli implements the dossier command tree. Commands assemble the
// engine from configuration; nothing in here contains search logic.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/FranksOps/dossier/internal/config"
	"github.com/FranksOps/dossier/internal/fingerprint"
	"github.com/FranksOps/dossier/internal/history"
	"github.com/FranksOps/dossier/internal/history/postgres"
	"github.com/FranksOps/dossier/internal/history/sqlite"
	"github.com/FranksOps/dossier/internal/metrics"
	"github.com/FranksOps/dossier/internal/platform"
	"github.com/FranksOps/dossier/internal/search"
	"github.com/FranksOps/dossier/pkg/proxy"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "dossier",
	Short: "Search for an identity across multiple platforms",
	Long: `Dossier fans a single query (email, phone, username or name) out over
a set of platform adapters, one platform at a time with a fixed delay
between calls, and aggregates the per-platform outcomes into one report.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel(cfg.LogLevel),
		}))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// buildRegistry assembles the adapter registry from configuration and wraps
// every adapter with Prometheus instrumentation.
func buildRegistry() (*search.Registry, error) {
	pcfg := platform.Config{
		Timeout:     cfg.Adapters.Timeout,
		Fingerprint: fingerprint.Profile(cfg.Adapters.Fingerprint),
		GitHubToken: cfg.Adapters.GitHubToken,
		HunterKey:   cfg.Adapters.HunterKey,
	}

	if cfg.Adapters.ProxiesFile != "" {
		pool := proxy.NewPool(proxy.Config{})
		if err := pool.LoadFile(cfg.Adapters.ProxiesFile); err != nil {
			return nil, fmt.Errorf("load proxies: %w", err)
		}
		pcfg.ProxyPool = pool
	}

	reg, err := platform.DefaultRegistry(pcfg)
	if err != nil {
		return nil, fmt.Errorf("build adapter registry: %w", err)
	}
	metrics.InstrumentRegistry(reg)
	return reg, nil
}

// openStore opens the configured run archive, or returns (nil, nil) when
// history is disabled.
func openStore(ctx context.Context) (history.Store, error) {
	switch cfg.History.Driver {
	case "sqlite":
		return sqlite.New(cfg.History.DSN)
	case "postgres":
		return postgres.New(ctx, cfg.History.DSN)
	default:
		return nil, nil
	}
}
