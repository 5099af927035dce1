package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/FranksOps/dossier/internal/metrics"
	"github.com/FranksOps/dossier/internal/search"
	"github.com/FranksOps/dossier/internal/server"
	"github.com/FranksOps/dossier/pkg/pacer"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP search API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg, err := buildRegistry()
	if err != nil {
		return err
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	if cfg.Metrics.Port > 0 {
		ms := metrics.Start(cfg.Metrics.Port)
		defer ms.Stop(context.Background())
		logger.Info("metrics endpoint up", "port", cfg.Metrics.Port)
	}

	engine := search.NewEngine(reg, search.Options{
		Pacer:          pacer.New(cfg.Pacer.Interval, cfg.Pacer.Jitter),
		AdapterTimeout: cfg.Adapters.Timeout,
		Logger:         logger,
	})

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := server.New(server.Config{
		Addr:            addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, engine, reg, store, logger)

	return srv.Run(ctx)
}
