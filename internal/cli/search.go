package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/FranksOps/dossier/internal/metrics"
	"github.com/FranksOps/dossier/internal/report"
	"github.com/FranksOps/dossier/internal/search"
	"github.com/FranksOps/dossier/pkg/pacer"
)

var (
	searchType      string
	searchPlatforms []string
	searchInterval  time.Duration
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the platforms for a query",
	Long: `Runs the query against each requested platform in order, one at a
time. Progress goes to stderr, the final report to stdout. Interrupting the
run keeps the results gathered so far.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchType, "type", "t", "username", "query type: email, phone, username or name")
	searchCmd.Flags().StringSliceVarP(&searchPlatforms, "platforms", "p", nil, "platforms to search (default: all registered)")
	searchCmd.Flags().DurationVar(&searchInterval, "interval", 0, "delay between platform calls (default: from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	reg, err := buildRegistry()
	if err != nil {
		return err
	}

	platforms := searchPlatforms
	if len(platforms) == 0 {
		platforms = reg.IDs()
	}

	interval := cfg.Pacer.Interval
	if searchInterval > 0 {
		interval = searchInterval
	}

	engine := search.NewEngine(reg, search.Options{
		Pacer:          pacer.New(interval, cfg.Pacer.Jitter),
		AdapterTimeout: cfg.Adapters.Timeout,
		Logger:         logger,
	})

	q := search.Query{Text: args[0], Type: search.QueryType(searchType)}
	run, runErr := engine.Run(ctx, q, platforms, func(ev search.ProgressEvent) {
		fmt.Fprintf(os.Stderr, "[%5.1f%%] %s\n", ev.Percent, ev.Message)
	})

	var verr *search.ValidationError
	switch {
	case errors.As(runErr, &verr):
		metrics.RecordRun("rejected")
		return verr
	case runErr != nil:
		metrics.RecordRun("canceled")
		fmt.Fprintln(os.Stderr, "search interrupted; reporting partial results")
	default:
		metrics.RecordRun("completed")
	}

	archiveRun(ctx, run)

	summary := report.FromRun(run)
	if searchJSON {
		return report.WriteJSON(os.Stdout, summary)
	}
	return report.WriteText(os.Stdout, summary)
}

// archiveRun saves the run when history is configured. The search context may
// already be canceled by the interrupt that produced a partial run, so the
// archive step runs detached from it.
func archiveRun(ctx context.Context, run *search.Run) {
	ctx = context.WithoutCancel(ctx)

	store, err := openStore(ctx)
	if err != nil {
		logger.Error("failed to open history store", "err", err)
		return
	}
	if store == nil {
		return
	}
	defer store.Close()

	if err := store.SaveRun(ctx, run); err != nil {
		logger.Error("failed to archive run", "run_id", run.ID, "err", err)
	}
}
