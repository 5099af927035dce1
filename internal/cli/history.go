package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/FranksOps/dossier/internal/history"
	"github.com/FranksOps/dossier/internal/search"
)

var (
	historyQuery string
	historyType  string
	historySince time.Duration
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect archived search runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, most recent first",
	RunE:  runHistoryList,
}

func init() {
	historyListCmd.Flags().StringVar(&historyQuery, "query", "", "filter by exact query text")
	historyListCmd.Flags().StringVar(&historyType, "type", "", "filter by query type")
	historyListCmd.Flags().DurationVar(&historySince, "since", 0, "only runs newer than this age, e.g. 24h")
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum runs to list")
	historyCmd.AddCommand(historyListCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("history is not configured; set history.driver and history.dsn")
	}
	defer store.Close()

	filter := history.Filter{
		QueryText: historyQuery,
		QueryType: search.QueryType(historyType),
		Limit:     historyLimit,
	}
	if historySince > 0 {
		cutoff := time.Now().UTC().Add(-historySince)
		filter.Since = &cutoff
	}

	runs, err := store.ListRuns(ctx, filter)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tQUERY\tTYPE\tPLATFORMS\tFOUND\tRUN ID")
	for _, run := range runs {
		stats := run.Stats()
		fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%d\t%s\n",
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Query.Text,
			run.Query.Type,
			stats.Completed,
			stats.Total,
			stats.Found,
			run.ID,
		)
	}
	return w.Flush()
}
