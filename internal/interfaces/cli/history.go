package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/example/parking-scheduler/internal/domain/parking"
	"github.com/example/parking-scheduler/internal/infrastructure/postgres"
	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs recorded in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.DatabaseURL == "" {
				return fmt.Errorf("%w: DATABASE_URL is required for history", parking.ErrConfiguration)
			}
			pool, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			runs, err := postgres.NewRunRepo(pool).List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printRuns(cmd, runs)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to show")
	return cmd
}

func printRuns(cmd *cobra.Command, runs []parking.Run) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tTARGET\tRESULT\tSPOT\tERROR")
	for _, r := range runs {
		result := "failed"
		switch {
		case r.FinishedAt == nil:
			result = "running"
		case r.Outcome.Succeeded:
			result = "reserved"
		}
		target := ""
		if len(r.Targets) > 0 {
			target = r.Targets[0]
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.StartedAt.Format(time.RFC3339), target, result, dash(r.Outcome.Spot), dash(r.Outcome.Error))
	}
	_ = w.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
