package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/parking-scheduler/internal/domain/parking"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		date   string
		noWait bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Log in, wait for the booking window and reserve next week's space",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dates, err := resolver(date)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			pool := a.optionalDB(ctx)
			if pool != nil {
				defer pool.Close()
			}

			uc := a.reserveParking(dates, a.cfg.GateEnabled && !noWait, pool)
			run, err := uc.Execute(ctx)
			if err != nil {
				return err
			}

			status := "FAILED"
			if run.Outcome.Succeeded {
				status = "RESERVED"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s run=%s", status, run.Targets, run.ID)
			if run.Outcome.Spot != "" {
				fmt.Fprintf(cmd.OutOrStdout(), " spot=%s", run.Outcome.Spot)
			}
			if run.Outcome.Error != "" {
				fmt.Fprintf(cmd.OutOrStdout(), " error=%q", run.Outcome.Error)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "reserve this day (YYYY-MM-DD) instead of one week ahead")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "skip the booking-window wait")
	return cmd
}

func resolver(date string) (parking.DateResolver, error) {
	if date == "" {
		return parking.WeekAhead{}, nil
	}
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return nil, fmt.Errorf("%w: --date must be YYYY-MM-DD: %w", parking.ErrConfiguration, err)
	}
	return parking.FixedDate{Date: t}, nil
}
