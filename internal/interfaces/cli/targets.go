package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTargetsCmd(a *app) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Print the date texts a run started now would look for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dates, err := resolver(date)
			if err != nil {
				return err
			}
			for _, t := range dates.Resolve(a.now()) {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "resolve this day (YYYY-MM-DD) instead of one week ahead")
	return cmd
}
