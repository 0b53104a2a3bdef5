package cli

import (
	"fmt"

	"github.com/example/parking-scheduler/internal/application/usecases"
	"github.com/spf13/cobra"
)

func newPingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the site login works, without reserving",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := usecases.CheckLogin{
				Credentials:   a.cfg.Credentials,
				Sessions:      a.launcher(),
				Auth:          a.provider(),
				ScreenshotDir: a.cfg.ScreenshotDir,
				Log:           a.log,
			}
			if err := uc.Execute(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", a.cfg.BaseURL)
			return nil
		},
	}
}
