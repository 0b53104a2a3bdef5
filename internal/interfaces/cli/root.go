package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/example/parking-scheduler/internal/infrastructure/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	verbose    bool

	cfg config.Config
	log *zap.Logger

	clock func() time.Time
}

// now is the wall clock in the reservation zone. Target dates are always
// resolved against it.
func (a *app) now() time.Time {
	clock := a.clock
	if clock == nil {
		clock = time.Now
	}
	loc := a.cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return clock().In(loc)
}

func NewRoot() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "parksched",
		Short:         "Books a workplace parking space on Parkalot the moment the booking window opens",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	cmd.PersistentFlags().StringVar(&a.configPath, "config", os.Getenv(config.FileEnv), "YAML config file (env "+config.FileEnv+")")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(newRunCmd(a))
	cmd.AddCommand(newPingCmd(a))
	cmd.AddCommand(newTargetsCmd(a))
	cmd.AddCommand(newHistoryCmd(a))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	log, err := newLogger(a.verbose, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.cfg, a.log = cfg, log
	return nil
}

func Execute() {
	if err := NewRoot().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
