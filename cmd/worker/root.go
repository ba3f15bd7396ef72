package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/goldenage-community/goldenage-backend/config"
	"github.com/goldenage-community/goldenage-backend/internal/bootstrap"
	"github.com/goldenage-community/goldenage-backend/internal/logging"
	"github.com/goldenage-community/goldenage-backend/internal/snapshots"
)

var logLevel string

// errInvalid signals a failed validation; the message is already printed.
var errInvalid = errors.New("document is invalid")

var rootCmd = &cobra.Command{
	Use:   "worker",
	Short: "Operator tasks for the Golden Age snapshot store",
	Long: `worker validates menu and pool-hours XML, seeds the snapshot store
from a directory of documents and prunes old snapshot versions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(logging.NewWithWriter(os.Stderr, logLevel, "development"))
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

// openStore opens the backend configured through the environment.
var openStore = func(ctx context.Context) (snapshots.Store, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	st, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return st.Store, st.Close, nil
}
