// legbuild builds coupon legs from YAML or JSON requests and prints them as JSON.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meenmo/couponleg/cmd/legbuild/internal/logger"
	"github.com/meenmo/couponleg/config"
	"github.com/meenmo/couponleg/leg"
	"github.com/meenmo/couponleg/legstore"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// saver is the part of legstore.Store the commands use.
type saver interface {
	SaveLeg(ctx context.Context, name, kind string, l leg.Leg) (int64, error)
	Close() error
}

var openStore = func(ctx context.Context, dsn string) (saver, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("store.dsn is not set (COUPONLEG_STORE_DSN)")
	}
	s, err := legstore.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "legbuild",
		Short:         "Build fixed, floating and CMS coupon legs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var (
				cfg *config.Config
				err error
			)
			configFile, _ := cmd.Flags().GetString("config")
			if configFile != "" {
				cfg, err = config.LoadFromFile(configFile)
			} else {
				cfg, err = config.Load()
			}
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if level, _ := cmd.Flags().GetString("log-level"); level != "" {
				cfg.Logging.Level = level
			}
			config.SetConfig(*cfg)
			logger.Init(cfg.Logging, cmd.ErrOrStderr())
			return nil
		},
	}
	root.PersistentFlags().String("config", "", "config file path (default: ./config/couponleg.yaml)")
	root.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(newBuildCmd(), newBatchCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "legbuild %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit:  %s\n", commit)
		},
	}
}
