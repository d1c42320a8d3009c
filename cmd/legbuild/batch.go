package main

import (
	"bytes"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/meenmo/couponleg/cmd/legbuild/internal/logger"
	"github.com/meenmo/couponleg/cmd/legbuild/internal/report"
	"github.com/meenmo/couponleg/cmd/legbuild/internal/request"
	"github.com/meenmo/couponleg/config"
	"github.com/meenmo/couponleg/leg"
)

func newBatchCmd() *cobra.Command {
	var (
		inputPath string
		store     bool
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Build every leg of a request file",
		Long: `Read a file of the form "legs: [...]" and build the legs concurrently,
bounded by batch.concurrency. Output order follows input order; a leg that
fails to build carries an error field and does not stop the others.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := request.ReadInput(cmd.InOrStdin(), inputPath)
			if err != nil {
				return writeError(cmd.OutOrStdout(), fmt.Errorf("failed to read input: %w", err))
			}
			file, err := request.DecodeFile(bytes.NewReader(raw))
			if err != nil {
				return writeError(cmd.OutOrStdout(), err)
			}

			cfg := config.GetConfig()
			reports := make([]report.LegReport, len(file.Legs))
			legs := make([]leg.Leg, len(file.Legs))

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(cfg.Batch.Concurrency)
			for i := range file.Legs {
				i := i
				req := &file.Legs[i]
				g.Go(func() error {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					l, err := req.Build(cfg.Defaults)
					if err != nil {
						logger.Log.WithFields(logrus.Fields{"leg": req.Name, "kind": req.Kind}).WithError(err).Warn("build failed")
						reports[i] = report.Failed(req.Name, req.Kind, err)
						return nil
					}
					legs[i] = l
					reports[i] = report.New(req.Name, req.Kind, l)
					logger.Log.WithFields(logrus.Fields{"leg": req.Name, "coupons": len(l)}).Debug("leg built")
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return writeError(cmd.OutOrStdout(), err)
			}

			failed := 0
			for _, r := range reports {
				if r.Error != "" {
					failed++
				}
			}
			logger.Log.WithFields(logrus.Fields{"legs": len(reports), "failed": failed}).Info("batch built")

			if store {
				s, err := openStore(cmd.Context(), cfg.Store.DSN)
				if err != nil {
					return writeError(cmd.OutOrStdout(), err)
				}
				defer s.Close()
				for i, l := range legs {
					if l == nil {
						continue
					}
					id, err := s.SaveLeg(cmd.Context(), reports[i].Name, reports[i].Kind, l)
					if err != nil {
						reports[i].Error = err.Error()
						failed++
						continue
					}
					reports[i].LegID = id
				}
			}

			if err := writeJSON(cmd.OutOrStdout(), reports); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d legs failed", failed, len(reports))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "request file path (default: stdin)")
	cmd.Flags().BoolVar(&store, "store", false, "save the legs to the configured Postgres store")
	return cmd
}
