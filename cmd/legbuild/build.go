package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/meenmo/couponleg/cmd/legbuild/internal/logger"
	"github.com/meenmo/couponleg/cmd/legbuild/internal/report"
	"github.com/meenmo/couponleg/cmd/legbuild/internal/request"
	"github.com/meenmo/couponleg/config"
)

func newBuildCmd() *cobra.Command {
	var (
		inputPath string
		store     bool
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build one leg",
		Long: `Read one leg request (YAML or JSON) from -input or stdin, build the leg
and print its coupons as JSON. With --store the leg is also saved to Postgres.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := request.ReadInput(cmd.InOrStdin(), inputPath)
			if err != nil {
				return writeError(cmd.OutOrStdout(), fmt.Errorf("failed to read input: %w", err))
			}
			req, err := request.Decode(bytes.NewReader(raw))
			if err != nil {
				return writeError(cmd.OutOrStdout(), err)
			}

			log := logger.Log.WithFields(logrus.Fields{"leg": req.Name, "kind": req.Kind})
			if logger.Log.IsLevelEnabled(logrus.DebugLevel) {
				if body, err := req.Marshal(); err == nil {
					log.Debugf("request:\n%s", body)
				}
			}

			l, err := req.Build(config.GetConfig().Defaults)
			if err != nil {
				log.WithError(err).Error("build failed")
				return writeError(cmd.OutOrStdout(), err)
			}
			rep := report.New(req.Name, req.Kind, l)
			log.WithField("coupons", len(l)).Info("leg built")

			if store {
				s, err := openStore(cmd.Context(), config.GetConfig().Store.DSN)
				if err != nil {
					return writeError(cmd.OutOrStdout(), err)
				}
				defer s.Close()
				if rep.LegID, err = s.SaveLeg(cmd.Context(), req.Name, req.Kind, l); err != nil {
					return writeError(cmd.OutOrStdout(), err)
				}
				log.WithField("leg_id", rep.LegID).Info("leg stored")
			}
			return writeJSON(cmd.OutOrStdout(), rep)
		},
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "request file path (default: stdin)")
	cmd.Flags().BoolVar(&store, "store", false, "save the leg to the configured Postgres store")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeError prints the failure as JSON on stdout and returns it for the exit code.
func writeError(w io.Writer, err error) error {
	_ = writeJSON(w, struct {
		Error string `json:"error"`
	}{err.Error()})
	return err
}
