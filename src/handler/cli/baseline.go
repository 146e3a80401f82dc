package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"marklint/src/controller"
)

func (h *Handler) baselineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage the accepted-issue baseline",
	}
	cmd.AddCommand(h.baselineCreateCmd())
	return cmd
}

func (h *Handler) baselineCreateCmd() *cobra.Command {
	var (
		description string
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "create [path]",
		Short: "Snapshot all current issues as accepted",
		Long:  "Analyzes the project and records every current diagnostic in the baseline so later runs only report new issues",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			analysisCtrl := controller.NewAnalysisController(h.cfg, h.registry, h.symbols)
			baselineCtrl := controller.NewBaselineController(h.cfg, analysisCtrl)

			outPath, count, err := baselineCtrl.Create(ctx, path, description)
			if err != nil {
				return fmt.Errorf("creating baseline: %w", err)
			}

			fmt.Printf("Baseline with %d issue(s) written to %s\n", count, outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Baseline description")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 5*time.Minute, "Analysis timeout")

	return cmd
}
