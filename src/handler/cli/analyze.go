package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"marklint/src/controller"
	"marklint/src/service/debt"
	"marklint/src/util"
)

func (h *Handler) analyzeCmd() *cobra.Command {
	var (
		outputDir  string
		format     string
		noBaseline bool
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Analyze a project directory",
		Long:  "Scans every recognized file under the path, evaluates all applicable rules and reports diagnostics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			util.Info("Analyzing %s (timeout: %v)", path, timeout)

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			analysisCtrl := controller.NewAnalysisController(h.cfg, h.registry, h.symbols)
			report, err := analysisCtrl.Analyze(ctx, controller.AnalyzeRequest{
				Path:       path,
				NoBaseline: noBaseline,
			})
			if err != nil {
				util.Error("Analysis failed: %v", err)
				return fmt.Errorf("analysis failed: %w", err)
			}

			reportCtrl := controller.NewReportController(h.cfg)
			if outputDir != "" {
				h.cfg.Output.OutputDir = outputDir
				if format != "" {
					h.cfg.Output.Formats = []string{format}
				}
				paths, err := reportCtrl.GenerateReports(report)
				if err != nil {
					return fmt.Errorf("generating reports: %w", err)
				}
				for _, p := range paths {
					fmt.Printf("Report written to %s\n", p)
				}
			} else {
				outputFormat := format
				if outputFormat == "" {
					outputFormat = "text"
				}
				output, err := reportCtrl.GenerateToString(report, outputFormat)
				if err != nil {
					data, _ := json.MarshalIndent(report, "", "  ")
					fmt.Println(string(data))
				} else {
					fmt.Println(output)
				}
			}

			fmt.Fprintf(os.Stderr, "\nAnalysis complete:\n")
			fmt.Fprintf(os.Stderr, "  Issues: %d (%d suppressed, %d baselined)\n",
				report.Summary.Total, report.Suppressed, report.Baselined)
			fmt.Fprintf(os.Stderr, "  Debt: %s, rating %s\n",
				debt.FormatDuration(report.Debt.TotalMinutes), report.Debt.Rating)

			if h.cfg.QualityGate.Enabled {
				gate := debt.Gate{
					MaxRatio:      h.cfg.QualityGate.MaxDebtRatio,
					MinRating:     h.cfg.QualityGate.MinRating,
					FailOnBlocker: h.cfg.QualityGate.FailOnBlocker,
					FailOnHigh:    h.cfg.QualityGate.FailOnHigh,
				}
				pass, reasons := gate.Evaluate(report.Debt, report.Diagnostics)
				if !pass {
					for _, reason := range reasons {
						fmt.Fprintf(os.Stderr, "  Quality gate: %s\n", reason)
					}
					return fmt.Errorf("quality gate failed")
				}
				fmt.Fprintln(os.Stderr, "  Quality gate: passed")
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory for report files")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (text, json, markdown, sarif)")
	cmd.Flags().BoolVar(&noBaseline, "no-baseline", false, "Report baselined issues too")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 5*time.Minute, "Analysis timeout")

	return cmd
}
