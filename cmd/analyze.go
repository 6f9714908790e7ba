package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/stridecanvas/stridecanvas-cli/internal/observability"
	"github.com/stridecanvas/stridecanvas-cli/internal/persistence"
	"github.com/stridecanvas/stridecanvas-cli/internal/reporting"
	"github.com/stridecanvas/stridecanvas-cli/internal/threat"
)

// newAnalyzeCmd creates and configures the `analyze` command.
func newAnalyzeCmd() *cobra.Command {
	analyzeCmd := &cobra.Command{
		Use:   "analyze <diagram.json>",
		Short: "Runs a STRIDE threat analysis over a diagram file",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags so CLI overrides win over config file and env values.
			if err := viper.BindPFlag("analysis.report_format", cmd.Flags().Lookup("format")); err != nil {
				return err
			}
			return viper.BindPFlag("analysis.model_name", cmd.Flags().Lookup("model-name"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()
			path := args[0]

			doc, err := persistence.LoadDocument(path, logger)
			if err != nil {
				return err
			}

			model := threat.NewThreatModel(viper.GetString("analysis.model_name"), doc.Shapes(), doc.Connectors(), logger)
			if engine := cfg.Analysis().ExternalEngine; engine != "" {
				model.SetExternalEngine(threat.NewCommandEngine(engine, logger))
			}
			model.RunAnalysis()
			report := model.Report()

			summary := report.Summary
			logger.Info("Analysis complete",
				zap.Int("threats", summary.Total),
				zap.Int("elements", summary.ElementsAnalyzed),
				zap.Int("dataflows", summary.DataflowsAnalyzed),
				zap.String("engine", report.Metadata.AnalysisEngine))

			output, _ := cmd.Flags().GetString("output")
			reporter, err := reporting.New(viper.GetString("analysis.report_format"), output)
			if err != nil {
				return fmt.Errorf("failed to initialize reporter: %w", err)
			}
			if err := reporter.Write(&report); err != nil {
				reporter.Close()
				return fmt.Errorf("failed to write report: %w", err)
			}
			if err := reporter.Close(); err != nil {
				return err
			}

			if metaPath, _ := cmd.Flags().GetString("metadata-report"); metaPath != "" {
				if err := persistence.ExportMetadataReport(metaPath, doc); err != nil {
					return err
				}
				logger.Info("Wrote metadata report", zap.String("path", metaPath))
			}
			return nil
		},
	}

	analyzeCmd.Flags().StringP("output", "o", "", "Output file path for the report. Defaults to stdout.")
	analyzeCmd.Flags().StringP("format", "f", "json", "Report format ('json' or 'text'). (Overrides config/env)")
	analyzeCmd.Flags().String("model-name", "", "Threat model name used in the report. (Overrides config/env)")
	analyzeCmd.Flags().String("metadata-report", "", "Also export all element metadata to this path.")

	return analyzeCmd
}

func init() {
	rootCmd.AddCommand(newAnalyzeCmd())
}
