package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stridecanvas/stridecanvas-cli/internal/observability"
	"github.com/stridecanvas/stridecanvas-cli/internal/persistence"
)

// newMigrateCmd creates and configures the `migrate` command.
func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate <diagram.json>",
		Short: "Rewrites a diagram file in the current format",
		Long: `Loads a diagram, applying defaults and upgrading legacy constructs such as
bare [start, end] connector pairs, then writes it back in the current format.
Entries that cannot be loaded are dropped with a warning.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()
			path := args[0]

			doc, err := persistence.LoadDocument(path, logger)
			if err != nil {
				return err
			}

			out, _ := cmd.Flags().GetString("output")
			if out == "" {
				out = path
			}
			if err := persistence.SaveDocument(out, doc); err != nil {
				return err
			}
			logger.Info("Migrated diagram",
				zap.String("path", out),
				zap.Int("shapes", len(doc.Shapes())),
				zap.Int("connectors", len(doc.Connectors())))
			return nil
		},
	}

	migrateCmd.Flags().StringP("output", "o", "", "Write the result here instead of overwriting the input.")
	return migrateCmd
}

func init() {
	rootCmd.AddCommand(newMigrateCmd())
}
