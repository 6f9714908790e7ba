package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stridecanvas/stridecanvas-cli/internal/persistence"
)

// newValidateCmd creates and configures the `validate` command.
func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <diagram.json>",
		Short: "Checks a diagram file for structural problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			problems, err := persistence.ValidateFile(path)
			if err != nil {
				return err
			}

			if len(problems) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", path)
				return nil
			}
			for _, p := range problems {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, p)
			}
			return fmt.Errorf("%d problem(s) found in %s", len(problems), path)
		},
	}
}

func init() {
	rootCmd.AddCommand(newValidateCmd())
}
