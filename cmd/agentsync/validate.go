package agentsync

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/agentsync/pkg/ui"
)

func newValidateCmd() *cobra.Command {
	var flags selectionFlags

	cmd := &cobra.Command{
		Use:   "validate <agent>",
		Short: "Validate a deployment without writing anything",
		Long: `Validate runs the full preparation and validation pipeline for the
selection: pack existence, agent compatibility, dependency cycles, and
the agent's character budget.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			format, err := outputFormat()
			if err != nil {
				return err
			}

			report, err := a.Orchestrator.ValidateDeployment(flags.deploymentConfig(a, args[0]))
			if err != nil {
				return err
			}

			if format == ui.FormatJSON {
				return printJSON(cmd, report)
			}

			usage := report.Budget
			if usage.MaxChars != nil && usage.Percentage != nil {
				cmd.Printf("Budget: %d / %d characters (%.1f%%)\n",
					usage.CurrentChars, *usage.MaxChars, *usage.Percentage)
			} else {
				cmd.Printf("Budget: %d characters (no limit)\n", usage.CurrentChars)
			}
			printWarnings(cmd, format, report.Warnings)
			for _, e := range report.Errors {
				cmd.Println(styled(format, ui.StyleError, fmt.Sprintf("error: %s", e)))
			}

			if !report.Valid {
				return fmt.Errorf("validation failed with %d error(s)", len(report.Errors))
			}
			cmd.Println(styled(format, ui.StyleSuccess, "Validation passed."))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
