package agentsync

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/agentsync/pkg/agents"
	"github.com/arthur-debert/agentsync/pkg/ui"
)

func newAgentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "List supported agents and their limits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}

			defs, err := agents.LoadDefinitions()
			if err != nil {
				return err
			}

			if format == ui.FormatJSON {
				return printJSON(cmd, defs)
			}

			for _, def := range defs {
				limit := "unlimited"
				if def.Limits.MaxChars != nil {
					limit = fmt.Sprintf("%d chars", *def.Limits.MaxChars)
				}
				cmd.Printf("%-14s %-22s %-12s %s\n", def.ID, def.Name, limit, def.RulesSupport)
				if def.Notes != "" {
					cmd.Println(styled(format, ui.StyleMuted, "  "+def.Notes))
				}
			}
			return nil
		},
	}
	return cmd
}
