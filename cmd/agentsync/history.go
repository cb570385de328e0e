package agentsync

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/agentsync/pkg/ui"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <agent>",
		Short: "List recorded deployments for an agent, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			format, err := outputFormat()
			if err != nil {
				return err
			}

			history, err := a.Orchestrator.History(args[0])
			if err != nil {
				return err
			}

			if format == ui.FormatJSON {
				return printJSON(cmd, history)
			}
			if len(history) == 0 {
				cmd.Println("No deployments recorded.")
				return nil
			}
			for _, entry := range history {
				cmd.Printf("%s  scope=%s method=%s packs=%v files=%d\n",
					entry.Timestamp.Format(time.RFC3339), entry.Scope,
					entry.Method, entry.DeployedPacks, len(entry.FilesCreated))
				if entry.BackupPath != "" {
					cmd.Println(styled(format, ui.StyleMuted,
						fmt.Sprintf("  backup: %s", entry.BackupPath)))
				}
			}
			return nil
		},
	}
	return cmd
}
