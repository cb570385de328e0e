package agentsync

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/agentsync/pkg/ui"
)

func newRollbackCmd() *cobra.Command {
	var timestamp string

	cmd := &cobra.Command{
		Use:   "rollback <agent>",
		Short: "Undo a recorded deployment",
		Long: `Rollback removes the files the deployment created and restores the
backup taken before it ran. Without --timestamp the latest deployment
is rolled back.`,
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

			var ts *time.Time
			if timestamp != "" {
				parsed, err := time.Parse(time.RFC3339, timestamp)
				if err != nil {
					return fmt.Errorf("invalid --timestamp, want RFC3339: %w", err)
				}
				ts = &parsed
			}

			rolled, err := a.Orchestrator.Rollback(args[0], ts)
			if err != nil {
				return err
			}

			if format == ui.FormatJSON {
				return printJSON(cmd, rolled)
			}
			cmd.Println(styled(format, ui.StyleSuccess, fmt.Sprintf(
				"Rolled back %s deployment from %s", rolled.AgentID,
				rolled.Timestamp.Format(time.RFC3339))))
			return nil
		},
	}

	cmd.Flags().StringVar(&timestamp, "timestamp", "",
		"Roll back the deployment recorded at this RFC3339 timestamp")
	return cmd
}
