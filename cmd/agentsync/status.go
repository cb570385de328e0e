package agentsync

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/agentsync/pkg/deploy"
	"github.com/arthur-debert/agentsync/pkg/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [agent]",
		Short: "Show agent installation and deployment status",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			format, err := outputFormat()
			if err != nil {
				return err
			}

			var reports []deploy.AgentReport
			if len(args) == 1 {
				report, err := a.Orchestrator.Status(args[0])
				if err != nil {
					return err
				}
				reports = []deploy.AgentReport{*report}
			} else {
				reports, err = a.Orchestrator.StatusAll()
				if err != nil {
					return err
				}
			}

			if format == ui.FormatJSON {
				return printJSON(cmd, reports)
			}
			for _, report := range reports {
				printAgentReport(cmd, format, report)
			}
			return nil
		},
	}
	return cmd
}

func printAgentReport(cmd *cobra.Command, format ui.Format, report deploy.AgentReport) {
	line := fmt.Sprintf("%-14s %-14s", report.AgentID, report.Status)
	if report.LastDeploy != nil {
		line += fmt.Sprintf(" deployed %s packs=%v",
			report.LastDeploy.Timestamp.Format(time.RFC3339),
			report.LastDeploy.DeployedPacks)
	}
	cmd.Println(styled(format, ui.StyleMuted, line))
}
