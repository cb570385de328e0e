package agentsync

import (
	"github.com/spf13/cobra"

	"github.com/arthur-debert/agentsync/pkg/ui"
)

func newPreviewCmd() *cobra.Command {
	var flags selectionFlags

	cmd := &cobra.Command{
		Use:   "preview <agent>",
		Short: "Show the document a deployment would install",
		Long: `Preview generates the rules document for the selection and shows it
together with the paths a deployment would touch, without writing
anything.`,
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

			preview, err := a.Orchestrator.PreviewDeployment(flags.deploymentConfig(a, args[0]))
			if err != nil {
				return err
			}

			if format == ui.FormatJSON {
				return printJSON(cmd, preview)
			}

			cmd.Print(ui.RenderMarkdown(preview.Content, format))
			cmd.Println(styled(format, ui.StyleHeading, "Target paths:"))
			for _, path := range preview.TargetPaths {
				cmd.Printf("  %s\n", path)
			}
			for _, name := range preview.Commands {
				cmd.Println(styled(format, ui.StyleMuted, "command: "+name))
			}
			printWarnings(cmd, format, preview.Report.Warnings)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
