package agentsync

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/agentsync/pkg/types"
	"github.com/arthur-debert/agentsync/pkg/ui"
)

// selectionFlags are the pack, command, and scope flags shared by
// deploy, validate, and preview.
type selectionFlags struct {
	packs    []string
	commands []string
	project  bool
	path     string
	force    bool
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.packs, "packs", "p", nil, "Rule packs to deploy (comma separated)")
	cmd.Flags().StringSliceVarP(&f.commands, "commands", "c", nil, "Custom commands to deploy")
	cmd.Flags().BoolVar(&f.project, "project", false, "Deploy at project scope")
	cmd.Flags().StringVar(&f.path, "path", "", "Project root (implies --project)")
	cmd.Flags().BoolVarP(&f.force, "force", "f", false, "Replace existing managed links")
}

// deploymentConfig resolves flags against the loaded configuration
// defaults.
func (f *selectionFlags) deploymentConfig(a *app, agentID string) *types.DeploymentConfig {
	scope := a.Config.DefaultScope()
	if f.project || f.path != "" {
		scope = types.ScopeProject
	}
	return &types.DeploymentConfig{
		AgentID:     agentID,
		PackIDs:     f.packs,
		CommandIDs:  f.commands,
		Scope:       scope,
		Force:       f.force || a.Config.Deploy.Force,
		ProjectPath: f.path,
	}
}

func newDeployCmd() *cobra.Command {
	var flags selectionFlags

	cmd := &cobra.Command{
		Use:   "deploy <agent>",
		Short: "Deploy the rules document to an agent",
		Long: `Deploy generates the canonical AGENTS.md from the selected rule packs
and installs it into the agent's configuration location, backing up any
existing files first.`,
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

			outcome, err := a.Orchestrator.Deploy(flags.deploymentConfig(a, args[0]))
			if err != nil {
				return err
			}

			if format == ui.FormatJSON {
				return printJSON(cmd, outcome)
			}

			cmd.Println(styled(format, ui.StyleSuccess,
				fmt.Sprintf("Deployed to %s (%s)", outcome.AgentID, outcome.Result.Method)))
			for _, file := range outcome.Result.DeployedFiles {
				cmd.Printf("  %s\n", file)
			}
			if outcome.BackupDir != "" {
				cmd.Println(styled(format, ui.StyleMuted,
					fmt.Sprintf("Backup: %s", outcome.BackupDir)))
			}
			printWarnings(cmd, format, outcome.Result.Warnings)
			printWarnings(cmd, format, outcome.Report.Warnings)
			printManualSteps(cmd, format, outcome.Result.ManualSteps)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
