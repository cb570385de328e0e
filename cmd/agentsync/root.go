// Package agentsync implements the agentsync command line interface.
package agentsync

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/agentsync/internal/version"
	"github.com/arthur-debert/agentsync/pkg/config"
	"github.com/arthur-debert/agentsync/pkg/logging"
	"github.com/arthur-debert/agentsync/pkg/paths"
)

var formatFlag string

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:   "agentsync",
		Short: "Sync AGENTS.md rules across AI coding assistants",
		Long: `agentsync maintains a single canonical AGENTS.md rules document and
deploys it into the configuration locations of every supported AI
coding assistant, with per-agent format conversion, character budgets,
backups, and rollback.`,
		Version: fmt.Sprintf("%s (commit %s, built %s)", version.Version, version.Commit, version.Date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(resolveVerbosity(verbosity))
			log.Debug().Str("command", cmd.Name()).Msg("command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"Increase logging verbosity (repeatable)")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "auto",
		"Output format: auto, term, text, or json")

	rootCmd.AddCommand(newDeployCmd())
	rootCmd.AddCommand(newRollbackCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newPreviewCmd())
	rootCmd.AddCommand(newAgentsCmd())
	rootCmd.AddCommand(newPacksCmd())
	rootCmd.AddCommand(newCommandsCmd())

	return rootCmd
}

// resolveVerbosity picks the effective verbosity: an explicit -v flag
// wins, otherwise the configured logging.verbosity applies.
func resolveVerbosity(flag int) int {
	if flag > 0 {
		return flag
	}
	p, err := paths.New()
	if err != nil {
		return flag
	}
	cfg, err := config.Load(p.Home())
	if err != nil {
		return flag
	}
	return cfg.Logging.Verbosity
}
