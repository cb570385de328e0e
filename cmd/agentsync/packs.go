package agentsync

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/agentsync/pkg/ui"
)

func newPacksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "packs",
		Short: "List installed rule packs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			format, err := outputFormat()
			if err != nil {
				return err
			}

			ids, err := a.Packs.List()
			if err != nil {
				return err
			}

			if format == ui.FormatJSON {
				packs := make([]interface{}, 0, len(ids))
				for _, id := range ids {
					pack, err := a.Packs.Load(id)
					if err != nil {
						return err
					}
					packs = append(packs, pack)
				}
				return printJSON(cmd, packs)
			}

			if len(ids) == 0 {
				cmd.Printf("No rule packs installed under %s\n", a.Paths.PacksDir())
				return nil
			}
			for _, id := range ids {
				pack, err := a.Packs.Load(id)
				if err != nil {
					return err
				}
				cmd.Printf("%-16s v%-8s %6d words %8d chars  %s\n",
					pack.ID, pack.Version, pack.WordCount, pack.CharacterCount, pack.Description)
			}
			return nil
		},
	}
	return cmd
}

func newCommandsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commands",
		Short: "List installed custom commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			format, err := outputFormat()
			if err != nil {
				return err
			}

			ids, err := a.Commands.List()
			if err != nil {
				return err
			}

			if format == ui.FormatJSON {
				loaded := make([]interface{}, 0, len(ids))
				for _, id := range ids {
					command, err := a.Commands.Load(id)
					if err != nil {
						return err
					}
					loaded = append(loaded, command)
				}
				return printJSON(cmd, loaded)
			}

			if len(ids) == 0 {
				cmd.Printf("No custom commands installed under %s\n", a.Paths.CommandsDir())
				return nil
			}
			for _, id := range ids {
				command, err := a.Commands.Load(id)
				if err != nil {
					return err
				}
				agents := "all agents"
				if len(command.Agents) > 0 {
					agents = fmt.Sprintf("%v", command.Agents)
				}
				cmd.Printf("%-16s %-40s %s\n", command.ID, command.Description, agents)
			}
			return nil
		},
	}
	return cmd
}
