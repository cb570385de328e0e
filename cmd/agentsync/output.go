package agentsync

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/agentsync/pkg/ui"
)

// outputFormat resolves the global --format flag against stdout.
func outputFormat() (ui.Format, error) {
	format, err := ui.ParseFormat(formatFlag)
	if err != nil {
		return ui.FormatText, err
	}
	return format.Resolve(os.Stdout), nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(data))
	return nil
}

// styled applies a lipgloss style in terminal mode and passes the text
// through otherwise.
func styled(format ui.Format, style interface{ Render(...string) string }, text string) string {
	if format != ui.FormatTerminal {
		return text
	}
	return style.Render(text)
}

func printWarnings(cmd *cobra.Command, format ui.Format, warnings []string) {
	for _, w := range warnings {
		cmd.Println(styled(format, ui.StyleWarning, fmt.Sprintf("warning: %s", w)))
	}
}

func printManualSteps(cmd *cobra.Command, format ui.Format, steps []string) {
	if len(steps) == 0 {
		return
	}
	cmd.Println(styled(format, ui.StyleHeading, "Manual steps:"))
	for _, s := range steps {
		cmd.Printf("  - %s\n", s)
	}
}
