package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/agentsync/cmd/agentsync"
	"github.com/arthur-debert/agentsync/pkg/ui"
)

func main() {
	rootCmd := agentsync.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		message := fmt.Sprintf("Error: %v", err)
		if ui.DetectFormat(os.Stderr) == ui.FormatTerminal {
			message = ui.StyleError.Render(message)
		}
		fmt.Fprintln(os.Stderr, message)
		os.Exit(1)
	}
}
