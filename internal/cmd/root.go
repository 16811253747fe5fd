package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for flowkit
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flowkit",
		Short: "Helper toolkit for flow-automation job processing",
		Long: `Flowkit bundles the helpers used by flow-automation job scripts:
recursive file matching, CSV-to-file reconciliation, and Excel-to-CSV
extraction.

Reconciliation matches the values of a CSV column against files found
under a scan location and writes single matches back into a results
column, producing a traffic-light HTML report of the outcome.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewFindCommand())
	cmd.AddCommand(NewReconcileCommand())
	cmd.AddCommand(NewConvertCommand())

	return cmd
}
