package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mwhitworth/flowkit/internal/filelock"
	"github.com/mwhitworth/flowkit/internal/logger"
	"github.com/mwhitworth/flowkit/internal/reconcile"
	"github.com/mwhitworth/flowkit/internal/report"
	"github.com/mwhitworth/flowkit/internal/table"
)

type reconcileFlags struct {
	rulesPath  string
	outPath    string
	reportPath string
	logLevel   string
}

// NewReconcileCommand creates the reconcile command
func NewReconcileCommand() *cobra.Command {
	flags := &reconcileFlags{}

	cmd := &cobra.Command{
		Use:   "reconcile <csv>",
		Short: "Match a CSV column against files on disk and record the results",
		Long: `Apply the match rules from a YAML rules file to the given CSV.
For every rule, each row's value under the match column is searched for
under the rule's scan location. A single hit is written into the results
column; zero or multiple hits leave the row unchanged and are narrated
as warnings in the HTML report.

The run exits non-zero when the report's highest severity is error,
matching the traffic-light convention of the flow host.

Examples:
  flowkit reconcile orders.csv --rules match.yaml
  flowkit reconcile orders.csv --rules match.yaml --out matched.csv --report status.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.rulesPath, "rules", "", "YAML rules file (required)")
	cmd.Flags().StringVar(&flags.outPath, "out", "", "output CSV path (default: overwrite the input)")
	cmd.Flags().StringVar(&flags.reportPath, "report", "", "write the HTML report to this path")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "info", "log verbosity: debug, info, warn, error")
	_ = cmd.MarkFlagRequired("rules")

	return cmd
}

func runReconcile(cmd *cobra.Command, csvPath string, flags *reconcileFlags) error {
	log := logger.New(os.Stderr, flags.logLevel)

	rules, err := reconcile.LoadRules(flags.rulesPath)
	if err != nil {
		return err
	}
	log.Debugf("loaded %d rule(s) from %s", len(rules.Rules), flags.rulesPath)

	tbl, err := table.Load(csvPath)
	if err != nil {
		return err
	}
	log.Debugf("loaded %d row(s) from %s", len(tbl.Rows), csvPath)

	rep, err := reconcile.Reconcile(tbl, rules.Rules, rules.Title)
	if err != nil {
		return err
	}

	outPath := flags.outPath
	if outPath == "" {
		outPath = csvPath
	}
	if err := tbl.SaveTo(outPath); err != nil {
		return err
	}
	log.Infof("wrote %s", outPath)

	if flags.reportPath != "" {
		if err := filelock.AtomicWrite(flags.reportPath, []byte(rep.Render())); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		log.Infof("wrote %s", flags.reportPath)
	}

	errors, warnings, successes := rep.Counts()
	fmt.Fprintf(cmd.OutOrStdout(), "%d succeeded, %d warning(s), %d error(s)\n",
		successes, warnings, errors)

	if rep.HighestSeverity() == report.Error {
		return fmt.Errorf("reconciliation finished with %d error(s)", errors)
	}
	return nil
}
