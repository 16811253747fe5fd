package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mwhitworth/flowkit/internal/excel"
	"github.com/mwhitworth/flowkit/internal/filelock"
	"github.com/mwhitworth/flowkit/internal/logger"
)

type convertFlags struct {
	outDir        string
	includeHidden bool
	minRows       int
	logLevel      string
}

// NewConvertCommand creates the convert command
func NewConvertCommand() *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert <workbook.xlsx>",
		Short: "Extract workbook sheets to CSV files",
		Long: `Convert each visible worksheet of an Excel workbook to its own CSV
file, named <workbook>_<sheet>.csv. Hidden sheets are skipped unless
--include-hidden is set, and sheets below --min-rows are dropped.

Examples:
  flowkit convert orders.xlsx
  flowkit convert orders.xlsx --out-dir ./csv --min-rows 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.outDir, "out-dir", "", "directory for CSV output (default: alongside the workbook)")
	cmd.Flags().BoolVar(&flags.includeHidden, "include-hidden", false, "also convert hidden sheets")
	cmd.Flags().IntVar(&flags.minRows, "min-rows", 0, "drop sheets with fewer rows than this")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "info", "log verbosity: debug, info, warn, error")

	return cmd
}

func runConvert(cmd *cobra.Command, workbookPath string, flags *convertFlags) error {
	log := logger.New(os.Stderr, flags.logLevel)

	sheets, err := excel.SheetsToCSV(workbookPath, excel.Options{
		IncludeHidden: flags.includeHidden,
		MinRows:       flags.minRows,
	})
	if err != nil {
		return err
	}
	if len(sheets) == 0 {
		return fmt.Errorf("workbook %s has no usable sheets", workbookPath)
	}

	outDir := flags.outDir
	if outDir == "" {
		outDir = filepath.Dir(workbookPath)
	}
	base := strings.TrimSuffix(filepath.Base(workbookPath), filepath.Ext(workbookPath))

	for _, sheet := range sheets {
		outPath := filepath.Join(outDir, fmt.Sprintf("%s_%s.csv", base, sanitizeName(sheet.Name)))
		if err := filelock.AtomicWrite(outPath, []byte(sheet.CSV)); err != nil {
			return fmt.Errorf("failed to write sheet %q: %w", sheet.Name, err)
		}
		log.Infof("wrote %s (%d rows)", outPath, sheet.Rows)
		fmt.Fprintln(cmd.OutOrStdout(), outPath)
	}
	return nil
}

// sanitizeName makes a sheet name safe for use in a file name.
func sanitizeName(name string) string {
	replacer := strings.NewReplacer("/", "-", "\\", "-", " ", "_")
	return replacer.Replace(name)
}
