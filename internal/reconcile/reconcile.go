// Package reconcile matches CSV rows against files found on disk.
//
// For each rule, every row's cell under the match column becomes a search
// needle. A single hit is written into the results column; zero or multiple
// hits leave the cell alone and add a warning to the report. Ambiguous
// matches are never auto-resolved.
package reconcile

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mwhitworth/flowkit/internal/matcher"
	"github.com/mwhitworth/flowkit/internal/report"
	"github.com/mwhitworth/flowkit/internal/table"
)

// DefaultResultsColumn is the results column name when a rule leaves it unset.
const DefaultResultsColumn = "FileMatchResults"

// MatchMethod values.
const (
	MatchFull    = "full"
	MatchPartial = "partial"
)

// MatchRule describes one column-to-files reconciliation pass. Rules are
// validated once and not mutated afterwards; one table run may apply several
// rules in sequence.
type MatchRule struct {
	// ColumnToMatch names the column whose cells are the search needles.
	ColumnToMatch string `yaml:"columnToMatch"`
	// ColumnForResults names the column matched values are written into.
	// Defaults to DefaultResultsColumn; appended when absent.
	ColumnForResults string `yaml:"columnForResults"`
	// MatchMethod is "full" (exact name) or "partial" (substring).
	MatchMethod string `yaml:"matchMethod"`
	// ResultsAppendMethod selects what is written on a match: "full" (path),
	// "name" (file name), or "nameProper" (name without extension).
	ResultsAppendMethod string `yaml:"resultsAppendMethod"`
	// ScanLocation is the directory tree searched for matches.
	ScanLocation string `yaml:"scanLocation"`
	// UseDifferentRootLocation, when set with ResultsAppendMethod "full",
	// replaces the ScanLocation prefix in written paths. Useful when the
	// host sees the scanned volume under a different mount point.
	UseDifferentRootLocation string `yaml:"useDifferentRootLocation"`
	// IfColumnToMatchNotPresent is the severity narrated when ColumnToMatch
	// is missing from the table: "success", "warning", or "error".
	// Defaults to "warning".
	IfColumnToMatchNotPresent string `yaml:"ifColumnToMatchNotPresent"`
	// AllowedExt restricts candidate files by extension. Defaults to .pdf
	// only.
	AllowedExt []string `yaml:"allowedExt"`
	// Depth bounds the scan below ScanLocation; 0 scans only the root.
	Depth int `yaml:"depth"`
}

// normalize fills rule defaults in place.
func (r *MatchRule) normalize() {
	if r.ColumnForResults == "" {
		r.ColumnForResults = DefaultResultsColumn
	}
	if r.IfColumnToMatchNotPresent == "" {
		r.IfColumnToMatchNotPresent = string(report.Warning)
	}
	if len(r.AllowedExt) == 0 {
		r.AllowedExt = []string{".pdf"}
	}
}

// validate rejects bad rule fields before any row is touched.
func (r *MatchRule) validate() error {
	if strings.TrimSpace(r.ColumnToMatch) == "" {
		return fmt.Errorf("columnToMatch is required")
	}
	if strings.TrimSpace(r.ScanLocation) == "" {
		return fmt.Errorf("scanLocation is required")
	}
	switch r.MatchMethod {
	case MatchFull, MatchPartial:
	default:
		return fmt.Errorf("invalid matchMethod %q", r.MatchMethod)
	}
	switch matcher.ReturnType(r.ResultsAppendMethod) {
	case matcher.ReturnFull, matcher.ReturnName, matcher.ReturnNameProper:
	default:
		return fmt.Errorf("invalid resultsAppendMethod %q", r.ResultsAppendMethod)
	}
	switch report.Severity(r.IfColumnToMatchNotPresent) {
	case report.Success, report.Warning, report.Error:
	default:
		return fmt.Errorf("invalid ifColumnToMatchNotPresent %q", r.IfColumnToMatchNotPresent)
	}
	if r.Depth < 0 {
		return fmt.Errorf("depth must not be negative, got %d", r.Depth)
	}
	return nil
}

// Reconcile applies the rules to the table in order and returns the run's
// report. All rules are validated before the first row is processed; once
// processing starts, per-row issues become report narratives and never abort
// the run. Earlier rules' mutations are kept even when a later rule skips.
func Reconcile(tbl *table.Table, rules []MatchRule, title string) (*report.Report, error) {
	normalized := make([]MatchRule, len(rules))
	for i, rule := range rules {
		rule.normalize()
		if err := rule.validate(); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		normalized[i] = rule
	}

	rep := report.New(title)
	for _, rule := range normalized {
		applyRule(tbl, rule, rep)
	}
	return rep, nil
}

// applyRule runs one rule over every data row.
func applyRule(tbl *table.Table, rule MatchRule, rep *report.Report) {
	matchCols := tbl.HeaderIndices(rule.ColumnToMatch)
	if len(matchCols) == 0 {
		rep.AddRow(report.Severity(rule.IfColumnToMatchNotPresent),
			fmt.Sprintf("column %q not present; rule skipped", rule.ColumnToMatch))
		return
	}
	if len(matchCols) > 1 {
		rep.AddRow(report.Warning,
			fmt.Sprintf("column %q appears %d times; rule skipped", rule.ColumnToMatch, len(matchCols)))
		return
	}
	matchCol := matchCols[0]

	resultCols := tbl.HeaderIndices(rule.ColumnForResults)
	if len(resultCols) == 0 {
		resultCols = []int{tbl.AppendColumn(rule.ColumnForResults)}
	}

	appendKind := matcher.ReturnType(rule.ResultsAppendMethod)
	opts := matcher.DefaultOptions()
	opts.AllowedExt = rule.AllowedExt
	opts.PartialMatch = rule.MatchMethod == MatchPartial
	opts.Depth = rule.Depth
	opts.ReturnTypes = returnTypesFor(appendKind)

	for row := range tbl.Rows {
		line := tbl.RowsStartIndex + row
		needle := tbl.Cell(row, matchCol)

		result, err := matcher.Find(needle, rule.ScanLocation, opts)
		if err != nil {
			rep.AddRow(report.Warning,
				fmt.Sprintf("row %d: scan of %s failed: %v", line, rule.ScanLocation, err))
			continue
		}

		switch result.Stats.ResultsFound {
		case 0:
			rep.AddRow(report.Warning,
				fmt.Sprintf("row %d: no files matched %q", line, needle))
		case 1:
			value := resolveValue(result.Results[appendKind][0], rule, appendKind)
			for _, col := range resultCols {
				tbl.SetCell(row, col, value)
			}
			rep.AddRow(report.Success,
				fmt.Sprintf("row %d: %q matched %s", line, needle, value))
		default:
			candidates := strings.Join(result.Results[matcher.ReturnName], ", ")
			rep.AddRow(report.Warning,
				fmt.Sprintf("row %d: %q matched %d files, left unchanged: %s",
					line, needle, result.Stats.ResultsFound, candidates))
		}
	}
}

// returnTypesFor always includes ReturnName so ambiguous matches can be
// enumerated by file name in the report.
func returnTypesFor(appendKind matcher.ReturnType) []matcher.ReturnType {
	if appendKind == matcher.ReturnName {
		return []matcher.ReturnType{matcher.ReturnName}
	}
	return []matcher.ReturnType{appendKind, matcher.ReturnName}
}

// resolveValue applies the rule's root substitution to "full" results.
func resolveValue(value string, rule MatchRule, appendKind matcher.ReturnType) string {
	if appendKind != matcher.ReturnFull || rule.UseDifferentRootLocation == "" {
		return value
	}
	rel, err := filepath.Rel(rule.ScanLocation, value)
	if err != nil {
		return value
	}
	return filepath.Join(rule.UseDifferentRootLocation, rel)
}
