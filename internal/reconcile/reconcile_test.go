package reconcile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhitworth/flowkit/internal/report"
	"github.com/mwhitworth/flowkit/internal/table"
)

// scanDir creates a directory holding the given files.
func scanDir(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		path := filepath.Join(dir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}
	return dir
}

func baseRule(scanLocation string) MatchRule {
	return MatchRule{
		ColumnToMatch:       "ID",
		MatchMethod:         MatchFull,
		ResultsAppendMethod: "name",
		ScanLocation:        scanLocation,
	}
}

func TestReconcileSingleMatch(t *testing.T) {
	// CSV ["ID","FileMatchResults"], one row ["A1",""], scan dir holds only
	// A1.pdf: the row gains the file name and the report is all green.
	dir := scanDir(t, "A1.pdf")
	tbl := table.New([]string{"ID", "FileMatchResults"}, [][]string{{"A1", ""}})

	rep, err := Reconcile(tbl, []MatchRule{baseRule(dir)}, "run")
	require.NoError(t, err)

	assert.Equal(t, []string{"A1", "A1.pdf"}, tbl.Rows[0])
	errors, warnings, successes := rep.Counts()
	assert.Equal(t, 0, errors)
	assert.Equal(t, 0, warnings)
	assert.Equal(t, 1, successes)
}

func TestReconcileAmbiguousMatch(t *testing.T) {
	// Same setup with a second candidate and partial matching: the cell is
	// left alone and one warning lists both file names.
	dir := scanDir(t, "A1.pdf", "A1_v2.pdf")
	tbl := table.New([]string{"ID", "FileMatchResults"}, [][]string{{"A1", ""}})

	rule := baseRule(dir)
	rule.MatchMethod = MatchPartial
	rep, err := Reconcile(tbl, []MatchRule{rule}, "run")
	require.NoError(t, err)

	assert.Equal(t, []string{"A1", ""}, tbl.Rows[0])
	errors, warnings, successes := rep.Counts()
	assert.Equal(t, 0, errors)
	assert.Equal(t, 1, warnings)
	assert.Equal(t, 0, successes)

	rows := rep.Rows()
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0].Message, "A1.pdf")
	assert.Contains(t, rows[0].Message, "A1_v2.pdf")
}

func TestReconcileNoMatch(t *testing.T) {
	dir := scanDir(t, "B2.pdf")
	tbl := table.New([]string{"ID", "FileMatchResults"}, [][]string{{"A1", "keep"}})

	rep, err := Reconcile(tbl, []MatchRule{baseRule(dir)}, "run")
	require.NoError(t, err)

	// Cell untouched, exactly one warning.
	assert.Equal(t, "keep", tbl.Rows[0][1])
	_, warnings, successes := rep.Counts()
	assert.Equal(t, 1, warnings)
	assert.Equal(t, 0, successes)
}

func TestReconcileRowNumbersInNarratives(t *testing.T) {
	dir := scanDir(t, "A1.pdf")
	tbl := table.New([]string{"ID"}, [][]string{{"zzz"}, {"A1"}})

	rep, err := Reconcile(tbl, []MatchRule{baseRule(dir)}, "run")
	require.NoError(t, err)

	rows := rep.Rows()
	require.Len(t, rows, 2)
	// Data starts at line 2: first row narrates as row 2, second as row 3.
	assert.Contains(t, rows[0].Message, "row 2")
	assert.Contains(t, rows[1].Message, "row 3")
}

func TestReconcileAppendsResultsColumn(t *testing.T) {
	dir := scanDir(t, "A1.pdf")
	tbl := table.New([]string{"ID"}, [][]string{{"A1"}})

	_, err := Reconcile(tbl, []MatchRule{baseRule(dir)}, "run")
	require.NoError(t, err)

	assert.Equal(t, []string{"ID", "FileMatchResults"}, tbl.Headers)
	assert.Equal(t, "A1.pdf", tbl.Rows[0][1])
}

func TestReconcileWritesEveryResultsColumn(t *testing.T) {
	dir := scanDir(t, "A1.pdf")
	tbl := table.New([]string{"ID", "Out", "Out"}, [][]string{{"A1", "", ""}})

	rule := baseRule(dir)
	rule.ColumnForResults = "Out"
	_, err := Reconcile(tbl, []MatchRule{rule}, "run")
	require.NoError(t, err)

	assert.Equal(t, "A1.pdf", tbl.Rows[0][1])
	assert.Equal(t, "A1.pdf", tbl.Rows[0][2])
}

func TestReconcileColumnNotPresent(t *testing.T) {
	dir := scanDir(t, "A1.pdf")

	tests := []struct {
		name     string
		severity string
		want     report.Severity
	}{
		{name: "default warning", severity: "", want: report.Warning},
		{name: "success", severity: "success", want: report.Success},
		{name: "error", severity: "error", want: report.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := table.New([]string{"Other"}, [][]string{{"x"}})
			rule := baseRule(dir)
			rule.IfColumnToMatchNotPresent = tt.severity

			rep, err := Reconcile(tbl, []MatchRule{rule}, "run")
			require.NoError(t, err)

			rows := rep.Rows()
			require.Len(t, rows, 1)
			assert.Equal(t, tt.want, rows[0].Severity)
			assert.Contains(t, rows[0].Message, "rule skipped")
		})
	}
}

func TestReconcileDuplicateColumnSkipsRule(t *testing.T) {
	dir := scanDir(t, "A1.pdf")
	tbl := table.New([]string{"ID", "ID"}, [][]string{{"A1", "A1"}})

	rep, err := Reconcile(tbl, []MatchRule{baseRule(dir)}, "run")
	require.NoError(t, err)

	// Ambiguity is narrated, never silently resolved.
	rows := rep.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, report.Warning, rows[0].Severity)
	assert.Contains(t, rows[0].Message, "rule skipped")
	// No results column was appended.
	assert.Equal(t, []string{"ID", "ID"}, tbl.Headers)
}

func TestReconcileFullPathWithRootSubstitution(t *testing.T) {
	dir := scanDir(t, "sub/A1.pdf")
	tbl := table.New([]string{"ID"}, [][]string{{"A1"}})

	rule := baseRule(dir)
	rule.ResultsAppendMethod = "full"
	rule.Depth = 1
	rule.UseDifferentRootLocation = "/mnt/archive"

	_, err := Reconcile(tbl, []MatchRule{rule}, "run")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/mnt/archive", "sub", "A1.pdf"), tbl.Rows[0][1])
}

func TestReconcileInvalidRuleFailsFast(t *testing.T) {
	dir := scanDir(t, "A1.pdf")

	tests := []struct {
		name   string
		mutate func(*MatchRule)
	}{
		{name: "missing columnToMatch", mutate: func(r *MatchRule) { r.ColumnToMatch = "" }},
		{name: "missing scanLocation", mutate: func(r *MatchRule) { r.ScanLocation = "" }},
		{name: "bad matchMethod", mutate: func(r *MatchRule) { r.MatchMethod = "fuzzy" }},
		{name: "bad resultsAppendMethod", mutate: func(r *MatchRule) { r.ResultsAppendMethod = "path" }},
		{name: "bad severity", mutate: func(r *MatchRule) { r.IfColumnToMatchNotPresent = "fatal" }},
		{name: "negative depth", mutate: func(r *MatchRule) { r.Depth = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := table.New([]string{"ID"}, [][]string{{"A1"}})
			rule := baseRule(dir)
			tt.mutate(&rule)

			_, err := Reconcile(tbl, []MatchRule{rule}, "run")
			require.Error(t, err)
			// Fail-fast: no mutation happened.
			assert.Equal(t, []string{"ID"}, tbl.Headers)
			assert.Equal(t, "A1", tbl.Rows[0][0])
		})
	}
}

func TestReconcileLaterBadRuleFailsBeforeAnyProcessing(t *testing.T) {
	dir := scanDir(t, "A1.pdf")
	tbl := table.New([]string{"ID"}, [][]string{{"A1"}})

	good := baseRule(dir)
	bad := baseRule(dir)
	bad.MatchMethod = "nope"

	_, err := Reconcile(tbl, []MatchRule{good, bad}, "run")
	require.Error(t, err)
	// Validation of every rule precedes processing of any.
	assert.Equal(t, []string{"ID"}, tbl.Headers)
}

func TestReconcileDefaultExtensionIsPDF(t *testing.T) {
	dir := scanDir(t, "A1.txt")
	tbl := table.New([]string{"ID"}, [][]string{{"A1"}})

	rep, err := Reconcile(tbl, []MatchRule{baseRule(dir)}, "run")
	require.NoError(t, err)

	// Only .pdf candidates are considered by default.
	_, warnings, successes := rep.Counts()
	assert.Equal(t, 1, warnings)
	assert.Equal(t, 0, successes)
}

func TestReconcileMultipleRulesInSequence(t *testing.T) {
	dir := scanDir(t, "A1.pdf", "B2.pdf")
	tbl := table.New(
		[]string{"ID", "Ref"},
		[][]string{{"A1", "B2"}},
	)

	first := baseRule(dir)
	second := baseRule(dir)
	second.ColumnToMatch = "Ref"
	second.ColumnForResults = "RefResults"

	rep, err := Reconcile(tbl, []MatchRule{first, second}, "run")
	require.NoError(t, err)

	assert.Equal(t, []string{"ID", "Ref", "FileMatchResults", "RefResults"}, tbl.Headers)
	assert.Equal(t, "A1.pdf", tbl.Rows[0][2])
	assert.Equal(t, "B2.pdf", tbl.Rows[0][3])
	_, _, successes := rep.Counts()
	assert.Equal(t, 2, successes)
}
