package reconcile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadRules(t *testing.T) {
	path := writeRules(t, `
title: Invoice matching
rules:
  - columnToMatch: InvoiceID
    matchMethod: partial
    resultsAppendMethod: full
    scanLocation: /data/invoices
    useDifferentRootLocation: /mnt/invoices
    allowedExt: [".pdf", ".tif"]
    depth: 2
  - columnToMatch: Ref
    columnForResults: RefFile
    matchMethod: full
    resultsAppendMethod: name
    scanLocation: /data/refs
    ifColumnToMatchNotPresent: error
`)

	rf, err := LoadRules(path)
	require.NoError(t, err)

	assert.Equal(t, "Invoice matching", rf.Title)
	require.Len(t, rf.Rules, 2)

	first := rf.Rules[0]
	assert.Equal(t, "InvoiceID", first.ColumnToMatch)
	assert.Equal(t, MatchPartial, first.MatchMethod)
	assert.Equal(t, "full", first.ResultsAppendMethod)
	assert.Equal(t, "/mnt/invoices", first.UseDifferentRootLocation)
	assert.Equal(t, []string{".pdf", ".tif"}, first.AllowedExt)
	assert.Equal(t, 2, first.Depth)

	second := rf.Rules[1]
	assert.Equal(t, "RefFile", second.ColumnForResults)
	assert.Equal(t, "error", second.IfColumnToMatchNotPresent)
}

func TestLoadRulesDefaultTitle(t *testing.T) {
	path := writeRules(t, `
rules:
  - columnToMatch: ID
    matchMethod: full
    resultsAppendMethod: name
    scanLocation: /tmp
`)

	rf, err := LoadRules(path)
	require.NoError(t, err)
	assert.NotEmpty(t, rf.Title)
}

func TestLoadRulesEmpty(t *testing.T) {
	path := writeRules(t, "title: nothing here\n")
	_, err := LoadRules(path)
	assert.Error(t, err)
}

func TestLoadRulesMalformed(t *testing.T) {
	path := writeRules(t, "rules: [\n")
	_, err := LoadRules(path)
	assert.Error(t, err)
}

func TestLoadRulesMissingFile(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
