package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounts(t *testing.T) {
	r := New("Import run")
	r.AddRow(Success, "row 2 matched")
	r.AddRow(Success, "row 3 matched")
	r.AddRow(Warning, "row 4: no match")
	r.AddRow(Error, "column missing")

	errors, warnings, successes := r.Counts()
	assert.Equal(t, 1, errors)
	assert.Equal(t, 1, warnings)
	assert.Equal(t, 2, successes)
	assert.Len(t, r.Rows(), 4)
}

func TestAddRowJoinsFragments(t *testing.T) {
	r := New("t")
	r.AddRow(Warning, "row 5:", "no files matched", "for needle `A9`")

	rows := r.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "row 5: no files matched for needle `A9`", rows[0].Message)
}

func TestHighestSeverity(t *testing.T) {
	tests := []struct {
		name string
		add  []Severity
		want Severity
	}{
		{name: "empty report is success", want: Success},
		{name: "successes only", add: []Severity{Success, Success}, want: Success},
		{name: "warning beats success", add: []Severity{Success, Warning}, want: Warning},
		{name: "error beats warning", add: []Severity{Warning, Error, Success}, want: Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New("t")
			for _, sev := range tt.add {
				r.AddRow(sev, "x")
			}
			assert.Equal(t, tt.want, r.HighestSeverity())
		})
	}
}

func TestRender(t *testing.T) {
	r := New("Nightly <import>")
	r.AddRow(Success, "row 2 matched A1.pdf")
	r.AddRow(Warning, "row 3: multiple candidates")

	htmlOut := r.Render()

	// Title is escaped.
	assert.Contains(t, htmlOut, "Nightly &lt;import&gt;")
	// Fixed colors per severity.
	assert.Contains(t, htmlOut, "#1e8449")
	assert.Contains(t, htmlOut, "#e8a015")
	assert.Contains(t, htmlOut, "row 2 matched A1.pdf")
	// Counts line and UTC footer.
	assert.Contains(t, htmlOut, "1 succeeded, 1 warning(s), 0 error(s)")
	assert.Contains(t, htmlOut, "UTC")
	// Self-contained document, no external assets.
	assert.True(t, strings.HasPrefix(htmlOut, "<!DOCTYPE html>"))
	assert.NotContains(t, htmlOut, "src=")
	assert.NotContains(t, htmlOut, "href=")
}

func TestRenderMarkdownMessages(t *testing.T) {
	r := New("t")
	r.AddRow(Warning, "candidates: `A1.pdf`, **A1_v2.pdf**")

	htmlOut := r.Render()
	assert.Contains(t, htmlOut, "<code>A1.pdf</code>")
	assert.Contains(t, htmlOut, "<strong>A1_v2.pdf</strong>")
}

type fakeConnection struct {
	level Severity
	html  string
	calls int
}

func (f *fakeConnection) Deliver(level Severity, reportHTML string) error {
	f.level = level
	f.html = reportHTML
	f.calls++
	return nil
}

func TestRouteTo(t *testing.T) {
	r := New("t")
	r.AddRow(Success, "ok")
	r.AddRow(Warning, "hmm")

	conn := &fakeConnection{}
	require.NoError(t, r.RouteTo(conn))

	assert.Equal(t, 1, conn.calls)
	assert.Equal(t, Warning, conn.level)
	assert.Contains(t, conn.html, "hmm")
}
