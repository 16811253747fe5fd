// Package report accumulates per-item narratives by severity and renders them
// as a self-contained HTML status summary for the host's traffic-light
// outputs.
package report

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/yuin/goldmark"
)

// Severity classifies a report row and drives traffic-light routing.
type Severity string

const (
	Success Severity = "success"
	Warning Severity = "warning"
	Error   Severity = "error"
)

// rowColor maps severities to their fixed display colors. Anything
// unrecognized renders gray.
func rowColor(sev Severity) string {
	switch sev {
	case Error:
		return "#c0392b"
	case Warning:
		return "#e8a015"
	case Success:
		return "#1e8449"
	default:
		return "#7f8c8d"
	}
}

// Row is a single narrative line.
type Row struct {
	Severity Severity
	Message  string
}

// Connection delivers a payload down one traffic-light output, carrying the
// rendered report as an auxiliary artifact. Implementations wrap the host job
// API.
type Connection interface {
	Deliver(level Severity, reportHTML string) error
}

// Report collects narrative rows and renders them to HTML. Not safe for
// concurrent use; each run owns its report exclusively.
type Report struct {
	Title string

	rows     []Row
	markdown goldmark.Markdown
	counts   map[Severity]int
}

// New returns an empty report with the given title.
func New(title string) *Report {
	return &Report{
		Title:    title,
		markdown: goldmark.New(),
		counts:   make(map[Severity]int),
	}
}

// AddRow appends one narrative row. Multiple message fragments are joined with
// a single space.
func (r *Report) AddRow(sev Severity, messages ...string) {
	r.rows = append(r.rows, Row{Severity: sev, Message: strings.Join(messages, " ")})
	r.counts[sev]++
}

// Rows returns the accumulated rows in insertion order.
func (r *Report) Rows() []Row {
	return r.rows
}

// Counts returns the number of error, warning, and success rows.
func (r *Report) Counts() (errors, warnings, successes int) {
	return r.counts[Error], r.counts[Warning], r.counts[Success]
}

// HighestSeverity returns the routing level for the report: any error wins,
// then any warning, otherwise success.
func (r *Report) HighestSeverity() Severity {
	if r.counts[Error] > 0 {
		return Error
	}
	if r.counts[Warning] > 0 {
		return Warning
	}
	return Success
}

// Render produces a static, inline-styled HTML document: title, one colored
// line per row, and a UTC timestamp footer. Row messages may use Markdown;
// they are converted to HTML fragments before embedding.
func (r *Report) Render() string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	sb.WriteString("<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", html.EscapeString(r.Title))
	sb.WriteString("</head>\n<body style=\"font-family: sans-serif; margin: 1.5em;\">\n")
	fmt.Fprintf(&sb, "<h2>%s</h2>\n", html.EscapeString(r.Title))

	errors, warnings, successes := r.Counts()
	fmt.Fprintf(&sb,
		"<p style=\"color: #555;\">%d succeeded, %d warning(s), %d error(s)</p>\n",
		successes, warnings, errors)

	sb.WriteString("<div>\n")
	for _, row := range r.rows {
		fmt.Fprintf(&sb,
			"<div style=\"color: %s; border-left: 4px solid %s; padding: 2px 8px; margin: 2px 0;\">%s</div>\n",
			rowColor(row.Severity), rowColor(row.Severity), r.renderMessage(row.Message))
	}
	sb.WriteString("</div>\n")

	fmt.Fprintf(&sb,
		"<p style=\"color: #999; font-size: 0.8em;\">Generated %s</p>\n",
		time.Now().UTC().Format("2006-01-02 15:04:05 UTC"))
	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}

// RouteTo delivers the rendered report down the connection for the report's
// highest severity.
func (r *Report) RouteTo(conn Connection) error {
	if err := conn.Deliver(r.HighestSeverity(), r.Render()); err != nil {
		return fmt.Errorf("failed to route report: %w", err)
	}
	return nil
}

// renderMessage converts a Markdown message to an inline HTML fragment,
// falling back to escaped text when conversion fails.
func (r *Report) renderMessage(msg string) string {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(msg), &buf); err != nil {
		return html.EscapeString(msg)
	}
	out := strings.TrimSpace(buf.String())
	// Single-paragraph messages read better without the block wrapper.
	out = strings.TrimPrefix(out, "<p>")
	out = strings.TrimSuffix(out, "</p>")
	return out
}
