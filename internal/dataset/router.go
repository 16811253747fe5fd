package dataset

import (
	"fmt"

	"github.com/mwhitworth/flowkit/internal/host"
	"github.com/mwhitworth/flowkit/internal/report"
)

// Router delivers a job down its traffic-light outputs with the rendered
// status report attached as an auxiliary dataset. It implements
// report.Connection.
type Router struct {
	Job      host.Job
	Attacher *Attacher
	// ReportName is the dataset name for the attached report.
	ReportName string
	// PrimaryName names the payload sent down the data connection; may be
	// empty when the job's own file is the payload.
	PrimaryName string
}

// NewRouter builds a Router with the default report dataset name.
func NewRouter(job host.Job, attacher *Attacher) *Router {
	return &Router{Job: job, Attacher: attacher, ReportName: "StatusReport"}
}

// Deliver attaches the report HTML as an opaque dataset, announces it on the
// log connection, and routes the payload down the matching data connection.
func (r *Router) Deliver(level report.Severity, reportHTML string) error {
	hostLevel, err := toHostLevel(level)
	if err != nil {
		return err
	}

	handle, err := r.Attacher.AttachBytes(r.ReportName, []byte(reportHTML), ".html")
	if err != nil {
		return fmt.Errorf("failed to attach report: %w", err)
	}

	if err := r.Job.SendToLog(hostLevel, host.ModelOpaque, handle.Name); err != nil {
		r.Job.Log(host.LogError, fmt.Sprintf("report delivery failed: %v", err))
		return fmt.Errorf("failed to send report to log connection: %w", err)
	}
	if err := r.Job.SendToData(hostLevel, r.PrimaryName); err != nil {
		r.Job.Log(host.LogError, fmt.Sprintf("payload delivery failed: %v", err))
		return fmt.Errorf("failed to send payload to data connection: %w", err)
	}
	return nil
}

func toHostLevel(level report.Severity) (host.Level, error) {
	switch level {
	case report.Success:
		return host.LevelSuccess, nil
	case report.Warning:
		return host.LevelWarning, nil
	case report.Error:
		return host.LevelError, nil
	}
	return "", fmt.Errorf("no traffic-light connection for severity %q", level)
}
