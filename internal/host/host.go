// Package host defines the interface flowkit expects from the job-processing
// host: the job object with its dataset, property, logging, and
// traffic-light output calls.
//
// The host side of these calls is out of scope; flowkit only consumes them.
// hosttest provides an in-memory Job double for unit tests.
package host

// LogLevel classifies a host log message.
type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarning
	LogError
)

// String returns the host-facing name of the level.
func (l LogLevel) String() string {
	switch l {
	case LogDebug:
		return "debug"
	case LogInfo:
		return "info"
	case LogWarning:
		return "warning"
	case LogError:
		return "error"
	}
	return "unknown"
}

// Level is a traffic-light output level. Jobs leave an element through
// exactly one of the three connections.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// DatasetModel describes how the host should interpret a dataset's backing
// file.
type DatasetModel string

const (
	// ModelJSON marks the dataset content as structured JSON.
	ModelJSON DatasetModel = "JSON"
	// ModelOpaque marks the dataset content as an arbitrary file.
	ModelOpaque DatasetModel = "Opaque"
)

// AccessMode selects how a dataset is opened.
type AccessMode string

const (
	AccessReadOnly  AccessMode = "readOnly"
	AccessReadWrite AccessMode = "readWrite"
)

// Job is the capability surface of a host job object. All methods map onto
// host runtime calls; errors from the host are returned as-is for the caller
// to wrap.
type Job interface {
	// CreateDataset registers the file at path as a named dataset on the job.
	CreateDataset(name, path string, model DatasetModel) error
	// ListDatasets returns the names of the job's datasets.
	ListDatasets() ([]string, error)
	// GetDataset resolves a dataset name to its backing file path.
	GetDataset(name string, mode AccessMode) (string, error)
	// Log writes a message to the host's job log.
	Log(level LogLevel, message string)
	// CreateChild spawns a child job from the file at path.
	CreateChild(path string) (Job, error)
	// SendToLog routes a dataset to the log connection at the given level.
	SendToLog(level Level, model DatasetModel, name string) error
	// SendToData routes the job's payload to the data connection at the
	// given level.
	SendToData(level Level, name string) error
	// HasProperty reports whether the flow element defines the property.
	HasProperty(name string) bool
	// GetPropertyStringValue returns a flow element property as text.
	GetPropertyStringValue(name string) (string, error)
}
