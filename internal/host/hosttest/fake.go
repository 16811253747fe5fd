// Package hosttest provides an in-memory Job double for unit tests.
package hosttest

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mwhitworth/flowkit/internal/host"
)

// LogEntry records one Job.Log call.
type LogEntry struct {
	Level   host.LogLevel
	Message string
}

// Sent records one SendToLog or SendToData call.
type Sent struct {
	Level host.Level
	Model host.DatasetModel
	Name  string
	Kind  string // "log" or "data"
}

// FakeJob is an in-memory host.Job. The zero value is not usable; call
// NewFakeJob.
type FakeJob struct {
	mu sync.Mutex

	ID         string
	Datasets   map[string]string // name -> backing path
	Models     map[string]host.DatasetModel
	Logs       []LogEntry
	Deliveries []Sent
	Properties map[string]string
	Children   []*FakeJob

	// FailCreateDataset forces CreateDataset to return an error.
	FailCreateDataset bool
	// FailGetDataset forces GetDataset to return an error.
	FailGetDataset bool
}

// NewFakeJob returns an empty fake job with a fresh ID.
func NewFakeJob() *FakeJob {
	return &FakeJob{
		ID:         uuid.New().String(),
		Datasets:   make(map[string]string),
		Models:     make(map[string]host.DatasetModel),
		Properties: make(map[string]string),
	}
}

func (j *FakeJob) CreateDataset(name, path string, model host.DatasetModel) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.FailCreateDataset {
		return fmt.Errorf("host refused dataset %s", name)
	}
	j.Datasets[name] = path
	j.Models[name] = model
	return nil
}

func (j *FakeJob) ListDatasets() ([]string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	names := make([]string, 0, len(j.Datasets))
	for name := range j.Datasets {
		names = append(names, name)
	}
	return names, nil
}

func (j *FakeJob) GetDataset(name string, mode host.AccessMode) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.FailGetDataset {
		return "", fmt.Errorf("host lookup failed for dataset %s", name)
	}
	path, ok := j.Datasets[name]
	if !ok {
		return "", fmt.Errorf("no dataset named %s", name)
	}
	return path, nil
}

func (j *FakeJob) Log(level host.LogLevel, message string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Logs = append(j.Logs, LogEntry{Level: level, Message: message})
}

func (j *FakeJob) CreateChild(path string) (host.Job, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	child := NewFakeJob()
	child.Properties = j.Properties
	j.Children = append(j.Children, child)
	return child, nil
}

func (j *FakeJob) SendToLog(level host.Level, model host.DatasetModel, name string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Deliveries = append(j.Deliveries, Sent{Level: level, Model: model, Name: name, Kind: "log"})
	return nil
}

func (j *FakeJob) SendToData(level host.Level, name string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Deliveries = append(j.Deliveries, Sent{Level: level, Name: name, Kind: "data"})
	return nil
}

func (j *FakeJob) HasProperty(name string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	_, ok := j.Properties[name]
	return ok
}

func (j *FakeJob) GetPropertyStringValue(name string) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	val, ok := j.Properties[name]
	if !ok {
		return "", fmt.Errorf("no property named %s", name)
	}
	return val, nil
}
