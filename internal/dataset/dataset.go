// Package dataset wraps the host's dataset API so JSON and opaque payloads can
// be attached to a job without manual temp-file bookkeeping.
//
// Attached payloads are written to namegen-named files under the configured
// temp metadata directory and registered on the job. The returned Handle owns
// the temp file; callers must Release it once the host has consumed the
// dataset, or the file leaks until the external cleanup sweep.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mwhitworth/flowkit/internal/config"
	"github.com/mwhitworth/flowkit/internal/filelock"
	"github.com/mwhitworth/flowkit/internal/host"
	"github.com/mwhitworth/flowkit/internal/namegen"
)

// Handle is an attached dataset backed by a caller-owned temp file.
type Handle struct {
	// Name is the dataset name registered on the job.
	Name string
	// Path is the backing temp file.
	Path string

	released bool
}

// Release removes the backing temp file. Safe to call more than once.
func (h *Handle) Release() error {
	if h.released {
		return nil
	}
	if err := os.Remove(h.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to release dataset file %s: %w", h.Path, err)
	}
	h.released = true
	return nil
}

// Attacher creates datasets on a job from in-memory payloads.
type Attacher struct {
	job    host.Job
	tmpDir string
	gen    *namegen.Generator
}

// NewAttacher builds an Attacher writing temp files to the configured
// TempMetadataFileLocation, falling back to the system temp directory when the
// host did not configure one.
func NewAttacher(job host.Job, cfg *config.Config, gen *namegen.Generator) *Attacher {
	tmpDir := os.TempDir()
	if cfg != nil && cfg.TempMetadataFileLocation() != "" {
		tmpDir = cfg.TempMetadataFileLocation()
	}
	return &Attacher{job: job, tmpDir: tmpDir, gen: gen}
}

// TempDir returns the directory attached payloads are staged in.
func (a *Attacher) TempDir() string {
	return a.tmpDir
}

// AttachJSON marshals v, stages it as a temp file, and registers it on the job
// as a JSON dataset.
func (a *Attacher) AttachJSON(name string, v any) (*Handle, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal dataset %s: %w", name, err)
	}
	return a.attach(name, data, ".json", host.ModelJSON)
}

// AttachBytes stages raw content as a temp file with the given extension and
// registers it on the job as an opaque dataset.
func (a *Attacher) AttachBytes(name string, data []byte, ext string) (*Handle, error) {
	return a.attach(name, data, ext, host.ModelOpaque)
}

// attach stages the payload under a collision-checked name and registers the
// dataset. Name generation and file creation happen under the temp
// directory's lock, since sibling flow elements share the directory.
func (a *Attacher) attach(name string, data []byte, ext string, model host.DatasetModel) (*Handle, error) {
	if err := os.MkdirAll(a.tmpDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory %s: %w", a.tmpDir, err)
	}

	var path string
	lockPath := filepath.Join(a.tmpDir, ".flowkit.lock")
	err := filelock.WithLock(lockPath, func() error {
		fileName, err := a.gen.GenerateUnique(a.tmpDir, name, "", ext)
		if err != nil {
			return err
		}
		path = filepath.Join(a.tmpDir, fileName)
		return filelock.AtomicWrite(path, data)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to stage dataset %s: %w", name, err)
	}

	if err := a.job.CreateDataset(name, path, model); err != nil {
		a.job.Log(host.LogError, fmt.Sprintf("dataset %s could not be created: %v", name, err))
		os.Remove(path)
		return nil, fmt.Errorf("host rejected dataset %s: %w", name, err)
	}

	return &Handle{Name: name, Path: path}, nil
}

// Lookup resolves an existing dataset to its backing path, logging host
// failures through the job log before returning them.
func (a *Attacher) Lookup(name string, mode host.AccessMode) (string, error) {
	path, err := a.job.GetDataset(name, mode)
	if err != nil {
		a.job.Log(host.LogError, fmt.Sprintf("dataset %s lookup failed: %v", name, err))
		return "", fmt.Errorf("dataset %s lookup failed: %w", name, err)
	}
	return path, nil
}
