// Package matcher provides recursive, depth-bounded file and folder matching.
//
// Find walks a directory tree looking for entries whose name matches a needle,
// with flexible filtering by extension and entry kind. Matching is performed on
// the extension-stripped entry name, so a needle of "A1" matches "A1.pdf" in
// exact mode. A directory that matches the needle is both descended into and
// reported as a candidate in its own right; descent is never conditional on the
// directory itself matching.
//
// The traversal uses an explicit work stack rather than call-stack recursion,
// so pathological tree depth cannot exhaust the stack, while preserving the
// depth-first visitation order of the recursive formulation.
package matcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ReturnType selects how a matched entry is rendered into the result lists.
type ReturnType string

const (
	// ReturnFull yields the entry's full path.
	ReturnFull ReturnType = "full"
	// ReturnName yields the entry's bare name including extension.
	ReturnName ReturnType = "name"
	// ReturnNameProper yields the entry's name with the extension stripped.
	ReturnNameProper ReturnType = "nameProper"
)

// LookFor selects which entry kinds are eligible to match.
type LookFor string

const (
	LookFiles   LookFor = "files"
	LookFolders LookFor = "folders"
	LookBoth    LookFor = "both"
)

// MissingRootPolicy controls behavior when the haystack root does not exist.
type MissingRootPolicy string

const (
	// ReturnEmptyResults yields an empty ScanResult with zeroed stats.
	ReturnEmptyResults MissingRootPolicy = "returnEmptyResults"
	// ErrorOnMissing propagates the lookup failure to the caller.
	ErrorOnMissing MissingRootPolicy = "throwError"
)

// Options configures a Find call. Use DefaultOptions as the starting point;
// the zero value disables partial matching, which is not the default.
type Options struct {
	// AllowedExt restricts matches to entries with one of these extensions.
	// Empty allows every extension. Entries are normalized to lower case
	// with a leading dot.
	AllowedExt []string
	// PartialMatch selects substring search instead of exact name equality.
	PartialMatch bool
	// CaseSensitive disables case normalization of needle and entry names.
	CaseSensitive bool
	// ReturnTypes selects the result renderings to produce. Empty defaults
	// to ReturnFull only.
	ReturnTypes []ReturnType
	// Depth bounds descent below the root: 0 scans only the root directory,
	// each additional level descends one more directory.
	Depth int
	// LookFor selects files, folders, or both. Empty defaults to files.
	LookFor LookFor
	// IfRootMissing controls handling of a nonexistent root. Empty defaults
	// to ReturnEmptyResults.
	IfRootMissing MissingRootPolicy
}

// DefaultOptions returns the documented option defaults: partial matching,
// case-insensitive, full paths, root directory only, files only, and an empty
// result for a missing root.
func DefaultOptions() Options {
	return Options{
		PartialMatch:  true,
		ReturnTypes:   []ReturnType{ReturnFull},
		LookFor:       LookFiles,
		IfRootMissing: ReturnEmptyResults,
	}
}

// Stats reports how much work a scan performed.
type Stats struct {
	FoldersScanned int
	EntitiesTested int
	ResultsFound   int
	TimeTaken      time.Duration
}

// ScanResult holds the matches grouped by requested return type.
type ScanResult struct {
	Results map[ReturnType][]string
	Stats   Stats
}

// NewScanResult returns an empty result with lists allocated for the given
// return types.
func NewScanResult(returnTypes []ReturnType) *ScanResult {
	results := make(map[ReturnType][]string, len(returnTypes))
	for _, rt := range returnTypes {
		results[rt] = []string{}
	}
	return &ScanResult{Results: results}
}

// validate normalizes defaults and rejects invalid enum values before any I/O.
func (o *Options) validate() error {
	if len(o.ReturnTypes) == 0 {
		o.ReturnTypes = []ReturnType{ReturnFull}
	}
	for _, rt := range o.ReturnTypes {
		switch rt {
		case ReturnFull, ReturnName, ReturnNameProper:
		default:
			return fmt.Errorf("invalid return type %q", rt)
		}
	}

	if o.LookFor == "" {
		o.LookFor = LookFiles
	}
	switch o.LookFor {
	case LookFiles, LookFolders, LookBoth:
	default:
		return fmt.Errorf("invalid lookFor value %q", o.LookFor)
	}

	if o.IfRootMissing == "" {
		o.IfRootMissing = ReturnEmptyResults
	}
	switch o.IfRootMissing {
	case ReturnEmptyResults, ErrorOnMissing:
	default:
		return fmt.Errorf("invalid missing-root policy %q", o.IfRootMissing)
	}

	if o.Depth < 0 {
		return fmt.Errorf("depth must not be negative, got %d", o.Depth)
	}

	normalized := make([]string, 0, len(o.AllowedExt))
	for _, ext := range o.AllowedExt {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	o.AllowedExt = normalized

	return nil
}

// workKind distinguishes the two operations the traversal interleaves.
type workKind int

const (
	workScan workKind = iota
	workTest
)

type workItem struct {
	kind workKind
	// path is the directory to read for workScan, the candidate's full path
	// for workTest.
	path      string
	isDir     bool
	remaining int
}

// Find scans the tree rooted at root for entries matching needle and returns
// the grouped matches plus scan statistics.
func Find(needle, root string, opts Options) (*ScanResult, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	result := NewScanResult(opts.ReturnTypes)

	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		if opts.IfRootMissing == ErrorOnMissing {
			return nil, fmt.Errorf("scan location does not exist: %s", root)
		}
		result.Stats.TimeTaken = time.Since(start)
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to access scan location: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan location is not a directory: %s", root)
	}

	extAllowed := make(map[string]bool, len(opts.AllowedExt))
	for _, ext := range opts.AllowedExt {
		extAllowed[ext] = true
	}

	cmpNeedle := needle
	if !opts.CaseSensitive {
		cmpNeedle = strings.ToLower(needle)
	}

	// Explicit work stack; items are pushed in reverse so popping preserves
	// the recursive depth-first order (descend into a subdirectory before
	// testing it as a candidate).
	stack := []workItem{{kind: workScan, path: root, remaining: opts.Depth}}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch item.kind {
		case workScan:
			entries, err := os.ReadDir(item.path)
			if err != nil {
				return nil, fmt.Errorf("failed to read directory %s: %w", item.path, err)
			}
			result.Stats.FoldersScanned++

			for i := len(entries) - 1; i >= 0; i-- {
				entry := entries[i]
				full := filepath.Join(item.path, entry.Name())
				stack = append(stack, workItem{
					kind:  workTest,
					path:  full,
					isDir: entry.IsDir(),
				})
				if entry.IsDir() && item.remaining > 0 {
					stack = append(stack, workItem{
						kind:      workScan,
						path:      full,
						remaining: item.remaining - 1,
					})
				}
			}

		case workTest:
			result.Stats.EntitiesTested++
			if matches(cmpNeedle, item, opts, extAllowed) {
				record(result, item, opts.ReturnTypes)
			}
		}
	}

	result.Stats.TimeTaken = time.Since(start)
	return result, nil
}

// matches applies the kind, name, and extension tests in that order.
func matches(cmpNeedle string, item workItem, opts Options, extAllowed map[string]bool) bool {
	if item.isDir && opts.LookFor == LookFiles {
		return false
	}
	if !item.isDir && opts.LookFor == LookFolders {
		return false
	}

	name := nameProper(filepath.Base(item.path))
	if !opts.CaseSensitive {
		name = strings.ToLower(name)
	}

	if opts.PartialMatch {
		if !strings.Contains(name, cmpNeedle) {
			return false
		}
	} else if name != cmpNeedle {
		return false
	}

	if len(extAllowed) > 0 {
		ext := strings.ToLower(filepath.Ext(item.path))
		if !extAllowed[ext] {
			return false
		}
	}

	return true
}

// record appends the matched entry to every requested result list. The match
// counts once in the stats no matter how many renderings were requested.
func record(result *ScanResult, item workItem, returnTypes []ReturnType) {
	base := filepath.Base(item.path)
	for _, rt := range returnTypes {
		switch rt {
		case ReturnFull:
			result.Results[rt] = append(result.Results[rt], item.path)
		case ReturnName:
			result.Results[rt] = append(result.Results[rt], base)
		case ReturnNameProper:
			result.Results[rt] = append(result.Results[rt], nameProper(base))
		}
	}
	result.Stats.ResultsFound++
}

// nameProper strips the extension from a file name.
func nameProper(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
