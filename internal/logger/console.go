// Package logger provides the leveled console logger used by the flowkit CLI.
//
// Output lines are prefixed with [HH:MM:SS] timestamps. Level tags are
// colored when writing to a terminal; NO_COLOR and non-TTY writers disable
// color automatically. The logger is safe for concurrent use.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Log levels, lowest to highest.
const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

var levelNames = map[string]int{
	"debug": levelDebug,
	"info":  levelInfo,
	"warn":  levelWarn,
	"error": levelError,
}

// Console writes leveled, timestamped lines to a writer.
type Console struct {
	mu    sync.Mutex
	out   io.Writer
	level int
	color bool

	warnTag  *color.Color
	errorTag *color.Color
	debugTag *color.Color
}

// New returns a Console writing to out at the given minimum level. Level is
// one of debug, info, warn, error (case-insensitive); anything else defaults
// to info. A nil writer discards everything.
func New(out io.Writer, level string) *Console {
	lvl, ok := levelNames[strings.ToLower(strings.TrimSpace(level))]
	if !ok {
		lvl = levelInfo
	}
	return &Console{
		out:      out,
		level:    lvl,
		color:    useColor(out),
		warnTag:  color.New(color.FgYellow),
		errorTag: color.New(color.FgRed),
		debugTag: color.New(color.FgCyan),
	}
}

// useColor reports whether the writer is a terminal with color support.
func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if f != os.Stdout && f != os.Stderr {
		return false
	}
	// color.NoColor already folds in the NO_COLOR convention.
	return !color.NoColor && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// Debugf logs at debug level.
func (c *Console) Debugf(format string, args ...any) {
	c.logf(levelDebug, c.debugTag, "DEBUG", format, args...)
}

// Infof logs at info level.
func (c *Console) Infof(format string, args ...any) {
	c.logf(levelInfo, nil, "", format, args...)
}

// Warnf logs at warn level.
func (c *Console) Warnf(format string, args ...any) {
	c.logf(levelWarn, c.warnTag, "WARN", format, args...)
}

// Errorf logs at error level.
func (c *Console) Errorf(format string, args ...any) {
	c.logf(levelError, c.errorTag, "ERROR", format, args...)
}

func (c *Console) logf(lvl int, tag *color.Color, label, format string, args ...any) {
	if c.out == nil || lvl < c.level {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ts := time.Now().Format("15:04:05")
	prefix := fmt.Sprintf("[%s] ", ts)
	if label != "" {
		if c.color && tag != nil {
			prefix += tag.Sprintf("%s ", label)
		} else {
			prefix += label + " "
		}
	}
	fmt.Fprintf(c.out, prefix+format+"\n", args...)
}
