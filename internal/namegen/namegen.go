// Package namegen produces collision-resistant names for temp files and
// dataset attachments.
//
// Names follow the scheme [prefix_]YYYYMMDDhhmmssmmm_<random>[_suffix],
// combining a millisecond timestamp with a random component so two names
// generated in the same millisecond still differ. GenerateUnique additionally
// checks the target directory and regenerates on collision.
package namegen

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// maxRandom bounds the random name component (inclusive upper bound is
// maxRandom-1, i.e. 0–999999999999).
const maxRandom = 1_000_000_000_000

// maxAttempts bounds collision-check retries in GenerateUnique.
const maxAttempts = 100

// Generator builds timestamped names. The zero value is not usable; call New.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// New returns a Generator seeded from the current time.
func New() *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
}

// Generate returns a name of the form [prefix_]YYYYMMDDhhmmssmmm_<random>[_suffix].
// Empty prefix or suffix omits the corresponding part and its separator.
func (g *Generator) Generate(prefix, suffix string) string {
	g.mu.Lock()
	ts := g.now().Format("20060102150405.000")
	n := g.rng.Int63n(maxRandom)
	g.mu.Unlock()

	// The stamp format uses a dot for milliseconds; the naming scheme does not.
	ts = strings.Replace(ts, ".", "", 1)

	var sb strings.Builder
	if prefix != "" {
		sb.WriteString(prefix)
		sb.WriteString("_")
	}
	sb.WriteString(ts)
	sb.WriteString("_")
	sb.WriteString(fmt.Sprintf("%d", n))
	if suffix != "" {
		sb.WriteString("_")
		sb.WriteString(suffix)
	}
	return sb.String()
}

// GenerateUnique returns a filename (name + ext) that does not currently exist
// in dir. ext may be given with or without the leading dot. The file is not
// created; callers own the window between check and use.
func (g *Generator) GenerateUnique(dir, prefix, suffix, ext string) (string, error) {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		name := g.Generate(prefix, suffix) + ext
		_, err := os.Stat(filepath.Join(dir, name))
		if os.IsNotExist(err) {
			return name, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check for name collision in %s: %w", dir, err)
		}
		// Name exists, try again with a fresh random component.
	}
	return "", fmt.Errorf("failed to generate a unique name in %s after %d attempts", dir, maxAttempts)
}
