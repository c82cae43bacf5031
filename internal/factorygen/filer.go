package factorygen

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// GeneratedFile is one output of a generation task.
type GeneratedFile struct {
	Dir     string
	Name    string
	Content []byte

	// Origins are the source files the output was generated from. A change
	// to any of them requires regenerating the file.
	Origins []string
}

// Path returns the output path.
func (f GeneratedFile) Path() string {
	return filepath.Join(f.Dir, f.Name)
}

// Filer persists generated files.
type Filer interface {
	WriteFile(f GeneratedFile) error
}

// DiskFiler writes generated files to disk and remembers which sources each
// output came from.
type DiskFiler struct {
	logger *zap.Logger

	mu      sync.Mutex
	origins map[string][]string
}

// NewDiskFiler returns a DiskFiler logging to logger (nil disables logging).
func NewDiskFiler(logger *zap.Logger) *DiskFiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiskFiler{logger: logger, origins: make(map[string][]string)}
}

// WriteFile writes f unless the file already has the same content. The path
// is recorded as an output only once it is on disk.
func (d *DiskFiler) WriteFile(f GeneratedFile) error {
	path := f.Path()

	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, f.Content) {
		d.record(path, f.Origins)
		d.logger.Debug("generated file unchanged", zap.String("path", path))
		return nil
	}

	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", f.Dir, err)
	}
	if err := os.WriteFile(path, f.Content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	d.record(path, f.Origins)
	d.logger.Debug("wrote generated file", zap.String("path", path), zap.Strings("origins", f.Origins))
	return nil
}

func (d *DiskFiler) record(path string, origins []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.origins[path] = slices.Clone(origins)
}

// Outputs returns every path written (or found up to date), sorted.
func (d *DiskFiler) Outputs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.origins))
	for path := range d.origins {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// Origins returns the source files recorded for an output path.
func (d *DiskFiler) Origins(path string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.origins[filepath.Clean(path)])
}

// IsOutput reports whether path is a file this filer has produced.
func (d *DiskFiler) IsOutput(path string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.origins[filepath.Clean(path)]
	return ok
}

// Affected returns the outputs generated from any of the changed source
// files, sorted.
func (d *DiskFiler) Affected(changed []string) []string {
	var out []string
	for _, path := range d.Outputs() {
		for _, origin := range d.Origins(path) {
			if slices.Contains(changed, origin) {
				out = append(out, path)
				break
			}
		}
	}
	return out
}

// Orphans returns the outputs whose origin files no longer exist, sorted.
// Outputs recorded without origins are never orphaned.
func (d *DiskFiler) Orphans() []string {
	var out []string
	for _, path := range d.Outputs() {
		origins := d.Origins(path)
		if len(origins) == 0 {
			continue
		}
		gone := true
		for _, origin := range origins {
			if _, err := os.Stat(origin); err == nil {
				gone = false
				break
			}
		}
		if gone {
			out = append(out, path)
		}
	}
	return out
}

// Remove deletes an output file and forgets it.
func (d *DiskFiler) Remove(path string) error {
	path = filepath.Clean(path)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	d.mu.Lock()
	delete(d.origins, path)
	d.mu.Unlock()
	d.logger.Debug("removed generated file", zap.String("path", path))
	return nil
}

// MemFiler keeps generated files in memory.
type MemFiler struct {
	mu    sync.Mutex
	files map[string]GeneratedFile
}

// NewMemFiler returns an empty MemFiler.
func NewMemFiler() *MemFiler {
	return &MemFiler{files: make(map[string]GeneratedFile)}
}

// WriteFile stores f by path, replacing any previous content.
func (m *MemFiler) WriteFile(f GeneratedFile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f.Content = slices.Clone(f.Content)
	f.Origins = slices.Clone(f.Origins)
	m.files[f.Path()] = f
	return nil
}

// File returns the file stored at path.
func (m *MemFiler) File(path string) (GeneratedFile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[path]
	return f, ok
}

// Files returns the stored files sorted by path.
func (m *MemFiler) Files() []GeneratedFile {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]GeneratedFile, 0, len(m.files))
	for _, f := range m.files {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path() < out[j].Path() })
	return out
}

// WriterFiler writes file contents to an io.Writer, for dry runs.
type WriterFiler struct {
	W io.Writer
}

// WriteFile writes f's content to the underlying writer.
func (w WriterFiler) WriteFile(f GeneratedFile) error {
	if _, err := w.W.Write(f.Content); err != nil {
		return fmt.Errorf("writing %s: %w", f.Name, err)
	}
	return nil
}
