// Package diag carries compiler-style diagnostics from the generator to the
// driver. Reporting never fails and never aborts the caller.
package diag

import (
	"fmt"
	"go/token"
	"io"
	"sort"
	"sync"
)

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Diagnostic is a message attached to a source position.
type Diagnostic struct {
	Severity Severity
	Pos      token.Position
	Message  string
}

// Errorf returns an error diagnostic at pos.
func Errorf(pos token.Position, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SeverityError, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// String formats the diagnostic as "file:line:col: severity: message".
func (d Diagnostic) String() string {
	if d.Pos.IsValid() || d.Pos.Filename != "" {
		return fmt.Sprintf("%s: %s: %s", d.Pos, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// Reporter receives diagnostics.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(d Diagnostic)

// Report calls f.
func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// Collector records diagnostics for later inspection.
type Collector struct {
	mu          sync.Mutex
	diagnostics []Diagnostic
}

// Report records d.
func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diagnostics = append(c.diagnostics, d)
}

// Diagnostics returns the recorded diagnostics in report order.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Diagnostic(nil), c.diagnostics...)
}

// ErrorCount returns the number of error diagnostics recorded.
func (c *Collector) ErrorCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, d := range c.diagnostics {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Reset discards the recorded diagnostics.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diagnostics = nil
}

// Print writes diagnostics to w sorted by position, one per line.
func Print(w io.Writer, diagnostics []Diagnostic) error {
	sorted := append([]Diagnostic(nil), diagnostics...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Pos, sorted[j].Pos
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	for _, d := range sorted {
		if _, err := fmt.Fprintln(w, d.String()); err != nil {
			return err
		}
	}
	return nil
}

// Tee returns a Reporter forwarding to every reporter in order.
func Tee(reporters ...Reporter) Reporter {
	return ReporterFunc(func(d Diagnostic) {
		for _, r := range reporters {
			r.Report(d)
		}
	})
}
