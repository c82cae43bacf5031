package diag

import (
	"bytes"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostic_String(t *testing.T) {
	d := Errorf(token.Position{Filename: "pets/factory.go", Line: 12, Column: 6}, "bad %s", "factory")
	assert.Equal(t, "pets/factory.go:12:6: error: bad factory", d.String())

	d = Errorf(token.Position{}, "no position")
	assert.Equal(t, "error: no position", d.String())
}

func TestCollector(t *testing.T) {
	var c Collector
	c.Report(Errorf(token.Position{}, "one"))
	c.Report(Diagnostic{Severity: SeverityWarning, Message: "two"})

	assert.Len(t, c.Diagnostics(), 2)
	assert.Equal(t, 1, c.ErrorCount())

	c.Reset()
	assert.Empty(t, c.Diagnostics())
}

func TestPrint_SortsByPosition(t *testing.T) {
	ds := []Diagnostic{
		Errorf(token.Position{Filename: "b.go", Line: 1, Column: 1}, "third"),
		Errorf(token.Position{Filename: "a.go", Line: 9, Column: 1}, "second"),
		Errorf(token.Position{Filename: "a.go", Line: 2, Column: 4}, "first"),
	}

	var buf bytes.Buffer
	require.NoError(t, Print(&buf, ds))
	assert.Equal(t, "a.go:2:4: error: first\na.go:9:1: error: second\nb.go:1:1: error: third\n", buf.String())
}

func TestTee(t *testing.T) {
	var a, b Collector
	Tee(&a, &b).Report(Errorf(token.Position{}, "shared"))
	assert.Len(t, a.Diagnostics(), 1)
	assert.Len(t, b.Diagnostics(), 1)
}
