// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/strata/internal/cli/output"
)

// ProjectConfig is the strata.yaml written by SetupTestProject. Snapping is
// widened to 0.2 so that tests can exercise it with round numbers.
const ProjectConfig = `state_path: .strata/project.db
settings:
  snap_tolerance: 0.2
  ghost_pattern: "%ghost%"
  correlation_angle: 20
  parent_correlation_angle: 10
`

// HolesFile lists two vertical holes 100 apart along the X axis.
const HolesFile = `holes:
  - id: DH1
    collar: {x: 0, y: 0, z: 0}
    depth: 100
  - id: DH2
    collar: {x: 100, y: 0, z: 0}
    depth: 100
    deviations:
      - {depth: 0, dip: -90, azimuth: 0}
`

// SetupTestProject creates a temporary project holding strata.yaml and
// holes.yaml. It returns the project directory.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"strata.yaml": ProjectConfig,
		"holes.yaml":  HolesFile,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}
	return dir
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertMarkdownTable checks that md holds a pipe table with a separator row.
func AssertMarkdownTable(t *testing.T, md string) {
	t.Helper()
	for _, line := range strings.Split(md, "\n") {
		if strings.HasPrefix(line, "| ---") {
			return
		}
	}
	t.Errorf("no markdown table found in %q", md)
}
