// Package output renders command results as terminal tables, markdown, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// OutputMode selects how results are written.
type OutputMode string

// Output modes.
const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
	ModeYAML     OutputMode = "yaml"
)

// Mode parses a mode name, defaulting to ModeAuto.
func Mode(s string) OutputMode {
	switch OutputMode(s) {
	case ModeText, ModeMarkdown, ModeJSON, ModeYAML:
		return OutputMode(s)
	default:
		return ModeAuto
	}
}

// Renderer writes results to out and diagnostics to errOut.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	isTTY  bool
	mode   OutputMode
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}
	return NewRendererWithTTY(out, errOut, isTTY, mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode OutputMode) *Renderer {
	return &Renderer{out: out, errOut: errOut, isTTY: isTTY, mode: mode}
}

// EffectiveMode resolves ModeAuto: text on a terminal, markdown otherwise.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// Table is a tabular result. Data is what JSON and YAML modes encode; when nil
// the rows are encoded as a list of header-keyed maps.
type Table struct {
	Title  string
	Header []string
	Rows   [][]any
	Data   any
}

// Render writes t in the effective mode.
func (r *Renderer) Render(t Table) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(t.data())
	case ModeYAML:
		enc := yaml.NewEncoder(r.out)
		enc.SetIndent(2)
		if err := enc.Encode(t.data()); err != nil {
			return err
		}
		return enc.Close()
	case ModeMarkdown:
		if t.Title != "" {
			_, _ = fmt.Fprintf(r.out, "## %s\n\n", t.Title)
		}
		if len(t.Rows) == 0 {
			_, _ = fmt.Fprintln(r.out, "(0 rows)")
			return nil
		}
		t.writer(r.out).RenderMarkdown()
		_, _ = fmt.Fprintln(r.out)
		return nil
	default:
		if len(t.Rows) == 0 {
			_, _ = fmt.Fprintln(r.out, "(0 rows)")
			return nil
		}
		tw := t.writer(r.out)
		tw.SetStyle(table.StyleLight)
		if t.Title != "" {
			tw.SetTitle(t.Title)
		}
		tw.Render()
		return nil
	}
}

// Success reports a completed mutation. Structured modes stay silent so that
// their output remains parseable.
func (r *Renderer) Success(format string, args ...any) {
	switch r.EffectiveMode() {
	case ModeJSON, ModeYAML:
		return
	}
	_, _ = fmt.Fprintf(r.out, format+"\n", args...)
}

// Warn writes a diagnostic to the error stream.
func (r *Renderer) Warn(format string, args ...any) {
	_, _ = fmt.Fprintf(r.errOut, "warning: "+format+"\n", args...)
}

func (t Table) writer(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	header := make(table.Row, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	tw.AppendHeader(header)
	for _, row := range t.Rows {
		tw.AppendRow(table.Row(row))
	}
	return tw
}

func (t Table) data() any {
	if t.Data != nil {
		return t.Data
	}
	out := make([]map[string]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		m := make(map[string]any, len(t.Header))
		for i, h := range t.Header {
			if i < len(row) {
				m[h] = row[i]
			}
		}
		out = append(out, m)
	}
	return out
}
