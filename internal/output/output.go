package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes command results either as JSON or as styled text.
type Printer struct {
	w      io.Writer
	errW   io.Writer
	json   bool
	styles styles
}

type styles struct {
	err     lipgloss.Style
	ok      lipgloss.Style
	warning lipgloss.Style
	bad     lipgloss.Style
	header  lipgloss.Style
	key     lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{err: plain, ok: plain, warning: plain, bad: plain, header: plain, key: plain}
	}
	return styles{
		err:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true), // Red
		ok:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),           // Green
		warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),           // Yellow
		bad:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		header:  lipgloss.NewStyle().Bold(true),
		key:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")), // Cyan
	}
}

// NewPrinter creates a Printer. color enables lipgloss styling for human
// output; it has no effect in JSON mode.
func NewPrinter(writer io.Writer, jsonMode bool, color bool) *Printer {
	return &Printer{
		w:      writer,
		errW:   writer,
		json:   jsonMode,
		styles: newStyles(color && !jsonMode),
	}
}

// WithStderr sets a separate writer for errors and warnings in human mode.
// In JSON mode, errors still go to the main writer.
func (p *Printer) WithStderr(w io.Writer) *Printer {
	p.errW = w
	return p
}

// IsJSON returns true if the printer is in JSON mode.
func (p *Printer) IsJSON() bool {
	return p.json
}

// Raw writes program output verbatim in human mode. In JSON mode the text is
// wrapped as {"output": text}.
func (p *Printer) Raw(text string) error {
	if p.json {
		return p.WriteJSON(map[string]any{"output": text})
	}
	mustWrite(io.WriteString(p.w, text))
	return nil
}

// Check reports a boolean outcome, as "true"/"false" or {"ok": bool}.
func (p *Printer) Check(ok bool) error {
	if p.json {
		return p.WriteJSON(map[string]any{"ok": ok})
	}
	style := p.styles.ok
	if !ok {
		style = p.styles.bad
	}
	mustWrite(fmt.Fprintln(p.w, style.Render(fmt.Sprint(ok))))
	return nil
}

// Fields writes key/value pairs sorted by key, or the map as a JSON object.
func (p *Printer) Fields(data map[string]any) error {
	if p.json {
		return p.WriteJSON(data)
	}
	keys := slices.Sorted(maps.Keys(data))
	width := 0
	for _, k := range keys {
		width = max(width, len(k))
	}
	for _, k := range keys {
		label := p.styles.key.Render(padRight(k+":", width+1))
		mustWrite(fmt.Fprintf(p.w, "%s %v\n", label, data[k]))
	}
	return nil
}

// List writes one item per line, or {key: items} in JSON mode.
func (p *Printer) List(key string, items []string) error {
	if p.json {
		if items == nil {
			items = []string{}
		}
		return p.WriteJSON(map[string]any{key: items})
	}
	for _, item := range items {
		mustWrite(fmt.Fprintln(p.w, item))
	}
	return nil
}

// Error outputs an error.
// For JSON mode, outputs {"error": "...", "code": N} to stdout.
// For human mode, outputs a styled error message to stderr (if set).
func (p *Printer) Error(err error) {
	exitErr := &ExitError{}
	if !errors.As(err, &exitErr) {
		exitErr = &ExitError{Code: ExitUserError, Message: err.Error()}
	}

	if p.json {
		mustWrite(p.w.Write(ErrorJSON(exitErr.Message, exitErr.Code)))
		mustWrite(fmt.Fprintln(p.w))
		return
	}
	mustWrite(fmt.Fprintf(p.errW, "%s: %s\n", p.styles.err.Render("Error"), exitErr.Message))
}

// Warn outputs a warning message.
// For JSON mode, outputs {"warning": "..."} to stdout.
func (p *Printer) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.json {
		_ = p.WriteJSON(map[string]any{"warning": msg})
		return
	}
	mustWrite(fmt.Fprintf(p.errW, "%s: %s\n", p.styles.warning.Render("Warning"), msg))
}

// WriteJSON encodes any value as indented JSON.
func (p *Printer) WriteJSON(data any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ErrorJSON returns JSON-formatted error bytes.
// Format: {"error": "message", "code": N}
func ErrorJSON(message string, code int) []byte {
	result, _ := json.Marshal(map[string]any{
		"error": message,
		"code":  code,
	})
	return result
}

// Table renders rows under bold headers with aligned columns.
func (p *Printer) Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], len(cell))
			}
		}
	}

	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = p.styles.header.Render(padRight(h, widths[i]))
	}
	mustWrite(fmt.Fprintln(p.w, strings.TrimRight(strings.Join(cells, "  "), " ")))
	for _, row := range rows {
		cells = cells[:0]
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			cells = append(cells, padRight(cell, widths[i]))
		}
		mustWrite(fmt.Fprintln(p.w, strings.TrimRight(strings.Join(cells, "  "), " ")))
	}
}

// mustWrite panics if a write to stdout, stderr or a buffer fails.
func mustWrite(_ int, err error) {
	if err != nil {
		panic(fmt.Sprintf("write failed: %v", err))
	}
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
