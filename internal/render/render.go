// Package render turns table rows into human readable output.
// The output is meant for people and is not a stable machine interface.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"unicode/utf8"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

// ErrUnknownFormat is returned by ParseFormat for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown render format")

// Format selects a renderer.
type Format string

const (
	// FormatText renders a bordered plain text table.
	FormatText Format = "text"
	// FormatHTML renders a minified HTML table.
	FormatHTML Format = "html"
)

// ParseFormat parses a format name. An empty name selects FormatText.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatHTML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Func renders headers and rows.
type Func func(headers []string, rows [][]string) (string, error)

// For returns the renderer for f.
func For(f Format) (Func, error) {
	switch f {
	case FormatText, "":
		return Text, nil
	case FormatHTML:
		return HTML, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// Text renders a bordered table with centered cells:
//
//	+----+----------+
//	| id | question |
//	+----+----------+
//	| 1  |  2+2=?   |
//	+----+----------+
func Text(headers []string, rows [][]string) (string, error) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		if len(row) != len(headers) {
			return "", fmt.Errorf("row has %d cells, want %d", len(row), len(headers))
		}
		for i, cell := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}

	var b strings.Builder
	border := func() {
		b.WriteByte('+')
		for _, w := range widths {
			b.WriteString(strings.Repeat("-", w+2))
			b.WriteByte('+')
		}
		b.WriteByte('\n')
	}
	line := func(cells []string) {
		b.WriteByte('|')
		for i, cell := range cells {
			b.WriteByte(' ')
			b.WriteString(center(cell, widths[i]))
			b.WriteString(" |")
		}
		b.WriteByte('\n')
	}

	border()
	line(headers)
	border()
	for _, row := range rows {
		line(row)
	}
	if len(rows) > 0 {
		border()
	}

	return strings.TrimSuffix(b.String(), "\n"), nil
}

func center(s string, width int) string {
	pad := width - utf8.RuneCountInString(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2

	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}

var tableTmpl = template.Must(template.New("table").Parse(`
<table>
  <thead>
    <tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
  </thead>
  <tbody>
    {{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
    {{end}}
  </tbody>
</table>
`))

// HTML renders a minified HTML table. Cell values are escaped.
func HTML(headers []string, rows [][]string) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Headers []string
		Rows    [][]string
	}{headers, rows}
	if err := tableTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("error executing table template: %w", err)
	}

	m := minify.New()
	m.AddFunc("text/html", html.Minify)
	out, err := m.String("text/html", buf.String())
	if err != nil {
		return "", fmt.Errorf("error minifying table: %w", err)
	}

	return out, nil
}
