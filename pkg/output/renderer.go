package output

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/arthur-debert/ningen/pkg/errors"
	"github.com/arthur-debert/ningen/pkg/logging"
	"github.com/arthur-debert/ningen/pkg/output/styles"
	"github.com/beevik/etree"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// Format names an output encoding
type Format string

const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
	FormatTOML  Format = "toml"
	FormatXML   Format = "xml"
)

var formats = []Format{FormatText, FormatTable, FormatYAML, FormatJSON, FormatTOML, FormatXML}

// Formats returns the supported format names.
func Formats() []string {
	out := make([]string, len(formats))
	for i, f := range formats {
		out[i] = string(f)
	}
	return out
}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if slices.Contains(formats, f) {
		return f, nil
	}
	return "", errors.Newf(errors.ErrOutputFormat,
		"unknown output format %q (expected one of %s)", name, strings.Join(Formats(), ", ")).
		WithDetail("format", name)
}

// Table is tabular command output. Rows may be shorter than Columns; missing
// cells are left out of the structured formats.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable creates an empty table with the given columns.
func NewTable(columns ...string) *Table {
	return &Table{Columns: columns}
}

// Add appends a row.
func (t *Table) Add(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Renderer writes tables and messages in one output format.
type Renderer struct {
	writer   io.Writer
	format   Format
	noColor  bool
	lipgloss *lipgloss.Renderer
}

// NewRenderer creates a Renderer writing to w.
//
// When noColor is false the NO_COLOR environment variable still disables
// styling.
func NewRenderer(w io.Writer, format string, noColor bool) (*Renderer, error) {
	log := logging.GetLogger("output.Renderer")

	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	if os.Getenv("NO_COLOR") != "" {
		noColor = true
	}

	r := &Renderer{writer: w, format: f, noColor: noColor}
	if !noColor {
		r.lipgloss = lipgloss.NewRenderer(w)
		log.Debug().
			Str("colorProfile", fmt.Sprintf("%v", r.lipgloss.ColorProfile())).
			Msg("Lipgloss renderer created")
	}

	log.Debug().
		Str("format", string(f)).
		Bool("noColor", noColor).
		Msg("Creating renderer")

	return r, nil
}

// ForceColor styles output even when the writer is not a terminal. It has
// no effect on a renderer created without colour.
func (r *Renderer) ForceColor() {
	if r.lipgloss == nil {
		return
	}
	r.lipgloss.SetColorProfile(termenv.TrueColor)
}

// Format returns the renderer's output format.
func (r *Renderer) Format() Format {
	return r.format
}

// Render writes t in the renderer's format.
func (r *Renderer) Render(t *Table) error {
	var (
		out string
		err error
	)
	switch r.format {
	case FormatText:
		out = r.renderText(t)
	case FormatTable:
		out, err = r.renderTable(t)
	case FormatYAML:
		out, err = renderYAML(t)
	case FormatJSON:
		out, err = renderJSON(t)
	case FormatTOML:
		out, err = renderTOML(t)
	case FormatXML:
		out, err = renderXML(t)
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrOutputFormat, "failed to render %s output", r.format).
			WithDetail("format", string(r.format))
	}

	_, err = io.WriteString(r.writer, out)
	return err
}

// RenderError writes err with its code and details.
func (r *Renderer) RenderError(err error) error {
	var b strings.Builder
	b.WriteString(r.style("Error", "Error:"))
	b.WriteString(" ")

	var ne *errors.NingenError
	if stderrors.As(err, &ne) {
		b.WriteString(ne.Message)
		if ne.Wrapped != nil {
			b.WriteString(": " + ne.Wrapped.Error())
		}
		b.WriteString(" " + r.style("ErrorCode", "["+string(ne.Code)+"]"))
	} else {
		b.WriteString(err.Error())
	}
	b.WriteString("\n")

	if ne != nil {
		keys := make([]string, 0, len(ne.Details))
		for k := range ne.Details {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			b.WriteString(r.style("Detail", fmt.Sprintf("%s: %v", k, ne.Details[k])))
			b.WriteString("\n")
		}
	}

	_, writeErr := io.WriteString(r.writer, b.String())
	return writeErr
}

// RenderMessage writes message in the named style
func (r *Renderer) RenderMessage(style, message string) error {
	_, err := fmt.Fprintln(r.writer, r.style(style, message))
	return err
}

func (r *Renderer) style(name, s string) string {
	if r.noColor {
		return s
	}
	return styles.GetStyle(name).Renderer(r.lipgloss).Render(s)
}

// renderText writes one line per row, cells separated by spaces. The
// header is omitted so single column output can be piped.
func (r *Renderer) renderText(t *Table) string {
	var b strings.Builder
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i == 0 && len(row) > 1 {
				cells[i] = r.style("Path", cell)
				continue
			}
			cells[i] = cell
		}
		b.WriteString(strings.Join(cells, " "))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) renderTable(t *Table) (string, error) {
	data := pterm.TableData{t.Columns}
	for _, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		copy(cells, row)
		data = append(data, cells)
	}

	table := pterm.DefaultTable.WithHasHeader().WithData(data)
	if r.noColor {
		table = table.
			WithHeaderStyle(pterm.NewStyle()).
			WithSeparatorStyle(pterm.NewStyle())
	}
	out, err := table.Srender()
	if err != nil {
		return "", err
	}
	if r.noColor {
		out = pterm.RemoveColorFromString(out)
	}
	return out + "\n", nil
}

// records pairs every row with the column names, skipping missing cells
func records(t *Table, fn func(column, cell string)) func(row []string) {
	return func(row []string) {
		for i, column := range t.Columns {
			if i < len(row) {
				fn(column, row[i])
			}
		}
	}
}

func renderYAML(t *Table) (string, error) {
	list := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range t.Rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		records(t, func(column, cell string) {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: column},
				&yaml.Node{Kind: yaml.ScalarNode, Value: cell},
			)
		})(row)
		list.Content = append(list.Content, m)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(list); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// orderedRow marshals to a JSON object keeping column order
type orderedRow struct {
	keys   []string
	values []string
}

func (o orderedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(o.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func renderJSON(t *Table) (string, error) {
	rows := make([]orderedRow, 0, len(t.Rows))
	for _, row := range t.Rows {
		var o orderedRow
		records(t, func(column, cell string) {
			o.keys = append(o.keys, column)
			o.values = append(o.values, cell)
		})(row)
		rows = append(rows, o)
	}

	out, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out) + "\n", nil
}

func renderTOML(t *Table) (string, error) {
	rows := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		m := make(map[string]string, len(t.Columns))
		records(t, func(column, cell string) {
			m[column] = cell
		})(row)
		rows = append(rows, m)
	}

	out, err := toml.Marshal(map[string]any{"rows": rows})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func renderXML(t *Table) (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("rows")
	for _, row := range t.Rows {
		el := root.CreateElement("row")
		records(t, func(column, cell string) {
			field := el.CreateElement("field")
			field.CreateAttr("name", column)
			field.SetText(cell)
		})(row)
	}

	doc.Indent(2)
	return doc.WriteToString()
}
