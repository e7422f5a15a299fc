// Package output provides formatters for command output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	md "github.com/nao1215/markdown"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gridlot/mastermatch/internal/cmd/table"
)

// Format types for output.
type Format string

const (
	// FormatTable represents table output format.
	FormatTable Format = "table"
	// FormatJSON represents JSON output format.
	FormatJSON Format = "json"
	// FormatYAML represents YAML output format.
	FormatYAML Format = "yaml"
	// FormatWide represents wide table output format.
	FormatWide Format = "wide"
	// FormatMarkdown renders tables as GitHub-flavored markdown.
	FormatMarkdown Format = "markdown"
)

// Data represents data formatted for table output.
type Data = table.Data

// Formatter interface for all output types.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// FormatterFunc allows functions to implement Formatter.
type FormatterFunc func(io.Writer, any) error

// Format implements the Formatter interface.
func (f FormatterFunc) Format(w io.Writer, data any) error {
	return f(w, data)
}

// NewFormatter creates appropriate formatter based on format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	case FormatTable, FormatWide:
		return &TableFormatter{Wide: format == FormatWide}
	default:
		return &TableFormatter{}
	}
}

// IsTabular reports whether format renders Data rather than raw structures.
func IsTabular(format Format) bool {
	switch format {
	case FormatTable, FormatWide, FormatMarkdown, "":
		return true
	}
	return false
}

// JSONFormatter outputs JSON format.
type JSONFormatter struct {
	Indent string
}

// Format implements the Formatter interface for JSON output.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent != "" {
		encoder.SetIndent("", f.Indent)
	}
	return encoder.Encode(data)
}

// YAMLFormatter outputs YAML format.
type YAMLFormatter struct{}

// Format outputs data in YAML format.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	out, err := yaml.MarshalWithOptions(data,
		yaml.Indent(2),
		yaml.IndentSequence(false),
	)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// MarkdownFormatter outputs a markdown table, for pasting validation
// results into tickets and pull requests.
type MarkdownFormatter struct {
	// Title, when set, is written as a level-two heading above the table.
	Title string
}

// Format implements the Formatter interface for markdown output.
func (f *MarkdownFormatter) Format(w io.Writer, data any) error {
	d, ok := data.(Data)
	if !ok {
		converted := toTableData(data)
		if converted == nil {
			raw, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return err
			}
			return md.NewMarkdown(w).CodeBlocks(md.SyntaxHighlight("json"), string(raw)).Build()
		}
		d = *converted
	}

	doc := md.NewMarkdown(w)
	if f.Title != "" {
		doc.H2(f.Title).LF()
	}
	rows := make([][]string, len(d.Rows))
	for i, row := range d.Rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = strings.ReplaceAll(cell, "|", `\|`)
		}
		rows[i] = cells
	}
	doc.Table(md.TableSet{Header: d.Headers, Rows: rows})
	return doc.Build()
}

// TableFormatter outputs table format.
type TableFormatter struct {
	Wide bool
}

// Format outputs data in table format.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if d, ok := data.(Data); ok {
		return f.render(w, d)
	}
	if d := toTableData(data); d != nil {
		return f.render(w, *d)
	}
	return (&JSONFormatter{Indent: "  "}).Format(w, data)
}

func (f *TableFormatter) render(w io.Writer, data Data) error {
	config := tablewriter.Config{}
	if len(data.ColumnAlignment) > 0 {
		align := make([]tw.Align, len(data.ColumnAlignment))
		for i, a := range data.ColumnAlignment {
			switch a {
			case table.AlignLeft:
				align[i] = tw.AlignLeft
			case table.AlignCenter:
				align[i] = tw.AlignCenter
			case table.AlignRight:
				align[i] = tw.AlignRight
			default:
				align[i] = tw.Skip
			}
		}
		config.Header.Alignment = tw.CellAlignment{PerColumn: align}
		config.Row.Alignment = tw.CellAlignment{PerColumn: align}
	}

	tbl := tablewriter.NewTable(w, tablewriter.WithConfig(config))
	if len(data.Headers) > 0 {
		headers := make([]any, len(data.Headers))
		for i, h := range data.Headers {
			headers[i] = h
		}
		tbl.Header(headers...)
	}
	for _, row := range data.Rows {
		cells := make([]any, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		if err := tbl.Append(cells...); err != nil {
			return err
		}
	}
	return tbl.Render()
}

// DetectFormat auto-detects format based on terminal and environment.
func DetectFormat(explicitFormat string) Format {
	if explicitFormat != "" {
		return Format(strings.ToLower(explicitFormat))
	}
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return FormatTable
	}
	// pipes and redirects get machine-readable output
	return FormatJSON
}

// ParseFormat converts string to Format with validation.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(s))
	switch format {
	case FormatTable, FormatJSON, FormatYAML, FormatWide, FormatMarkdown, "":
		return format, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be one of: table, json, yaml, wide, markdown", s)
	}
}

// toTableData converts a struct or a slice of structs to Data using
// reflection; anything else yields nil.
func toTableData(data any) *Data {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Pointer && !v.IsNil() {
		v = v.Elem()
	}

	switch {
	case v.Kind() == reflect.Slice && v.Len() > 0 && v.Index(0).Kind() == reflect.Struct:
		elemType := v.Index(0).Type()
		headers := make([]string, 0, elemType.NumField())
		for i := 0; i < elemType.NumField(); i++ {
			headers = append(headers, columnName(elemType.Field(i)))
		}
		rows := make([][]string, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			elem := v.Index(i)
			row := make([]string, 0, elem.NumField())
			for j := 0; j < elem.NumField(); j++ {
				row = append(row, fmt.Sprintf("%v", elem.Field(j).Interface()))
			}
			rows = append(rows, row)
		}
		return &Data{Headers: headers, Rows: rows}

	case v.Kind() == reflect.Struct:
		t := v.Type()
		rows := make([][]string, 0, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			rows = append(rows, []string{columnName(t.Field(i)), fmt.Sprintf("%v", v.Field(i).Interface())})
		}
		return &Data{Headers: []string{"Property", "Value"}, Rows: rows}
	}
	return nil
}

// columnName title-cases a field's json tag, falling back to its Go name.
func columnName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return field.Name
	}
	if idx := strings.Index(tag, ","); idx > 0 {
		tag = tag[:idx]
	}
	return cases.Title(language.English).String(strings.ReplaceAll(tag, "_", " "))
}

// Resolve validates an explicit format and falls back to DetectFormat.
func Resolve(explicit string) (Format, error) {
	if _, err := ParseFormat(explicit); err != nil {
		return "", err
	}
	return DetectFormat(explicit), nil
}

// Render writes tab in tabular formats and raw in json and yaml.
func Render(w io.Writer, format Format, raw any, tab Data) error {
	if IsTabular(format) {
		return NewFormatter(format).Format(w, tab)
	}
	return NewFormatter(format).Format(w, raw)
}
