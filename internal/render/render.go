// Package render writes collected tables to a terminal or a file.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	gamestable "github.com/fortuna/games/internal/table"
)

// Format is an output encoding.
type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatXLSX     Format = "xlsx"
)

// Formats lists every supported format.
var Formats = []Format{FormatTable, FormatCSV, FormatMarkdown, FormatJSON, FormatYAML, FormatXLSX}

// ParseFormat reads a format name. The empty string selects FormatTable.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatTable, nil
	}
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Table writes t to w in the given format. Null cells render empty in the
// text formats and as null in JSON and YAML.
func Table(w io.Writer, t *gamestable.Table, format Format) error {
	switch format {
	case FormatJSON:
		return JSON(w, t)
	case FormatYAML:
		return YAML(w, t)
	case FormatXLSX:
		return XLSX(w, t)
	}

	tw := newWriter(t)

	var out string
	switch format {
	case FormatTable:
		out = tw.Render()
	case FormatCSV:
		out = tw.RenderCSV()
	case FormatMarkdown:
		out = tw.RenderMarkdown()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	if _, err := io.WriteString(w, out+"\n"); err != nil {
		return fmt.Errorf("failed to write %s output: %w", format, err)
	}
	return nil
}

// JSON writes any value as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

// YAML writes t as a columns list and a list of row mappings.
func YAML(w io.Writer, t *gamestable.Table) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	doc := struct {
		Columns []string         `yaml:"columns"`
		Rows    []map[string]any `yaml:"rows"`
	}{t.Columns(), t.Records()}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

func newWriter(t *gamestable.Table) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault

	cols := t.Columns()
	header := make(table.Row, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	tw.AppendHeader(header)

	for i := 0; i < t.Len(); i++ {
		row := make(table.Row, len(cols))
		for j, c := range cols {
			row[j] = cell(t.Value(i, c))
		}
		tw.AppendRow(row)
	}
	return tw
}

func cell(v any) any {
	switch val := v.(type) {
	case nil:
		return ""
	case string, int64, float64:
		return val
	default:
		if s, ok := gamestable.String(v); ok {
			return s
		}
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}
