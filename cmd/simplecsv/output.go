package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/goccy/go-yaml"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/samber/lo"
)

// writeRecords renders records in the named format. When headers is non-nil
// the JSON and YAML forms are lists of objects keyed by header; otherwise
// they are lists of lists.
func writeRecords(w io.Writer, format string, headers []string, records [][]string) error {
	switch format {
	case "table":
		return writeTable(w, headers, records)
	case "json":
		return writeJSON(w, headers, records)
	case "yaml":
		return writeYAML(w, headers, records)
	case "lines":
		return writeLines(w, headers, records)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeTable(w io.Writer, headers []string, records [][]string) error {
	width := lo.Max(append(lo.Map(records, func(rec []string, _ int) int { return len(rec) }), len(headers)))
	if width == 0 {
		return nil
	}
	if headers == nil {
		headers = lo.Times(width, func(i int) string { return strconv.Itoa(i + 1) })
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithRenderer(
			renderer.NewBlueprint(tw.Rendition{Symbols: tw.NewSymbols(tw.StyleASCII)})),
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithTrimSpace(tw.Off),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header(pad(headers, width))
	for _, rec := range records {
		if err := table.Append(pad(rec, width)); err != nil {
			return err
		}
	}
	return table.Render()
}

// pad extends rec with empty fields up to width.
func pad(rec []string, width int) []string {
	if len(rec) >= width {
		return rec
	}
	return append(append(make([]string, 0, width), rec...), make([]string, width-len(rec))...)
}

func writeJSON(w io.Writer, headers []string, records [][]string) error {
	enc := jsontext.NewEncoder(w, jsontext.WithIndent("  "), jsontext.AllowDuplicateNames(true))
	if err := enc.WriteToken(jsontext.BeginArray); err != nil {
		return err
	}
	for _, rec := range records {
		if err := writeJSONRecord(enc, headers, rec); err != nil {
			return err
		}
	}
	return enc.WriteToken(jsontext.EndArray)
}

// writeJSONRecord writes rec as an object in column order, or as an array
// when there are no headers. Fields beyond the headers are keyed by their
// 1-based column number.
func writeJSONRecord(enc *jsontext.Encoder, headers, rec []string) error {
	if headers == nil {
		if err := enc.WriteToken(jsontext.BeginArray); err != nil {
			return err
		}
		for _, f := range rec {
			if err := enc.WriteToken(jsontext.String(f)); err != nil {
				return err
			}
		}
		return enc.WriteToken(jsontext.EndArray)
	}

	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	for i, f := range rec {
		if err := enc.WriteToken(jsontext.String(columnName(headers, i))); err != nil {
			return err
		}
		if err := enc.WriteToken(jsontext.String(f)); err != nil {
			return err
		}
	}
	return enc.WriteToken(jsontext.EndObject)
}

func writeYAML(w io.Writer, headers []string, records [][]string) error {
	var doc any = records
	if headers != nil {
		doc = lo.Map(records, func(rec []string, _ int) yaml.MapSlice {
			return lo.Map(rec, func(f string, i int) yaml.MapItem {
				return yaml.MapItem{Key: columnName(headers, i), Value: f}
			})
		})
	}
	if len(records) == 0 {
		doc = []any{}
	}

	b, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// writeLines prints one record per line with every field Go-quoted, so
// embedded separators and newlines stay visible.
func writeLines(w io.Writer, headers []string, records [][]string) error {
	if headers != nil {
		if _, err := fmt.Fprintf(w, "%q\n", headers); err != nil {
			return err
		}
	}
	for _, rec := range records {
		if _, err := fmt.Fprintf(w, "%q\n", rec); err != nil {
			return err
		}
	}
	return nil
}

func columnName(headers []string, i int) string {
	if i < len(headers) {
		return headers[i]
	}
	return strconv.Itoa(i + 1)
}
