package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Table is one named tabular section of an export. Staffing exports
// carry several tables per document (summary, gaps, class mapping).
type Table struct {
	Title   string
	Headers []string
	Rows    []map[string]string
}

// Document is the full export payload handed to an exporter.
type Document struct {
	Title  string
	Tables []Table
}

// CSVExporter renders a document into CSV bytes. Multiple tables are
// separated by a blank record and a title row.
type CSVExporter struct{}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces the CSV encoding of the document.
func (e *CSVExporter) Render(doc Document) ([]byte, error) {
	if len(doc.Tables) == 0 {
		return nil, fmt.Errorf("csv export requires at least one table")
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	for i, table := range doc.Tables {
		if len(table.Headers) == 0 {
			return nil, fmt.Errorf("table %q has no headers", table.Title)
		}
		if i > 0 {
			if err := w.Write([]string{}); err != nil {
				return nil, fmt.Errorf("write csv separator: %w", err)
			}
		}
		if table.Title != "" {
			if err := w.Write([]string{table.Title}); err != nil {
				return nil, fmt.Errorf("write csv title: %w", err)
			}
		}
		if err := w.Write(table.Headers); err != nil {
			return nil, fmt.Errorf("write csv headers: %w", err)
		}
		for _, row := range table.Rows {
			record := make([]string, len(table.Headers))
			for j, header := range table.Headers {
				record[j] = row[header]
			}
			if err := w.Write(record); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
