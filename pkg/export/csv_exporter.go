package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Dataset defines tabular export content. Footer, when present, is rendered
// as a closing totals row.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
	Footer  map[string]string
}

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.Rows {
		if err := writer.Write(projectRow(data.Headers, row)); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	if len(data.Footer) > 0 {
		if err := writer.Write(projectRow(data.Headers, data.Footer)); err != nil {
			return nil, fmt.Errorf("write csv footer: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func projectRow(headers []string, row map[string]string) []string {
	record := make([]string, len(headers))
	for i, header := range headers {
		record[i] = row[header]
	}
	return record
}
