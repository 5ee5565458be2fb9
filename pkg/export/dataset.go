// Package export renders tabular lesson schedules as CSV or PDF.
package export

import (
	"fmt"
	"strings"
)

// Format is a supported export encoding.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ParseFormat accepts "csv" or "pdf" in any case. Empty defaults to CSV.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/csv; charset=utf-8"
}

// Extension returns the file extension without the dot.
func (f Format) Extension() string {
	return string(f)
}

// Dataset defines tabular export content. Each row holds one cell per header;
// short rows are padded with blanks.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
}

func (d Dataset) cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// Renderer encodes a dataset into one format.
type Renderer interface {
	Render(data Dataset) ([]byte, error)
}

// Render encodes data in format f.
func Render(f Format, data Dataset) ([]byte, error) {
	switch f {
	case FormatCSV:
		return NewCSVExporter().Render(data)
	case FormatPDF:
		return NewPDFExporter().Render(data)
	default:
		return nil, fmt.Errorf("unsupported export format %q", f)
	}
}
