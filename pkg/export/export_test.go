package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Weekly lessons",
		Headers: []string{"Day", "Start", "Style"},
		Rows: [][]string{
			{"Monday", "09:00", "freestyle"},
			{"Tuesday", "10:30"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)
	assert.Equal(t, "application/pdf", f.ContentType())
	assert.Equal(t, "pdf", f.Extension())

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestCSVExporterPadsShortRows(t *testing.T) {
	payload, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Day", "Start", "Style"},
		{"Monday", "09:00", "freestyle"},
		{"Tuesday", "10:30", ""},
	}, records)
}

func TestExportersRequireHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterMultiPage(t *testing.T) {
	data := sampleDataset()
	for i := 0; i < 80; i++ {
		data.Rows = append(data.Rows, []string{"Friday", fmt.Sprintf("%02d:00", i%24), "butterfly"})
	}

	payload, err := Render(FormatPDF, data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}

func TestColumnWidthsFillPage(t *testing.T) {
	widths := columnWidths(sampleDataset())
	total := 0.0
	for _, w := range widths {
		total += w
	}
	assert.InDelta(t, pdfPageWidth, total, 0.001)
	assert.Greater(t, widths[2], widths[1])
}
