package render

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVRenderer encodes a tabular report as UTF-8 delimited text. Dates stay
// literal strings; CSV has no native types.
type CSVRenderer struct {
	branding *Branding
}

// NewCSVRenderer creates a CSV renderer with the given branding
func NewCSVRenderer(b *Branding) *CSVRenderer {
	return &CSVRenderer{branding: b}
}

// Render encodes the report as CSV bytes
func (r *CSVRenderer) Render(rep *TabularReport, title string, meta Meta) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	requester := meta.RequestedBy
	if requester == "" {
		requester = BlankCell
	}

	preamble := [][]string{
		{r.branding.CompanyName},
		{title},
		{fmt.Sprintf("Generado: %s", meta.GeneratedAt.Format(DisplayDateTime))},
		{fmt.Sprintf("Solicitado por: %s", requester)},
		{},
	}
	for _, line := range preamble {
		if err := w.Write(line); err != nil {
			return nil, fmt.Errorf("failed to render csv report %q: %w", title, err)
		}
	}

	if err := w.Write(rep.Header); err != nil {
		return nil, fmt.Errorf("failed to render csv report %q: %w", title, err)
	}

	if rep.Empty() {
		if err := w.Write([]string{NoRecordsMarker}); err != nil {
			return nil, fmt.Errorf("failed to render csv report %q: %w", title, err)
		}
	}

	for _, row := range rep.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = DisplayCell(c)
		}
		if err := w.Write(cells); err != nil {
			return nil, fmt.Errorf("failed to render csv report %q: %w", title, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to render csv report %q: %w", title, err)
	}

	return buf.Bytes(), nil
}
