package render

import (
	"fmt"
	"regexp"
	"time"
)

// DisplayDate is the date layout used in report cells
const DisplayDate = "02/01/2006"

// DisplayDateTime is the timestamp layout used in report cells
const DisplayDateTime = "02/01/2006 15:04"

// NoRecordsMarker is emitted instead of an empty data table
const NoRecordsMarker = "Sin registros en el período"

// BlankCell replaces null or blank cell values in rendered output
const BlankCell = "—"

var displayDatePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

// TabularReport is the renderer-agnostic intermediate form: a header row
// plus data rows, all cells as display strings.
type TabularReport struct {
	Header []string
	Rows   [][]string
}

// NewTabularReport creates a tabular report with the given column names
func NewTabularReport(header ...string) *TabularReport {
	return &TabularReport{Header: header}
}

// AddRow appends a data row. The row must have the same arity as the header.
func (t *TabularReport) AddRow(cells ...string) error {
	if len(cells) != len(t.Header) {
		return fmt.Errorf("row has %d cells, header has %d", len(cells), len(t.Header))
	}
	t.Rows = append(t.Rows, cells)
	return nil
}

// Empty reports whether the report has no data rows beyond the header
func (t *TabularReport) Empty() bool {
	return len(t.Rows) == 0
}

// DisplayCell substitutes the blank-cell placeholder for empty values
func DisplayCell(s string) string {
	if s == "" {
		return BlankCell
	}
	return s
}

// ParseDisplayDate reports whether s is shaped like a dd/mm/yyyy date and,
// if so, returns its value. Renderers with native date support use this to
// emit sortable date cells.
func ParseDisplayDate(s string) (time.Time, bool) {
	if !displayDatePattern.MatchString(s) {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(DisplayDate, s, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Meta carries the per-generation context shown in the branding block.
type Meta struct {
	RequestedBy string
	GeneratedAt time.Time
}

// Renderer encodes a tabular report into one output format
type Renderer interface {
	Render(rep *TabularReport, title string, meta Meta) ([]byte, error)
}
