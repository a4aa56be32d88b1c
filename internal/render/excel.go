package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Reporte"

// tableStartRow leaves room for the branding block above the data table
const tableStartRow = 6

// ExcelRenderer encodes a tabular report as a styled XLSX workbook:
// branded header block, styled column headers, zebra rows and native
// date cells for values shaped like dd/mm/yyyy.
type ExcelRenderer struct {
	branding *Branding
}

// NewExcelRenderer creates a spreadsheet renderer with the given branding
func NewExcelRenderer(b *Branding) *ExcelRenderer {
	return &ExcelRenderer{branding: b}
}

// Render encodes the report as XLSX bytes
func (r *ExcelRenderer) Render(rep *TabularReport, title string, meta Meta) ([]byte, error) {
	out, err := r.render(rep, title, meta)
	if err != nil {
		return nil, fmt.Errorf("failed to render xlsx report %q: %w", title, err)
	}
	return out, nil
}

func (r *ExcelRenderer) render(rep *TabularReport, title string, meta Meta) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	if err := r.writeBrandingBlock(f, title, meta); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: r.branding.TextColor},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{r.branding.HeaderColor}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	zebraStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{r.branding.ZebraColor}},
	})
	if err != nil {
		return nil, err
	}

	dateFmt := "dd/mm/yyyy"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return nil, err
	}
	zebraDateStyle, err := f.NewStyle(&excelize.Style{
		Fill:         excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{r.branding.ZebraColor}},
		CustomNumFmt: &dateFmt,
	})
	if err != nil {
		return nil, err
	}

	for col, name := range rep.Header {
		cell, err := excelize.CoordinatesToCellName(col+1, tableStartRow)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	if rep.Empty() {
		cell, err := excelize.CoordinatesToCellName(1, tableStartRow+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, NoRecordsMarker); err != nil {
			return nil, err
		}
	}

	for i, row := range rep.Rows {
		rowNum := tableStartRow + 1 + i
		zebra := i%2 == 1
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return nil, err
			}

			style := 0
			if zebra {
				style = zebraStyle
			}
			if d, ok := ParseDisplayDate(value); ok {
				// Native date cell: sortable and filterable in the workbook
				if err := f.SetCellValue(sheetName, cell, d); err != nil {
					return nil, err
				}
				style = dateStyle
				if zebra {
					style = zebraDateStyle
				}
			} else {
				if err := f.SetCellValue(sheetName, cell, DisplayCell(value)); err != nil {
					return nil, err
				}
			}
			if style != 0 {
				if err := f.SetCellStyle(sheetName, cell, cell, style); err != nil {
					return nil, err
				}
			}
		}
	}

	lastCol, err := excelize.ColumnNumberToName(max(len(rep.Header), 1))
	if err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetName, "A", lastCol, 22); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *ExcelRenderer) writeBrandingBlock(f *excelize.File, title string, meta Meta) error {
	companyStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return err
	}
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	if err != nil {
		return err
	}

	if len(r.branding.LogoPNG) > 0 {
		pic := &excelize.Picture{
			Extension: ".png",
			File:      r.branding.LogoPNG,
			Format:    &excelize.GraphicOptions{ScaleX: 0.5, ScaleY: 0.5},
		}
		if err := f.AddPictureFromBytes(sheetName, "A1", pic); err != nil {
			return err
		}
	}

	requester := meta.RequestedBy
	if requester == "" {
		requester = BlankCell
	}

	cells := []struct {
		cell  string
		value string
		style int
	}{
		{"B1", r.branding.CompanyName, companyStyle},
		{"B2", title, titleStyle},
		{"B3", fmt.Sprintf("Generado: %s", meta.GeneratedAt.Format(DisplayDateTime)), 0},
		{"B4", fmt.Sprintf("Solicitado por: %s", requester), 0},
	}
	for _, c := range cells {
		if err := f.SetCellValue(sheetName, c.cell, c.value); err != nil {
			return err
		}
		if c.style != 0 {
			if err := f.SetCellStyle(sheetName, c.cell, c.cell, c.style); err != nil {
				return err
			}
		}
	}
	return nil
}
