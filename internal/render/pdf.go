package render

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// PDFRenderer encodes a tabular report as a branded, paginated A4 document.
// The "Página N de M" footer is a two-pass render: fpdf reserves the {nb}
// alias while pages are laid out and backfills the total on output.
type PDFRenderer struct {
	branding *Branding
}

// NewPDFRenderer creates a paginated document renderer with the given branding
func NewPDFRenderer(b *Branding) *PDFRenderer {
	return &PDFRenderer{branding: b}
}

// Render encodes the report as PDF bytes
func (r *PDFRenderer) Render(rep *TabularReport, title string, meta Meta) ([]byte, error) {
	out, err := r.render(rep, title, meta)
	if err != nil {
		return nil, fmt.Errorf("failed to render pdf report %q: %w", title, err)
	}
	return out, nil
}

func (r *PDFRenderer) render(rep *TabularReport, title string, meta Meta) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Página %d de {nb}", pdf.PageNo())),
			"", 0, "C", false, 0, "")
	})

	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	if err := r.writeBrandingBlock(pdf, tr, title, meta); err != nil {
		return nil, err
	}

	colWidths := columnWidths(rep, 190)

	hr, hg, hb := hexRGB(r.branding.HeaderColor)
	tcr, tcg, tcb := hexRGB(r.branding.TextColor)
	pdf.SetFillColor(hr, hg, hb)
	pdf.SetTextColor(tcr, tcg, tcb)
	pdf.SetFont("Helvetica", "B", 9)
	for i, name := range rep.Header {
		pdf.CellFormat(colWidths[i], 8, tr(name), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 9)

	if rep.Empty() {
		pdf.CellFormat(190, 8, tr(NoRecordsMarker), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	zr, zg, zb := hexRGB(r.branding.ZebraColor)
	for i, row := range rep.Rows {
		fill := i%2 == 1
		if fill {
			pdf.SetFillColor(zr, zg, zb)
		}
		for col, value := range row {
			pdf.CellFormat(colWidths[col], 7, tr(DisplayCell(value)), "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) writeBrandingBlock(pdf *fpdf.Fpdf, tr func(string) string, title string, meta Meta) error {
	textX := 10.0
	if len(r.branding.LogoPNG) > 0 {
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(r.branding.LogoPNG))
		pdf.ImageOptions("logo", 10, 10, 24, 0, false, opts, 0, "")
		textX = 40
	}
	if err := pdf.Error(); err != nil {
		return err
	}

	requester := meta.RequestedBy
	if requester == "" {
		requester = BlankCell
	}

	pdf.SetXY(textX, 12)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 7, tr(r.branding.CompanyName), "", 2, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, tr(title), "", 2, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Generado: %s", meta.GeneratedAt.Format(DisplayDateTime))), "", 2, "L", false, 0, "")
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Solicitado por: %s", requester)), "", 2, "L", false, 0, "")
	pdf.Ln(6)
	pdf.SetX(10)
	return pdf.Error()
}

// columnWidths distributes the printable width across columns, weighted by
// header length so wide columns like descriptions get more room.
func columnWidths(rep *TabularReport, total float64) []float64 {
	if len(rep.Header) == 0 {
		return nil
	}
	weights := make([]float64, len(rep.Header))
	var sum float64
	for i, name := range rep.Header {
		w := float64(len(name))
		if w < 6 {
			w = 6
		}
		weights[i] = w
		sum += w
	}
	widths := make([]float64, len(weights))
	for i, w := range weights {
		widths[i] = total * w / sum
	}
	return widths
}
