package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/tickerlab/portfolio"
)

// Chart is a PNG image.
type Chart struct {
	Name string
	PNG  []byte
}

// PDF returns an A4 document with the comparison table, the allocation and the
// metrics, followed by charts if any. Pages break automatically.
func PDF(t Tables, charts ...Chart) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Portfolio Performance Report", "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 10, "Portfolio Data:", "", 1, "L", false, 0, "")
	pdf.Ln(5)
	for _, h := range t.dataHeader() {
		pdf.CellFormat(40, 10, tr(h), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	for _, r := range t.Comparison {
		pdf.CellFormat(40, 10, r.Date.String(), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 10, fmt.Sprintf("%.2f", r.Portfolio), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 10, fmt.Sprintf("%.2f", r.Benchmark), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(10)
	pdf.CellFormat(0, 10, "Allocation:", "", 1, "L", false, 0, "")
	pdf.Ln(5)
	for _, r := range t.Allocation {
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("%s: %s", r.Ticker, portfolio.AsPercent(r.Weight))), "", 1, "L", false, 0, "")
	}

	pdf.Ln(10)
	pdf.CellFormat(0, 10, "Performance Metrics:", "", 1, "L", false, 0, "")
	pdf.Ln(5)
	rows := t.metricRows()
	for i, r := range rows {
		border := "1"
		if i == 0 {
			pdf.SetFont("Arial", "B", 12)
		}
		pdf.CellFormat(60, 10, tr(r[0]), border, 0, "L", false, 0, "")
		pdf.CellFormat(40, 10, tr(r[1]), border, 0, "C", false, 0, "")
		pdf.CellFormat(40, 10, tr(r[2]), border, 1, "C", false, 0, "")
		if i == 0 {
			pdf.SetFont("Arial", "", 12)
		}
	}

	for _, c := range charts {
		pdf.AddPage()
		pdf.RegisterImageOptionsReader(c.Name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(c.PNG))
		// zero height keeps the aspect ratio
		pdf.ImageOptions(c.Name, 10, 20, 190, 0, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: cannot encode pdf: %v", ErrExport, err)
	}
	return buf.Bytes(), nil
}
