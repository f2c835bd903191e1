package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSX returns a workbook with the comparison table in the "Portfolio Data"
// sheet, and the allocation followed by the metrics in the "Performance
// Metrics" sheet.
func XLSX(t Tables) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), DataSheet); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExport, err)
	}
	if _, err := f.NewSheet(MetricsSheet); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExport, err)
	}

	w := sheetWriter{f: f, sheet: DataSheet}
	w.row(toAny(t.dataHeader())...)
	for _, r := range t.Comparison {
		w.row(r.Date.String(), r.Portfolio, r.Benchmark)
	}
	if w.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExport, w.err)
	}

	w = sheetWriter{f: f, sheet: MetricsSheet}
	w.row("Stock", "Weight")
	for _, r := range t.Allocation {
		w.row(r.Ticker, r.Weight)
	}
	w.row() // blank line between the tables
	for _, r := range t.metricRows() {
		w.row(toAny(r)...)
	}
	if w.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExport, w.err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot encode workbook: %v", ErrExport, err)
	}
	return buf.Bytes(), nil
}

// sheetWriter appends rows to a sheet and keeps the first error.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	n     int
	err   error
}

func (w *sheetWriter) row(values ...any) {
	w.n++
	if w.err != nil || len(values) == 0 {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, w.n)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(w.sheet, cell, &values)
}

func toAny(s []string) []any {
	r := make([]any, len(s))
	for i, v := range s {
		r[i] = v
	}
	return r
}
