package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/tsawler/gridscan/model"
)

const summarySheet = "Tables"

// SheetName returns the worksheet name used for a table.
func SheetName(t *model.Table) string {
	return fmt.Sprintf("Page %d Table %d", t.Page, t.Order)
}

// XLSX writes a workbook with a summary sheet followed by one sheet per
// table. Cells merged in a ruled table are merged in the sheet too.
func XLSX(w io.Writer, tables []*model.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	headers := []any{"Sheet", "Page", "Order", "Flavor", "Rows", "Columns", "Accuracy", "Whitespace"}
	if err := f.SetSheetRow(summarySheet, "A1", &headers); err != nil {
		return err
	}

	for i, t := range tables {
		sheet := SheetName(t)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("table %d: %w", i+1, err)
		}

		row := []any{sheet, t.Page, t.Order, t.Flavor.String(), t.Shape[0], t.Shape[1], t.Accuracy, t.Whitespace}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("table %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("table %d: %w", i+1, err)
		}

		if err := writeTableSheet(f, sheet, t); err != nil {
			return fmt.Errorf("table %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(summarySheet, "A", "A", 22); err != nil {
		return err
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func writeTableSheet(f *excelize.File, sheet string, t *model.Table) error {
	for r, row := range t.Data() {
		for c, text := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, text); err != nil {
				return err
			}
		}
	}

	if t.Flavor != model.FlavorLattice {
		return nil
	}
	for _, span := range horizontalSpans(t) {
		start, err := excelize.CoordinatesToCellName(span.first+1, span.row+1)
		if err != nil {
			return err
		}
		end, err := excelize.CoordinatesToCellName(span.last+1, span.row+1)
		if err != nil {
			return err
		}
		if err := f.MergeCell(sheet, start, end); err != nil {
			return err
		}
	}
	return nil
}

type span struct {
	row, first, last int
}

// horizontalSpans finds runs of cells in a row joined by missing vertical
// edges.
func horizontalSpans(t *model.Table) []span {
	var spans []span
	for r, row := range t.Cells {
		first := 0
		for c := 1; c <= len(row); c++ {
			if c < len(row) && !row[c].Left && !row[c-1].Right {
				continue
			}
			if c-1 > first {
				spans = append(spans, span{row: r, first: first, last: c - 1})
			}
			first = c
		}
	}
	return spans
}
