package reports

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const duesSheet = "Dues"

var duesHeaders = []string{"Tenant", "Room", "Rent", "Paid", "Due"}

// DuesWorkbook renders the report as a single-sheet xlsx with a totals row.
func DuesWorkbook(rep *DuesReport) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(duesSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for i, header := range duesHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(duesSheet, cell, header); err != nil {
			return nil, err
		}
	}

	row := 2
	for _, r := range rep.Rows {
		values := []any{
			r.TenantName,
			r.RoomNumber,
			r.Rent.Rupees().InexactFloat64(),
			r.Paid.Rupees().InexactFloat64(),
			r.Due.Rupees().InexactFloat64(),
		}
		if err := f.SetSheetRow(duesSheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return nil, err
		}
		row++
	}

	total := []any{"Total outstanding", "", "", "", rep.Summary.TotalDue.Rupees().InexactFloat64()}
	if err := f.SetSheetRow(duesSheet, fmt.Sprintf("A%d", row), &total); err != nil {
		return nil, err
	}

	if err := f.SetColWidth(duesSheet, "A", "A", 28); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}
