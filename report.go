package leadconsole

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

// reportColumn binds a header cell to the failed-row field it prints. The
// header spellings, including the double space in "COMPANY  NAME", match the
// import template the operators fill in.
type reportColumn struct {
	header string
	width  float64
	value  func(row FailedRow) any
}

func dataField(keys ...string) func(row FailedRow) any {
	return func(row FailedRow) any {
		for _, k := range keys {
			if v, ok := row.Data[k]; ok && v != nil && v != "" {
				return v
			}
		}
		return ""
	}
}

var reportColumns = []reportColumn{
	{"Row #", 8, func(row FailedRow) any { return row.RowNumber }},
	{"Reason", 30, func(row FailedRow) any { return row.Reason }},
	{"COMPANY  NAME", 25, dataField("COMPANY  NAME", "CompanyName", "companyName")},
	{"Contact No", 15, dataField("Contact No", "ContactNumber", "contactNumber")},
	{"Address", 25, dataField("Address", "address")},
	{"Status", 15, dataField("Status", "status")},
	{"Follow Up Date Time", 25, dataField("Follow Up Date Time", "followUpDateTime")},
	{"Notes", 35, dataField("Notes", "Note", "notes", "note")},
}

// WriteFailedRowsXLSX renders the failed rows as a spreadsheet on w, one
// header row plus one row per failure in server order. An empty sheet name
// falls back to "Failed Rows".
func (r *BulkUploadResult) WriteFailedRowsXLSX(w io.Writer, sheet string) error {
	if len(r.FailedRows) == 0 {
		return ErrNoFailedRows
	}
	if sheet == "" {
		sheet = "Failed Rows"
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("report: create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if sheet != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("report: drop default sheet: %w", err)
		}
	}

	header := make([]any, len(reportColumns))
	for i, col := range reportColumns {
		header[i] = col.header

		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("report: column name: %w", err)
		}
		if err := f.SetColWidth(sheet, name, name, col.width); err != nil {
			return fmt.Errorf("report: column width: %w", err)
		}
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("report: header row: %w", err)
	}

	for i, row := range r.FailedRows {
		cells := make([]any, len(reportColumns))
		for j, col := range reportColumns {
			cells[j] = col.value(row)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("report: cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("report: data row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("report: write workbook: %w", err)
	}
	return nil
}

// failedRowsReportName builds the suggested download name, e.g.
// "failed-rows-2026-08-28.xlsx".
func failedRowsReportName(prefix string, now time.Time) string {
	if prefix == "" {
		prefix = "failed-rows"
	}
	return fmt.Sprintf("%s-%s.xlsx", prefix, now.Format("2006-01-02"))
}
