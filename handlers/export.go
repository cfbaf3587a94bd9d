// handlers/export.go
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportPermits streams the permit register as an xlsx workbook,
// newest application first. Admin decision-support; the sheet mirrors
// the list screen plus the approval columns.
func ExportPermits(w http.ResponseWriter, r *http.Request) {
	permits, err := store.ListPermits()
	if err != nil {
		writePermitError(w, err)
		return
	}

	f := excelize.NewFile()
	const sheet = "Permits"
	f.SetSheetName("Sheet1", sheet)

	f.SetCellValue(sheet, "A1", "Work Permit Register")
	f.SetCellValue(sheet, "A2", fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04:05")))

	headers := []string{
		"Permit No", "Work Type", "Applicant", "Contractor", "Start Date",
		"Location", "Workers", "Status", "Approver", "Decided At", "Reason", "Created At",
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 4)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for rowIdx, p := range permits {
		row := rowIdx + 5
		values := []interface{}{
			p.PermitNumber,
			p.WorkType,
			p.ApplicantName,
			p.ContractorCompany,
			p.StartDate,
			p.WorkLocation,
			p.WorkerCount,
			string(p.ApprovalStatus),
			deref(p.ApproverSignature),
			formatTime(p.ApprovalDate),
			deref(p.ApprovalIncompleteReason),
			p.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	f.SetColWidth(sheet, "A", "A", 18)
	f.SetColWidth(sheet, "B", "F", 24)
	f.SetColWidth(sheet, "H", "L", 18)

	filename := fmt.Sprintf("work-permits-%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	if err := f.Write(w); err != nil {
		http.Error(w, "failed to write workbook: "+err.Error(), http.StatusInternalServerError)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
