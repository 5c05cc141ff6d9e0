package compliance

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const registerSheet = "Legal Register"

// ExportRegister writes the urgency-sorted legal register as an Excel
// workbook, one obligation per row.
func ExportRegister(w io.Writer, entries []RegisterEntry) error {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", registerSheet)

	headers := []string{"Reference", "Title", "Category", "Compliance Status", "Owner", "Last Review", "Next Review", "Days Until Due", "Urgency"}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(registerSheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	endCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(registerSheet, "A1", endCell, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	const dateFormat = "2006-01-02"
	for row, entry := range entries {
		lastReview, nextReview := "", ""
		if entry.LastReviewDate != nil {
			lastReview = entry.LastReviewDate.Format(dateFormat)
		}
		if entry.NextReviewDate != nil {
			nextReview = entry.NextReviewDate.Format(dateFormat)
		}
		values := []interface{}{
			entry.Reference,
			entry.Title,
			entry.Category,
			entry.Status,
			entry.OwnerID.String(),
			lastReview,
			nextReview,
			entry.DaysUntilDue,
			string(entry.Urgency),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(registerSheet, cell, v); err != nil {
				return fmt.Errorf("failed to write register row %d: %w", row+1, err)
			}
		}
	}

	if err := f.AutoFilter(registerSheet, fmt.Sprintf("A1:%s", endCell), nil); err != nil {
		return fmt.Errorf("failed to set auto filter: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write register workbook: %w", err)
	}
	return nil
}
