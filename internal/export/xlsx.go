package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/starford/brainbrew/internal/models"
)

var xlsxHeader = []string{"Start", "End", "Activity", "Subject", "Label"}

// WriteXLSX writes a workbook with one sheet per scheduled day.
func WriteXLSX(w io.Writer, tt models.StudyTimetable) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("export: xlsx style: %w", err)
	}
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 13}})
	if err != nil {
		return fmt.Errorf("export: xlsx style: %w", err)
	}

	days := scheduledDays(tt)
	if len(days) == 0 {
		if err := f.SetSheetName("Sheet1", "Timetable"); err != nil {
			return fmt.Errorf("export: xlsx: %w", err)
		}
		f.SetCellValue("Timetable", "A1", tt.Name)
		return writeWorkbook(f, w)
	}

	for i, day := range days {
		sheet := dayTitle(day)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("export: xlsx: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("export: xlsx sheet %s: %w", sheet, err)
		}
		if err := fillDaySheet(f, sheet, tt.Name, tt.WeeklySchedule[day], titleStyle, headerStyle); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)
	return writeWorkbook(f, w)
}

func fillDaySheet(f *excelize.File, sheet, name string, slots []models.TimeSlot, titleStyle, headerStyle int) error {
	f.SetColWidth(sheet, "A", "B", 8)
	f.SetColWidth(sheet, "C", "C", 12)
	f.SetColWidth(sheet, "D", "E", 22)

	f.SetCellValue(sheet, "A1", fmt.Sprintf("%s (%s)", name, sheet))
	f.MergeCell(sheet, "A1", "E1")
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)

	for i, h := range xlsxHeader {
		c, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheet, c, h)
	}
	f.SetCellStyle(sheet, "A2", "E2", headerStyle)

	for i, s := range slots {
		row := i + 3
		values := []any{s.StartTime.String(), s.EndTime.String(), string(s.Activity), s.Subject, s.Label}
		c, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, c, &values); err != nil {
			return fmt.Errorf("export: xlsx row %d: %w", row, err)
		}
	}
	return nil
}

func writeWorkbook(f *excelize.File, w io.Writer) error {
	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write xlsx: %w", err)
	}
	return nil
}
