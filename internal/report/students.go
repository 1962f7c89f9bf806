// Package report renders record listings as spreadsheet workbooks.
package report

import (
	"fmt"
	"io"

	"github.com/stemsi/student-records/internal/model"
	"github.com/xuri/excelize/v2"
)

// SheetStudents is the name of the single sheet in a student export.
const SheetStudents = "Students"

// ContentTypeXLSX is the MIME type of the generated workbook.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var studentHeader = []any{"ID", "Name", "Email", "Course ID", "Course Name", "Professor"}

// WriteStudents writes a workbook with a header row and one row per student, in the
// given order. Course columns are filled from courses and left blank for unassigned
// students.
func WriteStudents(w io.Writer, students []model.Student, courses []model.Course) error {
	byID := make(map[string]model.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetStudents); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetSheetRow(SheetStudents, "A1", &studentHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetRowStyle(SheetStudents, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, s := range students {
		course := byID[s.CourseRef()]
		row := []any{s.ID, s.Name, s.Email, s.CourseRef(), course.Name, course.ProfessorName}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetStudents, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(SheetStudents, "B", "F", 28); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetPanes(SheetStudents, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
