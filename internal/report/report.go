// Package report renders the admin dashboard as an XLSX workbook.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/testdeck/backend/internal/service"
)

const (
	usersSheet   = "Users"
	resultsSheet = "Results"
)

var (
	usersHeader   = []interface{}{"User ID", "Email", "Completed", "Remaining", "Attempts"}
	resultsHeader = []interface{}{"Email", "Test", "Score", "Correct", "Questions", "Time (min)", "Completed At"}
)

// WriteUserStats writes one row per user on the Users sheet and one row per
// result on the Results sheet.
func WriteUserStats(w io.Writer, stats []service.UserStats) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", usersSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(resultsSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	if err := writeRow(f, usersSheet, 1, usersHeader); err != nil {
		return err
	}
	if err := writeRow(f, resultsSheet, 1, resultsHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(usersSheet, "A1", "E1", bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(resultsSheet, "A1", "G1", bold); err != nil {
		return err
	}

	resultRow := 2
	for i, s := range stats {
		row := []interface{}{s.ID, s.Email, s.Completed, s.Remaining, len(s.Results)}
		if err := writeRow(f, usersSheet, i+2, row); err != nil {
			return err
		}

		for _, r := range s.Results {
			line := []interface{}{
				s.Email,
				r.TestTitle,
				r.Score,
				r.CorrectAnswers,
				r.TotalQuestions,
				r.TimeTaken,
				r.CompletedAt.UTC().Format(time.RFC3339),
			}
			if err := writeRow(f, resultsSheet, resultRow, line); err != nil {
				return err
			}
			resultRow++
		}
	}

	if err := f.SetColWidth(usersSheet, "A", "B", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(resultsSheet, "A", "B", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(resultsSheet, "G", "G", 24); err != nil {
		return err
	}

	return f.Write(w)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
