package reporting

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"gostudy/internal/errors"
)

const scoreboardSheet = "Scoreboard"

// ExportScoreboard writes the settlement scoreboard to an .xlsx workbook.
func ExportScoreboard(path string, summaries []SettlementSummary, overall ScoreboardStats) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", scoreboardSheet); err != nil {
		return errors.ReportFailure("rename scoreboard sheet", err)
	}

	headers := []string{
		"Settlement", "Score", "Percentile",
		"Succeeded", "Failed", "Cancelled", "Ongoing (primary)", "Ongoing (collab)",
	}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return errors.ReportFailure("scoreboard header cell", err)
		}
		if err := f.SetCellValue(scoreboardSheet, cell, header); err != nil {
			return errors.ReportFailure("scoreboard header", err)
		}
	}

	for row, s := range summaries {
		values := []interface{}{
			s.Settlement,
			s.Score,
			s.Percentile,
			s.Counts.Succeeded,
			s.Counts.Failed,
			s.Counts.Cancelled,
			s.Counts.OngoingPrimary,
			s.Counts.OngoingCollaborative,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return errors.ReportFailure("scoreboard cell", err)
			}
			if err := f.SetCellValue(scoreboardSheet, cell, v); err != nil {
				return errors.ReportFailure("scoreboard value", err)
			}
		}
	}

	summaryRow := len(summaries) + 3
	line := fmt.Sprintf("mean %.2f / median %.2f / stddev %.2f / max %.2f",
		overall.Mean, overall.Median, overall.StdDev, overall.Max)
	cell, err := excelize.CoordinatesToCellName(1, summaryRow)
	if err != nil {
		return errors.ReportFailure("scoreboard summary cell", err)
	}
	if err := f.SetCellValue(scoreboardSheet, cell, line); err != nil {
		return errors.ReportFailure("scoreboard summary", err)
	}

	if err := f.SaveAs(path); err != nil {
		return errors.ReportFailure("save scoreboard", err)
	}
	return nil
}
