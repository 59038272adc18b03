package sheet

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"pick-reconciler/core/reconcile"
	"pick-reconciler/core/utils"

	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the workbooks written by WriteSession.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Pick list column names. Header matching is case-insensitive.
const (
	ColLineID        = "line_id"
	ColPartNo        = "part_no"
	ColBin           = "bin"
	ColReferenceCode = "reference_code"
	ColQuantity      = "quantity"
)

// ErrNoRows is returned for a pick list without a header row.
var ErrNoRows = errors.New("pick list is empty")

// Report is the content of an exported session workbook.
type Report struct {
	SessionID string
	OrderID   string
	Units     []reconcile.ExpectedUnit
	Log       []reconcile.ScanEvent
	Progress  reconcile.Progress
}

// ImportLines reads order lines from the first sheet of a pick list workbook.
// The first row is the header; part_no, bin and quantity are required columns.
// A missing line_id column numbers lines by spreadsheet row. Blank rows are
// skipped.
func ImportLines(r io.Reader) ([]reconcile.Line, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open pick list: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read pick list: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	cols := make(map[string]int)
	for i, name := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{ColPartNo, ColBin, ColQuantity} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("pick list is missing column %q", required)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return utils.ToString(row[i])
	}

	var lines []reconcile.Line
	for n, row := range rows[1:] {
		rowNum := n + 2
		if isBlank(row) {
			continue
		}

		qty, err := utils.ParseInt(cell(row, ColQuantity))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid quantity: %w", rowNum, err)
		}

		lineID := cell(row, ColLineID)
		if lineID == "" {
			lineID = fmt.Sprintf("row-%d", rowNum)
		}

		lines = append(lines, reconcile.Line{
			LineID:        lineID,
			PartNo:        cell(row, ColPartNo),
			Bin:           cell(row, ColBin),
			ReferenceCode: cell(row, ColReferenceCode),
			Quantity:      qty,
		})
	}

	return lines, nil
}

// WriteSession writes a workbook with a Units sheet and a Scans sheet.
func WriteSession(w io.Writer, report Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Units"); err != nil {
		return err
	}
	if _, err := f.NewSheet("Scans"); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	units := [][]any{{"line_id", "part_no", "bin", "reference_code", "unit_index", "state", "matched_at"}}
	for _, u := range report.Units {
		units = append(units, []any{u.LineID, u.PartNo, u.Bin, u.ReferenceCode, u.UnitIndex, string(u.State), formatTime(u.MatchedAt)})
	}
	units = append(units, []any{}, []any{"session", report.SessionID}, []any{"order", report.OrderID},
		[]any{"matched", report.Progress.MatchedCount}, []any{"total", report.Progress.TotalUnits}, []any{"percent", report.Progress.Percent})

	scans := [][]any{{"sequence", "timestamp", "raw_code", "code", "outcome", "part_no", "line_id", "unit_index"}}
	for _, ev := range report.Log {
		row := []any{ev.Sequence, ev.Timestamp.UTC().Format(time.RFC3339), ev.RawCode, ev.Code, string(ev.Outcome), ev.PartNo}
		if ev.Unit != nil {
			row = append(row, ev.Unit.LineID, ev.Unit.UnitIndex)
		}
		scans = append(scans, row)
	}

	for sheet, rows := range map[string][][]any{"Units": units, "Scans": scans} {
		if err := writeRows(f, sheet, rows, headerStyle); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func writeRows(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "H", 16)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
