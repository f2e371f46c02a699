package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"speview/internal/plot"
)

const (
	sheetName      = "Spectra"
	minNumberWidth = 20.0
)

// writeSpectraExcel writes every line of fig as an x/y column pair. Row 1 is
// the merged title, row 2 the line names, row 3 the axis labels.
func writeSpectraExcel(w io.Writer, title string, fig *plot.Figure) error {
	lines := make([]plot.Line, 0, len(fig.Lines)+1)
	for _, l := range fig.Lines {
		if len(l.X) > 0 {
			lines = append(lines, l)
		}
	}
	if fig.Diff != nil && len(fig.Diff.X) > 0 {
		lines = append(lines, *fig.Diff)
	}
	if len(lines) == 0 {
		return ErrNoData
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	numCols := 2 * len(lines)
	endCol, err := excelize.ColumnNumberToName(numCols)
	if err != nil {
		return fmt.Errorf("%d lines: %w", len(lines), err)
	}
	if err := f.MergeCell(sheetName, "A1", endCol+"1"); err != nil {
		return fmt.Errorf("merge title: %w", err)
	}
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	f.SetCellStyle(sheetName, "A1", endCol+"1", titleStyle)
	f.SetCellValue(sheetName, "A1", title)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	colWidths := make(map[int]float64, numCols)

	for i, line := range lines {
		xCol, yCol := 2*i+1, 2*i+2
		xName, _ := excelize.ColumnNumberToName(xCol)
		yName, _ := excelize.ColumnNumberToName(yCol)

		if err := f.MergeCell(sheetName, xName+"2", yName+"2"); err != nil {
			return fmt.Errorf("merge header: %w", err)
		}
		f.SetCellValue(sheetName, xName+"2", line.Name)
		f.SetCellStyle(sheetName, xName+"2", yName+"2", headerStyle)
		f.SetCellValue(sheetName, xName+"3", fig.XLabel)
		f.SetCellValue(sheetName, yName+"3", fig.YLabel)
		f.SetCellStyle(sheetName, xName+"3", yName+"3", headerStyle)

		// values are written with full float64 precision
		colWidths[xCol] = max(calculateApproxTextWidth(fig.XLabel), minNumberWidth)
		colWidths[yCol] = max(calculateApproxTextWidth(fig.YLabel), minNumberWidth)

		for j := range line.X {
			row := j + 4
			xCell, err := excelize.CoordinatesToCellName(xCol, row)
			if err != nil {
				return fmt.Errorf("%s: %w", line.Name, err)
			}
			yCell, _ := excelize.CoordinatesToCellName(yCol, row)
			if err := f.SetCellValue(sheetName, xCell, line.X[j]); err != nil {
				return fmt.Errorf("write %s: %w", xCell, err)
			}
			if j < len(line.Y) {
				if err := f.SetCellValue(sheetName, yCell, line.Y[j]); err != nil {
					return fmt.Errorf("write %s: %w", yCell, err)
				}
			}
		}
	}

	for col, width := range colWidths {
		name, _ := excelize.ColumnNumberToName(col)
		if err := f.SetColWidth(sheetName, name, name, width); err != nil {
			return fmt.Errorf("column %s width: %w", name, err)
		}
	}

	now := nowISO8601()
	_ = f.SetDocProps(&excelize.DocProperties{
		Created:     now,
		Modified:    now,
		Creator:     "speview",
		Title:       title,
		Description: "Raman spectra",
	})

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func nowISO8601() string {
	return time.Now().Format("2006-01-02T15:04:05Z07:00")
}

// calculateApproxTextWidth estimates the column width Excel needs for text.
// Non-ASCII characters count double.
func calculateApproxTextWidth(text string) float64 {
	width := 0.0
	for _, r := range text {
		if r <= 127 {
			width += 1.0
		} else {
			width += 2.0
		}
	}
	return width + 3.0
}

func resizeDialog(d dialog.Dialog, parent fyne.Window) {
	const minWidth float32 = 400
	const minHeight float32 = 300
	const scale float32 = 0.6

	parentSize := parent.Canvas().Size()
	targetWidth := max(parentSize.Width*scale, minWidth)
	targetHeight := max(parentSize.Height*scale, minHeight)

	d.Resize(fyne.NewSize(targetWidth, targetHeight))
}

func handleCrash() {
	if r := recover(); r != nil {
		logContent := fmt.Sprintf("FATAL ERROR: %v\n\nSTACK TRACE:\n%s", r, string(debug.Stack()))
		zap.L().Error("crash", zap.Any("panic", r))
		// next to where the program was started, so users find it
		_ = os.WriteFile("crash.log", []byte(logContent), 0644)
		os.Exit(2)
	}
}
