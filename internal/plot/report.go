package plot

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"speview/internal/calib"
)

const (
	reportWidth  = 1024
	reportHeight = 600
)

// ReportName is the file a calibration report for material is written to.
func ReportName(material string) string {
	return "calibration_report-" + material + ".png"
}

// pointStyle renders points only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		StrokeColor: drawing.ColorTransparent,
		DotWidth:    4,
		DotColor:    col,
	}
}

// ReportChart draws the reference spectrum with the fitted calibration on
// the secondary axis and the matched bands as points.
func ReportChart(r calib.Report) (*chart.Chart, error) {
	if len(r.Pixels) < 2 || len(r.Pixels) != len(r.Counts) {
		return nil, ErrNoData
	}
	fit := r.Poly.Apply(r.Pixels)
	lo, hi, _ := limits(fit, r.Bands)
	lo, hi = margin(lo, hi, 0.05)
	clo, chi, _ := limits(r.Counts)
	clo, chi = margin(clo, chi, 0.05)

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "counts",
			Style:   chart.Style{StrokeColor: drawing.ColorFromHex("0000b0"), StrokeWidth: 1},
			XValues: r.Pixels,
			YValues: r.Counts,
		},
		chart.ContinuousSeries{
			Name:    fmt.Sprintf("fit (degree %d)", len(r.Poly)-1),
			Style:   chart.Style{StrokeColor: drawing.ColorFromHex("800000"), StrokeWidth: 1, StrokeDashArray: []float64{4, 4}},
			YAxis:   chart.YAxisSecondary,
			XValues: r.Pixels,
			YValues: fit,
		},
	}
	if len(r.PeakPixels) > 0 && len(r.PeakPixels) == len(r.Bands) {
		series = append(series, chart.ContinuousSeries{
			Name:    r.Material + " bands",
			Style:   pointStyle(drawing.ColorFromHex("008000")),
			YAxis:   chart.YAxisSecondary,
			XValues: r.PeakPixels,
			YValues: r.Bands,
		})
	}

	ch := &chart.Chart{
		Title:      "Calibration: " + r.Material,
		Width:      reportWidth,
		Height:     reportHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "pixel number",
			Range: &chart.ContinuousRange{Min: r.Pixels[0], Max: r.Pixels[len(r.Pixels)-1]},
		},
		YAxis: chart.YAxis{
			Name:  "Counts",
			Range: &chart.ContinuousRange{Min: clo, Max: chi},
		},
		YAxisSecondary: chart.YAxis{
			Name:  "Wavenumber, cm-1",
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(ch)}
	return ch, nil
}

// WriteReport returns a report hook for calib.PeakCalibrator that stores a
// PNG report in dir.
func WriteReport(dir string) func(calib.Report) error {
	return func(r calib.Report) error {
		ch, err := ReportChart(r)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := ch.Render(chart.PNG, &buf); err != nil {
			return fmt.Errorf("render report: %w", err)
		}
		path := filepath.Join(dir, ReportName(r.Material))
		if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		return nil
	}
}
