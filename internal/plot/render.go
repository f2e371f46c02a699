package plot

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	gridStyle = chart.Style{
		StrokeColor: drawing.ColorFromHex("d0d0d0"),
		StrokeWidth: 0.75,
	}
	zeroStyle = chart.Style{
		StrokeColor:     drawing.ColorBlack.WithAlpha(128),
		StrokeWidth:     0.75,
		StrokeDashArray: []float64{5, 5},
	}
)

func seriesStyle(l Line) chart.Style {
	w := l.Width
	if w == 0 {
		w = 1
	}
	return chart.Style{
		StrokeColor: drawing.ColorFromHex(string(l.Color)),
		StrokeWidth: w,
	}
}

// Chart builds the go-chart value for f at the given pixel size.
func Chart(f *Figure, width, height int) (*chart.Chart, error) {
	if f.Empty() {
		return nil, ErrNoData
	}

	var series []chart.Series
	var xs, ys [][]float64
	for _, l := range f.Lines {
		if len(l.X) == 0 {
			continue
		}
		series = append(series, chart.ContinuousSeries{
			Name:    l.Name,
			Style:   seriesStyle(l),
			XValues: l.X,
			YValues: l.Y,
		})
		xs = append(xs, l.X)
		ys = append(ys, l.Y)
	}

	// x limits follow the data exactly, y gets 5% head room
	ch := &chart.Chart{
		Title:      f.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           f.XLabel,
			GridMajorStyle: chart.Hidden(),
			GridMinorStyle: chart.Hidden(),
		},
		YAxis: chart.YAxis{
			Name:           f.YLabel,
			GridMajorStyle: chart.Hidden(),
			GridMinorStyle: chart.Hidden(),
			Zero:           chart.GridLine{Style: chart.Hidden()},
		},
	}
	if f.HideYAxis {
		ch.YAxis.Style = chart.Hidden()
	}
	if f.Grid {
		ch.XAxis.GridMajorStyle = gridStyle
		ch.YAxis.GridMajorStyle = gridStyle
	}

	if d := f.Diff; d != nil && len(d.X) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    strings.ReplaceAll(d.Name, "\n", " - "),
			Style:   seriesStyle(*d),
			YAxis:   chart.YAxisSecondary,
			XValues: d.X,
			YValues: d.Y,
		})
		xs = append(xs, d.X)
		lo, hi, _ := limits(d.Y)
		lo, hi = margin(lo, hi, 0.05)
		ch.YAxisSecondary = chart.YAxis{
			Name:           "Difference",
			Range:          &chart.ContinuousRange{Min: lo, Max: hi},
			GridMajorStyle: chart.Hidden(),
			GridMinorStyle: chart.Hidden(),
			Zero:           chart.GridLine{Style: chart.Hidden()},
		}
	}

	xlo, xhi, _ := limits(xs...)
	if xlo == xhi {
		xlo, xhi = margin(xlo, xhi, 0)
	}
	ch.XAxis.Range = &chart.ContinuousRange{Min: xlo, Max: xhi}

	if ylo, yhi, ok := limits(ys...); ok {
		ylo, yhi = margin(ylo, yhi, 0.05)
		ch.YAxis.Range = &chart.ContinuousRange{Min: ylo, Max: yhi}
		if f.ZeroLine && ylo <= 0 && yhi >= 0 {
			ch.YAxis.Zero = chart.GridLine{Value: 0, Style: zeroStyle}
		}
	} else {
		// only the difference is drawn; the primary axis mirrors it
		ch.YAxis.Range = ch.YAxisSecondary.Range
	}

	ch.Series = series
	ch.Elements = []chart.Renderable{chart.Legend(ch)}
	return ch, nil
}

// Render writes f to w in format.
func Render(w io.Writer, f *Figure, format Format, width, height int) error {
	ch, err := Chart(f, width, height)
	if err != nil {
		return err
	}
	var rp chart.RendererProvider
	switch format {
	case PNG:
		rp = chart.PNG
	case SVG:
		rp = chart.SVG
	default:
		return fmt.Errorf("%q: %w", format, ErrFormat)
	}
	if err := ch.Render(rp, w); err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	return nil
}

// Image renders f for on-screen display.
func Image(f *Figure, width, height int) (image.Image, error) {
	var buf bytes.Buffer
	if err := Render(&buf, f, PNG, width, height); err != nil {
		return nil, err
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode figure: %w", err)
	}
	return img, nil
}

// Blank is a plain white image, shown when there is nothing to draw.
func Blank(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	return img
}
