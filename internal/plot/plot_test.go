package plot

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2"

	"speview/internal/calib"
)

func sample() *Figure {
	return &Figure{
		Title:  "a.SPE",
		XLabel: "pixel number",
		YLabel: "Counts",
		Lines: []Line{
			{Name: "b", Color: "#800000", X: []float64{1, 2, 3, 4}, Y: []float64{1, 2, 3, 2}},
			{Name: "a", Color: "#0000b0", Width: 1.5, X: []float64{1, 2, 3, 4}, Y: []float64{-1, 4, 6, 9}},
		},
		ZeroLine: true,
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" SVG ")
	require.NoError(t, err)
	assert.Equal(t, SVG, f)
	assert.Equal(t, ".svg", f.Ext())

	_, err = ParseFormat("pdf")
	assert.True(t, errors.Is(err, ErrFormat))
	assert.Equal(t, []string{"png", "svg"}, Formats())
}

func TestChartRanges(t *testing.T) {
	ch, err := Chart(sample(), 800, 600)
	require.NoError(t, err)
	require.Len(t, ch.Series, 2)

	assert.Equal(t, 1.0, ch.XAxis.Range.GetMin())
	assert.Equal(t, 4.0, ch.XAxis.Range.GetMax())
	assert.InDelta(t, -1.5, ch.YAxis.Range.GetMin(), 1e-9)
	assert.InDelta(t, 9.5, ch.YAxis.Range.GetMax(), 1e-9)
	assert.False(t, ch.YAxis.Zero.Style.Hidden)
	assert.True(t, ch.XAxis.GridMajorStyle.Hidden)
}

func TestChartGridAndDiff(t *testing.T) {
	f := sample()
	f.Grid = true
	f.Diff = &Line{Name: "a\nb", Color: "#008000", X: []float64{1, 2, 3, 4}, Y: []float64{-2, 2, 3, 7}}

	ch, err := Chart(f, 800, 600)
	require.NoError(t, err)
	require.Len(t, ch.Series, 3)
	assert.False(t, ch.YAxis.GridMajorStyle.Hidden)

	diff, ok := ch.Series[2].(chart.ContinuousSeries)
	require.True(t, ok)
	assert.Equal(t, chart.YAxisSecondary, diff.YAxis)
	assert.Equal(t, "a - b", diff.Name)
	require.NotNil(t, ch.YAxisSecondary.Range)
	assert.Less(t, ch.YAxisSecondary.Range.GetMin(), -2.0)
}

func TestChartHideYAxis(t *testing.T) {
	f := sample()
	ch, err := Chart(f, 800, 600)
	require.NoError(t, err)
	assert.False(t, ch.YAxis.Style.Hidden)

	f.Lines = nil
	f.Diff = &Line{Name: "a\nb", X: []float64{1, 2}, Y: []float64{1, -1}}
	f.HideYAxis = true
	ch, err = Chart(f, 800, 600)
	require.NoError(t, err)
	assert.True(t, ch.YAxis.Style.Hidden)
	assert.False(t, ch.YAxisSecondary.Style.Hidden)
}

func TestChartFlatData(t *testing.T) {
	f := &Figure{Lines: []Line{{X: []float64{1, 2}, Y: []float64{5, 5}}}, ZeroLine: true}
	ch, err := Chart(f, 400, 300)
	require.NoError(t, err)
	assert.Equal(t, 4.0, ch.YAxis.Range.GetMin())
	assert.Equal(t, 6.0, ch.YAxis.Range.GetMax())
	assert.True(t, ch.YAxis.Zero.Style.Hidden, "zero is outside the range")
}

func TestEmptyFigure(t *testing.T) {
	f := &Figure{Lines: []Line{{Name: "hidden"}}}
	assert.True(t, f.Empty())
	_, err := Chart(f, 100, 100)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestRenderPNG(t *testing.T) {
	img, err := Image(sample(), 640, 480)
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 480, img.Bounds().Dy())
}

func TestRenderSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sample(), SVG, 640, 480))
	assert.True(t, strings.Contains(buf.String(), "<svg"))

	err := Render(&buf, sample(), Format("eps"), 640, 480)
	assert.True(t, errors.Is(err, ErrFormat))
}

func TestBlank(t *testing.T) {
	img := Blank(3, 2)
	r, g, b, _ := img.At(2, 1).RGBA()
	assert.Equal(t, uint32(0xffff), r&g&b)
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	px := make([]float64, 100)
	counts := make([]float64, 100)
	for i := range px {
		px[i] = float64(i + 1)
		counts[i] = float64(i % 17)
	}
	r := calib.Report{
		Material:   "polystyrene",
		Pixels:     px,
		Counts:     counts,
		PeakPixels: []float64{20, 60},
		Bands:      []float64{1001.4, 1602.3},
		Poly:       calib.Poly{15, 700},
	}
	require.NoError(t, WriteReport(dir)(r))

	data, err := os.ReadFile(filepath.Join(dir, "calibration_report-polystyrene.png"))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, reportWidth, img.Bounds().Dx())

	err = WriteReport(dir)(calib.Report{Material: "x"})
	assert.True(t, errors.Is(err, ErrNoData))
}
