// Package plot renders the four standard views of a peak table into a single
// PNG: a projected 3D scatter and an XY scatter (both coloured by r), r
// against i, and overlaid histograms of every field.
package plot

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strconv"

	"github.com/samcharles93/peaktable/pkg/peaktable"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	defaultPanelWidth  = 640
	defaultPanelHeight = 480
	defaultBins        = 20
)

// Options controls the rendered figure.
type Options struct {
	Title       string
	PanelWidth  int
	PanelHeight int
	Bins        int
}

func (o Options) withDefaults() Options {
	if o.PanelWidth <= 0 {
		o.PanelWidth = defaultPanelWidth
	}
	if o.PanelHeight <= 0 {
		o.PanelHeight = defaultPanelHeight
	}
	if o.Bins <= 0 {
		o.Bins = defaultBins
	}
	if o.Title == "" {
		o.Title = "Peak table"
	}
	return o
}

// Render draws the 2x2 figure for cols and writes it to w as PNG.
func Render(w io.Writer, cols peaktable.Columns, opts Options) error {
	if cols.Len() == 0 {
		return peaktable.ErrNoData
	}
	opts = opts.withDefaults()

	panels := []chart.Chart{
		projectedChart(cols, opts),
		xyChart(cols, opts),
		riChart(cols, opts),
		histogramChart(cols, opts),
	}

	fig := image.NewRGBA(image.Rect(0, 0, 2*opts.PanelWidth, 2*opts.PanelHeight))
	draw.Draw(fig, fig.Bounds(), image.White, image.Point{}, draw.Src)
	for i := range panels {
		panels[i].Width = opts.PanelWidth
		panels[i].Height = opts.PanelHeight

		var buf bytes.Buffer
		if err := panels[i].Render(chart.PNG, &buf); err != nil {
			return fmt.Errorf("render panel %d: %w", i+1, err)
		}
		img, err := png.Decode(&buf)
		if err != nil {
			return fmt.Errorf("decode panel %d: %w", i+1, err)
		}
		origin := image.Pt((i%2)*opts.PanelWidth, (i/2)*opts.PanelHeight)
		draw.Draw(fig, img.Bounds().Add(origin), img, img.Bounds().Min, draw.Over)
	}
	return png.Encode(w, fig)
}

// pointStyle draws markers only. A nil provider uses a fixed colour.
func pointStyle(col drawing.Color, provider chart.DotColorProvider) chart.Style {
	return chart.Style{
		StrokeWidth:      chart.Disabled,
		DotWidth:         3,
		DotColor:         col,
		DotColorProvider: provider,
	}
}

// byR colours the n-th point by its r value.
func byR(r []float64) chart.DotColorProvider {
	lo, hi := bounds(r)
	return func(_, _ chart.Range, index int, _, _ float64) drawing.Color {
		return chart.Viridis(r[index], lo, hi)
	}
}

func projectedChart(cols peaktable.Columns, opts Options) chart.Chart {
	us, vs := project(cols.X, cols.Y, cols.Z)
	return chart.Chart{
		Title:  opts.Title + " - 3D (coloured by r)",
		XAxis:  chart.XAxis{ValueFormatter: shortValue, Name: "x - y", Range: paddedRange(us)},
		YAxis:  chart.YAxis{ValueFormatter: shortValue, Name: "z", Range: paddedRange(vs)},
		Series: []chart.Series{chart.ContinuousSeries{Name: "xyz", XValues: us, YValues: vs, Style: pointStyle(chart.ColorBlue, byR(cols.R))}},
	}
}

func xyChart(cols peaktable.Columns, opts Options) chart.Chart {
	xs, xName := fitAxis(cols.X, "x")
	ys, yName := fitAxis(cols.Y, "y")
	return chart.Chart{
		Title:  "XY projection",
		XAxis:  chart.XAxis{ValueFormatter: shortValue, Name: xName, Range: paddedRange(xs)},
		YAxis:  chart.YAxis{ValueFormatter: shortValue, Name: yName, Range: paddedRange(ys)},
		Series: []chart.Series{chart.ContinuousSeries{Name: "xy", XValues: xs, YValues: ys, Style: pointStyle(chart.ColorBlue, byR(cols.R))}},
	}
}

func riChart(cols peaktable.Columns, opts Options) chart.Chart {
	rs, rName := fitAxis(cols.R, "r")
	is, iName := fitAxis(cols.I, "i")
	return chart.Chart{
		Title:  "r vs i",
		XAxis:  chart.XAxis{ValueFormatter: shortValue, Name: rName, Range: paddedRange(rs)},
		YAxis:  chart.YAxis{ValueFormatter: shortValue, Name: iName, Range: paddedRange(is)},
		Series: []chart.Series{chart.ContinuousSeries{Name: "ri", XValues: rs, YValues: is, Style: pointStyle(chart.ColorBlue, nil)}},
	}
}

func histogramChart(cols peaktable.Columns, opts Options) chart.Chart {
	all := cols.All()
	var lo, hi float64 = math.Inf(1), math.Inf(-1)
	for _, values := range all {
		l, h := bounds(values)
		lo, hi = math.Min(lo, l), math.Max(hi, h)
	}

	factor := fitFactor(lo, hi)
	lo, hi = lo*factor, hi*factor
	xName := axisName("value", factor)

	series := make([]chart.Series, 0, len(all))
	var maxCount float64
	for f, values := range all {
		centers, counts := histogram(scale(values, factor), lo, hi, opts.Bins)
		for _, c := range counts {
			maxCount = math.Max(maxCount, c)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    peaktable.FieldNames[f],
			XValues: centers,
			YValues: counts,
			Style: chart.Style{
				StrokeWidth: 2,
				StrokeColor: chart.GetDefaultColor(f).WithAlpha(180),
			},
		})
	}

	ch := chart.Chart{
		Title:  "Value distributions",
		XAxis:  chart.XAxis{ValueFormatter: shortValue, Name: xName, Range: paddedRange([]float64{lo, hi})},
		YAxis:  chart.YAxis{ValueFormatter: shortValue, Name: "frequency", Range: &chart.ContinuousRange{Min: 0, Max: math.Max(1, maxCount)}},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch
}

// histogram counts values into bins equal-width bins over [lo, hi] and
// returns the bin centres alongside the counts. The last bin is closed.
func histogram(values []float64, lo, hi float64, bins int) ([]float64, []float64) {
	centers := make([]float64, bins)
	counts := make([]float64, bins)
	width := (hi - lo) / float64(bins)
	if width == 0 {
		width = 1
	}
	for b := range centers {
		centers[b] = lo + (float64(b)+0.5)*width
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		b := int((v - lo) / width)
		if b >= bins {
			b = bins - 1
		}
		if b < 0 {
			b = 0
		}
		counts[b]++
	}
	return centers, counts
}

// project maps (x, y, z) onto an isometric view. Each axis is normalised to
// [0, 1] first so that no single field dominates the picture.
func project(xs, ys, zs []float64) ([]float64, []float64) {
	nx, ny, nz := normalise(xs), normalise(ys), normalise(zs)
	cos30, sin30 := math.Cos(math.Pi/6), math.Sin(math.Pi/6)
	us := make([]float64, len(xs))
	vs := make([]float64, len(xs))
	for i := range xs {
		us[i] = (nx[i] - ny[i]) * cos30
		vs[i] = nz[i] + (nx[i]+ny[i])*sin30
	}
	return us, vs
}

func normalise(values []float64) []float64 {
	values = scale(values, fitFactor(bounds(values)))
	lo, hi := bounds(values)
	span := hi - lo
	out := make([]float64, len(values))
	for i, v := range values {
		if span > 0 {
			out[i] = (v - lo) / span
		}
	}
	return out
}

// bounds returns the finite min and max of values, or (0, 0) if there are
// none.
func bounds(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if lo > hi {
		return 0, 0
	}
	return lo, hi
}

// paddedRange never returns a zero-width range; go-chart refuses to draw one.
// Values must already fit, see fitAxis.
func paddedRange(values []float64) *chart.ContinuousRange {
	lo, hi := padded(bounds(values))
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

func padded(lo, hi float64) (float64, float64) {
	pad := hi*0.05 - lo*0.05
	if pad == 0 {
		pad = 0.5
	}
	return lo - pad, hi + pad
}

// fitFactor returns the power of two that values spanning [lo, hi] are
// multiplied by so the padded axis range and its width stay finite.
func fitFactor(lo, hi float64) float64 {
	factor := 1.0
	for {
		plo, phi := padded(lo*factor, hi*factor)
		if !math.IsInf(phi-plo, 0) {
			return factor
		}
		factor /= 2
	}
}

// fitAxis scales values with fitFactor and labels the axis with the factor
// when one was applied.
func fitAxis(values []float64, name string) ([]float64, string) {
	factor := fitFactor(bounds(values))
	return scale(values, factor), axisName(name, factor)
}

func axisName(name string, factor float64) string {
	if factor == 1 {
		return name
	}
	return fmt.Sprintf("%s (x%g)", name, factor)
}

// shortValue keeps tick labels narrow at any magnitude.
func shortValue(v interface{}) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'g', 4, 64)
	}
	return fmt.Sprint(v)
}

func scale(values []float64, factor float64) []float64 {
	if factor == 1 {
		return values
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v * factor
	}
	return out
}
