package plot

import (
	"bytes"
	"errors"
	"image/png"
	"math"
	"testing"

	"github.com/samcharles93/peaktable/pkg/peaktable"
)

func TestRenderEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Render(&buf, peaktable.ColumnsOf(nil), Options{})
	if !errors.Is(err, peaktable.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %d bytes", buf.Len())
	}
}

func TestRenderFigureSize(t *testing.T) {
	t.Parallel()

	recs := make([]peaktable.Record, 50)
	for i := range recs {
		f := float64(i)
		recs[i] = peaktable.Record{X: f, Y: f * 0.5, Z: -f, R: f / 50, I: int64(i % 7)}
	}

	var buf bytes.Buffer
	if err := Render(&buf, peaktable.ColumnsOf(recs), Options{PanelWidth: 320, PanelHeight: 240}); err != nil {
		t.Fatalf("render: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode figure: %v", err)
	}
	if got := img.Bounds().Dx(); got != 640 {
		t.Fatalf("width mismatch: got %d want 640", got)
	}
	if got := img.Bounds().Dy(); got != 480 {
		t.Fatalf("height mismatch: got %d want 480", got)
	}
}

func TestRenderSinglePoint(t *testing.T) {
	t.Parallel()

	recs := []peaktable.Record{{X: 1, Y: 1, Z: 1, R: 1, I: 1}}
	var buf bytes.Buffer
	if err := Render(&buf, peaktable.ColumnsOf(recs), Options{PanelWidth: 200, PanelHeight: 150}); err != nil {
		t.Fatalf("render: %v", err)
	}
}

func TestHistogram(t *testing.T) {
	t.Parallel()

	centers, counts := histogram([]float64{0, 1, 2, 3, 4, 4}, 0, 4, 4)
	wantCenters := []float64{0.5, 1.5, 2.5, 3.5}
	wantCounts := []float64{1, 1, 1, 3}
	for i := range wantCounts {
		if centers[i] != wantCenters[i] || counts[i] != wantCounts[i] {
			t.Fatalf("bin %d: got center=%v count=%v want center=%v count=%v",
				i, centers[i], counts[i], wantCenters[i], wantCounts[i])
		}
	}
}

func TestProjectNormalises(t *testing.T) {
	t.Parallel()

	us, vs := project([]float64{0, 10}, []float64{0, 0}, []float64{5, 5})
	if us[0] != 0 || vs[0] != 0 {
		t.Fatalf("origin should project to zero, got (%v, %v)", us[0], vs[0])
	}
	if us[1] <= 0 || vs[1] <= 0 {
		t.Fatalf("max x should project right and up, got (%v, %v)", us[1], vs[1])
	}
}

func TestRenderExtremeRange(t *testing.T) {
	t.Parallel()

	recs := []peaktable.Record{
		{X: -1e308, Y: -math.MaxFloat64, Z: 0, R: 1e308, I: math.MinInt64},
		{X: 1e308, Y: math.MaxFloat64, Z: 1, R: -1e308, I: math.MaxInt64},
	}
	var buf bytes.Buffer
	if err := Render(&buf, peaktable.ColumnsOf(recs), Options{PanelWidth: 200, PanelHeight: 150}); err != nil {
		t.Fatalf("render: %v", err)
	}
}

func TestFitFactor(t *testing.T) {
	t.Parallel()

	if got := fitFactor(-1, 1); got != 1 {
		t.Fatalf("small range scaled: got %g want 1", got)
	}
	for _, tc := range [][2]float64{{-1e308, 1e308}, {-math.MaxFloat64, math.MaxFloat64}, {-math.MaxFloat64, -math.MaxFloat64 / 2}} {
		f := fitFactor(tc[0], tc[1])
		if f >= 1 {
			t.Fatalf("range %v not scaled: factor %g", tc, f)
		}
		lo, hi := padded(tc[0]*f, tc[1]*f)
		if math.IsInf(hi-lo, 0) {
			t.Fatalf("range %v still infinite after factor %g", tc, f)
		}
	}

	xs, name := fitAxis([]float64{-1e308, 1e308}, "x")
	if name != "x (x0.5)" || xs[1] != 0.5e308 {
		t.Fatalf("unexpected fit: name=%q values=%v", name, xs)
	}
}
