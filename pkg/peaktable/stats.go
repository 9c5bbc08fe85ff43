package peaktable

import (
	"math"
	"slices"
)

// NumFields is the number of fields in a Record.
const NumFields = 5

// FieldNames lists record fields in on-disk order.
var FieldNames = [NumFields]string{"x", "y", "z", "r", "i"}

// FieldStats are descriptive statistics for one record field.
type FieldStats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Median float64 `json:"median"`
}

// Summary holds FieldStats for every record field.
type Summary struct {
	X FieldStats `json:"x"`
	Y FieldStats `json:"y"`
	Z FieldStats `json:"z"`
	R FieldStats `json:"r"`
	I FieldStats `json:"i"`
}

// Fields returns the per-field statistics in FieldNames order.
func (s Summary) Fields() [NumFields]FieldStats {
	return [NumFields]FieldStats{s.X, s.Y, s.Z, s.R, s.I}
}

// Columns is the column-oriented view of a record set. I is widened to
// float64.
type Columns struct {
	X, Y, Z, R, I []float64
}

// ColumnsOf splits records into parallel columns.
func ColumnsOf(records []Record) Columns {
	c := Columns{
		X: make([]float64, len(records)),
		Y: make([]float64, len(records)),
		Z: make([]float64, len(records)),
		R: make([]float64, len(records)),
		I: make([]float64, len(records)),
	}
	for i, rec := range records {
		c.X[i] = rec.X
		c.Y[i] = rec.Y
		c.Z[i] = rec.Z
		c.R[i] = rec.R
		c.I[i] = float64(rec.I)
	}
	return c
}

// Len returns the number of rows.
func (c Columns) Len() int {
	return len(c.X)
}

// All returns the columns in FieldNames order.
func (c Columns) All() [NumFields][]float64 {
	return [NumFields][]float64{c.X, c.Y, c.Z, c.R, c.I}
}

// Summarize computes min, max, mean, population standard deviation and median
// for each field. An empty record set yields ErrNoData and a zero Summary.
func Summarize(records []Record) (Summary, error) {
	if len(records) == 0 {
		return Summary{}, ErrNoData
	}
	c := ColumnsOf(records)
	return Summary{
		X: describe(c.X),
		Y: describe(c.Y),
		Z: describe(c.Z),
		R: describe(c.R),
		I: describe(c.I),
	}, nil
}

// describe requires len(values) > 0.
func describe(values []float64) FieldStats {
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	var sum float64
	for _, v := range values {
		sum += v
	}
	n := float64(len(values))
	mean := sum / n

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}

	return FieldStats{
		Count:  len(values),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   mean,
		Std:    math.Sqrt(sq / n),
		Median: sorted[len(sorted)/2],
	}
}
