package peaktable

import (
	"math"

	"github.com/goccy/go-json"
)

// jsonFloat returns nil for NaN and ±Inf, which JSON cannot represent, so
// they encode as null.
func jsonFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// MarshalJSON encodes non-finite coordinates as null.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
		Z *float64 `json:"z"`
		R *float64 `json:"r"`
		I int64    `json:"i"`
	}{jsonFloat(r.X), jsonFloat(r.Y), jsonFloat(r.Z), jsonFloat(r.R), r.I})
}

// MarshalJSON encodes non-finite statistics as null. Any NaN or ±Inf in a
// column makes its mean and std non-finite.
func (s FieldStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Count  int      `json:"count"`
		Min    *float64 `json:"min"`
		Max    *float64 `json:"max"`
		Mean   *float64 `json:"mean"`
		Std    *float64 `json:"std"`
		Median *float64 `json:"median"`
	}{s.Count, jsonFloat(s.Min), jsonFloat(s.Max), jsonFloat(s.Mean), jsonFloat(s.Std), jsonFloat(s.Median)})
}
