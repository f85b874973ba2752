package statics

import (
	"errors"
	"fmt"
	"math"
)

// DefaultSamples is the number of evenly spaced stations used along the span
const DefaultSamples = 400

var (
	// ErrNonPositiveLength is returned when the span length is zero or negative
	ErrNonPositiveLength = errors.New("beam length must be positive")

	// ErrTooFewSamples is returned when fewer than two stations are requested
	ErrTooFewSamples = errors.New("at least two sample points are required")

	// ErrLoadOutOfSpan is returned when a load lies outside [0, length]
	ErrLoadOutOfSpan = errors.New("load position outside beam span")
)

// Load is a concentrated force acting on the beam
type Load struct {
	Position  float64 // a - distance from the left support (m)
	Magnitude float64 // P - downward positive (kN)
}

// Result holds the support reactions and the sampled shear and moment
type Result struct {
	Length float64 // L - span (m)

	// Support reactions (kN)
	R1 float64 // at x = 0
	R2 float64 // at x = L

	// Parallel series, one entry per station
	X      []float64 // m
	Shear  []float64 // kN
	Moment []float64 // kN-m
}

// Extreme is a peak value of a series and the station where it occurs
type Extreme struct {
	Position float64
	Value    float64
}

// Compute checks the span and loads then evaluates the beam
func Compute(length float64, loads []Load, samples int) (*Result, error) {
	if length <= 0 || math.IsNaN(length) {
		return nil, fmt.Errorf("%w: L=%.4g", ErrNonPositiveLength, length)
	}
	if samples < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewSamples, samples)
	}
	for i, ld := range loads {
		if ld.Position < 0 || ld.Position > length {
			return nil, fmt.Errorf("%w: load %d at a=%.4g, L=%.4g", ErrLoadOutOfSpan, i+1, ld.Position, length)
		}
	}

	r := Evaluate(length, loads, samples)
	return &r, nil
}

// Evaluate computes reactions and samples V(x) and M(x) at evenly spaced
// stations from 0 to length inclusive. A load at a station is counted at
// that station, so shear steps down exactly at the load point.
func Evaluate(length float64, loads []Load, samples int) Result {
	r := Result{Length: length}

	for _, ld := range loads {
		r.R1 += ld.Magnitude * (length - ld.Position) / length
		r.R2 += ld.Magnitude * ld.Position / length
	}

	r.X = Stations(length, samples)
	r.Shear = make([]float64, len(r.X))
	r.Moment = make([]float64, len(r.X))

	for i, xi := range r.X {
		v := r.R1
		m := r.R1 * xi
		for _, ld := range loads {
			if xi >= ld.Position {
				v -= ld.Magnitude
				m -= ld.Magnitude * (xi - ld.Position)
			}
		}
		r.Shear[i] = v
		r.Moment[i] = m
	}

	return r
}

// Stations returns n evenly spaced positions covering [0, length]
func Stations(length float64, n int) []float64 {
	if n < 2 {
		return []float64{0}
	}
	x := make([]float64, n)
	for i := range x {
		x[i] = length * float64(i) / float64(n-1)
	}
	x[n-1] = length
	return x
}

// TotalLoad returns the sum of all load magnitudes
func TotalLoad(loads []Load) float64 {
	var sum float64
	for _, ld := range loads {
		sum += ld.Magnitude
	}
	return sum
}

// MaxShear returns the station with the largest absolute shear
func (r *Result) MaxShear() Extreme {
	return absPeak(r.X, r.Shear)
}

// MaxMoment returns the station with the largest absolute bending moment
func (r *Result) MaxMoment() Extreme {
	return absPeak(r.X, r.Moment)
}

func absPeak(x, values []float64) Extreme {
	var e Extreme
	for i, v := range values {
		if i == 0 || math.Abs(v) > math.Abs(e.Value) {
			e = Extreme{Position: x[i], Value: v}
		}
	}
	return e
}
