// Package stats accumulates summary statistics of samples, either all at once or one sample at a time
package stats

import (
	"math"
	"time"

	"github.com/cyclopcam/det2d/pkg/gen"
)

// Returns (mean, variance) of the given samples
func MeanVar[T gen.Float | gen.Integer](samples []T) (float64, float64) {
	mean := Mean(samples)
	return mean, Variance(samples, mean)
}

// Returns the mean of the given samples, or 0 if there are none
func Mean[T gen.Float | gen.Integer](samples []T) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range samples {
		sum += float64(v)
	}
	return sum / float64(len(samples))
}

// Returns the population variance of the given samples around mean
func Variance[T gen.Float | gen.Integer](samples []T, mean float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range samples {
		diff := float64(v) - mean
		sum += diff * diff
	}
	return sum / float64(len(samples))
}

// Accumulator tracks count, mean, spread and range of a stream of samples, without storing them
type Accumulator struct {
	Samples int64
	Total   float64
	TotalSq float64
	Min     float64
	Max     float64
}

func (a *Accumulator) Reset() {
	*a = Accumulator{}
}

func (a *Accumulator) AddSample(v float64) {
	if a.Samples == 0 {
		a.Min = v
		a.Max = v
	} else {
		a.Min = min(a.Min, v)
		a.Max = max(a.Max, v)
	}
	a.Samples++
	a.Total += v
	a.TotalSq += v * v
}

func (a *Accumulator) Average() float64 {
	if a.Samples == 0 {
		return 0
	}
	return a.Total / float64(a.Samples)
}

// Population variance. Clamped at zero, which rounding error can undershoot.
func (a *Accumulator) Variance() float64 {
	if a.Samples == 0 {
		return 0
	}
	mean := a.Average()
	return max(0, a.TotalSq/float64(a.Samples)-mean*mean)
}

func (a *Accumulator) StdDev() float64 {
	return math.Sqrt(a.Variance())
}

// Accumulate samples of how long something took
type TimeAccumulator struct {
	Samples int64
	Total   time.Duration
}

func (a *TimeAccumulator) AddSample(v time.Duration) {
	a.Samples++
	a.Total += v
}

// Time since start
func (a *TimeAccumulator) AddSince(start time.Time) {
	a.AddSample(time.Since(start))
}

func (a *TimeAccumulator) Average() time.Duration {
	if a.Samples == 0 {
		return 0
	}
	return time.Duration(a.Total.Nanoseconds() / a.Samples)
}
