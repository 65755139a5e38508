package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMeanVar(t *testing.T) {
	mean, variance := MeanVar([]int{2, 4, 4, 4, 5, 5, 7, 9})
	require.Equal(t, 5.0, mean)
	require.Equal(t, 4.0, variance)

	mean, variance = MeanVar([]float64{})
	require.Equal(t, 0.0, mean)
	require.Equal(t, 0.0, variance)
}

func TestAccumulator(t *testing.T) {
	a := Accumulator{}
	require.Equal(t, 0.0, a.Average())
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		a.AddSample(v)
	}
	require.Equal(t, int64(8), a.Samples)
	require.InDelta(t, 5.0, a.Average(), 1e-12)
	require.InDelta(t, 2.0, a.StdDev(), 1e-12)
	require.Equal(t, 2.0, a.Min)
	require.Equal(t, 9.0, a.Max)

	a.Reset()
	a.AddSample(-3)
	require.Equal(t, -3.0, a.Min)
	require.Equal(t, -3.0, a.Max)
	require.Equal(t, 0.0, a.Variance())
}

func TestTimeAccumulator(t *testing.T) {
	a := TimeAccumulator{}
	require.Equal(t, time.Duration(0), a.Average())
	a.AddSample(time.Second)
	a.AddSample(3 * time.Second)
	require.Equal(t, 2*time.Second, a.Average())
}
