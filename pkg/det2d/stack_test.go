package det2d

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStackWithWindowing(t *testing.T) {
	set := sampleTracklets(t, ZeroFill{}, 0)
	s, err := Stack(set[0], true)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2}, s.IDs)
	require.Equal(t, 10, s.Start)
	require.Equal(t, 3, s.Len())
	require.Equal(t, 5, s.NumFrames())
	require.Equal(t, 3, len(s.Keypoints[0][0]))
	require.Equal(t, []int{0, 0, 2}, s.Prepaddings)
	require.Equal(t, []int{0, 1, 1}, s.Postpaddings)
	require.Equal(t, set[0][0].Keypoints, s.Keypoints[0])
	require.Equal(t, set[0][2].Keypoints, s.Keypoints[2][2:4])
}

func TestStackWithoutWindowing(t *testing.T) {
	set := sampleTracklets(t, ZeroFill{}, 0)
	_, err := Stack(set[0], false)
	require.True(t, errors.Is(err, ErrIncompatibleTracklets))

	w0, err := Window(set[0][0], 10, 5)
	require.NoError(t, err)
	w1, err := Window(set[0][1], 10, 5)
	require.NoError(t, err)
	require.NoError(t, CheckComparable(w0, w1))

	s, err := Stack(CategoryTracklets{4: w1, 3: w0}, false)
	require.NoError(t, err)
	require.Equal(t, []int{3, 4}, s.IDs)
	require.Equal(t, 10, s.Start)
	require.Equal(t, []int{0, 0}, s.Prepaddings)
	require.Equal(t, []int{0, 1}, s.Postpaddings)
	require.Equal(t, w1, s.Tracklet(1))
}

func TestStackEmpty(t *testing.T) {
	s, err := Stack(CategoryTracklets{}, true)
	require.NoError(t, err)
	require.Equal(t, 0, s.Start)
	require.Equal(t, 0, s.Len())
	require.Equal(t, 0, s.NumFrames())
	require.NoError(t, ValidateStacked(s))
}
