package det2d

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	d := sampleDetections()
	set, err := ToTracklets(d, ZeroFill{}, 0, nil)
	require.NoError(t, err)
	back, err := ToDetections(set)
	require.NoError(t, err)
	require.Equal(t, d, back)

	// Input is not modified
	require.Equal(t, sampleDetections(), d)
}

func TestToTrackletsFrameRange(t *testing.T) {
	full := sampleTracklets(t, ZeroFill{}, 0)
	part, err := ToTracklets(sampleDetections(), ZeroFill{}, 0, NewFrameRange(12, 14))
	require.NoError(t, err)
	require.Equal(t, 3, part.Count())

	for id, tr := range part[0] {
		require.GreaterOrEqual(t, tr.Start, 12, "id %v", id)
		require.LessOrEqual(t, tr.Stop(), 14, "id %v", id)
		f := full[0][id]
		require.Equal(t, f.Keypoints[tr.Start-f.Start:tr.Stop()-f.Start], tr.Keypoints, "id %v", id)
	}
	require.Equal(t, 13, part[0][1].Start)

	_, err = ToTracklets(sampleDetections(), ZeroFill{}, 0, &FrameRange{Start: 10, Stop: 14, Step: 2})
	require.True(t, errors.Is(err, ErrInvalidArgument))

	empty, err := ToTracklets(sampleDetections(), ZeroFill{}, 0, NewFrameRange(100, 200))
	require.NoError(t, err)
	require.Equal(t, 0, empty.Count())
}

func TestToTrackletsBadInput(t *testing.T) {
	d := sampleDetections()
	d[12][0][1].Keypoints = pose(1, 1, 1)
	_, err := ToTracklets(d, ZeroFill{}, 0, nil)
	require.True(t, errors.Is(err, ErrFormat))

	_, err = ToTracklets(sampleDetections(), ZeroFill{}, 2, nil)
	require.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestToDetectionsDropsEmptyFrames(t *testing.T) {
	set := sampleTracklets(t, ZeroFill{}, 0)
	d, err := ToDetections(set)
	require.NoError(t, err)
	require.Equal(t, []int{10, 11, 12, 13, 14}, d.Frames())
	for _, p := range d[12][0] {
		require.NotEqual(t, 1, p.ID)
	}

	set[0][0].Postpadding = 10
	_, err = ToDetections(set)
	require.True(t, errors.Is(err, ErrFormat))
}
