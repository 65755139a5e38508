package det2dfile

import (
	"errors"
	"testing"

	"github.com/cyclopcam/det2d/pkg/det2d"
	"github.com/stretchr/testify/require"
)

func TestReadDetections(t *testing.T) {
	d, err := ReadDetections(samplePath, nil, nil)
	require.NoError(t, err)
	require.Equal(t, sampleDetections(), d)

	d, err = ReadDetections(samplePath, det2d.NewFrameRange(12, 14), nil)
	require.NoError(t, err)
	require.Equal(t, []int{12, 13}, d.Frames())

	_, err = ReadDetections(samplePath, &det2d.FrameRange{Start: 0, Stop: 5, Step: 3}, nil)
	require.True(t, errors.Is(err, det2d.ErrInvalidArgument))

	_, err = ReadDetections("testdata/missing.det2d.json", nil, nil)
	require.Error(t, err)
}

func TestReadTracklets(t *testing.T) {
	set, err := ReadTracklets(samplePath, det2d.LinearFill{}, 0.5, nil, nil)
	require.NoError(t, err)
	expect, err := det2d.ToTracklets(sampleDetections(), det2d.LinearFill{}, 0.5, nil)
	require.NoError(t, err)
	require.Equal(t, expect, set)

	set, err = ReadTracklets(samplePath, nil, 0, det2d.NewFrameRange(12, 14), nil)
	require.NoError(t, err)
	require.Equal(t, 12, set[0][0].Start)
	require.Equal(t, 2, set[0][0].Len())
	require.Equal(t, 13, set[0][1].Start)

	_, err = ReadTracklets(samplePath, nil, 1.1, nil, nil)
	require.True(t, errors.Is(err, det2d.ErrInvalidArgument))
}

func TestReadNamedCategories(t *testing.T) {
	cats, err := det2d.LoadCategories("testdata/cats.json")
	require.NoError(t, err)

	path := writeStream(t,
		`{`,
		`"3": {"Dog": [{"id": 4, "keypoints": [1, 2, 1, 3, 4, 1]}], "0": [{"id": 1, "keypoints": [1, 1, 1]}]}`,
		`}`,
	)
	d, err := ReadDetections(path, nil, cats)
	require.NoError(t, err)
	require.Equal(t, det2d.Detections{3: {
		0: {{ID: 1, Keypoints: pose(1, 1, 1)}},
		1: {{ID: 4, Keypoints: pose(1, 2, 1, 3, 4, 1)}},
	}}, d)

	// Without a category table, names cannot be resolved
	_, err = ReadDetections(path, nil, nil)
	require.True(t, errors.Is(err, det2d.ErrFormat))
}

func TestReadMalformed(t *testing.T) {
	streams := [][]string{
		{`{`, `"1": {"0": [{"id": 1, "keypoints": [1, 1]}]}`, `}`},
		{`{`, `"1": {"0": [{"keypoints": [1, 1, 1]}]}`, `}`},
		{`{`, `"1": {"0": [{"id": 1}]}`, `}`},
		{`{`, `"x": {"0": [{"id": 1, "keypoints": [1, 1, 1]}]}`, `}`},
		{`{`, `"1": {"0": [{"id": 1, "keypoints": [1, 1, 1]}]},`},
	}
	for _, lines := range streams {
		_, err := ReadDetections(writeStream(t, lines...), nil, nil)
		require.True(t, errors.Is(err, det2d.ErrFormat), "%v", lines)
	}
}
