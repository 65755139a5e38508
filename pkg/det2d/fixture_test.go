package det2d

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Build a pose from flat x,y,confidence triples
func pose(v ...float64) Pose {
	p := make(Pose, len(v)/3)
	for i := range p {
		p[i] = Keypoint{X: v[i*3], Y: v[i*3+1], Confidence: v[i*3+2]}
	}
	return p
}

// Five frames (10..14) of a single category with three identities:
//
//	id 0: frames 10-14
//	id 1: frames 10, 11, 13 (gap at 12)
//	id 2: frames 12, 13
func sampleDetections() Detections {
	return Detections{
		10: {0: {
			{ID: 0, Keypoints: pose(0, 0, 1, 1, 1, 1, 2, 2, 1)},
			{ID: 1, Keypoints: pose(0, 3, 1, 1, 2, 1, 2, 1, 1)},
		}},
		11: {0: {
			{ID: 0, Keypoints: pose(9, 9, .2, 8, 8, .3, 7, 7, .1)},
			{ID: 1, Keypoints: pose(1, 2, .7, 2, 3, .8, 1, 2, .6)},
		}},
		12: {0: {
			{ID: 0, Keypoints: pose(3, 3, 1, 5, 5, .4, 6, 6, .2)},
			{ID: 2, Keypoints: pose(5, 5, 1, 6, 6, 1, 7, 7, 1)},
		}},
		13: {0: {
			{ID: 0, Keypoints: pose(0, 0, 1, 1, 1, 1, 4, 4, .3)},
			{ID: 1, Keypoints: pose(3, 0, .9, 4, 5, .7, 1, 2, .6)},
			{ID: 2, Keypoints: pose(0, 0, 0, 0, 0, 0, 10, 10, 1)},
		}},
		14: {0: {
			{ID: 0, Keypoints: pose(5, 5, .2, 2, 2, 1, 0, 0, 1)},
		}},
	}
}

func sampleTracklets(t *testing.T, policy FillPolicy, threshold float64) TrackletSet {
	set, err := ToTracklets(sampleDetections(), policy, threshold, nil)
	require.NoError(t, err)
	return set
}

func requirePosesInDelta(t *testing.T, expected, actual []Pose) {
	require.Equal(t, len(expected), len(actual))
	for f := range expected {
		require.Equal(t, len(expected[f]), len(actual[f]), "frame %v", f)
		for k := range expected[f] {
			require.InDelta(t, expected[f][k].X, actual[f][k].X, 1e-9, "frame %v keypoint %v", f, k)
			require.InDelta(t, expected[f][k].Y, actual[f][k].Y, 1e-9, "frame %v keypoint %v", f, k)
			require.InDelta(t, expected[f][k].Confidence, actual[f][k].Confidence, 1e-9, "frame %v keypoint %v", f, k)
		}
	}
}
