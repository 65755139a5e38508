package det2dfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cyclopcam/det2d/pkg/det2d"
	"github.com/stretchr/testify/require"
)

const samplePath = "testdata/sample.det2d.json"

func pose(v ...float64) det2d.Pose {
	p := make(det2d.Pose, len(v)/3)
	for i := range p {
		p[i] = det2d.Keypoint{X: v[i*3], Y: v[i*3+1], Confidence: v[i*3+2]}
	}
	return p
}

// The content of testdata/sample.det2d.json
func sampleDetections() det2d.Detections {
	return det2d.Detections{
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

// Write a stream into a temporary directory, and return its path
func writeStream(t *testing.T, lines ...string) string {
	path := filepath.Join(t.TempDir(), "stream.det2d.json")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

func sampleConfig(length, interval int) Config {
	cfg := DefaultConfig()
	cfg.WindowLength = length
	cfg.WindowInterval = interval
	return cfg
}
