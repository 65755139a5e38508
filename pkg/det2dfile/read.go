package det2dfile

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/cyclopcam/det2d/pkg/det2d"
)

// ReadDetections reads an entire .det2d.json file.
// If frameRange is not nil, only the frames inside it are returned.
// cats is only needed if the file uses category names instead of indices.
func ReadDetections(path string, frameRange *det2d.FrameRange, cats *det2d.Categories) (det2d.Detections, error) {
	if frameRange != nil {
		if err := frameRange.Validate(); err != nil {
			return nil, err
		}
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	file := map[string]rawFrame{}
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("%w: %v: %v", det2d.ErrFormat, path, err)
	}

	detections := make(det2d.Detections, len(file))
	for key, rf := range file {
		frame, err := parseIntKey(key)
		if err != nil {
			return nil, err
		}
		if frameRange != nil && !frameRange.Contains(frame) {
			continue
		}
		fd, err := rf.toFrameDetections(frame, cats)
		if err != nil {
			return nil, err
		}
		detections[frame] = fd
	}
	return detections, nil
}

// ReadTracklets reads an entire .det2d.json file and converts it to tracklets.
// A nil policy fills gaps with zeros.
func ReadTracklets(path string, policy det2d.FillPolicy, confidenceThreshold float64, frameRange *det2d.FrameRange, cats *det2d.Categories) (det2d.TrackletSet, error) {
	if err := det2d.CheckConfidenceThreshold(confidenceThreshold); err != nil {
		return nil, err
	}
	detections, err := ReadDetections(path, frameRange, cats)
	if err != nil {
		return nil, err
	}
	return det2d.ToTracklets(detections, policy, confidenceThreshold, frameRange)
}
