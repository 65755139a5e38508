// Package det2dfile reads .det2d.json detection streams, either whole or incrementally as a
// sequence of fixed-length windows.
package det2dfile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/cyclopcam/det2d/pkg/det2d"
)

// A pose as it is stored in the file
type rawPose struct {
	ID        *int      `json:"id"`
	Keypoints []float64 `json:"keypoints"`
}

// The detections of one frame as they are stored in the file, by category key
type rawFrame map[string][]rawPose

func formatErrorf(format string, a ...any) error {
	return fmt.Errorf("%w: %v", det2d.ErrFormat, fmt.Sprintf(format, a...))
}

// Parse a key such as "12" (with or without quotes)
func parseIntKey(key string) (int, error) {
	key = strings.TrimSpace(key)
	if len(key) >= 2 && key[0] == '"' && key[len(key)-1] == '"' {
		key = key[1 : len(key)-1]
	}
	v, err := strconv.Atoi(key)
	if err != nil {
		return 0, formatErrorf("key '%v' is not an integer", key)
	}
	return v, nil
}

// Category keys are integers, or names that can be resolved through cats
func parseCategory(key string, cats *det2d.Categories) (int, error) {
	if v, err := strconv.Atoi(key); err == nil {
		return v, nil
	}
	if cats == nil {
		return 0, formatErrorf("category '%v' is not an integer, and no categories were given", key)
	}
	v, err := cats.Index(key)
	if err != nil {
		return 0, formatErrorf("unknown category '%v'", key)
	}
	return v, nil
}

// Split a content line of the form `"<frame>": {...},` into its frame number and JSON body
func splitFrameLine(line string) (int, []byte, error) {
	colon := strings.IndexByte(line, ':')
	if colon == -1 {
		return 0, nil, formatErrorf("line has no ':' separator")
	}
	frame, err := parseIntKey(line[:colon])
	if err != nil {
		return 0, nil, err
	}
	body := strings.TrimSpace(line[colon+1:])
	body = strings.TrimSuffix(body, ",")
	return frame, []byte(body), nil
}

// Decode the content line of a stream into its frame number and detections
func decodeFrameLine(line string, cats *det2d.Categories) (int, det2d.FrameDetections, error) {
	frame, body, err := splitFrameLine(line)
	if err != nil {
		return 0, nil, err
	}
	raw := rawFrame{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return 0, nil, formatErrorf("frame %v: %v", frame, err)
	}
	fd, err := raw.toFrameDetections(frame, cats)
	if err != nil {
		return 0, nil, err
	}
	return frame, fd, nil
}

// Verify every pose, and reshape the flat keypoint arrays into poses
func (r rawFrame) toFrameDetections(frame int, cats *det2d.Categories) (det2d.FrameDetections, error) {
	fd := make(det2d.FrameDetections, len(r))
	for key, poses := range r {
		category, err := parseCategory(key, cats)
		if err != nil {
			return nil, fmt.Errorf("frame %v: %w", frame, err)
		}
		out := make([]det2d.PoseDetection, 0, len(poses))
		for i, p := range poses {
			if p.ID == nil {
				return nil, formatErrorf("pose does not have an id (frame %v, category %v, pose %v)", frame, key, i)
			}
			if p.Keypoints == nil {
				return nil, formatErrorf("pose does not have keypoints (frame %v, category %v, id %v)", frame, key, *p.ID)
			}
			if len(p.Keypoints)%3 != 0 {
				return nil, formatErrorf("number of keypoint values must be divisible by 3, but was %v (frame %v, category %v, id %v)", len(p.Keypoints), frame, key, *p.ID)
			}
			out = append(out, det2d.PoseDetection{ID: *p.ID, Keypoints: toPose(p.Keypoints)})
		}
		fd[category] = append(fd[category], out...)
	}
	return fd, nil
}

func toPose(flat []float64) det2d.Pose {
	pose := make(det2d.Pose, len(flat)/3)
	for k := range pose {
		pose[k] = det2d.Keypoint{X: flat[k*3], Y: flat[k*3+1], Confidence: flat[k*3+2]}
	}
	return pose
}
