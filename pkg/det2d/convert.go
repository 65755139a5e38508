package det2d

import (
	"fmt"

	"github.com/cyclopcam/det2d/pkg/gen"
)

// ToTracklets re-indexes frame-major detections into per-identity tracklets.
// If frameRange is not nil, only frames inside it are used. Every identity's poses are
// gathered in frame order, and then densified and filled with policy (ZeroFill if nil).
func ToTracklets(detections Detections, policy FillPolicy, confidenceThreshold float64, frameRange *FrameRange) (TrackletSet, error) {
	if err := CheckConfidenceThreshold(confidenceThreshold); err != nil {
		return nil, err
	}
	if frameRange != nil {
		if err := frameRange.Validate(); err != nil {
			return nil, err
		}
	}

	sequences := map[int]map[int]*PoseSequence{}
	for _, frame := range detections.Frames() {
		if frameRange != nil && !frameRange.Contains(frame) {
			continue
		}
		for category, poses := range detections[frame] {
			bycat := sequences[category]
			if bycat == nil {
				bycat = map[int]*PoseSequence{}
				sequences[category] = bycat
			}
			for _, pose := range poses {
				seq := bycat[pose.ID]
				if seq == nil {
					seq = &PoseSequence{}
					bycat[pose.ID] = seq
				}
				seq.Append(frame, pose.Keypoints)
			}
		}
	}

	tracklets := make(TrackletSet, len(sequences))
	for category, bycat := range sequences {
		ct := make(CategoryTracklets, len(bycat))
		for id, seq := range bycat {
			t, err := FillSequence(*seq, policy, confidenceThreshold)
			if err != nil {
				return nil, fmt.Errorf("category %v, id %v: %w", category, id, err)
			}
			ct[id] = t
		}
		tracklets[category] = ct
	}
	return tracklets, nil
}

// ToDetections re-indexes tracklets into frame-major detections.
// Frames whose keypoint confidences sum to zero are treated as absent and dropped.
// Within a frame and category, poses are ordered by identity.
func ToDetections(tracklets TrackletSet) (Detections, error) {
	detections := Detections{}
	for _, category := range gen.SortedKeys(tracklets) {
		for _, id := range gen.SortedKeys(tracklets[category]) {
			t := tracklets[category][id]
			if err := Validate(t); err != nil {
				return nil, fmt.Errorf("category %v, id %v: %w", category, id, err)
			}
			for f, pose := range t.Keypoints {
				if pose.ConfidenceSum() <= 0 {
					continue
				}
				frame := t.Start + f
				fd := detections[frame]
				if fd == nil {
					fd = FrameDetections{}
					detections[frame] = fd
				}
				fd[category] = append(fd[category], PoseDetection{ID: id, Keypoints: pose.Clone()})
			}
		}
	}
	return detections, nil
}
