package det2d

// ConfidenceMask is true at [frame][keypoint] where the confidence is at least
// threshold and greater than zero. A threshold of 0 therefore never marks an
// absent keypoint as present.
func ConfidenceMask(t *Tracklet, threshold float64) ([][]bool, error) {
	if err := CheckConfidenceThreshold(threshold); err != nil {
		return nil, err
	}
	return confidenceMask(t.Keypoints, threshold), nil
}

// UnpaddedMask is true for every frame that is not synthetic padding
func UnpaddedMask(t *Tracklet) []bool {
	return unpaddedMask(t.Len(), t.Prepadding, t.Postpadding)
}

// ConfidenceAndUnpaddedMask is the conjunction of ConfidenceMask and UnpaddedMask
func ConfidenceAndUnpaddedMask(t *Tracklet, threshold float64) ([][]bool, error) {
	mask, err := ConfidenceMask(t, threshold)
	if err != nil {
		return nil, err
	}
	andFrames(mask, UnpaddedMask(t))
	return mask, nil
}

// Returns a mask of shape [D][F][K]
func StackedConfidenceMask(s *StackedTracklets, threshold float64) ([][][]bool, error) {
	if err := CheckConfidenceThreshold(threshold); err != nil {
		return nil, err
	}
	masks := make([][][]bool, len(s.Keypoints))
	for i, poses := range s.Keypoints {
		masks[i] = confidenceMask(poses, threshold)
	}
	return masks, nil
}

// Returns a mask of shape [D][F], using each item's own padding
func StackedUnpaddedMask(s *StackedTracklets) [][]bool {
	nFrames := s.NumFrames()
	masks := make([][]bool, s.Len())
	for i := range masks {
		masks[i] = unpaddedMask(nFrames, s.Prepaddings[i], s.Postpaddings[i])
	}
	return masks
}

// Returns a mask of shape [D][F][K]
func StackedConfidenceAndUnpaddedMask(s *StackedTracklets, threshold float64) ([][][]bool, error) {
	masks, err := StackedConfidenceMask(s, threshold)
	if err != nil {
		return nil, err
	}
	unpadded := StackedUnpaddedMask(s)
	for i := range masks {
		andFrames(masks[i], unpadded[i])
	}
	return masks, nil
}

func confidenceMask(poses []Pose, threshold float64) [][]bool {
	mask := make([][]bool, len(poses))
	for f, pose := range poses {
		row := make([]bool, len(pose))
		for k, kp := range pose {
			row[k] = kp.Confidence >= threshold && kp.Confidence > 0
		}
		mask[f] = row
	}
	return mask
}

func unpaddedMask(numFrames, prepadding, postpadding int) []bool {
	mask := make([]bool, numFrames)
	for f := range mask {
		mask[f] = f >= prepadding && numFrames-1-f >= postpadding
	}
	return mask
}

// Broadcast a per-frame mask over the keypoint axis, in place
func andFrames(mask [][]bool, frames []bool) {
	for f, row := range mask {
		if frames[f] {
			continue
		}
		for k := range row {
			row[k] = false
		}
	}
}
