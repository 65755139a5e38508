package det2d

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/cyclopcam/det2d/pkg/gen"
)

// Validate returns an ErrFormat if the tracklet is not stored correctly
func Validate(t *Tracklet) error {
	if t == nil {
		return formatErrorf("tracklet is nil")
	}
	if t.Prepadding < 0 || t.Postpadding < 0 {
		return formatErrorf("tracklet prepadding and postpadding must be at least 0, but were %v and %v", t.Prepadding, t.Postpadding)
	}
	if t.Prepadding+t.Postpadding > t.Len() {
		return formatErrorf("tracklet prepadding and postpadding (%v+%v) must add up to at most the number of frames %v", t.Prepadding, t.Postpadding, t.Len())
	}
	if err := checkPoseShapes(t.Keypoints, t.NumKeypoints()); err != nil {
		return err
	}
	return nil
}

// ValidateSet validates every tracklet in the set, and returns all failures combined
func ValidateSet(set TrackletSet) error {
	var errs error
	for _, category := range gen.SortedKeys(set) {
		for _, id := range gen.SortedKeys(set[category]) {
			if err := Validate(set[category][id]); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("category %v, id %v: %w", category, id, err))
			}
		}
	}
	return errs
}

// ValidateStacked returns an ErrFormat if the stacked tracklets are not stored correctly
func ValidateStacked(s *StackedTracklets) error {
	if s == nil {
		return formatErrorf("stacked tracklets are nil")
	}
	d := len(s.IDs)
	if len(s.Keypoints) != d || len(s.Prepaddings) != d || len(s.Postpaddings) != d {
		return formatErrorf("stacked tracklets have %v ids, %v keypoint series, %v prepaddings and %v postpaddings", d, len(s.Keypoints), len(s.Prepaddings), len(s.Postpaddings))
	}
	nFrames := s.NumFrames()
	nKeypoints := 0
	if nFrames != 0 {
		nKeypoints = len(s.Keypoints[0][0])
	}
	for i := 0; i < d; i++ {
		if len(s.Keypoints[i]) != nFrames {
			return formatErrorf("stacked tracklet %v spans %v frames, but the first spans %v", s.IDs[i], len(s.Keypoints[i]), nFrames)
		}
		if err := checkPoseShapes(s.Keypoints[i], nKeypoints); err != nil {
			return fmt.Errorf("stacked tracklet %v: %w", s.IDs[i], err)
		}
		pre, post := s.Prepaddings[i], s.Postpaddings[i]
		if pre < 0 || post < 0 || pre+post > nFrames {
			return formatErrorf("stacked tracklet %v has invalid padding %v/%v for %v frames", s.IDs[i], pre, post, nFrames)
		}
	}
	return nil
}

// CheckComparable returns an ErrIncompatibleTracklets if the two tracklets do not
// start on the same frame and have the same shape.
func CheckComparable(a, b *Tracklet) error {
	if err := Validate(a); err != nil {
		return err
	}
	if err := Validate(b); err != nil {
		return err
	}
	if a.Len() != b.Len() || a.NumKeypoints() != b.NumKeypoints() {
		return incompatiblef("tracklets must span equally many frames and have equally many keypoints, but span %v and %v frames and have %v and %v keypoints",
			a.Len(), b.Len(), a.NumKeypoints(), b.NumKeypoints())
	}
	if a.Start != b.Start {
		return incompatiblef("tracklets must start on the same frame, but start on %v and %v", a.Start, b.Start)
	}
	return nil
}

func checkPoseShapes(poses []Pose, numKeypoints int) error {
	for i, p := range poses {
		if len(p) != numKeypoints {
			return formatErrorf("pose %v has %v keypoints, expected %v", i, len(p), numKeypoints)
		}
	}
	return nil
}
