package det2d

import (
	"github.com/cyclopcam/det2d/pkg/gen"
)

// Overlap describes how a window [windowStart, windowStart+windowLength) lines up
// with a tracklet [start, start+F).
type Overlap struct {
	Before       int // Window frames before the tracklet starts
	GapBefore    int // Frames between the end of the window and the start of the tracklet (0 if they overlap)
	SourceStart  int // Start of the overlap within the tracklet, 0 is the first tracklet frame
	Length       int // Length of the overlap, may be 0
	SourceEndGap int // Tracklet frames after the overlap
	GapAfter     int // Frames between the end of the tracklet and the start of the window (0 if they overlap)
	After        int // Window frames after the tracklet ends
}

// WindowOverlap computes the overlap of a window with a tracklet that starts at start and spans numFrames frames
func WindowOverlap(start, numFrames, windowStart, windowLength int) (Overlap, error) {
	if windowLength <= 0 {
		return Overlap{}, invalidArgumentf("window length must be greater than 0, but was %v", windowLength)
	}
	windowStop := windowStart + windowLength
	stop := start + numFrames

	o := Overlap{
		Before:       gen.Clamp(start-windowStart, 0, windowLength),
		After:        gen.Clamp(windowStop-stop, 0, windowLength),
		GapBefore:    gen.Max(0, start-windowStop),
		GapAfter:     gen.Max(0, windowStart-stop),
		SourceStart:  gen.Clamp(windowStart-start, 0, numFrames),
		SourceEndGap: gen.Clamp(stop-windowStop, 0, numFrames),
	}
	o.Length = windowLength - o.Before - o.After
	return o, nil
}

// Padding counts are the distance to the nearest real data, so frames skipped inside
// the source padding are not counted twice.
func (o Overlap) prepadding(prepadding int) int {
	return gen.Max(0, prepadding+o.Before-o.SourceStart)
}

func (o Overlap) postpadding(postpadding int) int {
	return gen.Max(0, postpadding+o.After-o.SourceEndGap)
}

// Copy the overlapping frames of src into dst, which spans the whole window
func (o Overlap) copyInto(dst, src []Pose) {
	for i := 0; i < o.Length; i++ {
		dst[o.Before+i] = src[o.SourceStart+i].Clone()
	}
}

// Window returns a new tracklet spanning exactly [windowStart, windowStart+windowLength).
// Frames outside the source tracklet are zero, and the paddings record how far each end
// of the result is from real data.
func Window(t *Tracklet, windowStart, windowLength int) (*Tracklet, error) {
	if err := Validate(t); err != nil {
		return nil, err
	}
	o, err := WindowOverlap(t.Start, t.Len(), windowStart, windowLength)
	if err != nil {
		return nil, err
	}
	w := &Tracklet{
		Start:       windowStart,
		Keypoints:   newPoses(windowLength, t.NumKeypoints()),
		Prepadding:  o.prepadding(t.Prepadding),
		Postpadding: o.postpadding(t.Postpadding),
	}
	o.copyInto(w.Keypoints, t.Keypoints)
	return w, nil
}

// WindowBatch windows all stacked tracklets at once. The overlap is computed once on
// the shared frame axis, and the padding is updated per item.
func WindowBatch(s *StackedTracklets, windowStart, windowLength int) (*StackedTracklets, error) {
	if err := ValidateStacked(s); err != nil {
		return nil, err
	}
	o, err := WindowOverlap(s.Start, s.NumFrames(), windowStart, windowLength)
	if err != nil {
		return nil, err
	}
	nKeypoints := 0
	if s.NumFrames() != 0 {
		nKeypoints = len(s.Keypoints[0][0])
	}

	d := s.Len()
	w := &StackedTracklets{
		IDs:          gen.CopySlice(s.IDs),
		Start:        windowStart,
		Keypoints:    make([][]Pose, d),
		Prepaddings:  make([]int, d),
		Postpaddings: make([]int, d),
	}
	for i := 0; i < d; i++ {
		w.Keypoints[i] = newPoses(windowLength, nKeypoints)
		o.copyInto(w.Keypoints[i], s.Keypoints[i])
		w.Prepaddings[i] = o.prepadding(s.Prepaddings[i])
		w.Postpaddings[i] = o.postpadding(s.Postpaddings[i])
	}
	return w, nil
}

// WindowAll windows every tracklet in the set independently
func WindowAll(set TrackletSet, windowStart, windowLength int) (TrackletSet, error) {
	out := make(TrackletSet, len(set))
	for category, tracklets := range set {
		wc := make(CategoryTracklets, len(tracklets))
		for id, t := range tracklets {
			w, err := Window(t, windowStart, windowLength)
			if err != nil {
				return nil, err
			}
			wc[id] = w
		}
		out[category] = wc
	}
	return out, nil
}
