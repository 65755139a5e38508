package det2d

import (
	"fmt"

	"github.com/cyclopcam/det2d/pkg/gen"
)

// Stack the tracklets of a single category for vectorized processing.
// Items are ordered by ascending identity.
//
// If allowWindowing is false, all tracklets must span the same frames, otherwise an
// ErrIncompatibleTracklets is returned. If it is true, every tracklet is windowed onto
// the union of all spans.
func Stack(tracklets CategoryTracklets, allowWindowing bool) (*StackedTracklets, error) {
	ids := gen.SortedKeys(tracklets)
	s := &StackedTracklets{
		IDs:          ids,
		Start:        0,
		Keypoints:    make([][]Pose, len(ids)),
		Prepaddings:  make([]int, len(ids)),
		Postpaddings: make([]int, len(ids)),
	}
	if len(ids) == 0 {
		return s, nil
	}

	first := tracklets[ids[0]]
	if err := Validate(first); err != nil {
		return nil, fmt.Errorf("id %v: %w", ids[0], err)
	}

	if !allowWindowing {
		s.Start = first.Start
		for i, id := range ids {
			t := tracklets[id]
			if err := CheckComparable(t, first); err != nil {
				return nil, fmt.Errorf("id %v: %w", id, err)
			}
			s.Keypoints[i] = clonePoses(t.Keypoints)
			s.Prepaddings[i] = t.Prepadding
			s.Postpaddings[i] = t.Postpadding
		}
		return s, nil
	}

	start, stop := first.Start, first.Stop()
	for _, id := range ids[1:] {
		t := tracklets[id]
		start = gen.Min(start, t.Start)
		stop = gen.Max(stop, t.Stop())
	}
	if stop == start {
		// Every tracklet is empty, so there is no window to speak of
		s.Start = start
		for i := range ids {
			s.Keypoints[i] = []Pose{}
		}
		return s, nil
	}
	s.Start = start
	for i, id := range ids {
		w, err := Window(tracklets[id], start, stop-start)
		if err != nil {
			return nil, fmt.Errorf("id %v: %w", id, err)
		}
		s.Keypoints[i] = w.Keypoints
		s.Prepaddings[i] = w.Prepadding
		s.Postpaddings[i] = w.Postpadding
	}
	if err := ValidateStacked(s); err != nil {
		return nil, err
	}
	return s, nil
}
