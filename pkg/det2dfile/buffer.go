package det2dfile

import (
	"github.com/bmharper/ringbuffer"

	"github.com/cyclopcam/det2d/pkg/det2d"
	"github.com/cyclopcam/det2d/pkg/gen"
)

// windowBuffer holds the frames of the current window, in the shape that the loader yields
type windowBuffer[W any] interface {
	// Drop the n oldest frames. newStart is the absolute frame number of the new first frame.
	evict(n, newStart int)
	// Add the detections of a frame that was just read
	merge(frame int, detections det2d.FrameDetections) error
	empty() bool
	// Return a deep copy of the buffer
	snapshot() W
}

type frameEntry struct {
	frame      int
	detections det2d.FrameDetections
}

// detectionBuffer keeps frames in the order they were read
type detectionBuffer struct {
	frames ringbuffer.WeightedRingT[frameEntry]
}

// maxFrames must be at least the window length
func newDetectionBuffer(maxFrames int) *detectionBuffer {
	return &detectionBuffer{
		frames: ringbuffer.NewWeightedRingT[frameEntry](maxFrames),
	}
}

func (b *detectionBuffer) evict(n, newStart int) {
	for i := 0; i < n && b.frames.Len() != 0; i++ {
		b.frames.Next()
	}
}

func (b *detectionBuffer) merge(frame int, detections det2d.FrameDetections) error {
	b.frames.Add(1, &frameEntry{
		frame:      frame,
		detections: detections,
	})
	return nil
}

func (b *detectionBuffer) empty() bool {
	return b.frames.Len() == 0
}

func (b *detectionBuffer) snapshot() det2d.Detections {
	d := make(det2d.Detections, b.frames.Len())
	for i := 0; i < b.frames.Len(); i++ {
		_, e, _ := b.frames.Peek(i)
		d[e.frame] = e.detections.Clone()
	}
	return d
}

// trackletBuffer grows one tracklet per (category, identity) as frames arrive
type trackletBuffer struct {
	tracklets det2d.TrackletSet
	policy    det2d.FillPolicy
	threshold float64
}

func newTrackletBuffer(policy det2d.FillPolicy, threshold float64) *trackletBuffer {
	return &trackletBuffer{
		tracklets: det2d.TrackletSet{},
		policy:    policy,
		threshold: threshold,
	}
}

// Truncated tracklets that now begin inside a gap mark the empty leading frames as prepadding
func (b *trackletBuffer) evict(n, newStart int) {
	for category, ct := range b.tracklets {
		for id, t := range ct {
			drop := newStart - t.Start
			if drop <= 0 {
				continue
			}
			if drop >= t.Len() {
				delete(ct, id)
				continue
			}
			t.Keypoints = t.Keypoints[drop:]
			t.Start += drop
			t.Prepadding = gen.Max(t.Prepadding-drop, leadingEmptyFrames(t))
			t.Postpadding = gen.Min(t.Postpadding, t.Len()-t.Prepadding)
		}
		if len(ct) == 0 {
			delete(b.tracklets, category)
		}
	}
}

// Number of frames at the start of t with no confident keypoints
func leadingEmptyFrames(t *det2d.Tracklet) int {
	n := 0
	for n < t.Len() && t.Keypoints[n].ConfidenceSum() <= 0 {
		n++
	}
	return n
}

func (b *trackletBuffer) merge(frame int, detections det2d.FrameDetections) error {
	for category, poses := range detections {
		ct := b.tracklets[category]
		if ct == nil {
			ct = det2d.CategoryTracklets{}
			b.tracklets[category] = ct
		}
		for _, p := range poses {
			t := ct[p.ID]
			if t == nil {
				ct[p.ID] = &det2d.Tracklet{
					Start:     frame,
					Keypoints: []det2d.Pose{p.Keypoints},
				}
				continue
			}
			if len(p.Keypoints) != t.NumKeypoints() {
				return formatErrorf("frame %v, category %v, id %v has %v keypoints, but the tracklet has %v", frame, category, p.ID, len(p.Keypoints), t.NumKeypoints())
			}
			if frame == t.Stop() {
				t.Keypoints = append(t.Keypoints, p.Keypoints)
				continue
			}

			// There is a gap, so the tracklet needs to be densified and filled again
			seq := det2d.PoseSequence{
				Prepadding:  t.Prepadding,
				Postpadding: t.Postpadding,
			}
			for f, pose := range t.Keypoints {
				seq.Append(t.Start+f, pose)
			}
			seq.Append(frame, p.Keypoints)
			filled, err := det2d.FillSequence(seq, b.policy, b.threshold)
			if err != nil {
				return err
			}
			ct[p.ID] = filled
		}
	}
	return nil
}

func (b *trackletBuffer) empty() bool {
	return len(b.tracklets) == 0
}

func (b *trackletBuffer) snapshot() det2d.TrackletSet {
	return b.tracklets.Clone()
}
