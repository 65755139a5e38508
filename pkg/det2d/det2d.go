// Package det2d re-indexes per-frame 2D keypoint detections into per-identity tracklets,
// and provides windowing, stacking, gap filling and masking over those tracklets.
//
// Everything in this package is a pure function of its inputs. Inputs are never mutated.
package det2d

import (
	"github.com/cyclopcam/det2d/pkg/gen"
)

// Keypoint is a single (x, y, confidence) sample. Confidence 0 means absent.
type Keypoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// Pose is the ordered list of K keypoints of one detected instance
type Pose []Keypoint

func (p Pose) Clone() Pose {
	return gen.CopySlice(p)
}

// Sum of the confidence of all keypoints
func (p Pose) ConfidenceSum() float64 {
	sum := 0.0
	for _, kp := range p {
		sum += kp.Confidence
	}
	return sum
}

// Return the keypoints at the given indices, in the order given
func (p Pose) Select(indices []int) Pose {
	out := make(Pose, len(indices))
	for i, idx := range indices {
		out[i] = p[idx]
	}
	return out
}

// PoseDetection is one identity's pose on a single frame
type PoseDetection struct {
	ID        int  `json:"id"`
	Keypoints Pose `json:"keypoints"`
}

// FrameDetections maps category to the poses detected on one frame
type FrameDetections map[int][]PoseDetection

func (f FrameDetections) Clone() FrameDetections {
	c := make(FrameDetections, len(f))
	for category, poses := range f {
		cp := make([]PoseDetection, len(poses))
		for i, p := range poses {
			cp[i] = PoseDetection{ID: p.ID, Keypoints: p.Keypoints.Clone()}
		}
		c[category] = cp
	}
	return c
}

// Detections maps frame number to the detections on that frame
type Detections map[int]FrameDetections

// Frame numbers, ascending
func (d Detections) Frames() []int {
	return gen.SortedKeys(d)
}

func (d Detections) Clone() Detections {
	c := make(Detections, len(d))
	for frame, f := range d {
		c[frame] = f.Clone()
	}
	return c
}

// Tracklet is the dense, padded keypoint time series of a single (category, identity).
// Keypoints has shape [F][K]. The first Prepadding and the last Postpadding frames
// are synthetic, everything between them originated from real data.
type Tracklet struct {
	Start       int    `json:"start"`
	Keypoints   []Pose `json:"keypoints"`
	Prepadding  int    `json:"prepadding"`
	Postpadding int    `json:"postpadding"`
}

// Number of frames
func (t *Tracklet) Len() int {
	return len(t.Keypoints)
}

// One past the last frame
func (t *Tracklet) Stop() int {
	return t.Start + len(t.Keypoints)
}

// Number of keypoints per pose, or zero for a tracklet without frames
func (t *Tracklet) NumKeypoints() int {
	if len(t.Keypoints) == 0 {
		return 0
	}
	return len(t.Keypoints[0])
}

func (t *Tracklet) Clone() *Tracklet {
	return &Tracklet{
		Start:       t.Start,
		Keypoints:   clonePoses(t.Keypoints),
		Prepadding:  t.Prepadding,
		Postpadding: t.Postpadding,
	}
}

// CategoryTracklets maps identity to tracklet, within one category
type CategoryTracklets map[int]*Tracklet

func (c CategoryTracklets) Clone() CategoryTracklets {
	out := make(CategoryTracklets, len(c))
	for id, t := range c {
		out[id] = t.Clone()
	}
	return out
}

// TrackletSet maps category to the tracklets of that category
type TrackletSet map[int]CategoryTracklets

func (s TrackletSet) Clone() TrackletSet {
	out := make(TrackletSet, len(s))
	for category, c := range s {
		out[category] = c.Clone()
	}
	return out
}

// Total number of tracklets across all categories
func (s TrackletSet) Count() int {
	n := 0
	for _, c := range s {
		n += len(c)
	}
	return n
}

// StackedTracklets holds D tracklets of one category which share Start and frame count.
// Keypoints has shape [D][F][K].
type StackedTracklets struct {
	IDs          []int    `json:"ids"`
	Start        int      `json:"start"`
	Keypoints    [][]Pose `json:"keypoints"`
	Prepaddings  []int    `json:"prepaddings"`
	Postpaddings []int    `json:"postpaddings"`
}

// Number of stacked tracklets (D)
func (s *StackedTracklets) Len() int {
	return len(s.IDs)
}

// Number of frames shared by all items (F)
func (s *StackedTracklets) NumFrames() int {
	if len(s.Keypoints) == 0 {
		return 0
	}
	return len(s.Keypoints[0])
}

// Item i as a standalone tracklet (sharing no memory with s)
func (s *StackedTracklets) Tracklet(i int) *Tracklet {
	return &Tracklet{
		Start:       s.Start,
		Keypoints:   clonePoses(s.Keypoints[i]),
		Prepadding:  s.Prepaddings[i],
		Postpadding: s.Postpaddings[i],
	}
}

// PoseSequence is the raw pose history of one identity, before densification.
// Frames need not be sorted or contiguous. Frames[i] belongs to Keypoints[i].
type PoseSequence struct {
	Frames      []int
	Keypoints   []Pose
	Prepadding  int
	Postpadding int
}

func (q *PoseSequence) Append(frame int, pose Pose) {
	q.Frames = append(q.Frames, frame)
	q.Keypoints = append(q.Keypoints, pose)
}

// FrameRange is the half-open interval [Start, Stop). Only Step 1 is supported.
type FrameRange struct {
	Start int
	Stop  int
	Step  int
}

func NewFrameRange(start, stop int) *FrameRange {
	return &FrameRange{Start: start, Stop: stop, Step: 1}
}

func (r *FrameRange) Contains(frame int) bool {
	return frame >= r.Start && frame < r.Stop
}

func (r *FrameRange) Validate() error {
	if r.Step != 1 {
		return invalidArgumentf("frame range must have a step size of 1, but this was %v", r.Step)
	}
	return nil
}

func newPoses(numFrames, numKeypoints int) []Pose {
	poses := make([]Pose, numFrames)
	for i := range poses {
		poses[i] = make(Pose, numKeypoints)
	}
	return poses
}

func clonePoses(src []Pose) []Pose {
	dst := make([]Pose, len(src))
	for i, p := range src {
		dst[i] = p.Clone()
	}
	return dst
}
