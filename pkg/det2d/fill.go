package det2d

import (
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/interp"

	"github.com/cyclopcam/det2d/pkg/gen"
)

// FillPolicy closes the gaps of a densified tracklet.
// keyframes[f][k] is true where keypoint k of frame f was observed with sufficient confidence.
// A policy may return dense itself, or a new tracklet.
type FillPolicy interface {
	Fill(dense *Tracklet, keyframes [][]bool) *Tracklet
}

// ZeroFill leaves missing frames and low-confidence keypoints at zero
type ZeroFill struct{}

func (ZeroFill) Fill(dense *Tracklet, keyframes [][]bool) *Tracklet {
	return dense
}

func (ZeroFill) String() string { return "zero" }

// LinearFill interpolates each keypoint linearly between its keyframes.
// Frames before the first or after the last keyframe of a keypoint are zero,
// and keyframes keep their exact original values.
type LinearFill struct{}

func (LinearFill) String() string { return "linear" }

func (LinearFill) Fill(dense *Tracklet, keyframes [][]bool) *Tracklet {
	nFrames := dense.Len()
	nKeypoints := dense.NumKeypoints()
	out := &Tracklet{
		Start:       dense.Start,
		Keypoints:   newPoses(nFrames, nKeypoints),
		Prepadding:  dense.Prepadding,
		Postpadding: dense.Postpadding,
	}

	anchors := make([]int, 0, nFrames)
	xs := make([]float64, 0, nFrames)
	ys := make([]float64, 0, nFrames)
	for k := 0; k < nKeypoints; k++ {
		anchors = anchors[:0]
		for f := 0; f < nFrames; f++ {
			if keyframes[f][k] {
				anchors = append(anchors, f)
			}
		}
		if len(anchors) >= 2 {
			xs = xs[:0]
			for _, f := range anchors {
				xs = append(xs, float64(f))
			}
			first, last := anchors[0], anchors[len(anchors)-1]
			for c := 0; c < 3; c++ {
				ys = ys[:0]
				for _, f := range anchors {
					ys = append(ys, keypointChannel(dense.Keypoints[f][k], c))
				}
				var pl interp.PiecewiseLinear
				if err := pl.Fit(xs, ys); err != nil {
					panic(err)
				}
				for f := first; f <= last; f++ {
					setKeypointChannel(&out.Keypoints[f][k], c, pl.Predict(float64(f)))
				}
			}
			for _, f := range anchors {
				out.Keypoints[f][k] = dense.Keypoints[f][k]
			}
		}
	}
	return out
}

func keypointChannel(kp Keypoint, c int) float64 {
	switch c {
	case 0:
		return kp.X
	case 1:
		return kp.Y
	}
	return kp.Confidence
}

func setKeypointChannel(kp *Keypoint, c int, v float64) {
	switch c {
	case 0:
		kp.X = v
	case 1:
		kp.Y = v
	default:
		kp.Confidence = v
	}
}

// ParseFillPolicy returns the policy called "zero" or "linear".
// An empty name selects ZeroFill.
func ParseFillPolicy(name string) (FillPolicy, error) {
	switch name {
	case "", "zero":
		return ZeroFill{}, nil
	case "linear", "interpolate":
		return LinearFill{}, nil
	}
	return nil, invalidArgumentf("unknown fill policy '%v'", name)
}

// Densify sorts a pose sequence by frame, zeroes every keypoint whose confidence is below
// threshold, and scatters the poses into a dense tracklet spanning [min(frames), max(frames)].
// The returned keyframe mask has shape [F][K] and is true only at slots that were observed
// and met the threshold.
func Densify(seq PoseSequence, threshold float64) (*Tracklet, [][]bool, error) {
	if err := CheckConfidenceThreshold(threshold); err != nil {
		return nil, nil, err
	}
	if len(seq.Frames) != len(seq.Keypoints) {
		return nil, nil, formatErrorf("pose sequence has %v frames but %v poses", len(seq.Frames), len(seq.Keypoints))
	}
	if len(seq.Frames) == 0 {
		return nil, nil, invalidArgumentf("pose sequence is empty")
	}
	nKeypoints := len(seq.Keypoints[0])
	if err := checkPoseShapes(seq.Keypoints, nKeypoints); err != nil {
		return nil, nil, err
	}

	order := make([]int, len(seq.Frames))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return seq.Frames[order[i]] < seq.Frames[order[j]] })

	first := seq.Frames[order[0]]
	last := seq.Frames[order[len(order)-1]]
	nFrames := last - first + 1

	dense := &Tracklet{
		Start:       first,
		Keypoints:   newPoses(nFrames, nKeypoints),
		Prepadding:  seq.Prepadding,
		Postpadding: seq.Postpadding,
	}
	keyframes := make([][]bool, nFrames)
	for f := range keyframes {
		keyframes[f] = make([]bool, nKeypoints)
	}

	for _, i := range order {
		f := seq.Frames[i] - first
		for k, kp := range seq.Keypoints[i] {
			if kp.Confidence >= threshold {
				dense.Keypoints[f][k] = kp
				keyframes[f][k] = true
			} else {
				dense.Keypoints[f][k] = Keypoint{}
				keyframes[f][k] = false
			}
		}
	}
	if err := Validate(dense); err != nil {
		return nil, nil, err
	}
	return dense, keyframes, nil
}

// Keyframes of a tracklet that is already dense: every keypoint whose confidence is at least threshold
func Keyframes(t *Tracklet, threshold float64) ([][]bool, error) {
	if err := CheckConfidenceThreshold(threshold); err != nil {
		return nil, err
	}
	keyframes := make([][]bool, t.Len())
	for f, pose := range t.Keypoints {
		row := make([]bool, len(pose))
		for k, kp := range pose {
			row[k] = kp.Confidence >= threshold
		}
		keyframes[f] = row
	}
	return keyframes, nil
}

// FillSequence densifies a raw pose sequence and closes its gaps with policy
func FillSequence(seq PoseSequence, policy FillPolicy, threshold float64) (*Tracklet, error) {
	dense, keyframes, err := Densify(seq, threshold)
	if err != nil {
		return nil, err
	}
	return fillWith(policy).Fill(dense, keyframes), nil
}

// FillTracklet closes the gaps of a tracklet that is already dense.
// The result never shares memory with t.
func FillTracklet(t *Tracklet, policy FillPolicy, threshold float64) (*Tracklet, error) {
	if err := Validate(t); err != nil {
		return nil, err
	}
	keyframes, err := Keyframes(t, threshold)
	if err != nil {
		return nil, err
	}
	return fillWith(policy).Fill(t.Clone(), keyframes), nil
}

// FillAll applies FillTracklet to every tracklet in the set.
// Categories are processed concurrently.
func FillAll(set TrackletSet, policy FillPolicy, threshold float64) (TrackletSet, error) {
	if err := CheckConfidenceThreshold(threshold); err != nil {
		return nil, err
	}
	categories := gen.SortedKeys(set)
	filled := make([]CategoryTracklets, len(categories))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, category := range categories {
		g.Go(func() error {
			out := make(CategoryTracklets, len(set[category]))
			for id, t := range set[category] {
				ft, err := FillTracklet(t, policy, threshold)
				if err != nil {
					return fmt.Errorf("category %v, id %v: %w", category, id, err)
				}
				out[id] = ft
			}
			filled[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make(TrackletSet, len(categories))
	for i, category := range categories {
		result[category] = filled[i]
	}
	return result, nil
}

func fillWith(policy FillPolicy) FillPolicy {
	if policy == nil {
		return ZeroFill{}
	}
	return policy
}
