package det2d

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestValidate(t *testing.T) {
	require.True(t, errors.Is(Validate(nil), ErrFormat))

	tr := &Tracklet{Start: 3, Keypoints: []Pose{pose(1, 1, 1), pose(2, 2, 1)}}
	require.NoError(t, Validate(tr))

	tr.Prepadding = -1
	require.True(t, errors.Is(Validate(tr), ErrFormat))

	tr.Prepadding = 2
	tr.Postpadding = 1
	require.True(t, errors.Is(Validate(tr), ErrFormat))

	tr.Prepadding = 0
	tr.Postpadding = 0
	tr.Keypoints[1] = pose(2, 2, 1, 3, 3, 1)
	require.True(t, errors.Is(Validate(tr), ErrFormat))
}

func TestValidateSet(t *testing.T) {
	set := sampleTracklets(t, ZeroFill{}, 0)
	require.NoError(t, ValidateSet(set))

	set[0][1].Prepadding = -1
	set[0][2].Postpadding = 5
	err := ValidateSet(set)
	require.Error(t, err)
	require.Equal(t, 2, len(multierr.Errors(err)))
	require.True(t, errors.Is(err, ErrFormat))
}

func TestValidateStacked(t *testing.T) {
	set := sampleTracklets(t, ZeroFill{}, 0)
	s, err := Stack(set[0], true)
	require.NoError(t, err)
	require.NoError(t, ValidateStacked(s))

	s.Prepaddings = s.Prepaddings[:2]
	require.True(t, errors.Is(ValidateStacked(s), ErrFormat))

	_, err = WindowBatch(s, 0, 5)
	require.True(t, errors.Is(err, ErrFormat))
}

func TestCheckComparable(t *testing.T) {
	set := sampleTracklets(t, ZeroFill{}, 0)
	require.NoError(t, CheckComparable(set[0][0], set[0][0].Clone()))
	require.True(t, errors.Is(CheckComparable(set[0][0], set[0][1]), ErrIncompatibleTracklets))

	shifted := set[0][0].Clone()
	shifted.Start++
	require.True(t, errors.Is(CheckComparable(set[0][0], shifted), ErrIncompatibleTracklets))
}
