package det2d

import (
	"errors"
	"fmt"
)

var (
	// Threshold outside [0,1], a frame range with a step other than 1, non-positive window sizes
	ErrInvalidArgument = errors.New("Invalid argument")
	// Malformed stream framing, missing pose fields, or keypoint arrays of the wrong shape
	ErrFormat = errors.New("Format error")
	// Tracklets that must share a frame span or shape, but don't
	ErrIncompatibleTracklets = errors.New("Incompatible tracklets")
)

func invalidArgumentf(format string, a ...any) error {
	return fmt.Errorf("%w: %v", ErrInvalidArgument, fmt.Sprintf(format, a...))
}

func formatErrorf(format string, a ...any) error {
	return fmt.Errorf("%w: %v", ErrFormat, fmt.Sprintf(format, a...))
}

func incompatiblef(format string, a ...any) error {
	return fmt.Errorf("%w: %v", ErrIncompatibleTracklets, fmt.Sprintf(format, a...))
}

// Returns an ErrInvalidArgument unless 0 <= threshold <= 1
func CheckConfidenceThreshold(threshold float64) error {
	if !(threshold >= 0 && threshold <= 1) {
		return invalidArgumentf("confidence threshold must be between 0 and 1, but was %v", threshold)
	}
	return nil
}
