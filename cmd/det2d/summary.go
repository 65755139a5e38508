package main

import (
	"fmt"
	"math"

	"github.com/cyclopcam/det2d/pkg/det2d"
	"github.com/cyclopcam/det2d/pkg/gen"
	"github.com/cyclopcam/det2d/pkg/stats"
)

// Per-category statistics of one window
type categorySummary struct {
	Category   int
	Tracklets  int
	Start      int     // First frame of the stacked window
	NumFrames  int     // Frames in the stacked window
	Visibility float64 // Fraction of keypoint slots that are confident and not padding
	Spread     float64 // Standard deviation of the visibility of individual tracklets
}

// Stack every category of a window, and measure how much of it holds usable keypoints
func summarizeWindow(set det2d.TrackletSet, threshold float64) ([]categorySummary, error) {
	summaries := []categorySummary{}
	for _, category := range gen.SortedKeys(set) {
		stacked, err := det2d.Stack(set[category], true)
		if err != nil {
			return nil, fmt.Errorf("category %v: %w", category, err)
		}
		mask, err := det2d.StackedConfidenceAndUnpaddedMask(stacked, threshold)
		if err != nil {
			return nil, err
		}
		perTracklet := make([]float64, len(mask))
		for i, item := range mask {
			visible, total := 0, 0
			for _, frame := range item {
				for _, v := range frame {
					total++
					if v {
						visible++
					}
				}
			}
			if total != 0 {
				perTracklet[i] = float64(visible) / float64(total)
			}
		}
		mean, variance := stats.MeanVar(perTracklet)
		s := categorySummary{
			Category:   category,
			Tracklets:  stacked.Len(),
			Start:      stacked.Start,
			NumFrames:  stacked.NumFrames(),
			Visibility: mean,
			Spread:     math.Sqrt(variance),
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// Name of the category, if there is a table to look it up in
func categoryName(cats *det2d.Categories, category int) string {
	if cats != nil {
		if name, err := cats.Name(category); err == nil {
			return name
		}
	}
	return fmt.Sprintf("%v", category)
}
