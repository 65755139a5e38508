package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/akamensky/argparse"
	"github.com/cheggaaa/pb/v3"
	"github.com/cyclopcam/logs"

	"github.com/cyclopcam/det2d/pkg/det2d"
	"github.com/cyclopcam/det2d/pkg/det2dfile"
	"github.com/cyclopcam/det2d/pkg/gen"
	"github.com/cyclopcam/det2d/pkg/stats"
)

func check(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	parser := argparse.NewParser("det2d", "Slide a window over a .det2d.json detection stream, and report keypoint visibility per window")
	input := parser.String("i", "input", &argparse.Options{Help: "Input .det2d.json file", Required: true})
	catsFile := parser.String("c", "cats", &argparse.Options{Help: "Categories file (cats.json)", Required: false, Default: ""})
	configFile := parser.String("", "config", &argparse.Options{Help: "JSON config file. Other flags override it.", Required: false, Default: ""})
	length := parser.Int("l", "length", &argparse.Options{Help: "Window length, in frames", Required: false, Default: 0})
	interval := parser.Int("n", "interval", &argparse.Options{Help: "Distance between window starts, in frames", Required: false, Default: 0})
	threshold := parser.Float("t", "threshold", &argparse.Options{Help: "Keypoint confidence threshold", Required: false, Default: -1.0})
	fill := parser.String("f", "fill", &argparse.Options{Help: "Gap fill policy (zero or linear)", Required: false, Default: ""})
	tracklets := parser.Flag("", "tracklets", &argparse.Options{Help: "Load tracklets instead of detections", Required: false})
	verbose := parser.Flag("v", "verbose", &argparse.Options{Help: "Log every window", Required: false})
	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, _ := logs.NewLog()
	defer logger.Close()

	cfg := det2dfile.DefaultConfig()
	if *configFile != "" {
		loaded, err := det2dfile.LoadConfig(*configFile)
		check(err)
		cfg = *loaded
	}
	if *length > 0 {
		cfg.WindowLength = *length
	}
	if *interval > 0 {
		cfg.WindowInterval = *interval
	}
	if *threshold >= 0 {
		cfg.ConfidenceThreshold = *threshold
	}
	if *fill != "" {
		cfg.Fill = *fill
	}
	if *catsFile != "" {
		cfg.Categories, err = det2d.LoadCategories(*catsFile)
		check(err)
	}
	policy, err := cfg.FillPolicy()
	check(err)

	// Both loaders end up as tracklets, so that windows can be stacked and masked
	var next func() (det2d.TrackletSet, error)
	var numWindows int
	if *tracklets {
		l, err := det2dfile.NewTrackletLoader(*input, cfg, logger)
		check(err)
		defer l.Close()
		next = l.Next
		numWindows = l.Len()
	} else {
		l, err := det2dfile.NewDetectionLoader(*input, cfg, logger)
		check(err)
		defer l.Close()
		next = func() (det2d.TrackletSet, error) {
			d, err := l.Next()
			if err != nil {
				return nil, err
			}
			return det2d.ToTracklets(d, policy, cfg.ConfidenceThreshold, nil)
		}
		numWindows = l.Len()
	}

	if err := run(logger, cfg, next, numWindows, *verbose); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(logger logs.Log, cfg det2dfile.Config, next func() (det2d.TrackletSet, error), numWindows int, verbose bool) error {
	bar := pb.StartNew(numWindows)
	defer bar.Finish()

	windows := 0
	loadTime := stats.TimeAccumulator{}
	visibility := map[int]*stats.Accumulator{}
	for {
		start := time.Now()
		set, err := next()
		if err == io.EOF {
			break
		} else if err != nil {
			return err
		}
		loadTime.AddSince(start)
		summaries, err := summarizeWindow(set, cfg.ConfidenceThreshold)
		if err != nil {
			return fmt.Errorf("Window %v: %w", windows, err)
		}
		for _, s := range summaries {
			acc := visibility[s.Category]
			if acc == nil {
				acc = &stats.Accumulator{}
				visibility[s.Category] = acc
			}
			acc.AddSample(s.Visibility)
			if verbose {
				logger.Infof("Window %v, %v: %v tracklets over frames [%v, %v), %.1f%% (+- %.1f%%) visible",
					windows, categoryName(cfg.Categories, s.Category), s.Tracklets, s.Start, s.Start+s.NumFrames, s.Visibility*100, s.Spread*100)
			}
		}
		windows++
		bar.Increment()
	}

	logger.Infof("%v windows of %v frames, every %v frames, %v per window", windows, cfg.WindowLength, cfg.WindowInterval, loadTime.Average())
	for _, category := range gen.SortedKeys(visibility) {
		acc := visibility[category]
		logger.Infof("%v: present in %v windows, %.1f%% (+- %.1f%%) of keypoints visible, worst window %.1f%%",
			categoryName(cfg.Categories, category), acc.Samples, acc.Average()*100, acc.StdDev()*100, acc.Min*100)
	}
	return nil
}
