package det2dfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cyclopcam/logs"

	"github.com/cyclopcam/det2d/pkg/det2d"
	"github.com/cyclopcam/det2d/pkg/gen"
	"github.com/cyclopcam/det2d/pkg/log"
)

// ErrLoaderExhausted is returned by Open when the loader has already been run to the end, or closed
var ErrLoaderExhausted = errors.New("Loader is exhausted")

// Loader reads a .det2d.json stream one window at a time, without ever holding more than
// one window of frames in memory. Every call to Next advances the window by WindowInterval
// frames, and returns WindowLength frames (fewer at the end of the stream).
//
// A Loader is single-pass and must not be used from more than one goroutine at a time.
type Loader[W any] struct {
	Log *logs.PrefixLogger

	path      string
	cfg       Config
	numFrames int
	newBuffer func() windowBuffer[W]

	file   *os.File
	reader *bufio.Reader
	buf    windowBuffer[W]

	windowStart      int // Relative to the first content line of the file
	windowStop       int // Number of lines read after the opening '{'
	terminated       bool
	terminationFrame int
	haveFirstFrame   bool
	firstFrame       int // Absolute frame number of the first content line
	exhausted        bool
}

// NewDetectionLoader creates a loader that yields the raw detections of each window
func NewDetectionLoader(path string, cfg Config, logger logs.Log) (*Loader[det2d.Detections], error) {
	newBuffer := func() windowBuffer[det2d.Detections] {
		return newDetectionBuffer(cfg.WindowLength + cfg.WindowInterval)
	}
	return newLoader(path, cfg, logger, "DetectionLoader", newBuffer)
}

// NewTrackletLoader creates a loader that yields the tracklets of each window.
// Gaps inside a window are filled with cfg.Fill.
func NewTrackletLoader(path string, cfg Config, logger logs.Log) (*Loader[det2d.TrackletSet], error) {
	policy, err := cfg.FillPolicy()
	if err != nil {
		return nil, err
	}
	newBuffer := func() windowBuffer[det2d.TrackletSet] {
		return newTrackletBuffer(policy, cfg.ConfidenceThreshold)
	}
	return newLoader(path, cfg, logger, "TrackletLoader", newBuffer)
}

func newLoader[W any](path string, cfg Config, logger logs.Log, component string, newBuffer func() windowBuffer[W]) (*Loader[W], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	numFrames, err := countFrames(path)
	if err != nil {
		return nil, err
	}
	return &Loader[W]{
		Log:       log.NewFileLogger(logger, component, path),
		path:      path,
		cfg:       cfg,
		numFrames: numFrames,
		newBuffer: newBuffer,
	}, nil
}

// Count the content lines of a stream, excluding the opening and closing lines
func countFrames(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	first, last := -1, -1
	for i := 0; ; i++ {
		line, err := r.ReadString('\n')
		if err != nil && err != io.EOF {
			return 0, err
		}
		if line == "" && err == io.EOF {
			break
		}
		if s := strings.TrimSpace(line); s != "" && s != "{" && s != "}" {
			if first == -1 {
				first = i
			}
			last = i
		}
		if err == io.EOF {
			break
		}
	}
	if first == -1 {
		return 0, nil
	}
	return last - first + 1, nil
}

// Number of windows that Next will yield
func (l *Loader[W]) Len() int {
	return (l.numFrames + l.cfg.WindowInterval - 1) / l.cfg.WindowInterval
}

// Number of frames in the stream
func (l *Loader[W]) NumFrames() int {
	return l.numFrames
}

func (l *Loader[W]) Config() Config {
	return l.cfg
}

// Open (or restart) the stream. Calling Open is optional, because Next will open the stream if necessary.
func (l *Loader[W]) Open() error {
	if l.exhausted {
		return ErrLoaderExhausted
	}
	l.closeFile()

	f, err := os.Open(l.path)
	if err != nil {
		return err
	}
	l.file = f
	l.reader = bufio.NewReader(f)
	l.buf = l.newBuffer()
	l.windowStart = 0
	l.windowStop = 0
	l.terminated = false
	l.terminationFrame = 0
	l.haveFirstFrame = false
	l.firstFrame = 0

	first, err := l.readLine()
	if err != nil {
		l.fail()
		return err
	}
	if first != "{" {
		l.fail()
		return fmt.Errorf("%w: stream must start with '{', but the first line was '%v'", det2d.ErrFormat, first)
	}
	l.Log.Infof("Opened, %v frames in %v windows of %v frames", l.numFrames, l.Len(), l.cfg.WindowLength)
	return nil
}

// Next returns the next window, or io.EOF when there are no more windows.
// The returned window is a copy, and remains valid after further calls to Next.
func (l *Loader[W]) Next() (W, error) {
	var none W
	if l.exhausted {
		return none, io.EOF
	}
	if l.file == nil {
		if err := l.Open(); err != nil {
			return none, err
		}
	}

	// Drop the frames that slide out of the window. The first window always starts at the first frame.
	if l.windowStop != 0 {
		n := gen.Max(0, l.framesInWindow()-l.cfg.WindowLength+l.cfg.WindowInterval)
		if l.haveFirstFrame {
			l.buf.evict(n, l.firstFrame+l.windowStart+n)
		}
		l.windowStart += n
	}

	if l.pastEnd() {
		l.finish()
		return none, io.EOF
	}

	for l.framesInWindow() < l.cfg.WindowLength {
		line, err := l.readLine()
		if err != nil {
			l.fail()
			return none, err
		}
		l.windowStop++

		if line == "" || line == "}" {
			if !l.terminated {
				l.terminated = true
				l.terminationFrame = l.windowStop
				l.Log.Debugf("End of stream after %v frames", l.terminationFrame-1)
			}
			if l.pastEnd() {
				l.finish()
				return none, io.EOF
			}
			continue
		}
		if l.windowStop <= l.windowStart {
			// The interval is longer than the window, and this frame falls between two windows
			continue
		}

		frame, detections, err := decodeFrameLine(line, l.cfg.Categories)
		if err == nil {
			detections, err = l.selectKeypoints(detections)
		}
		if err == nil {
			if !l.haveFirstFrame {
				l.haveFirstFrame = true
				l.firstFrame = frame
			}
			err = l.buf.merge(frame, detections)
		}
		if err != nil {
			l.fail()
			return none, fmt.Errorf("Line %v of %v: %w", l.windowStop+1, l.path, err)
		}
	}

	return l.buf.snapshot(), nil
}

// Close the stream. It is safe to call Close more than once.
// A closed loader cannot be opened again.
func (l *Loader[W]) Close() error {
	l.exhausted = true
	return l.closeFile()
}

// True if the window starts at or after the closing line, so it cannot hold any frames
func (l *Loader[W]) pastEnd() bool {
	return l.terminated && l.windowStart >= l.terminationFrame-1
}

func (l *Loader[W]) framesInWindow() int {
	return l.windowStop - l.windowStart
}

// Return the next line without surrounding whitespace, or "" at the end of the file
func (l *Loader[W]) readLine() (string, error) {
	line, err := l.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (l *Loader[W]) selectKeypoints(detections det2d.FrameDetections) (det2d.FrameDetections, error) {
	if l.cfg.KeypointIndices == nil {
		return detections, nil
	}
	for category, poses := range detections {
		for i := range poses {
			selected, err := l.cfg.selectKeypoints(category, poses[i].Keypoints)
			if err != nil {
				return nil, err
			}
			poses[i].Keypoints = selected
		}
	}
	return detections, nil
}

// The stream ended normally
func (l *Loader[W]) finish() {
	l.Log.Debugf("Finished")
	l.Close()
}

// The stream cannot be read any further
func (l *Loader[W]) fail() {
	l.Log.Warnf("Closing after error")
	l.Close()
}

func (l *Loader[W]) closeFile() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.reader = nil
	l.buf = nil
	return err
}
