package reidtrack

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"time"

	"github.com/swdee/go-reidtrack/detect"
	"github.com/swdee/go-reidtrack/tracker"
)

// FrameSource provides decoded video frames in order.  Next returns io.EOF
// once the stream is exhausted.
type FrameSource interface {
	Next() (image.Image, error)
}

// Sink consumes the live tracks after every frame
type Sink interface {
	Write(frameNum int, frame image.Image, tracks []*tracker.Track) error
	Close() error
}

// Stats are the running totals of a pipeline
type Stats struct {
	// Frames is the number of frames tracked
	Frames int
	// Detections is the number of detections fed to the tracker
	Detections int
	// Identities is the number of distinct track ids created
	Identities int
	// Duration is the wall time spent in Run
	Duration time.Duration
}

// detected is a frame and its detections passed from the detector goroutine
type detected struct {
	frameNum int
	frame    image.Image
	dets     []detect.Detection
	err      error
}

// Pipeline reads frames from a source, detects objects in them and updates
// the tracker, writing the resulting tracks to each sink.  Detection of the
// next frame runs concurrently with tracking of the current one, frames are
// always tracked in order.
type Pipeline struct {
	source   FrameSource
	detector detect.Detector
	tracker  *tracker.Tracker
	sinks    []Sink
	// Trail is optional, when set the box center of every live track is
	// recorded after each frame
	Trail *tracker.Trail
	// LogInterval is the number of frames between progress log lines, zero
	// disables progress logging
	LogInterval int
	stats       Stats
	ids         map[int]struct{}
}

// NewPipeline returns a pipeline tracking the frames of source
func NewPipeline(source FrameSource, detector detect.Detector,
	tr *tracker.Tracker, sinks ...Sink) *Pipeline {

	return &Pipeline{
		source:      source,
		detector:    detector,
		tracker:     tr,
		sinks:       sinks,
		LogInterval: 100,
		ids:         make(map[int]struct{}),
	}
}

// Stats returns the totals of the frames processed so far
func (p *Pipeline) Stats() Stats {
	return p.stats
}

// Run processes frames until the source is exhausted, an error occurs or the
// context is cancelled
func (p *Pipeline) Run(ctx context.Context) error {

	start := time.Now()
	defer func() {
		p.stats.Duration += time.Since(start)
	}()

	ctx, cancel := context.WithCancel(ctx)

	// look ahead of one frame
	results := make(chan detected, 1)

	go p.detectLoop(ctx, results)

	defer func() {
		cancel()
		// wait for the detector goroutine to stop using the source
		for range results {
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case res, ok := <-results:

			if !ok {
				// the detector also stops on cancellation
				if err := ctx.Err(); err != nil {
					return err
				}

				log.Printf("Tracking complete: %d frames, %d detections, %d identities\n",
					p.stats.Frames, p.stats.Detections, p.stats.Identities)
				return nil
			}

			if err := ctx.Err(); err != nil {
				return err
			}

			if res.err != nil {
				return res.err
			}

			if err := p.track(res); err != nil {
				return err
			}
		}
	}
}

// detectLoop reads and detects frames in order, sending them on results.
// results is closed when the source is exhausted or after an error.
func (p *Pipeline) detectLoop(ctx context.Context, results chan<- detected) {

	defer close(results)

	for frameNum := 0; ; frameNum++ {

		if ctx.Err() != nil {
			return
		}

		res := detected{frameNum: frameNum}

		frame, err := p.source.Next()

		if errors.Is(err, io.EOF) {
			return
		}

		if err != nil {
			res.err = fmt.Errorf("error reading frame %d: %w", frameNum, err)
		} else {
			res.frame = frame
			res.dets, err = p.detector.Detect(frameNum, frame)

			if err != nil {
				res.err = fmt.Errorf("error detecting frame %d: %w", frameNum, err)
			}
		}

		select {
		case results <- res:
		case <-ctx.Done():
			return
		}

		if res.err != nil {
			return
		}
	}
}

// track updates the tracker with one frame's detections and writes the
// tracks to every sink
func (p *Pipeline) track(res detected) error {

	tracks, err := p.tracker.Update(tracker.DetectionsToObjects(res.dets), res.frame)

	if err != nil {
		return fmt.Errorf("error tracking frame %d: %w", res.frameNum, err)
	}

	if p.Trail != nil {
		for _, track := range p.tracker.Removed() {
			p.Trail.Forget(track.GetTrackID())
		}

		for _, track := range tracks {
			p.Trail.Add(track)
		}
	}

	for _, track := range tracks {
		p.ids[track.GetTrackID()] = struct{}{}
	}

	p.stats.Frames++
	p.stats.Detections += len(res.dets)
	p.stats.Identities = len(p.ids)

	for _, sink := range p.sinks {
		if err := sink.Write(res.frameNum, res.frame, tracks); err != nil {
			return fmt.Errorf("error writing frame %d: %w", res.frameNum, err)
		}
	}

	if p.LogInterval > 0 && (res.frameNum+1)%p.LogInterval == 0 {
		log.Printf("Frame %d: %d detections, %d live tracks\n",
			res.frameNum, len(res.dets), len(tracks))
	}

	return nil
}

// Close closes every sink, returning the first error
func (p *Pipeline) Close() error {

	var first error

	for _, sink := range p.sinks {
		if err := sink.Close(); err != nil && first == nil {
			first = err
		}
	}

	return first
}
