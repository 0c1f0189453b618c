// Command reidtrack tracks objects through a video file using precomputed
// MOTChallenge style detections, writing the tracks to a CSV log, a SQLite
// database and/or an annotated video.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/swdee/go-reidtrack"
	"github.com/swdee/go-reidtrack/config"
	"github.com/swdee/go-reidtrack/detect"
	"github.com/swdee/go-reidtrack/tracker"
	"github.com/swdee/go-reidtrack/tracklog"
	"github.com/swdee/go-reidtrack/video"
)

// options are the command line flags
type options struct {
	vidFile     string
	detFile     string
	outFile     string
	csvFile     string
	dbFile      string
	cfgFile     string
	labelFile   string
	strategy    string
	classCol    int
	limitLabels string
}

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	var opts options

	flag.StringVar(&opts.vidFile, "v", "", "Video file to track objects in")
	flag.StringVar(&opts.detFile, "d", "", "MOTChallenge det.txt file of detections for the video")
	flag.StringVar(&opts.outFile, "o", "", "Annotated mp4 video to write, optional")
	flag.StringVar(&opts.csvFile, "csv", "track_log.csv", "CSV file to log tracks to, empty to disable")
	flag.StringVar(&opts.dbFile, "db", "", "SQLite database to record tracks in, optional")
	flag.StringVar(&opts.cfgFile, "c", "", "JSON tuning config file, optional")
	flag.StringVar(&opts.labelFile, "l", "", "Text file containing class labels, optional")
	flag.StringVar(&opts.strategy, "s", "", "Match strategy override, greedy or optimal")
	flag.IntVar(&opts.classCol, "class-col", -1, "Zero based column of det.txt holding the class, -1 if none")
	flag.StringVar(&opts.limitLabels, "x", "", "Comma delimited list of labels to restrict tracking to")

	flag.Parse()

	if opts.vidFile == "" || opts.detFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := run(ctx, opts)
	stop()

	if err != nil {
		log.Fatal(err)
	}
}

// run tracks the video, every output opened is closed before returning so
// logs of the frames processed are kept even on error
func run(ctx context.Context, opts options) error {

	cfg := config.Default()

	if opts.cfgFile != "" {
		var err error

		if cfg, err = config.Load(opts.cfgFile); err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
	}

	if opts.strategy != "" {
		cfg.MatchStrategy = opts.strategy

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid strategy: %w", err)
		}
	}

	var labels []string

	if opts.labelFile != "" {
		var err error

		if labels, err = detect.LoadLabels(opts.labelFile); err != nil {
			return fmt.Errorf("error loading labels: %w", err)
		}
	}

	fileOpts := detect.DefaultFileOptions()
	fileOpts.MinConfidence = cfg.MinConfidence
	fileOpts.ClassColumn = opts.classCol

	fileDet, err := detect.NewFileDetector(opts.detFile, fileOpts)

	if err != nil {
		return fmt.Errorf("error loading detections: %w", err)
	}

	log.Printf("Loaded %d detections up to frame %d, skipped %d degenerate boxes\n",
		fileDet.Count(), fileDet.LastFrame(), fileDet.Skipped())

	var detector detect.Detector = fileDet

	if opts.limitLabels != "" {
		classes, err := detect.ParseClassNames(labels, opts.limitLabels)

		if err != nil {
			return fmt.Errorf("error limiting labels: %w", err)
		}

		detector = detect.NewClassFilter(fileDet, classes...)
	}

	tr, err := cfg.NewTracker()

	if err != nil {
		return fmt.Errorf("error creating tracker: %w", err)
	}

	capture, err := video.OpenCapture(opts.vidFile)

	if err != nil {
		return fmt.Errorf("error opening video: %w", err)
	}

	defer capture.Close()

	var trail *tracker.Trail

	if cfg.TrailSize > 0 {
		trail = tracker.NewTrail(cfg.TrailSize)
	}

	sinks, err := openSinks(opts, cfg, labels, trail, capture.FPS())

	if err != nil {
		return err
	}

	defer closeSinks(sinks)

	pipeline := reidtrack.NewPipeline(capture, detector, tr, sinks...)
	pipeline.Trail = trail

	log.Printf("Tracking %s (%d frames) using %s matching\n",
		opts.vidFile, capture.FrameCount(), cfg.MatchStrategy)

	if err := pipeline.Run(ctx); err != nil {
		return fmt.Errorf("error tracking video: %w", err)
	}

	stats := pipeline.Stats()

	log.Printf("Processed %d frames in %s, %.2f FPS\n", stats.Frames,
		stats.Duration, float64(stats.Frames)/stats.Duration.Seconds())

	return nil
}

// openSinks creates the outputs selected on the command line.  On error the
// outputs already created are closed.
func openSinks(opts options, cfg *config.Config, labels []string,
	trail *tracker.Trail, fps float64) ([]reidtrack.Sink, error) {

	var sinks []reidtrack.Sink

	if opts.csvFile != "" {
		csvLog, err := tracklog.CreateCSVLog(opts.csvFile)

		if err != nil {
			return nil, fmt.Errorf("error creating CSV log: %w", err)
		}

		sinks = append(sinks, csvLog)
	}

	if opts.dbFile != "" {
		dbLog, err := tracklog.CreateSQLiteLog(opts.dbFile, opts.vidFile, cfg.JSON())

		if err != nil {
			closeSinks(sinks)
			return nil, fmt.Errorf("error creating SQLite log: %w", err)
		}

		sinks = append(sinks, dbLog)
	}

	if opts.outFile != "" {
		writer := video.NewWriter(opts.outFile, fps)
		writer.Labels = labels
		writer.Trail = trail

		sinks = append(sinks, writer)
	}

	return sinks, nil
}

// closeSinks closes every output, logging failures
func closeSinks(sinks []reidtrack.Sink) {
	for _, sink := range sinks {
		if err := sink.Close(); err != nil {
			log.Printf("Error closing output: %v", err)
		}
	}
}
