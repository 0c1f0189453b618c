package detect

import (
	"bufio"
	"image"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// motMinColumns is the number of leading columns read from a MOTChallenge
// detection row, frame,id,bb_left,bb_top,bb_width,bb_height,conf
const motMinColumns = 7

// FileDetector replays precomputed detections from a MOTChallenge style
// det.txt file.  Frames in the file are 1-based and map to frameNum-1.
type FileDetector struct {
	// frames holds the detections keyed by zero based frame number
	frames map[int][]Detection
	// lastFrame is the highest frame number with detections
	lastFrame int
	// skipped counts rows dropped for a zero or negative box size
	skipped int
}

// FileOptions control how a detection file is parsed
type FileOptions struct {
	// MinConfidence drops detections scoring below it
	MinConfidence float64
	// ClassColumn is the zero based column holding the object class, or a
	// negative value when the file has no class column
	ClassColumn int
}

// DefaultFileOptions returns options keeping every detection with no class
// column
func DefaultFileOptions() FileOptions {
	return FileOptions{
		MinConfidence: 0,
		ClassColumn:   -1,
	}
}

// NewFileDetector loads the detections from the given file
func NewFileDetector(file string, opts FileOptions) (*FileDetector, error) {

	f, err := os.Open(file)

	if err != nil {
		return nil, errors.Wrap(err, "error opening detection file")
	}

	defer f.Close()

	return ReadDetections(f, opts)
}

// ReadDetections parses MOTChallenge style detection rows from r.  Empty
// lines and lines starting with # are skipped, as are rows with a degenerate
// box which are counted by Skipped.
func ReadDetections(r io.Reader, opts FileOptions) (*FileDetector, error) {

	fd := &FileDetector{
		frames:    make(map[int][]Detection),
		lastFrame: -1,
	}

	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		frameNum, det, err := parseRow(line, opts.ClassColumn)

		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNum)
		}

		if det.Width <= 0 || det.Height <= 0 {
			fd.skipped++
			continue
		}

		if det.Probability < opts.MinConfidence {
			continue
		}

		det.ID = int64(lineNum)
		fd.frames[frameNum] = append(fd.frames[frameNum], det)

		if frameNum > fd.lastFrame {
			fd.lastFrame = frameNum
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading detections")
	}

	return fd, nil
}

// parseRow parses one comma separated row into its zero based frame number
// and detection
func parseRow(line string, classColumn int) (int, Detection, error) {

	cols := strings.Split(line, ",")

	if len(cols) < motMinColumns {
		return 0, Detection{}, errors.Errorf("expected at least %d columns, got %d",
			motMinColumns, len(cols))
	}

	vals := make([]float64, motMinColumns)

	for i := 0; i < motMinColumns; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(cols[i]), 64)

		if err != nil {
			return 0, Detection{}, errors.Wrapf(err, "column %d", i+1)
		}

		vals[i] = v
	}

	frame := int(vals[0])

	if frame < 1 {
		return 0, Detection{}, errors.Errorf("frame numbers start at 1, got %d", frame)
	}

	det := Detection{
		X:           vals[2],
		Y:           vals[3],
		Width:       vals[4],
		Height:      vals[5],
		Probability: vals[6],
	}

	if classColumn >= 0 {
		if classColumn >= len(cols) {
			return 0, Detection{}, errors.Errorf("missing class column %d", classColumn+1)
		}

		class, err := strconv.Atoi(strings.TrimSpace(cols[classColumn]))

		if err != nil {
			return 0, Detection{}, errors.Wrap(err, "class column")
		}

		det.Class = class
	}

	return frame - 1, det, nil
}

// Detect returns the detections recorded for the frame, the image is unused
func (fd *FileDetector) Detect(frameNum int, _ image.Image) ([]Detection, error) {
	dets := fd.frames[frameNum]
	out := make([]Detection, len(dets))
	copy(out, dets)
	return out, nil
}

// LastFrame returns the highest zero based frame number with detections or
// -1 if the file was empty
func (fd *FileDetector) LastFrame() int {
	return fd.lastFrame
}

// Skipped returns the number of rows dropped for a degenerate box
func (fd *FileDetector) Skipped() int {
	return fd.skipped
}

// Count returns the total number of detections loaded
func (fd *FileDetector) Count() int {
	n := 0

	for _, dets := range fd.frames {
		n += len(dets)
	}

	return n
}
