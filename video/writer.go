package video

import (
	"fmt"
	"image"
	"log"

	"github.com/swdee/go-reidtrack/render"
	"github.com/swdee/go-reidtrack/tracker"
	"gocv.io/x/gocv"
)

// DefaultFPS is used when the source frame rate is unknown
const DefaultFPS = 25

// Writer is a sink drawing track boxes, labels and trails onto each frame
// and encoding the result to an mp4 file.  The output size is taken from the
// first frame written.
type Writer struct {
	file   string
	fps    float64
	writer *gocv.VideoWriter
	// Labels are the class names used in box captions
	Labels []string
	// Font used to render captions, sized to the frame when left zero
	Font render.Font
	// LineThickness of the box outline
	LineThickness int
	// Trail is optional, when set the track history is drawn
	Trail      *tracker.Trail
	TrailStyle render.TrailStyle
}

// NewWriter returns a writer encoding to file at the given frame rate
func NewWriter(file string, fps float64) *Writer {

	if fps <= 0 {
		fps = DefaultFPS
	}

	return &Writer{
		file:          file,
		fps:           fps,
		LineThickness: 2,
		TrailStyle:    render.DefaultTrailStyle(),
	}
}

// Write annotates the frame with the tracks and appends it to the video
func (w *Writer) Write(frameNum int, frame image.Image, tracks []*tracker.Track) error {

	if frame == nil {
		return fmt.Errorf("frame %d: no image to write", frameNum)
	}

	img, err := gocv.ImageToMatRGB(frame)

	if err != nil {
		return fmt.Errorf("frame %d: error converting image: %w", frameNum, err)
	}

	defer img.Close()

	if w.writer == nil {
		w.writer, err = gocv.VideoWriterFile(w.file, "mp4v", w.fps,
			img.Cols(), img.Rows(), true)

		if err != nil {
			return fmt.Errorf("error creating video writer: %w", err)
		}

		if w.Font.Scale == 0 {
			w.Font = render.FontForHeight(img.Rows())
		}

		log.Printf("Writing %dx%d video at %.2f FPS to %s\n",
			img.Cols(), img.Rows(), w.fps, w.file)
	}

	if w.Trail != nil {
		render.Trail(&img, tracks, w.Trail, w.TrailStyle)
	}

	render.TrackerBoxes(&img, tracks, w.Labels, w.Font, w.LineThickness)

	// frame statistics in the top left corner
	gocv.PutTextWithParams(&img,
		fmt.Sprintf("Frame: %d  Tracks: %d", frameNum, len(tracks)),
		image.Pt(4, 14), w.Font.Face, w.Font.Scale, render.Pink,
		w.Font.Thickness, w.Font.LineType, false)

	if err := w.writer.Write(img); err != nil {
		return fmt.Errorf("frame %d: error writing video: %w", frameNum, err)
	}

	return nil
}

// Close finalises the video file
func (w *Writer) Close() error {

	if w.writer == nil {
		return nil
	}

	return w.writer.Close()
}
