// Package detect defines the detections the tracker consumes and the
// detector collaborators producing them.
package detect

import (
	"image"
)

// Detection defines the attributes of a single object detected
type Detection struct {
	// X, Y are the top left corner of the bounding box
	X float64
	Y float64
	// Width, Height are the bounding box dimensions
	Width  float64
	Height float64
	// Probability is the confidence score of the object detected
	Probability float64
	// Class is the line number in the labels file the Model was trained on
	// defining the Class of the detected object
	Class int
	// ID is a unique ID assigned to the detection result
	ID int64
}

// Detector produces detections for a decoded video frame.  frameNum is the
// zero based index of the frame in the stream.
type Detector interface {
	Detect(frameNum int, img image.Image) ([]Detection, error)
}

// DetectorFunc adapts a function into a Detector
type DetectorFunc func(frameNum int, img image.Image) ([]Detection, error)

// Detect calls f
func (f DetectorFunc) Detect(frameNum int, img image.Image) ([]Detection, error) {
	return f(frameNum, img)
}
