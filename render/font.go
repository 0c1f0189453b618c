package render

import (
	"image/color"

	"gocv.io/x/gocv"
)

// Alignment of a caption relative to its box
type Alignment int

const (
	Left   Alignment = 1
	Center Alignment = 2
	Right  Alignment = 3
)

// referenceHeight is the frame height DefaultFont is sized for
const referenceHeight = 720

// Font defines the parameters for rendering box captions using GoCV
type Font struct {
	Face      gocv.HersheyFont
	Scale     float64
	Color     color.RGBA
	Thickness int
	LineType  gocv.LineType
	// Padding placed around the caption text
	LeftPad   int
	RightPad  int
	TopPad    int
	BottomPad int
	// Alignment of the caption to the bounding box
	Alignment Alignment
}

// DefaultFont returns font settings suited to 720p video
func DefaultFont() Font {
	return Font{
		Face:      gocv.FontHersheySimplex,
		Scale:     0.5,
		Color:     White,
		Thickness: 1,
		LineType:  gocv.LineAA,
		LeftPad:   4,
		RightPad:  4,
		TopPad:    4,
		BottomPad: 6,
		Alignment: Left,
	}
}

// FontForHeight scales DefaultFont to a frame of the given height so
// captions keep the same proportion of the frame.  Padding never drops
// below one pixel.
func FontForHeight(height int) Font {

	f := DefaultFont()

	if height <= 0 || height == referenceHeight {
		return f
	}

	ratio := float64(height) / referenceHeight

	f.Scale *= ratio
	f.LeftPad = scalePad(f.LeftPad, ratio)
	f.RightPad = scalePad(f.RightPad, ratio)
	f.TopPad = scalePad(f.TopPad, ratio)
	f.BottomPad = scalePad(f.BottomPad, ratio)

	if ratio >= 2 {
		f.Thickness = int(ratio)
	}

	return f
}

func scalePad(pad int, ratio float64) int {

	if p := int(float64(pad)*ratio + 0.5); p > 1 {
		return p
	}

	return 1
}
