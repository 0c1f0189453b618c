package tracker

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// canonical crop size the object is scaled to before building the
	// histogram, removes bias from the object's size in the frame
	reidWidth  = 64
	reidHeight = 128
	// histogram bins over hue [0,180) and saturation [0,256)
	hueBins = 30
	satBins = 32
	hueMax  = 180
	satMax  = 256
)

// Histogram is a normalized 2D hue/saturation color distribution of an
// object's region used as an appearance signature for re-identification
type Histogram struct {
	// bins are stored hue major, hueBins x satBins
	bins []float64
}

// NewHistogram crops the region r from frame, scales it to the canonical
// size and computes its hue/saturation histogram.  Returns false if the
// crop is empty after clamping to the frame bounds.
func NewHistogram(frame image.Image, r Rect) (*Histogram, bool) {

	if frame == nil {
		return nil, false
	}

	roi := r.Image(frame.Bounds())

	if roi.Empty() {
		return nil, false
	}

	// resize region of interest to canonical size
	obj := image.NewRGBA(image.Rect(0, 0, reidWidth, reidHeight))
	draw.BiLinear.Scale(obj, obj.Bounds(), frame, roi, draw.Src, nil)

	bins := make([]float64, hueBins*satBins)

	for i := 0; i < len(obj.Pix); i += 4 {
		h, s := hueSat(obj.Pix[i], obj.Pix[i+1], obj.Pix[i+2])
		bins[(h*hueBins/hueMax)*satBins+s*satBins/satMax]++
	}

	// L2 normalize so the signature is independent of pixel count
	if norm := floats.Norm(bins, 2); norm > 0 {
		floats.Scale(1/norm, bins)
	}

	return &Histogram{bins: bins}, true
}

// Bins returns a copy of the flattened histogram
func (h *Histogram) Bins() []float64 {
	out := make([]float64, len(h.bins))
	copy(out, h.bins)
	return out
}

// Compare returns the correlation between two histograms in the range
// [-1, 1], higher values are more similar.  Histograms without variance
// have no defined correlation and score 0.
func Compare(a, b *Histogram) float64 {

	if a == nil || b == nil || len(a.bins) != len(b.bins) {
		return 0
	}

	c := stat.Correlation(a.bins, b.bins, nil)

	if math.IsNaN(c) {
		return 0
	}

	return c
}

// hueSat converts an 8 bit RGB pixel to hue in [0,180) and saturation in
// [0,255] following the OpenCV 8 bit HSV convention
func hueSat(r8, g8, b8 uint8) (int, int) {

	r, g, b := float64(r8), float64(g8), float64(b8)

	v := math.Max(r, math.Max(g, b))
	diff := v - math.Min(r, math.Min(g, b))

	if v == 0 || diff == 0 {
		return 0, 0
	}

	s := math.Round(diff * 255 / v)

	var h float64

	switch v {
	case r:
		h = 60 * (g - b) / diff
	case g:
		h = 120 + 60*(b-r)/diff
	default:
		h = 240 + 60*(r-g)/diff
	}

	if h < 0 {
		h += 360
	}

	hue := int(math.Round(h/2)) % hueMax

	return hue, int(s)
}
