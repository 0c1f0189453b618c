package render

import (
	"image"
	"image/color"

	"github.com/swdee/go-reidtrack/tracker"
	"gocv.io/x/gocv"
)

// TrailStyle defines the parameters used for rendering the trail style
type TrailStyle struct {
	// LineSame defines if the color of the trail line should be the
	// same color as that of the bounding box.  If set to false then use
	// the color specified at LineColor
	LineSame      bool
	LineColor     color.RGBA
	LineThickness int
	// CircleSame defines if the color of the midpoint circle should be the
	// same color as that of the bounding box.  If set to false then use
	// the color specified at CircleColor
	CircleSame   bool
	CircleColor  color.RGBA
	CircleRadius int
}

// DefaultTrailStyle returns default trail style settings
func DefaultTrailStyle() TrailStyle {
	return TrailStyle{
		LineSame:      false,
		LineColor:     Yellow,
		LineThickness: 1,
		CircleSame:    true,
		CircleColor:   Pink,
		CircleRadius:  3,
	}
}

// Trail draws the recent box centers of each track as a polyline ending in a
// filled circle on the current center
func Trail(img *gocv.Mat, tracks []*tracker.Track,
	trail *tracker.Trail, style TrailStyle) {

	for _, track := range tracks {

		lineClr, circleClr := style.colors(track.GetTrackID())
		points := trail.GetPoints(track.GetTrackID())

		// need a segment before there is anything to draw
		if len(points) < 2 {
			continue
		}

		for i := 1; i < len(points); i++ {
			gocv.Line(img, toPt(points[i-1]), toPt(points[i]),
				lineClr, style.LineThickness)
		}

		gocv.Circle(img, toPt(points[len(points)-1]),
			style.CircleRadius, circleClr, -1)
	}
}

// colors resolves the line and circle color for a track
func (s TrailStyle) colors(id int) (line, circle color.RGBA) {

	objClr := TrackColor(id)
	line, circle = objClr, objClr

	if !s.LineSame {
		line = s.LineColor
	}

	if !s.CircleSame {
		circle = s.CircleColor
	}

	return line, circle
}

func toPt(p tracker.Point) image.Point {
	return image.Pt(p.X, p.Y)
}
