package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/swdee/go-reidtrack/detect"
	"github.com/swdee/go-reidtrack/tracker"
	"gocv.io/x/gocv"
)

// boxLabel holds the precalculated details of a label drawn above a box
type boxLabel struct {
	rect    image.Rectangle
	clr     color.RGBA
	text    string
	textPos image.Point
}

// TrackerBoxes renders the bounding box and "label id" caption of each
// track.  Tracks that went unmatched on the current frame are drawn with
// a thinner outline.
func TrackerBoxes(img *gocv.Mat, tracks []*tracker.Track,
	classNames []string, font Font, lineThickness int) {

	// keep a record of all box labels for later rendering
	boxLabels := make([]boxLabel, 0, len(tracks))

	for _, track := range tracks {

		box := track.GetBBox().Image()
		useClr := TrackColor(track.GetTrackID())

		thickness := lineThickness

		if track.GetState() == tracker.Lost && thickness > 1 {
			thickness /= 2
		}

		gocv.Rectangle(img, box, useClr, thickness)

		text := fmt.Sprintf("%s %d",
			detect.LabelName(classNames, track.GetLabel()), track.GetTrackID())
		textSize := gocv.GetTextSize(text, font.Face, font.Scale, font.Thickness)

		bRect, labelPosition := labelLayout(box, textSize, font, lineThickness)

		boxLabels = append(boxLabels, boxLabel{
			rect:    bRect,
			clr:     useClr,
			text:    text,
			textPos: labelPosition,
		})
	}

	// draw all precalculated box labels so they are the top most layer on the
	// image and don't get overlapped by neighbouring boxes
	for _, label := range boxLabels {
		// draw box text gets written on
		gocv.Rectangle(img, label.rect, label.clr, -1)

		gocv.PutTextWithParams(img, label.text, label.textPos,
			font.Face, font.Scale, font.Color, font.Thickness,
			font.LineType, false)
	}
}

// labelLayout calculates the filled background rectangle of a caption and the
// baseline position of its text for the given box and font alignment
func labelLayout(box image.Rectangle, textSize image.Point, font Font,
	lineThickness int) (image.Rectangle, image.Point) {

	var centerX int

	switch font.Alignment {
	case Center:
		centerX = (box.Min.X + box.Max.X) / 2

	case Right:
		centerX = box.Max.X - (textSize.X / 2) - font.RightPad + (lineThickness / 2)

	case Left:
		fallthrough
	default:
		centerX = box.Min.X + (textSize.X / 2) + font.LeftPad - (lineThickness / 2)
	}

	textPos := image.Pt(centerX-textSize.X/2, box.Min.Y-font.BottomPad)

	bRect := image.Rect(centerX-textSize.X/2-font.LeftPad,
		box.Min.Y-textSize.Y-font.TopPad-font.BottomPad,
		centerX+textSize.X/2+font.RightPad, box.Min.Y)

	return bRect, textPos
}
