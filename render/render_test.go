package render

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackColor(t *testing.T) {

	assert.Equal(t, classColors[0], TrackColor(0))
	assert.Equal(t, classColors[3], TrackColor(3))
	assert.Equal(t, TrackColor(5), TrackColor(5+len(classColors)))
	assert.Equal(t, TrackColor(2), TrackColor(-2))
}

func TestLabelLayout(t *testing.T) {

	box := image.Rect(100, 50, 200, 150)
	textSize := image.Pt(40, 10)

	font := DefaultFont()

	bg, pos := labelLayout(box, textSize, font, 2)

	// left aligned, text starts one pad in from the box edge less half the line
	assert.Equal(t, image.Pt(103, 44), pos)
	assert.Equal(t, image.Rect(99, 30, 147, 50), bg)

	font.Alignment = Center
	bg, pos = labelLayout(box, textSize, font, 2)

	assert.Equal(t, image.Pt(130, 44), pos)
	assert.Equal(t, image.Rect(126, 30, 174, 50), bg)

	font.Alignment = Right
	bg, pos = labelLayout(box, textSize, font, 2)

	assert.Equal(t, image.Pt(157, 44), pos)
	assert.Equal(t, image.Rect(153, 30, 201, 50), bg)
}

func TestTrailStyleColors(t *testing.T) {

	style := DefaultTrailStyle()

	line, circle := style.colors(4)
	assert.Equal(t, Yellow, line)
	assert.Equal(t, TrackColor(4), circle)

	style.LineSame = true
	style.CircleSame = false

	line, circle = style.colors(4)
	assert.Equal(t, TrackColor(4), line)
	assert.Equal(t, Pink, circle)
}

func TestFontForHeight(t *testing.T) {

	assert.Equal(t, DefaultFont(), FontForHeight(720))
	assert.Equal(t, DefaultFont(), FontForHeight(0))

	f := FontForHeight(1440)
	assert.InDelta(t, 1.0, f.Scale, 1e-9)
	assert.Equal(t, 8, f.LeftPad)
	assert.Equal(t, 12, f.BottomPad)
	assert.Equal(t, 2, f.Thickness)

	f = FontForHeight(180)
	assert.InDelta(t, 0.125, f.Scale, 1e-9)
	assert.Equal(t, 1, f.LeftPad)
	assert.Equal(t, 2, f.BottomPad)
	assert.Equal(t, 1, f.Thickness)
}
