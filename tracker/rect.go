package tracker

import (
	"image"
	"math"
)

// Tlwh (top, left, width, height) represents a 1x4 box
type Tlwh [4]float64

// Rect represents a rectangle with Tlwh (top, left, width, height) format
type Rect struct {
	Tlwh Tlwh
}

// NewRect creates a new Rect with given coordinates
func NewRect(x, y, width, height float64) Rect {
	return Rect{
		Tlwh: Tlwh{x, y, width, height},
	}
}

// X returns the x coordinate of the rectangle
func (r Rect) X() float64 {
	return r.Tlwh[0]
}

// Y returns the y coordinate of the rectangle
func (r Rect) Y() float64 {
	return r.Tlwh[1]
}

// Width returns the width of the rectangle
func (r Rect) Width() float64 {
	return r.Tlwh[2]
}

// Height returns the height of the rectangle
func (r Rect) Height() float64 {
	return r.Tlwh[3]
}

// BRX returns the bottom-right x coordinate of the rectangle
func (r Rect) BRX() float64 {
	return r.Tlwh[0] + r.Tlwh[2]
}

// BRY returns the bottom-right y coordinate of the rectangle
func (r Rect) BRY() float64 {
	return r.Tlwh[1] + r.Tlwh[3]
}

// Area returns width * height
func (r Rect) Area() float64 {
	return r.Tlwh[2] * r.Tlwh[3]
}

// Translate returns the rectangle shifted by dx, dy
func (r Rect) Translate(dx, dy float64) Rect {
	return NewRect(r.Tlwh[0]+dx, r.Tlwh[1]+dy, r.Tlwh[2], r.Tlwh[3])
}

// CalcIoU calculates the Intersection over Union (IoU) with another rectangle.
// The intersection is clamped to zero for disjoint boxes and a zero union
// yields 0.
func (r Rect) CalcIoU(other Rect) float64 {

	iw := math.Max(0, math.Min(r.BRX(), other.BRX())-math.Max(r.X(), other.X()))
	ih := math.Max(0, math.Min(r.BRY(), other.BRY())-math.Max(r.Y(), other.Y()))
	inter := iw * ih

	union := r.Area() + other.Area() - inter

	if union == 0 {
		return 0
	}

	return inter / union
}

// Image converts the rectangle into an image.Rectangle clamped to bounds,
// the result is empty when the rectangle lies outside bounds
func (r Rect) Image(bounds image.Rectangle) image.Rectangle {

	x1 := clamp(int(r.X()), bounds.Min.X, bounds.Max.X)
	y1 := clamp(int(r.Y()), bounds.Min.Y, bounds.Max.Y)
	x2 := clamp(int(r.BRX()), bounds.Min.X, bounds.Max.X)
	y2 := clamp(int(r.BRY()), bounds.Min.Y, bounds.Max.Y)

	return image.Rect(x1, y1, x2, y2)
}

// BBox is an integer pixel box in (x, y, width, height) form as reported
// to callers for rendering and logging
type BBox struct {
	X, Y, Width, Height int
}

// NewBBox truncates a Rect into integer pixel units
func NewBBox(r Rect) BBox {
	return BBox{
		X:      int(r.X()),
		Y:      int(r.Y()),
		Width:  int(r.Width()),
		Height: int(r.Height()),
	}
}

// Rect returns the box as a float Rect
func (b BBox) Rect() Rect {
	return NewRect(float64(b.X), float64(b.Y), float64(b.Width), float64(b.Height))
}

// Center returns the center point of the box
func (b BBox) Center() image.Point {
	return image.Pt(b.X+b.Width/2, b.Y+b.Height/2)
}

// Image returns the box as an unclamped image.Rectangle
func (b BBox) Image() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// clamp restricts the value x to be within the range min and max
func clamp(val, min, max int) int {

	if val > min {

		if val < max {
			return val
		}

		return max
	}

	return min
}
