// Package video reads frames from a video file and writes annotated tracking
// output to a video file using GoCV.
package video

import (
	"fmt"
	"image"
	"io"

	"gocv.io/x/gocv"
)

// Capture is a frame source reading from a video file or stream URL
type Capture struct {
	video *gocv.VideoCapture
	mat   gocv.Mat
	// frames is the number of frames returned so far
	frames int
}

// OpenCapture opens the video file for reading
func OpenCapture(file string) (*Capture, error) {

	video, err := gocv.VideoCaptureFile(file)

	if err != nil {
		return nil, fmt.Errorf("error opening video %s: %w", file, err)
	}

	return &Capture{
		video: video,
		mat:   gocv.NewMat(),
	}, nil
}

// FPS returns the frame rate reported by the container, or zero if unknown
func (c *Capture) FPS() float64 {
	return c.video.Get(gocv.VideoCaptureFPS)
}

// FrameCount returns the number of frames reported by the container
func (c *Capture) FrameCount() int {
	return int(c.video.Get(gocv.VideoCaptureFrameCount))
}

// Next returns the next decoded frame, io.EOF is returned after the last frame
func (c *Capture) Next() (image.Image, error) {

	for {
		if ok := c.video.Read(&c.mat); !ok {
			return nil, io.EOF
		}

		// skip empty frames some containers emit
		if c.mat.Empty() {
			continue
		}

		img, err := c.mat.ToImage()

		if err != nil {
			return nil, fmt.Errorf("error converting frame %d: %w", c.frames, err)
		}

		c.frames++

		return img, nil
	}
}

// Close releases the capture device and frame buffer
func (c *Capture) Close() error {

	c.mat.Close()

	return c.video.Close()
}
