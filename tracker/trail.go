package tracker

import "sync"

// Point represents the x,y coordinates of the center of a track's box
type Point struct {
	X, Y int
}

// Trail keeps a history of track box centers used for drawing a trail.  It
// may be read by a renderer while the tracking loop adds to it.
type Trail struct {
	// size is the maximum number of most recent points to keep in history
	size int
	// history of points per track id
	history map[int][]Point
	sync.Mutex
}

// NewTrail returns a new trail history instance.  Size is the maximum length
// of the trail to maintain per track
func NewTrail(size int) *Trail {
	return &Trail{
		size:    size,
		history: make(map[int][]Point),
	}
}

// Reset clears all history
func (t *Trail) Reset() {
	t.Lock()
	defer t.Unlock()

	t.history = make(map[int][]Point)
}

// Add appends the track's current box center to its history
func (t *Trail) Add(track *Track) {
	t.Lock()
	defer t.Unlock()

	c := track.GetBBox().Center()
	id := track.GetTrackID()

	points := append(t.history[id], Point{X: c.X, Y: c.Y})

	// drop oldest point once history is exceeded
	if len(points) > t.size {
		points = points[1:]
	}

	t.history[id] = points
}

// Forget drops the history of a removed track
func (t *Trail) Forget(id int) {
	t.Lock()
	defer t.Unlock()

	delete(t.history, id)
}

// GetPoints gets a copy of the point history for a specific track id
func (t *Trail) GetPoints(id int) []Point {
	t.Lock()
	defer t.Unlock()

	points, exists := t.history[id]

	if !exists {
		return nil
	}

	out := make([]Point, len(points))
	copy(out, points)

	return out
}
