package tracker

import (
	"fmt"
)

// TrackState represents the state of a tracked object for the current frame
type TrackState int

const (
	// Object was matched to a detection on the current frame
	Tracked TrackState = 1
	// Object was not matched on the current frame
	Lost TrackState = 2
	// Object has been evicted from the tracker
	Removed TrackState = 3
)

// String returns the name of the state
func (s TrackState) String() string {
	switch s {
	case Tracked:
		return "tracked"
	case Lost:
		return "lost"
	case Removed:
		return "removed"
	}

	return fmt.Sprintf("TrackState(%d)", int(s))
}

// Track represents a single tracked object identity
type Track struct {
	// Kalman filter used for motion estimation
	kalmanFilter *KalmanFilter
	// Mean state vector [x, y, w, h, vx, vy, vw]
	mean StateMean
	// Covariance matrix
	covariance StateCov
	// bbox is the integer box derived from the latest predict or update
	bbox BBox
	// Current state of the track
	state TrackState
	// Unique ID for the track
	trackID int
	// hits is the number of successful updates
	hits int
	// misses is the number of consecutive frames without a match
	misses int
	// age is the number of frames the track has been predicted over
	age int
	// score is the confidence of the last matched detection
	score float64
	// label is the object class of the detection that created the track
	label int
	// detectionID of the last matched detection
	detectionID int64
	// appearance is the last observed color histogram, nil until a
	// non-empty crop has been seen
	appearance *Histogram
}

// NewTrack creates a new Track initialized from the given detection box
func NewTrack(trackID int, obj Object) *Track {

	t := &Track{
		kalmanFilter: NewKalmanFilter(),
		mean:         make(StateMean, stateDim),
		state:        Tracked,
		trackID:      trackID,
		score:        obj.Prob,
		label:        obj.Label,
		detectionID:  obj.ID,
		bbox:         NewBBox(obj.Rect),
	}

	t.kalmanFilter.Initiate(t.mean, &t.covariance, obj.Rect)

	return t
}

// GetTrackID returns the unique ID for the track
func (t *Track) GetTrackID() int {
	return t.trackID
}

// GetBBox returns the current integer box of the track
func (t *Track) GetBBox() BBox {
	return t.bbox
}

// GetRect returns the current float box estimate of the track
func (t *Track) GetRect() Rect {
	return NewRect(t.mean[0], t.mean[1], t.mean[2], t.mean[3])
}

// GetState returns the current state of the track
func (t *Track) GetState() TrackState {
	return t.state
}

// GetHits returns the number of successful updates
func (t *Track) GetHits() int {
	return t.hits
}

// GetMisses returns the number of consecutive frames the track went unmatched
func (t *Track) GetMisses() int {
	return t.misses
}

// GetAge returns the number of frames the track has existed for
func (t *Track) GetAge() int {
	return t.age
}

// GetScore returns the confidence of the last matched detection
func (t *Track) GetScore() float64 {
	return t.score
}

// GetLabel returns the object class of the track
func (t *Track) GetLabel() int {
	return t.label
}

// GetDetectionID returns the ID of the last matched detection
func (t *Track) GetDetectionID() int64 {
	return t.detectionID
}

// GetVelocity returns the estimated per frame velocity of x, y and width
func (t *Track) GetVelocity() (vx, vy, vw float64) {
	return t.mean[4], t.mean[5], t.mean[6]
}

// Appearance returns the last observed appearance histogram or nil
func (t *Track) Appearance() *Histogram {
	return t.appearance
}

// SetAppearance replaces the appearance histogram
func (t *Track) SetAppearance(hist *Histogram) {
	t.appearance = hist
}

// Predict advances the track state one frame without an observation
func (t *Track) Predict() {
	t.kalmanFilter.Predict(t.mean, &t.covariance)
	t.age++
	t.updateBBox()
}

// Update fuses an observed box into the track state
func (t *Track) Update(rect Rect) error {

	err := t.kalmanFilter.Update(t.mean, &t.covariance, rect)

	if err != nil {
		return fmt.Errorf("error updating track %d: %w", t.trackID, err)
	}

	t.updateBBox()

	t.state = Tracked
	t.hits++
	t.misses = 0

	return nil
}

// match updates the track from a detected object
func (t *Track) match(obj Object) error {

	if err := t.Update(obj.Rect); err != nil {
		return err
	}

	t.score = obj.Prob
	t.detectionID = obj.ID

	return nil
}

// MarkAsLost records a frame where the track went unmatched
func (t *Track) MarkAsLost() {
	t.state = Lost
	t.misses++
}

// MarkAsRemoved marks the track as evicted
func (t *Track) MarkAsRemoved() {
	t.state = Removed
}

// updateBBox derives the integer box from the state mean
func (t *Track) updateBBox() {
	t.bbox = NewBBox(t.GetRect())
}
