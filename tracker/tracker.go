package tracker

import (
	"fmt"
	"image"
)

const (
	// DefaultIoUThreshold is the minimum overlap, exclusive, for a detection
	// to be geometrically matched to a track
	DefaultIoUThreshold = 0.3
	// DefaultAppearanceThreshold is the minimum histogram correlation,
	// exclusive, for a detection to re-identify a track
	DefaultAppearanceThreshold = 0.85
	// DefaultMaxAge is the number of consecutive missed frames after which
	// a track is removed
	DefaultMaxAge = 30
)

// MatchStrategy selects how detections are associated to tracks on the
// geometric pass
type MatchStrategy int

const (
	// Greedy matches detections in input order, each claiming its best
	// overlapping unassigned track.  Earlier detections have first claim.
	Greedy MatchStrategy = iota
	// Optimal solves the IoU assignment as a linear assignment problem
	// using the Jonker-Volgenant algorithm
	Optimal
)

// String returns the name of the strategy
func (m MatchStrategy) String() string {
	switch m {
	case Greedy:
		return "greedy"
	case Optimal:
		return "optimal"
	}

	return fmt.Sprintf("MatchStrategy(%d)", int(m))
}

// ParseMatchStrategy returns the strategy for the given name
func ParseMatchStrategy(name string) (MatchStrategy, error) {
	switch name {
	case "greedy", "":
		return Greedy, nil
	case "optimal":
		return Optimal, nil
	}

	return Greedy, fmt.Errorf("unknown match strategy %q", name)
}

// Tracker is a multi object tracker combining a per track Kalman filter,
// IoU association and color histogram re-identification
type Tracker struct {
	// Matching threshold for IoU association
	iouThreshold float64
	// Matching threshold for appearance association
	appearanceThreshold float64
	// Maximum number of consecutive missed frames before a track is removed,
	// zero or less keeps tracks forever
	maxAge int
	// strategy used on the geometric pass
	strategy MatchStrategy
	// Current frame ID
	frameID int
	// ids assigns unique track IDs
	ids *IDGenerator
	// List of live tracks in creation order
	tracks []*Track
	// List of tracks removed on the last update
	removed []*Track
}

// NewTracker initializes and returns a new Tracker
func NewTracker(iouThreshold, appearanceThreshold float64, maxAge int) *Tracker {
	return &Tracker{
		iouThreshold:        iouThreshold,
		appearanceThreshold: appearanceThreshold,
		maxAge:              maxAge,
		strategy:            Greedy,
		ids:                 NewIDGenerator(),
	}
}

// DefaultTracker returns a Tracker using the default thresholds
func DefaultTracker() *Tracker {
	return NewTracker(DefaultIoUThreshold, DefaultAppearanceThreshold, DefaultMaxAge)
}

// SetMatchStrategy sets the association strategy used on the geometric pass
func (tr *Tracker) SetMatchStrategy(strategy MatchStrategy) {
	tr.strategy = strategy
}

// SetIDGenerator replaces the generator used for new track IDs
func (tr *Tracker) SetIDGenerator(ids *IDGenerator) {
	tr.ids = ids
}

// Reset clears the tracked data and resets everything
func (tr *Tracker) Reset() {
	tr.frameID = 0
	tr.ids.Reset()
	tr.tracks = nil
	tr.removed = nil
}

// FrameID returns the number of frames processed
func (tr *Tracker) FrameID() int {
	return tr.frameID
}

// Tracks returns the live tracks in creation order
func (tr *Tracker) Tracks() []*Track {
	out := make([]*Track, len(tr.tracks))
	copy(out, tr.tracks)
	return out
}

// Removed returns the tracks evicted on the last update
func (tr *Tracker) Removed() []*Track {
	return tr.removed
}

// Update predicts all tracks forward, associates the detected objects by IoU
// then by appearance and spawns tracks for the remaining objects.  The frame
// is used to crop objects for their appearance histogram, when nil the
// appearance pass is skipped and unmatched objects always spawn new tracks.
// Returns the live tracks after the update.
func (tr *Tracker) Update(objects []Object, frame image.Image) ([]*Track, error) {

	tr.frameID++
	tr.removed = nil

	// Step 1: predict current position of every track
	for _, track := range tr.tracks {
		track.Predict()
	}

	// tracks spawned this frame are appended after the existing ones
	existing := len(tr.tracks)
	trackAssigned := make([]bool, existing)
	detAssigned := make([]bool, len(objects))

	// Step 2: first association, with IoU
	var matches [][2]int
	var err error

	switch tr.strategy {
	case Optimal:
		matches, err = tr.optimalIoUMatch(objects)

		if err != nil {
			return nil, fmt.Errorf("fatal error in linear assignment: %w", err)
		}

	default:
		matches = tr.greedyIoUMatch(objects)
	}

	for _, m := range matches {
		track := tr.tracks[m[0]]
		obj := objects[m[1]]

		if err := track.match(obj); err != nil {
			return nil, fmt.Errorf("error updating track, iou pass: %w", err)
		}

		if hist, ok := NewHistogram(frame, obj.Rect); ok {
			track.SetAppearance(hist)
		}

		trackAssigned[m[0]] = true
		detAssigned[m[1]] = true
	}

	// Step 3: second association using appearance, spawn the rest
	for di, obj := range objects {

		if detAssigned[di] {
			continue
		}

		var hist *Histogram

		if frame != nil {
			var ok bool

			if hist, ok = NewHistogram(frame, obj.Rect); !ok {
				// object lies outside the frame, drop it
				continue
			}

			best, score := tr.bestAppearanceMatch(hist, trackAssigned)

			if best >= 0 && score > tr.appearanceThreshold {
				track := tr.tracks[best]

				if err := track.match(obj); err != nil {
					return nil, fmt.Errorf("error updating track, appearance pass: %w", err)
				}

				track.SetAppearance(hist)
				trackAssigned[best] = true
				detAssigned[di] = true

				continue
			}
		}

		track := NewTrack(tr.ids.GetNext(), obj)
		track.SetAppearance(hist)

		// a spawned track stays open to re-identification by the remaining
		// objects of this frame
		tr.tracks = append(tr.tracks, track)
		trackAssigned = append(trackAssigned, false)
		detAssigned[di] = true
	}

	// Step 4: age unmatched tracks and evict those lost for too long, tracks
	// spawned this frame have not missed anything yet
	live := make([]*Track, 0, len(tr.tracks))

	for ti, track := range tr.tracks {

		if ti < existing && !trackAssigned[ti] {
			track.MarkAsLost()
		}

		if tr.maxAge > 0 && track.GetMisses() > tr.maxAge {
			track.MarkAsRemoved()
			tr.removed = append(tr.removed, track)
			continue
		}

		live = append(live, track)
	}

	tr.tracks = live

	return tr.Tracks(), nil
}

// greedyIoUMatch walks objects in input order, each claims the unassigned
// track it overlaps most, provided the IoU exceeds the threshold.  Ties go
// to the oldest track.  Returns pairs of [track index, object index].
func (tr *Tracker) greedyIoUMatch(objects []Object) [][2]int {

	var matches [][2]int
	assigned := make([]bool, len(tr.tracks))

	for di, obj := range objects {

		best := -1
		bestIoU := float64(0)

		for ti, track := range tr.tracks {

			if assigned[ti] {
				continue
			}

			iou := track.GetBBox().Rect().CalcIoU(obj.Rect)

			if iou > bestIoU && iou > tr.iouThreshold {
				bestIoU = iou
				best = ti
			}
		}

		if best >= 0 {
			assigned[best] = true
			matches = append(matches, [2]int{best, di})
		}
	}

	return matches
}

// optimalIoUMatch solves the track to object assignment minimising the total
// IoU distance, pairs not exceeding the IoU threshold are discarded
func (tr *Tracker) optimalIoUMatch(objects []Object) ([][2]int, error) {

	if len(tr.tracks) == 0 || len(objects) == 0 {
		return nil, nil
	}

	ious := tr.calcIous(objects)
	cost := make([][]float64, len(ious))

	for i, row := range ious {
		cost[i] = make([]float64, len(row))

		for j, iou := range row {
			cost[i][j] = 1 - iou
		}
	}

	rowsol, _, err := solveAssignment(cost, 1-tr.iouThreshold)

	if err != nil {
		return nil, err
	}

	var matches [][2]int

	for ti, di := range rowsol {
		if di >= 0 && ious[ti][di] > tr.iouThreshold {
			matches = append(matches, [2]int{ti, di})
		}
	}

	return matches, nil
}

// calcIous calculates the IoU between every track and object
func (tr *Tracker) calcIous(objects []Object) [][]float64 {

	ious := make([][]float64, len(tr.tracks))

	for ti, track := range tr.tracks {
		ious[ti] = make([]float64, len(objects))
		rect := track.GetBBox().Rect()

		for di, obj := range objects {
			ious[ti][di] = rect.CalcIoU(obj.Rect)
		}
	}

	return ious
}

// bestAppearanceMatch returns the index and score of the unassigned track
// whose appearance correlates highest with hist, or -1 if no track scores
// above zero
func (tr *Tracker) bestAppearanceMatch(hist *Histogram,
	trackAssigned []bool) (int, float64) {

	best := -1
	bestScore := float64(0)

	for ti, track := range tr.tracks {

		if trackAssigned[ti] || track.Appearance() == nil {
			continue
		}

		score := Compare(hist, track.Appearance())

		if score > bestScore {
			bestScore = score
			best = ti
		}
	}

	return best, bestScore
}
