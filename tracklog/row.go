// Package tracklog records the per frame track boxes produced by the tracker,
// one row per live track with columns frame, id, x, y, w, h.
package tracklog

import (
	"github.com/swdee/go-reidtrack/tracker"
)

// Row is a single logged track box
type Row struct {
	Frame int
	ID    int
	X     int
	Y     int
	W     int
	H     int
}

// RowsFromTracks converts the live tracks of a frame into log rows
func RowsFromTracks(frameNum int, tracks []*tracker.Track) []Row {

	rows := make([]Row, 0, len(tracks))

	for _, t := range tracks {
		b := t.GetBBox()
		rows = append(rows, Row{
			Frame: frameNum,
			ID:    t.GetTrackID(),
			X:     b.X,
			Y:     b.Y,
			W:     b.Width,
			H:     b.Height,
		})
	}

	return rows
}
