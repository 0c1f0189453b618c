/*
go-reidtrack maintains persistent identities for objects observed across the
frames of a video.  Each frame's detections are associated to existing tracks
by bounding box overlap against a Kalman filter prediction, unmatched
detections are re-identified against lost tracks by a color histogram of
their appearance and anything left over starts a new track.

The tracker itself lives in the tracker subpackage and is driven one frame at
a time.  This package provides a Pipeline that pulls frames from a source,
runs a detector over them, updates the tracker and hands the live tracks to
any number of sinks such as the CSV and SQLite logs in tracklog or the
annotated video writer in video.

See cmd/reidtrack for a command line program wiring these together.
*/
package reidtrack
