package tracker

import "github.com/swdee/go-reidtrack/detect"

// DetectionsToObjects takes detector results and converts them into tracker
// objects
func DetectionsToObjects(dets []detect.Detection) []Object {

	objs := make([]Object, 0, len(dets))

	for _, det := range dets {
		objs = append(objs, Object{
			Rect:  NewRect(det.X, det.Y, det.Width, det.Height),
			Label: det.Class,
			Prob:  det.Probability,
			ID:    det.ID,
		})
	}

	return objs
}
