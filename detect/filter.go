package detect

import (
	"image"
	"strings"

	"github.com/pkg/errors"
)

// ClassFilter wraps a Detector keeping only detections of the given classes
type ClassFilter struct {
	detector Detector
	classes  map[int]bool
}

// NewClassFilter returns a detector passing through only the listed classes
func NewClassFilter(d Detector, classes ...int) *ClassFilter {

	f := &ClassFilter{
		detector: d,
		classes:  make(map[int]bool, len(classes)),
	}

	for _, c := range classes {
		f.classes[c] = true
	}

	return f
}

// ParseClassNames resolves a comma delimited list of label names, eg:
// "person,car", to their class numbers
func ParseClassNames(labels []string, names string) ([]int, error) {

	var classes []int

	for _, name := range strings.Split(names, ",") {

		name = strings.TrimSpace(name)

		if name == "" {
			continue
		}

		found := false

		for class, label := range labels {
			if label == name {
				classes = append(classes, class)
				found = true
				break
			}
		}

		if !found {
			return nil, errors.Errorf("unknown label %q", name)
		}
	}

	return classes, nil
}

// Detect runs the wrapped detector and drops detections of other classes
func (f *ClassFilter) Detect(frameNum int, img image.Image) ([]Detection, error) {

	dets, err := f.detector.Detect(frameNum, img)

	if err != nil {
		return nil, err
	}

	keep := dets[:0:0]

	for _, d := range dets {
		if f.classes[d.Class] {
			keep = append(keep, d)
		}
	}

	return keep, nil
}
