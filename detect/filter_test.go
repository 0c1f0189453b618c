package detect

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassFilter(t *testing.T) {

	src := []Detection{
		{X: 1, Width: 5, Height: 5, Class: 0},
		{X: 2, Width: 5, Height: 5, Class: 2},
		{X: 3, Width: 5, Height: 5, Class: 1},
	}

	inner := DetectorFunc(func(int, image.Image) ([]Detection, error) {
		return src, nil
	})

	dets, err := NewClassFilter(inner, 0, 1).Detect(0, nil)
	require.NoError(t, err)

	require.Len(t, dets, 2)
	assert.Equal(t, float64(1), dets[0].X)
	assert.Equal(t, float64(3), dets[1].X)

	// source slice left untouched
	assert.Equal(t, 2, src[1].Class)

	boom := errors.New("boom")
	failing := DetectorFunc(func(int, image.Image) ([]Detection, error) {
		return nil, boom
	})

	_, err = NewClassFilter(failing, 0).Detect(0, nil)
	assert.ErrorIs(t, err, boom)
}

func TestParseClassNames(t *testing.T) {

	labels := []string{"person", "bicycle", "car"}

	classes, err := ParseClassNames(labels, "car, person,")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0}, classes)

	_, err = ParseClassNames(labels, "truck")
	assert.ErrorContains(t, err, "truck")
}
