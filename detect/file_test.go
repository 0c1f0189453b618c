package detect

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const motSample = `# frame,id,x,y,w,h,conf,x,y,z
1,-1,10,10,20,20,0.9,-1,-1,-1
1,-1,100.5,40.25,30,60,0.35,-1,-1,-1

3,-1,12,11,20,20,0.95,-1,-1,-1
`

func TestReadDetections(t *testing.T) {

	fd, err := ReadDetections(strings.NewReader(motSample), DefaultFileOptions())
	require.NoError(t, err)

	assert.Equal(t, 3, fd.Count())
	assert.Equal(t, 2, fd.LastFrame())

	dets, err := fd.Detect(0, nil)
	require.NoError(t, err)
	require.Len(t, dets, 2)

	assert.Equal(t, Detection{X: 10, Y: 10, Width: 20, Height: 20, Probability: 0.9, ID: 2}, dets[0])
	assert.Equal(t, Detection{X: 100.5, Y: 40.25, Width: 30, Height: 60, Probability: 0.35, ID: 3}, dets[1])

	dets, err = fd.Detect(1, nil)
	require.NoError(t, err)
	assert.Empty(t, dets)

	dets, err = fd.Detect(2, nil)
	require.NoError(t, err)
	require.Len(t, dets, 1)
	assert.Equal(t, int64(5), dets[0].ID)
}

func TestReadDetectionsMinConfidence(t *testing.T) {

	opts := DefaultFileOptions()
	opts.MinConfidence = 0.5

	fd, err := ReadDetections(strings.NewReader(motSample), opts)
	require.NoError(t, err)

	assert.Equal(t, 2, fd.Count())

	dets, err := fd.Detect(0, nil)
	require.NoError(t, err)
	assert.Len(t, dets, 1)
}

func TestReadDetectionsClassColumn(t *testing.T) {

	opts := DefaultFileOptions()
	opts.ClassColumn = 7

	fd, err := ReadDetections(strings.NewReader("1,-1,1,2,3,4,0.5,2\n"), opts)
	require.NoError(t, err)

	dets, err := fd.Detect(0, nil)
	require.NoError(t, err)
	require.Len(t, dets, 1)
	assert.Equal(t, 2, dets[0].Class)

	_, err = ReadDetections(strings.NewReader("1,-1,1,2,3,4,0.5\n"), opts)
	assert.ErrorContains(t, err, "missing class column")
}

func TestReadDetectionsErrors(t *testing.T) {

	tests := []struct {
		name string
		data string
		msg  string
	}{
		{"short row", "1,-1,10,10,20\n", "expected at least 7 columns"},
		{"bad number", "1,-1,10,abc,20,20,0.9\n", "column 4"},
		{"zero frame", "0,-1,10,10,20,20,0.9\n", "frame numbers start at 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadDetections(strings.NewReader(tc.data), DefaultFileOptions())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 1")
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestReadDetectionsSkipsDegenerate(t *testing.T) {

	data := "1,-1,10,10,0,20,0.9\n" +
		"1,-1,10,10,20,20,0.9\n" +
		"2,-1,5,5,20,-3,0.8\n" +
		"2,-1,5,5,20,20,0.8\n"

	fd, err := ReadDetections(strings.NewReader(data), DefaultFileOptions())
	require.NoError(t, err)

	assert.Equal(t, 2, fd.Skipped())
	assert.Equal(t, 2, fd.Count())
	assert.Equal(t, 1, fd.LastFrame())

	dets, err := fd.Detect(0, nil)
	require.NoError(t, err)
	require.Len(t, dets, 1)
	assert.Equal(t, int64(2), dets[0].ID)
}

func TestNewFileDetector(t *testing.T) {

	path := filepath.Join(t.TempDir(), "det.txt")
	require.NoError(t, os.WriteFile(path, []byte(motSample), 0o644))

	fd, err := NewFileDetector(path, DefaultFileOptions())
	require.NoError(t, err)
	assert.Equal(t, 3, fd.Count())

	_, err = NewFileDetector(filepath.Join(t.TempDir(), "missing.txt"), DefaultFileOptions())
	assert.Error(t, err)
}

func TestDetectReturnsCopy(t *testing.T) {

	fd, err := ReadDetections(strings.NewReader(motSample), DefaultFileOptions())
	require.NoError(t, err)

	dets, _ := fd.Detect(0, nil)
	dets[0].X = 999

	again, _ := fd.Detect(0, nil)
	assert.Equal(t, float64(10), again[0].X)
}

func TestLoadLabels(t *testing.T) {

	path := filepath.Join(t.TempDir(), "labels.txt")
	require.NoError(t, os.WriteFile(path, []byte("person\n bicycle \ncar\n"), 0o644))

	labels, err := LoadLabels(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"person", "bicycle", "car"}, labels)

	assert.Equal(t, "car", LabelName(labels, 2))
	assert.Equal(t, "class7", LabelName(labels, 7))
	assert.Equal(t, "class-1", LabelName(labels, -1))
}
