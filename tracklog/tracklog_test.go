package tracklog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swdee/go-reidtrack/tracker"
)

// runTracker feeds frames of objects through a tracker without appearance
// and returns the live tracks after each frame
func runTracker(t *testing.T, frames [][]tracker.Object) [][]*tracker.Track {
	t.Helper()

	tr := tracker.DefaultTracker()
	out := make([][]*tracker.Track, 0, len(frames))

	for _, objs := range frames {
		tracks, err := tr.Update(objs, nil)
		require.NoError(t, err)
		out = append(out, tracks)
	}

	return out
}

var sampleFrames = [][]tracker.Object{
	{tracker.NewObject(tracker.NewRect(10, 10, 20, 20), 0, 0.9, 1)},
	{
		tracker.NewObject(tracker.NewRect(12, 11, 20, 20), 0, 0.9, 2),
		tracker.NewObject(tracker.NewRect(200, 100, 30, 50), 0, 0.8, 3),
	},
	nil,
}

var sampleRows = []Row{
	{Frame: 0, ID: 0, X: 10, Y: 10, W: 20, H: 20},
	{Frame: 1, ID: 0, X: 11, Y: 10, W: 20, H: 20},
	{Frame: 1, ID: 1, X: 200, Y: 100, W: 30, H: 50},
	{Frame: 2, ID: 0, X: 12, Y: 11, W: 20, H: 20},
	{Frame: 2, ID: 1, X: 200, Y: 100, W: 30, H: 50},
}

func TestCSVLog(t *testing.T) {

	var buf bytes.Buffer

	l, err := NewCSVLog(&buf)
	require.NoError(t, err)

	for i, tracks := range runTracker(t, sampleFrames) {
		require.NoError(t, l.Write(i, nil, tracks))
	}

	require.NoError(t, l.Close())

	assert.True(t, strings.HasPrefix(buf.String(), "frame,id,x,y,w,h\n0,0,10,10,20,20\n"))

	rows, err := ReadCSV(&buf)
	require.NoError(t, err)

	if diff := cmp.Diff(sampleRows, rows); diff != "" {
		t.Errorf("csv rows mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateCSVLog(t *testing.T) {

	path := filepath.Join(t.TempDir(), "track_log.csv")

	l, err := CreateCSVLog(path)
	require.NoError(t, err)

	tracks := runTracker(t, sampleFrames[:1])
	require.NoError(t, l.Write(0, nil, tracks[0]))
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "frame,id,x,y,w,h\n0,0,10,10,20,20\n", string(data))
}

func TestReadCSVErrors(t *testing.T) {

	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("frame,id,x,y,w,h\n1,2,3\n"))
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("frame,id,x,y,w,h\n1,2,3,4,5,six\n"))
	assert.ErrorContains(t, err, "column h")
}

func TestSQLiteLog(t *testing.T) {

	path := filepath.Join(t.TempDir(), "tracks.db")

	l, err := CreateSQLiteLog(path, "input.mp4", `{"iou_threshold":0.3}`)
	require.NoError(t, err)
	require.NotEmpty(t, l.RunID())

	for i, tracks := range runTracker(t, sampleFrames) {
		require.NoError(t, l.Write(i, nil, tracks))
	}

	// empty frames insert nothing
	require.NoError(t, l.Write(99, nil, nil))
	require.NoError(t, l.Close())

	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	runs, err := ListRuns(db)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, l.RunID(), runs[0].RunID)
	assert.Equal(t, "input.mp4", runs[0].Source)
	assert.Equal(t, `{"iou_threshold":0.3}`, runs[0].ParamsJSON)

	rows, err := ListRows(db, l.RunID())
	require.NoError(t, err)

	if diff := cmp.Diff(sampleRows, rows); diff != "" {
		t.Errorf("sqlite rows mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteLogSeparateRuns(t *testing.T) {

	db, err := OpenDB(filepath.Join(t.TempDir(), "tracks.db"))
	require.NoError(t, err)
	defer db.Close()

	first, err := NewSQLiteLog(db, "a.mp4", "")
	require.NoError(t, err)
	second, err := NewSQLiteLog(db, "b.mp4", "")
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID(), second.RunID())

	tracks := runTracker(t, sampleFrames[:1])
	require.NoError(t, first.Write(0, nil, tracks[0]))
	require.NoError(t, second.Write(0, nil, tracks[0]))

	// the same frame and track id may appear once per run
	assert.Error(t, first.Write(0, nil, tracks[0]))

	// closing a log on a shared database leaves it open
	require.NoError(t, first.Close())

	rows, err := ListRows(db, second.RunID())
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	runs, err := ListRuns(db)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Empty(t, runs[0].ParamsJSON)
}

func TestDSN(t *testing.T) {

	assert.Equal(t, "tracks.db?"+dsnPragmas, dsn("tracks.db"))
	assert.Equal(t, "file:tracks.db?mode=rwc&"+dsnPragmas, dsn("file:tracks.db?mode=rwc"))
}

func TestOpenDBWithQuery(t *testing.T) {

	path := filepath.Join(t.TempDir(), "tracks.db")

	db, err := OpenDB("file:" + path + "?mode=rwc")
	require.NoError(t, err)
	defer db.Close()

	l, err := NewSQLiteLog(db, "input.mp4", "")
	require.NoError(t, err)

	tracks := runTracker(t, sampleFrames[:1])
	require.NoError(t, l.Write(0, nil, tracks[0]))

	rows, err := ListRows(db, l.RunID())
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	// foreign keys are enforced on the pooled connection
	_, err = db.Exec(`INSERT INTO track_rows (run_id, frame, track_id, x, y, w, h)
		VALUES ('no-such-run', 0, 0, 0, 0, 1, 1)`)
	assert.Error(t, err)
}
