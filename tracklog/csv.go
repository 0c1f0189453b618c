package tracklog

import (
	"encoding/csv"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"

	"github.com/swdee/go-reidtrack/tracker"
)

// csvHeader is the first row of every CSV track log
var csvHeader = []string{"frame", "id", "x", "y", "w", "h"}

// CSVLog writes track rows as comma separated values
type CSVLog struct {
	w      *csv.Writer
	closer io.Closer
}

// NewCSVLog writes the header and returns a log writing to w
func NewCSVLog(w io.Writer) (*CSVLog, error) {

	l := &CSVLog{
		w: csv.NewWriter(w),
	}

	if err := l.w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("error writing csv header: %w", err)
	}

	return l, nil
}

// CreateCSVLog creates (or truncates) the file and returns a log writing to
// it.  Close flushes and closes the file.
func CreateCSVLog(file string) (*CSVLog, error) {

	f, err := os.Create(file)

	if err != nil {
		return nil, fmt.Errorf("error creating csv log: %w", err)
	}

	l, err := NewCSVLog(f)

	if err != nil {
		f.Close()
		return nil, err
	}

	l.closer = f

	return l, nil
}

// Write appends one row per track for the frame
func (l *CSVLog) Write(frameNum int, _ image.Image, tracks []*tracker.Track) error {

	for _, row := range RowsFromTracks(frameNum, tracks) {
		rec := []string{
			strconv.Itoa(row.Frame),
			strconv.Itoa(row.ID),
			strconv.Itoa(row.X),
			strconv.Itoa(row.Y),
			strconv.Itoa(row.W),
			strconv.Itoa(row.H),
		}

		if err := l.w.Write(rec); err != nil {
			return fmt.Errorf("error writing csv row: %w", err)
		}
	}

	return nil
}

// Close flushes buffered rows and closes the underlying file if the log
// opened it
func (l *CSVLog) Close() error {

	l.w.Flush()
	err := l.w.Error()

	if l.closer != nil {
		if cerr := l.closer.Close(); err == nil {
			err = cerr
		}
	}

	return err
}

// ReadCSV parses a CSV track log
func ReadCSV(r io.Reader) ([]Row, error) {

	records, err := csv.NewReader(r).ReadAll()

	if err != nil {
		return nil, fmt.Errorf("error reading csv log: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("csv log is missing its header")
	}

	rows := make([]Row, 0, len(records)-1)

	for i, rec := range records[1:] {

		if len(rec) != len(csvHeader) {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i+2, len(csvHeader), len(rec))
		}

		vals := make([]int, len(rec))

		for j, s := range rec {
			if vals[j], err = strconv.Atoi(s); err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i+2, csvHeader[j], err)
			}
		}

		rows = append(rows, Row{
			Frame: vals[0], ID: vals[1], X: vals[2], Y: vals[3], W: vals[4], H: vals[5],
		})
	}

	return rows, nil
}
