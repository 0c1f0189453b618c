package tracklog

import (
	"database/sql"
	_ "embed"
	"fmt"
	"image"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/swdee/go-reidtrack/tracker"
	_ "modernc.org/sqlite"
)

// schemaSQL creates the tables holding tracking runs and their track rows
//
//go:embed schema.sql
var schemaSQL string

// Run describes one tracking session recorded in the database
type Run struct {
	RunID      string
	Source     string
	StartedAt  time.Time
	ParamsJSON string
}

// SQLiteLog records track rows into a SQLite database, each log instance
// writes under its own run id
type SQLiteLog struct {
	db    *sql.DB
	runID string
	// owned is set when the log opened the database and must close it
	owned bool
}

// dsnPragmas are applied by the driver to every pooled connection
const dsnPragmas = "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

// dsn appends the connection pragmas to path, which may already carry query
// parameters such as file:tracks.db?mode=rwc
func dsn(path string) string {

	if strings.Contains(path, "?") {
		return path + "&" + dsnPragmas
	}

	return path + "?" + dsnPragmas
}

// OpenDB opens the SQLite database at path and applies the schema
func OpenDB(path string) (*sql.DB, error) {

	db, err := sql.Open("sqlite", dsn(path))

	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return db, nil
}

// CreateSQLiteLog opens the database file and starts a new run for source
func CreateSQLiteLog(path, source, paramsJSON string) (*SQLiteLog, error) {

	db, err := OpenDB(path)

	if err != nil {
		return nil, err
	}

	l, err := NewSQLiteLog(db, source, paramsJSON)

	if err != nil {
		db.Close()
		return nil, err
	}

	l.owned = true

	log.Printf("recording tracks to %s under run %s", path, l.runID)

	return l, nil
}

// NewSQLiteLog starts a new run in an already opened database
func NewSQLiteLog(db *sql.DB, source, paramsJSON string) (*SQLiteLog, error) {

	runID := uuid.New().String()

	_, err := db.Exec(`
		INSERT INTO tracking_runs (run_id, source, started_at, params_json)
		VALUES (?, ?, ?, ?)
	`, runID, source, time.Now().UnixNano(), nullString(paramsJSON))

	if err != nil {
		return nil, fmt.Errorf("insert tracking run: %w", err)
	}

	return &SQLiteLog{db: db, runID: runID}, nil
}

// RunID returns the id rows are recorded under
func (l *SQLiteLog) RunID() string {
	return l.runID
}

// Write inserts one row per track for the frame in a single transaction
func (l *SQLiteLog) Write(frameNum int, _ image.Image, tracks []*tracker.Track) error {

	rows := RowsFromTracks(frameNum, tracks)

	if len(rows) == 0 {
		return nil
	}

	tx, err := l.db.Begin()

	if err != nil {
		return fmt.Errorf("begin track rows: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO track_rows (run_id, frame, track_id, x, y, w, h)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)

	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare track rows: %w", err)
	}

	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.Exec(l.runID, r.Frame, r.ID, r.X, r.Y, r.W, r.H); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert track row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit track rows: %w", err)
	}

	return nil
}

// Close closes the database if the log opened it
func (l *SQLiteLog) Close() error {

	if l.owned {
		return l.db.Close()
	}

	return nil
}

// ListRuns returns all recorded runs, oldest first
func ListRuns(db *sql.DB) ([]Run, error) {

	rows, err := db.Query(`
		SELECT run_id, source, started_at, params_json
		FROM tracking_runs
		ORDER BY started_at
	`)

	if err != nil {
		return nil, fmt.Errorf("list tracking runs: %w", err)
	}

	defer rows.Close()

	var runs []Run

	for rows.Next() {
		var r Run
		var startedAt int64
		var params sql.NullString

		if err := rows.Scan(&r.RunID, &r.Source, &startedAt, &params); err != nil {
			return nil, fmt.Errorf("scan tracking run: %w", err)
		}

		r.StartedAt = time.Unix(0, startedAt)

		if params.Valid {
			r.ParamsJSON = params.String
		}

		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// ListRows returns the track rows of a run ordered by frame then track id
func ListRows(db *sql.DB, runID string) ([]Row, error) {

	rows, err := db.Query(`
		SELECT frame, track_id, x, y, w, h
		FROM track_rows
		WHERE run_id = ?
		ORDER BY frame, track_id
	`, runID)

	if err != nil {
		return nil, fmt.Errorf("list track rows: %w", err)
	}

	defer rows.Close()

	var out []Row

	for rows.Next() {
		var r Row

		if err := rows.Scan(&r.Frame, &r.ID, &r.X, &r.Y, &r.W, &r.H); err != nil {
			return nil, fmt.Errorf("scan track row: %w", err)
		}

		out = append(out, r)
	}

	return out, rows.Err()
}

// nullString maps an empty string to NULL
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
