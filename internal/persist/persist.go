// Package persist optionally records a run's final counters to a SQLite
// database, grounded on tracing/sqlite.go's writer (create table, prepared
// statement, flush-on-exit via atexit, xid-generated identifiers) but scoped
// to one row per run instead of a buffered event stream, since a simulation
// run produces one result, not a trace of events.
package persist

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/archsim/cachesim/cache"
)

// RunResult is the row persisted for one simulation run.
type RunResult struct {
	RunID             string
	BlockSize         int
	L1Size, L1Assoc   int
	L2Size, L2Assoc   int
	L1Stats, L2Stats  cache.Counters
	TotalMemoryTraffic uint64
}

// Recorder writes RunResults to a SQLite database. Opening one registers an
// atexit flush so a run recorded right before a fatal error is still
// written, matching NewSQLiteTraceWriter's flush-on-exit guarantee.
type Recorder struct {
	db   *sql.DB
	stmt *sql.Stmt
}

// Open creates (or reuses) the SQLite database at path and prepares the
// runs table and insert statement.
func Open(path string) (*Recorder, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("persist: opening %s: %w", path, err)
	}

	r := &Recorder{db: db}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id       TEXT PRIMARY KEY,
			block_size   INTEGER,
			l1_size      INTEGER,
			l1_assoc     INTEGER,
			l2_size      INTEGER,
			l2_assoc     INTEGER,
			l1_reads     INTEGER,
			l1_read_misses INTEGER,
			l1_writes    INTEGER,
			l1_write_misses INTEGER,
			l1_writebacks INTEGER,
			l2_reads     INTEGER,
			l2_read_misses INTEGER,
			l2_writes    INTEGER,
			l2_write_misses INTEGER,
			l2_writebacks INTEGER,
			total_memory_traffic INTEGER
		);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("persist: creating runs table: %w", err)
	}

	stmt, err := db.Prepare(`
		INSERT INTO runs VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("persist: preparing insert: %w", err)
	}
	r.stmt = stmt

	atexit.Register(func() { r.Close() })

	return r, nil
}

// NewRunID generates a fresh, sortable run identifier.
func NewRunID() string {
	return xid.New().String()
}

// Record writes one RunResult. It assigns RunID via NewRunID if res.RunID
// is empty.
func (r *Recorder) Record(res RunResult) error {
	if res.RunID == "" {
		res.RunID = NewRunID()
	}

	_, err := r.stmt.Exec(
		res.RunID,
		res.BlockSize,
		res.L1Size, res.L1Assoc,
		res.L2Size, res.L2Assoc,
		res.L1Stats.Reads, res.L1Stats.ReadMisses, res.L1Stats.Writes, res.L1Stats.WriteMisses, res.L1Stats.Writebacks,
		res.L2Stats.Reads, res.L2Stats.ReadMisses, res.L2Stats.Writes, res.L2Stats.WriteMisses, res.L2Stats.Writebacks,
		res.TotalMemoryTraffic,
	)
	if err != nil {
		return fmt.Errorf("persist: recording run %s: %w", res.RunID, err)
	}
	return nil
}

// Close releases the prepared statement and database handle. Safe to call
// more than once (e.g. once explicitly and once via the atexit hook).
func (r *Recorder) Close() {
	if r.stmt != nil {
		r.stmt.Close()
		r.stmt = nil
	}
	if r.db != nil {
		r.db.Close()
		r.db = nil
	}
}
