package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/htmlgrade/internal/grader"
)

// FileName is the database file created inside the data directory.
const FileName = "htmlgrade.db"

// HistoryDB provides SQLite-based storage for grading runs.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a new file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		html_file TEXT NOT NULL,
		checks_file TEXT NOT NULL,
		doc_digest TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		result_json TEXT NOT NULL,
		passed INTEGER NOT NULL,
		total INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_html ON runs(html_file);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// Run is a stored grading run.
type Run struct {
	RunMetadata

	// Result is the evaluated selector map in its original key order.
	Result *grader.Result
}

// RunMetadata summarizes a run without its result.
type RunMetadata struct {
	ID         int64
	HTMLFile   string
	ChecksFile string
	DocDigest  string
	Timestamp  time.Time
	Passed     int
	Total      int
}

// SaveRun stores run and returns its ID. ID, Timestamp, Passed and Total
// are filled in by the database and the result.
func (hdb *HistoryDB) SaveRun(ctx context.Context, run *Run) (int64, error) {
	if run.Result == nil {
		return 0, errors.New("run has no result")
	}

	resultJSON, err := json.Marshal(run.Result)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize result: %w", err)
	}

	query := `
	INSERT INTO runs (html_file, checks_file, doc_digest, result_json, passed, total)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	res, err := hdb.db.ExecContext(ctx, query,
		run.HTMLFile,
		run.ChecksFile,
		run.DocDigest,
		string(resultJSON),
		run.Result.Passed(),
		run.Result.Len(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}
	run.ID = id
	run.Passed = run.Result.Passed()
	run.Total = run.Result.Len()

	return id, nil
}

// ListRuns returns run metadata, newest first. An empty htmlFile lists all
// runs; limit <= 0 means no limit.
func (hdb *HistoryDB) ListRuns(ctx context.Context, htmlFile string, limit int) ([]RunMetadata, error) {
	query := `
	SELECT id, html_file, checks_file, doc_digest, timestamp, passed, total
	FROM runs
	WHERE (? = '' OR html_file = ?)
	ORDER BY timestamp DESC, id DESC
	LIMIT ?
	`
	if limit <= 0 {
		limit = -1
	}

	rows, err := hdb.db.QueryContext(ctx, query, htmlFile, htmlFile, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	results := make([]RunMetadata, 0)
	for rows.Next() {
		var meta RunMetadata
		var timestamp string
		if err := rows.Scan(
			&meta.ID,
			&meta.HTMLFile,
			&meta.ChecksFile,
			&meta.DocDigest,
			&timestamp,
			&meta.Passed,
			&meta.Total,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		meta.Timestamp = parseTimestamp(timestamp)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetRun retrieves a run by ID. It returns nil, nil when no run has that ID.
func (hdb *HistoryDB) GetRun(ctx context.Context, id int64) (*Run, error) {
	query := `
	SELECT id, html_file, checks_file, doc_digest, timestamp, passed, total, result_json
	FROM runs
	WHERE id = ?
	`

	var run Run
	var timestamp, resultJSON string
	err := hdb.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID,
		&run.HTMLFile,
		&run.ChecksFile,
		&run.DocDigest,
		&timestamp,
		&run.Passed,
		&run.Total,
		&resultJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	run.Timestamp = parseTimestamp(timestamp)

	run.Result = grader.NewResult()
	if err := json.Unmarshal([]byte(resultJSON), run.Result); err != nil {
		return nil, fmt.Errorf("failed to parse result: %w", err)
	}

	return &run, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp tries each known format and returns zero time if none match.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
