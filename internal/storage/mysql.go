package storage

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"cts/internal/domain"
)

// HistoryStore keeps a history of finished runs in MySQL. It is optional:
// runs are recorded only when DB_DATABASE is configured (typically via the
// workspace .env).
type HistoryStore struct{}

// RunRow is one stored run with its database id
type RunRow struct {
	ID   int64
	Meta domain.RunMeta
}

// NewHistoryStore creates a new HistoryStore
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

// Configured reports whether a history database is set up
func (h *HistoryStore) Configured() bool {
	return os.Getenv("DB_DATABASE") != ""
}

func (h *HistoryStore) open() (*sql.DB, error) {
	host := os.Getenv("DB_HOST")
	if host == "" {
		host = "127.0.0.1"
	}
	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "3306"
	}
	user := os.Getenv("DB_USERNAME")
	if user == "" {
		user = "root"
	}
	password := os.Getenv("DB_PASSWORD")
	name := os.Getenv("DB_DATABASE")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", user, password, host, port, name)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}
	return db, nil
}

func (h *HistoryStore) ensureSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS cts_runs (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			kind VARCHAR(16) NOT NULL,
			total_tests INT NOT NULL,
			passed_tests INT NOT NULL,
			failed_tests INT NOT NULL,
			duration_seconds DOUBLE NOT NULL,
			workers INT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS cts_results (
			run_id BIGINT NOT NULL,
			test_number INT NOT NULL,
			passed TINYINT(1) NOT NULL,
			time_seconds DOUBLE NOT NULL,
			memory_mb DOUBLE NOT NULL,
			INDEX idx_run (run_id)
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create history schema: %w", err)
		}
	}
	return nil
}

// SaveRun records a finished run and its per-test numbers. Result payload
// texts stay in the JSON store; only the measurements go to the database.
func (h *HistoryStore) SaveRun(output *domain.RunOutput) error {
	db, err := h.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := h.ensureSchema(db); err != nil {
		return err
	}

	createdAt, err := time.Parse(time.RFC3339, output.Meta.Timestamp)
	if err != nil {
		createdAt = time.Now()
	}

	res, err := db.Exec(
		`INSERT INTO cts_runs (kind, total_tests, passed_tests, failed_tests, duration_seconds, workers, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		output.Meta.Kind.String(), output.Meta.TotalTests, output.Meta.PassedTests,
		output.Meta.FailedTests, output.Meta.DurationSeconds, output.Meta.Workers, createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read run id: %w", err)
	}

	stmt, err := db.Prepare(
		`INSERT INTO cts_results (run_id, test_number, passed, time_seconds, memory_mb) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare result insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range output.Results {
		if _, err := stmt.Exec(runID, r.TestNumber, r.Passed, r.TimeSeconds, r.MemoryMB); err != nil {
			return fmt.Errorf("failed to insert result %d: %w", r.TestNumber, err)
		}
	}
	return nil
}

// ListRuns returns the most recent runs, newest first
func (h *HistoryStore) ListRuns(limit int) ([]RunRow, error) {
	db, err := h.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := h.ensureSchema(db); err != nil {
		return nil, err
	}

	rows, err := db.Query(
		`SELECT id, kind, total_tests, passed_tests, failed_tests, duration_seconds, workers, created_at
		 FROM cts_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRow
	for rows.Next() {
		var row RunRow
		var kind string
		var createdAt time.Time
		if err := rows.Scan(&row.ID, &kind, &row.Meta.TotalTests, &row.Meta.PassedTests,
			&row.Meta.FailedTests, &row.Meta.DurationSeconds, &row.Meta.Workers, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		parsed, err := domain.ParseKind(kind)
		if err != nil {
			return nil, err
		}
		row.Meta.Kind = parsed
		row.Meta.Duration = (time.Duration(row.Meta.DurationSeconds * float64(time.Second))).String()
		row.Meta.Timestamp = createdAt.Format(time.RFC3339)
		runs = append(runs, row)
	}
	return runs, rows.Err()
}
