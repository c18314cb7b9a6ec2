package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"jobscout/internal/model"
)

// SQLiteStore persists scored jobs in a SQLite database keyed by external ID.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the jobs table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	// Surrogate integer key: external_id is unique when present, but ID-less
	// sources (careers pages, bare feeds) must still store distinct rows, so
	// empty external IDs are persisted as NULL and never collide.
	createTable := `CREATE TABLE IF NOT EXISTS jobs (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		external_id     TEXT UNIQUE,
		source          TEXT NOT NULL,
		title           TEXT NOT NULL,
		company         TEXT,
		location        TEXT,
		description     TEXT,
		url             TEXT,
		job_type        TEXT,
		salary_min      INTEGER,
		salary_max      INTEGER,
		posted_date     DATETIME,
		discovered_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
		match_score     REAL,
		match_reasoning TEXT,
		location_score  INTEGER,
		status          TEXT NOT NULL DEFAULT 'new'
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating jobs table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// ExistingExternalIDs returns the set of external IDs already recorded.
// Rows stored without one are invisible to the ingestion gate.
func (s *SQLiteStore) ExistingExternalIDs() (map[string]struct{}, error) {
	rows, err := s.db.Query("SELECT external_id FROM jobs WHERE external_id IS NOT NULL")
	if err != nil {
		return nil, fmt.Errorf("listing external IDs: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning external ID: %w", err)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing external IDs: %w", err)
	}
	return ids, nil
}

// UpsertJobs inserts jobs, ignoring any whose external ID already exists.
// The first write wins: re-running a poll never mutates stored rows.
func (s *SQLiteStore) UpsertJobs(jobs []model.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO jobs (
		external_id, source, title, company, location, description, url,
		job_type, salary_min, salary_max, posted_date, discovered_at,
		match_score, match_reasoning, location_score, status
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(external_id) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, j := range jobs {
		discovered := j.DiscoveredAt
		if discovered.IsZero() {
			discovered = time.Now().UTC()
		}
		status := j.Status
		if status == "" {
			status = model.StatusNew
		}
		var externalID any
		if j.ExternalID != "" {
			externalID = j.ExternalID
		}
		_, err := stmt.Exec(
			externalID, j.Source, j.Title, j.Company, j.Location,
			j.Description, j.URL, j.JobType, j.SalaryMin, j.SalaryMax,
			j.PostedDate, discovered, j.MatchScore, j.MatchReasoning,
			j.LocationScore, string(status),
		)
		if err != nil {
			return fmt.Errorf("upserting job %s: %w", j.ExternalID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing upsert: %w", err)
	}
	return nil
}

// ListRanked returns stored jobs ordered by location score then match score,
// both descending. A limit of zero returns everything.
func (s *SQLiteStore) ListRanked(limit int) ([]model.Job, error) {
	query := `SELECT external_id, source, title, company, location, description,
		url, job_type, salary_min, salary_max, posted_date, discovered_at,
		match_score, match_reasoning, location_score, status
	FROM jobs ORDER BY location_score DESC, match_score DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		var j model.Job
		var externalID sql.NullString
		var status string
		err := rows.Scan(
			&externalID, &j.Source, &j.Title, &j.Company, &j.Location,
			&j.Description, &j.URL, &j.JobType, &j.SalaryMin, &j.SalaryMax,
			&j.PostedDate, &j.DiscoveredAt, &j.MatchScore, &j.MatchReasoning,
			&j.LocationScore, &status,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		j.ExternalID = externalID.String
		j.Status = model.Status(status)
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	return jobs, nil
}

// UpdateStatus sets the review status for one job.
func (s *SQLiteStore) UpdateStatus(externalID string, status model.Status) error {
	res, err := s.db.Exec("UPDATE jobs SET status = ? WHERE external_id = ?", string(status), externalID)
	if err != nil {
		return fmt.Errorf("updating status for %s: %w", externalID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating status for %s: %w", externalID, err)
	}
	if n == 0 {
		return fmt.Errorf("no job with external ID %s", externalID)
	}
	return nil
}

// StatusCounts returns how many stored jobs are in each status.
func (s *SQLiteStore) StatusCounts() (map[model.Status]int, error) {
	rows, err := s.db.Query("SELECT status, COUNT(*) FROM jobs GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("counting statuses: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning status count: %w", err)
		}
		counts[model.Status(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("counting statuses: %w", err)
	}
	return counts, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
