// Package runlog keeps a local archive of pipeline runs in SQLite. The JSON
// status artifact only ever holds the latest run; the archive preserves the
// full history for the dashboard endpoints.
package runlog

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/ainewslab/autopress/app/publisher"
)

// RunRecord is one archived pipeline run.
type RunRecord struct {
	ID          int64  `json:"id"`
	RanAt       string `json:"ranAt"`
	Generated   bool   `json:"generated"`
	Reason      string `json:"reason,omitempty"`
	CandidateID string `json:"candidateId,omitempty"`
	TopicKey    string `json:"topicKey,omitempty"`
	DraftURL    string `json:"draftUrl,omitempty"`
	AddedPost   bool   `json:"addedPost"`
	TotalPosts  int    `json:"totalPosts"`
}

// Archive handles database operations for the run archive
type Archive struct {
	db *sql.DB
}

// Open opens (or creates) the archive database at path and applies pending
// migrations.
func Open(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open run archive: %w", err)
	}

	// modernc sqlite serializes writes itself; a single connection avoids
	// SQLITE_BUSY on concurrent scheduler and dashboard access.
	db.SetMaxOpenConns(1)

	version, dirty, err := runMigrations(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	slog.Debug("Run archive ready", "path", path, "schema_version", version, "dirty", dirty)

	return &Archive{db: db}, nil
}

func (a *Archive) Close() error {
	return a.db.Close()
}

// RecordRun archives the outcome of one pipeline invocation.
func (a *Archive) RecordRun(status *publisher.Status) error {
	if status == nil {
		return fmt.Errorf("cannot archive a nil run status")
	}

	var generated bool
	var reason, candidateID, topicKey, draftURL string
	if status.Generator != nil {
		generated = status.Generator.Generated
		reason = status.Generator.Reason
		candidateID = status.Generator.CandidateID
		topicKey = status.Generator.TopicKey
		draftURL = status.Generator.DraftURL
	}

	_, err := a.db.Exec(`
		INSERT INTO runs (
			ran_at, generated, reason, candidate_id, topic_key,
			draft_url, added_post, total_posts
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, status.LastRun, generated, reason, candidateID, topicKey,
		draftURL, status.Publisher.AddedPost, status.Publisher.TotalPosts)

	if err != nil {
		return fmt.Errorf("failed to archive run: %w", err)
	}

	return nil
}

// RecentRuns returns the most recent archived runs, newest first.
func (a *Archive) RecentRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := a.db.Query(`
		SELECT id, ran_at, generated, reason, candidate_id, topic_key,
		       draft_url, added_post, total_posts
		FROM runs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		err := rows.Scan(
			&r.ID, &r.RanAt, &r.Generated, &r.Reason, &r.CandidateID,
			&r.TopicKey, &r.DraftURL, &r.AddedPost, &r.TotalPosts,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run rows: %w", err)
	}

	return records, nil
}

// RunCount returns the total number of archived runs.
func (a *Archive) RunCount() (int, error) {
	var count int
	err := a.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return count, nil
}
