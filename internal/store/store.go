package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"docpulse/internal/errors"
	"docpulse/internal/updates"
)

// timeLayout is fixed-width so the DESC index order matches time order
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// RunStatus labels the outcome of one refresh run
type RunStatus string

const (
	// RunOK means the run completed and stored its result
	RunOK RunStatus = "ok"
	// RunFailed means the run aborted before storing
	RunFailed RunStatus = "failed"
	// RunSkipped means the staleness gate short-circuited the run
	RunSkipped RunStatus = "skipped"
)

// RunRecord is one row of refresh history
type RunRecord struct {
	ID            string
	Feed          string
	StartedAt     time.Time
	FinishedAt    time.Time
	EventsFetched int
	UpdatesStored int
	Status        RunStatus
	Error         string
}

// LoadUpdates returns the stored updates for a feed, newest first.
func (db *DB) LoadUpdates(feed string) ([]updates.Update, error) {
	rows, err := db.conn.Query(`
		SELECT partition_key, row_key, title, category, date, url, summary, impact, commits
		FROM updates WHERE feed = ? ORDER BY date DESC`, feed)
	if err != nil {
		return nil, errors.New(errors.StoreFailed, "failed to query updates", err)
	}
	defer rows.Close()

	var out []updates.Update
	for rows.Next() {
		var u updates.Update
		var date, commits string
		if err := rows.Scan(&u.PartitionKey, &u.RowKey, &u.Title, &u.Category,
			&date, &u.URL, &u.Summary, &u.Impact, &commits); err != nil {
			return nil, errors.New(errors.StoreFailed, "failed to scan update row", err)
		}
		if u.Date, err = time.Parse(timeLayout, date); err != nil {
			return nil, errors.New(errors.StoreFailed, "stored date is unreadable", err)
		}
		if err := json.Unmarshal([]byte(commits), &u.Commits); err != nil {
			return nil, errors.New(errors.StoreFailed, "stored commit list is unreadable", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New(errors.StoreFailed, "failed to iterate updates", err)
	}
	return out, nil
}

// LastFetch returns the recorded last fetch time for a feed, or the zero
// time when the feed has never been fetched.
func (db *DB) LastFetch(feed string) (time.Time, error) {
	var raw string
	err := db.conn.QueryRow(`SELECT last_fetch FROM feed_state WHERE feed = ?`, feed).Scan(&raw)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, errors.New(errors.StoreFailed, "failed to read feed state", err)
	}
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}, errors.New(errors.StoreFailed, "stored fetch time is unreadable", err)
	}
	return t, nil
}

// SaveUpdates transactionally replaces a feed's update list and advances
// its last fetch time. The merged list is written whole so a crashed run
// never leaves a partial mix of old and new rows.
func (db *DB) SaveUpdates(feed string, list []updates.Update, fetchedAt time.Time) error {
	err := db.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM updates WHERE feed = ?`, feed); err != nil {
			return err
		}
		for _, u := range list {
			commits, err := json.Marshal(u.Commits)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(`
				INSERT INTO updates (feed, partition_key, row_key, title, category, date, url, summary, impact, commits)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				feed, u.PartitionKey, u.RowKey, u.Title, u.Category,
				u.Date.UTC().Format(timeLayout), u.URL, u.Summary, u.Impact, string(commits)); err != nil {
				return err
			}
		}
		_, err := tx.Exec(`
			INSERT INTO feed_state (feed, last_fetch) VALUES (?, ?)
			ON CONFLICT(feed) DO UPDATE SET last_fetch = excluded.last_fetch`,
			feed, fetchedAt.UTC().Format(timeLayout))
		return err
	})
	if err != nil {
		return errors.New(errors.StoreFailed, "failed to save updates", err)
	}
	return nil
}

// RecordRun appends one run to the history. A missing ID is generated.
func (db *DB) RecordRun(run RunRecord) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	_, err := db.conn.Exec(`
		INSERT INTO runs (id, feed, started_at, finished_at, events_fetched, updates_stored, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Feed,
		run.StartedAt.UTC().Format(timeLayout),
		run.FinishedAt.UTC().Format(timeLayout),
		run.EventsFetched, run.UpdatesStored, string(run.Status), run.Error)
	if err != nil {
		return errors.New(errors.StoreFailed, "failed to record run", err)
	}
	return nil
}

// RecentRuns returns up to limit run records for a feed, newest first.
// An empty feed returns runs across all feeds.
func (db *DB) RecentRuns(feed string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT id, feed, started_at, finished_at, events_fetched, updates_stored, status, error
		FROM runs`
	args := []interface{}{}
	if feed != "" {
		query += ` WHERE feed = ?`
		args = append(args, feed)
	}
	query += ` ORDER BY started_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, errors.New(errors.StoreFailed, "failed to query runs", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		var started, finished, status string
		if err := rows.Scan(&r.ID, &r.Feed, &started, &finished,
			&r.EventsFetched, &r.UpdatesStored, &status, &r.Error); err != nil {
			return nil, errors.New(errors.StoreFailed, "failed to scan run row", err)
		}
		if r.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, errors.New(errors.StoreFailed, "stored run time is unreadable", err)
		}
		if r.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
			return nil, errors.New(errors.StoreFailed, "stored run time is unreadable", err)
		}
		r.Status = RunStatus(status)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New(errors.StoreFailed, "failed to iterate runs", err)
	}
	return out, nil
}
