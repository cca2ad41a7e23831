package academics

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Calculation kinds kept in the history.
const (
	KindCGPA       = "cgpa"
	KindAttendance = "attendance"
)

// Retention limits for calculation history.
const (
	historyKeep = 50
	HistoryShow = 10
)

// Entry is one saved calculation. Result holds the raw JSON of a
// CGPAResult or AttendanceResult.
type Entry struct {
	ID        int64           `json:"id"`
	Kind      string          `json:"kind"`
	Result    json.RawMessage `json:"result"`
	Timestamp time.Time       `json:"timestamp"`
}

// Decode unmarshals the stored result into v.
func (e Entry) Decode(v any) error {
	return json.Unmarshal(e.Result, v)
}

// History stores past calculations in SQLite.
type History struct {
	db  *sql.DB
	now func() time.Time
}

// NewHistory wraps an open database. The schema is created by store.Open.
func NewHistory(db *sql.DB) *History {
	return &History{db: db, now: time.Now}
}

// Record saves a calculation result and trims the kind to its newest entries.
func (h *History) Record(ctx context.Context, kind string, result any) (*Entry, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s result: %w", kind, err)
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := h.now().UTC()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO calculations (kind, result, created_at) VALUES (?, ?, ?)`,
		kind, string(data), now.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("failed to save %s result: %w", kind, err)
	}
	id, _ := res.LastInsertId()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM calculations WHERE kind = ? AND id NOT IN (
			SELECT id FROM calculations WHERE kind = ? ORDER BY id DESC LIMIT ?
		)`, kind, kind, historyKeep)
	if err != nil {
		return nil, fmt.Errorf("failed to trim %s history: %w", kind, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit %s result: %w", kind, err)
	}
	return &Entry{ID: id, Kind: kind, Result: data, Timestamp: now}, nil
}

// List returns up to limit entries of kind, oldest first. An empty kind
// lists every kind.
func (h *History) List(ctx context.Context, kind string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = HistoryShow
	}
	rows, err := h.db.QueryContext(ctx, `
		SELECT id, kind, result, created_at FROM (
			SELECT id, kind, result, created_at FROM calculations
			WHERE (? = '' OR kind = ?) ORDER BY id DESC LIMIT ?
		) ORDER BY id`, kind, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s history: %w", kind, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			result    string
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.Kind, &result, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		e.Result = json.RawMessage(result)
		e.Timestamp, _ = time.Parse(time.RFC3339Nano, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes a single history entry.
func (h *History) Delete(ctx context.Context, id int64) error {
	res, err := h.db.ExecContext(ctx, `DELETE FROM calculations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("history entry %d not found", id)
	}
	return nil
}
