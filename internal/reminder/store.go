package reminder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/notexe/studydesk/internal/urgency"
)

var (
	// ErrNotFound is returned when no reminder has the requested ID.
	ErrNotFound = errors.New("reminder not found")
	// ErrDuplicate is returned when a reminder with the same title, type and
	// due date already exists.
	ErrDuplicate = errors.New("duplicate reminder")
	// ErrEmptyTitle is returned when the title is blank after trimming.
	ErrEmptyTitle = errors.New("title is required")
)

// Store provides SQLite-backed storage for reminders.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore wraps an open database. The schema is created by store.Open.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

const selectColumns = `SELECT id, title, description, type, due_date, due_time, completed, created_at, updated_at FROM reminders`

// Add inserts a new reminder and returns it with the assigned ID.
func (s *Store) Add(ctx context.Context, r Reminder) (*Reminder, error) {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return nil, ErrEmptyTitle
	}
	if r.Type == "" {
		r.Type = TypeAssignment
	}
	if r.DueDate != nil && strings.TrimSpace(*r.DueDate) == "" {
		r.DueDate = nil
	}
	if err := normalizeDueTime(&r.DueTime); err != nil {
		return nil, err
	}

	existing, err := s.List(ctx, true)
	if err != nil {
		return nil, err
	}
	key := DuplicateKey(r)
	for _, e := range existing {
		if DuplicateKey(e) == key {
			return nil, fmt.Errorf("%w: %q (%s) already exists", ErrDuplicate, r.Title, r.Type)
		}
	}

	now := s.now().UTC()
	r.ID = uuid.New().String()
	r.CreatedAt = now
	r.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reminders (id, title, description, type, due_date, due_time, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Title, r.Description, r.Type, nullString(r.DueDate), nullString(r.DueTime),
		r.Completed, formatTime(r.CreatedAt), formatTime(r.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to insert reminder: %w", err)
	}

	return &r, nil
}

// List returns reminders in creation order. Completed reminders are skipped
// unless includeCompleted is set.
func (s *Store) List(ctx context.Context, includeCompleted bool) ([]Reminder, error) {
	query := selectColumns
	if !includeCompleted {
		query += ` WHERE completed = 0`
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	var reminders []Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, *r)
	}
	return reminders, rows.Err()
}

// Get returns a single reminder by ID.
func (s *Store) Get(ctx context.Context, id string) (*Reminder, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	r, err := scanReminder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return r, nil
}

// Resolve returns the ID of the reminder whose ID equals prefix or, failing
// that, the only one that starts with it.
func (s *Store) Resolve(ctx context.Context, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrNotFound)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM reminders WHERE substr(id, 1, ?) = ? ORDER BY id LIMIT 2`, len(prefix), prefix)
	if err != nil {
		return "", fmt.Errorf("failed to resolve id: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("failed to resolve id: %w", err)
		}
		if id == prefix {
			return id, nil
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNotFound, prefix)
	case 1:
		return ids[0], nil
	}
	return "", fmt.Errorf("id %q is ambiguous", prefix)
}

// UpdateFields holds optional fields for a partial update. An empty DueDate
// or DueTime clears the stored value.
type UpdateFields struct {
	Title       *string
	Description *string
	Type        *string
	DueDate     *string
	DueTime     *string
	Completed   *bool
}

// Update applies partial updates to a reminder.
func (s *Store) Update(ctx context.Context, id string, fields UpdateFields) (*Reminder, error) {
	setClauses := []string{}
	args := []interface{}{}

	if fields.Title != nil {
		title := strings.TrimSpace(*fields.Title)
		if title == "" {
			return nil, ErrEmptyTitle
		}
		setClauses = append(setClauses, "title = ?")
		args = append(args, title)
	}
	if fields.Description != nil {
		setClauses = append(setClauses, "description = ?")
		args = append(args, *fields.Description)
	}
	if fields.Type != nil {
		setClauses = append(setClauses, "type = ?")
		args = append(args, *fields.Type)
	}
	if fields.DueDate != nil {
		setClauses = append(setClauses, "due_date = ?")
		args = append(args, emptyAsNull(*fields.DueDate))
	}
	if fields.DueTime != nil {
		dt := fields.DueTime
		if strings.TrimSpace(*dt) != "" {
			if err := normalizeDueTime(&dt); err != nil {
				return nil, err
			}
		}
		setClauses = append(setClauses, "due_time = ?")
		args = append(args, emptyAsNull(*dt))
	}
	if fields.Completed != nil {
		setClauses = append(setClauses, "completed = ?")
		args = append(args, *fields.Completed)
	}

	if len(setClauses) == 0 {
		return s.Get(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = ?")
	args = append(args, formatTime(s.now().UTC()))
	args = append(args, id)

	query := "UPDATE reminders SET " + strings.Join(setClauses, ", ") + " WHERE id = ?"
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update reminder: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return s.Get(ctx, id)
}

// Complete marks a reminder as completed.
func (s *Store) Complete(ctx context.Context, id string) error {
	done := true
	_, err := s.Update(ctx, id, UpdateFields{Completed: &done})
	return err
}

// Delete removes a reminder by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// CleanupDuplicates deletes every reminder that duplicates an earlier one and
// returns how many were removed.
func (s *Store) CleanupDuplicates(ctx context.Context) (int, error) {
	all, err := s.List(ctx, true)
	if err != nil {
		return 0, err
	}

	keep := make(map[string]bool)
	for _, r := range RemoveDuplicates(all) {
		keep[r.ID] = true
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin cleanup: %w", err)
	}
	defer tx.Rollback()

	removed := 0
	for _, r := range all {
		if keep[r.ID] {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, r.ID); err != nil {
			return 0, fmt.Errorf("failed to delete duplicate %s: %w", r.ID, err)
		}
		removed++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit cleanup: %w", err)
	}
	return removed, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanReminder(row scanner) (*Reminder, error) {
	var r Reminder
	var dueDate, dueTime sql.NullString
	var createdAt, updatedAt string

	if err := row.Scan(&r.ID, &r.Title, &r.Description, &r.Type,
		&dueDate, &dueTime, &r.Completed, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if dueDate.Valid {
		r.DueDate = &dueDate.String
	}
	if dueTime.Valid {
		r.DueTime = &dueTime.String
	}
	r.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	r.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)

	return &r, nil
}

func normalizeDueTime(dt **string) error {
	if *dt == nil {
		return nil
	}
	if strings.TrimSpace(**dt) == "" {
		*dt = nil
		return nil
	}
	t, ok := urgency.NormalizeHHMM(**dt)
	if !ok {
		return fmt.Errorf("invalid due_time %q (use HH:MM, 24-hour)", **dt)
	}
	*dt = &t
	return nil
}

func nullString(s *string) interface{} {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return *s
}

func emptyAsNull(s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// Fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}
