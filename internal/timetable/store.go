package timetable

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/notexe/studydesk/internal/urgency"
)

// Store provides SQLite-backed storage for classes and exams.
type Store struct {
	db  *sql.DB
	loc *time.Location
	now func() time.Time
}

// NewStore wraps an open database. Exam dates are interpreted in loc.
func NewStore(db *sql.DB, loc *time.Location) *Store {
	if loc == nil {
		loc = time.Local
	}
	return &Store{db: db, loc: loc, now: time.Now}
}

// Location returns the timezone exam dates are read in.
func (s *Store) Location() *time.Location {
	return s.loc
}

// Now returns the current time in the store's location.
func (s *Store) Now() time.Time {
	return s.now().In(s.loc)
}

// AddClass validates and inserts a class slot.
func (s *Store) AddClass(ctx context.Context, c ClassEntry) (*ClassEntry, error) {
	c.Normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.ID = uuid.New().String()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO classes (id, day, start_time, end_time, subject_name, teacher_name, room_number, class_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Day, c.StartTime, c.EndTime, c.SubjectName, c.TeacherName, c.RoomNumber, c.ClassType)
	if err != nil {
		return nil, fmt.Errorf("failed to insert class: %w", err)
	}
	return &c, nil
}

// UpdateClass replaces a class slot.
func (s *Store) UpdateClass(ctx context.Context, id string, c ClassEntry) (*ClassEntry, error) {
	c.Normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.ID = id

	result, err := s.db.ExecContext(ctx, `
		UPDATE classes SET day = ?, start_time = ?, end_time = ?, subject_name = ?,
			teacher_name = ?, room_number = ?, class_type = ?
		WHERE id = ?
	`, c.Day, c.StartTime, c.EndTime, c.SubjectName, c.TeacherName, c.RoomNumber, c.ClassType, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update class: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("class %w: %s", ErrNotFound, id)
	}
	return &c, nil
}

// DeleteClass removes a class slot by ID.
func (s *Store) DeleteClass(ctx context.Context, id string) error {
	return s.delete(ctx, "classes", "class", id)
}

// Classes returns the timetable, optionally restricted to one day, ordered
// by day then start time.
func (s *Store) Classes(ctx context.Context, day string) ([]ClassEntry, error) {
	query := `SELECT id, day, start_time, end_time, subject_name, teacher_name, room_number, class_type FROM classes`
	var args []interface{}
	if day != "" {
		query += ` WHERE day = ?`
		args = append(args, strings.ToLower(day))
	}
	query += ` ORDER BY start_time`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	defer rows.Close()

	var classes []ClassEntry
	for rows.Next() {
		var c ClassEntry
		if err := rows.Scan(&c.ID, &c.Day, &c.StartTime, &c.EndTime,
			&c.SubjectName, &c.TeacherName, &c.RoomNumber, &c.ClassType); err != nil {
			return nil, fmt.Errorf("failed to scan class: %w", err)
		}
		classes = append(classes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if day != "" {
		return DaySchedule(classes, day), nil
	}
	var week []ClassEntry
	for _, d := range Days {
		week = append(week, DaySchedule(classes, d)...)
	}
	return week, nil
}

// AddExam validates and inserts an exam. Exams on past days are rejected.
func (s *Store) AddExam(ctx context.Context, e Exam) (*Exam, error) {
	e = normalizeExam(e)
	if err := e.Validate(s.Now(), s.loc); err != nil {
		return nil, err
	}
	e.ID = uuid.New().String()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO exams (id, subject, date, time, session, location)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.ID, e.Subject, e.Date, e.Time, e.Session, e.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to insert exam: %w", err)
	}
	return &e, nil
}

// UpdateExam replaces an exam.
func (s *Store) UpdateExam(ctx context.Context, id string, e Exam) (*Exam, error) {
	e = normalizeExam(e)
	if err := e.Validate(s.Now(), s.loc); err != nil {
		return nil, err
	}
	e.ID = id

	result, err := s.db.ExecContext(ctx, `
		UPDATE exams SET subject = ?, date = ?, time = ?, session = ?, location = ?
		WHERE id = ?
	`, e.Subject, e.Date, e.Time, e.Session, e.Location, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update exam: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("exam %w: %s", ErrNotFound, id)
	}
	return &e, nil
}

// DeleteExam removes an exam by ID.
func (s *Store) DeleteExam(ctx context.Context, id string) error {
	return s.delete(ctx, "exams", "exam", id)
}

// Exams returns all exams ordered by date and time.
func (s *Store) Exams(ctx context.Context) ([]Exam, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, subject, date, time, session, location FROM exams ORDER BY date, time`)
	if err != nil {
		return nil, fmt.Errorf("failed to list exams: %w", err)
	}
	defer rows.Close()

	var exams []Exam
	for rows.Next() {
		var e Exam
		if err := rows.Scan(&e.ID, &e.Subject, &e.Date, &e.Time, &e.Session, &e.Location); err != nil {
			return nil, fmt.Errorf("failed to scan exam: %w", err)
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// NextExam returns the countdown to the next exam that has not started.
func (s *Store) NextExam(ctx context.Context) (Countdown, bool, error) {
	exams, err := s.Exams(ctx)
	if err != nil {
		return Countdown{}, false, err
	}
	c, ok := NextExam(exams, s.Now(), s.loc)
	return c, ok, nil
}

func (s *Store) delete(ctx context.Context, table, kind, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%s %w: %s", kind, ErrNotFound, id)
	}
	return nil
}

func normalizeExam(e Exam) Exam {
	e.Subject = strings.TrimSpace(e.Subject)
	e.Date = strings.TrimSpace(e.Date)
	if t, ok := urgency.NormalizeHHMM(e.Time); ok {
		e.Time = t
	}
	e.Session = strings.TrimSpace(e.Session)
	e.Location = strings.TrimSpace(e.Location)
	return e
}
