package reminder

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/notexe/studydesk/internal/urgency"
)

// Board classifies stored reminders for display. It is safe to call from the
// countdown refresh and the background sync at the same time.
type Board struct {
	store  *Store
	engine *urgency.Engine
	logger *log.Logger
}

// NewBoard creates a board over store using engine for classification.
func NewBoard(store *Store, engine *urgency.Engine, logger *log.Logger) *Board {
	if logger == nil {
		logger = log.Default()
	}
	return &Board{store: store, engine: engine, logger: logger}
}

// Store returns the underlying reminder store.
func (b *Board) Store() *Store {
	return b.store
}

// Engine returns the urgency engine used by the board.
func (b *Board) Engine() *urgency.Engine {
	return b.engine
}

// Enhance classifies the given reminders and sorts them for attention.
func (b *Board) Enhance(reminders []Reminder) []urgency.Enhanced {
	records := make([]urgency.Record, len(reminders))
	for i, r := range reminders {
		records[i] = r.Record()
	}

	items := b.engine.Enhance(records)
	for _, it := range items {
		if it.Status == urgency.StatusNoDate && it.DueDate != nil {
			b.logger.Debug("Unparseable due date", "id", it.ID, "title", it.Title, "due_date", *it.DueDate)
		}
	}
	urgency.Sort(items)
	return items
}

// List loads reminders, classifies them and applies f.
func (b *Board) List(ctx context.Context, f Filter) ([]urgency.Enhanced, error) {
	reminders, err := b.store.List(ctx, f.IncludeCompleted)
	if err != nil {
		return nil, err
	}

	var out []urgency.Enhanced
	for _, it := range b.Enhance(reminders) {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out, nil
}

// Due returns open reminders that are overdue or due within three hours.
func (b *Board) Due(ctx context.Context) ([]urgency.Enhanced, error) {
	items, err := b.List(ctx, Filter{})
	if err != nil {
		return nil, err
	}

	var due []urgency.Enhanced
	for _, it := range items {
		if it.Status.Pressing() {
			due = append(due, it)
		}
	}
	return due, nil
}

// Stats summarizes the open reminders.
func (b *Board) Stats(ctx context.Context) (Stats, error) {
	items, err := b.List(ctx, Filter{})
	if err != nil {
		return Stats{}, err
	}
	return Summarize(items), nil
}
