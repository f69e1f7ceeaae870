// Package app wires the schedule board to persistence, file exchange and the
// confirmation collaborator. Every operation reports a user-facing status; a
// failure leaves the board as it was.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"tableflip.dev/slotboard/pkg/logging"
	"tableflip.dev/slotboard/pkg/schedule"
	"tableflip.dev/slotboard/pkg/store"
)

// Confirmer asks the user to approve a destructive operation.
type Confirmer interface {
	Confirm(message string) bool
}

// Transport moves payloads in and out of files.
type Transport interface {
	// Export writes data under name and returns where it went.
	Export(name string, data []byte) (string, error)
	// Import returns the bytes of a chosen file; ok is false when nothing was chosen.
	Import() (data []byte, ok bool, err error)
}

// SaveResult is reported after every save attempt.
type SaveResult struct {
	Status string
	Err    error
}

var (
	// ErrCancelled is returned when the user declined a confirmation.
	ErrCancelled = errors.New("app: cancelled")
	// ErrNoTransport is returned by Export/Import without a Transport.
	ErrNoTransport = errors.New("app: no file transport configured")
)

// Service is the application facade used by the CLI, the TUI and MCP.
type Service struct {
	Board     *schedule.Board
	Store     store.Blob
	Key       string
	Confirm   Confirmer
	Transport Transport
	Now       func() time.Time

	// OnSave, when set, receives the outcome of every save, including the
	// debounced ones that run on a timer goroutine.
	OnSave func(SaveResult)

	log   zerolog.Logger
	saver *Debouncer
	quiet atomic.Bool
}

// New builds a Service whose board changes are saved delay after the last
// mutation.
func New(board *schedule.Board, blob store.Blob, key string, delay time.Duration) *Service {
	s := &Service{
		Board: board,
		Store: blob,
		Key:   key,
		Now:   time.Now,
		log:   logging.Component("app"),
	}
	s.saver = NewDebouncer(delay, func() { s.Save(context.Background()) })
	board.OnChange(func() {
		if !s.quiet.Load() {
			s.saver.Schedule()
		}
	})
	return s
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Service) confirm(message string) bool {
	if s.Confirm == nil {
		return true
	}
	return s.Confirm.Confirm(message)
}

// replaceQuietly swaps rows in without arming a save; the data came from the
// store itself.
func (s *Service) replaceQuietly(rows [][]schedule.Event) error {
	s.quiet.Store(true)
	defer s.quiet.Store(false)
	return s.Board.Replace(rows)
}

// Load reads the saved schedule. A missing blob empties the board; an
// unreadable or invalid one leaves the board untouched. Load may be called
// again at any time to pick up what other processes saved.
func (s *Service) Load(ctx context.Context) (string, error) {
	if s.Store == nil {
		return "No store configured", errors.New("app: no store configured")
	}
	raw, ok, err := s.Store.Get(s.Key)
	if err != nil {
		s.log.Error().Err(err).Str("key", s.Key).Msg("load failed")
		return "Could not read saved schedule", err
	}
	if !ok {
		if err := s.replaceQuietly(make([][]schedule.Event, s.Board.Timeline().Rows)); err != nil {
			return "New schedule", err
		}
		return "New schedule", nil
	}
	p, err := schedule.Deserialize(s.Board.Timeline(), raw)
	if err != nil {
		s.log.Warn().Err(err).Str("key", s.Key).Msg("saved schedule rejected")
		return "Saved schedule is invalid; starting empty", err
	}
	if err := s.replaceQuietly(p.Rows); err != nil {
		s.log.Warn().Err(err).Msg("saved schedule rejected by board")
		return "Saved schedule is invalid; starting empty", err
	}
	s.log.Debug().Int("events", s.Board.Count()).Time("savedAt", p.SavedAt).Msg("loaded")
	return fmt.Sprintf("Loaded %s", plural(s.Board.Count(), "event")), nil
}

// Save writes the board now and drops any pending debounced save.
func (s *Service) Save(ctx context.Context) (string, error) {
	s.saver.Stop()
	status, err := s.save()
	if s.OnSave != nil {
		s.OnSave(SaveResult{Status: status, Err: err})
	}
	return status, err
}

func (s *Service) save() (string, error) {
	if s.Store == nil {
		return "No store configured", errors.New("app: no store configured")
	}
	data, err := schedule.Serialize(s.Board.Rows(), s.now()).Marshal()
	if err != nil {
		return "Save failed", err
	}
	if err := s.Store.Set(s.Key, data); err != nil {
		s.log.Error().Err(err).Str("key", s.Key).Msg("save failed")
		return fmt.Sprintf("Save failed: %v", err), err
	}
	s.log.Debug().Str("key", s.Key).Int("bytes", len(data)).Msg("saved")
	return "Saved", nil
}

// ScheduleSave arms the debounced save. Board mutations call it already.
func (s *Service) ScheduleSave() {
	s.saver.Schedule()
}

// SavePending reports whether a debounced save is armed.
func (s *Service) SavePending() bool {
	return s.saver.Pending()
}

// Flush runs a pending debounced save immediately.
func (s *Service) Flush() bool {
	return s.saver.Flush()
}

// Close drops any pending save without running it.
func (s *Service) Close() {
	s.saver.Stop()
}

// Create adds an event without snapping; overlaps are rejected.
func (s *Service) Create(row, start, end int, title string) (string, error) {
	if _, err := s.Board.Create(row, start, end, title); err != nil {
		return fmt.Sprintf("Could not add event: %v", err), err
	}
	return fmt.Sprintf("Added %s", s.Board.Timeline().Span(start, end)), nil
}

// Place moves event i of row r as close to [start, end] as the neighbors allow.
func (s *Service) Place(r, i, start, end int) (schedule.Event, string, error) {
	row, err := s.Board.Row(r)
	if err != nil {
		return schedule.Event{}, "No such row", err
	}
	start, end = schedule.Resolve(s.Board.Timeline(), row, i, start, end)
	if err := s.Board.Update(r, i, start, end); err != nil {
		return schedule.Event{}, fmt.Sprintf("Could not move event: %v", err), err
	}
	e, err := s.Board.Event(r, i)
	if err != nil {
		return schedule.Event{}, "No such event", err
	}
	return e, fmt.Sprintf("Moved %q to %s", e.Title, s.Board.Timeline().Span(e.Start, e.End)), nil
}

// Delete removes one event. It needs no confirmation.
func (s *Service) Delete(r, i int) (string, error) {
	e, err := s.Board.Delete(r, i)
	if err != nil {
		return "Nothing to delete", err
	}
	return fmt.Sprintf("Deleted %q", e.Title), nil
}

// ClearRow empties row r after confirmation.
func (s *Service) ClearRow(r int) (string, error) {
	if !s.confirm(fmt.Sprintf("Clear every event in row %d?", r)) {
		return "Clear cancelled", ErrCancelled
	}
	if err := s.Board.ClearRow(r); err != nil {
		return "No such row", err
	}
	return fmt.Sprintf("Cleared row %d", r), nil
}

// ClearAll empties the board after confirmation.
func (s *Service) ClearAll() (string, error) {
	if !s.confirm("Clear the whole schedule?") {
		return "Clear cancelled", ErrCancelled
	}
	s.Board.ClearAll()
	return "Cleared schedule", nil
}

// ExportName is the timestamped file name used for exports.
func ExportName(now time.Time) string {
	return fmt.Sprintf("schedule-%s.json", now.Format("20060102-150405"))
}

// Export hands the current payload to the transport.
func (s *Service) Export(ctx context.Context) (string, error) {
	if s.Transport == nil {
		return "Export unavailable", ErrNoTransport
	}
	now := s.now()
	data, err := schedule.Serialize(s.Board.Rows(), now).Marshal()
	if err != nil {
		return "Export failed", err
	}
	path, err := s.Transport.Export(ExportName(now), data)
	if err != nil {
		s.log.Error().Err(err).Msg("export failed")
		return fmt.Sprintf("Export failed: %v", err), err
	}
	return fmt.Sprintf("Exported to %s", path), nil
}

// Import replaces the board with a file from the transport after validation
// and confirmation, then saves immediately.
func (s *Service) Import(ctx context.Context) (string, error) {
	if s.Transport == nil {
		return "Import unavailable", ErrNoTransport
	}
	raw, ok, err := s.Transport.Import()
	if err != nil {
		return fmt.Sprintf("Import failed: %v", err), err
	}
	if !ok {
		return "Import cancelled", nil
	}
	return s.ImportBytes(ctx, raw)
}

// ImportBytes is Import for bytes already in hand.
func (s *Service) ImportBytes(ctx context.Context, raw []byte) (string, error) {
	p, err := schedule.Deserialize(s.Board.Timeline(), raw)
	if err != nil {
		s.log.Warn().Err(err).Msg("import rejected")
		return "Import rejected: not a valid schedule file", err
	}
	if !s.confirm("Replace the current schedule with the imported one?") {
		return "Import cancelled", ErrCancelled
	}
	if err := s.replaceQuietly(p.Rows); err != nil {
		return "Import rejected: not a valid schedule file", err
	}
	if status, err := s.Save(ctx); err != nil {
		return status, err
	}
	return fmt.Sprintf("Imported %s", plural(s.Board.Count(), "event")), nil
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
