// Package mcp provides the Model Context Protocol server integration for slotboard.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"tableflip.dev/slotboard/pkg/app"
	"tableflip.dev/slotboard/pkg/schedule"
)

// Service adapts the schedule service for MCP tools and resources. Every call
// rereads the store first and every mutation is saved before the call
// returns, so edits made by the TUI or the CLI in between are kept.
type Service struct {
	App *app.Service

	mu sync.Mutex
}

// ErrConfirmationRequired is returned by destructive calls without confirm=true.
var ErrConfirmationRequired = errors.New("confirm must be true for destructive operations")

// EventDTO is a transport-friendly projection of an event.
type EventDTO struct {
	Row   int    `json:"row"`
	Index int    `json:"index"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Title string `json:"title"`
	Span  string `json:"span"`
}

// RowDTO lists the events of one row in creation order.
type RowDTO struct {
	Row    int        `json:"row"`
	Events []EventDTO `json:"events"`
}

// ScheduleDTO is the whole board plus its timeline geometry.
type ScheduleDTO struct {
	StartHour    int      `json:"startHour"`
	EndHour      int      `json:"endHour"`
	SlotsPerHour int      `json:"slotsPerHour"`
	TotalSlots   int      `json:"totalSlots"`
	Count        int      `json:"count"`
	Rows         []RowDTO `json:"rows"`
}

// ResultDTO reports the status line of a mutation.
type ResultDTO struct {
	Status string    `json:"status"`
	Event  *EventDTO `json:"event,omitempty"`
}

// ValidationDTO is the outcome of checking a payload.
type ValidationDTO struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
	Count  int    `json:"count"`
}

// NewService builds a service wrapper around the schedule service.
func NewService(a *app.Service) *Service {
	return &Service{App: a}
}

func (s *Service) ready() error {
	if s.App == nil || s.App.Board == nil {
		return errors.New("schedule is not configured")
	}
	return nil
}

// begin locks the service and loads the latest saved schedule. When it
// returns nil the caller owns s.mu.
func (s *Service) begin(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	s.mu.Lock()
	if status, err := s.App.Load(ctx); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", status, err)
	}
	return nil
}

// Schedule returns every row.
func (s *Service) Schedule(ctx context.Context) (ScheduleDTO, error) {
	if err := s.begin(ctx); err != nil {
		return ScheduleDTO{}, err
	}
	defer s.mu.Unlock()
	b := s.App.Board
	tl := b.Timeline()
	out := ScheduleDTO{
		StartHour:    tl.StartHour,
		EndHour:      tl.EndHour,
		SlotsPerHour: tl.SlotsPerHour,
		TotalSlots:   tl.TotalSlots(),
		Count:        b.Count(),
	}
	for r, row := range b.Rows() {
		out.Rows = append(out.Rows, s.row(r, row))
	}
	return out, nil
}

// Row returns the events of one row.
func (s *Service) Row(ctx context.Context, r int) (RowDTO, error) {
	if err := s.begin(ctx); err != nil {
		return RowDTO{}, err
	}
	defer s.mu.Unlock()
	row, err := s.App.Board.Row(r)
	if err != nil {
		return RowDTO{}, err
	}
	return s.row(r, row), nil
}

func (s *Service) row(r int, row []schedule.Event) RowDTO {
	out := RowDTO{Row: r, Events: make([]EventDTO, 0, len(row))}
	for i, e := range row {
		out.Events = append(out.Events, s.toDTO(r, i, e))
	}
	return out
}

func (s *Service) toDTO(r, i int, e schedule.Event) EventDTO {
	return EventDTO{
		Row:   r,
		Index: i,
		Start: e.Start,
		End:   e.End,
		Title: e.Title,
		Span:  s.App.Board.Timeline().Span(e.Start, e.End),
	}
}

// CreateEvent adds an event. With snap the range is first fitted between its
// neighbors; without it an overlap is an error.
func (s *Service) CreateEvent(ctx context.Context, r, start, end int, title string, snap bool) (ResultDTO, error) {
	if err := s.begin(ctx); err != nil {
		return ResultDTO{}, err
	}
	defer s.mu.Unlock()
	if snap {
		row, err := s.App.Board.Row(r)
		if err != nil {
			return ResultDTO{}, err
		}
		start, end = schedule.Resolve(s.App.Board.Timeline(), row, -1, start, end)
	}
	status, err := s.App.Create(r, start, end, title)
	if err != nil {
		return ResultDTO{}, err
	}
	i := s.App.Board.At(r, start)
	e, err := s.App.Board.Event(r, i)
	if err != nil {
		return ResultDTO{}, err
	}
	dto := s.toDTO(r, i, e)
	return s.saved(ctx, status, &dto)
}

// MoveEvent places an existing event as close to [start, end] as possible.
func (s *Service) MoveEvent(ctx context.Context, r, i, start, end int) (ResultDTO, error) {
	if err := s.begin(ctx); err != nil {
		return ResultDTO{}, err
	}
	defer s.mu.Unlock()
	e, status, err := s.App.Place(r, i, start, end)
	if err != nil {
		return ResultDTO{}, err
	}
	dto := s.toDTO(r, i, e)
	return s.saved(ctx, status, &dto)
}

// DeleteEvent removes one event.
func (s *Service) DeleteEvent(ctx context.Context, r, i int) (ResultDTO, error) {
	if err := s.begin(ctx); err != nil {
		return ResultDTO{}, err
	}
	defer s.mu.Unlock()
	status, err := s.App.Delete(r, i)
	if err != nil {
		return ResultDTO{}, err
	}
	return s.saved(ctx, status, nil)
}

// Clear empties one row, or every row when r is negative. Clearing every row
// also replaces a saved schedule that no longer validates.
func (s *Service) Clear(ctx context.Context, r int, confirm bool) (ResultDTO, error) {
	if err := s.ready(); err != nil {
		return ResultDTO{}, err
	}
	if !confirm {
		return ResultDTO{}, ErrConfirmationRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if status, err := s.App.Load(ctx); err != nil && !(r < 0 && errors.Is(err, schedule.ErrInvalid)) {
		return ResultDTO{}, fmt.Errorf("%s: %w", status, err)
	}
	var (
		status string
		err    error
	)
	if r < 0 {
		status, err = s.App.ClearAll()
	} else {
		status, err = s.App.ClearRow(r)
	}
	if err != nil {
		return ResultDTO{}, err
	}
	return s.saved(ctx, status, nil)
}

// Validate checks a payload without touching the board.
func (s *Service) Validate(ctx context.Context, payload string) (ValidationDTO, error) {
	if err := s.ready(); err != nil {
		return ValidationDTO{}, err
	}
	if strings.TrimSpace(payload) == "" {
		return ValidationDTO{}, errors.New("payload is required")
	}
	p, err := schedule.Deserialize(s.App.Board.Timeline(), []byte(payload))
	if err != nil {
		return ValidationDTO{Valid: false, Reason: err.Error()}, nil
	}
	n := 0
	for _, row := range p.Rows {
		n += len(row)
	}
	return ValidationDTO{Valid: true, Count: n}, nil
}

func (s *Service) saved(ctx context.Context, status string, e *EventDTO) (ResultDTO, error) {
	if save, err := s.App.Save(ctx); err != nil {
		return ResultDTO{}, fmt.Errorf("%s: %w", save, err)
	}
	return ResultDTO{Status: status, Event: e}, nil
}
