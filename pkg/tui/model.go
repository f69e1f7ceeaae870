// Package tui renders the schedule as a terminal grid and turns mouse drags
// into gestures on the board.
package tui

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"

	"tableflip.dev/slotboard/pkg/app"
	"tableflip.dev/slotboard/pkg/gesture"
	"tableflip.dev/slotboard/pkg/logging"
	"tableflip.dev/slotboard/pkg/schedule"
	"tableflip.dev/slotboard/pkg/store"
	"tableflip.dev/slotboard/pkg/timeline"
)

const helpText = "drag empty slots to create · drag an event to move · drag its edges to resize · arrows move · d delete · c clear row · C clear all · e export · q quit"

type (
	loadedMsg struct {
		status string
		err    error
	}
	savedMsg     app.SaveResult
	watchingMsg  struct{ ch <-chan store.Event }
	storeMsg     store.Event
	watchDoneMsg struct{}
)

// Model is the root Bubble Tea model.
type Model struct {
	svc     *app.Service
	board   *schedule.Board
	tl      timeline.Config
	capture *gesture.Capture
	machine *gesture.Machine
	theme   Theme
	log     zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	width, height int
	grid          grid

	cursorRow, cursorSlot int
	status                string
	failed                bool

	prompt        *titlePrompt
	confirm       *confirmation
	pendingReload bool

	saves chan app.SaveResult
	watch <-chan store.Event
}

// New builds the model. The service's own confirmer is bypassed: the grid
// asks in an overlay before calling destructive operations.
func New(svc *app.Service, dark bool) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	capture := &gesture.Capture{}
	tl := svc.Board.Timeline()
	m := &Model{
		svc:     svc,
		board:   svc.Board,
		tl:      tl,
		capture: capture,
		machine: gesture.New(svc.Board, capture),
		theme:   NewTheme(tl.Rows, dark),
		log:     logging.Component("tui"),
		ctx:     ctx,
		cancel:  cancel,
		grid:    newGrid(tl, 0),
		status:  "Ready",
		saves:   make(chan app.SaveResult, 8),
	}
	svc.Confirm = nil
	svc.OnSave = func(r app.SaveResult) {
		select {
		case m.saves <- r:
		default:
		}
	}
	return m
}

// Run launches the grid until the user quits. Pending saves are flushed on
// the way out.
func Run(svc *app.Service) error {
	m := New(svc, termenv.HasDarkBackground())
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	m.shutdown()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.waitForSave(), m.startWatch())
}

func (m *Model) load() tea.Cmd {
	return func() tea.Msg {
		status, err := m.svc.Load(m.ctx)
		return loadedMsg{status: status, err: err}
	}
}

func (m *Model) waitForSave() tea.Cmd {
	return func() tea.Msg {
		select {
		case r := <-m.saves:
			return savedMsg(r)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) startWatch() tea.Cmd {
	if m.svc.Store == nil {
		return nil
	}
	return func() tea.Msg {
		ch, err := m.svc.Store.Watch(m.ctx, m.svc.Key)
		if err != nil {
			m.log.Warn().Err(err).Msg("store watch unavailable")
			return watchDoneMsg{}
		}
		return watchingMsg{ch: ch}
	}
}

func (m *Model) waitForStore() tea.Cmd {
	ch := m.watch
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return watchDoneMsg{}
		}
		return storeMsg(ev)
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = v.Width, v.Height
		m.grid = newGrid(m.tl, v.Width)
	case loadedMsg:
		m.setStatus(v.status, v.err)
	case savedMsg:
		if v.Err != nil {
			m.setStatus(v.Status, v.Err)
		}
		cmds = append(cmds, m.waitForSave())
	case watchingMsg:
		m.watch = v.ch
		cmds = append(cmds, m.waitForStore())
	case storeMsg:
		m.externalChange()
		cmds = append(cmds, m.waitForStore())
	case watchDoneMsg:
		m.watch = nil
	case tea.KeyPressMsg:
		if cmd := m.handleKey(v); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case tea.MouseClickMsg:
		m.handleClick(v.Mouse())
	case tea.MouseMotionMsg:
		m.handleMotion(v.Mouse())
	case tea.MouseReleaseMsg:
		if cmd := m.handleRelease(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	default:
		if m.prompt != nil {
			cmds = append(cmds, m.prompt.Update(msg))
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		return m.quit()
	}
	switch {
	case m.prompt != nil:
		return m.handlePromptKey(msg)
	case m.confirm != nil:
		m.handleConfirmKey(key)
		return nil
	}
	if m.machine.Active() {
		if key == "esc" {
			m.machine.Reset()
			m.setStatus("Gesture cancelled", nil)
		}
		return nil
	}

	switch key {
	case "q":
		return m.quit()
	case "left", "h":
		m.moveCursor(0, -1)
	case "right", "l":
		m.moveCursor(0, 1)
	case "up", "k":
		m.moveCursor(-1, 0)
	case "down", "j":
		m.moveCursor(1, 0)
	case "d":
		i := m.board.At(m.cursorRow, m.cursorSlot)
		if i < 0 {
			m.setStatus("Nothing to delete here", nil)
			break
		}
		m.setStatus(m.svc.Delete(m.cursorRow, i))
	case "c":
		r := m.cursorRow
		m.confirm = &confirmation{
			message: fmt.Sprintf("Clear every event in row %d?", r),
			run:     func() (string, error) { return m.svc.ClearRow(r) },
		}
	case "C", "shift+c":
		m.confirm = &confirmation{
			message: "Clear the whole schedule?",
			run:     m.svc.ClearAll,
		}
	case "e":
		m.setStatus(m.svc.Export(m.ctx))
	}
	return nil
}

func (m *Model) handlePromptKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		p := m.prompt
		m.prompt = nil
		created, err := p.draft.Create(m.board, p.input.Value())
		switch {
		case err != nil:
			m.setStatus(fmt.Sprintf("Could not add event: %v", err), err)
		case created:
			m.setStatus(fmt.Sprintf("Added %s", p.span), nil)
		default:
			m.setStatus("No title; nothing created", nil)
		}
		m.afterOverlay()
		return nil
	case "esc":
		m.prompt = nil
		m.setStatus("Creation cancelled", nil)
		m.afterOverlay()
		return nil
	}
	return m.prompt.Update(msg)
}

func (m *Model) handleConfirmKey(key string) {
	switch key {
	case "y", "Y", "enter":
		c := m.confirm
		m.confirm = nil
		m.setStatus(c.run())
	case "n", "N", "esc", "q":
		m.confirm = nil
		m.setStatus("Cancelled", nil)
	default:
		return
	}
	m.afterOverlay()
}

func (m *Model) overlayOpen() bool {
	return m.prompt != nil || m.confirm != nil
}

func (m *Model) handleClick(mouse tea.Mouse) {
	if mouse.Button != tea.MouseLeft || m.overlayOpen() {
		return
	}
	row, slot, ok := m.grid.hit(mouse.X, mouse.Y)
	if !ok {
		return
	}
	m.cursorRow, m.cursorSlot = row, slot
	mode := m.machine.PointerDown(row, slot)
	m.log.Debug().Int("row", row).Int("slot", slot).Str("mode", string(mode)).Msg("pointer down")
}

func (m *Model) handleMotion(mouse tea.Mouse) {
	if !m.machine.Active() {
		return
	}
	row, slot := m.grid.nearest(mouse.X, mouse.Y)
	if err := m.machine.PointerEnter(row, slot); err != nil {
		m.setStatus(fmt.Sprintf("Cannot place there: %v", err), err)
	}
	if r, ok := m.gestureRow(); ok && r == row {
		m.cursorSlot = slot
	}
}

func (m *Model) gestureRow() (int, bool) {
	if r, _, ok := m.machine.Target(); ok {
		return r, true
	}
	if d, ok := m.machine.Selection(); ok {
		return d.Row, true
	}
	return 0, false
}

// handleRelease routes the pointer-up through the capture so it reaches the
// gesture wherever the pointer was released.
func (m *Model) handleRelease() tea.Cmd {
	d, ok := m.capture.PointerUp()
	if !ok {
		return nil
	}
	if d == nil {
		m.afterOverlay()
		return nil
	}
	m.prompt = newTitlePrompt(*d, m.tl.Span(d.Start, d.End))
	return m.prompt.Init()
}

func (m *Model) moveCursor(dr, ds int) {
	m.cursorRow = timeline.Clamp(m.cursorRow+dr, 0, m.tl.Rows-1)
	m.cursorSlot = m.tl.Clamp(m.cursorSlot + ds)
}

// externalChange reloads the board after another process rewrote the blob.
// It waits while a gesture, an overlay or an unsaved edit is in flight.
func (m *Model) externalChange() {
	if m.machine.Active() || m.overlayOpen() || m.svc.SavePending() {
		m.pendingReload = true
		return
	}
	m.reload()
}

func (m *Model) afterOverlay() {
	if m.pendingReload && !m.machine.Active() && !m.overlayOpen() && !m.svc.SavePending() {
		m.reload()
	}
}

func (m *Model) reload() {
	m.pendingReload = false
	before := m.board.Rows()
	status, err := m.svc.Load(m.ctx)
	if err != nil {
		m.setStatus(status, err)
		return
	}
	if !reflect.DeepEqual(before, m.board.Rows()) {
		m.setStatus("Schedule changed on disk; reloaded", nil)
	}
}

func (m *Model) setStatus(status string, err error) {
	m.status = status
	m.failed = err != nil
	if err != nil {
		m.log.Debug().Err(err).Msg(status)
	}
}

func (m *Model) quit() tea.Cmd {
	m.shutdown()
	return tea.Quit
}

func (m *Model) shutdown() {
	m.machine.Reset()
	m.svc.Flush()
	m.cancel()
}

// View implements tea.Model.
func (m *Model) View() (string, *tea.Cursor) {
	var sel *gesture.Draft
	if d, ok := m.machine.Selection(); ok {
		sel = &d
	}
	focusRow, focusIndex := -1, -1
	if r, i, ok := m.machine.Target(); ok {
		focusRow, focusIndex = r, i
	}
	hl := highlight{
		cursorRow:  m.cursorRow,
		cursorSlot: m.cursorSlot,
		selection:  sel,
		focusRow:   focusRow,
		focusIndex: focusIndex,
	}

	header := m.theme.Header.Render("slotboard") + "  " +
		m.theme.Help.Render(fmt.Sprintf("%s  %s", m.tl.Span(m.cursorSlot, m.cursorSlot), m.machine.Mode()))
	parts := []string{header, m.grid.board(m.theme, m.board.Rows(), hl)}

	var cursor *tea.Cursor
	switch {
	case m.prompt != nil:
		view, c := m.prompt.View(m.theme)
		if c != nil {
			c.Y += lipgloss.Height(strings.Join(parts, "\n"))
		}
		cursor = c
		parts = append(parts, view)
	case m.confirm != nil:
		parts = append(parts, m.confirm.View(m.theme))
	}

	statusStyle := m.theme.Status
	if m.failed {
		statusStyle = m.theme.Error
	}
	parts = append(parts, statusStyle.Render(m.status), m.theme.Help.Render(wrap(helpText, m.width)))
	return strings.Join(parts, "\n"), cursor
}

func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
