package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/slotboard/pkg/gesture"
	"tableflip.dev/slotboard/pkg/schedule"
	"tableflip.dev/slotboard/pkg/timeline"
)

const (
	labelWidth = 4
	gridTop    = 2
	rowHeight  = 2
	maxCell    = 4
)

// grid maps terminal cells to (row, slot) and back.
type grid struct {
	tl    timeline.Config
	cellW int
}

func newGrid(tl timeline.Config, width int) grid {
	cell := 1
	if total := tl.TotalSlots(); total > 0 && width > labelWidth {
		cell = (width - labelWidth) / total
	}
	cell = timeline.Clamp(cell, 1, maxCell)
	return grid{tl: tl, cellW: cell}
}

// x returns the first column of slot.
func (g grid) x(slot int) int {
	return labelWidth + slot*g.cellW
}

// y returns the first line of row.
func (g grid) y(row int) int {
	return gridTop + row*rowHeight
}

// hit resolves a terminal cell to the slot under it.
func (g grid) hit(x, y int) (row, slot int, ok bool) {
	if x < labelWidth || y < gridTop {
		return 0, 0, false
	}
	row = (y - gridTop) / rowHeight
	slot = (x - labelWidth) / g.cellW
	if row >= g.tl.Rows || slot >= g.tl.TotalSlots() {
		return 0, 0, false
	}
	return row, slot, true
}

// nearest resolves a terminal cell to the closest slot, for drags that leave
// the grid.
func (g grid) nearest(x, y int) (row, slot int) {
	row = timeline.Clamp((y-gridTop)/rowHeight, 0, g.tl.Rows-1)
	if y < gridTop {
		row = 0
	}
	if x < labelWidth {
		return row, 0
	}
	return row, g.tl.Clamp((x - labelWidth) / g.cellW)
}

func (g grid) width() int {
	return labelWidth + g.tl.TotalSlots()*g.cellW
}

// axis renders the hour labels above the grid.
func (g grid) axis(th Theme) string {
	line := []rune(strings.Repeat(" ", g.width()))
	step := g.tl.SlotsPerHour * g.cellW
	for h := g.tl.StartHour; h < g.tl.EndHour; h++ {
		x := g.x((h - g.tl.StartHour) * g.tl.SlotsPerHour)
		label := fmt.Sprintf("%02d", h)
		if step < len(label)+1 && (h-g.tl.StartHour)%2 == 1 {
			continue
		}
		copy(line[x:], []rune(label))
	}
	return th.Axis.Render(string(line))
}

// highlight describes what the row renderer overlays on the board.
type highlight struct {
	cursorRow, cursorSlot int
	selection             *gesture.Draft
	focusRow, focusIndex  int
}

// row renders one row as two lines: the event bands and a spacer.
func (g grid) row(th Theme, r int, events []schedule.Event, hl highlight) string {
	var b strings.Builder
	b.WriteString(th.Label.Render(fmt.Sprintf("%-*s", labelWidth, fmt.Sprintf("R%d", r))))

	owner := make([]int, g.tl.TotalSlots())
	for i := range owner {
		owner[i] = -1
	}
	for i, e := range events {
		for s := e.Start; s <= e.End && s < len(owner); s++ {
			owner[s] = i
		}
	}

	for slot := 0; slot < len(owner); {
		if i := owner[slot]; i >= 0 {
			e := events[i]
			w := (e.End - e.Start + 1) * g.cellW
			focused := hl.focusRow == r && hl.focusIndex == i
			style := th.Event(r, focused)
			if hl.cursorRow == r && e.Covers(hl.cursorSlot) {
				style = style.Reverse(true)
			}
			text := truncate.StringWithTail(e.Title, uint(w), "…")
			b.WriteString(style.Width(w).MaxWidth(w).Render(text))
			slot = e.End + 1
			continue
		}
		b.WriteString(g.empty(th, r, slot, hl))
		slot++
	}
	return b.String() + "\n" + strings.Repeat(" ", g.width())
}

func (g grid) empty(th Theme, r, slot int, hl highlight) string {
	cell := "·" + strings.Repeat(" ", g.cellW-1)
	style := th.Empty
	if slot%g.tl.SlotsPerHour == 0 {
		cell = "┊" + strings.Repeat(" ", g.cellW-1)
		style = th.Hour
	}
	if d := hl.selection; d != nil && d.Row == r && slot >= d.Start && slot <= d.End {
		style = th.Selection
	}
	if hl.cursorRow == r && hl.cursorSlot == slot {
		style = style.Inherit(th.Cursor)
	}
	return style.Render(cell)
}

// board renders the axis and every row.
func (g grid) board(th Theme, rows [][]schedule.Event, hl highlight) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, g.axis(th))
	for r, events := range rows {
		lines = append(lines, g.row(th, r, events, hl))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
