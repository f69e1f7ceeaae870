package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/slotboard/pkg/schedule"
	"tableflip.dev/slotboard/pkg/timeline"
)

type PrettyPrint struct {
	ShowIndex bool
	Out       io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " event")
	default:
		_, _ = c.Fprintln(pp.out(), " events")
	}
}

// Schedule prints every row: a day strip followed by its events.
func (pp *PrettyPrint) Schedule(tl timeline.Config, rows [][]schedule.Event) {
	for r, row := range rows {
		pp.TitleWithCount(fmt.Sprintf("Row %d", r), len(row))
		pp.Strip(tl, row)
		pp.Row(tl, row)
	}
}

// Row prints the events of one row in creation order.
func (pp *PrettyPrint) Row(tl timeline.Config, row []schedule.Event) {
	if len(row) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	y := color.New(color.FgHiYellow, color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	for i, e := range row {
		span := tl.Span(e.Start, e.End)
		slots := fmt.Sprintf("[%d,%d]", e.Start, e.End)
		if pp.ShowIndex {
			tbl.AddRow(y.Sprint(i), span, slots, e.Title)
		} else {
			tbl.AddRow(span, slots, e.Title)
		}
	}
	if pp.ShowIndex {
		tbl.RightAlign(0)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Strip draws one cell per slot, filled where an event sits, with a faint
// tick at every hour.
func (pp *PrettyPrint) Strip(tl timeline.Config, row []schedule.Event) {
	filled := color.New(color.FgHiCyan)
	faint := color.New(color.Faint)

	var b strings.Builder
	for slot := 0; slot < tl.TotalSlots(); slot++ {
		taken := false
		for _, e := range row {
			if e.Covers(slot) {
				taken = true
				break
			}
		}
		switch {
		case taken:
			b.WriteString(filled.Sprint("█"))
		case slot%tl.SlotsPerHour == 0:
			b.WriteString(faint.Sprint("┊"))
		default:
			b.WriteString(faint.Sprint("·"))
		}
	}
	_, _ = fmt.Fprintln(pp.out(), b.String())
}
