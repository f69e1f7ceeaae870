package tui

import (
	"image/color"

	"github.com/charmbracelet/lipgloss/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Theme centralizes Lip Gloss styles for the grid.
type Theme struct {
	Header    lipgloss.Style
	Axis      lipgloss.Style
	Label     lipgloss.Style
	Empty     lipgloss.Style
	Hour      lipgloss.Style
	Cursor    lipgloss.Style
	Selection lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
	Help      lipgloss.Style
	Modal     ModalTheme

	rows []colorful.Color
	dark bool
}

// ModalTheme styles the prompt and confirmation overlays.
type ModalTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
}

// NewTheme builds the styles for a terminal with a dark or light background.
func NewTheme(rows int, dark bool) Theme {
	faint := lipgloss.Color("244")
	accent := lipgloss.Color("212")
	if !dark {
		faint = lipgloss.Color("246")
		accent = lipgloss.Color("127")
	}
	return Theme{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		Axis:      lipgloss.NewStyle().Foreground(faint),
		Label:     lipgloss.NewStyle().Foreground(faint).Bold(true),
		Empty:     lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		Hour:      lipgloss.NewStyle().Foreground(faint),
		Cursor:    lipgloss.NewStyle().Reverse(true),
		Selection: lipgloss.NewStyle().Background(accent).Foreground(lipgloss.Color("0")),
		Status:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("214")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Help:      lipgloss.NewStyle().Foreground(faint),
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(accent).
				Padding(0, 1),
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle(),
		},
		rows: palette(rows, dark),
		dark: dark,
	}
}

// palette spreads n hues evenly around the HCL wheel at a lightness that
// reads on the given background.
func palette(n int, dark bool) []colorful.Color {
	if n <= 0 {
		return nil
	}
	l := 0.78
	if dark {
		l = 0.5
	}
	out := make([]colorful.Color, n)
	for i := range out {
		h := 200 + 360*float64(i)/float64(n)
		out[i] = colorful.Hcl(h, 0.45, l).Clamped()
	}
	return out
}

// RowColor is the fill of events on row r.
func (t Theme) RowColor(r int) color.Color {
	return t.fill(r)
}

func (t Theme) fill(r int) colorful.Color {
	if len(t.rows) == 0 || r < 0 {
		return colorful.Color{R: 0.35, G: 0.35, B: 0.6}
	}
	return t.rows[r%len(t.rows)]
}

// Event styles the band of an event on row r.
func (t Theme) Event(r int, focused bool) lipgloss.Style {
	fill := t.fill(r)
	ink := lipgloss.Color("231")
	if _, _, l := fill.Hcl(); l > 0.62 {
		ink = lipgloss.Color("16")
	}
	s := lipgloss.NewStyle().Background(fill).Foreground(ink)
	if focused {
		s = s.Bold(true).Underline(true)
	}
	return s
}
