package tui

import (
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/slotboard/pkg/gesture"
)

// titlePrompt collects the title of a drafted event.
type titlePrompt struct {
	draft gesture.Draft
	span  string
	input textinput.Model
}

func newTitlePrompt(d gesture.Draft, span string) *titlePrompt {
	ti := textinput.New()
	ti.Placeholder = "Event title"
	ti.CharLimit = 120
	ti.Prompt = "> "
	ti.SetWidth(40)
	return &titlePrompt{draft: d, span: span, input: ti}
}

func (p *titlePrompt) Init() tea.Cmd {
	return p.input.Focus()
}

func (p *titlePrompt) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

// View renders the prompt and the terminal cursor relative to its frame.
func (p *titlePrompt) View(th Theme) (string, *tea.Cursor) {
	title := th.Modal.Title.Render("New event " + p.span)
	body := lipgloss.JoinVertical(lipgloss.Left, title, p.input.View(), th.Help.Render("enter to create, esc to cancel"))
	var cursor *tea.Cursor
	if c := p.input.Cursor(); c != nil {
		cp := *c
		// border + padding on the left, border + title line above.
		cp.X += 2
		cp.Y += 2
		cursor = &cp
	}
	return th.Modal.Frame.Render(body), cursor
}

// confirmation gates a destructive operation behind y/n.
type confirmation struct {
	message string
	run     func() (string, error)
}

func (c *confirmation) View(th Theme) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		th.Modal.Title.Render(c.message),
		th.Help.Render("y to confirm, n to cancel"),
	)
	return th.Modal.Frame.Render(body)
}
