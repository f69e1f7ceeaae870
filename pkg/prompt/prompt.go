// Package prompt asks the user for titles and confirmations on the terminal.
package prompt

import (
	"io"
	"strings"

	"github.com/manifoldco/promptui"
)

// Terminal prompts with promptui. Nil streams use the process terminal.
type Terminal struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

// PromptText asks for a line of text. ok is false when the user aborted.
func (t Terminal) PromptText(message, def string) (string, bool) {
	templates := &promptui.PromptTemplates{
		Prompt:  "{{ . }} ",
		Valid:   "{{ . | green }} ",
		Invalid: "{{ . | red }} ",
		Success: "{{ . | bold }} ",
	}
	p := promptui.Prompt{
		Label:     message,
		Default:   def,
		Templates: templates,
		Stdin:     t.Stdin,
		Stdout:    t.Stdout,
	}
	result, err := p.Run()
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(result), true
}

// Confirm asks a yes/no question; anything but yes declines.
func (t Terminal) Confirm(message string) bool {
	p := promptui.Prompt{
		Label:     message,
		IsConfirm: true,
		Stdin:     t.Stdin,
		Stdout:    t.Stdout,
	}
	_, err := p.Run()
	return err == nil
}

// Yes approves everything; it backs --yes flags.
type Yes struct{}

func (Yes) Confirm(string) bool { return true }

// Static answers text prompts with a fixed title; an empty Title declines.
type Static struct {
	Title string
}

func (s Static) PromptText(string, string) (string, bool) {
	if s.Title == "" {
		return "", false
	}
	return s.Title, true
}
