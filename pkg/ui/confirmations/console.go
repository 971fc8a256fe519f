// Package confirmations provides the interactive prompts: yes/no questions
// before mutating workflows and the wallpaper picker.
package confirmations

import (
	"io"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/arthur-debert/dotstow/pkg/errors"
)

// Console prompts on a terminal. Stdin and Stdout default to the process
// streams when nil.
type Console struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

// NewConsole creates a console prompt on the process streams
func NewConsole() *Console {
	return &Console{}
}

// Confirm asks a yes/no question. Anything but yes is CANCELLED.
func (c *Console) Confirm(question string) error {
	p := promptui.Prompt{
		Label:     question,
		IsConfirm: true,
		Stdin:     c.Stdin,
		Stdout:    c.Stdout,
	}

	answer, err := p.Run()
	if err != nil {
		if err == promptui.ErrAbort || err == promptui.ErrInterrupt || err == promptui.ErrEOF {
			return errors.New(errors.ErrCancelled, "declined: "+question)
		}
		return errors.Wrap(err, errors.ErrInternal, "failed to read answer")
	}
	if !Affirmative(answer) {
		return errors.New(errors.ErrCancelled, "declined: "+question)
	}
	return nil
}

// Choose shows a searchable list and returns the picked index. Escaping the
// list is CANCELLED.
func (c *Console) Choose(label string, items []string) (int, error) {
	if len(items) == 0 {
		return -1, errors.New(errors.ErrNotFound, "nothing to choose from")
	}

	p := promptui.Select{
		Label: label,
		Items: items,
		Size:  12,
		Searcher: func(input string, index int) bool {
			return strings.Contains(strings.ToLower(items[index]), strings.ToLower(input))
		},
		Stdin:  c.Stdin,
		Stdout: c.Stdout,
	}

	index, _, err := p.Run()
	if err != nil {
		if err == promptui.ErrInterrupt || err == promptui.ErrEOF || err == promptui.ErrAbort {
			return -1, errors.New(errors.ErrCancelled, "nothing chosen")
		}
		return -1, errors.Wrap(err, errors.ErrInternal, "failed to read choice")
	}
	return index, nil
}

// Affirmative reports whether a typed answer means yes
func Affirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
