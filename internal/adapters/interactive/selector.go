package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// ConfirmerAdapter asks yes/no questions on the terminal
type ConfirmerAdapter struct {
	config *config.RuntimeConfig
	stdin  io.ReadCloser
	stdout io.WriteCloser
}

// NewConfirmerAdapter creates a confirmer reading from the process's terminal
func NewConfirmerAdapter(cfg *config.RuntimeConfig) *ConfirmerAdapter {
	return &ConfirmerAdapter{config: cfg}
}

// Confirm returns true when the user answers yes. Declining is not an error.
func (c *ConfirmerAdapter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if c.config.NonInteractive {
		return false, fmt.Errorf("confirmation required but running in non-interactive mode")
	}

	p := promptui.Prompt{
		Label:     prompt,
		IsConfirm: true,
		Stdin:     c.stdin,
		Stdout:    c.stdout,
	}

	_, err := p.Run()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, promptui.ErrAbort) {
		return false, nil
	}
	if errors.Is(err, promptui.ErrInterrupt) {
		return false, fmt.Errorf("interrupted")
	}
	return false, err
}

var _ usecase.Confirmer = (*ConfirmerAdapter)(nil)
