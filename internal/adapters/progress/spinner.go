package progress

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

var (
	infoStyle  = color.New(color.FgCyan)
	errorStyle = color.New(color.FgRed)
	stageStyle = color.New(color.FgYellow)
)

// SpinnerSink prints deployment logs and shows a spinner while waiting on the chain
type SpinnerSink struct {
	out     io.Writer
	errOut  io.Writer
	spinner *spinner.Spinner

	mu sync.Mutex
}

// NewSpinnerSink creates a sink printing to out and errOut. The spinner is drawn on errOut.
func NewSpinnerSink(out, errOut io.Writer) *SpinnerSink {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(errOut))
	s.HideCursor = false

	return &SpinnerSink{
		out:     out,
		errOut:  errOut,
		spinner: s,
	}
}

// OnProgress starts, updates or stops the spinner. The spinner only draws on a terminal.
func (r *SpinnerSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.Stage == usecase.StageCompleted || !event.Spinner {
		if r.spinner.Active() {
			r.spinner.Stop()
		}
		return
	}

	r.spinner.Suffix = fmt.Sprintf(" %s %s", stageStyle.Sprint(event.Stage), event.Message)
	if !r.spinner.Active() {
		r.spinner.Start()
	}
}

// Info prints a log line
func (r *SpinnerSink) Info(message string) {
	r.printPaused(r.out, infoStyle, message)
}

// Error prints an error line
func (r *SpinnerSink) Error(message string) {
	r.printPaused(r.errOut, errorStyle, message)
}

// printPaused stops the spinner while printing so lines are not interleaved with it
func (r *SpinnerSink) printPaused(w io.Writer, style *color.Color, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	style.Fprintln(w, message)

	if wasActive {
		r.spinner.Start()
	}
}

var _ usecase.ProgressSink = (*SpinnerSink)(nil)
