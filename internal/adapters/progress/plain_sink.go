package progress

import (
	"context"
	"fmt"
	"io"

	"github.com/trebuchet-org/fundme/internal/usecase"
)

// PlainSink prints log lines without colors or spinners, for non-interactive runs
type PlainSink struct {
	out    io.Writer
	errOut io.Writer
}

// NewPlainSink creates a sink printing to out and errOut
func NewPlainSink(out, errOut io.Writer) *PlainSink {
	return &PlainSink{out: out, errOut: errOut}
}

// OnProgress does nothing with progress events
func (p *PlainSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {}

func (p *PlainSink) Info(message string) {
	fmt.Fprintln(p.out, message)
}

func (p *PlainSink) Error(message string) {
	fmt.Fprintln(p.errOut, message)
}

var _ usecase.ProgressSink = (*PlainSink)(nil)
