package progress

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain/config"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

// SpinnerSink prints deploy log lines and shows a spinner while waiting on
// the chain or the explorer
type SpinnerSink struct {
	out     io.Writer
	spinner *spinner.Spinner
	mu      sync.Mutex
}

// NewSpinnerSink creates a sink writing to stdout. Non-interactive runs get no spinner.
func NewSpinnerSink(cfg *config.RuntimeConfig) *SpinnerSink {
	return newSpinnerSink(os.Stdout, !cfg.NonInteractive)
}

func newSpinnerSink(out io.Writer, animate bool) *SpinnerSink {
	sink := &SpinnerSink{out: out}
	if animate {
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
		s.HideCursor = false
		sink.spinner = s
	}
	return sink
}

// OnProgress starts the spinner for events that wait and stops it otherwise
func (r *SpinnerSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.spinner == nil {
		return
	}
	if event.Spinner {
		r.spinner.Suffix = " " + event.Message
		if !r.spinner.Active() {
			r.spinner.Start()
		}
	} else if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// Info prints an info message
func (r *SpinnerSink) Info(message string) {
	r.println(color.New(color.FgCyan), message)
}

// Error prints an error message
func (r *SpinnerSink) Error(message string) {
	r.println(color.New(color.FgRed), message)
}

func (r *SpinnerSink) println(c *color.Color, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wasActive := r.spinner != nil && r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}
	_, _ = c.Fprintln(r.out, message)
	if wasActive {
		r.spinner.Start()
	}
}

var _ usecase.ProgressSink = (*SpinnerSink)(nil)
