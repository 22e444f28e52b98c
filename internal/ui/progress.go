package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/heycli/hey/internal/provider"
)

// ErrWorkerDisconnected reports a generation worker that ended without
// delivering a result.
var ErrWorkerDisconnected = errors.New("worker disconnected")

var (
	spinnerGlyphs = []byte{'|', '/', '-', '\\'}
	loaderPhases  = []string{"thinking", "drafting", "refining", "finalizing"}
)

const (
	pollInterval  = 90 * time.Millisecond
	phaseInterval = 850 * time.Millisecond
)

type genResult struct {
	out provider.Output
	err error
}

// generateWithProgress runs one generation on a worker goroutine while the
// foreground animates a single status line. The worker never touches the
// terminal; the foreground never touches the network.
func (s *Session) generateWithProgress(ctx context.Context, prompt string) (provider.Output, error) {
	ch := make(chan genResult, 1)
	go func() {
		defer close(ch)
		defer func() {
			// A worker panic closes the channel without a result; the
			// receive in waitWithSpinner reports it as a disconnect.
			_ = recover()
		}()
		out, err := s.Generate(ctx, s.Config, prompt)
		ch <- genResult{out: out, err: err}
	}()
	return s.waitWithSpinner(ch)
}

// waitWithSpinner polls ch on a short tick, redrawing the status line in
// place until a result or a channel close arrives. The spinner glyph moves
// every poll; the phase word moves on its own slower clock.
func (s *Session) waitWithSpinner(ch <-chan genResult) (provider.Output, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	spinIdx, phaseIdx := 0, 0
	lastPhase := time.Now()

	// First frame before any waiting so feedback is immediate.
	s.drawLoaderLine(spinnerGlyphs[spinIdx], loaderPhases[phaseIdx])

	for {
		select {
		case res, ok := <-ch:
			s.clearLine()
			if !ok {
				return provider.Output{}, ErrWorkerDisconnected
			}
			return res.out, res.err
		case <-ticker.C:
			spinIdx = (spinIdx + 1) % len(spinnerGlyphs)
			if time.Since(lastPhase) >= phaseInterval {
				phaseIdx = (phaseIdx + 1) % len(loaderPhases)
				lastPhase = time.Now()
			}
			s.drawLoaderLine(spinnerGlyphs[spinIdx], loaderPhases[phaseIdx])
		}
	}
}

func (s *Session) drawLoaderLine(spin byte, phase string) {
	s.clearLine()
	fmt.Fprintf(s.Out, "%c %s...", spin, phase)
}

// clearLine erases the loader row and returns the cursor to column zero so
// the next draw lands on the same terminal line.
func (s *Session) clearLine() {
	fmt.Fprint(s.Out, "\x1b[2K\r")
}
