package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/heycli/hey/internal/config"
	"github.com/heycli/hey/internal/provider"
)

func TestProgressFrameCountForSlowWorker(t *testing.T) {
	var buf bytes.Buffer
	s := &Session{
		Config: &config.Config{},
		Out:    &buf,
		Generate: func(ctx context.Context, cfg *config.Config, prompt string) (provider.Output, error) {
			time.Sleep(500 * time.Millisecond)
			return provider.Output{Command: "ls"}, nil
		},
	}

	out, err := s.generateWithProgress(context.Background(), "list files")
	if err != nil {
		t.Fatalf("generateWithProgress: %v", err)
	}
	if out.Command != "ls" {
		t.Fatalf("unexpected output: %+v", out)
	}

	rendered := buf.String()
	// Every frame starts with the erase sequence; the final erase carries no
	// frame behind it.
	frames := strings.Count(rendered, "\x1b[2K") - 1
	if frames < 4 || frames > 7 {
		t.Fatalf("rendered %d frames for a 500ms worker, want between 4 and 7", frames)
	}
	if strings.Contains(rendered, "\n") {
		t.Fatalf("loader must only rewrite its line, got newline in %q", rendered)
	}
	if !strings.Contains(rendered, "thinking") {
		t.Fatalf("first frame missing from %q", rendered)
	}
}

func TestProgressReturnsWorkerError(t *testing.T) {
	var buf bytes.Buffer
	wantErr := errors.New("request failed: boom")
	s := &Session{
		Config: &config.Config{},
		Out:    &buf,
		Generate: func(ctx context.Context, cfg *config.Config, prompt string) (provider.Output, error) {
			return provider.Output{}, wantErr
		},
	}

	_, err := s.generateWithProgress(context.Background(), "anything")
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want worker error", err)
	}
	if strings.Contains(buf.String(), "\n") {
		t.Fatal("loader leaked a newline on the error path")
	}
}

func TestProgressWorkerPanicBecomesDisconnect(t *testing.T) {
	var buf bytes.Buffer
	s := &Session{
		Config: &config.Config{},
		Out:    &buf,
		Generate: func(ctx context.Context, cfg *config.Config, prompt string) (provider.Output, error) {
			panic("worker blew up")
		},
	}

	_, err := s.generateWithProgress(context.Background(), "anything")
	if !errors.Is(err, ErrWorkerDisconnected) {
		t.Fatalf("err = %v, want ErrWorkerDisconnected", err)
	}
}

func TestWaitWithSpinnerClosedChannel(t *testing.T) {
	var buf bytes.Buffer
	s := &Session{Config: &config.Config{}, Out: &buf}

	ch := make(chan genResult)
	close(ch)

	_, err := s.waitWithSpinner(ch)
	if !errors.Is(err, ErrWorkerDisconnected) {
		t.Fatalf("err = %v, want ErrWorkerDisconnected", err)
	}
}
