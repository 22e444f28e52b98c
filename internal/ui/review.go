package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"

	"github.com/heycli/hey/internal/config"
	"github.com/heycli/hey/internal/executor"
	"github.com/heycli/hey/internal/provider"
)

// Session owns one interactive review loop over a single prompt. The
// collaborator fields exist so tests can script keystrokes and observe side
// effects without a terminal.
type Session struct {
	Config *config.Config
	Out    io.Writer

	Generate func(ctx context.Context, cfg *config.Config, prompt string) (provider.Output, error)
	Keys     KeyReader
	Execute  func(command string) error
	Copy     func(text string) error
}

// NewSession wires a Session to the real terminal, executor and clipboard.
func NewSession(cfg *config.Config, gen *provider.Generator) *Session {
	return &Session{
		Config:   cfg,
		Out:      color.Output,
		Generate: gen.Generate,
		Keys:     NewTermKeyReader(),
		Execute:  executor.Execute,
		Copy:     clipboard.WriteAll,
	}
}

type verdict int

const (
	verdictDone verdict = iota
	verdictRegenerate
)

// Run drives the generate/review loop until the user accepts, quits, or a
// generation attempt fails. Acceptance either writes the command to the
// configured output file or executes it; the executor's error carries the
// child's exit status.
func (s *Session) Run(ctx context.Context, prompt string) error {
	for {
		out, err := s.generateWithProgress(ctx, prompt)
		if err != nil {
			return err
		}
		s.renderCard(prompt, out)

		v, err := s.review(out)
		if v != verdictRegenerate {
			return err
		}
	}
}

// review handles keystrokes for one rendered result. Only accept, quit and
// regenerate leave the loop; every other key reports and waits again.
func (s *Session) review(out provider.Output) (verdict, error) {
	for {
		s.printHints()
		key, err := s.Keys.ReadKey()
		if err != nil {
			return verdictDone, err
		}
		fmt.Fprintln(s.Out)

		if key == '\r' || key == '\n' {
			cmd := strings.TrimSpace(out.Command)
			if cmd == "" {
				yellow.Fprintln(s.Out, "Generated command was empty.")
				continue
			}
			if s.Config.OutputFile != "" {
				if err := os.WriteFile(s.Config.OutputFile, []byte(cmd+"\n"), 0644); err != nil {
					return verdictDone, fmt.Errorf("failed to write output file: %w", err)
				}
				return verdictDone, nil
			}
			return verdictDone, s.Execute(cmd)
		}
		if key == keyCtrlC || key == keyCtrlD {
			return verdictDone, nil
		}

		switch unicode.ToLower(key) {
		case 'r':
			if !s.Config.NoFun {
				fmt.Fprintln(s.Out, "Trying a different phrasing path...")
			}
			return verdictRegenerate, nil
		case 'e':
			fmt.Fprintln(s.Out)
			cyan.Fprintln(s.Out, "Explanation")
			fmt.Fprintln(s.Out, strings.TrimSpace(out.Explanation))
			fmt.Fprintln(s.Out)
		case 'c':
			if err := s.Copy(strings.TrimSpace(out.Command)); err != nil {
				yellow.Fprintln(s.Out, "Copy not supported on this system.")
			} else {
				green.Fprintln(s.Out, "Copied to clipboard.")
			}
		case 'q':
			return verdictDone, nil
		default:
			yellow.Fprintln(s.Out, "Unknown key. Press Enter, r, e, c, or q.")
		}
	}
}
