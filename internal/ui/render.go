// Package ui owns everything the user sees during a review session: the
// animated status line, the result card, keystroke handling and the small
// colored helpers shared with setup flows.
package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/heycli/hey/internal/provider"
	"github.com/heycli/hey/internal/safety"
)

var (
	bold   = color.New(color.Bold)
	dim    = color.New(color.Faint)
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
)

// renderCard shows the generated result: prompt, command, safety tag and,
// when the explain flag is set, the explanation.
func (s *Session) renderCard(prompt string, out provider.Output) {
	fmt.Fprintln(s.Out)
	fmt.Fprintf(s.Out, "%s %s\n", bold.Sprint("Prompt:"), strings.TrimSpace(prompt))
	fmt.Fprintln(s.Out)
	cyan.Fprintln(s.Out, "Command")
	fmt.Fprintln(s.Out, strings.TrimSpace(out.Command))
	fmt.Fprintf(s.Out, "%s %s\n", dim.Sprint("Safety:"), paintLevel(out.Safety))
	if s.Config.Explain {
		fmt.Fprintln(s.Out)
		cyan.Fprintln(s.Out, "Explanation")
		fmt.Fprintln(s.Out, strings.TrimSpace(out.Explanation))
	}
	fmt.Fprintln(s.Out)
}

func (s *Session) printHints() {
	fmt.Fprintf(s.Out, "%s  %s  %s  %s  %s\n",
		dim.Sprint("[Enter] use"),
		dim.Sprint("[r] regenerate"),
		dim.Sprint("[e] explain"),
		dim.Sprint("[c] copy"),
		dim.Sprint("[q] quit"))
	dim.Fprint(s.Out, "action > ")
}

func paintLevel(level safety.Level) string {
	switch level {
	case safety.LevelRisky:
		return red.Sprint(level)
	case safety.LevelCaution:
		return yellow.Sprint(level)
	default:
		return green.Sprint(level)
	}
}
