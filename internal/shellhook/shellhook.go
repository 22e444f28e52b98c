// Package shellhook installs and maintains the shell integration block that
// lets hey hand a generated command back to the parent shell, where it lands
// in history and runs with the user's own aliases and functions.
package shellhook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	beginMarker = "# >>> hey integration >>>"
	endMarker   = "# <<< hey integration <<<"
)

// Shell is a supported login shell.
type Shell string

const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
)

func (s Shell) String() string {
	return string(s)
}

func (s Shell) rcFilename() string {
	if s == ShellZsh {
		return ".zshrc"
	}
	return ".bashrc"
}

// ParseShell maps a user-supplied shell name to a Shell.
func ParseShell(name string) (Shell, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bash":
		return ShellBash, true
	case "zsh":
		return ShellZsh, true
	}
	return "", false
}

// DetectShell infers the user's shell from $SHELL.
func DetectShell() (Shell, bool) {
	return ParseShell(filepath.Base(os.Getenv("SHELL")))
}

// Block returns the marker-delimited wrapper function for the given shell.
// The two shells differ only in how a command is recorded into history.
func Block(shell Shell) string {
	history := `history -s "$cmd"`
	if shell == ShellZsh {
		history = `print -s -- "$cmd"`
	}
	return beginMarker + "\n" + wrapperBody(history) + "\n" + endMarker + "\n"
}

// wrapperBody builds the hey() function. It stays out of the way for
// non-interactive calls and for subcommands and flags that must reach the
// real binary untouched; everything else goes through the temp-file
// hand-off so the generated command can be echoed, recorded and evaluated
// in the calling shell. The temp file is removed on failure as well.
func wrapperBody(historyLine string) string {
	return `hey() {
  if [[ ! -t 0 || ! -t 1 ]]; then
    command hey "$@"
    return $?
  fi
  for arg in "$@"; do
    case "$arg" in
      setup|init|-h|--help|--json|--plain)
        command hey "$@"
        return $?
        ;;
    esac
  done
  local __hey_tmp
  __hey_tmp="$(mktemp)" || return 1
  command hey --output-file "$__hey_tmp" "$@" || {
    local __hey_status=$?
    rm -f "$__hey_tmp"
    return $__hey_status
  }
  local cmd
  cmd="$(cat "$__hey_tmp")"
  rm -f "$__hey_tmp"
  [[ -z "$cmd" ]] && return 1
  printf '%s\n' "$cmd"
  ` + historyLine + `
  eval "$cmd"
}`
}

// Upsert replaces the existing marker block with block, or appends block
// when no marker pair is present. The boolean reports whether the returned
// content differs from the input, which makes repeated installs no-ops.
func Upsert(existing, block string) (string, bool) {
	if start := strings.Index(existing, beginMarker); start >= 0 {
		if endRel := strings.Index(existing[start:], endMarker); endRel >= 0 {
			end := start + endRel + len(endMarker)

			var out strings.Builder
			prefix := existing[:start]
			out.WriteString(prefix)
			if prefix != "" && !strings.HasSuffix(prefix, "\n") {
				out.WriteString("\n")
			}
			out.WriteString(block)
			trailing := strings.TrimLeft(existing[end:], "\n")
			if trailing != "" {
				out.WriteString("\n")
				out.WriteString(trailing)
				if !strings.HasSuffix(trailing, "\n") {
					out.WriteString("\n")
				}
			}

			result := out.String()
			return result, result != existing
		}
	}

	out := existing
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	if out != "" {
		out += "\n"
	}
	out += block
	return out, true
}

// InstallResult reports where the integration block was written and whether
// the file actually changed.
type InstallResult struct {
	Shell   Shell
	RCPath  string
	Updated bool
}

// Install upserts the wrapper block into the shell's rc file, writing only
// when the content changes.
func Install(shell Shell) (InstallResult, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return InstallResult{}, fmt.Errorf("failed to locate home directory: %w", err)
	}
	rcPath := filepath.Join(home, shell.rcFilename())

	existing := ""
	if data, err := os.ReadFile(rcPath); err == nil {
		existing = string(data)
	}

	content, updated := Upsert(existing, Block(shell))
	if updated {
		if err := os.WriteFile(rcPath, []byte(content), 0644); err != nil {
			return InstallResult{}, fmt.Errorf("failed to write %s: %w", rcPath, err)
		}
	}

	return InstallResult{Shell: shell, RCPath: rcPath, Updated: updated}, nil
}
