package shellhook

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestBlockContainsPassthroughGuards(t *testing.T) {
	for _, shell := range []Shell{ShellBash, ShellZsh} {
		block := Block(shell)

		if !strings.HasPrefix(block, beginMarker+"\n") {
			t.Errorf("%s block missing begin marker", shell)
		}
		if !strings.HasSuffix(block, endMarker+"\n") {
			t.Errorf("%s block missing end marker", shell)
		}
		if !strings.Contains(block, "if [[ ! -t 0 || ! -t 1 ]]; then") {
			t.Errorf("%s block missing non-interactive guard", shell)
		}
		if !strings.Contains(block, "setup|init|-h|--help|--json|--plain") {
			t.Errorf("%s block missing passthrough cases", shell)
		}
		if !strings.Contains(block, `command hey --output-file "$__hey_tmp"`) {
			t.Errorf("%s block missing temp-file hand-off", shell)
		}
		if !strings.Contains(block, `eval "$cmd"`) {
			t.Errorf("%s block missing eval", shell)
		}
	}

	if !strings.Contains(Block(ShellBash), `history -s "$cmd"`) {
		t.Error("bash block should record history with history -s")
	}
	if !strings.Contains(Block(ShellZsh), `print -s -- "$cmd"`) {
		t.Error("zsh block should record history with print -s")
	}
}

func TestUpsertIdempotent(t *testing.T) {
	block := Block(ShellZsh)

	first, changed := Upsert("", block)
	if !changed {
		t.Fatal("first upsert into empty content should report a change")
	}
	if first != block {
		t.Fatalf("first upsert into empty content should be the bare block, got %q", first)
	}

	second, changed := Upsert(first, block)
	if changed {
		t.Error("second upsert should be a no-op")
	}
	if second != first {
		t.Errorf("second upsert altered content:\n%q\nvs\n%q", second, first)
	}
}

func TestUpsertReplacesStaleBlock(t *testing.T) {
	stale := "export PATH=$PATH:~/bin\n\n" +
		beginMarker + "\nold wrapper body\n" + endMarker + "\n\n" +
		"alias ll='ls -la'\n"
	block := Block(ShellBash)

	got, changed := Upsert(stale, block)
	if !changed {
		t.Fatal("replacing a stale block should report a change")
	}
	if strings.Contains(got, "old wrapper body") {
		t.Error("stale wrapper body survived the upsert")
	}
	if !strings.HasPrefix(got, "export PATH=$PATH:~/bin\n") {
		t.Errorf("content before the block was disturbed: %q", got)
	}
	if !strings.HasSuffix(got, "alias ll='ls -la'\n") {
		t.Errorf("content after the block was disturbed: %q", got)
	}
	if !strings.Contains(got, block) {
		t.Error("fresh block missing from result")
	}

	again, changed := Upsert(got, block)
	if changed || again != got {
		t.Error("re-upserting the fresh block should be a no-op")
	}
}

func TestUpsertAppendsWhenNoMarkers(t *testing.T) {
	existing := "# my rc file\nexport EDITOR=vim"
	block := Block(ShellBash)

	got, changed := Upsert(existing, block)
	if !changed {
		t.Fatal("appending to a file without markers should report a change")
	}
	if !strings.HasPrefix(got, "# my rc file\nexport EDITOR=vim\n\n"+beginMarker) {
		t.Errorf("block should be appended after a separating blank line, got %q", got)
	}
	if !strings.HasSuffix(got, endMarker+"\n") {
		t.Errorf("result should end with the block, got %q", got)
	}
}

func TestInstallWritesAndThenNoOps(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("HOME does not drive the home directory on windows")
	}
	home := t.TempDir()
	t.Setenv("HOME", home)

	res, err := Install(ShellBash)
	if err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	if !res.Updated {
		t.Error("first install should report an update")
	}
	if res.RCPath != filepath.Join(home, ".bashrc") {
		t.Errorf("unexpected rc path %q", res.RCPath)
	}

	data, err := os.ReadFile(res.RCPath)
	if err != nil {
		t.Fatalf("failed to read rc file: %v", err)
	}
	if string(data) != Block(ShellBash) {
		t.Error("rc file does not contain the integration block")
	}

	res, err = Install(ShellBash)
	if err != nil {
		t.Fatalf("second install failed: %v", err)
	}
	if res.Updated {
		t.Error("second install should be a no-op")
	}
}

func TestParseShell(t *testing.T) {
	cases := []struct {
		in   string
		want Shell
		ok   bool
	}{
		{"bash", ShellBash, true},
		{"zsh", ShellZsh, true},
		{" Zsh ", ShellZsh, true},
		{"fish", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseShell(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseShell(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDetectShell(t *testing.T) {
	t.Setenv("SHELL", "/usr/local/bin/zsh")
	if got, ok := DetectShell(); !ok || got != ShellZsh {
		t.Errorf("DetectShell = %q, %v; want zsh", got, ok)
	}

	t.Setenv("SHELL", "")
	if _, ok := DetectShell(); ok {
		t.Error("DetectShell should fail when SHELL is unset")
	}
}
