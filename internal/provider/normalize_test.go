package provider

import (
	"errors"
	"testing"

	"github.com/heycli/hey/internal/safety"
)

func testGenerator() *Generator {
	return New(safety.NewClassifier())
}

func TestNormalizeStructuredKeepsValidSafety(t *testing.T) {
	t.Parallel()
	g := testGenerator()

	out, err := g.normalize(`{"command":"rm -rf /tmp/x","explanation":"removes it","safety":"safe"}`)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	// A recognized label passes through untouched, even when the classifier
	// would disagree.
	if out.Safety != safety.LevelSafe {
		t.Fatalf("safety = %q, want safe", out.Safety)
	}
	if out.Command != "rm -rf /tmp/x" || out.Explanation != "removes it" {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestNormalizeStructuredNormalizesLabelCase(t *testing.T) {
	t.Parallel()
	g := testGenerator()

	out, err := g.normalize(`{"command":"ls","explanation":"lists","safety":" Caution "}`)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out.Safety != safety.LevelCaution {
		t.Fatalf("safety = %q, want caution", out.Safety)
	}
}

func TestNormalizeStructuredReclassifiesBadLabel(t *testing.T) {
	t.Parallel()
	g := testGenerator()

	cases := []struct {
		raw  string
		want safety.Level
	}{
		{`{"command":"sudo rm -rf /","explanation":"","safety":"extreme"}`, safety.LevelRisky},
		{`{"command":"chmod 777 file.txt","explanation":""}`, safety.LevelCaution},
		{`{"command":"ls -la","explanation":"","safety":""}`, safety.LevelSafe},
	}
	for _, tc := range cases {
		out, err := g.normalize(tc.raw)
		if err != nil {
			t.Fatalf("normalize(%q): %v", tc.raw, err)
		}
		if out.Safety != tc.want {
			t.Fatalf("normalize(%q) safety = %q, want %q", tc.raw, out.Safety, tc.want)
		}
	}
}

func TestNormalizeFallbackStripsFencing(t *testing.T) {
	t.Parallel()
	g := testGenerator()

	out, err := g.normalize("```\nls -la\n```")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out.Command != "ls -la" {
		t.Fatalf("command = %q, want %q", out.Command, "ls -la")
	}
	if out.Explanation != placeholderExplanation {
		t.Fatalf("explanation = %q, want placeholder", out.Explanation)
	}
	if out.Safety != safety.LevelSafe {
		t.Fatalf("safety = %q, want safe", out.Safety)
	}
}

func TestNormalizeFallbackTakesFirstNonBlankLine(t *testing.T) {
	t.Parallel()
	g := testGenerator()

	out, err := g.normalize("\n\n  df -h  \nsecond line\n")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out.Command != "df -h" {
		t.Fatalf("command = %q, want %q", out.Command, "df -h")
	}
}

func TestNormalizeEmptyOutput(t *testing.T) {
	t.Parallel()
	g := testGenerator()

	for _, raw := range []string{"", "   \n\t\n", "``````", `{"command":"  ","explanation":"x","safety":"safe"}`} {
		_, err := g.normalize(raw)
		if !errors.Is(err, ErrEmptyOutput) {
			t.Fatalf("normalize(%q) err = %v, want ErrEmptyOutput", raw, err)
		}
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	t.Parallel()
	g := testGenerator()

	raw := `{"command":"sudo systemctl restart nginx","explanation":"restarts nginx","safety":"bogus"}`
	first, err := g.normalize(raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	second, err := g.normalize(raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if first != second {
		t.Fatalf("normalize not deterministic: %+v vs %+v", first, second)
	}
}
