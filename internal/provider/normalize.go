package provider

import (
	"encoding/json"
	"strings"

	"github.com/heycli/hey/internal/safety"
)

// placeholderExplanation fills in when the model skipped the JSON contract
// and only a bare command could be recovered.
const placeholderExplanation = "Model did not provide structured explanation."

// modelReply mirrors the JSON object the system prompt asks for. Safety stays
// a raw string here so mislabeled values can be corrected before they reach
// an Output.
type modelReply struct {
	Command     string `json:"command"`
	Explanation string `json:"explanation"`
	Safety      string `json:"safety"`
}

// normalize turns raw model text into a validated Output. Structured JSON is
// preferred; anything else falls back to treating the first non-blank line,
// stripped of fencing backticks, as the command. The safety label is
// validated exactly once: a recognized model label passes through, anything
// else is recomputed from the command text.
func (g *Generator) normalize(raw string) (Output, error) {
	var reply modelReply
	if err := json.Unmarshal([]byte(raw), &reply); err == nil {
		command := strings.TrimSpace(reply.Command)
		if command == "" {
			return Output{}, ErrEmptyOutput
		}
		level, ok := safety.ParseLevel(reply.Safety)
		if !ok {
			level = g.classifier.Classify(command)
		}
		return Output{Command: command, Explanation: reply.Explanation, Safety: level}, nil
	}

	cleaned := strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), "`"))
	command := firstNonBlankLine(cleaned)
	if command == "" {
		return Output{}, ErrEmptyOutput
	}
	return Output{
		Command:     command,
		Explanation: placeholderExplanation,
		Safety:      g.classifier.Classify(command),
	}, nil
}

func firstNonBlankLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
