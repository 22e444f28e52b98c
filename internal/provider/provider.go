// Package provider turns a natural-language prompt into one generated shell
// command by calling the configured model backend over HTTP.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/heycli/hey/internal/config"
	"github.com/heycli/hey/internal/safety"
)

var (
	// ErrEmptyOutput means normalization could not extract a command.
	ErrEmptyOutput = errors.New("model returned empty output")
	// ErrMalformedResponse means the backend's JSON envelope was missing the
	// expected message content.
	ErrMalformedResponse = errors.New("unexpected response envelope")
	// ErrNoTextContent means an Anthropic response carried no text block.
	ErrNoTextContent = errors.New("no text content returned")
)

// systemPrompt steers every backend toward a single structured reply.
const systemPrompt = "You convert natural language intent into exactly one bash command. " +
	"Return JSON only with keys: command, explanation, safety. " +
	"safety must be one of safe|caution|risky. " +
	"command must be plain bash (no backticks, no markdown, no leading $). " +
	"Keep commands concise and practical for macOS/Linux."

func userMessage(prompt string) string {
	return "User request: " + prompt
}

// Output is one generated command with its explanation and advisory safety
// tag. Command is non-empty and Safety always holds a valid level.
type Output struct {
	Command     string       `json:"command"`
	Explanation string       `json:"explanation"`
	Safety      safety.Level `json:"safety"`
}

// Generator dispatches generation requests to the configured backend. One
// Generator is built per process; its HTTP client is shared across requests
// and safe for use from a worker goroutine.
type Generator struct {
	Debug bool

	client     *http.Client
	classifier *safety.Classifier
}

// New returns a Generator using the given classifier for safety labels the
// model omits or garbles.
func New(classifier *safety.Classifier) *Generator {
	return &Generator{
		client:     &http.Client{Timeout: 30 * time.Second},
		classifier: classifier,
	}
}

// Generate runs one request against the backend selected by cfg.Provider.
// The switch is exhaustive over the closed provider set; adding a backend
// means adding an arm here.
func (g *Generator) Generate(ctx context.Context, cfg *config.Config, prompt string) (Output, error) {
	if g.Debug {
		fmt.Fprintf(os.Stderr, "[DEBUG] generating via %s model=%s base=%s\n", cfg.Provider, cfg.Model, cfg.BaseURL)
	}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		return g.openAILike(ctx, cfg, prompt, modeOpenAI)
	case config.ProviderOpenRouter:
		return g.openAILike(ctx, cfg, prompt, modeOpenRouter)
	case config.ProviderVercel:
		return g.openAILike(ctx, cfg, prompt, modeVercel)
	case config.ProviderAnthropic:
		return g.anthropic(ctx, cfg, prompt)
	default:
		return Output{}, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
}

// apiError turns a non-2xx response into an error, surfacing the backend's
// own message when the body carries one.
func apiError(resp *http.Response) error {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&envelope)
	if envelope.Error.Message != "" {
		return fmt.Errorf("request failed: API error (status %d): %s", resp.StatusCode, envelope.Error.Message)
	}
	return fmt.Errorf("request failed: HTTP %s", resp.Status)
}
