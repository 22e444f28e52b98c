package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/heycli/hey/internal/config"
)

// openAIMode distinguishes the three backends that share the OpenAI
// chat-completion contract and differ only in auxiliary headers.
type openAIMode int

const (
	modeOpenAI openAIMode = iota
	modeOpenRouter
	modeVercel
)

func (g *Generator) openAILike(ctx context.Context, cfg *config.Config, prompt string, mode openAIMode) (Output, error) {
	url := strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
	reqBody := map[string]interface{}{
		"model":       cfg.Model,
		"temperature": 0,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userMessage(prompt)},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return Output{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return Output{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	switch mode {
	case modeOpenRouter:
		req.Header.Set("HTTP-Referer", "https://github.com/heycli/hey")
		req.Header.Set("X-Title", "hey")
	case modeVercel:
		req.Header.Set("X-Vercel-AI-Gateway-Api-Key", cfg.APIKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return Output{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Output{}, apiError(resp)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Output{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(result.Choices) == 0 {
		return Output{}, fmt.Errorf("%w: no choices returned", ErrMalformedResponse)
	}

	return g.normalize(result.Choices[0].Message.Content)
}
