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

func (g *Generator) anthropic(ctx context.Context, cfg *config.Config, prompt string) (Output, error) {
	url := strings.TrimRight(cfg.BaseURL, "/") + "/v1/messages"
	reqBody := map[string]interface{}{
		"model":       cfg.Model,
		"max_tokens":  300,
		"temperature": 0,
		"system":      systemPrompt,
		"messages": []map[string]string{
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
	req.Header.Set("x-api-key", cfg.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := g.client.Do(req)
	if err != nil {
		return Output{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Output{}, apiError(resp)
	}

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Output{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	for _, block := range result.Content {
		if block.Type == "text" {
			return g.normalize(block.Text)
		}
	}
	return Output{}, ErrNoTextContent
}
