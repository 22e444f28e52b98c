package onboarding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/heycli/hey/internal/config"
	"github.com/heycli/hey/internal/modelcache"
)

// ListSource tells the wizard where a model listing came from so the flow
// can say so.
type ListSource int

const (
	SourceLive ListSource = iota
	SourceCache
	SourceBuiltin
)

const listTimeout = 4 * time.Second

// ModelSource resolves the candidate models offered during onboarding. Live
// listings come from the provider's models endpoint; failures fall back to a
// recent cached listing, then to a built-in set.
type ModelSource struct {
	Client *http.Client
	Cache  *modelcache.Store
}

// NewModelSource returns a ModelSource with a short-fuse HTTP client. cache
// may be nil, which disables both reading and writing cached listings.
func NewModelSource(cache *modelcache.Store) *ModelSource {
	return &ModelSource{
		Client: &http.Client{Timeout: listTimeout},
		Cache:  cache,
	}
}

// Candidates returns the model ids to offer for a provider.
func (m *ModelSource) Candidates(ctx context.Context, p config.Provider, baseURL, apiKey string) ([]string, ListSource) {
	ids, err := m.fetchLive(ctx, p, baseURL, apiKey)
	if err == nil && len(ids) > 0 {
		sort.Strings(ids)
		ids = dedupe(ids)
		if m.Cache != nil {
			_ = m.Cache.Put(ctx, p, ids)
		}
		return ids, SourceLive
	}

	if m.Cache != nil {
		if cached, ok := m.Cache.Fresh(ctx, p, modelcache.DefaultTTL); ok {
			return cached, SourceCache
		}
	}

	return builtinModels(p), SourceBuiltin
}

func (m *ModelSource) fetchLive(ctx context.Context, p config.Provider, baseURL, apiKey string) ([]string, error) {
	base := strings.TrimRight(baseURL, "/")
	url := base + "/models"
	if p == config.ProviderAnthropic {
		url = base + "/v1/models"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	switch p {
	case config.ProviderAnthropic:
		req.Header.Set("x-api-key", apiKey)
		req.Header.Set("anthropic-version", "2023-06-01")
	case config.ProviderOpenRouter:
		req.Header.Set("Authorization", "Bearer "+apiKey)
		req.Header.Set("HTTP-Referer", "https://github.com/heycli/hey")
		req.Header.Set("X-Title", "hey")
	case config.ProviderVercel:
		req.Header.Set("Authorization", "Bearer "+apiKey)
		req.Header.Set("X-Vercel-AI-Gateway-Api-Key", apiKey)
	default:
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := m.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("models endpoint returned HTTP %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return extractModelIDs(body), nil
}

type modelEntry struct {
	ID string `json:"id"`
}

// extractModelIDs accepts the usual {"data":[{"id":...}]} envelope as well as
// a bare JSON array of objects carrying ids.
func extractModelIDs(body []byte) []string {
	var envelope struct {
		Data []modelEntry `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 {
		return collectIDs(envelope.Data)
	}

	var flat []modelEntry
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil
	}
	return collectIDs(flat)
}

func collectIDs(entries []modelEntry) []string {
	var ids []string
	for _, e := range entries {
		if e.ID != "" {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for _, id := range sorted {
		if len(out) == 0 || out[len(out)-1] != id {
			out = append(out, id)
		}
	}
	return out
}

// builtinModels is the last-resort candidate list per provider.
func builtinModels(p config.Provider) []string {
	switch p {
	case config.ProviderAnthropic:
		return []string{
			"claude-3-5-haiku-latest",
			"claude-3-5-sonnet-latest",
			"claude-3-7-sonnet-latest",
		}
	case config.ProviderOpenRouter:
		return []string{
			"openai/gpt-4o-mini",
			"anthropic/claude-3.5-haiku",
			"meta-llama/llama-3.1-70b-instruct",
		}
	case config.ProviderVercel:
		return []string{
			"openai/gpt-4o-mini",
			"anthropic/claude-3-5-haiku",
			"xai/grok-beta",
		}
	default:
		return []string{
			"gpt-4o-mini",
			"gpt-4o",
			"gpt-4.1-mini",
			"gpt-4.1",
		}
	}
}
