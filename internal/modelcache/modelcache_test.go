package modelcache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/heycli/hey/internal/config"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "hey", "models.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGetMissReturnsNothing(t *testing.T) {
	store := openTestStore(t)

	ids, fetchedAt, err := store.Get(context.Background(), config.ProviderOpenAI)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected no ids, got %v", ids)
	}
	if !fetchedAt.IsZero() {
		t.Errorf("expected zero fetch time, got %v", fetchedAt)
	}
}

func TestPutThenGetPreservesOrder(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	want := []string{"gpt-4o-mini", "gpt-4o", "gpt-4.1-mini"}
	if err := store.Put(ctx, config.ProviderOpenAI, want); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	ids, fetchedAt, err := store.Get(ctx, config.ProviderOpenAI)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(ids) != len(want) {
		t.Fatalf("got %d ids, want %d", len(ids), len(want))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
	if time.Since(fetchedAt) > time.Minute {
		t.Errorf("fetch time %v is not recent", fetchedAt)
	}
}

func TestPutReplacesListing(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, config.ProviderAnthropic, []string{"old-a", "old-b", "old-c"}); err != nil {
		t.Fatalf("first Put failed: %v", err)
	}
	if err := store.Put(ctx, config.ProviderAnthropic, []string{"claude-3-5-haiku-latest"}); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	ids, _, err := store.Get(ctx, config.ProviderAnthropic)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != "claude-3-5-haiku-latest" {
		t.Errorf("stale listing survived replace: %v", ids)
	}
}

func TestProvidersAreIsolated(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, config.ProviderOpenAI, []string{"gpt-4o"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Put(ctx, config.ProviderOpenRouter, []string{"openai/gpt-4o-mini"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	ids, _, err := store.Get(ctx, config.ProviderOpenAI)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != "gpt-4o" {
		t.Errorf("openai listing polluted: %v", ids)
	}
}

func TestFreshHonorsTTL(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, config.ProviderVercel, []string{"openai/gpt-4o-mini"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if ids, ok := store.Fresh(ctx, config.ProviderVercel, DefaultTTL); !ok || len(ids) != 1 {
		t.Errorf("just-written listing should be fresh, got %v, %v", ids, ok)
	}
	if _, ok := store.Fresh(ctx, config.ProviderVercel, -time.Second); ok {
		t.Error("listing should be stale under a negative ttl")
	}
	if _, ok := store.Fresh(ctx, config.ProviderOpenAI, DefaultTTL); ok {
		t.Error("missing listing should not be fresh")
	}
}

func TestReopenKeepsListing(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "models.db")
	ctx := context.Background()

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if err := store.Put(ctx, config.ProviderOpenAI, []string{"gpt-4o-mini"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer reopened.Close()

	ids, _, err := reopened.Get(ctx, config.ProviderOpenAI)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != "gpt-4o-mini" {
		t.Errorf("listing lost across reopen: %v", ids)
	}
}
