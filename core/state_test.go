package core

import (
	"context"
	"encoding/base64"
	"testing"
	"time"
)

func TestGenerateState_EntropyAndUniqueness(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 32; i++ {
		state, err := GenerateState()
		if err != nil {
			t.Fatalf("generate state: %v", err)
		}
		raw, err := base64.RawURLEncoding.DecodeString(state)
		if err != nil {
			t.Fatalf("expected url-safe base64 state, got %q: %v", state, err)
		}
		if len(raw)*8 < 128 {
			t.Fatalf("expected at least 128 bits of entropy, got %d", len(raw)*8)
		}
		if _, dup := seen[state]; dup {
			t.Fatalf("expected unique state values, got duplicate %q", state)
		}
		seen[state] = struct{}{}
	}
}

func TestMemoryAuthRequestStore_SaveConsume(t *testing.T) {
	store := NewMemoryAuthRequestStore(time.Minute)

	request := AuthorizationRequest{
		State:            "state_1",
		AdapterID:        "mastodon",
		RedirectURI:      "https://app.example/callback",
		Scopes:           []string{"profile", "write:statuses"},
		AuthorizationURL: "https://mastodon.social/oauth/authorize?state=state_1",
	}
	if err := store.Save(context.Background(), request); err != nil {
		t.Fatalf("save request: %v", err)
	}

	consumed, err := store.Consume(context.Background(), "state_1")
	if err != nil {
		t.Fatalf("consume request: %v", err)
	}
	if consumed.AdapterID != "mastodon" {
		t.Fatalf("expected adapter id roundtrip, got %q", consumed.AdapterID)
	}
	if len(consumed.Scopes) != 2 {
		t.Fatalf("expected scopes roundtrip, got %v", consumed.Scopes)
	}

	if _, err := store.Consume(context.Background(), "state_1"); err == nil {
		t.Fatalf("expected second consume to fail")
	}
}

func TestMemoryAuthRequestStore_ExpiredEntriesFailConsume(t *testing.T) {
	store := NewMemoryAuthRequestStore(time.Minute)

	if err := store.Save(context.Background(), AuthorizationRequest{
		State:     "stale_state",
		CreatedAt: time.Now().UTC().Add(-2 * time.Minute),
	}); err != nil {
		t.Fatalf("save stale request: %v", err)
	}

	if _, err := store.Consume(context.Background(), "stale_state"); err == nil {
		t.Fatalf("expected expired state to be rejected")
	}
}

func TestMemoryAuthRequestStore_RequiresState(t *testing.T) {
	store := NewMemoryAuthRequestStore(time.Minute)

	if err := store.Save(context.Background(), AuthorizationRequest{}); err == nil {
		t.Fatalf("expected save without state to fail")
	}
	if _, err := store.Consume(context.Background(), "  "); err == nil {
		t.Fatalf("expected consume without state to fail")
	}
}
