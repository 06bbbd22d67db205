package core

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"
)

const defaultAuthRequestTTL = 15 * time.Minute

// GenerateState returns an unpredictable anti-forgery state value: 24 random
// bytes, raw-URL base64 encoded (192 bits of entropy).
func GenerateState() (string, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("core: generate oauth state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// MemoryAuthRequestStore retains authorization drafts keyed by state for
// hosts that run auth-url and exchange inside one process. Consume removes
// the draft, so each state verifies at most once.
type MemoryAuthRequestStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]AuthorizationRequest
}

func NewMemoryAuthRequestStore(ttl time.Duration) *MemoryAuthRequestStore {
	if ttl <= 0 {
		ttl = defaultAuthRequestTTL
	}
	return &MemoryAuthRequestStore{
		ttl:     ttl,
		entries: map[string]AuthorizationRequest{},
	}
}

func (s *MemoryAuthRequestStore) Save(_ context.Context, request AuthorizationRequest) error {
	if s == nil {
		return fmt.Errorf("core: auth request store is not configured")
	}
	state := strings.TrimSpace(request.State)
	if state == "" {
		return fmt.Errorf("core: auth request state is required")
	}
	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	s.entries[state] = cloneAuthorizationRequest(request)
	s.mu.Unlock()

	return nil
}

func (s *MemoryAuthRequestStore) Consume(_ context.Context, state string) (AuthorizationRequest, error) {
	if s == nil {
		return AuthorizationRequest{}, fmt.Errorf("core: auth request store is not configured")
	}
	state = strings.TrimSpace(state)
	if state == "" {
		return AuthorizationRequest{}, fmt.Errorf("core: auth request state is required")
	}

	s.mu.Lock()
	request, ok := s.entries[state]
	if ok {
		delete(s.entries, state)
	}
	s.mu.Unlock()

	if !ok {
		return AuthorizationRequest{}, fmt.Errorf("core: auth request state not found")
	}
	if time.Now().UTC().After(request.CreatedAt.Add(s.ttl)) {
		return AuthorizationRequest{}, fmt.Errorf("core: auth request state expired")
	}

	return cloneAuthorizationRequest(request), nil
}

func cloneAuthorizationRequest(request AuthorizationRequest) AuthorizationRequest {
	cloned := request
	cloned.Scopes = append([]string(nil), request.Scopes...)
	return cloned
}

var _ AuthRequestStore = (*MemoryAuthRequestStore)(nil)
