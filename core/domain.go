package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrSessionRevoked                 = errors.New("core: session is revoked")
	ErrSessionUnauthenticated         = errors.New("core: session has no access token")
	ErrInvalidSessionStatusTransition = errors.New("core: invalid session status transition")
)

// ClientCredentials is the registered OAuth2 client identity. It is loaded
// once from a credentials document and never mutated by the adapter core.
type ClientCredentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
	Website      string
	Name         string
}

func (c ClientCredentials) Validate() error {
	missing := []string{}
	if strings.TrimSpace(c.ClientID) == "" {
		missing = append(missing, "client_id")
	}
	if strings.TrimSpace(c.ClientSecret) == "" {
		missing = append(missing, "client_secret")
	}
	if strings.TrimSpace(c.RedirectURI) == "" {
		missing = append(missing, "redirect_uri")
	}
	if len(missing) > 0 {
		return fmt.Errorf("core: client credentials missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// AuthorizationRequest is the ephemeral draft produced when an authorization
// URL is built. The caller persists it between the auth-url and exchange
// steps; the core is stateless across invocations.
type AuthorizationRequest struct {
	RequestID        string
	AdapterID        string
	State            string
	CodeVerifier     string
	RedirectURI      string
	Scopes           []string
	AuthorizationURL string
	CreatedAt        time.Time
}

type SessionStatus string

const (
	SessionStatusUnauthenticated SessionStatus = "unauthenticated"
	SessionStatusAuthenticated   SessionStatus = "authenticated"
	SessionStatusRevoked         SessionStatus = "revoked"
)

// AccountIdentity describes the remote account a session belongs to. Both
// fields may be empty when identity enrichment failed after the token
// exchange; the session stays usable regardless.
type AccountIdentity struct {
	Handle      string
	DisplayName string
}

// Session is one authenticated user's relationship with a remote server.
// The core receives and returns Session values; persistence is owned by the
// caller.
type Session struct {
	ID           string
	AdapterID    string
	TokenType    string
	AccessToken  string
	RefreshToken string
	Scope        string
	Identity     AccountIdentity
	CreatedAt    time.Time
	RevokedAt    *time.Time
	Revoked      bool
}

// Status derives the session lifecycle state. A session carries an access
// token if and only if it reports SessionStatusAuthenticated.
func (s Session) Status() SessionStatus {
	if s.Revoked {
		return SessionStatusRevoked
	}
	if strings.TrimSpace(s.AccessToken) == "" {
		return SessionStatusUnauthenticated
	}
	return SessionStatusAuthenticated
}

// Usable reports whether the session may be handed to the message
// dispatcher.
func (s Session) Usable() error {
	if s.Revoked {
		return ErrSessionRevoked
	}
	if strings.TrimSpace(s.AccessToken) == "" {
		return ErrSessionUnauthenticated
	}
	return nil
}

func (s Session) Refreshable() bool {
	return !s.Revoked && strings.TrimSpace(s.RefreshToken) != ""
}

// MarkRevoked returns a copy of the session with the access token cleared
// and the revoked flag set. Calling it on an already revoked session returns
// the session unchanged.
func (s Session) MarkRevoked(now time.Time) Session {
	if s.Revoked {
		return s
	}
	revoked := s
	revoked.AccessToken = ""
	revoked.Revoked = true
	at := now.UTC()
	revoked.RevokedAt = &at
	return revoked
}

func sessionTransitionAllowed(current, next SessionStatus) bool {
	allowed := map[SessionStatus]map[SessionStatus]struct{}{
		SessionStatusUnauthenticated: {
			SessionStatusAuthenticated: {},
		},
		SessionStatusAuthenticated: {
			SessionStatusRevoked: {},
		},
	}
	_, ok := allowed[current][next]
	return ok
}

// ValidateTransition guards session mutations performed by host platforms
// that manage session documents themselves.
func ValidateTransition(current, next SessionStatus) error {
	if current == next {
		return nil
	}
	if !sessionTransitionAllowed(current, next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidSessionStatusTransition, current, next)
	}
	return nil
}

// DeliveryReceipt is the normalized result of a successful status post.
// MessageID and URL reference the first published part; Parts lists every
// remote id when a long message was delivered as a thread.
type DeliveryReceipt struct {
	MessageID string
	URL       string
	Parts     []string
	PostedAt  time.Time
}

// RegisteredClient is the outcome of dynamic client registration with the
// remote server.
type RegisteredClient struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
	Name         string
	Website      string
}

func NormalizeScopes(input []string) []string {
	if len(input) == 0 {
		return []string{}
	}
	values := make([]string, 0, len(input))
	seen := map[string]struct{}{}
	for _, value := range input {
		normalized := strings.TrimSpace(strings.ToLower(value))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		values = append(values, normalized)
	}
	sort.Strings(values)
	return values
}

// ParseScopeList splits a remote scope string on spaces or commas.
func ParseScopeList(value string) []string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return []string{}
	}
	return strings.Fields(strings.ReplaceAll(trimmed, ",", " "))
}
