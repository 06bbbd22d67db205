package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

type BuildAuthorizationURLRequest struct {
	Credentials ClientCredentials
	State       string
	RedirectURI string
	Scopes      []string

	// CodeVerifier attaches a caller-supplied PKCE verifier; GeneratePKCE
	// asks the adapter to mint one when CodeVerifier is empty.
	CodeVerifier string
	GeneratePKCE bool

	Metadata map[string]any
}

type ExchangeRequest struct {
	Credentials  ClientCredentials
	Code         string
	RedirectURI  string
	CodeVerifier string
	Metadata     map[string]any
}

// ExchangeResult carries the authenticated session together with non-fatal
// conditions observed during the exchange (identity enrichment failures).
type ExchangeResult struct {
	Session  Session
	Warnings []string
	Metadata map[string]any
}

type RegisterClientRequest struct {
	Name        string
	RedirectURI string
	Scopes      []string
	Website     string
}

type SendRequest struct {
	Session  Session
	Text     string
	Metadata map[string]any
}

// Adapter is the uniform capability surface a host messaging-relay platform
// invokes identically across social-network integrations. Adding a platform
// means implementing this contract against a different remote API with the
// same session state machine and error taxonomy.
type Adapter interface {
	ID() string

	RegisterClient(ctx context.Context, req RegisterClientRequest) (RegisteredClient, error)
	BuildAuthorizationURL(ctx context.Context, req BuildAuthorizationURLRequest) (AuthorizationRequest, error)
	Exchange(ctx context.Context, req ExchangeRequest) (ExchangeResult, error)
	Send(ctx context.Context, req SendRequest) (DeliveryReceipt, error)
	Revoke(ctx context.Context, creds ClientCredentials, session Session) (Session, error)
}

type Registry interface {
	Register(adapter Adapter) error
	Get(adapterID string) (Adapter, bool)
	List() []Adapter
}

type TransportRequest struct {
	Method               string
	URL                  string
	Headers              map[string]string
	Query                map[string]string
	Body                 []byte
	Timeout              time.Duration
	MaxResponseBodyBytes int64
	Metadata             map[string]any
}

type TransportResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Metadata   map[string]any
}

// TransportAdapter is the seam between adapters and the HTTP layer so the
// exchanger, dispatcher and revoker can be exercised against a fake
// transport without network access.
type TransportAdapter interface {
	Kind() string
	Do(ctx context.Context, req TransportRequest) (TransportResponse, error)
}

// AuthRequestStore retains authorization drafts between the auth-url and
// exchange steps for hosts that verify the state round trip in-process. The
// adapter core never consults it.
type AuthRequestStore interface {
	Save(ctx context.Context, request AuthorizationRequest) error
	Consume(ctx context.Context, state string) (AuthorizationRequest, error)
}

// SessionStore is the optional host-side persistence contract implemented by
// store/sql. The adapter core itself never touches storage.
type SessionStore interface {
	Save(ctx context.Context, session Session) (Session, error)
	Get(ctx context.Context, id string) (Session, error)
	ListByAdapter(ctx context.Context, adapterID string) ([]Session, error)
	MarkRevoked(ctx context.Context, id string, reason string) error
}

type SessionCodec interface {
	Format() string
	Version() int
	Encode(session Session) ([]byte, error)
	Decode(payload []byte) (Session, error)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
