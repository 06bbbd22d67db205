package socialrelay

import (
	"context"
	"fmt"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-social-relay/adapters/devkit"
	"github.com/goliatone/go-social-relay/core"
)

func newTestService(t *testing.T, cfg core.Config, fake *devkit.FakeTransportAdapter, opts ...Option) *Service {
	t.Helper()

	opts = append([]Option{
		WithTransport(fake),
		WithLogger(glog.Nop()),
	}, opts...)
	service, err := NewService(cfg, opts...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service
}

func serviceTestCredentials() core.ClientCredentials {
	return core.ClientCredentials{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		RedirectURI:  "urn:ietf:wg:oauth:2.0:oob",
		Scopes:       []string{"profile", "write:statuses"},
	}
}

func TestNewService_RegistersMastodonAdapter(t *testing.T) {
	fake := devkit.NewFakeTransportAdapter("rest")
	service := newTestService(t, core.Config{}, fake)

	adapter, ok := service.Registry().Get("mastodon")
	if !ok {
		t.Fatal("expected default mastodon adapter to be registered")
	}
	if adapter.ID() != "mastodon" {
		t.Fatalf("unexpected adapter id %q", adapter.ID())
	}

	cfg := service.Config()
	if cfg.ServiceName != "social-relay" {
		t.Fatalf("expected default service name, got %q", cfg.ServiceName)
	}
	if cfg.StatusCharacterLimit != 500 {
		t.Fatalf("expected default character limit, got %d", cfg.StatusCharacterLimit)
	}
}

func TestNewService_RuntimeConfigOverridesDefaults(t *testing.T) {
	fake := devkit.NewFakeTransportAdapter("rest")
	service := newTestService(t, core.Config{
		StatusCharacterLimit: 280,
		Mastodon: core.AdapterEndpoints{
			TokenURL: "https://mastodon.test/oauth/token",
		},
	}, fake)

	cfg := service.Config()
	if cfg.StatusCharacterLimit != 280 {
		t.Fatalf("expected runtime character limit, got %d", cfg.StatusCharacterLimit)
	}
	if cfg.Mastodon.TokenURL != "https://mastodon.test/oauth/token" {
		t.Fatalf("expected runtime token url, got %q", cfg.Mastodon.TokenURL)
	}
	// Untouched endpoints keep their defaults.
	if cfg.Mastodon.AuthURL != "https://mastodon.social/oauth/authorize" {
		t.Fatalf("expected default auth url, got %q", cfg.Mastodon.AuthURL)
	}
}

func TestNewService_WithoutDefaultAdapters(t *testing.T) {
	fake := devkit.NewFakeTransportAdapter("rest")
	service := newTestService(t, core.Config{}, fake, WithoutDefaultAdapters())

	if _, ok := service.Registry().Get("mastodon"); ok {
		t.Fatal("expected empty registry")
	}
}

func TestService_UnknownAdapterFails(t *testing.T) {
	fake := devkit.NewFakeTransportAdapter("rest")
	service := newTestService(t, core.Config{}, fake)

	_, err := service.Send(context.Background(), "pixelfed", core.SendRequest{Text: "hello"})
	if err == nil {
		t.Fatal("expected unknown adapter error")
	}
	if code := core.TextCode(err); code != core.RelayErrorAdapterNotFound {
		t.Fatalf("expected adapter-not-found code, got %q", code)
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected rich error, got %T", err)
	}
	if rich.Metadata["adapter_id"] != "pixelfed" {
		t.Fatalf("expected adapter id metadata, got %#v", rich.Metadata)
	}
	if len(fake.Requests()) != 0 {
		t.Fatalf("expected no transport calls, saw %d", len(fake.Requests()))
	}
}

func TestService_AuthorizationFlowEndToEnd(t *testing.T) {
	ctx := context.Background()
	fake := devkit.NewFakeTransportAdapter("rest",
		devkit.TransportScript{Response: devkit.TokenResponse("token-1", "profile write:statuses")},
		devkit.TransportScript{Response: devkit.UserInfoResponse("ada", "Ada Lovelace")},
		devkit.TransportScript{Response: devkit.StatusResponse("status-1", "https://mastodon.social/@ada/status-1")},
		devkit.TransportScript{Response: devkit.RevokeResponse()},
	)
	service := newTestService(t, core.Config{}, fake)
	creds := serviceTestCredentials()

	authRequest, err := service.BuildAuthorizationURL(ctx, "mastodon", core.BuildAuthorizationURLRequest{
		Credentials: creds,
	})
	if err != nil {
		t.Fatalf("build authorization url: %v", err)
	}
	if authRequest.State == "" {
		t.Fatal("expected generated state")
	}
	if !strings.Contains(authRequest.AuthorizationURL, "client_id=client-1") {
		t.Fatalf("expected client id in url, got %q", authRequest.AuthorizationURL)
	}
	if len(fake.Requests()) != 0 {
		t.Fatal("expected url construction to stay offline")
	}

	// The draft is retained for an in-process state round trip.
	consumed, err := service.ConsumeAuthRequest(ctx, authRequest.State)
	if err != nil {
		t.Fatalf("consume auth request: %v", err)
	}
	if consumed.RequestID != authRequest.RequestID {
		t.Fatalf("expected matching draft, got %q", consumed.RequestID)
	}
	if _, err := service.ConsumeAuthRequest(ctx, authRequest.State); err == nil {
		t.Fatal("expected second consume to fail")
	}

	result, err := service.Exchange(ctx, "mastodon", core.ExchangeRequest{
		Credentials: creds,
		Code:        "auth-code",
	})
	if err != nil {
		t.Fatalf("exchange code: %v", err)
	}
	if result.Session.AccessToken != "token-1" {
		t.Fatalf("expected issued token, got %q", result.Session.AccessToken)
	}
	if result.Session.Identity.Handle != "ada" {
		t.Fatalf("expected enriched identity, got %#v", result.Session.Identity)
	}

	receipt, err := service.Send(ctx, "mastodon", core.SendRequest{
		Session: result.Session,
		Text:    "hello fediverse",
	})
	if err != nil {
		t.Fatalf("send message: %v", err)
	}
	if receipt.MessageID != "status-1" {
		t.Fatalf("expected delivery receipt, got %#v", receipt)
	}

	revoked, err := service.Revoke(ctx, "mastodon", creds, result.Session)
	if err != nil {
		t.Fatalf("revoke session: %v", err)
	}
	if revoked.Status() != core.SessionStatusRevoked {
		t.Fatalf("expected revoked session, got %q", revoked.Status())
	}

	if calls := len(fake.Requests()); calls != 4 {
		t.Fatalf("expected 4 transport calls, saw %d", calls)
	}
}

type recordingSessionStore struct {
	saved      []core.Session
	revokedIDs []string
	saveErr    error
}

func (s *recordingSessionStore) Save(_ context.Context, session core.Session) (core.Session, error) {
	if s.saveErr != nil {
		return core.Session{}, s.saveErr
	}
	if session.ID == "" {
		session.ID = fmt.Sprintf("stored-%d", len(s.saved)+1)
	}
	s.saved = append(s.saved, session)
	return session, nil
}

func (s *recordingSessionStore) Get(_ context.Context, id string) (core.Session, error) {
	for _, session := range s.saved {
		if session.ID == id {
			return session, nil
		}
	}
	return core.Session{}, fmt.Errorf("session not found: %s", id)
}

func (s *recordingSessionStore) ListByAdapter(context.Context, string) ([]core.Session, error) {
	return append([]core.Session(nil), s.saved...), nil
}

func (s *recordingSessionStore) MarkRevoked(_ context.Context, id string, _ string) error {
	s.revokedIDs = append(s.revokedIDs, id)
	return nil
}

func TestService_SessionStorePersistsExchangeAndRevocation(t *testing.T) {
	ctx := context.Background()
	store := &recordingSessionStore{}
	fake := devkit.NewFakeTransportAdapter("rest",
		devkit.TransportScript{Response: devkit.TokenResponse("token-1", "profile write:statuses")},
		devkit.TransportScript{Response: devkit.UserInfoResponse("ada", "Ada Lovelace")},
		devkit.TransportScript{Response: devkit.RevokeResponse()},
	)
	service := newTestService(t, core.Config{}, fake, WithSessionStore(store))
	creds := serviceTestCredentials()

	result, err := service.Exchange(ctx, "mastodon", core.ExchangeRequest{
		Credentials: creds,
		Code:        "auth-code",
	})
	if err != nil {
		t.Fatalf("exchange code: %v", err)
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected persisted session, saw %d", len(store.saved))
	}

	if _, err := service.Revoke(ctx, "mastodon", creds, result.Session); err != nil {
		t.Fatalf("revoke session: %v", err)
	}
	if len(store.revokedIDs) != 1 || store.revokedIDs[0] != result.Session.ID {
		t.Fatalf("expected revocation recorded for %q, got %v", result.Session.ID, store.revokedIDs)
	}
}

func TestService_SessionStoreFailureDowngradesToWarning(t *testing.T) {
	ctx := context.Background()
	store := &recordingSessionStore{saveErr: fmt.Errorf("disk full")}
	fake := devkit.NewFakeTransportAdapter("rest",
		devkit.TransportScript{Response: devkit.TokenResponse("token-1", "profile write:statuses")},
		devkit.TransportScript{Response: devkit.UserInfoResponse("ada", "Ada Lovelace")},
	)
	service := newTestService(t, core.Config{}, fake, WithSessionStore(store))

	result, err := service.Exchange(ctx, "mastodon", core.ExchangeRequest{
		Credentials: serviceTestCredentials(),
		Code:        "auth-code",
	})
	if err != nil {
		t.Fatalf("expected exchange to succeed despite storage failure, got %v", err)
	}
	if result.Session.AccessToken != "token-1" {
		t.Fatalf("expected issued token, got %q", result.Session.AccessToken)
	}

	found := false
	for _, warning := range result.Warnings {
		if strings.Contains(warning, "session persistence failed") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected persistence warning, got %v", result.Warnings)
	}
}

func TestSetup_AliasesNewService(t *testing.T) {
	service, err := Setup(core.Config{}, WithTransport(devkit.NewFakeTransportAdapter("rest")), WithLogger(glog.Nop()))
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if service == nil {
		t.Fatal("expected service")
	}
}
