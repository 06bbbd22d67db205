package command

import (
	"context"
	"fmt"
	"testing"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-social-relay/core"
)

func TestExchangeCodeCommand_ExecuteDelegatesAndStoresResult(t *testing.T) {
	expected := core.ExchangeResult{Session: core.Session{ID: "sess-1", AdapterID: "mastodon", AccessToken: "token-1"}}
	called := false

	svc := stubRelayService{
		exchangeFn: func(_ context.Context, adapterID string, req core.ExchangeRequest) (core.ExchangeResult, error) {
			called = true
			if adapterID != "mastodon" {
				t.Fatalf("expected adapter mastodon, got %q", adapterID)
			}
			if req.Code != "auth-code" {
				t.Fatalf("expected code forwarded, got %q", req.Code)
			}
			return expected, nil
		},
	}

	cmd := NewExchangeCodeCommand(svc)
	collector := gocmd.NewResult[core.ExchangeResult]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	err := cmd.Execute(ctx, ExchangeCodeMessage{
		AdapterID: "mastodon",
		Request:   core.ExchangeRequest{Credentials: validCommandCredentials(), Code: "auth-code"},
	})
	if err != nil {
		t.Fatalf("execute exchange: %v", err)
	}
	if !called {
		t.Fatal("expected exchange service invocation")
	}
	result, ok := collector.Load()
	if !ok {
		t.Fatal("expected result to be stored")
	}
	if result.Session.ID != expected.Session.ID {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestRelayCommands_DelegateToService(t *testing.T) {
	t.Run("register client", func(t *testing.T) {
		called := false
		svc := stubRelayService{
			registerClientFn: func(_ context.Context, adapterID string, req core.RegisterClientRequest) (core.RegisteredClient, error) {
				called = true
				if req.Name != "relay" {
					t.Fatalf("unexpected register payload: %#v", req)
				}
				return core.RegisteredClient{ClientID: "c1"}, nil
			},
		}
		collector := gocmd.NewResult[core.RegisteredClient]()
		ctx := gocmd.ContextWithResult(context.Background(), collector)
		if err := NewRegisterClientCommand(svc).Execute(ctx, RegisterClientMessage{
			AdapterID: "mastodon",
			Request:   core.RegisterClientRequest{Name: "relay", RedirectURI: "https://x/cb"},
		}); err != nil {
			t.Fatalf("execute register client: %v", err)
		}
		if !called {
			t.Fatal("expected register invocation")
		}
		if stored, ok := collector.Load(); !ok || stored.ClientID != "c1" {
			t.Fatalf("expected stored client, got %#v", stored)
		}
	})

	t.Run("build authorization url", func(t *testing.T) {
		called := false
		svc := stubRelayService{
			buildAuthorizationURLFn: func(_ context.Context, adapterID string, req core.BuildAuthorizationURLRequest) (core.AuthorizationRequest, error) {
				called = true
				return core.AuthorizationRequest{State: "s1", AuthorizationURL: "https://x/auth"}, nil
			},
		}
		collector := gocmd.NewResult[core.AuthorizationRequest]()
		ctx := gocmd.ContextWithResult(context.Background(), collector)
		if err := NewBuildAuthorizationURLCommand(svc).Execute(ctx, BuildAuthorizationURLMessage{
			AdapterID: "mastodon",
			Request:   core.BuildAuthorizationURLRequest{Credentials: validCommandCredentials()},
		}); err != nil {
			t.Fatalf("execute build authorization url: %v", err)
		}
		if !called {
			t.Fatal("expected auth url invocation")
		}
		if stored, ok := collector.Load(); !ok || stored.State != "s1" {
			t.Fatalf("expected stored request, got %#v", stored)
		}
	})

	t.Run("send message", func(t *testing.T) {
		called := false
		svc := stubRelayService{
			sendFn: func(_ context.Context, adapterID string, req core.SendRequest) (core.DeliveryReceipt, error) {
				called = true
				if req.Text != "hello" {
					t.Fatalf("unexpected send payload: %#v", req)
				}
				return core.DeliveryReceipt{MessageID: "post-1"}, nil
			},
		}
		collector := gocmd.NewResult[core.DeliveryReceipt]()
		ctx := gocmd.ContextWithResult(context.Background(), collector)
		if err := NewSendMessageCommand(svc).Execute(ctx, SendMessageMessage{
			AdapterID: "mastodon",
			Request:   core.SendRequest{Session: core.Session{AccessToken: "t"}, Text: "hello"},
		}); err != nil {
			t.Fatalf("execute send message: %v", err)
		}
		if !called {
			t.Fatal("expected send invocation")
		}
		if stored, ok := collector.Load(); !ok || stored.MessageID != "post-1" {
			t.Fatalf("expected stored receipt, got %#v", stored)
		}
	})

	t.Run("revoke session", func(t *testing.T) {
		called := false
		svc := stubRelayService{
			revokeFn: func(_ context.Context, adapterID string, creds core.ClientCredentials, session core.Session) (core.Session, error) {
				called = true
				if session.ID != "sess-1" {
					t.Fatalf("unexpected revoke payload: %#v", session)
				}
				return session.MarkRevoked(session.CreatedAt), nil
			},
		}
		collector := gocmd.NewResult[core.Session]()
		ctx := gocmd.ContextWithResult(context.Background(), collector)
		if err := NewRevokeSessionCommand(svc).Execute(ctx, RevokeSessionMessage{
			AdapterID:   "mastodon",
			Credentials: validCommandCredentials(),
			Session:     core.Session{ID: "sess-1", AccessToken: "t"},
		}); err != nil {
			t.Fatalf("execute revoke session: %v", err)
		}
		if !called {
			t.Fatal("expected revoke invocation")
		}
		if stored, ok := collector.Load(); !ok || !stored.Revoked {
			t.Fatalf("expected stored revoked session, got %#v", stored)
		}
	})
}

func TestCommands_NilServiceFails(t *testing.T) {
	var cmd *SendMessageCommand
	err := cmd.Execute(context.Background(), SendMessageMessage{AdapterID: "mastodon"})
	if err == nil {
		t.Fatal("expected dependency error")
	}
	if code := core.TextCode(err); code != core.RelayErrorInternal {
		t.Fatalf("expected internal text code, got %q", code)
	}
}

func TestMessageValidation(t *testing.T) {
	tests := []struct {
		name    string
		msg     interface{ Validate() error }
		wantErr bool
	}{
		{
			name: "register client valid",
			msg: RegisterClientMessage{
				AdapterID: "mastodon",
				Request:   core.RegisterClientRequest{Name: "relay", RedirectURI: "https://x/cb"},
			},
			wantErr: false,
		},
		{
			name:    "register client missing name",
			msg:     RegisterClientMessage{AdapterID: "mastodon", Request: core.RegisterClientRequest{RedirectURI: "https://x/cb"}},
			wantErr: true,
		},
		{
			name: "build authorization url valid",
			msg: BuildAuthorizationURLMessage{
				AdapterID: "mastodon",
				Request:   core.BuildAuthorizationURLRequest{Credentials: validCommandCredentials()},
			},
			wantErr: false,
		},
		{
			name:    "build authorization url missing adapter",
			msg:     BuildAuthorizationURLMessage{Request: core.BuildAuthorizationURLRequest{Credentials: validCommandCredentials()}},
			wantErr: true,
		},
		{
			name: "exchange missing code",
			msg: ExchangeCodeMessage{
				AdapterID: "mastodon",
				Request:   core.ExchangeRequest{Credentials: validCommandCredentials()},
			},
			wantErr: true,
		},
		{
			name:    "send missing text",
			msg:     SendMessageMessage{AdapterID: "mastodon"},
			wantErr: true,
		},
		{
			name:    "revoke missing adapter",
			msg:     RevokeSessionMessage{},
			wantErr: true,
		},
		{
			name:    "revoke valid",
			msg:     RevokeSessionMessage{AdapterID: "mastodon"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func validCommandCredentials() core.ClientCredentials {
	return core.ClientCredentials{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		RedirectURI:  "https://x/cb",
	}
}

type stubRelayService struct {
	registerClientFn        func(ctx context.Context, adapterID string, req core.RegisterClientRequest) (core.RegisteredClient, error)
	buildAuthorizationURLFn func(ctx context.Context, adapterID string, req core.BuildAuthorizationURLRequest) (core.AuthorizationRequest, error)
	exchangeFn              func(ctx context.Context, adapterID string, req core.ExchangeRequest) (core.ExchangeResult, error)
	sendFn                  func(ctx context.Context, adapterID string, req core.SendRequest) (core.DeliveryReceipt, error)
	revokeFn                func(ctx context.Context, adapterID string, creds core.ClientCredentials, session core.Session) (core.Session, error)
}

func (s stubRelayService) RegisterClient(ctx context.Context, adapterID string, req core.RegisterClientRequest) (core.RegisteredClient, error) {
	if s.registerClientFn == nil {
		return core.RegisteredClient{}, fmt.Errorf("register client not configured")
	}
	return s.registerClientFn(ctx, adapterID, req)
}

func (s stubRelayService) BuildAuthorizationURL(ctx context.Context, adapterID string, req core.BuildAuthorizationURLRequest) (core.AuthorizationRequest, error) {
	if s.buildAuthorizationURLFn == nil {
		return core.AuthorizationRequest{}, fmt.Errorf("build authorization url not configured")
	}
	return s.buildAuthorizationURLFn(ctx, adapterID, req)
}

func (s stubRelayService) Exchange(ctx context.Context, adapterID string, req core.ExchangeRequest) (core.ExchangeResult, error) {
	if s.exchangeFn == nil {
		return core.ExchangeResult{}, fmt.Errorf("exchange not configured")
	}
	return s.exchangeFn(ctx, adapterID, req)
}

func (s stubRelayService) Send(ctx context.Context, adapterID string, req core.SendRequest) (core.DeliveryReceipt, error) {
	if s.sendFn == nil {
		return core.DeliveryReceipt{}, fmt.Errorf("send not configured")
	}
	return s.sendFn(ctx, adapterID, req)
}

func (s stubRelayService) Revoke(ctx context.Context, adapterID string, creds core.ClientCredentials, session core.Session) (core.Session, error) {
	if s.revokeFn == nil {
		return core.Session{}, fmt.Errorf("revoke not configured")
	}
	return s.revokeFn(ctx, adapterID, creds, session)
}

var _ RelayService = stubRelayService{}
