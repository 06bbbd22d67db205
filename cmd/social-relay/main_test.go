package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	glog "github.com/goliatone/go-logger/glog"
	socialrelay "github.com/goliatone/go-social-relay"
	"github.com/goliatone/go-social-relay/adapters/devkit"
	"github.com/goliatone/go-social-relay/core"
)

func TestExitCode_MapsRelayErrorKinds(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"no error", nil, 0},
		{"config", core.NewConfigError("bad credentials"), 2},
		{"validation", core.NewValidationError("text", "too long"), 3},
		{"adapter missing", core.NewAdapterNotFoundError("pixelfed"), 3},
		{"token exchange", core.NewTokenExchangeError("rejected", 400, ""), 4},
		{"session invalid", core.NewSessionInvalidError(core.ErrSessionRevoked), 5},
		{"auth expired", core.NewAuthExpiredError(401, ""), 6},
		{"delivery", core.NewDeliveryError("failed", 422, ""), 7},
		{"revocation", core.NewRevocationError("failed", 500, ""), 8},
		{"network", core.WrapNetworkError(nil, "unreachable"), 9},
		{"timeout", core.WrapNetworkError(context.DeadlineExceeded, "deadline"), 9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := exitCode(tc.err); got != tc.want {
				t.Fatalf("expected exit code %d, got %d", tc.want, got)
			}
		})
	}
}

func TestEndpointsForServer_DerivesPaths(t *testing.T) {
	endpoints := endpointsForServer("https://mastodon.test/")
	if endpoints.BaseURL != "https://mastodon.test" {
		t.Fatalf("expected trimmed base url, got %q", endpoints.BaseURL)
	}
	if endpoints.TokenURL != "https://mastodon.test/oauth/token" {
		t.Fatalf("unexpected token url %q", endpoints.TokenURL)
	}
	if endpoints.StatusURL != "https://mastodon.test/api/v1/statuses" {
		t.Fatalf("unexpected status url %q", endpoints.StatusURL)
	}
}

func newTestApp(t *testing.T, fake *devkit.FakeTransportAdapter) (*appContext, *bytes.Buffer) {
	t.Helper()

	service, err := socialrelay.NewService(core.Config{},
		socialrelay.WithTransport(fake),
		socialrelay.WithLogger(glog.Nop()),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	stdout := &bytes.Buffer{}
	return &appContext{
		ctx:     context.Background(),
		service: service,
		adapter: "mastodon",
		stdout:  stdout,
		stderr:  &bytes.Buffer{},
	}, stdout
}

func TestRegisterThenSendRoundTrip(t *testing.T) {
	dir := t.TempDir()
	credentialsPath := filepath.Join(dir, "credentials.json")
	sessionPath := filepath.Join(dir, "session.json")

	fake := devkit.NewFakeTransportAdapter("rest",
		devkit.TransportScript{Response: devkit.RegistrationResponse("client-1", "secret-1", "urn:ietf:wg:oauth:2.0:oob")},
		devkit.TransportScript{Response: devkit.TokenResponse("token-1", "profile write:statuses")},
		devkit.TransportScript{Response: devkit.UserInfoResponse("ada", "Ada Lovelace")},
		devkit.TransportScript{Response: devkit.StatusResponse("status-1", "https://mastodon.social/@ada/status-1")},
	)
	app, stdout := newTestApp(t, fake)

	register := RegisterCmd{
		Name:        "relay-cli",
		RedirectURI: "urn:ietf:wg:oauth:2.0:oob",
		Scopes:      []string{"profile", "write:statuses"},
		Out:         credentialsPath,
	}
	if err := register.Run(app); err != nil {
		t.Fatalf("register: %v", err)
	}
	if !strings.Contains(stdout.String(), "client-1") {
		t.Fatalf("expected client id in output, got %q", stdout.String())
	}

	creds, err := readCredentialsDocument(credentialsPath)
	if err != nil {
		t.Fatalf("read credentials back: %v", err)
	}
	if creds.ClientID != "client-1" || creds.ClientSecret != "secret-1" {
		t.Fatalf("unexpected credentials %#v", creds)
	}

	exchange := ExchangeCmd{
		Credentials: credentialsPath,
		Code:        "auth-code",
		Out:         sessionPath,
	}
	if err := exchange.Run(app); err != nil {
		t.Fatalf("exchange: %v", err)
	}
	session, err := readSessionDocument(sessionPath)
	if err != nil {
		t.Fatalf("read session back: %v", err)
	}
	if session.AccessToken != "token-1" {
		t.Fatalf("expected stored token, got %q", session.AccessToken)
	}
	if session.Identity.Handle != "ada" {
		t.Fatalf("expected stored identity, got %#v", session.Identity)
	}

	send := SendCmd{Session: sessionPath, Text: "hello fediverse"}
	if err := send.Run(app); err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(stdout.String(), "delivered message status-1") {
		t.Fatalf("expected delivery output, got %q", stdout.String())
	}
}

func TestRevokeUpdatesSessionDocument(t *testing.T) {
	dir := t.TempDir()
	credentialsPath := filepath.Join(dir, "credentials.json")
	sessionPath := filepath.Join(dir, "session.json")

	if err := writeCredentialsDocument(credentialsPath, core.RegisteredClient{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		RedirectURI:  "urn:ietf:wg:oauth:2.0:oob",
	}); err != nil {
		t.Fatalf("write credentials: %v", err)
	}
	if err := writeSessionDocument(sessionPath, core.Session{
		ID:          "sess-1",
		AdapterID:   "mastodon",
		TokenType:   "Bearer",
		AccessToken: "token-1",
	}); err != nil {
		t.Fatalf("write session: %v", err)
	}

	fake := devkit.NewFakeTransportAdapter("rest",
		devkit.TransportScript{Response: devkit.RevokeResponse()},
	)
	app, _ := newTestApp(t, fake)

	revoke := RevokeCmd{Credentials: credentialsPath, Session: sessionPath}
	if err := revoke.Run(app); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	session, err := readSessionDocument(sessionPath)
	if err != nil {
		t.Fatalf("read session back: %v", err)
	}
	if session.Status() != core.SessionStatusRevoked {
		t.Fatalf("expected revoked session, got %q", session.Status())
	}
	if session.AccessToken != "" {
		t.Fatal("expected token cleared in document")
	}
}

func TestSendFailsWithMissingSessionDocument(t *testing.T) {
	app, _ := newTestApp(t, devkit.NewFakeTransportAdapter("rest"))

	send := SendCmd{Session: filepath.Join(t.TempDir(), "absent.json"), Text: "hello"}
	err := send.Run(app)
	if err == nil {
		t.Fatal("expected missing document error")
	}
	if got := exitCode(err); got != 5 {
		t.Fatalf("expected session exit code 5, got %d", got)
	}
}

func TestAuthURLCommandEmitsPKCEMaterial(t *testing.T) {
	credentialsPath := filepath.Join(t.TempDir(), "credentials.json")
	if err := writeCredentialsDocument(credentialsPath, core.RegisteredClient{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		RedirectURI:  "urn:ietf:wg:oauth:2.0:oob",
		Scopes:       []string{"profile", "write:statuses"},
	}); err != nil {
		t.Fatalf("write credentials: %v", err)
	}

	app, stdout := newTestApp(t, devkit.NewFakeTransportAdapter("rest"))
	stderr := &bytes.Buffer{}
	app.stderr = stderr

	authURL := AuthURLCmd{Credentials: credentialsPath, PKCE: true}
	if err := authURL.Run(app); err != nil {
		t.Fatalf("auth-url: %v", err)
	}
	if !strings.Contains(stdout.String(), "code_challenge_method=S256") {
		t.Fatalf("expected challenge parameters in url, got %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "code verifier: ") {
		t.Fatalf("expected code verifier on stderr, got %q", stderr.String())
	}
}
