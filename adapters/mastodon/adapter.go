// Package mastodon implements the adapter contract against a Mastodon
// server's OAuth2 and status endpoints.
package mastodon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-social-relay/core"
	"github.com/google/uuid"
)

const AdapterID = "mastodon"

const (
	ScopeProfile       = "profile"
	ScopeWriteStatuses = "write:statuses"
)

const (
	BaseURL     = "https://mastodon.social"
	RegisterURL = BaseURL + "/api/v1/apps"
	AuthURL     = BaseURL + "/oauth/authorize"
	TokenURL    = BaseURL + "/oauth/token"
	UserInfoURL = BaseURL + "/oauth/userinfo"
	StatusURL   = BaseURL + "/api/v1/statuses"
	RevokeURL   = BaseURL + "/oauth/revoke"
)

const (
	CharacterLimit = 500

	responseType          = "code"
	codeChallengeMethod   = "S256"
	defaultRequestTimeout = 30 * time.Second
)

func DefaultScopes() []string {
	return []string{ScopeProfile, ScopeWriteStatuses}
}

func DefaultEndpoints() core.AdapterEndpoints {
	return core.AdapterEndpoints{
		BaseURL:     BaseURL,
		RegisterURL: RegisterURL,
		AuthURL:     AuthURL,
		TokenURL:    TokenURL,
		UserInfoURL: UserInfoURL,
		StatusURL:   StatusURL,
		RevokeURL:   RevokeURL,
	}
}

type Config struct {
	Endpoints AdapterEndpointsConfig
	Transport core.TransportAdapter
	Logger    core.Logger

	CharacterLimit int
	RequestTimeout time.Duration

	// ThreadLongMessages switches the dispatcher from rejecting over-limit
	// text to delivering it as a reply thread with part counters.
	ThreadLongMessages bool

	GenerateState        func() (string, error)
	GenerateCodeVerifier func() (string, error)
	NewRequestID         func() string
	Now                  func() time.Time
}

// AdapterEndpointsConfig mirrors core.AdapterEndpoints so hosts can wire
// either shape without importing both packages.
type AdapterEndpointsConfig = core.AdapterEndpoints

type Adapter struct {
	endpoints      AdapterEndpointsConfig
	transport      core.TransportAdapter
	logger         core.Logger
	characterLimit int
	requestTimeout time.Duration
	threadLong     bool

	generateState    func() (string, error)
	generateVerifier func() (string, error)
	newRequestID     func() string
	now              func() time.Time
}

func New(cfg Config) (*Adapter, error) {
	if cfg.Transport == nil {
		return nil, fmt.Errorf("mastodon: transport adapter is required")
	}
	endpoints := cfg.Endpoints
	defaults := DefaultEndpoints()
	if strings.TrimSpace(endpoints.RegisterURL) == "" {
		endpoints.RegisterURL = defaults.RegisterURL
	}
	if strings.TrimSpace(endpoints.AuthURL) == "" {
		endpoints.AuthURL = defaults.AuthURL
	}
	if strings.TrimSpace(endpoints.TokenURL) == "" {
		endpoints.TokenURL = defaults.TokenURL
	}
	if strings.TrimSpace(endpoints.UserInfoURL) == "" {
		endpoints.UserInfoURL = defaults.UserInfoURL
	}
	if strings.TrimSpace(endpoints.StatusURL) == "" {
		endpoints.StatusURL = defaults.StatusURL
	}
	if strings.TrimSpace(endpoints.RevokeURL) == "" {
		endpoints.RevokeURL = defaults.RevokeURL
	}

	characterLimit := cfg.CharacterLimit
	if characterLimit <= 0 {
		characterLimit = CharacterLimit
	}
	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	generateState := cfg.GenerateState
	if generateState == nil {
		generateState = core.GenerateState
	}
	generateVerifier := cfg.GenerateCodeVerifier
	if generateVerifier == nil {
		generateVerifier = core.GenerateCodeVerifier
	}
	newRequestID := cfg.NewRequestID
	if newRequestID == nil {
		newRequestID = uuid.NewString
	}
	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	return &Adapter{
		endpoints:        endpoints,
		transport:        cfg.Transport,
		logger:           glog.Ensure(cfg.Logger),
		characterLimit:   characterLimit,
		requestTimeout:   requestTimeout,
		threadLong:       cfg.ThreadLongMessages,
		generateState:    generateState,
		generateVerifier: generateVerifier,
		newRequestID:     newRequestID,
		now:              now,
	}, nil
}

func (*Adapter) ID() string {
	return AdapterID
}

func (a *Adapter) RegisterClient(ctx context.Context, req core.RegisterClientRequest) (core.RegisteredClient, error) {
	if a == nil || a.transport == nil {
		return core.RegisteredClient{}, fmt.Errorf("mastodon: adapter is not configured")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return core.RegisteredClient{}, core.NewValidationError("name", "client name is required")
	}
	redirectURI := strings.TrimSpace(req.RedirectURI)
	if redirectURI == "" {
		return core.RegisteredClient{}, core.NewValidationError("redirect_uri", "redirect uri is required")
	}
	scopes := core.NormalizeScopes(req.Scopes)
	if len(scopes) == 0 {
		scopes = DefaultScopes()
	}

	form := url.Values{}
	form.Set("client_name", name)
	form.Set("redirect_uris", redirectURI)
	form.Set("scopes", strings.Join(scopes, " "))
	if website := strings.TrimSpace(req.Website); website != "" {
		form.Set("website", website)
	}

	res, err := a.postForm(ctx, a.endpoints.RegisterURL, form)
	if err != nil {
		return core.RegisteredClient{}, core.WrapNetworkError(err, "mastodon: client registration request failed")
	}
	if !isSuccess(res.StatusCode) {
		return core.RegisteredClient{}, remoteFailure("mastodon: client registration rejected", res)
	}

	payload := registrationResponse{}
	if err := json.Unmarshal(res.Body, &payload); err != nil {
		return core.RegisteredClient{}, remoteFailure("mastodon: client registration response is not valid json", res)
	}
	if strings.TrimSpace(payload.ClientID) == "" || strings.TrimSpace(payload.ClientSecret) == "" {
		return core.RegisteredClient{}, remoteFailure("mastodon: client registration response is missing client credentials", res)
	}

	a.logger.Info("client registered", "adapter_id", AdapterID, "client_name", name)

	return core.RegisteredClient{
		ClientID:     strings.TrimSpace(payload.ClientID),
		ClientSecret: strings.TrimSpace(payload.ClientSecret),
		RedirectURI:  redirectURI,
		Scopes:       scopes,
		Name:         name,
		Website:      strings.TrimSpace(req.Website),
	}, nil
}

func (a *Adapter) BuildAuthorizationURL(_ context.Context, req core.BuildAuthorizationURLRequest) (core.AuthorizationRequest, error) {
	if a == nil {
		return core.AuthorizationRequest{}, fmt.Errorf("mastodon: adapter is not configured")
	}
	if err := req.Credentials.Validate(); err != nil {
		return core.AuthorizationRequest{}, core.WrapConfigError(err, "mastodon: client credentials are incomplete")
	}

	redirectURI := strings.TrimSpace(req.RedirectURI)
	if redirectURI == "" {
		redirectURI = strings.TrimSpace(req.Credentials.RedirectURI)
	}
	scopes := core.NormalizeScopes(req.Scopes)
	if len(scopes) == 0 {
		scopes = core.NormalizeScopes(req.Credentials.Scopes)
	}
	if len(scopes) == 0 {
		scopes = DefaultScopes()
	}

	state := strings.TrimSpace(req.State)
	if state == "" {
		generated, err := a.generateState()
		if err != nil {
			return core.AuthorizationRequest{}, err
		}
		state = generated
	}

	verifier := strings.TrimSpace(req.CodeVerifier)
	if verifier == "" && req.GeneratePKCE {
		generated, err := a.generateVerifier()
		if err != nil {
			return core.AuthorizationRequest{}, err
		}
		verifier = generated
	}

	authURL, err := url.Parse(a.endpoints.AuthURL)
	if err != nil {
		return core.AuthorizationRequest{}, core.WrapConfigError(err, "mastodon: authorization endpoint url is invalid")
	}
	query := authURL.Query()
	query.Set("response_type", responseType)
	query.Set("client_id", req.Credentials.ClientID)
	query.Set("redirect_uri", redirectURI)
	query.Set("scope", strings.Join(scopes, " "))
	query.Set("state", state)
	if verifier != "" {
		query.Set("code_challenge", core.CodeChallengeS256(verifier))
		query.Set("code_challenge_method", codeChallengeMethod)
	}
	authURL.RawQuery = query.Encode()

	return core.AuthorizationRequest{
		RequestID:        a.newRequestID(),
		AdapterID:        AdapterID,
		State:            state,
		CodeVerifier:     verifier,
		RedirectURI:      redirectURI,
		Scopes:           scopes,
		AuthorizationURL: authURL.String(),
		CreatedAt:        a.now(),
	}, nil
}

func (a *Adapter) postForm(ctx context.Context, endpoint string, form url.Values) (core.TransportResponse, error) {
	return a.transport.Do(ctx, core.FormPostRequest(endpoint, form, a.requestTimeout))
}

type registrationResponse struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RedirectURI  string `json:"redirect_uri"`
	Name         string `json:"name"`
}

var _ core.Adapter = (*Adapter)(nil)
