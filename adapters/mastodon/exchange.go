package mastodon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-social-relay/core"
)

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
	CreatedAt    int64  `json:"created_at"`
}

type userInfoResponse struct {
	Sub               string `json:"sub"`
	PreferredUsername string `json:"preferred_username"`
	Name              string `json:"name"`
}

// Exchange redeems an authorization code for an authenticated session and
// enriches it with the remote account identity. Identity failures never roll
// back an issued token; they surface as warnings on the result.
func (a *Adapter) Exchange(ctx context.Context, req core.ExchangeRequest) (core.ExchangeResult, error) {
	if a == nil || a.transport == nil {
		return core.ExchangeResult{}, fmt.Errorf("mastodon: adapter is not configured")
	}
	if err := req.Credentials.Validate(); err != nil {
		return core.ExchangeResult{}, core.WrapConfigError(err, "mastodon: client credentials are incomplete")
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return core.ExchangeResult{}, core.NewValidationError("code", "authorization code is required")
	}

	redirectURI := strings.TrimSpace(req.RedirectURI)
	if redirectURI == "" {
		redirectURI = strings.TrimSpace(req.Credentials.RedirectURI)
	}
	requestedScopes := core.NormalizeScopes(req.Credentials.Scopes)
	if len(requestedScopes) == 0 {
		requestedScopes = DefaultScopes()
	}

	form := tokenExchangeForm(req.Credentials, code, redirectURI, requestedScopes, strings.TrimSpace(req.CodeVerifier))
	res, err := a.postForm(ctx, a.endpoints.TokenURL, form)
	if err != nil {
		return core.ExchangeResult{}, core.WrapNetworkError(err, "mastodon: token exchange request failed")
	}
	if !isSuccess(res.StatusCode) {
		return core.ExchangeResult{}, core.NewTokenExchangeError(
			"mastodon: token endpoint rejected the authorization code",
			res.StatusCode,
			string(res.Body),
		)
	}

	token := tokenResponse{}
	if err := json.Unmarshal(res.Body, &token); err != nil {
		return core.ExchangeResult{}, core.NewTokenExchangeError(
			"mastodon: token response is not valid json",
			res.StatusCode,
			string(res.Body),
		)
	}
	if strings.TrimSpace(token.AccessToken) == "" {
		return core.ExchangeResult{}, core.NewTokenExchangeError(
			"mastodon: token response is missing access_token",
			res.StatusCode,
			string(res.Body),
		)
	}

	// A response without a scope field leaves the grant unknown; the
	// shortfall check only applies when the server names what it granted.
	grantedScopes := core.NormalizeScopes(core.ParseScopeList(token.Scope))
	if strings.TrimSpace(token.Scope) != "" {
		if missing := missingScopes(requestedScopes, grantedScopes); len(missing) > 0 {
			return core.ExchangeResult{}, core.NewTokenExchangeError(
				"mastodon: granted scopes do not cover requested scopes: missing "+strings.Join(missing, ", "),
				res.StatusCode,
				string(res.Body),
			)
		}
	}

	tokenType := strings.TrimSpace(token.TokenType)
	if tokenType == "" {
		tokenType = "Bearer"
	}

	session := core.Session{
		ID:           a.newRequestID(),
		AdapterID:    AdapterID,
		TokenType:    tokenType,
		AccessToken:  strings.TrimSpace(token.AccessToken),
		RefreshToken: strings.TrimSpace(token.RefreshToken),
		Scope:        strings.Join(grantedScopes, " "),
		CreatedAt:    a.now(),
	}

	warnings := []string{}
	if session.RefreshToken == "" {
		warnings = append(warnings, "no refresh token issued; session is not refreshable")
	}

	identity, err := a.fetchIdentity(ctx, session)
	if err != nil {
		a.logger.Warn("identity enrichment failed", "adapter_id", AdapterID, "error", err.Error())
		warnings = append(warnings, "identity enrichment failed: "+err.Error())
	} else {
		session.Identity = identity
	}

	a.logger.Info("authorization code exchanged",
		"adapter_id", AdapterID,
		"session_id", session.ID,
		"scope", session.Scope,
	)

	return core.ExchangeResult{Session: session, Warnings: warnings}, nil
}

func (a *Adapter) fetchIdentity(ctx context.Context, session core.Session) (core.AccountIdentity, error) {
	res, err := a.transport.Do(ctx, core.BearerGetRequest(a.endpoints.UserInfoURL, session, a.requestTimeout))
	if err != nil {
		return core.AccountIdentity{}, err
	}
	if !isSuccess(res.StatusCode) {
		return core.AccountIdentity{}, fmt.Errorf("mastodon: userinfo endpoint returned status %d", res.StatusCode)
	}
	info := userInfoResponse{}
	if err := json.Unmarshal(res.Body, &info); err != nil {
		return core.AccountIdentity{}, fmt.Errorf("mastodon: userinfo response is not valid json: %w", err)
	}
	return core.AccountIdentity{
		Handle:      strings.TrimSpace(info.PreferredUsername),
		DisplayName: strings.TrimSpace(info.Name),
	}, nil
}

func tokenExchangeForm(creds core.ClientCredentials, code string, redirectURI string, scopes []string, codeVerifier string) url.Values {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", creds.ClientID)
	form.Set("client_secret", creds.ClientSecret)
	form.Set("redirect_uri", redirectURI)
	form.Set("scope", strings.Join(scopes, " "))
	if codeVerifier != "" {
		form.Set("code_verifier", codeVerifier)
	}
	return form
}

func missingScopes(requested []string, granted []string) []string {
	if len(requested) == 0 {
		return nil
	}
	grantedSet := make(map[string]struct{}, len(granted))
	for _, scope := range granted {
		grantedSet[scope] = struct{}{}
	}
	missing := []string{}
	for _, scope := range requested {
		if _, ok := grantedSet[scope]; !ok {
			missing = append(missing, scope)
		}
	}
	return missing
}
