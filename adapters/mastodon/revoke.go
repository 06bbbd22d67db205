package mastodon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-social-relay/core"
)

// Revoke invalidates the session's access token at the remote server.
// Revoking an already revoked session is a no-op; a remote "token not found"
// answer finalizes revocation the same as a 2xx. Any other failure leaves
// the session unchanged.
func (a *Adapter) Revoke(ctx context.Context, creds core.ClientCredentials, session core.Session) (core.Session, error) {
	if a == nil || a.transport == nil {
		return session, fmt.Errorf("mastodon: adapter is not configured")
	}
	if session.Revoked {
		return session, nil
	}
	if err := creds.Validate(); err != nil {
		return session, core.WrapConfigError(err, "mastodon: client credentials are incomplete")
	}
	if strings.TrimSpace(session.AccessToken) == "" {
		return session, core.NewSessionInvalidError(core.ErrSessionUnauthenticated)
	}

	form := url.Values{}
	form.Set("client_id", creds.ClientID)
	form.Set("client_secret", creds.ClientSecret)
	form.Set("token", session.AccessToken)
	form.Set("token_type_hint", "access_token")

	res, err := a.postForm(ctx, a.endpoints.RevokeURL, form)
	if err != nil {
		return session, core.WrapNetworkError(err, "mastodon: revocation request failed")
	}
	if !isSuccess(res.StatusCode) && !tokenAlreadyGone(res) {
		return session, core.NewRevocationError("mastodon: revocation rejected", res.StatusCode, string(res.Body))
	}

	revoked := session.MarkRevoked(a.now())

	a.logger.Info("session revoked",
		"adapter_id", AdapterID,
		"session_id", session.ID,
		"remote_status", res.StatusCode,
	)

	return revoked, nil
}

// tokenAlreadyGone recognizes the remote answers that mean the token was
// never issued or is already dead, which leaves nothing to revoke.
func tokenAlreadyGone(res core.TransportResponse) bool {
	if res.StatusCode != http.StatusBadRequest &&
		res.StatusCode != http.StatusNotFound &&
		res.StatusCode != http.StatusForbidden {
		return false
	}
	payload := struct {
		Error string `json:"error"`
	}{}
	if err := json.Unmarshal(res.Body, &payload); err == nil {
		switch strings.TrimSpace(strings.ToLower(payload.Error)) {
		case "invalid_token", "invalid_grant", "unauthorized_client":
			return true
		}
	}
	body := strings.ToLower(string(res.Body))
	return strings.Contains(body, "not found") || strings.Contains(body, "unknown token")
}
