package core

import (
	"encoding/json"
	"strings"
)

type clientCredentialsDocument struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	RedirectURI  string   `json:"redirect_uri"`
	RedirectURIs []string `json:"redirect_uris"`
	Scopes       []string `json:"scopes"`
	ScopeString  string   `json:"scope"`
	Website      string   `json:"website"`
	Name         string   `json:"name"`
}

// ParseClientCredentials decodes a credentials document. Both the flat
// redirect_uri field and the registration-response redirect_uris array are
// accepted; the first entry wins when both are present.
func ParseClientCredentials(payload []byte) (ClientCredentials, error) {
	if len(strings.TrimSpace(string(payload))) == 0 {
		return ClientCredentials{}, NewConfigError("core: credentials document is empty")
	}
	doc := clientCredentialsDocument{}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return ClientCredentials{}, WrapConfigError(err, "core: credentials document is malformed")
	}

	redirectURI := strings.TrimSpace(doc.RedirectURI)
	if redirectURI == "" && len(doc.RedirectURIs) > 0 {
		redirectURI = strings.TrimSpace(doc.RedirectURIs[0])
	}

	scopes := doc.Scopes
	if len(scopes) == 0 && strings.TrimSpace(doc.ScopeString) != "" {
		scopes = ParseScopeList(doc.ScopeString)
	}

	creds := ClientCredentials{
		ClientID:     strings.TrimSpace(doc.ClientID),
		ClientSecret: strings.TrimSpace(doc.ClientSecret),
		RedirectURI:  redirectURI,
		Scopes:       NormalizeScopes(scopes),
		Website:      strings.TrimSpace(doc.Website),
		Name:         strings.TrimSpace(doc.Name),
	}
	if err := creds.Validate(); err != nil {
		return ClientCredentials{}, WrapConfigError(err, "core: credentials document is incomplete")
	}
	return creds, nil
}

// EncodeClientCredentials renders a credentials document for the caller to
// persist after client registration.
func EncodeClientCredentials(client RegisteredClient) ([]byte, error) {
	doc := clientCredentialsDocument{
		ClientID:     strings.TrimSpace(client.ClientID),
		ClientSecret: strings.TrimSpace(client.ClientSecret),
		RedirectURI:  strings.TrimSpace(client.RedirectURI),
		Scopes:       NormalizeScopes(client.Scopes),
		Website:      strings.TrimSpace(client.Website),
		Name:         strings.TrimSpace(client.Name),
	}
	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, WrapConfigError(err, "core: encode credentials document")
	}
	return encoded, nil
}
