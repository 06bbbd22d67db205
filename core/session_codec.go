package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	SessionPayloadFormatJSONV1 = "session_json"
	SessionPayloadVersionV1    = 1
)

// JSONSessionCodec encodes Session values into the caller-owned session
// document format. The core hands documents back to the caller; it never
// writes them anywhere itself.
type JSONSessionCodec struct{}

func (JSONSessionCodec) Format() string {
	return SessionPayloadFormatJSONV1
}

func (JSONSessionCodec) Version() int {
	return SessionPayloadVersionV1
}

type jsonSessionPayload struct {
	ID           string     `json:"id,omitempty"`
	AdapterID    string     `json:"adapter_id,omitempty"`
	TokenType    string     `json:"token_type,omitempty"`
	AccessToken  string     `json:"access_token,omitempty"`
	RefreshToken string     `json:"refresh_token,omitempty"`
	Scope        string     `json:"scope,omitempty"`
	Handle       string     `json:"account_handle,omitempty"`
	DisplayName  string     `json:"account_display_name,omitempty"`
	CreatedAt    time.Time  `json:"created_at,omitzero"`
	RevokedAt    *time.Time `json:"revoked_at,omitempty"`
	Revoked      bool       `json:"revoked"`
}

func (JSONSessionCodec) Encode(session Session) ([]byte, error) {
	payload := jsonSessionPayload{
		ID:           strings.TrimSpace(session.ID),
		AdapterID:    strings.TrimSpace(session.AdapterID),
		TokenType:    strings.TrimSpace(session.TokenType),
		AccessToken:  strings.TrimSpace(session.AccessToken),
		RefreshToken: strings.TrimSpace(session.RefreshToken),
		Scope:        strings.TrimSpace(session.Scope),
		Handle:       strings.TrimSpace(session.Identity.Handle),
		DisplayName:  strings.TrimSpace(session.Identity.DisplayName),
		CreatedAt:    session.CreatedAt,
		RevokedAt:    cloneTimePointer(session.RevokedAt),
		Revoked:      session.Revoked,
	}
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("core: encode session payload: %w", err)
	}
	return encoded, nil
}

func (JSONSessionCodec) Decode(payload []byte) (Session, error) {
	if len(payload) == 0 {
		return Session{}, fmt.Errorf("core: session payload is empty")
	}
	decoded := jsonSessionPayload{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return Session{}, fmt.Errorf("core: decode session payload: %w", err)
	}
	return Session{
		ID:           strings.TrimSpace(decoded.ID),
		AdapterID:    strings.TrimSpace(decoded.AdapterID),
		TokenType:    strings.TrimSpace(decoded.TokenType),
		AccessToken:  strings.TrimSpace(decoded.AccessToken),
		RefreshToken: strings.TrimSpace(decoded.RefreshToken),
		Scope:        strings.TrimSpace(decoded.Scope),
		Identity: AccountIdentity{
			Handle:      strings.TrimSpace(decoded.Handle),
			DisplayName: strings.TrimSpace(decoded.DisplayName),
		},
		CreatedAt: decoded.CreatedAt,
		RevokedAt: cloneTimePointer(decoded.RevokedAt),
		Revoked:   decoded.Revoked,
	}, nil
}

func cloneTimePointer(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

var _ SessionCodec = JSONSessionCodec{}
