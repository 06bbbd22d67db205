package sqlstore

import (
	"strings"
	"time"

	"github.com/goliatone/go-social-relay/core"
	"github.com/uptrace/bun"
)

type sessionRecord struct {
	bun.BaseModel `bun:"table:relay_sessions,alias:rs"`

	ID                 string     `bun:"id,pk"`
	AdapterID          string     `bun:"adapter_id,notnull"`
	TokenType          string     `bun:"token_type,notnull"`
	AccessToken        string     `bun:"access_token"`
	RefreshToken       string     `bun:"refresh_token"`
	Scope              string     `bun:"scope"`
	AccountHandle      string     `bun:"account_handle"`
	AccountDisplayName string     `bun:"account_display_name"`
	Revoked            bool       `bun:"revoked,notnull,default:false"`
	RevocationReason   string     `bun:"revocation_reason"`
	RevokedAt          *time.Time `bun:"revoked_at,nullzero"`
	CreatedAt          time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt          time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func newSessionRecord(session core.Session, now time.Time) *sessionRecord {
	createdAt := session.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	return &sessionRecord{
		ID:                 strings.TrimSpace(session.ID),
		AdapterID:          strings.TrimSpace(session.AdapterID),
		TokenType:          strings.TrimSpace(session.TokenType),
		AccessToken:        session.AccessToken,
		RefreshToken:       session.RefreshToken,
		Scope:              strings.TrimSpace(session.Scope),
		AccountHandle:      strings.TrimSpace(session.Identity.Handle),
		AccountDisplayName: strings.TrimSpace(session.Identity.DisplayName),
		Revoked:            session.Revoked,
		RevokedAt:          cloneTime(session.RevokedAt),
		CreatedAt:          createdAt.UTC(),
		UpdatedAt:          now.UTC(),
	}
}

func (r *sessionRecord) toDomain() core.Session {
	if r == nil {
		return core.Session{}
	}
	return core.Session{
		ID:           r.ID,
		AdapterID:    r.AdapterID,
		TokenType:    r.TokenType,
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		Scope:        r.Scope,
		Identity: core.AccountIdentity{
			Handle:      r.AccountHandle,
			DisplayName: r.AccountDisplayName,
		},
		CreatedAt: r.CreatedAt,
		RevokedAt: cloneTime(r.RevokedAt),
		Revoked:   r.Revoked,
	}
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
