// Package sqlstore is optional host glue: a bun-backed session store for
// platforms that persist session documents server-side. The adapter core
// never touches it.
package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-social-relay/core"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type SessionStore struct {
	db   *bun.DB
	repo repository.Repository[*sessionRecord]
}

// Save inserts the session, or updates the stored row when one with the same
// id already exists. A session without an id gets one assigned.
func (s *SessionStore) Save(ctx context.Context, session core.Session) (core.Session, error) {
	if s == nil || s.repo == nil {
		return core.Session{}, fmt.Errorf("sqlstore: session store is not configured")
	}
	if strings.TrimSpace(session.AdapterID) == "" {
		return core.Session{}, fmt.Errorf("sqlstore: session adapter id is required")
	}

	now := time.Now().UTC()
	if strings.TrimSpace(session.ID) == "" {
		session.ID = uuid.NewString()
	}
	record := newSessionRecord(session, now)

	existing, err := s.repo.GetByID(ctx, record.ID)
	if err != nil || existing == nil {
		created, createErr := s.repo.Create(ctx, record)
		if createErr != nil {
			return core.Session{}, createErr
		}
		return created.toDomain(), nil
	}

	record.CreatedAt = existing.CreatedAt
	record.RevocationReason = existing.RevocationReason
	updated, err := s.repo.Update(ctx, record, repository.UpdateByID(record.ID))
	if err != nil {
		return core.Session{}, err
	}
	return updated.toDomain(), nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (core.Session, error) {
	if s == nil || s.repo == nil {
		return core.Session{}, fmt.Errorf("sqlstore: session store is not configured")
	}
	record, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return core.Session{}, err
	}
	return record.toDomain(), nil
}

func (s *SessionStore) ListByAdapter(ctx context.Context, adapterID string) ([]core.Session, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: session store is not configured")
	}
	adapterID = strings.TrimSpace(adapterID)
	if adapterID == "" {
		return nil, fmt.Errorf("sqlstore: adapter id is required")
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("adapter_id", "=", adapterID),
		repository.OrderBy("created_at ASC"),
	)
	if err != nil {
		return nil, err
	}

	out := make([]core.Session, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out, nil
}

// MarkRevoked finalizes revocation in storage: the access token is cleared so
// a leaked database dump cannot replay it.
func (s *SessionStore) MarkRevoked(ctx context.Context, id string, reason string) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("sqlstore: session store is not configured")
	}
	trimmedID := strings.TrimSpace(id)
	if trimmedID == "" {
		return fmt.Errorf("sqlstore: session id is required")
	}
	record, err := s.repo.GetByID(ctx, trimmedID)
	if err != nil {
		return err
	}
	if record.Revoked {
		return nil
	}

	now := time.Now().UTC()
	record.Revoked = true
	record.AccessToken = ""
	record.RevocationReason = strings.TrimSpace(reason)
	record.RevokedAt = &now
	record.UpdatedAt = now

	_, err = s.repo.Update(ctx, record, repository.UpdateByID(trimmedID))
	return err
}
