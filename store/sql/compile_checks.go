package sqlstore

import "github.com/goliatone/go-social-relay/core"

var _ core.SessionStore = (*SessionStore)(nil)
