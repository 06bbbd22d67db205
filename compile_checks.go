package socialrelay

import relaycommand "github.com/goliatone/go-social-relay/command"

var _ relaycommand.RelayService = (*Service)(nil)
