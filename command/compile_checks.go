package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[RegisterClientMessage]        = (*RegisterClientCommand)(nil)
	_ gocmd.Commander[BuildAuthorizationURLMessage] = (*BuildAuthorizationURLCommand)(nil)
	_ gocmd.Commander[ExchangeCodeMessage]          = (*ExchangeCodeCommand)(nil)
	_ gocmd.Commander[SendMessageMessage]           = (*SendMessageCommand)(nil)
	_ gocmd.Commander[RevokeSessionMessage]         = (*RevokeSessionCommand)(nil)
)
