package socialrelay

import (
	"fmt"

	relaycommand "github.com/goliatone/go-social-relay/command"
)

// Commands groups the dispatchable command handlers bound to one service.
type Commands struct {
	RegisterClient        *relaycommand.RegisterClientCommand
	BuildAuthorizationURL *relaycommand.BuildAuthorizationURLCommand
	ExchangeCode          *relaycommand.ExchangeCodeCommand
	SendMessage           *relaycommand.SendMessageCommand
	RevokeSession         *relaycommand.RevokeSessionCommand
}

// Facade binds a relay service to its command handlers so hosts can mount
// the operations on a dispatcher without touching adapter wiring.
type Facade struct {
	service  relaycommand.RelayService
	commands Commands
}

func NewFacade(service relaycommand.RelayService) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("socialrelay: relay service is required")
	}
	return &Facade{
		service: service,
		commands: Commands{
			RegisterClient:        relaycommand.NewRegisterClientCommand(service),
			BuildAuthorizationURL: relaycommand.NewBuildAuthorizationURLCommand(service),
			ExchangeCode:          relaycommand.NewExchangeCodeCommand(service),
			SendMessage:           relaycommand.NewSendMessageCommand(service),
			RevokeSession:         relaycommand.NewRevokeSessionCommand(service),
		},
	}, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Service() relaycommand.RelayService {
	if f == nil {
		return nil
	}
	return f.service
}
