package command

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-social-relay/core"
)

const (
	TypeRegisterClient        = "relay.command.client.register"
	TypeBuildAuthorizationURL = "relay.command.auth_url.build"
	TypeExchangeCode          = "relay.command.code.exchange"
	TypeSendMessage           = "relay.command.message.send"
	TypeRevokeSession         = "relay.command.session.revoke"
)

type RegisterClientMessage struct {
	AdapterID string
	Request   core.RegisterClientRequest
}

func (RegisterClientMessage) Type() string { return TypeRegisterClient }

func (m RegisterClientMessage) Validate() error {
	if strings.TrimSpace(m.AdapterID) == "" {
		return fmt.Errorf("command: adapter id is required")
	}
	if strings.TrimSpace(m.Request.Name) == "" {
		return fmt.Errorf("command: client name is required")
	}
	if strings.TrimSpace(m.Request.RedirectURI) == "" {
		return fmt.Errorf("command: redirect uri is required")
	}
	return nil
}

type BuildAuthorizationURLMessage struct {
	AdapterID string
	Request   core.BuildAuthorizationURLRequest
}

func (BuildAuthorizationURLMessage) Type() string { return TypeBuildAuthorizationURL }

func (m BuildAuthorizationURLMessage) Validate() error {
	if strings.TrimSpace(m.AdapterID) == "" {
		return fmt.Errorf("command: adapter id is required")
	}
	if err := m.Request.Credentials.Validate(); err != nil {
		return err
	}
	return nil
}

type ExchangeCodeMessage struct {
	AdapterID string
	Request   core.ExchangeRequest
}

func (ExchangeCodeMessage) Type() string { return TypeExchangeCode }

func (m ExchangeCodeMessage) Validate() error {
	if strings.TrimSpace(m.AdapterID) == "" {
		return fmt.Errorf("command: adapter id is required")
	}
	if err := m.Request.Credentials.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(m.Request.Code) == "" {
		return fmt.Errorf("command: authorization code is required")
	}
	return nil
}

type SendMessageMessage struct {
	AdapterID string
	Request   core.SendRequest
}

func (SendMessageMessage) Type() string { return TypeSendMessage }

func (m SendMessageMessage) Validate() error {
	if strings.TrimSpace(m.AdapterID) == "" {
		return fmt.Errorf("command: adapter id is required")
	}
	if strings.TrimSpace(m.Request.Text) == "" {
		return fmt.Errorf("command: message text is required")
	}
	return nil
}

type RevokeSessionMessage struct {
	AdapterID   string
	Credentials core.ClientCredentials
	Session     core.Session
}

func (RevokeSessionMessage) Type() string { return TypeRevokeSession }

func (m RevokeSessionMessage) Validate() error {
	if strings.TrimSpace(m.AdapterID) == "" {
		return fmt.Errorf("command: adapter id is required")
	}
	return nil
}
