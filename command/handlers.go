package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-social-relay/core"
)

// RelayService is the facade surface the command handlers delegate to.
type RelayService interface {
	RegisterClient(ctx context.Context, adapterID string, req core.RegisterClientRequest) (core.RegisteredClient, error)
	BuildAuthorizationURL(ctx context.Context, adapterID string, req core.BuildAuthorizationURLRequest) (core.AuthorizationRequest, error)
	Exchange(ctx context.Context, adapterID string, req core.ExchangeRequest) (core.ExchangeResult, error)
	Send(ctx context.Context, adapterID string, req core.SendRequest) (core.DeliveryReceipt, error)
	Revoke(ctx context.Context, adapterID string, creds core.ClientCredentials, session core.Session) (core.Session, error)
}

type RegisterClientCommand struct {
	service RelayService
}

func NewRegisterClientCommand(service RelayService) *RegisterClientCommand {
	return &RegisterClientCommand{service: service}
}

func (c *RegisterClientCommand) Execute(ctx context.Context, msg RegisterClientMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: register client service is required")
	}
	out, err := c.service.RegisterClient(ctx, msg.AdapterID, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type BuildAuthorizationURLCommand struct {
	service RelayService
}

func NewBuildAuthorizationURLCommand(service RelayService) *BuildAuthorizationURLCommand {
	return &BuildAuthorizationURLCommand{service: service}
}

func (c *BuildAuthorizationURLCommand) Execute(ctx context.Context, msg BuildAuthorizationURLMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: authorization url service is required")
	}
	out, err := c.service.BuildAuthorizationURL(ctx, msg.AdapterID, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type ExchangeCodeCommand struct {
	service RelayService
}

func NewExchangeCodeCommand(service RelayService) *ExchangeCodeCommand {
	return &ExchangeCodeCommand{service: service}
}

func (c *ExchangeCodeCommand) Execute(ctx context.Context, msg ExchangeCodeMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: exchange service is required")
	}
	out, err := c.service.Exchange(ctx, msg.AdapterID, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type SendMessageCommand struct {
	service RelayService
}

func NewSendMessageCommand(service RelayService) *SendMessageCommand {
	return &SendMessageCommand{service: service}
}

func (c *SendMessageCommand) Execute(ctx context.Context, msg SendMessageMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: send service is required")
	}
	out, err := c.service.Send(ctx, msg.AdapterID, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type RevokeSessionCommand struct {
	service RelayService
}

func NewRevokeSessionCommand(service RelayService) *RevokeSessionCommand {
	return &RevokeSessionCommand{service: service}
}

func (c *RevokeSessionCommand) Execute(ctx context.Context, msg RevokeSessionMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: revoke service is required")
	}
	out, err := c.service.Revoke(ctx, msg.AdapterID, msg.Credentials, msg.Session)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
