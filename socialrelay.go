// Package socialrelay composes the adapter core into a host-facing surface:
// a Service routing the five relay operations through an adapter registry,
// and a Facade exposing them as dispatchable commands.
package socialrelay

import "github.com/goliatone/go-social-relay/core"

type Config = core.Config

type AdapterEndpoints = core.AdapterEndpoints

type Adapter = core.Adapter

type Registry = core.Registry

type TransportAdapter = core.TransportAdapter
type TransportRequest = core.TransportRequest
type TransportResponse = core.TransportResponse

type ClientCredentials = core.ClientCredentials
type RegisteredClient = core.RegisteredClient
type AuthorizationRequest = core.AuthorizationRequest
type Session = core.Session
type AccountIdentity = core.AccountIdentity
type DeliveryReceipt = core.DeliveryReceipt

type RegisterClientRequest = core.RegisterClientRequest
type BuildAuthorizationURLRequest = core.BuildAuthorizationURLRequest
type ExchangeRequest = core.ExchangeRequest
type ExchangeResult = core.ExchangeResult
type SendRequest = core.SendRequest

type AuthRequestStore = core.AuthRequestStore
type SessionStore = core.SessionStore
type SessionCodec = core.SessionCodec

type Logger = core.Logger
type LoggerProvider = core.LoggerProvider

func DefaultConfig() Config {
	return core.DefaultConfig()
}
