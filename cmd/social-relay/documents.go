package main

import (
	"os"

	"github.com/goliatone/go-social-relay/core"
)

const documentMode = 0o600

func readCredentialsDocument(path string) (core.ClientCredentials, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return core.ClientCredentials{}, core.WrapConfigError(err, "read credentials document")
	}
	return core.ParseClientCredentials(payload)
}

func writeCredentialsDocument(path string, client core.RegisteredClient) error {
	payload, err := core.EncodeClientCredentials(client)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(payload, '\n'), documentMode); err != nil {
		return core.WrapConfigError(err, "write credentials document")
	}
	return nil
}

func readSessionDocument(path string) (core.Session, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return core.Session{}, core.NewSessionInvalidError(err)
	}
	session, err := core.JSONSessionCodec{}.Decode(payload)
	if err != nil {
		return core.Session{}, core.NewSessionInvalidError(err)
	}
	return session, nil
}

func writeSessionDocument(path string, session core.Session) error {
	payload, err := core.JSONSessionCodec{}.Encode(session)
	if err != nil {
		return core.MapError(err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), documentMode); err != nil {
		return core.WrapConfigError(err, "write session document")
	}
	return nil
}
