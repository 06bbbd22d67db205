package main

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-social-relay/core"
)

type RegisterCmd struct {
	Name        string   `help:"Client name shown on the authorization page." required:""`
	RedirectURI string   `help:"OAuth2 redirect URI." default:"urn:ietf:wg:oauth:2.0:oob"`
	Scopes      []string `help:"Requested scopes." default:"profile,write:statuses"`
	Website     string   `help:"Client website URL."`
	Out         string   `help:"Path for the credentials document." default:"credentials.json"`
}

func (c *RegisterCmd) Run(app *appContext) error {
	client, err := app.service.RegisterClient(app.ctx, app.adapter, core.RegisterClientRequest{
		Name:        c.Name,
		RedirectURI: c.RedirectURI,
		Scopes:      c.Scopes,
		Website:     c.Website,
	})
	if err != nil {
		return err
	}
	if err := writeCredentialsDocument(c.Out, client); err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "registered client %s\ncredentials written to %s\n", client.ClientID, c.Out)
	return nil
}

type AuthURLCmd struct {
	Credentials string   `help:"Path to the credentials document." required:"" type:"existingfile"`
	State       string   `help:"Anti-forgery state; generated when omitted."`
	RedirectURI string   `help:"Redirect URI override."`
	Scopes      []string `help:"Scope override."`
	PKCE        bool     `help:"Generate a PKCE code verifier and attach its S256 challenge."`
}

func (c *AuthURLCmd) Run(app *appContext) error {
	creds, err := readCredentialsDocument(c.Credentials)
	if err != nil {
		return err
	}
	request, err := app.service.BuildAuthorizationURL(app.ctx, app.adapter, core.BuildAuthorizationURLRequest{
		Credentials:  creds,
		State:        c.State,
		RedirectURI:  c.RedirectURI,
		Scopes:       c.Scopes,
		GeneratePKCE: c.PKCE,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "%s\n", request.AuthorizationURL)
	fmt.Fprintf(app.stderr, "state: %s\n", request.State)
	if request.CodeVerifier != "" {
		fmt.Fprintf(app.stderr, "code verifier: %s\n", request.CodeVerifier)
	}
	return nil
}

type ExchangeCmd struct {
	Credentials string `help:"Path to the credentials document." required:"" type:"existingfile"`
	Code        string `help:"Authorization code from the callback." required:""`
	Verifier    string `help:"PKCE code verifier from the auth-url step."`
	RedirectURI string `help:"Redirect URI override."`
	Out         string `help:"Path for the session document." default:"session.json"`
}

func (c *ExchangeCmd) Run(app *appContext) error {
	creds, err := readCredentialsDocument(c.Credentials)
	if err != nil {
		return err
	}
	result, err := app.service.Exchange(app.ctx, app.adapter, core.ExchangeRequest{
		Credentials:  creds,
		Code:         c.Code,
		CodeVerifier: c.Verifier,
		RedirectURI:  c.RedirectURI,
	})
	if err != nil {
		return err
	}
	if err := writeSessionDocument(c.Out, result.Session); err != nil {
		return err
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(app.stderr, "warning: %s\n", warning)
	}
	who := strings.TrimSpace(result.Session.Identity.Handle)
	if who == "" {
		who = "unknown account"
	}
	fmt.Fprintf(app.stdout, "authenticated as %s\nsession written to %s\n", who, c.Out)
	return nil
}

type SendCmd struct {
	Session string `help:"Path to the session document." required:"" type:"existingfile"`
	Text    string `arg:"" help:"Message text to deliver."`
}

func (c *SendCmd) Run(app *appContext) error {
	session, err := readSessionDocument(c.Session)
	if err != nil {
		return err
	}
	receipt, err := app.service.Send(app.ctx, app.adapter, core.SendRequest{
		Session: session,
		Text:    c.Text,
	})
	if err != nil {
		return err
	}
	if len(receipt.Parts) > 1 {
		fmt.Fprintf(app.stdout, "delivered as %d-part thread, first part %s\n", len(receipt.Parts), receipt.MessageID)
	} else {
		fmt.Fprintf(app.stdout, "delivered message %s\n", receipt.MessageID)
	}
	if strings.TrimSpace(receipt.URL) != "" {
		fmt.Fprintf(app.stdout, "%s\n", receipt.URL)
	}
	return nil
}

type RevokeCmd struct {
	Credentials string `help:"Path to the credentials document." required:"" type:"existingfile"`
	Session     string `help:"Path to the session document." required:"" type:"existingfile"`
}

func (c *RevokeCmd) Run(app *appContext) error {
	creds, err := readCredentialsDocument(c.Credentials)
	if err != nil {
		return err
	}
	session, err := readSessionDocument(c.Session)
	if err != nil {
		return err
	}
	revoked, err := app.service.Revoke(app.ctx, app.adapter, creds, session)
	if err != nil {
		return err
	}
	if err := writeSessionDocument(c.Session, revoked); err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "session revoked; document updated at %s\n", c.Session)
	return nil
}
