// Command social-relay drives the adapter core from the terminal. State
// lives in caller-owned JSON documents: a credentials document produced by
// register and a session document produced by exchange.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	glog "github.com/goliatone/go-logger/glog"
	socialrelay "github.com/goliatone/go-social-relay"
	"github.com/goliatone/go-social-relay/core"
)

var cli struct {
	Adapter        string `help:"Adapter to operate against." default:"mastodon"`
	Server         string `help:"Remote server base URL, e.g. https://mastodon.social."`
	CharacterLimit int    `help:"Override the status character limit."`
	Quiet          bool   `help:"Suppress log output." short:"q"`

	Register RegisterCmd `cmd:"" help:"Register an OAuth2 client and write a credentials document."`
	AuthURL  AuthURLCmd  `cmd:"" name:"auth-url" help:"Print the authorization URL for a credentials document."`
	Exchange ExchangeCmd `cmd:"" help:"Exchange an authorization code for a session document."`
	Send     SendCmd     `cmd:"" name:"send-message" help:"Deliver a message under a session document."`
	Revoke   RevokeCmd   `cmd:"" help:"Revoke the access token held by a session document."`
}

type appContext struct {
	ctx     context.Context
	service *socialrelay.Service
	adapter string
	stdout  io.Writer
	stderr  io.Writer
}

func main() {
	parsed := kong.Parse(&cli,
		kong.Name("social-relay"),
		kong.Description("OAuth2 message relay for social network adapters."),
		kong.UsageOnError(),
	)

	opts := []socialrelay.Option{}
	if cli.Quiet {
		opts = append(opts, socialrelay.WithLogger(glog.Nop()))
	}
	runtime := core.Config{}
	if strings.TrimSpace(cli.Server) != "" {
		runtime.Mastodon = endpointsForServer(cli.Server)
	}
	if cli.CharacterLimit > 0 {
		runtime.StatusCharacterLimit = cli.CharacterLimit
	}

	service, err := socialrelay.NewService(runtime, opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "social-relay:", err)
		os.Exit(exitCode(err))
	}

	app := &appContext{
		ctx:     context.Background(),
		service: service,
		adapter: cli.Adapter,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	if err := parsed.Run(app); err != nil {
		fmt.Fprintln(os.Stderr, "social-relay:", err)
		os.Exit(exitCode(err))
	}
}

// endpointsForServer derives the full endpoint set from one base URL, the
// same paths the default Mastodon endpoints use.
func endpointsForServer(server string) core.AdapterEndpoints {
	base := strings.TrimRight(strings.TrimSpace(server), "/")
	return core.AdapterEndpoints{
		BaseURL:     base,
		RegisterURL: base + "/api/v1/apps",
		AuthURL:     base + "/oauth/authorize",
		TokenURL:    base + "/oauth/token",
		UserInfoURL: base + "/oauth/userinfo",
		StatusURL:   base + "/api/v1/statuses",
		RevokeURL:   base + "/oauth/revoke",
	}
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	switch core.TextCode(err) {
	case core.RelayErrorConfigInvalid:
		return 2
	case core.RelayErrorBadInput, core.RelayErrorValidationFailed, core.RelayErrorAdapterNotFound:
		return 3
	case core.RelayErrorTokenExchangeFailed:
		return 4
	case core.RelayErrorSessionInvalid:
		return 5
	case core.RelayErrorAuthExpired:
		return 6
	case core.RelayErrorDeliveryFailed:
		return 7
	case core.RelayErrorRevocationFailed:
		return 8
	case core.RelayErrorNetworkFailure, core.RelayErrorTimeout:
		return 9
	default:
		return 1
	}
}
