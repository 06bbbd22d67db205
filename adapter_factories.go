package socialrelay

import (
	"time"

	"github.com/goliatone/go-social-relay/adapters/mastodon"
	"github.com/goliatone/go-social-relay/core"
)

// MastodonAdapter builds the Mastodon adapter from an explicit adapter
// config, for hosts that wire transports and endpoints themselves.
func MastodonAdapter(cfg mastodon.Config) (core.Adapter, error) {
	return mastodon.New(cfg)
}

func mastodonAdapterFromConfig(cfg core.Config, transportAdapter core.TransportAdapter, logger core.Logger) (core.Adapter, error) {
	return mastodon.New(mastodon.Config{
		Endpoints:      cfg.Mastodon,
		Transport:      transportAdapter,
		Logger:         logger,
		CharacterLimit: cfg.StatusCharacterLimit,
		RequestTimeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
	})
}

func registerDefaultAdapters(registry core.Registry, cfg core.Config, transportAdapter core.TransportAdapter, logger core.Logger) error {
	if registry == nil {
		return nil
	}
	if _, exists := registry.Get(mastodon.AdapterID); exists {
		return nil
	}
	adapter, err := mastodonAdapterFromConfig(cfg, transportAdapter, logger)
	if err != nil {
		return err
	}
	return registry.Register(adapter)
}
