package core

import (
	"fmt"
	"strings"
)

// AdapterEndpoints names the remote endpoints one social-network adapter
// talks to. Paths are remote-server-defined; defaults live with each
// adapter package.
type AdapterEndpoints struct {
	BaseURL     string `koanf:"base_url" mapstructure:"base_url"`
	RegisterURL string `koanf:"register_url" mapstructure:"register_url"`
	AuthURL     string `koanf:"auth_url" mapstructure:"auth_url"`
	TokenURL    string `koanf:"token_url" mapstructure:"token_url"`
	UserInfoURL string `koanf:"userinfo_url" mapstructure:"userinfo_url"`
	StatusURL   string `koanf:"status_url" mapstructure:"status_url"`
	RevokeURL   string `koanf:"revoke_url" mapstructure:"revoke_url"`
}

type Config struct {
	ServiceName           string           `koanf:"service_name" mapstructure:"service_name"`
	RequestTimeoutSeconds int              `koanf:"request_timeout_seconds" mapstructure:"request_timeout_seconds"`
	StatusCharacterLimit  int              `koanf:"status_character_limit" mapstructure:"status_character_limit"`
	Mastodon              AdapterEndpoints `koanf:"mastodon" mapstructure:"mastodon"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:           "social-relay",
		RequestTimeoutSeconds: 30,
		StatusCharacterLimit:  500,
		Mastodon: AdapterEndpoints{
			BaseURL:     "https://mastodon.social",
			RegisterURL: "https://mastodon.social/api/v1/apps",
			AuthURL:     "https://mastodon.social/oauth/authorize",
			TokenURL:    "https://mastodon.social/oauth/token",
			UserInfoURL: "https://mastodon.social/oauth/userinfo",
			StatusURL:   "https://mastodon.social/api/v1/statuses",
			RevokeURL:   "https://mastodon.social/oauth/revoke",
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if c.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("core: request_timeout_seconds must not be negative")
	}
	if c.StatusCharacterLimit <= 0 {
		return fmt.Errorf("core: status_character_limit must be positive")
	}
	return nil
}
