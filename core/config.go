package core

import (
	"fmt"
	"strings"
	"time"
)

type StoreConfig struct {
	// Backend selects the record-store implementation: "sql" or "rest".
	Backend string `koanf:"backend" mapstructure:"backend"`
	Driver  string `koanf:"driver" mapstructure:"driver"`
	DSN     string `koanf:"dsn" mapstructure:"dsn"`
	URL     string `koanf:"url" mapstructure:"url"`
	Key     string `koanf:"key" mapstructure:"key"`
}

type EmailConfig struct {
	Sender      string `koanf:"sender" mapstructure:"sender"`
	Subject     string `koanf:"subject" mapstructure:"subject"`
	TemplateURL string `koanf:"template_url" mapstructure:"template_url"`
	APIKey      string `koanf:"api_key" mapstructure:"api_key"`
	// AllowDirty skips recipient address validation before sending.
	AllowDirty bool `koanf:"allow_dirty" mapstructure:"allow_dirty"`
}

type DelayConfig struct {
	LinkAttach    time.Duration `koanf:"link_attach" mapstructure:"link_attach"`
	EmailDispatch time.Duration `koanf:"email_dispatch" mapstructure:"email_dispatch"`
}

type ServerConfig struct {
	Port  int    `koanf:"port" mapstructure:"port"`
	Route string `koanf:"route" mapstructure:"route"`
}

type Config struct {
	ServiceName string       `koanf:"service_name" mapstructure:"service_name"`
	Store       StoreConfig  `koanf:"store" mapstructure:"store"`
	Email       EmailConfig  `koanf:"email" mapstructure:"email"`
	Delays      DelayConfig  `koanf:"delays" mapstructure:"delays"`
	Server      ServerConfig `koanf:"server" mapstructure:"server"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "payment-events",
		Store: StoreConfig{
			Backend: "sql",
			Driver:  "postgres",
		},
		Email: EmailConfig{
			Subject: "Payment receipt",
		},
		Delays: DelayConfig{
			LinkAttach:    5 * time.Second,
			EmailDispatch: 6 * time.Second,
		},
		Server: ServerConfig{
			Port:  4242,
			Route: "/",
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	switch strings.TrimSpace(c.Store.Backend) {
	case "", "sql", "rest":
	default:
		return fmt.Errorf("core: store.backend %q is not supported", c.Store.Backend)
	}
	if c.Store.Backend == "rest" && strings.TrimSpace(c.Store.URL) == "" {
		return fmt.Errorf("core: store.url is required for the rest backend")
	}
	if c.Delays.LinkAttach < 0 || c.Delays.EmailDispatch < 0 {
		return fmt.Errorf("core: delays must not be negative")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("core: server.port %d is out of range", c.Server.Port)
	}
	return nil
}
