package core

import (
	"context"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ServiceName != "payment-events" {
		t.Fatalf("service name = %q", cfg.ServiceName)
	}
	if cfg.Delays.LinkAttach != 5*time.Second || cfg.Delays.EmailDispatch != 6*time.Second {
		t.Fatalf("delays = %+v", cfg.Delays)
	}
	if cfg.Server.Port != 4242 {
		t.Fatalf("port = %d", cfg.Server.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ServiceName = " "
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() error = nil for blank service name")
	}

	cfg = DefaultConfig()
	cfg.Store.Backend = "carrier-pigeon"
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() error = nil for unsupported backend")
	}

	cfg = DefaultConfig()
	cfg.Store.Backend = "rest"
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() error = nil for rest backend without url")
	}

	cfg = DefaultConfig()
	cfg.Server.Port = 99999
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() error = nil for out-of-range port")
	}
}

func TestCfgxConfigProviderMergesRawValues(t *testing.T) {
	provider := NewCfgxConfigProvider(staticRawConfigLoader{Values: map[string]any{
		"service_name": "payments-test",
		"email": map[string]any{
			"sender": "ops@example.com",
		},
	}})

	cfg, err := provider.Load(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ServiceName != "payments-test" {
		t.Fatalf("service name = %q", cfg.ServiceName)
	}
	if cfg.Email.Sender != "ops@example.com" {
		t.Fatalf("sender = %q", cfg.Email.Sender)
	}
	if cfg.Server.Port != 4242 {
		t.Fatalf("port = %d, want default preserved", cfg.Server.Port)
	}
}

func TestGoOptionsResolverLayerPrecedence(t *testing.T) {
	defaults := DefaultConfig()

	loaded := defaults
	loaded.ServiceName = "from-config"
	loaded.Email.Subject = "From config"

	runtime := Config{}
	runtime.ServiceName = "from-runtime"

	resolved, err := GoOptionsResolver{}.Resolve(defaults, loaded, runtime)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved.ServiceName != "from-runtime" {
		t.Fatalf("service name = %q, want runtime layer to win", resolved.ServiceName)
	}
	if resolved.Email.Subject != "From config" {
		t.Fatalf("subject = %q, want config layer value", resolved.Email.Subject)
	}
	if resolved.Server.Port != 4242 {
		t.Fatalf("port = %d, want default", resolved.Server.Port)
	}
}
