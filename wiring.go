package paymentevents

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-payment-events/core"
	"github.com/goliatone/go-payment-events/email"
	"github.com/goliatone/go-payment-events/server"
	reststore "github.com/goliatone/go-payment-events/store/rest"
	sqlstore "github.com/goliatone/go-payment-events/store/sql"
)

// NewRecordStore builds the record-store backend named by the config.
// The sql backend needs a persistence client or *bun.DB; the rest backend
// talks PostgREST at cfg.URL with cfg.Key.
func NewRecordStore(cfg core.StoreConfig, persistenceClient any) (core.RecordStore, error) {
	switch strings.TrimSpace(cfg.Backend) {
	case "", "sql":
		return sqlstore.NewRecordStoreFromPersistence(persistenceClient)
	case "rest":
		return reststore.NewRecordStore(cfg.URL, cfg.Key, nil)
	default:
		return nil, fmt.Errorf("paymentevents: store backend %q is not supported", cfg.Backend)
	}
}

// NewStoreFactory builds the sql repository factory used as the service's
// WithRepositoryFactory option. BuildStores resolves the database from the
// persistence client handed to Setup.
func NewStoreFactory() *sqlstore.RepositoryFactory {
	return sqlstore.NewRepositoryFactory()
}

func NewEmailSender(cfg core.EmailConfig) (core.EmailSender, error) {
	return email.NewResendSender(cfg.APIKey)
}

func NewTemplateFetcher() core.TemplateFetcher {
	return email.NewHTTPTemplateFetcher(nil)
}

// NewServer binds the configured service to its webhook endpoint.
func NewServer(svc *Service) (*server.Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("paymentevents: service is required")
	}
	return server.New(svc.Config().Server, svc, svc.Dependencies().Logger)
}

// SetupWithStores wires the full pipeline from config: record store and
// ledger for the selected backend, the Resend sender when an email key is
// configured, and the remote template fetcher when a template URL is set.
// Explicit options still win over anything derived here.
func SetupWithStores(cfg Config, persistenceClient any, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	derived := make([]Option, 0, 4)
	switch strings.TrimSpace(cfg.Store.Backend) {
	case "", "sql":
		derived = append(derived,
			core.WithPersistenceClient(persistenceClient),
			core.WithRepositoryFactory(NewStoreFactory()),
		)
	case "rest":
		records, err := reststore.NewRecordStore(cfg.Store.URL, cfg.Store.Key, nil)
		if err != nil {
			return nil, err
		}
		derived = append(derived, core.WithRecordStore(records))
	default:
		return nil, fmt.Errorf("paymentevents: store backend %q is not supported", cfg.Store.Backend)
	}

	if strings.TrimSpace(cfg.Email.APIKey) != "" {
		sender, err := email.NewResendSender(cfg.Email.APIKey)
		if err != nil {
			return nil, err
		}
		derived = append(derived, core.WithEmailSender(sender))
	}
	if strings.TrimSpace(cfg.Email.TemplateURL) != "" {
		derived = append(derived, core.WithTemplateFetcher(NewTemplateFetcher()))
	}

	return core.Setup(cfg, append(derived, opts...)...)
}
