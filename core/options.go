package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-config/cfgx"
	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	opts "github.com/goliatone/go-options"

	"github.com/goliatone/go-payment-events/naming"
)

type ErrorFactory func(message string, category ...goerrors.Category) *goerrors.Error

type ErrorMapper func(err error) *goerrors.Error

type ConfigProvider interface {
	Load(ctx context.Context, defaults Config) (Config, error)
}

type RawConfigLoader interface {
	LoadRaw(ctx context.Context) (map[string]any, error)
}

type OptionsResolver interface {
	Resolve(defaults Config, loaded Config, runtime Config) (Config, error)
}

type serviceBuilder struct {
	runtimeConfig     Config
	logger            Logger
	loggerProvider    LoggerProvider
	metricsRecorder   MetricsRecorder
	errorFactory      ErrorFactory
	errorMapper       ErrorMapper
	configProvider    ConfigProvider
	optionsResolver   OptionsResolver
	persistenceClient any
	repositoryFactory any
	records           RecordStore
	ledger            EventLedger
	names             *naming.Resolver
	scheduler         TaskScheduler
	emailSender       EmailSender
	templates         TemplateFetcher
	now               func() time.Time
}

type Option func(*serviceBuilder)

func WithLogger(logger Logger) Option {
	return func(b *serviceBuilder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider LoggerProvider) Option {
	return func(b *serviceBuilder) {
		b.loggerProvider = provider
	}
}

func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(b *serviceBuilder) {
		b.metricsRecorder = recorder
	}
}

func WithErrorFactory(factory ErrorFactory) Option {
	return func(b *serviceBuilder) {
		b.errorFactory = factory
	}
}

func WithErrorMapper(mapper ErrorMapper) Option {
	return func(b *serviceBuilder) {
		b.errorMapper = mapper
	}
}

func WithConfigProvider(provider ConfigProvider) Option {
	return func(b *serviceBuilder) {
		b.configProvider = provider
	}
}

func WithOptionsResolver(resolver OptionsResolver) Option {
	return func(b *serviceBuilder) {
		b.optionsResolver = resolver
	}
}

func WithPersistenceClient(client any) Option {
	return func(b *serviceBuilder) {
		b.persistenceClient = client
	}
}

func WithRepositoryFactory(factory any) Option {
	return func(b *serviceBuilder) {
		b.repositoryFactory = factory
	}
}

func WithRecordStore(store RecordStore) Option {
	return func(b *serviceBuilder) {
		b.records = store
	}
}

func WithEventLedger(ledger EventLedger) Option {
	return func(b *serviceBuilder) {
		b.ledger = ledger
	}
}

func WithNamingResolver(resolver *naming.Resolver) Option {
	return func(b *serviceBuilder) {
		b.names = resolver
	}
}

func WithTaskScheduler(scheduler TaskScheduler) Option {
	return func(b *serviceBuilder) {
		b.scheduler = scheduler
	}
}

func WithEmailSender(sender EmailSender) Option {
	return func(b *serviceBuilder) {
		b.emailSender = sender
	}
}

func WithTemplateFetcher(fetcher TemplateFetcher) Option {
	return func(b *serviceBuilder) {
		b.templates = fetcher
	}
}

func WithClock(now func() time.Time) Option {
	return func(b *serviceBuilder) {
		b.now = now
	}
}

func defaultServiceBuilder(runtime Config) serviceBuilder {
	loggerProvider, logger := glog.Resolve("payments", nil, nil)
	return serviceBuilder{
		runtimeConfig:   runtime,
		loggerProvider:  loggerProvider,
		logger:          logger,
		metricsRecorder: NopMetricsRecorder{},
		errorFactory:    goerrors.New,
		errorMapper:     defaultErrorMapper,
		configProvider:  NewCfgxConfigProvider(nil),
		optionsResolver: GoOptionsResolver{},
		names:           naming.NewResolver(),
		now:             time.Now,
	}
}

func defaultErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}
	return paymentsErrorMapper(err)
}

type staticRawConfigLoader struct {
	Values map[string]any
}

func (l staticRawConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.Values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.Values))
	for key, value := range l.Values {
		out[key] = value
	}
	return out, nil
}

type CfgxConfigProvider struct {
	Loader RawConfigLoader
}

func NewCfgxConfigProvider(loader RawConfigLoader) *CfgxConfigProvider {
	return &CfgxConfigProvider{Loader: loader}
}

func (p *CfgxConfigProvider) Load(ctx context.Context, defaults Config) (Config, error) {
	if p == nil {
		return defaults, nil
	}
	loader := p.Loader
	if loader == nil {
		loader = staticRawConfigLoader{}
	}
	raw, err := loader.LoadRaw(ctx)
	if err != nil {
		return Config{}, err
	}
	cfg, err := cfgx.Build[Config](raw,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type GoOptionsResolver struct{}

func (GoOptionsResolver) Resolve(defaults Config, loaded Config, runtime Config) (Config, error) {
	defaultLayer := configToLayerMap(defaults, true)
	loadedLayer := configToLayerMap(loaded, false)
	runtimeLayer := configToLayerMap(runtime, false)

	stack, err := opts.NewStack(
		opts.NewLayer(
			opts.NewScope("defaults", 0),
			defaultLayer,
			opts.WithSnapshotID[map[string]any]("defaults"),
		),
		opts.NewLayer(
			opts.NewScope("config", 10),
			loadedLayer,
			opts.WithSnapshotID[map[string]any]("config"),
		),
		opts.NewLayer(
			opts.NewScope("runtime", 20),
			runtimeLayer,
			opts.WithSnapshotID[map[string]any]("runtime"),
		),
	)
	if err != nil {
		return Config{}, fmt.Errorf("core: options stack build failed: %w", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		return Config{}, fmt.Errorf("core: options merge failed: %w", err)
	}
	resolved, err := cfgx.Build[Config](merged.Value,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	if err := resolved.Validate(); err != nil {
		return Config{}, err
	}
	return resolved, nil
}

func configToLayerMap(cfg Config, includeZero bool) map[string]any {
	layer := map[string]any{}
	if includeZero || strings.TrimSpace(cfg.ServiceName) != "" {
		layer["service_name"] = cfg.ServiceName
	}

	store := map[string]any{}
	if includeZero || strings.TrimSpace(cfg.Store.Backend) != "" {
		store["backend"] = cfg.Store.Backend
	}
	if includeZero || strings.TrimSpace(cfg.Store.Driver) != "" {
		store["driver"] = cfg.Store.Driver
	}
	if includeZero || strings.TrimSpace(cfg.Store.DSN) != "" {
		store["dsn"] = cfg.Store.DSN
	}
	if includeZero || strings.TrimSpace(cfg.Store.URL) != "" {
		store["url"] = cfg.Store.URL
	}
	if includeZero || strings.TrimSpace(cfg.Store.Key) != "" {
		store["key"] = cfg.Store.Key
	}
	if len(store) > 0 {
		layer["store"] = store
	}

	email := map[string]any{}
	if includeZero || strings.TrimSpace(cfg.Email.Sender) != "" {
		email["sender"] = cfg.Email.Sender
	}
	if includeZero || strings.TrimSpace(cfg.Email.Subject) != "" {
		email["subject"] = cfg.Email.Subject
	}
	if includeZero || strings.TrimSpace(cfg.Email.TemplateURL) != "" {
		email["template_url"] = cfg.Email.TemplateURL
	}
	if includeZero || strings.TrimSpace(cfg.Email.APIKey) != "" {
		email["api_key"] = cfg.Email.APIKey
	}
	if includeZero || cfg.Email.AllowDirty {
		email["allow_dirty"] = cfg.Email.AllowDirty
	}
	if len(email) > 0 {
		layer["email"] = email
	}

	delays := map[string]any{}
	if includeZero || cfg.Delays.LinkAttach > 0 {
		delays["link_attach"] = cfg.Delays.LinkAttach
	}
	if includeZero || cfg.Delays.EmailDispatch > 0 {
		delays["email_dispatch"] = cfg.Delays.EmailDispatch
	}
	if len(delays) > 0 {
		layer["delays"] = delays
	}

	server := map[string]any{}
	if includeZero || cfg.Server.Port > 0 {
		server["port"] = cfg.Server.Port
	}
	if includeZero || strings.TrimSpace(cfg.Server.Route) != "" {
		server["route"] = cfg.Server.Route
	}
	if len(server) > 0 {
		layer["server"] = server
	}

	return layer
}
