package core

import (
	"context"
	"errors"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-payment-events/naming"
)

var (
	ErrRecordStoreRequired = errors.New("core: record store is required")
	ErrEmailNotConfigured  = errors.New("core: email sender is not configured")
)

// Service is the webhook ingestion pipeline: it classifies provider events,
// drives the customer-record mutations each kind requires, defers the
// payment-link attachment, and dispatches the receipt email with its
// email_sent write-back.
type Service struct {
	config            Config
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

type ServiceDependencies struct {
	Logger            Logger
	LoggerProvider    LoggerProvider
	MetricsRecorder   MetricsRecorder
	ErrorFactory      ErrorFactory
	ErrorMapper       ErrorMapper
	ConfigProvider    ConfigProvider
	OptionsResolver   OptionsResolver
	PersistenceClient any
	RepositoryFactory any
	Records           RecordStore
	Ledger            EventLedger
	Names             *naming.Resolver
	Scheduler         TaskScheduler
	EmailSender       EmailSender
	Templates         TemplateFetcher
}

func NewService(cfg Config, options ...Option) (*Service, error) {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("payments", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("payments"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.errorFactory == nil {
		builder.errorFactory = goerrors.New
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.names == nil {
		builder.names = naming.NewResolver()
	}
	if builder.now == nil {
		builder.now = time.Now
	}
	if builder.scheduler == nil {
		builder.scheduler = NewTimerScheduler(logger)
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	if (builder.records == nil || builder.ledger == nil) && builder.repositoryFactory != nil {
		if storeFactory, ok := builder.repositoryFactory.(RepositoryStoreFactory); ok {
			storeProvider, buildErr := storeFactory.BuildStores(builder.persistenceClient)
			if buildErr != nil {
				return nil, mapBuildError(builder.errorMapper, buildErr)
			}
			if storeProvider != nil {
				if builder.records == nil {
					builder.records = storeProvider.Records()
				}
				if builder.ledger == nil {
					builder.ledger = storeProvider.Ledger()
				}
			}
		} else if storeProvider, ok := builder.repositoryFactory.(StoreProvider); ok {
			if builder.records == nil {
				builder.records = storeProvider.Records()
			}
			if builder.ledger == nil {
				builder.ledger = storeProvider.Ledger()
			}
		}
	}

	if builder.records == nil {
		return nil, mapBuildError(builder.errorMapper, ErrRecordStoreRequired)
	}

	return &Service{
		config:            finalConfig,
		logger:            logger,
		loggerProvider:    provider,
		metricsRecorder:   builder.metricsRecorder,
		errorFactory:      builder.errorFactory,
		errorMapper:       builder.errorMapper,
		configProvider:    builder.configProvider,
		optionsResolver:   builder.optionsResolver,
		persistenceClient: builder.persistenceClient,
		repositoryFactory: builder.repositoryFactory,
		records:           builder.records,
		ledger:            builder.ledger,
		names:             builder.names,
		scheduler:         builder.scheduler,
		emailSender:       builder.emailSender,
		templates:         builder.templates,
		now:               builder.now,
	}, nil
}

func Setup(cfg Config, options ...Option) (*Service, error) {
	return NewService(cfg, options...)
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

func (s *Service) Dependencies() ServiceDependencies {
	if s == nil {
		return ServiceDependencies{}
	}
	return ServiceDependencies{
		Logger:            s.logger,
		LoggerProvider:    s.loggerProvider,
		MetricsRecorder:   s.metricsRecorder,
		ErrorFactory:      s.errorFactory,
		ErrorMapper:       s.errorMapper,
		ConfigProvider:    s.configProvider,
		OptionsResolver:   s.optionsResolver,
		PersistenceClient: s.persistenceClient,
		RepositoryFactory: s.repositoryFactory,
		Records:           s.records,
		Ledger:            s.ledger,
		Names:             s.names,
		Scheduler:         s.scheduler,
		EmailSender:       s.emailSender,
		Templates:         s.templates,
	}
}

func (s *Service) mapError(err error) error {
	if err == nil {
		return nil
	}
	if s == nil || s.errorMapper == nil {
		return err
	}
	mapped := s.errorMapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}
