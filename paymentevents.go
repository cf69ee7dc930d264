package paymentevents

import "github.com/goliatone/go-payment-events/core"

type Config = core.Config

type StoreConfig = core.StoreConfig

type EmailConfig = core.EmailConfig

type DelayConfig = core.DelayConfig

type ServerConfig = core.ServerConfig

type Option = core.Option

type Service = core.Service

type ServiceDependencies = core.ServiceDependencies
type RecordStore = core.RecordStore
type EventLedger = core.EventLedger
type StoreProvider = core.StoreProvider
type RepositoryStoreFactory = core.RepositoryStoreFactory
type TaskScheduler = core.TaskScheduler
type EmailSender = core.EmailSender
type TemplateFetcher = core.TemplateFetcher

type EventEnvelope = core.EventEnvelope
type EventOutcome = core.EventOutcome
type EventKind = core.EventKind
type ProcessedEvent = core.ProcessedEvent
type Row = core.Row

var (
	WithLogger            = core.WithLogger
	WithLoggerProvider    = core.WithLoggerProvider
	WithMetricsRecorder   = core.WithMetricsRecorder
	WithErrorFactory      = core.WithErrorFactory
	WithErrorMapper       = core.WithErrorMapper
	WithConfigProvider    = core.WithConfigProvider
	WithOptionsResolver   = core.WithOptionsResolver
	WithPersistenceClient = core.WithPersistenceClient
	WithRepositoryFactory = core.WithRepositoryFactory
	WithRecordStore       = core.WithRecordStore
	WithEventLedger       = core.WithEventLedger
	WithNamingResolver    = core.WithNamingResolver
	WithTaskScheduler     = core.WithTaskScheduler
	WithEmailSender       = core.WithEmailSender
	WithTemplateFetcher   = core.WithTemplateFetcher
	WithClock             = core.WithClock
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	return core.NewService(cfg, opts...)
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return core.Setup(cfg, opts...)
}
