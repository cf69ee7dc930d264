package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

// RecordStore is the remote customer storage contract. Tables and fields are
// addressed by their physical names so runtime name overrides flow through
// unchanged; implementations must not assume any particular schema.
type RecordStore interface {
	// Find returns every row in table whose field equals value, in backend
	// order. An empty result is not an error.
	Find(ctx context.Context, table, field string, value any) ([]Row, error)

	// Insert writes a new row and returns its backend row identifier.
	Insert(ctx context.Context, table string, fields map[string]any) (string, error)

	// Update overwrites the given fields on the row with the given backend
	// identifier.
	Update(ctx context.Context, table, rowID string, fields map[string]any) error

	// Upsert updates the row when rowID addresses an existing row and
	// inserts a fresh row otherwise, returning the effective row identifier.
	Upsert(ctx context.Context, table, rowID string, fields map[string]any) (string, error)
}

// EmailSender delivers an assembled message and returns the provider's
// message identifier.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) (string, error)
}

// TemplateFetcher retrieves the raw HTML email template body.
type TemplateFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// TaskCompletion is a handle on a scheduled task. Wait blocks until the task
// has run (returning its error, if any) or the context ends.
type TaskCompletion interface {
	Wait(ctx context.Context) error
}

// TaskScheduler runs a task after a delay on a background goroutine. Task
// failures are logged by the scheduler and surfaced only through the
// returned completion handle; they never propagate to the caller.
type TaskScheduler interface {
	Schedule(delay time.Duration, task func(ctx context.Context) error) TaskCompletion
}

// EventLedger records the outcome of each dispatched event.
type EventLedger interface {
	Append(ctx context.Context, entry ProcessedEvent) (ProcessedEvent, error)
	ListByCustomer(ctx context.Context, customerID string) ([]ProcessedEvent, error)
}

// RepositoryStoreFactory builds storage-backed stores from a persistence
// client handle.
type RepositoryStoreFactory interface {
	BuildStores(persistenceClient any) (StoreProvider, error)
}

// StoreProvider exposes the storage-backed collaborators a wired service
// needs.
type StoreProvider interface {
	Records() RecordStore
	Ledger() EventLedger
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type JobExecutionMessage struct {
	JobID          string
	ScriptPath     string
	Parameters     map[string]any
	IdempotencyKey string
	DedupPolicy    string
}

type JobNackOptions struct {
	Delay      time.Duration
	Requeue    bool
	DeadLetter bool
	Reason     string
}

type JobEnqueuer interface {
	Enqueue(ctx context.Context, msg *JobExecutionMessage) error
}

type JobDelivery interface {
	Message() *JobExecutionMessage
	Ack(ctx context.Context) error
	Nack(ctx context.Context, opts JobNackOptions) error
}

type JobDequeuer interface {
	Dequeue(ctx context.Context) (JobDelivery, error)
}

type JobWorkerHook interface {
	OnStart(ctx context.Context, event JobWorkerEvent)
	OnSuccess(ctx context.Context, event JobWorkerEvent)
	OnFailure(ctx context.Context, event JobWorkerEvent)
	OnRetry(ctx context.Context, event JobWorkerEvent)
}

type JobWorkerEvent struct {
	Message   *JobExecutionMessage
	Attempt   int
	Delay     time.Duration
	Err       error
	StartedAt time.Time
	Duration  time.Duration
}
