package adapters_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-command"
	job "github.com/goliatone/go-job"
	jobqueue "github.com/goliatone/go-job/queue"
	jobqueuecommand "github.com/goliatone/go-job/queue/command"
	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-payment-events/adapters/gocommand"
	"github.com/goliatone/go-payment-events/adapters/gojob"
	"github.com/goliatone/go-payment-events/adapters/gologger"
	paymentscommand "github.com/goliatone/go-payment-events/command"
	"github.com/goliatone/go-payment-events/core"
)

func TestRuntimeCompatibility_GoJobGoCommandGoLogger(t *testing.T) {
	ctx := context.Background()

	logger := &compatLogger{}
	provider := &compatProvider{logger: logger}

	_, _, jobProvider, jobLogger := gologger.ResolveForJob("payments", provider, nil)
	if jobProvider == nil || jobLogger == nil {
		t.Fatalf("expected go-job logger bridges")
	}

	enqueueProbe := &compatEnqueuer{}
	enqueueAdapter := gojob.NewEnqueuerAdapter(enqueueProbe)
	if err := enqueueAdapter.Enqueue(ctx, &core.JobExecutionMessage{
		JobID:          gojob.JobIDLinkAttach,
		ScriptPath:     "payments.link.attach",
		Parameters:     map[string]any{"email": "jane@example.com"},
		IdempotencyKey: "idem_1",
		DedupPolicy:    "drop",
	}); err != nil {
		t.Fatalf("enqueue via gojob adapter: %v", err)
	}
	if enqueueProbe.last == nil || enqueueProbe.last.JobID != gojob.JobIDLinkAttach {
		t.Fatalf("expected go-job message mapping through enqueuer adapter")
	}

	queueRegistry := jobqueuecommand.NewRegistry()
	commandAdapter := gocommand.NewRegistryAdapter(command.NewRegistry())
	if err := commandAdapter.AddQueueResolver("queue", queueRegistry); err != nil {
		t.Fatalf("add queue resolver: %v", err)
	}
	if err := commandAdapter.RegisterCommand(command.CommandFunc[compatMessage](func(context.Context, compatMessage) error {
		return nil
	})); err != nil {
		t.Fatalf("register command: %v", err)
	}
	if err := commandAdapter.Initialize(); err != nil {
		t.Fatalf("initialize command registry: %v", err)
	}
	if _, ok := queueRegistry.Get("payments.compat.command"); !ok {
		t.Fatalf("expected command resolver hook to mirror command into go-job queue registry")
	}
}

func TestRuntimeCompatibility_CommandDispatchThroughWrappers(t *testing.T) {
	svc := &compatMutatingService{}
	adapter := gocommand.NewRegistryAdapter(command.NewRegistry())

	attachSub, err := gocommand.RegisterAndSubscribe(adapter, paymentscommand.NewAttachPaymentLinkCommand(svc))
	if err != nil {
		t.Fatalf("register attach wrapper: %v", err)
	}
	defer attachSub.Unsubscribe()

	cacheSub, err := gocommand.RegisterAndSubscribe(adapter, paymentscommand.NewCachePaymentLinkCommand(svc))
	if err != nil {
		t.Fatalf("register cache wrapper: %v", err)
	}
	defer cacheSub.Unsubscribe()

	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize adapter: %v", err)
	}

	if err := gocommand.Dispatch(context.Background(), paymentscommand.CachePaymentLinkMessage{
		Email:       "jane@example.com",
		PaymentLink: "https://buy.example.com/plink_1",
	}); err != nil {
		t.Fatalf("dispatch cache command: %v", err)
	}
	if svc.cacheCalls != 1 || svc.lastCachedLink != "https://buy.example.com/plink_1" {
		t.Fatalf("expected cache wrapper invocation through dispatch")
	}

	if err := gocommand.Dispatch(context.Background(), paymentscommand.AttachPaymentLinkMessage{
		Email: "jane@example.com",
	}); err != nil {
		t.Fatalf("dispatch attach command: %v", err)
	}
	if svc.attachCalls != 1 || svc.lastAttachEmail != "jane@example.com" {
		t.Fatalf("expected attach wrapper invocation through dispatch")
	}
}

type compatMessage struct{}

func (compatMessage) Type() string { return "payments.compat.command" }

type compatEnqueuer struct {
	last *job.ExecutionMessage
}

func (e *compatEnqueuer) Enqueue(_ context.Context, msg *job.ExecutionMessage) (jobqueue.EnqueueReceipt, error) {
	e.last = msg
	return jobqueue.EnqueueReceipt{}, nil
}

type compatProvider struct {
	logger glog.Logger
}

func (p *compatProvider) GetLogger(string) glog.Logger {
	if p == nil || p.logger == nil {
		return glog.Nop()
	}
	return p.logger
}

type compatLogger struct{}

func (compatLogger) Trace(string, ...any)                    {}
func (compatLogger) Debug(string, ...any)                    {}
func (compatLogger) Info(string, ...any)                     {}
func (compatLogger) Warn(string, ...any)                     {}
func (compatLogger) Error(string, ...any)                    {}
func (compatLogger) Fatal(string, ...any)                    {}
func (compatLogger) WithContext(context.Context) glog.Logger { return compatLogger{} }

type compatMutatingService struct {
	attachCalls     int
	lastAttachEmail string
	cacheCalls      int
	lastCachedLink  string
}

func (s *compatMutatingService) ProcessEvent(context.Context, core.EventEnvelope) (core.EventOutcome, error) {
	return core.EventOutcome{}, nil
}

func (s *compatMutatingService) AttachPaymentLinkFromCache(_ context.Context, email string) error {
	s.attachCalls++
	s.lastAttachEmail = email
	return nil
}

func (s *compatMutatingService) CachePaymentLink(_ context.Context, email, link string) error {
	s.cacheCalls++
	s.lastCachedLink = link
	return nil
}

func (s *compatMutatingService) SendReceiptEmail(context.Context, string) (string, error) {
	return "", nil
}
