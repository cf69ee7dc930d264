package paymentevents

import (
	"context"
	"fmt"
	"reflect"

	paymentscommand "github.com/goliatone/go-payment-events/command"
	"github.com/goliatone/go-payment-events/core"
	paymentsquery "github.com/goliatone/go-payment-events/query"
)

type CommandQueryService interface {
	paymentscommand.MutatingService
	paymentsquery.CustomerReader
	paymentsquery.PaymentLinkReader
}

type Commands struct {
	ProcessEvent      *paymentscommand.ProcessEventCommand
	AttachPaymentLink *paymentscommand.AttachPaymentLinkCommand
	CachePaymentLink  *paymentscommand.CachePaymentLinkCommand
	SendReceiptEmail  *paymentscommand.SendReceiptEmailCommand
}

type Queries struct {
	GetCustomerEmail    *paymentsquery.GetCustomerEmailQuery
	GetCustomerPaid     *paymentsquery.GetCustomerPaidQuery
	GetPaymentLink      *paymentsquery.GetPaymentLinkQuery
	ListProcessedEvents *paymentsquery.ListProcessedEventsQuery
}

type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	eventReader paymentsquery.ProcessedEventReader
}

// WithProcessedEventReader overrides where the event-history query reads
// from, for deployments that keep the ledger outside the service.
func WithProcessedEventReader(reader paymentsquery.ProcessedEventReader) FacadeOption {
	return func(options *facadeOptions) {
		options.eventReader = reader
	}
}

func NewFacade(service CommandQueryService, opts ...FacadeOption) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("paymentevents: command/query service is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	reader := cfg.eventReader
	if reader == nil {
		reader = resolveProcessedEventReader(service)
	}

	facade := &Facade{service: service}
	facade.commands = Commands{
		ProcessEvent:      paymentscommand.NewProcessEventCommand(service),
		AttachPaymentLink: paymentscommand.NewAttachPaymentLinkCommand(service),
		CachePaymentLink:  paymentscommand.NewCachePaymentLinkCommand(service),
		SendReceiptEmail:  paymentscommand.NewSendReceiptEmailCommand(service),
	}
	facade.queries = Queries{
		GetCustomerEmail:    paymentsquery.NewGetCustomerEmailQuery(service),
		GetCustomerPaid:     paymentsquery.NewGetCustomerPaidQuery(service),
		GetPaymentLink:      paymentsquery.NewGetPaymentLinkQuery(service),
		ListProcessedEvents: paymentsquery.NewListProcessedEventsQuery(reader),
	}

	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}

// resolveProcessedEventReader finds an event-history source for the list
// query. The service itself usually exposes one; otherwise the repository
// factory's ledger is adapted when present.
func resolveProcessedEventReader(service CommandQueryService) paymentsquery.ProcessedEventReader {
	if service == nil {
		return nil
	}
	if reader, ok := service.(paymentsquery.ProcessedEventReader); ok {
		return reader
	}
	provider, ok := service.(interface {
		Dependencies() core.ServiceDependencies
	})
	if !ok {
		return nil
	}
	deps := provider.Dependencies()
	if deps.Ledger != nil {
		return &ledgerEventReader{ledger: deps.Ledger}
	}
	if deps.RepositoryFactory == nil {
		return nil
	}

	factoryValue := reflect.ValueOf(deps.RepositoryFactory)
	if !factoryValue.IsValid() {
		return nil
	}
	if factoryValue.Kind() == reflect.Ptr && factoryValue.IsNil() {
		return nil
	}
	method := factoryValue.MethodByName("Ledger")
	if !method.IsValid() || method.Type().NumIn() != 0 || method.Type().NumOut() != 1 {
		return nil
	}

	results, ok := safeReflectCall(method)
	if !ok {
		return nil
	}
	if len(results) != 1 {
		return nil
	}
	candidate := results[0]
	if !candidate.IsValid() {
		return nil
	}
	if candidate.Kind() == reflect.Ptr && candidate.IsNil() {
		return nil
	}
	ledger, ok := candidate.Interface().(core.EventLedger)
	if !ok {
		return nil
	}
	return &ledgerEventReader{ledger: ledger}
}

type ledgerEventReader struct {
	ledger core.EventLedger
}

func (r *ledgerEventReader) ProcessedEvents(ctx context.Context, customerID string) ([]core.ProcessedEvent, error) {
	if r == nil || r.ledger == nil {
		return nil, fmt.Errorf("paymentevents: event ledger is not configured")
	}
	return r.ledger.ListByCustomer(ctx, customerID)
}

func safeReflectCall(method reflect.Value) (_ []reflect.Value, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return method.Call(nil), true
}
