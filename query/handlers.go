package query

import (
	"context"

	"github.com/goliatone/go-payment-events/core"
)

type CustomerReader interface {
	CustomerEmail(ctx context.Context, id string) (string, error)
	CustomerPaid(ctx context.Context, id string) (bool, error)
}

type PaymentLinkReader interface {
	PaymentLink(ctx context.Context, email string) (string, error)
}

type ProcessedEventReader interface {
	ProcessedEvents(ctx context.Context, customerID string) ([]core.ProcessedEvent, error)
}

type GetCustomerEmailQuery struct {
	reader CustomerReader
}

func NewGetCustomerEmailQuery(reader CustomerReader) *GetCustomerEmailQuery {
	return &GetCustomerEmailQuery{reader: reader}
}

func (q *GetCustomerEmailQuery) Query(ctx context.Context, msg GetCustomerEmailMessage) (string, error) {
	if q == nil || q.reader == nil {
		return "", queryDependencyError("query: customer reader is required")
	}
	return q.reader.CustomerEmail(ctx, msg.CustomerID)
}

type GetCustomerPaidQuery struct {
	reader CustomerReader
}

func NewGetCustomerPaidQuery(reader CustomerReader) *GetCustomerPaidQuery {
	return &GetCustomerPaidQuery{reader: reader}
}

func (q *GetCustomerPaidQuery) Query(ctx context.Context, msg GetCustomerPaidMessage) (bool, error) {
	if q == nil || q.reader == nil {
		return false, queryDependencyError("query: customer reader is required")
	}
	return q.reader.CustomerPaid(ctx, msg.CustomerID)
}

type GetPaymentLinkQuery struct {
	reader PaymentLinkReader
}

func NewGetPaymentLinkQuery(reader PaymentLinkReader) *GetPaymentLinkQuery {
	return &GetPaymentLinkQuery{reader: reader}
}

func (q *GetPaymentLinkQuery) Query(ctx context.Context, msg GetPaymentLinkMessage) (string, error) {
	if q == nil || q.reader == nil {
		return "", queryDependencyError("query: payment link reader is required")
	}
	return q.reader.PaymentLink(ctx, msg.Email)
}

type ListProcessedEventsQuery struct {
	reader ProcessedEventReader
}

func NewListProcessedEventsQuery(reader ProcessedEventReader) *ListProcessedEventsQuery {
	return &ListProcessedEventsQuery{reader: reader}
}

func (q *ListProcessedEventsQuery) Query(
	ctx context.Context,
	msg ListProcessedEventsMessage,
) ([]core.ProcessedEvent, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: processed event reader is required")
	}
	return q.reader.ProcessedEvents(ctx, msg.CustomerID)
}
