package query

import (
	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-payment-events/core"
)

var (
	_ gocmd.Querier[GetCustomerEmailMessage, string]                   = (*GetCustomerEmailQuery)(nil)
	_ gocmd.Querier[GetCustomerPaidMessage, bool]                      = (*GetCustomerPaidQuery)(nil)
	_ gocmd.Querier[GetPaymentLinkMessage, string]                     = (*GetPaymentLinkQuery)(nil)
	_ gocmd.Querier[ListProcessedEventsMessage, []core.ProcessedEvent] = (*ListProcessedEventsQuery)(nil)
)
