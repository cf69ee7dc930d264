package query

import (
	"strings"
)

const (
	TypeGetCustomerEmail    = "payments.query.customer.email"
	TypeGetCustomerPaid     = "payments.query.customer.paid"
	TypeGetPaymentLink      = "payments.query.link.get"
	TypeListProcessedEvents = "payments.query.events.list"
)

type GetCustomerEmailMessage struct {
	CustomerID string
}

func (GetCustomerEmailMessage) Type() string { return TypeGetCustomerEmail }

func (m GetCustomerEmailMessage) Validate() error {
	if strings.TrimSpace(m.CustomerID) == "" {
		return queryValidationError("customer_id", "customer id is required")
	}
	return nil
}

type GetCustomerPaidMessage struct {
	CustomerID string
}

func (GetCustomerPaidMessage) Type() string { return TypeGetCustomerPaid }

func (m GetCustomerPaidMessage) Validate() error {
	if strings.TrimSpace(m.CustomerID) == "" {
		return queryValidationError("customer_id", "customer id is required")
	}
	return nil
}

type GetPaymentLinkMessage struct {
	Email string
}

func (GetPaymentLinkMessage) Type() string { return TypeGetPaymentLink }

func (m GetPaymentLinkMessage) Validate() error {
	if strings.TrimSpace(m.Email) == "" {
		return queryValidationError("email", "email is required")
	}
	return nil
}

type ListProcessedEventsMessage struct {
	CustomerID string
}

func (ListProcessedEventsMessage) Type() string { return TypeListProcessedEvents }

func (m ListProcessedEventsMessage) Validate() error {
	if strings.TrimSpace(m.CustomerID) == "" {
		return queryValidationError("customer_id", "customer id is required")
	}
	return nil
}
