package command

import (
	"strings"
)

const (
	TypeProcessEvent      = "payments.command.event.process"
	TypeAttachPaymentLink = "payments.command.link.attach"
	TypeCachePaymentLink  = "payments.command.link.cache"
	TypeSendReceiptEmail  = "payments.command.email.send"
)

// ProcessEventMessage carries a raw webhook payload through the command bus.
type ProcessEventMessage struct {
	Payload []byte
}

func (ProcessEventMessage) Type() string { return TypeProcessEvent }

func (m ProcessEventMessage) Validate() error {
	if len(m.Payload) == 0 {
		return commandValidationError("payload", "event payload is required")
	}
	return nil
}

type AttachPaymentLinkMessage struct {
	Email string
}

func (AttachPaymentLinkMessage) Type() string { return TypeAttachPaymentLink }

func (m AttachPaymentLinkMessage) Validate() error {
	if strings.TrimSpace(m.Email) == "" {
		return commandValidationError("email", "email is required")
	}
	return nil
}

type CachePaymentLinkMessage struct {
	Email       string
	PaymentLink string
}

func (CachePaymentLinkMessage) Type() string { return TypeCachePaymentLink }

func (m CachePaymentLinkMessage) Validate() error {
	if strings.TrimSpace(m.Email) == "" {
		return commandValidationError("email", "email is required")
	}
	if strings.TrimSpace(m.PaymentLink) == "" {
		return commandValidationError("payment_link", "payment link is required")
	}
	return nil
}

type SendReceiptEmailMessage struct {
	Recipient string
}

func (SendReceiptEmailMessage) Type() string { return TypeSendReceiptEmail }

func (m SendReceiptEmailMessage) Validate() error {
	if strings.TrimSpace(m.Recipient) == "" {
		return commandValidationError("recipient", "recipient is required")
	}
	return nil
}
