package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-payment-events/core"
)

type MutatingService interface {
	ProcessEvent(ctx context.Context, envelope core.EventEnvelope) (core.EventOutcome, error)
	AttachPaymentLinkFromCache(ctx context.Context, email string) error
	CachePaymentLink(ctx context.Context, email, link string) error
	SendReceiptEmail(ctx context.Context, recipient string) (string, error)
}

type ProcessEventCommand struct {
	service MutatingService
}

func NewProcessEventCommand(service MutatingService) *ProcessEventCommand {
	return &ProcessEventCommand{service: service}
}

func (c *ProcessEventCommand) Execute(ctx context.Context, msg ProcessEventMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: event service is required")
	}
	envelope, err := core.DecodeEnvelope(msg.Payload)
	if err != nil {
		return err
	}
	out, err := c.service.ProcessEvent(ctx, envelope)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type AttachPaymentLinkCommand struct {
	service MutatingService
}

func NewAttachPaymentLinkCommand(service MutatingService) *AttachPaymentLinkCommand {
	return &AttachPaymentLinkCommand{service: service}
}

func (c *AttachPaymentLinkCommand) Execute(ctx context.Context, msg AttachPaymentLinkMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: link service is required")
	}
	return c.service.AttachPaymentLinkFromCache(ctx, msg.Email)
}

type CachePaymentLinkCommand struct {
	service MutatingService
}

func NewCachePaymentLinkCommand(service MutatingService) *CachePaymentLinkCommand {
	return &CachePaymentLinkCommand{service: service}
}

func (c *CachePaymentLinkCommand) Execute(ctx context.Context, msg CachePaymentLinkMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: link service is required")
	}
	return c.service.CachePaymentLink(ctx, msg.Email, msg.PaymentLink)
}

type SendReceiptEmailCommand struct {
	service MutatingService
}

func NewSendReceiptEmailCommand(service MutatingService) *SendReceiptEmailCommand {
	return &SendReceiptEmailCommand{service: service}
}

func (c *SendReceiptEmailCommand) Execute(ctx context.Context, msg SendReceiptEmailMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: email service is required")
	}
	messageID, err := c.service.SendReceiptEmail(ctx, msg.Recipient)
	if err != nil {
		return err
	}
	storeResult(ctx, messageID)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
