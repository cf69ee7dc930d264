package gocommand

import (
	"fmt"

	commanddispatcher "github.com/goliatone/go-command/dispatcher"

	paymentscommand "github.com/goliatone/go-payment-events/command"
)

// PipelineSubscriptions bundles the dispatcher subscriptions behind the
// pipeline's command set so a host can tear them down together.
type PipelineSubscriptions struct {
	subs []commanddispatcher.Subscription
}

func (p *PipelineSubscriptions) Unsubscribe() {
	if p == nil {
		return
	}
	for _, sub := range p.subs {
		if sub != nil {
			sub.Unsubscribe()
		}
	}
	p.subs = nil
}

// RegisterPipelineCommands registers and subscribes the full pipeline
// command set (event processing, link cache and attach, receipt email) so
// queue deliveries and in-process dispatches share one handler set. On any
// failure the subscriptions made so far are released.
func RegisterPipelineCommands(adapter *RegistryAdapter, service paymentscommand.MutatingService) (*PipelineSubscriptions, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if service == nil {
		return nil, fmt.Errorf("gocommand: mutating service is required")
	}

	out := &PipelineSubscriptions{}

	sub, err := RegisterAndSubscribe(adapter, paymentscommand.NewProcessEventCommand(service))
	if err := appendSubscription(out, sub, err); err != nil {
		return nil, err
	}
	sub, err = RegisterAndSubscribe(adapter, paymentscommand.NewCachePaymentLinkCommand(service))
	if err := appendSubscription(out, sub, err); err != nil {
		return nil, err
	}
	sub, err = RegisterAndSubscribe(adapter, paymentscommand.NewAttachPaymentLinkCommand(service))
	if err := appendSubscription(out, sub, err); err != nil {
		return nil, err
	}
	sub, err = RegisterAndSubscribe(adapter, paymentscommand.NewSendReceiptEmailCommand(service))
	if err := appendSubscription(out, sub, err); err != nil {
		return nil, err
	}

	return out, nil
}

func appendSubscription(out *PipelineSubscriptions, sub commanddispatcher.Subscription, err error) error {
	if err != nil {
		out.Unsubscribe()
		return err
	}
	out.subs = append(out.subs, sub)
	return nil
}
