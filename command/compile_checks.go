package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[ProcessEventMessage]      = (*ProcessEventCommand)(nil)
	_ gocmd.Commander[AttachPaymentLinkMessage] = (*AttachPaymentLinkCommand)(nil)
	_ gocmd.Commander[CachePaymentLinkMessage]  = (*CachePaymentLinkCommand)(nil)
	_ gocmd.Commander[SendReceiptEmailMessage]  = (*SendReceiptEmailCommand)(nil)
)
