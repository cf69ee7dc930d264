package core

import (
	"context"
	"fmt"
)

// ProcessEvent classifies the envelope and runs the side-effect sequence its
// kind requires. Ghost kinds and unknown kinds classify without side
// effects. The outcome is always returned, with any side-effect failure
// alongside it; every processed event is appended to the ledger when one is
// configured.
func (s *Service) ProcessEvent(ctx context.Context, envelope EventEnvelope) (EventOutcome, error) {
	if s == nil {
		return EventOutcome{}, fmt.Errorf("core: service is not initialized")
	}
	startedAt := s.now()

	outcome, err := s.dispatchEvent(ctx, envelope)
	s.observeOperation(ctx, startedAt, "event.process", err, map[string]any{
		"event_kind":  envelope.Kind.String(),
		"customer_id": outcome.CustomerID,
	})
	s.appendLedgerEntry(ctx, outcome, err)
	return outcome, s.mapError(err)
}

func (s *Service) dispatchEvent(ctx context.Context, envelope EventEnvelope) (EventOutcome, error) {
	kind := ClassifyKind(envelope.Kind.String())
	switch kind {
	case KindChargeSucceeded:
		return s.handleChargeSucceeded(ctx, envelope.Object)
	case KindCheckoutCompleted:
		return s.handleCheckoutCompleted(ctx, envelope.Object)
	default:
		// Ghost kinds classify only.
		return EventOutcome{Kind: kind}, nil
	}
}

// handleChargeSucceeded runs the strictly ordered write sequence. Later
// steps address the row through the attached email, so a failure aborts the
// remainder and leaves the record partially updated.
func (s *Service) handleChargeSucceeded(ctx context.Context, object map[string]any) (EventOutcome, error) {
	fields := ExtractChargeSucceeded(object)
	outcome := EventOutcome{
		Kind:       KindChargeSucceeded,
		CustomerID: fields.CustomerID,
		Email:      fields.Email,
	}

	if err := s.EnsureCustomer(ctx, fields.CustomerID); err != nil {
		return outcome, err
	}
	if err := s.AttachEmail(ctx, fields.CustomerID, fields.Email); err != nil {
		return outcome, err
	}
	if err := s.UpdateName(ctx, fields.CustomerID, fields.Name); err != nil {
		return outcome, err
	}
	if err := s.UpdateAmountTotal(ctx, fields.CustomerID, fields.AmountMajor()); err != nil {
		return outcome, err
	}
	if err := s.UpdateCountry(ctx, fields.CustomerID, fields.Country); err != nil {
		return outcome, err
	}
	if err := s.UpdateReceiptURL(ctx, fields.CustomerID, fields.ReceiptURL); err != nil {
		return outcome, err
	}
	if err := s.UpdatePaid(ctx, fields.CustomerID, fields.Paid()); err != nil {
		return outcome, err
	}

	outcome.Metadata = map[string]any{
		"amount_total": fields.AmountMajor(),
		"paid":         fields.Paid(),
	}
	return outcome, nil
}

// handleCheckoutCompleted caches the payment link, defers its attachment to
// the customer row, then sends the receipt email once the attachment task
// has finished (bounded by the email dispatch delay) and records the
// delivery status. The call returns only after the whole sequence runs;
// only the link attachment itself is offloaded.
func (s *Service) handleCheckoutCompleted(ctx context.Context, object map[string]any) (EventOutcome, error) {
	fields := ExtractCheckoutCompleted(object)
	outcome := EventOutcome{
		Kind:  KindCheckoutCompleted,
		Email: fields.Email,
	}

	if err := s.CachePaymentLink(ctx, fields.Email, fields.PaymentLink); err != nil {
		return outcome, err
	}

	completion := s.scheduleLinkAttach(fields.Email)

	waitCtx, cancel := context.WithTimeout(ctx, s.config.Delays.EmailDispatch)
	defer cancel()
	if err := completion.Wait(waitCtx); err != nil {
		// Attachment failures and timeouts never abort the email step.
		s.logError(ctx, "payment link attach did not complete", map[string]any{
			"email": fields.Email,
			"error": err.Error(),
		})
	}

	messageID, sendErr := s.SendReceiptEmail(ctx, fields.Email)
	sent := sendErr == nil
	if sendErr != nil {
		s.logError(ctx, "receipt email failed", map[string]any{
			"email": fields.Email,
			"error": sendErr.Error(),
		})
	}
	if err := s.SetEmailSentByEmail(ctx, fields.Email, sent); err != nil {
		return outcome, err
	}

	outcome.Metadata = map[string]any{
		"payment_link": fields.PaymentLink,
		"email_sent":   sent,
	}
	if messageID != "" {
		outcome.Metadata["message_id"] = messageID
	}
	return outcome, nil
}

func (s *Service) scheduleLinkAttach(email string) TaskCompletion {
	scheduler := s.scheduler
	if scheduler == nil {
		scheduler = NewTimerScheduler(s.logger)
	}
	return scheduler.Schedule(s.config.Delays.LinkAttach, func(taskCtx context.Context) error {
		return s.AttachPaymentLinkFromCache(taskCtx, email)
	})
}

func (s *Service) appendLedgerEntry(ctx context.Context, outcome EventOutcome, dispatchErr error) {
	if s == nil || s.ledger == nil {
		return
	}
	entry := ProcessedEvent{
		Kind:       outcome.Kind,
		CustomerID: outcome.CustomerID,
		Email:      outcome.Email,
		Status:     ProcessedEventStatusOK,
		Metadata:   outcome.Metadata,
		CreatedAt:  s.now(),
	}
	if dispatchErr != nil {
		entry.Status = ProcessedEventStatusFailed
		entry.Error = dispatchErr.Error()
	}
	if _, err := s.ledger.Append(ctx, entry); err != nil {
		// The ledger is observability, not correctness. A failed append
		// must not mask the dispatch result.
		s.logError(ctx, "processed event ledger append failed", map[string]any{
			"event_kind": outcome.Kind.String(),
			"error":      err.Error(),
		})
	}
}

// ProcessedEvents returns the ledger entries recorded for a customer id.
func (s *Service) ProcessedEvents(ctx context.Context, customerID string) ([]ProcessedEvent, error) {
	if s == nil || s.ledger == nil {
		return nil, nil
	}
	entries, err := s.ledger.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, s.mapError(err)
	}
	return entries, nil
}
