package core

import (
	"strings"
	"time"
)

// EventKind is the provider event type carried on a webhook payload.
type EventKind string

const (
	KindPaymentIntentCreated   EventKind = "payment_intent.created"
	KindPaymentIntentFailed    EventKind = "payment_intent.payment_failed"
	KindPaymentIntentSucceeded EventKind = "payment_intent.succeeded"
	KindChargeSucceeded        EventKind = "charge.succeeded"
	KindChargeFailed           EventKind = "charge.failed"
	KindCheckoutCompleted      EventKind = "checkout.session.completed"
	KindUnknown                EventKind = "unknown"
)

// ClassifyKind maps a raw provider type string onto the closed kind set.
// Anything outside the set folds to KindUnknown.
func ClassifyKind(raw string) EventKind {
	switch EventKind(strings.TrimSpace(raw)) {
	case KindPaymentIntentCreated:
		return KindPaymentIntentCreated
	case KindPaymentIntentFailed:
		return KindPaymentIntentFailed
	case KindPaymentIntentSucceeded:
		return KindPaymentIntentSucceeded
	case KindChargeSucceeded:
		return KindChargeSucceeded
	case KindChargeFailed:
		return KindChargeFailed
	case KindCheckoutCompleted:
		return KindCheckoutCompleted
	default:
		return KindUnknown
	}
}

// Actionable reports whether the kind triggers record mutations. The
// remaining kinds are acknowledged and dropped without side effects.
func (k EventKind) Actionable() bool {
	return k == KindChargeSucceeded || k == KindCheckoutCompleted
}

func (k EventKind) String() string {
	return string(k)
}

// EventEnvelope is a decoded webhook payload: the classified kind plus the
// provider object the handlers read fields from.
type EventEnvelope struct {
	Kind   EventKind
	Object map[string]any
}

// ChargeSucceededFields are the payload fields a charge.succeeded event
// drives writes from. Extraction substitutes sentinels for anything absent,
// so every field always carries a value.
type ChargeSucceededFields struct {
	CustomerID     string
	Email          string
	Name           string
	Country        string
	ReceiptURL     string
	Status         string
	AmountCaptured int64
}

// Paid reports whether the charge settled.
func (f ChargeSucceededFields) Paid() bool {
	return f.Status == "succeeded"
}

// AmountMajor converts the captured minor-unit amount into major units.
func (f ChargeSucceededFields) AmountMajor() float64 {
	return float64(f.AmountCaptured) / 100
}

// CheckoutCompletedFields are the payload fields a checkout.session.completed
// event drives the payment-link and email flow from.
type CheckoutCompletedFields struct {
	PaymentLink string
	Email       string
}

// EventOutcome summarizes what a dispatched event did. It is recorded on the
// processed-event ledger and returned to callers; the transport layer never
// surfaces it to the webhook sender.
type EventOutcome struct {
	Kind       EventKind
	CustomerID string
	Email      string
	Metadata   map[string]any
}

// ProcessedEvent is a ledger entry for one dispatched webhook event.
type ProcessedEvent struct {
	ID         string
	Kind       EventKind
	CustomerID string
	Email      string
	Status     string
	Error      string
	Metadata   map[string]any
	CreatedAt  time.Time
}

const (
	ProcessedEventStatusOK     = "processed"
	ProcessedEventStatusFailed = "failed"
)

// Row is one record returned by a RecordStore: the backend row identifier
// plus the column values keyed by physical column name.
type Row struct {
	ID     string
	Fields map[string]any
}

// StringField returns the named column as a string. Non-string values report
// absent rather than coercing.
func (r Row) StringField(name string) (string, bool) {
	value, ok := r.Fields[name]
	if !ok || value == nil {
		return "", false
	}
	text, ok := value.(string)
	return text, ok
}

// BoolField returns the named column as a bool. Integer 0/1 is accepted
// because sqlite stores booleans that way.
func (r Row) BoolField(name string) (bool, bool) {
	value, ok := r.Fields[name]
	if !ok || value == nil {
		return false, false
	}
	switch typed := value.(type) {
	case bool:
		return typed, true
	case int64:
		return typed != 0, true
	case int:
		return typed != 0, true
	case float64:
		return typed != 0, true
	default:
		return false, false
	}
}

// FloatField returns the named column as a float64, accepting the integer
// widths drivers and JSON decoders hand back.
func (r Row) FloatField(name string) (float64, bool) {
	value, ok := r.Fields[name]
	if !ok || value == nil {
		return 0, false
	}
	switch typed := value.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case int:
		return float64(typed), true
	default:
		return 0, false
	}
}

// IntField returns the named column as an int64.
func (r Row) IntField(name string) (int64, bool) {
	value, ok := r.Fields[name]
	if !ok || value == nil {
		return 0, false
	}
	switch typed := value.(type) {
	case int64:
		return typed, true
	case int:
		return int64(typed), true
	case float64:
		return int64(typed), true
	default:
		return 0, false
	}
}

// EmailMessage is a fully assembled outbound email.
type EmailMessage struct {
	From    string
	To      string
	Subject string
	HTML    string
}
