package core

import (
	"encoding/json"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	// UnknownValue substitutes for any absent or mistyped string field so a
	// partial payload never aborts classification.
	UnknownValue = "unknown"
)

// DecodeEnvelope parses a raw webhook body into an envelope. The kind comes
// from the top-level "type" field, the object from "data.object"; both
// degrade to sentinels when absent. Only syntactically invalid JSON is an
// error.
func DecodeEnvelope(body []byte) (EventEnvelope, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return EventEnvelope{}, newPaymentsError("webhook body is not valid JSON: "+err.Error(), goerrors.CategoryBadInput, PaymentsErrorBadInput)
	}
	return EnvelopeFromPayload(raw), nil
}

// EnvelopeFromPayload builds an envelope from an already-parsed payload.
func EnvelopeFromPayload(raw map[string]any) EventEnvelope {
	kind := KindUnknown
	if rawKind, ok := raw["type"].(string); ok {
		kind = ClassifyKind(rawKind)
	}
	object := map[string]any{}
	if data, ok := raw["data"].(map[string]any); ok {
		if nested, ok := data["object"].(map[string]any); ok {
			object = nested
		}
	}
	return EventEnvelope{Kind: kind, Object: object}
}

// ExtractChargeSucceeded pulls the charge.succeeded fields out of a payload
// object, substituting sentinels for anything missing.
func ExtractChargeSucceeded(object map[string]any) ChargeSucceededFields {
	return ChargeSucceededFields{
		CustomerID:     stringAt(object, "id"),
		Email:          stringAt(object, "billing_details", "email"),
		Name:           stringAt(object, "billing_details", "name"),
		Country:        stringAt(object, "billing_details", "address", "country"),
		ReceiptURL:     stringAt(object, "receipt_url"),
		Status:         stringAt(object, "status"),
		AmountCaptured: intAt(object, "amount_captured"),
	}
}

// ExtractCheckoutCompleted pulls the checkout.session.completed fields out
// of a payload object.
func ExtractCheckoutCompleted(object map[string]any) CheckoutCompletedFields {
	return CheckoutCompletedFields{
		PaymentLink: stringAt(object, "payment_link"),
		Email:       stringAt(object, "customer_details", "email"),
	}
}

func stringAt(object map[string]any, path ...string) string {
	value, ok := valueAt(object, path...)
	if !ok {
		return UnknownValue
	}
	text, ok := value.(string)
	if !ok || strings.TrimSpace(text) == "" {
		return UnknownValue
	}
	return text
}

func intAt(object map[string]any, path ...string) int64 {
	value, ok := valueAt(object, path...)
	if !ok {
		return 0
	}
	switch typed := value.(type) {
	case float64:
		return int64(typed)
	case int64:
		return typed
	case int:
		return int64(typed)
	case json.Number:
		parsed, err := typed.Int64()
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func valueAt(object map[string]any, path ...string) (any, bool) {
	if len(path) == 0 {
		return nil, false
	}
	var current any = object
	for _, segment := range path {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[segment]
		if !ok {
			return nil, false
		}
	}
	if current == nil {
		return nil, false
	}
	return current, true
}
