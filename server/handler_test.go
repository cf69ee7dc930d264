package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-payment-events/core"
)

type stubProcessor struct {
	calls    int
	lastKind core.EventKind
	outcome  core.EventOutcome
	err      error
}

func (s *stubProcessor) ProcessEvent(_ context.Context, envelope core.EventEnvelope) (core.EventOutcome, error) {
	s.calls++
	s.lastKind = envelope.Kind
	return s.outcome, s.err
}

func TestHandlerAcknowledgesProcessedEvent(t *testing.T) {
	processor := &stubProcessor{outcome: core.EventOutcome{
		Kind:       core.KindChargeSucceeded,
		CustomerID: "cus_1",
	}}
	handler := NewHandler(processor, nil)

	body := `{"type": "charge.succeeded", "data": {"object": {"customer": "cus_1"}}}`
	req := httptest.NewRequest(http.MethodPost, "/stripe_webhooks", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); got != AckBody {
		t.Fatalf("body = %q, want %q", got, AckBody)
	}
	if processor.calls != 1 {
		t.Fatalf("processor calls = %d, want 1", processor.calls)
	}
	if processor.lastKind != core.KindChargeSucceeded {
		t.Fatalf("dispatched kind = %q", processor.lastKind)
	}
}

func TestHandlerAcknowledgesClassificationFailure(t *testing.T) {
	processor := &stubProcessor{err: errors.New("store unavailable")}
	handler := NewHandler(processor, nil)

	body := `{"type": "charge.succeeded", "data": {"object": {}}}`
	req := httptest.NewRequest(http.MethodPost, "/stripe_webhooks", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even when processing fails", rec.Code)
	}
	if got := rec.Body.String(); got != AckBody {
		t.Fatalf("body = %q, want %q", got, AckBody)
	}
}

func TestHandlerAcknowledgesMalformedPayload(t *testing.T) {
	processor := &stubProcessor{}
	handler := NewHandler(processor, nil)

	req := httptest.NewRequest(http.MethodPost, "/stripe_webhooks", strings.NewReader(`{nope`))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for malformed payloads", rec.Code)
	}
	if processor.calls != 0 {
		t.Fatalf("processor should not run on malformed payloads, got %d calls", processor.calls)
	}
}

func TestHandlerRejectsNonPOST(t *testing.T) {
	handler := NewHandler(&stubProcessor{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/stripe_webhooks", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
	if got := rec.Header().Get("Allow"); got != http.MethodPost {
		t.Fatalf("Allow header = %q, want POST", got)
	}
}

func TestHandlerEnforcesBodyLimit(t *testing.T) {
	processor := &stubProcessor{}
	handler := NewHandler(processor, nil)
	handler.MaxBodyBytes = 16

	req := httptest.NewRequest(http.MethodPost, "/stripe_webhooks", strings.NewReader(strings.Repeat("a", 64)))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for oversized payloads", rec.Code)
	}
	if processor.calls != 0 {
		t.Fatalf("processor should not run on oversized payloads, got %d calls", processor.calls)
	}
}

func TestHandlerRequiresProcessor(t *testing.T) {
	handler := NewHandler(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/stripe_webhooks", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestNewServerWiresRouteAndAddr(t *testing.T) {
	srv, err := New(core.ServerConfig{Port: 4242, Route: "/stripe_webhooks"}, &stubProcessor{}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if srv.Addr() != ":4242" {
		t.Fatalf("addr = %q, want :4242", srv.Addr())
	}
	if srv.Handler() == nil {
		t.Fatalf("expected webhook handler")
	}
}

func TestNewServerRequiresProcessor(t *testing.T) {
	if _, err := New(core.ServerConfig{Port: 4242}, nil, nil); err == nil {
		t.Fatalf("expected error for missing processor")
	}
}
