// Package server binds the event pipeline to HTTP. Payment providers expect
// a fast 200 acknowledgement for every delivery, so the handler always
// responds with a static body and reports classification failures through
// logs rather than status codes.
package server

import (
	"context"
	"io"
	"net/http"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-payment-events/core"
)

const AckBody = "Received webhook"

const defaultMaxBodyBytes int64 = 1 << 20 // 1 MiB

// EventProcessor is the slice of core.Service the webhook endpoint needs.
type EventProcessor interface {
	ProcessEvent(ctx context.Context, envelope core.EventEnvelope) (core.EventOutcome, error)
}

type Handler struct {
	Processor    EventProcessor
	Logger       core.Logger
	MaxBodyBytes int64
}

func NewHandler(processor EventProcessor, logger core.Logger) *Handler {
	if logger == nil {
		logger = glog.Nop()
	}
	return &Handler{
		Processor:    processor,
		Logger:       logger,
		MaxBodyBytes: defaultMaxBodyBytes,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Processor == nil {
		http.Error(w, "webhook processor is not configured", http.StatusInternalServerError)
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := h.MaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		h.logger().Warn("webhook body read failed", "error", err.Error())
		h.acknowledge(w)
		return
	}
	if int64(len(body)) > limit {
		h.logger().Warn("webhook body exceeds limit", "limit_bytes", limit)
		h.acknowledge(w)
		return
	}

	envelope, err := core.DecodeEnvelope(body)
	if err != nil {
		h.logger().Warn("webhook payload rejected", "error", err.Error())
		h.acknowledge(w)
		return
	}

	outcome, err := h.Processor.ProcessEvent(r.Context(), envelope)
	if err != nil {
		h.logger().Error("webhook classification failed",
			"kind", string(envelope.Kind),
			"error", err.Error(),
		)
		h.acknowledge(w)
		return
	}

	h.logger().Info("webhook processed",
		"kind", string(outcome.Kind),
		"customer_id", outcome.CustomerID,
	)
	h.acknowledge(w)
}

func (h *Handler) acknowledge(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, AckBody)
}

func (h *Handler) logger() core.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return glog.Nop()
}
