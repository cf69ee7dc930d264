package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-payment-events/core"
)

// EventLedgerStore persists processed-event entries through a typed
// repository. Unlike the customer tables, the ledger schema is owned by this
// module, so it gets a real bun model.
type EventLedgerStore struct {
	repo repository.Repository[*processedEventRecord]
}

func NewEventLedgerStore(db *bun.DB) (*EventLedgerStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*processedEventRecord](db, processedEventHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid processed event repository wiring: %w", err)
		}
	}
	return &EventLedgerStore{repo: repo}, nil
}

func (s *EventLedgerStore) Append(ctx context.Context, entry core.ProcessedEvent) (core.ProcessedEvent, error) {
	if s == nil || s.repo == nil {
		return core.ProcessedEvent{}, fmt.Errorf("sqlstore: event ledger store is not configured")
	}
	if strings.TrimSpace(string(entry.Kind)) == "" {
		return core.ProcessedEvent{}, fmt.Errorf("sqlstore: event kind is required")
	}
	if strings.TrimSpace(entry.Status) == "" {
		return core.ProcessedEvent{}, fmt.Errorf("sqlstore: event status is required")
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	metadata := entry.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	record := &processedEventRecord{
		ID:         strings.TrimSpace(entry.ID),
		EventKind:  strings.TrimSpace(string(entry.Kind)),
		CustomerID: strings.TrimSpace(entry.CustomerID),
		Email:      strings.TrimSpace(entry.Email),
		Status:     strings.TrimSpace(entry.Status),
		Error:      strings.TrimSpace(entry.Error),
		Metadata:   metadata,
		CreatedAt:  createdAt,
	}
	saved, err := s.repo.Create(ctx, record)
	if err != nil {
		return core.ProcessedEvent{}, err
	}
	return processedEventFromRecord(saved), nil
}

func (s *EventLedgerStore) ListByCustomer(ctx context.Context, customerID string) ([]core.ProcessedEvent, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: event ledger store is not configured")
	}
	id := strings.TrimSpace(customerID)
	if id == "" {
		return nil, fmt.Errorf("sqlstore: customer id is required")
	}

	records, _, err := s.repo.List(ctx,
		repository.SelectBy("customer_id", "=", id),
		repository.OrderBy("created_at DESC"),
	)
	if err != nil {
		return nil, err
	}

	entries := make([]core.ProcessedEvent, 0, len(records))
	for _, record := range records {
		entries = append(entries, processedEventFromRecord(record))
	}
	return entries, nil
}

func processedEventFromRecord(record *processedEventRecord) core.ProcessedEvent {
	if record == nil {
		return core.ProcessedEvent{}
	}
	return core.ProcessedEvent{
		ID:         record.ID,
		Kind:       core.EventKind(record.EventKind),
		CustomerID: record.CustomerID,
		Email:      record.Email,
		Status:     record.Status,
		Error:      record.Error,
		Metadata:   record.Metadata,
		CreatedAt:  record.CreatedAt,
	}
}

var _ core.EventLedger = (*EventLedgerStore)(nil)
