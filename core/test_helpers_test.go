package core

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-payment-events/naming"
)

type memoryRow struct {
	id     string
	fields map[string]any
}

type memoryRecordStore struct {
	mu     sync.Mutex
	tables map[string][]memoryRow
	nextID int

	findCalls   int
	insertCalls int
	updateCalls int
	upsertCalls int

	failFind   error
	failInsert error
	failUpdate error
	failUpsert error
}

func newMemoryRecordStore() *memoryRecordStore {
	return &memoryRecordStore{tables: map[string][]memoryRow{}}
}

func (m *memoryRecordStore) Find(_ context.Context, table, field string, value any) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findCalls++
	if m.failFind != nil {
		return nil, m.failFind
	}
	var out []Row
	for _, row := range m.tables[table] {
		if fmt.Sprint(row.fields[field]) == fmt.Sprint(value) {
			out = append(out, Row{ID: row.id, Fields: cloneFields(row.fields)})
		}
	}
	return out, nil
}

func (m *memoryRecordStore) Insert(_ context.Context, table string, fields map[string]any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertCalls++
	if m.failInsert != nil {
		return "", m.failInsert
	}
	m.nextID++
	id := fmt.Sprintf("row-%d", m.nextID)
	m.tables[table] = append(m.tables[table], memoryRow{id: id, fields: cloneFields(fields)})
	return id, nil
}

func (m *memoryRecordStore) Update(_ context.Context, table, rowID string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	if m.failUpdate != nil {
		return m.failUpdate
	}
	for i, row := range m.tables[table] {
		if row.id == rowID {
			for key, value := range fields {
				m.tables[table][i].fields[key] = value
			}
			return nil
		}
	}
	return fmt.Errorf("row %q not found in %q", rowID, table)
}

func (m *memoryRecordStore) Upsert(_ context.Context, table, rowID string, fields map[string]any) (string, error) {
	m.mu.Lock()
	m.upsertCalls++
	if m.failUpsert != nil {
		m.mu.Unlock()
		return "", m.failUpsert
	}
	for i, row := range m.tables[table] {
		if row.id == rowID {
			for key, value := range fields {
				m.tables[table][i].fields[key] = value
			}
			m.mu.Unlock()
			return rowID, nil
		}
	}
	m.mu.Unlock()
	return m.Insert(context.Background(), table, fields)
}

func (m *memoryRecordStore) rows(table string) []memoryRow {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]memoryRow, len(m.tables[table]))
	copy(out, m.tables[table])
	return out
}

func (m *memoryRecordStore) field(table, keyField, keyValue, field string) any {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.tables[table] {
		if fmt.Sprint(row.fields[keyField]) == keyValue {
			return row.fields[field]
		}
	}
	return nil
}

type doneCompletion struct{ err error }

func (c doneCompletion) Wait(context.Context) error { return c.err }

// immediateScheduler runs the task inline so tests stay deterministic.
type immediateScheduler struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *immediateScheduler) Schedule(delay time.Duration, task func(ctx context.Context) error) TaskCompletion {
	s.mu.Lock()
	s.delays = append(s.delays, delay)
	s.mu.Unlock()
	if task == nil {
		return doneCompletion{}
	}
	return doneCompletion{err: task(context.Background())}
}

type stubSender struct {
	mu       sync.Mutex
	messages []EmailMessage
	fail     error
	id       string
}

func (s *stubSender) Send(_ context.Context, msg EmailMessage) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return "", s.fail
	}
	s.messages = append(s.messages, msg)
	if s.id == "" {
		return "msg-1", nil
	}
	return s.id, nil
}

func (s *stubSender) sent() []EmailMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]EmailMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

type stubTemplates struct {
	body string
	err  error
	urls []string
}

func (s *stubTemplates) Fetch(_ context.Context, url string) (string, error) {
	s.urls = append(s.urls, url)
	if s.err != nil {
		return "", s.err
	}
	return s.body, nil
}

type memoryLedger struct {
	mu      sync.Mutex
	entries []ProcessedEvent
}

func (l *memoryLedger) Append(_ context.Context, entry ProcessedEvent) (ProcessedEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry.ID = fmt.Sprintf("evt-%d", len(l.entries)+1)
	l.entries = append(l.entries, entry)
	return entry, nil
}

func (l *memoryLedger) ListByCustomer(_ context.Context, customerID string) ([]ProcessedEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []ProcessedEvent
	for _, entry := range l.entries {
		if entry.CustomerID == customerID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (l *memoryLedger) all() []ProcessedEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]ProcessedEvent, len(l.entries))
	copy(out, l.entries)
	return out
}

func resolverWithOverrides(overrides map[string]string) *naming.Resolver {
	return naming.NewResolverWithLookup(func(key string) (string, bool) {
		value, ok := overrides[key]
		return value, ok
	})
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Email.Sender = "billing@example.com"
	cfg.Delays.LinkAttach = time.Millisecond
	cfg.Delays.EmailDispatch = 500 * time.Millisecond
	return cfg
}

func newTestService(t *testing.T, store RecordStore, options ...Option) *Service {
	t.Helper()
	svc, err := NewService(testConfig(), append([]Option{WithRecordStore(store)}, options...)...)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}
