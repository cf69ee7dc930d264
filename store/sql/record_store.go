// Package sqlstore provides the bun-backed storage layer: the dynamic
// record store the customer operations run against, the processed-event
// ledger, and a cache decorator for payment-link reads.
//
// Table and column names reach the record store as runtime values because
// operators can remap them, so queries are built dynamically with
// bun.Ident rather than through typed models.
package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-payment-events/core"
)

// RecordStore implements core.RecordStore on a bun database handle.
type RecordStore struct {
	db *bun.DB
}

func NewRecordStore(db *bun.DB) (*RecordStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	return &RecordStore{db: db}, nil
}

// NewRecordStoreFromPersistence accepts either a *bun.DB or anything with a
// DB() *bun.DB accessor, such as a go-persistence-bun client.
func NewRecordStoreFromPersistence(client any) (*RecordStore, error) {
	db, err := resolveBunDB(client)
	if err != nil {
		return nil, err
	}
	return NewRecordStore(db)
}

func (s *RecordStore) Find(ctx context.Context, table, field string, value any) ([]core.Row, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlstore: record store is not configured")
	}
	table = strings.TrimSpace(table)
	field = strings.TrimSpace(field)
	if table == "" || field == "" {
		return nil, fmt.Errorf("sqlstore: table and field are required")
	}

	var raw []map[string]any
	err := s.db.NewSelect().
		ColumnExpr("*").
		TableExpr("?", bun.Ident(table)).
		Where("? = ?", bun.Ident(field), value).
		Scan(ctx, &raw)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: find %s by %s: %w", table, field, err)
	}

	rows := make([]core.Row, 0, len(raw))
	for _, fields := range raw {
		rows = append(rows, core.Row{
			ID:     rowIdentifier(fields),
			Fields: fields,
		})
	}
	return rows, nil
}

func (s *RecordStore) Insert(ctx context.Context, table string, fields map[string]any) (string, error) {
	if s == nil || s.db == nil {
		return "", fmt.Errorf("sqlstore: record store is not configured")
	}
	table = strings.TrimSpace(table)
	if table == "" {
		return "", fmt.Errorf("sqlstore: table is required")
	}

	values := copyFields(fields)
	id := rowIdentifier(values)
	if id == "" {
		// Row ids are generated client side so the insert path works the
		// same on every dialect.
		id = uuid.NewString()
		values["id"] = id
	}

	if _, err := s.db.NewInsert().
		Model(&values).
		TableExpr("?", bun.Ident(table)).
		Exec(ctx); err != nil {
		return "", fmt.Errorf("sqlstore: insert into %s: %w", table, err)
	}
	return id, nil
}

func (s *RecordStore) Update(ctx context.Context, table, rowID string, fields map[string]any) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: record store is not configured")
	}
	table = strings.TrimSpace(table)
	rowID = strings.TrimSpace(rowID)
	if table == "" {
		return fmt.Errorf("sqlstore: table is required")
	}
	if rowID == "" {
		return fmt.Errorf("sqlstore: row id is required")
	}
	if len(fields) == 0 {
		return nil
	}

	values := copyFields(fields)
	delete(values, "id")
	res, err := s.db.NewUpdate().
		Model(&values).
		TableExpr("?", bun.Ident(table)).
		Where("id = ?", rowID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("sqlstore: update %s row %s: %w", table, rowID, err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("sqlstore: update %s row %s: no matching row", table, rowID)
	}
	return nil
}

func (s *RecordStore) Upsert(ctx context.Context, table, rowID string, fields map[string]any) (string, error) {
	if s == nil || s.db == nil {
		return "", fmt.Errorf("sqlstore: record store is not configured")
	}
	rowID = strings.TrimSpace(rowID)
	if rowID == "" {
		return s.Insert(ctx, table, fields)
	}

	values := copyFields(fields)
	delete(values, "id")
	res, err := s.db.NewUpdate().
		Model(&values).
		TableExpr("?", bun.Ident(strings.TrimSpace(table))).
		Where("id = ?", rowID).
		Exec(ctx)
	if err != nil {
		return "", fmt.Errorf("sqlstore: upsert %s row %s: %w", table, rowID, err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return s.Insert(ctx, table, fields)
	}
	return rowID, nil
}

func rowIdentifier(fields map[string]any) string {
	value, ok := fields["id"]
	if !ok || value == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(value))
}

func copyFields(fields map[string]any) map[string]any {
	copied := make(map[string]any, len(fields)+1)
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}
