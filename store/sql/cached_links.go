package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	repositorycache "github.com/goliatone/go-repository-cache/cache"

	"github.com/goliatone/go-payment-events/core"
)

const linkCacheKeyPrefix = "go-payment-events::plink::v1"

// CachedRecordStore decorates a record store with read-through caching for a
// single table, normally the payment-link cache. The link rows are written
// once per checkout and read again when the attach task fires, so reads are
// the hot path. Finds against any other table pass straight through.
type CachedRecordStore struct {
	base  core.RecordStore
	cache repositorycache.CacheService
	table string
}

func NewCachedRecordStore(
	base core.RecordStore,
	cacheService repositorycache.CacheService,
	table string,
) (*CachedRecordStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base record store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: record cache service is required")
	}
	table = strings.TrimSpace(table)
	if table == "" {
		return nil, fmt.Errorf("sqlstore: cached table name is required")
	}
	return &CachedRecordStore{base: base, cache: cacheService, table: table}, nil
}

// LinkCacheKey returns the deterministic cache key contract for cached link
// reads: go-payment-events::plink::v1::<table>::<field>::<value> with each
// segment URL-path escaped.
func LinkCacheKey(table, field string, value any) string {
	segments := []string{
		strings.TrimSpace(table),
		strings.TrimSpace(field),
		fmt.Sprint(value),
	}
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(append([]string{linkCacheKeyPrefix}, segments...), "::")
}

func (s *CachedRecordStore) Find(ctx context.Context, table, field string, value any) ([]core.Row, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return nil, fmt.Errorf("sqlstore: cached record store is not configured")
	}
	if strings.TrimSpace(table) != s.table {
		return s.base.Find(ctx, table, field, value)
	}

	cacheKey := LinkCacheKey(table, field, value)
	rows, err := repositorycache.GetOrFetch(ctx, s.cache, cacheKey, func(ctx context.Context) ([]core.Row, error) {
		fetched, fetchErr := s.base.Find(ctx, table, field, value)
		if fetchErr != nil {
			return nil, fetchErr
		}
		return cloneRows(fetched), nil
	})
	if err != nil {
		return nil, err
	}
	return cloneRows(rows), nil
}

func (s *CachedRecordStore) Insert(ctx context.Context, table string, fields map[string]any) (string, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return "", fmt.Errorf("sqlstore: cached record store is not configured")
	}
	id, err := s.base.Insert(ctx, table, fields)
	if err != nil {
		return "", err
	}
	if invalidateErr := s.invalidate(ctx, table, fields); invalidateErr != nil {
		return "", invalidateErr
	}
	return id, nil
}

func (s *CachedRecordStore) Update(ctx context.Context, table, rowID string, fields map[string]any) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached record store is not configured")
	}
	if err := s.base.Update(ctx, table, rowID, fields); err != nil {
		return err
	}
	return s.invalidate(ctx, table, fields)
}

func (s *CachedRecordStore) Upsert(ctx context.Context, table, rowID string, fields map[string]any) (string, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return "", fmt.Errorf("sqlstore: cached record store is not configured")
	}
	id, err := s.base.Upsert(ctx, table, rowID, fields)
	if err != nil {
		return "", err
	}
	if invalidateErr := s.invalidate(ctx, table, fields); invalidateErr != nil {
		return "", invalidateErr
	}
	return id, nil
}

// invalidate drops the cached read for every field written, since any of
// them may key a later Find against the cached table.
func (s *CachedRecordStore) invalidate(ctx context.Context, table string, fields map[string]any) error {
	if strings.TrimSpace(table) != s.table {
		return nil
	}
	for field, value := range fields {
		if err := s.cache.Delete(ctx, LinkCacheKey(table, field, value)); err != nil {
			return err
		}
	}
	return nil
}

func cloneRows(rows []core.Row) []core.Row {
	if rows == nil {
		return nil
	}
	cloned := make([]core.Row, 0, len(rows))
	for _, row := range rows {
		fields := make(map[string]any, len(row.Fields))
		for key, value := range row.Fields {
			fields[key] = value
		}
		cloned = append(cloned, core.Row{ID: row.ID, Fields: fields})
	}
	return cloned
}

var _ core.RecordStore = (*CachedRecordStore)(nil)
