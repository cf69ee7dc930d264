package sqlstore

import (
	"fmt"

	persistence "github.com/goliatone/go-persistence-bun"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-payment-events/core"
)

// RepositoryFactory builds the SQL-backed record store and processed-event
// ledger from a persistence client and serves them through the
// core.StoreProvider contract.
type RepositoryFactory struct {
	db *bun.DB

	cacheService repositorycache.CacheService
	linkTable    string

	recordStore core.RecordStore
	ledgerStore *EventLedgerStore
}

func NewRepositoryFactory() *RepositoryFactory {
	return &RepositoryFactory{}
}

func NewRepositoryFactoryFromPersistence(client *persistence.Client) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory()
	if _, err := factory.BuildStores(client); err != nil {
		return nil, err
	}
	return factory, nil
}

func NewRepositoryFactoryFromDB(db *bun.DB) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory()
	if _, err := factory.BuildStores(db); err != nil {
		return nil, err
	}
	return factory, nil
}

// WithLinkCache enables read-through caching of payment-link lookups against
// the given table. It must be called before BuildStores.
func (f *RepositoryFactory) WithLinkCache(cacheService repositorycache.CacheService, table string) *RepositoryFactory {
	if f == nil {
		return nil
	}
	f.cacheService = cacheService
	f.linkTable = table
	return f
}

func (f *RepositoryFactory) BuildStores(persistenceClient any) (core.StoreProvider, error) {
	if f == nil {
		return nil, fmt.Errorf("sqlstore: repository factory is nil")
	}
	if f.db == nil {
		db, err := resolveBunDB(persistenceClient)
		if err != nil {
			return nil, err
		}
		f.db = db
	}
	if f.recordStore != nil && f.ledgerStore != nil {
		return f, nil
	}
	if err := f.initStores(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *RepositoryFactory) Records() core.RecordStore {
	if f == nil {
		return nil
	}
	return f.recordStore
}

func (f *RepositoryFactory) Ledger() core.EventLedger {
	if f == nil {
		return nil
	}
	return f.ledgerStore
}

func (f *RepositoryFactory) DB() *bun.DB {
	if f == nil {
		return nil
	}
	return f.db
}

func (f *RepositoryFactory) initStores() error {
	recordStore, err := NewRecordStore(f.db)
	if err != nil {
		return err
	}
	if f.cacheService != nil {
		cached, cacheErr := NewCachedRecordStore(recordStore, f.cacheService, f.linkTable)
		if cacheErr != nil {
			return cacheErr
		}
		f.recordStore = cached
	} else {
		f.recordStore = recordStore
	}

	ledgerStore, err := NewEventLedgerStore(f.db)
	if err != nil {
		return err
	}
	f.ledgerStore = ledgerStore
	return nil
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	case *bun.DB:
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("sqlstore: persistence client returned nil bun db")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported persistence client type %T", candidate)
	}
}

var _ core.RepositoryStoreFactory = (*RepositoryFactory)(nil)
var _ core.StoreProvider = (*RepositoryFactory)(nil)
var _ core.RecordStore = (*RecordStore)(nil)
