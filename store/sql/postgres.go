package sqlstore

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	_ "github.com/lib/pq"
)

// PersistenceConfig is the configuration surface the persistence client
// reads when opening a connection.
type PersistenceConfig interface {
	GetDebug() bool
	GetDriver() string
	GetServer() string
	GetPingTimeout() time.Duration
	GetOtelIdentifier() string
}

// NewPostgresClient opens the configured postgres database and wraps it in a
// persistence client ready for BuildStores and migrations. The DSN comes
// from cfg.GetServer().
func NewPostgresClient(cfg PersistenceConfig) (*persistence.Client, error) {
	if cfg == nil {
		return nil, errors.New("sqlstore: persistence config is required")
	}
	dsn := strings.TrimSpace(cfg.GetServer())
	if dsn == "" {
		return nil, errors.New("sqlstore: postgres dsn is required")
	}
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	client, err := persistence.New(cfg, sqlDB, pgdialect.New())
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return client, nil
}
