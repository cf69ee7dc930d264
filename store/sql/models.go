package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

type processedEventRecord struct {
	bun.BaseModel `bun:"table:payment_processed_events,alias:ppe"`

	ID         string         `bun:"id,pk"`
	EventKind  string         `bun:"event_kind,notnull"`
	CustomerID string         `bun:"customer_id"`
	Email      string         `bun:"email"`
	Status     string         `bun:"status,notnull"`
	Error      string         `bun:"error"`
	Metadata   map[string]any `bun:"metadata,type:jsonb,notnull"`
	CreatedAt  time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
