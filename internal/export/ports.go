// Package export defines the outbound summary publishing boundary.
package export

import (
	"context"
	"time"

	"finanzas/internal/core"
)

// SummaryAppender receives a fresh balance summary after each mirror refresh.
type SummaryAppender interface {
	AppendSummary(ctx context.Context, s core.Summary, refreshedAt time.Time) error
}
