// Package notify pushes deletion notifications to a messaging channel so
// owners see destructive actions as they happen. Notification failures never
// block or fail the originating delete.
package notify

import (
	"context"

	"github.com/ogoue/ogoue/internal/domain"
)

// Notifier receives a copy of every recorded deletion.
type Notifier interface {
	DeletionRecorded(ctx context.Context, entry *domain.DeletionEntry) error
}

// Noop discards all notifications. Used when Slack is not configured.
type Noop struct{}

func (Noop) DeletionRecorded(context.Context, *domain.DeletionEntry) error { return nil }
