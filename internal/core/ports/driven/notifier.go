package driven

import (
	"context"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// Notifier shows one-off messages to the administrator.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}
