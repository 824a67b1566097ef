// internal/app/features/reminders/handler.go
package reminders

import (
	"github.com/dalemusser/remindhub/internal/app/store/docstore"
	groupstore "github.com/dalemusser/remindhub/internal/app/store/groups"
	notificationstore "github.com/dalemusser/remindhub/internal/app/store/notifications"
	reminderstore "github.com/dalemusser/remindhub/internal/app/store/reminders"
	"go.uber.org/zap"
)

// Handler owns all Reminders handlers.
type Handler struct {
	Repo   *reminderstore.Store
	Groups *groupstore.Store
	Log    *zap.Logger
}

// NewHandler constructs a Reminders Handler on top of the document store.
func NewHandler(docs docstore.Store, notes *notificationstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Repo:   reminderstore.New(docs, notes, logger),
		Groups: groupstore.New(docs),
		Log:    logger,
	}
}
