// internal/app/features/notifications/handler.go
package notifications

import (
	"github.com/dalemusser/remindhub/internal/app/store/docstore"
	notificationstore "github.com/dalemusser/remindhub/internal/app/store/notifications"
	"go.uber.org/zap"
)

// Handler owns all Notifications handlers.
type Handler struct {
	Store *notificationstore.Store
	Log   *zap.Logger
}

// NewHandler constructs a Notifications Handler.
func NewHandler(docs docstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Store: notificationstore.New(docs),
		Log:   logger,
	}
}
