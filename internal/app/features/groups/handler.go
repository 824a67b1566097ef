// internal/app/features/groups/handler.go
package groups

import (
	"github.com/dalemusser/remindhub/internal/app/store/docstore"
	groupstore "github.com/dalemusser/remindhub/internal/app/store/groups"
	"go.uber.org/zap"
)

// Handler owns all Groups handlers.
type Handler struct {
	Store *groupstore.Store
	Log   *zap.Logger
}

// NewHandler constructs a Groups Handler.
func NewHandler(docs docstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Store: groupstore.New(docs),
		Log:   logger,
	}
}
