// internal/app/features/notifications/routes.go
package notifications

import (
	"net/http"

	"github.com/dalemusser/remindhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the notifications router. Every endpoint operates strictly
// on the signed-in caller's own notifications.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/", h.List)
	r.Get("/stream", h.Stream)
	r.Post("/read-all", h.MarkAllRead)
	r.Post("/{id}/read", h.MarkRead)
	r.Delete("/{id}", h.Delete)
	r.Delete("/", h.ClearAll)

	return r
}
