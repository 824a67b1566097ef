// internal/app/features/reminders/routes.go
package reminders

import (
	"net/http"

	"github.com/dalemusser/remindhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the reminders router. All endpoints require a signed-in
// caller; role-specific behavior lives in the handlers.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/feed", h.Feed)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}
