// internal/app/features/groups/routes.go
package groups

import (
	"net/http"

	"github.com/dalemusser/remindhub/internal/app/system/auth"
	"github.com/dalemusser/remindhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes returns the groups router. Groups are a teacher concern: they exist
// to address sets of students when assigning reminders.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(auth.RequireRole(models.RoleTeacher))

	r.Get("/", h.List)
	r.Post("/", h.Create)

	return r
}
