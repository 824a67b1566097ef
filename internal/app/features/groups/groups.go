// internal/app/features/groups/groups.go
package groups

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	groupstore "github.com/dalemusser/remindhub/internal/app/store/groups"
	"github.com/dalemusser/remindhub/internal/app/system/auth"
	"github.com/dalemusser/remindhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/remindhub/internal/app/system/timeouts"
	"github.com/dalemusser/remindhub/internal/domain/models"
	"go.uber.org/zap"
)

// createRequest is the JSON payload for creating a group.
type createRequest struct {
	Name       string   `json:"name"`
	StudentIDs []string `json:"student_ids"`
}

// List returns every group.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Store.GetAll(ctx)
	if err != nil {
		h.Log.Error("failed to list groups", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Create stores a new group owned by the caller and returns it.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.Store.Create(ctx, models.Group{
		Name:       htmlsanitize.Sanitize(req.Name),
		StudentIDs: req.StudentIDs,
		CreatedBy:  u.ID,
	})
	if errors.Is(err, groupstore.ErrEmptyGroupName) {
		http.Error(w, "group name is required", http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		h.Log.Error("failed to create group", zap.Error(err), zap.String("user_id", u.ID))
		http.Error(w, "could not create group", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
