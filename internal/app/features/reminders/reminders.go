// internal/app/features/reminders/reminders.go
package reminders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/remindhub/internal/app/feed"
	"github.com/dalemusser/remindhub/internal/app/policy/reminderpolicy"
	"github.com/dalemusser/remindhub/internal/app/store/docstore"
	reminderstore "github.com/dalemusser/remindhub/internal/app/store/reminders"
	"github.com/dalemusser/remindhub/internal/app/system/auth"
	"github.com/dalemusser/remindhub/internal/app/system/duestatus"
	"github.com/dalemusser/remindhub/internal/app/system/groupresolve"
	"github.com/dalemusser/remindhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/remindhub/internal/app/system/timeouts"
	"github.com/dalemusser/remindhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// createRequest is the JSON payload for creating a reminder.
type createRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    models.Category `json:"category"`
	Priority    models.Priority `json:"priority"`
	DueDate     time.Time       `json:"due_date"`
	StudentIDs  []string        `json:"student_ids"`
	GroupIDs    []string        `json:"group_ids"`
}

// updateRequest is the JSON payload for a partial update. Shared marks the
// reminder as participating in group-linked fan-out; when omitted it is
// derived from the stored record.
type updateRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Category    *models.Category `json:"category"`
	Priority    *models.Priority `json:"priority"`
	DueDate     *time.Time       `json:"due_date"`
	Completed   *bool            `json:"completed"`
	StudentIDs  *[]string        `json:"student_ids"`
	GroupIDs    *[]string        `json:"group_ids"`
	Shared      *bool            `json:"shared"`
}

// List returns the caller's reminders: a teacher's own records, or the
// reminders a student has been assigned.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Repo.List(ctx, u.ID, u.Role)
	if err != nil {
		h.Log.Error("failed to list reminders", zap.Error(err), zap.String("user_id", u.ID))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Show returns one reminder the caller is allowed to see.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rem, err := h.Repo.GetByID(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, docstore.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.Log.Error("failed to load reminder", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if rem.CreatorID != u.ID && !rem.HasRecipient(u.ID) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	writeJSON(w, http.StatusOK, rem)
}

// Create validates the payload, expands any selected groups into concrete
// recipients, persists the reminder, and returns its id.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	req.Title = htmlsanitize.Sanitize(req.Title)
	req.Description = htmlsanitize.Sanitize(req.Description)
	if req.Title == "" {
		http.Error(w, "title is required", http.StatusUnprocessableEntity)
		return
	}
	if req.Category == "" {
		req.Category = models.CategoryPersonal
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	if !models.ValidCategory(req.Category) || !models.ValidPriority(req.Priority) {
		http.Error(w, "unknown category or priority", http.StatusUnprocessableEntity)
		return
	}
	// Due dates in the past are rejected at the boundary; the repository
	// itself does not enforce this.
	if duestatus.EndOfDay(req.DueDate).Before(time.Now()) {
		http.Error(w, "due date must not be in the past", http.StatusUnprocessableEntity)
		return
	}

	in := reminderstore.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		CreatorID:   u.ID,
		AssignedBy:  models.AssignedBySelf,
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var recipients []string
	if u.Role == models.RoleTeacher && (len(req.StudentIDs) > 0 || len(req.GroupIDs) > 0) {
		expanded, err := groupresolve.Expand(ctx, h.Groups, req.StudentIDs, req.GroupIDs)
		if err != nil {
			h.Log.Error("group expansion failed", zap.Error(err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		recipients = expanded
		in.AssignedBy = models.AssignedByTeacher
		in.StudentIDs = expanded
		in.GroupIDs = req.GroupIDs
	}

	id, err := h.Repo.Create(ctx, in, recipients)
	if err != nil {
		h.Log.Error("failed to create reminder", zap.Error(err), zap.String("user_id", u.ID))
		http.Error(w, "could not create reminder", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Update applies a partial patch to a reminder the caller may edit.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	existing, err := h.Repo.GetByID(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.Log.Error("failed to load reminder", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !reminderpolicy.CanUpdate(existing, u.ID, u.Role) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if req.Title != nil {
		clean := htmlsanitize.Sanitize(*req.Title)
		if clean == "" {
			http.Error(w, "title is required", http.StatusUnprocessableEntity)
			return
		}
		req.Title = &clean
	}
	if req.Description != nil {
		clean := htmlsanitize.Sanitize(*req.Description)
		req.Description = &clean
	}
	if req.Category != nil && !models.ValidCategory(*req.Category) {
		http.Error(w, "unknown category", http.StatusUnprocessableEntity)
		return
	}
	if req.Priority != nil && !models.ValidPriority(*req.Priority) {
		http.Error(w, "unknown priority", http.StatusUnprocessableEntity)
		return
	}

	shared := existing.IsAssigned()
	if req.Shared != nil {
		shared = *req.Shared
	}

	patch := reminderstore.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Completed:   req.Completed,
		StudentIDs:  req.StudentIDs,
		GroupIDs:    req.GroupIDs,
	}
	if err := h.Repo.Update(ctx, id, patch, shared); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.Log.Error("failed to update reminder", zap.Error(err), zap.String("reminder_id", id))
		http.Error(w, "could not update reminder", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete runs the delete state machine for the caller.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	existing, err := h.Repo.GetByID(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.Log.Error("failed to load reminder", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !reminderpolicy.CanDelete(existing, u.ID, u.Role) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var affected []string
	if u.Role == models.RoleTeacher && existing.CreatorID == u.ID {
		affected = existing.StudentIDs
	}

	if err := h.Repo.Delete(ctx, id, u.ID, u.Role, affected); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.Log.Error("failed to delete reminder", zap.Error(err), zap.String("reminder_id", id))
		http.Error(w, "could not delete reminder", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Feed streams the caller's merged personal+assigned reminder view as
// server-sent events, one JSON array per emission.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	updates := make(chan []models.Reminder, 8)
	f, err := feed.Subscribe(r.Context(), h.Repo, u.ID, u.Role, func(list []models.Reminder) {
		queueSnapshot(updates, list)
	})
	if err != nil {
		h.Log.Error("feed subscribe failed", zap.Error(err), zap.String("user_id", u.ID))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for {
		select {
		case <-r.Context().Done():
			return
		case list := <-updates:
			payload, err := json.Marshal(list)
			if err != nil {
				continue
			}
			if _, err := w.Write([]byte("data: ")); err != nil {
				return
			}
			if _, err := w.Write(payload); err != nil {
				return
			}
			if _, err := w.Write([]byte("\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// queueSnapshot enqueues a snapshot for the SSE writer. When the consumer is
// behind it evicts the oldest queued snapshot so the freshest one is always
// what gets written next.
func queueSnapshot(ch chan []models.Reminder, list []models.Reminder) {
	select {
	case ch <- list:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- list:
	default:
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
