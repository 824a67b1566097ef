// internal/app/features/notifications/notifications.go
package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/remindhub/internal/app/store/docstore"
	"github.com/dalemusser/remindhub/internal/app/system/auth"
	"github.com/dalemusser/remindhub/internal/app/system/timeouts"
	"github.com/dalemusser/remindhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// List returns all of the caller's notifications, oldest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Store.ListForUser(ctx, u.ID)
	if err != nil {
		h.Log.Error("failed to list notifications", zap.Error(err), zap.String("user_id", u.ID))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// MarkRead flips is_read on one of the caller's notifications.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Store.GetByID(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.Log.Error("failed to load notification", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	// Nobody mutates a notification belonging to another user.
	if n.UserID != u.ID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	if err := h.Store.MarkRead(ctx, id); err != nil {
		h.Log.Error("failed to mark notification read", zap.Error(err), zap.String("notification_id", id))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead flips is_read on every unread notification of the caller.
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Store.MarkAllRead(ctx, u.ID); err != nil {
		h.Log.Error("failed to mark all notifications read", zap.Error(err), zap.String("user_id", u.ID))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes one of the caller's notifications.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Store.GetByID(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.Log.Error("failed to load notification", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if n.UserID != u.ID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	if err := h.Store.Delete(ctx, id); err != nil {
		h.Log.Error("failed to delete notification", zap.Error(err), zap.String("notification_id", id))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearAll removes every notification of the caller.
func (h *Handler) ClearAll(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	deleted, err := h.Store.ClearAll(ctx, u.ID)
	if err != nil {
		h.Log.Error("failed to clear notifications", zap.Error(err), zap.String("user_id", u.ID))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

// Stream pushes the caller's notification set as server-sent events for the
// live unread badge.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	updates := make(chan []models.Notification, 8)
	sub, err := h.Store.SubscribeForUser(r.Context(), u.ID, func(list []models.Notification) {
		queueSnapshot(updates, list)
	})
	if err != nil {
		h.Log.Error("notification subscribe failed", zap.Error(err), zap.String("user_id", u.ID))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	defer sub.Close()

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
func queueSnapshot(ch chan []models.Notification, list []models.Notification) {
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
