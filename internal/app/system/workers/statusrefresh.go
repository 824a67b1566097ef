// internal/app/system/workers/statusrefresh.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/remindhub/internal/app/store/docstore"
	"github.com/dalemusser/remindhub/internal/app/system/duestatus"
	"github.com/dalemusser/remindhub/internal/app/system/timeouts"
	"github.com/dalemusser/remindhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// StatusRefresh is a background worker that rewrites the persisted status
// cache of reminders whose due day has passed. Reads never trust the cache
// (status is always rederived), but refreshing it keeps stored documents
// presentable to anything querying the collection directly.
type StatusRefresh struct {
	docs     docstore.Store
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewStatusRefresh creates a status refresh worker that sweeps at the given
// interval.
func NewStatusRefresh(docs docstore.Store, logger *zap.Logger, interval time.Duration) *StatusRefresh {
	return &StatusRefresh{
		docs:     docs,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background refresh loop.
func (w *StatusRefresh) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("status refresh worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *StatusRefresh) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("status refresh worker stopped")
}

func (w *StatusRefresh) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *StatusRefresh) sweep() {
	ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.Batch(), w.log, "status refresh sweep")
	defer cancel()

	count, err := w.Sweep(ctx)
	if err != nil {
		w.log.Error("status refresh sweep failed", zap.Error(err))
		return
	}
	if count > 0 {
		w.log.Info("refreshed stale status caches", zap.Int("count", count))
	}
}

// Sweep rewrites every stale status cache once and returns how many
// documents were patched.
func (w *StatusRefresh) Sweep(ctx context.Context) (int, error) {
	docs, err := w.docs.Query(ctx, docstore.Reminders, docstore.Filter{})
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	patched := 0
	for _, doc := range docs {
		var r models.Reminder
		if err := docstore.Decode(doc, &r); err != nil {
			continue
		}
		derived := duestatus.Derive(r.DueDate, r.Completed, now)
		if derived == r.Status {
			continue
		}
		if err := w.docs.Update(ctx, docstore.Reminders, r.ID, bson.M{"status": derived}); err != nil {
			return patched, err
		}
		patched++
	}
	return patched, nil
}
