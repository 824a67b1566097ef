// internal/app/feed/feed.go

// Package feed merges a user's personal and assigned live reminder streams
// into one consistent view.
//
// The two underlying subscriptions deliver on independent goroutines with no
// ordering guarantee relative to each other, so the merge is idempotent and
// last-write-wins per reminder id: whichever stream emitted a reminder most
// recently supersedes the stale entry from the other.
package feed

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/remindhub/internal/app/store/docstore"
	reminderstore "github.com/dalemusser/remindhub/internal/app/store/reminders"
	"github.com/dalemusser/remindhub/internal/app/system/duestatus"
	"github.com/dalemusser/remindhub/internal/domain/models"
)

type snapshot struct {
	seq   uint64
	items map[string]models.Reminder
}

// Feed is one user's merged live reminder view. Close tears down both
// underlying subscriptions and suppresses further callbacks.
type Feed struct {
	fn  func([]models.Reminder)
	now func() time.Time

	mu       sync.Mutex
	seq      uint64
	personal snapshot
	assigned snapshot
	subs     []docstore.Subscription
	closed   bool
}

// Subscribe opens the personal and assigned streams for the user and invokes
// fn with the merged, status-recomputed list on every emission from either.
//
// The personal stream is filtered down to purely personal reminders: an
// assigned reminder never appears in its creator's personal view.
func Subscribe(ctx context.Context, repo *reminderstore.Store, userID, role string, fn func([]models.Reminder)) (*Feed, error) {
	f := &Feed{fn: fn, now: func() time.Time { return time.Now().UTC() }}

	personalSub, err := repo.Subscribe(ctx, userID, role, reminderstore.ScopePersonal, func(list []models.Reminder) {
		f.apply(&f.personal, onlyPersonal(list))
	})
	if err != nil {
		return nil, err
	}
	f.subs = append(f.subs, personalSub)

	assignedSub, err := repo.Subscribe(ctx, userID, role, reminderstore.ScopeAssigned, func(list []models.Reminder) {
		f.apply(&f.assigned, list)
	})
	if err != nil {
		personalSub.Close()
		return nil, err
	}
	f.subs = append(f.subs, assignedSub)

	return f, nil
}

// Close stops both subscriptions. No callbacks fire after Close returns.
func (f *Feed) Close() {
	f.mu.Lock()
	f.closed = true
	subs := f.subs
	f.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
}

// apply replaces one stream's snapshot and delivers the new merged view.
func (f *Feed) apply(target *snapshot, list []models.Reminder) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}

	f.seq++
	items := make(map[string]models.Reminder, len(list))
	now := f.now()
	for _, r := range list {
		duestatus.Apply(&r, now)
		items[r.ID] = r
	}
	*target = snapshot{seq: f.seq, items: items}

	merged := f.mergeLocked()
	f.mu.Unlock()

	f.fn(merged)
}

// mergeLocked unions the two snapshots by reminder id; when both streams
// carry the same id, the more recently emitted snapshot wins.
func (f *Feed) mergeLocked() []models.Reminder {
	older, newer := &f.personal, &f.assigned
	if older.seq > newer.seq {
		older, newer = newer, older
	}

	byID := make(map[string]models.Reminder, len(older.items)+len(newer.items))
	for id, r := range older.items {
		byID[id] = r
	}
	for id, r := range newer.items {
		byID[id] = r
	}

	merged := make([]models.Reminder, 0, len(byID))
	for _, r := range byID {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool {
		if !merged[i].DueDate.Equal(merged[j].DueDate) {
			return merged[i].DueDate.Before(merged[j].DueDate)
		}
		return merged[i].ID < merged[j].ID
	})
	return merged
}

func onlyPersonal(list []models.Reminder) []models.Reminder {
	out := make([]models.Reminder, 0, len(list))
	for _, r := range list {
		if !r.IsAssigned() {
			out = append(out, r)
		}
	}
	return out
}
